package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/mkeyring/errors"
	"github.com/iov-one/mkeyring/keyring"
	"github.com/iov-one/mkeyring/store"
	"github.com/tendermint/tendermint/libs/log"
)

// keystoreName is the name of the database created in the home directory.
const keystoreName = "keyring"

// keyringFlags are flags shared by all commands that access the keystore.
type keyringFlags struct {
	home     *string
	logLevel *string
}

func registerKeyringFlags(fl *flag.FlagSet) keyringFlags {
	return keyringFlags{
		home: fl.String("home", env("MKEYRING_HOME", filepath.Join(os.Getenv("HOME"), ".mkeyring")),
			"Directory where the keystore is kept. You can use MKEYRING_HOME environment variable to set it."),
		logLevel: fl.String("log-level", env("MKEYRING_LOG_LEVEL", "error"),
			"Log level, one of debug, info, error, none. You can use MKEYRING_LOG_LEVEL environment variable to set it."),
	}
}

// openKeyring loads the keyring from the keystore. The returned function
// writes all changes back and releases the keystore. It must always be
// called.
func openKeyring(flags keyringFlags) (*keyring.Keyring, func(save bool) error, error) {
	logger, err := newLogger(*flags.logLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(*flags.home, 0700); err != nil {
		return nil, nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	ks, err := store.OpenKeystore(keystoreName, *flags.home)
	if err != nil {
		return nil, nil, err
	}
	regs, err := ks.Load()
	if err != nil {
		ks.Close()
		return nil, nil, errors.Wrap(err, "load keystore")
	}

	kr := keyring.New(keyring.WithLogger(logger))
	kr.Deserialize(regs)

	closeFn := func(save bool) error {
		defer ks.Close()
		defer kr.ReleaseShards()
		if !save {
			return nil
		}
		if err := ks.Save(kr.Serialize()); err != nil {
			return errors.Wrap(err, "save keystore")
		}
		return nil
	}
	return kr, closeFn, nil
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

// requireAddress terminates the process if the address flag was not set.
func requireAddress(addr string) {
	if addr == "" {
		fmt.Fprintln(os.Stderr, "-addr flag is required")
		os.Exit(2)
	}
}
