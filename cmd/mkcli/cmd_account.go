package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/mkeyring/keyring"
)

func cmdRegister(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Register a multi signature account. Provide public keys of all other
participants and the private key held locally.

When successful, the address of the new account is printed.
`)
		fl.PrintDefaults()
	}
	var (
		kf          = registerKeyringFlags(fl)
		pubFl       = flStrings(fl, "pub", "Hex encoded public key of a participant. Can be provided multiple times.")
		privFl      = flStrings(fl, "priv", "Hex encoded private key held locally. Can be provided multiple times.")
		thresholdFl = fl.Int("threshold", 1, "Number of signatures required to authorize a transaction.")
	)
	fl.Parse(args)

	kr, done, err := openKeyring(kf)
	if err != nil {
		return err
	}
	addrs, err := kr.Register(context.Background(), keyring.Registration{
		PublicKeys:  *pubFl,
		PrivateKeys: *privFl,
		Threshold:   *thresholdFl,
	})
	if err != nil {
		done(false)
		return err
	}
	if err := done(true); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, addrs[len(addrs)-1])
	return err
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print addresses of all registered accounts, one per line, in registration
order.
`)
		fl.PrintDefaults()
	}
	kf := registerKeyringFlags(fl)
	fl.Parse(args)

	kr, done, err := openKeyring(kf)
	if err != nil {
		return err
	}
	defer done(false)

	addrs, err := kr.ListAddresses(context.Background())
	if err != nil {
		return err
	}
	for _, a := range addrs {
		if _, err := fmt.Fprintln(output, a); err != nil {
			return err
		}
	}
	return nil
}

func cmdRemove(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Remove an account from the keystore. Private keys of the account are lost
unless a backup exists.
`)
		fl.PrintDefaults()
	}
	var (
		kf     = registerKeyringFlags(fl)
		addrFl = fl.String("addr", "", "Address of the account.")
	)
	fl.Parse(args)
	requireAddress(*addrFl)

	kr, done, err := openKeyring(kf)
	if err != nil {
		return err
	}
	if err := kr.RemoveAccount(context.Background(), *addrFl); err != nil {
		done(false)
		return err
	}
	return done(true)
}

func cmdExportKey(input io.Reader, output io.Writer, args []string) error {
	return exportCmd(args, `
Print the hex encoded key shard of an account. The result contains private
keys, handle with care.
`, func(kr *keyring.Keyring, addr string) (string, error) {
		return kr.ExportPrivateKey(context.Background(), addr)
	}, output)
}

func cmdExportPubkey(input io.Reader, output io.Writer, args []string) error {
	return exportCmd(args, `
Print the hex encoded multi signature public key of an account.
`, func(kr *keyring.Keyring, addr string) (string, error) {
		return kr.ExportPublicKey(context.Background(), addr)
	}, output)
}

func cmdReceipt(input io.Reader, output io.Writer, args []string) error {
	return exportCmd(args, `
Print the receipt identifier of an account.
`, func(kr *keyring.Keyring, addr string) (string, error) {
		return kr.ReceiptIdentifier(context.Background(), addr)
	}, output)
}

// exportCmd implements commands that print a single value of an account.
func exportCmd(args []string, usage string, export func(*keyring.Keyring, string) (string, error), output io.Writer) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		fl.PrintDefaults()
	}
	var (
		kf     = registerKeyringFlags(fl)
		addrFl = fl.String("addr", "", "Address of the account.")
	)
	fl.Parse(args)
	requireAddress(*addrFl)

	kr, done, err := openKeyring(kf)
	if err != nil {
		return err
	}
	defer done(false)

	val, err := export(kr, *addrFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, val)
	return err
}

func cmdDump(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Write all registrations as JSON. The result contains private keys and can be
used as a backup that is loaded back with the restore command.
`)
		fl.PrintDefaults()
	}
	kf := registerKeyringFlags(fl)
	fl.Parse(args)

	kr, done, err := openKeyring(kf)
	if err != nil {
		return err
	}
	defer done(false)

	regs := kr.Serialize()
	if regs == nil {
		regs = []keyring.Registration{}
	}
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(regs)
}

func cmdRestore(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read registrations written by the dump command from standard input and
replace the keystore content with them.
`)
		fl.PrintDefaults()
	}
	kf := registerKeyringFlags(fl)
	fl.Parse(args)

	var regs []keyring.Registration
	if err := json.NewDecoder(input).Decode(&regs); err != nil {
		return fmt.Errorf("cannot decode registrations: %s", err)
	}

	kr, done, err := openKeyring(kf)
	if err != nil {
		return err
	}
	kr.Deserialize(regs)
	if _, err := kr.ListAddresses(context.Background()); err != nil {
		done(false)
		return err
	}
	return done(true)
}
