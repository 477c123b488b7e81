package main

import (
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// defaultDerivationPath uses the Starcoin coin type.
const defaultDerivationPath = "m/44'/101010'/0'"

// keyPair is the output of the keygen command.
type keyPair struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new Ed25519 key pair that can be used as a participant key of a
multi signature account.

The key is derived from the seed using SLIP-0010 derivation. If no seed is
given, a random one is used. Result is written as JSON with hex encoded keys.
`)
		fl.PrintDefaults()
	}
	var (
		seedFl = flHex(fl, "seed", "", "Hex encoded seed the key is derived from. Random if not provided.")
		pathFl = fl.String("path", env("MKEYRING_DERIVATION_PATH", defaultDerivationPath),
			"Derivation path. You can use MKEYRING_DERIVATION_PATH environment variable to set it.")
	)
	fl.Parse(args)

	seed := *seedFl
	if len(seed) == 0 {
		seed = make([]byte, 64)
		if _, err := rand.Read(seed); err != nil {
			return fmt.Errorf("cannot generate seed: %s", err)
		}
	}

	priv, err := keygen(seed, *pathFl)
	if err != nil {
		return err
	}
	return json.NewEncoder(output).Encode(keyPair{
		PublicKey:  multied25519.EncodeHex(priv.Public().(ed25519.PublicKey)),
		PrivateKey: multied25519.EncodeHex(priv[:ed25519.SeedSize]),
	})
}

// keygen derives an Ed25519 private key from the seed.
func keygen(seed []byte, path string) (ed25519.PrivateKey, error) {
	key, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, fmt.Errorf("cannot derive key for path %q: %s", path, err)
	}
	return ed25519.NewKeyFromSeed(key.Key), nil
}
