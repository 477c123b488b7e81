package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/mkeyring/keyring"
	"github.com/iov-one/mkeyring/tx"
)

// signature is the output of the sign and status commands.
type signature struct {
	Transaction   string `json:"transaction,omitempty"`
	Authenticator string `json:"authenticator"`
	Address       string `json:"address"`
	Signatures    int    `json:"signatures"`
	Threshold     uint8  `json:"threshold"`
	Satisfied     bool   `json:"satisfied"`
}

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign a raw transaction with the keys of a multi signature account.

Signatures collected by other co-signers can be provided with the -auth flag.
The result contains the signed transaction and the authenticator that should
be passed to the next co-signer until the threshold is satisfied.
`)
		fl.PrintDefaults()
	}
	var (
		kf     = registerKeyringFlags(fl)
		addrFl = fl.String("addr", "", "Address of the account.")
		txFl   = flHex(fl, "tx", "", "Hex encoded raw transaction.")
		authFl = flHex(fl, "auth", "", "Hex encoded authenticator created by other co-signers. Optional.")
	)
	fl.Parse(args)
	requireAddress(*addrFl)

	var existing *tx.Authenticator
	if len(*authFl) != 0 {
		auth, err := tx.ParseAuthenticator(*authFl)
		if err != nil {
			return err
		}
		existing = auth
	}

	kr, done, err := openKeyring(kf)
	if err != nil {
		return err
	}
	defer done(false)

	res, err := kr.PartiallySign(context.Background(), *addrFl, *txFl, existing)
	if err != nil {
		return err
	}
	auth := res.Transaction.Authenticator
	return json.NewEncoder(output).Encode(signature{
		Transaction:   res.Encoded,
		Authenticator: auth.EncodeHex(),
		Address:       auth.PublicKey.Address().String(),
		Signatures:    res.Signatures,
		Threshold:     res.Threshold,
		Satisfied:     res.Satisfied,
	})
}

func cmdStatus(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the signing progress of an authenticator.
`)
		fl.PrintDefaults()
	}
	authFl := flHex(fl, "auth", "", "Hex encoded authenticator.")
	fl.Parse(args)

	auth, err := tx.ParseAuthenticator(*authFl)
	if err != nil {
		return err
	}
	return json.NewEncoder(output).Encode(signature{
		Authenticator: auth.EncodeHex(),
		Address:       auth.PublicKey.Address().String(),
		Signatures:    auth.Signature.Count(),
		Threshold:     auth.PublicKey.Threshold,
		Satisfied:     keyring.New().ThresholdSatisfied(auth),
	})
}
