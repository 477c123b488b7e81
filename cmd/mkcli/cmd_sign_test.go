package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/keyring"
	"github.com/iov-one/mkeyring/keyringtest"
	"github.com/iov-one/mkeyring/keyringtest/assert"
	"github.com/iov-one/mkeyring/tx"
)

func decodeSignature(t testing.TB, out string) signature {
	t.Helper()
	var s signature
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("cannot decode %q: %s", out, err)
	}
	return s
}

func TestMultiPartySigning(t *testing.T) {
	aliceHome, cleanupAlice := testHome(t)
	defer cleanupAlice()
	bobHome, cleanupBob := testHome(t)
	defer cleanupBob()

	registerParticipant(t, aliceHome, keyringtest.Alice)
	registerParticipant(t, bobHome, keyringtest.Bob)

	raw := multied25519.EncodeHex(keyringtest.RawTransaction)

	out, err := execute(cmdSign, aliceHome, "", "-addr", keyringtest.AccountAddress, "-tx", raw)
	assert.Nil(t, err)
	first := decodeSignature(t, out)
	assert.Equal(t, keyringtest.AccountAddress, first.Address)
	assert.Equal(t, 1, first.Signatures)
	assert.Equal(t, uint8(2), first.Threshold)
	assert.Equal(t, false, first.Satisfied)

	// The printed transaction is encoded by the keyring provider.
	kr := keyring.New()
	_, err = kr.Register(context.Background(), keyring.Registration{
		PublicKeys:  keyringtest.Others(keyringtest.Alice),
		PrivateKeys: []string{keyringtest.Alice.PrivateKey},
		Threshold:   keyringtest.Threshold,
	})
	assert.Nil(t, err)
	encoded, err := kr.SignTransaction(context.Background(), keyringtest.AccountAddress, keyringtest.RawTransaction, nil)
	assert.Nil(t, err)
	assert.Equal(t, encoded, first.Transaction)

	out, err = execute(cmdSign, bobHome, "", "-addr", keyringtest.AccountAddress, "-tx", raw, "-auth", first.Authenticator)
	assert.Nil(t, err)
	second := decodeSignature(t, out)
	assert.Equal(t, 2, second.Signatures)
	assert.Equal(t, true, second.Satisfied)

	signed, err := multied25519.DecodeHex(second.Transaction)
	assert.Nil(t, err)
	auth, err := tx.ParseAuthenticator(signed[len(keyringtest.RawTransaction):])
	assert.Nil(t, err)
	if !auth.PublicKey.Verify(tx.SigningMessage(keyringtest.RawTransaction), auth.Signature) {
		t.Fatal("signed transaction does not verify")
	}

	var statusOut bytes.Buffer
	assert.Nil(t, cmdStatus(nil, &statusOut, []string{"-auth", second.Authenticator}))
	status := decodeSignature(t, statusOut.String())
	assert.Equal(t, second.Authenticator, status.Authenticator)
	assert.Equal(t, true, status.Satisfied)
	assert.Equal(t, "", status.Transaction)
}

func TestSignUnknownAccount(t *testing.T) {
	home, cleanup := testHome(t)
	defer cleanup()

	_, err := execute(cmdSign, home, "", "-addr", keyringtest.AccountAddress,
		"-tx", multied25519.EncodeHex(keyringtest.RawTransaction))
	if err == nil {
		t.Fatal("want an error")
	}
}
