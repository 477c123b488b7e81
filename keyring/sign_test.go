package keyring_test

import (
	"context"
	"testing"

	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/errors"
	"github.com/iov-one/mkeyring/keyring"
	"github.com/iov-one/mkeyring/keyringtest"
	"github.com/iov-one/mkeyring/keyringtest/assert"
	"github.com/iov-one/mkeyring/tx"
)

// participantKeyring returns a keyring holding the reference account as
// seen by given participant.
func participantKeyring(t testing.TB, p keyringtest.Participant) *keyring.Keyring {
	t.Helper()
	kr := keyring.New()
	if _, err := kr.Register(context.Background(), registrationOf(p)); err != nil {
		t.Fatalf("cannot register %s account: %s", p.Name, err)
	}
	return kr
}

func TestSignBelowThreshold(t *testing.T) {
	ctx := context.Background()
	kr := participantKeyring(t, keyringtest.Alice)

	res, err := kr.PartiallySign(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, res.Signatures)
	assert.Equal(t, uint8(keyringtest.Threshold), res.Threshold)
	assert.Equal(t, false, res.Satisfied)
	assert.Equal(t, false, kr.ThresholdSatisfied(res.Transaction.Authenticator))
	assert.Equal(t, keyringtest.AccountPublicKey, multied25519.EncodeHex(res.Transaction.Authenticator.PublicKey.Bytes()))
	// Alice holds the first position of the sorted key set.
	assert.Equal(t, []uint8{0}, res.Transaction.Authenticator.Signature.Bitmap.Positions())

	encoded, err := kr.SignTransaction(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, nil)
	assert.Nil(t, err)
	assert.Equal(t, res.Transaction.EncodeHex(), encoded)
	assert.Equal(t, encoded, res.Encoded)
}

func TestMultiRoundSigning(t *testing.T) {
	ctx := context.Background()
	alice := participantKeyring(t, keyringtest.Alice)
	bob := participantKeyring(t, keyringtest.Bob)
	tom := participantKeyring(t, keyringtest.Tom)

	first, err := alice.PartiallySign(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, nil)
	assert.Nil(t, err)
	assert.Equal(t, false, first.Satisfied)

	// The partial authenticator travels to the next co-signer in its
	// encoded form.
	handover, err := tx.DecodeAuthenticator(first.Transaction.Authenticator.EncodeHex())
	assert.Nil(t, err)

	second, err := bob.PartiallySign(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, handover)
	assert.Nil(t, err)
	assert.Equal(t, 2, second.Signatures)
	assert.Equal(t, true, second.Satisfied)
	assert.Equal(t, true, bob.ThresholdSatisfied(second.Transaction.Authenticator))
	assert.Equal(t, []uint8{0, 2}, second.Transaction.Authenticator.Signature.Bitmap.Positions())

	auth := second.Transaction.Authenticator
	if !auth.PublicKey.Verify(tx.SigningMessage(keyringtest.RawTransaction), auth.Signature) {
		t.Fatal("merged signature does not verify")
	}

	// Signing again with a key that already contributed does not add a
	// signature.
	again, err := bob.PartiallySign(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, auth)
	assert.Nil(t, err)
	assert.Equal(t, 2, again.Signatures)

	// Additional signatures above the threshold are kept.
	third, err := tom.PartiallySign(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, auth)
	assert.Nil(t, err)
	assert.Equal(t, 3, third.Signatures)
	assert.Equal(t, true, third.Satisfied)

	encoded, err := tom.SignTransaction(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, auth)
	assert.Nil(t, err)
	assert.Equal(t, third.Transaction.EncodeHex(), encoded)
}

func TestMergeIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	alice := participantKeyring(t, keyringtest.Alice)
	tom := participantKeyring(t, keyringtest.Tom)

	a, err := alice.PartiallySign(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, nil)
	assert.Nil(t, err)
	at, err := tom.SignTransaction(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, a.Transaction.Authenticator)
	assert.Nil(t, err)

	b, err := tom.PartiallySign(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, nil)
	assert.Nil(t, err)
	ta, err := alice.SignTransaction(ctx, keyringtest.AccountAddress, keyringtest.RawTransaction, b.Transaction.Authenticator)
	assert.Nil(t, err)

	assert.Equal(t, at, ta)
}

func TestSignErrors(t *testing.T) {
	ctx := context.Background()

	pub, _ := keyringtest.NewKey()
	_, priv := keyringtest.NewKey()
	foreign := keyring.New()
	addrs, err := foreign.Register(ctx, keyring.Registration{
		PublicKeys:  []string{pub},
		PrivateKeys: []string{priv},
		Threshold:   2,
	})
	assert.Nil(t, err)
	foreignRes, err := foreign.PartiallySign(ctx, addrs[0], keyringtest.RawTransaction, nil)
	assert.Nil(t, err)

	cases := map[string]struct {
		address  string
		raw      []byte
		existing *tx.Authenticator
		wantErr  *errors.Error
	}{
		"unknown account": {
			address: addrs[0],
			raw:     keyringtest.RawTransaction,
			wantErr: errors.ErrAccountNotFound,
		},
		"empty transaction": {
			address: keyringtest.AccountAddress,
			raw:     nil,
			wantErr: errors.ErrEmpty,
		},
		"authenticator of another account": {
			address:  keyringtest.AccountAddress,
			raw:      keyringtest.RawTransaction,
			existing: foreignRes.Transaction.Authenticator,
			wantErr:  errors.ErrInvalidInput,
		},
		"authenticator without signature": {
			address:  keyringtest.AccountAddress,
			raw:      keyringtest.RawTransaction,
			existing: &tx.Authenticator{PublicKey: foreignRes.Transaction.Authenticator.PublicKey},
			wantErr:  errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kr := participantKeyring(t, keyringtest.Alice)

			_, err := kr.SignTransaction(ctx, tc.address, tc.raw, tc.existing)
			assert.IsErr(t, tc.wantErr, err)

			_, err = kr.PartiallySign(ctx, tc.address, tc.raw, tc.existing)
			assert.IsErr(t, tc.wantErr, err)

			addrs, err := kr.ListAddresses(ctx)
			assert.Nil(t, err)
			assert.Equal(t, []string{keyringtest.AccountAddress}, addrs)
		})
	}
}
