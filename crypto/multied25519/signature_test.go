package multied25519_test

import (
	"testing"

	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/errors"
	"github.com/iov-one/mkeyring/keyringtest"
	"github.com/iov-one/mkeyring/keyringtest/assert"
)

func TestBitmap(t *testing.T) {
	var b multied25519.Bitmap
	b.Set(0)
	b.Set(9)
	b.Set(31)

	assert.Equal(t, multied25519.Bitmap{0x80, 0x40, 0x00, 0x01}, b)
	assert.Equal(t, 3, b.Count())
	assert.Equal(t, []uint8{0, 9, 31}, b.Positions())
	if b.IsSet(1) || b.IsSet(32) {
		t.Fatal("unexpected position set")
	}
}

// referenceShards returns the key shards of all three participants of the
// reference account, each one holding only its own private key.
func referenceShards(t testing.TB, threshold uint8) map[string]*multied25519.KeyShard {
	t.Helper()
	shards := make(map[string]*multied25519.KeyShard)
	for _, p := range []keyringtest.Participant{keyringtest.Alice, keyringtest.Bob, keyringtest.Tom} {
		shards[p.Name] = mustShard(t, keyringtest.Others(p), []string{p.PrivateKey}, threshold)
	}
	return shards
}

func TestMergeReachesThreshold(t *testing.T) {
	msg := []byte("transfer 1 STC")

	cases := map[string]struct {
		threshold  uint8
		signers    []string
		wantEnough bool
	}{
		"single signer of 2": {
			threshold:  2,
			signers:    []string{"alice"},
			wantEnough: false,
		},
		"two signers of 2": {
			threshold:  2,
			signers:    []string{"alice", "tom"},
			wantEnough: true,
		},
		"two signers of 3": {
			threshold:  3,
			signers:    []string{"bob", "tom"},
			wantEnough: false,
		},
		"three signers of 3": {
			threshold:  3,
			signers:    []string{"bob", "tom", "alice"},
			wantEnough: true,
		},
		"the same signer twice is counted once": {
			threshold:  2,
			signers:    []string{"bob", "bob"},
			wantEnough: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			shards := referenceShards(t, tc.threshold)

			var sigs []*multied25519.SignatureShard
			for _, name := range tc.signers {
				sigs = append(sigs, shards[name].Sign(msg))
			}
			merged, err := multied25519.MergeSignatureShards(sigs...)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantEnough, merged.IsEnough())

			pub := shards["alice"].PublicKey()
			assert.Equal(t, tc.wantEnough, pub.Verify(msg, merged.Signature))
		})
	}
}

func TestMergeIsOrderIndependent(t *testing.T) {
	msg := []byte("message")
	shards := referenceShards(t, 2)

	a, err := multied25519.MergeSignatureShards(shards["tom"].Sign(msg), shards["alice"].Sign(msg))
	assert.Nil(t, err)
	b, err := multied25519.MergeSignatureShards(shards["alice"].Sign(msg), shards["tom"].Sign(msg))
	assert.Nil(t, err)
	assert.Equal(t, a.Signature.Bytes(), b.Signature.Bytes())
}

func TestMergeThresholdMismatch(t *testing.T) {
	msg := []byte("message")
	a := referenceShards(t, 2)["alice"].Sign(msg)
	b := referenceShards(t, 3)["bob"].Sign(msg)

	_, err := multied25519.MergeSignatureShards(a, b)
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = multied25519.MergeSignatureShards()
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestSignatureSerialization(t *testing.T) {
	msg := []byte("message")
	shards := referenceShards(t, 2)
	merged, err := multied25519.MergeSignatureShards(shards["bob"].Sign(msg), shards["tom"].Sign(msg))
	assert.Nil(t, err)

	raw := merged.Signature.Bytes()
	if want := 2*64 + multied25519.BitmapSize; len(raw) != want {
		t.Fatalf("want %d bytes, got %d", want, len(raw))
	}
	sig, err := multied25519.ParseSignature(raw)
	assert.Nil(t, err)
	assert.Equal(t, merged.Signature, sig)

	// Bitmap claiming three signers with only two signatures present.
	broken := append([]byte{}, raw...)
	broken[len(broken)-1] |= 0x01
	_, err = multied25519.ParseSignature(broken)
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestPublicKeySerialization(t *testing.T) {
	raw := keyringtest.MustDecodeHex(keyringtest.AccountPublicKey)
	pub, err := multied25519.ParsePublicKey(raw)
	assert.Nil(t, err)
	assert.Equal(t, uint8(2), pub.Threshold)
	assert.Equal(t, 3, len(pub.Keys))
	assert.Equal(t, keyringtest.AccountAddress, pub.Address().String())

	_, err = multied25519.ParsePublicKey(raw[1:])
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestVerifyRejectsForgery(t *testing.T) {
	msg := []byte("message")
	shards := referenceShards(t, 2)
	merged, err := multied25519.MergeSignatureShards(shards["bob"].Sign(msg), shards["tom"].Sign(msg))
	assert.Nil(t, err)

	pub := shards["bob"].PublicKey()
	if pub.Verify([]byte("another message"), merged.Signature) {
		t.Fatal("signature of a different message accepted")
	}
	if pub.Verify(msg, nil) {
		t.Fatal("nil signature accepted")
	}
}
