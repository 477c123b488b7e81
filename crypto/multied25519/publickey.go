package multied25519

import (
	"bytes"
	"crypto/subtle"

	"github.com/iov-one/mkeyring/errors"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"
)

const (
	// MaxNumOfKeys is the maximum number of participants of a single multi
	// public key. It is limited by the size of the signature bitmap.
	MaxNumOfKeys = 32

	// Scheme is the authentication scheme identifier mixed into the
	// authentication key of multi signature accounts.
	Scheme byte = 1
)

// PublicKey is a threshold public key built from an ordered set of Ed25519
// public keys.
type PublicKey struct {
	Keys      []ed25519.PublicKey
	Threshold uint8
}

// NewPublicKey returns a validated public key.
func NewPublicKey(keys []ed25519.PublicKey, threshold uint8) (*PublicKey, error) {
	pk := &PublicKey{Keys: keys, Threshold: threshold}
	if err := pk.Validate(); err != nil {
		return nil, err
	}
	return pk, nil
}

// Validate returns an error if the key set or the threshold are not valid.
func (pk *PublicKey) Validate() error {
	switch n := len(pk.Keys); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "no public keys")
	case n > MaxNumOfKeys:
		return errors.Wrapf(errors.ErrOverflow, "%d public keys, at most %d allowed", n, MaxNumOfKeys)
	}
	for i, k := range pk.Keys {
		if len(k) != ed25519.PublicKeySize {
			return errors.Wrapf(errors.ErrInvalidInput, "public key %d: invalid length %d", i, len(k))
		}
	}
	if pk.Threshold == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "threshold must be greater than 0")
	}
	if int(pk.Threshold) > len(pk.Keys) {
		return errors.Wrapf(errors.ErrInvalidInput,
			"threshold %d greater than the number of keys %d", pk.Threshold, len(pk.Keys))
	}
	return nil
}

// Bytes returns the serialized form: all public keys followed by the
// threshold byte.
func (pk *PublicKey) Bytes() []byte {
	b := make([]byte, 0, len(pk.Keys)*ed25519.PublicKeySize+1)
	for _, k := range pk.Keys {
		b = append(b, k...)
	}
	return append(b, pk.Threshold)
}

// ParsePublicKey decodes a public key serialized with Bytes.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) == 0 || (len(b)-1)%ed25519.PublicKeySize != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid public key length %d", len(b))
	}
	n := (len(b) - 1) / ed25519.PublicKeySize
	keys := make([]ed25519.PublicKey, n)
	for i := range keys {
		k := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(k, b[i*ed25519.PublicKeySize:])
		keys[i] = k
	}
	return NewPublicKey(keys, b[len(b)-1])
}

// Equal returns true if both keys have the same key set and threshold.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return bytes.Equal(pk.Bytes(), other.Bytes())
}

// AuthenticationKey returns the sha3 hash of the public key and scheme.
func (pk *PublicKey) AuthenticationKey() [32]byte {
	return sha3.Sum256(append(pk.Bytes(), Scheme))
}

// Address returns the account address, which is the last 16 bytes of the
// authentication key.
func (pk *PublicKey) Address() Address {
	var a Address
	authKey := pk.AuthenticationKey()
	copy(a[:], authKey[len(authKey)-AddressLength:])
	return a
}

// Verify returns true if the signature carries at least threshold valid
// signatures of the message.
func (pk *PublicKey) Verify(message []byte, sig *Signature) bool {
	if sig == nil || len(pk.Keys) == 0 {
		return false
	}
	positions := sig.Bitmap.Positions()
	if len(positions) != len(sig.Signatures) {
		return false
	}
	if len(positions) < int(pk.Threshold) {
		return false
	}
	for i, pos := range positions {
		if int(pos) >= len(pk.Keys) {
			return false
		}
		if !ed25519.Verify(pk.Keys[pos], message, sig.Signatures[i]) {
			return false
		}
	}
	return true
}

// indexOf returns the position of the given key or -1.
func (pk *PublicKey) indexOf(key ed25519.PublicKey) int {
	for i, k := range pk.Keys {
		if subtle.ConstantTimeCompare(k, key) == 1 {
			return i
		}
	}
	return -1
}
