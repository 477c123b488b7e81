package multied25519

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/mkeyring/crypto/bech32"
	"github.com/iov-one/mkeyring/errors"
)

const (
	// AddressLength is the size of an account address in bytes.
	AddressLength = 16

	// ReceiptIdentifierHRP is the human readable part of receipt
	// identifiers.
	ReceiptIdentifierHRP = "stc"

	receiptIdentifierVersion = 1
)

// Address identifies an on-chain account.
type Address [AddressLength]byte

// String returns the canonical, lowercase and 0x prefixed representation.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ReceiptIdentifier returns the bech32 encoded, human shareable form of the
// address.
func (a Address) ReceiptIdentifier() (string, error) {
	raw, err := bech32.EncodeVersioned(ReceiptIdentifierHRP, receiptIdentifierVersion, a[:])
	if err != nil {
		return "", errors.Wrap(err, "receipt identifier")
	}
	return string(raw), nil
}

// ParseAddress decodes a hex encoded address. Decoding is case insensitive
// and the 0x prefix is optional. Short representations are left padded with
// zeros, so that "0x1" is a valid address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.TrimPrefix(raw, "0x")
	if raw == "" {
		return a, errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(raw) > 2*AddressLength {
		return a, errors.Wrapf(errors.ErrInvalidInput, "address %q too long", s)
	}
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return a, errors.Wrapf(errors.ErrInvalidInput, "address %q: %s", s, err)
	}
	copy(a[AddressLength-len(b):], b)
	return a, nil
}

// ParseReceiptIdentifier decodes an address from its receipt identifier.
func ParseReceiptIdentifier(s string) (Address, error) {
	var a Address
	hrp, version, payload, err := bech32.DecodeVersioned(s)
	if err != nil {
		return a, errors.Wrap(err, "receipt identifier")
	}
	if hrp != ReceiptIdentifierHRP {
		return a, errors.Wrapf(errors.ErrInvalidInput, "unexpected prefix %q", hrp)
	}
	if version != receiptIdentifierVersion {
		return a, errors.Wrapf(errors.ErrInvalidInput, "unsupported version %d", version)
	}
	// Version 1 identifiers may carry an authentication key after the
	// address. Only the address part is relevant.
	if len(payload) < AddressLength {
		return a, errors.Wrapf(errors.ErrInvalidInput, "payload of %d bytes", len(payload))
	}
	copy(a[:], payload[:AddressLength])
	return a, nil
}

// DecodeHex decodes a hex string with an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return b, nil
}

// EncodeHex returns a lowercase, 0x prefixed hex representation.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
