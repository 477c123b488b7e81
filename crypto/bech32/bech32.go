package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/mkeyring/errors"
)

// Decode converts given bech32 encoded representation into raw payload and a
// human readable part.
func Decode(raw string) (string, []byte, error) {
	hrp, payload, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	payload, err = bech32.ConvertBits(payload, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return hrp, payload, nil
}

// Encode converts given bytes into bech32 encoded representation.
func Encode(hrp string, payload []byte) ([]byte, error) {
	payload, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrap(err, "convert bits")
	}
	raw, err := bech32.Encode(hrp, payload)
	if err != nil {
		return nil, errors.Wrap(err, "bech32 encode")
	}
	return []byte(raw), nil
}

// EncodeVersioned works like Encode but prefixes the converted payload with a
// single 5 bit version value, as done by segwit style identifiers.
func EncodeVersioned(hrp string, version byte, payload []byte) ([]byte, error) {
	if version > 31 {
		return nil, errors.Wrapf(errors.ErrOverflow, "version %d does not fit 5 bits", version)
	}
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrap(err, "convert bits")
	}
	data := make([]byte, 0, len(converted)+1)
	data = append(data, version)
	data = append(data, converted...)
	raw, err := bech32.Encode(hrp, data)
	if err != nil {
		return nil, errors.Wrap(err, "bech32 encode")
	}
	return []byte(raw), nil
}

// DecodeVersioned is the reverse of EncodeVersioned.
func DecodeVersioned(raw string) (string, byte, []byte, error) {
	hrp, data, err := bech32.Decode(raw)
	if err != nil {
		return "", 0, nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if len(data) == 0 {
		return "", 0, nil, errors.Wrap(errors.ErrEmpty, "missing version")
	}
	payload, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", 0, nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return hrp, data[0], payload, nil
}
