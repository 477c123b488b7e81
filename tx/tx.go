package tx

import (
	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/errors"
	"golang.org/x/crypto/sha3"
)

// Authenticator variants as defined by the chain.
const (
	VariantEd25519      uint32 = 0
	VariantMultiEd25519 uint32 = 1
)

// rawUserTransactionSalt is the domain separation prefix of transaction
// signing messages.
var rawUserTransactionSalt = sha3.Sum256([]byte("STARCOIN::RawUserTransaction"))

/*
SigningMessage returns the bytes that must be signed to authorize given raw
transaction. raw is the BCS serialized RawUserTransaction.

	sha3_256("STARCOIN::RawUserTransaction") | raw transaction
	32 bytes                                  | BCS bytes
*/
func SigningMessage(raw []byte) []byte {
	msg := make([]byte, 0, len(rawUserTransactionSalt)+len(raw))
	msg = append(msg, rawUserTransactionSalt[:]...)
	return append(msg, raw...)
}

// Authenticator proves that a transaction was signed by a multi signature
// account. The signature may not yet satisfy the threshold.
type Authenticator struct {
	PublicKey *multied25519.PublicKey
	Signature *multied25519.Signature
}

// Validate returns an error if the authenticator is incomplete.
func (a *Authenticator) Validate() error {
	if a == nil {
		return errors.Wrap(errors.ErrEmpty, "authenticator")
	}
	if a.PublicKey == nil {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if err := a.PublicKey.Validate(); err != nil {
		return errors.Wrap(err, "public key")
	}
	if a.Signature == nil {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	for _, pos := range a.Signature.Bitmap.Positions() {
		if int(pos) >= len(a.PublicKey.Keys) {
			return errors.Wrapf(errors.ErrInvalidInput, "signature of position %d out of the key set", pos)
		}
	}
	return nil
}

// SignatureShard returns the authenticator signature together with the
// threshold of its public key.
func (a *Authenticator) SignatureShard() *multied25519.SignatureShard {
	return &multied25519.SignatureShard{
		Signature: a.Signature,
		Threshold: a.PublicKey.Threshold,
	}
}

// Bytes returns the BCS encoding of the authenticator enum.
func (a *Authenticator) Bytes() []byte {
	b := appendULEB128(nil, VariantMultiEd25519)
	b = appendBytes(b, a.PublicKey.Bytes())
	return appendBytes(b, a.Signature.Bytes())
}

// ParseAuthenticator decodes a BCS serialized multi signature authenticator.
func ParseAuthenticator(b []byte) (*Authenticator, error) {
	auth, n, err := readAuthenticator(b)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%d trailing bytes", len(b)-n)
	}
	return auth, nil
}

// DecodeAuthenticator decodes a hex encoded authenticator as returned by
// EncodeHex.
func DecodeAuthenticator(s string) (*Authenticator, error) {
	raw, err := multied25519.DecodeHex(s)
	if err != nil {
		return nil, errors.Wrap(err, "authenticator")
	}
	return ParseAuthenticator(raw)
}

func readAuthenticator(b []byte) (*Authenticator, int, error) {
	variant, offset, err := readULEB128(b)
	if err != nil {
		return nil, 0, errors.Wrap(err, "variant")
	}
	if variant != VariantMultiEd25519 {
		return nil, 0, errors.Wrapf(errors.ErrInvalidInput, "unsupported authenticator variant %d", variant)
	}

	rawPub, n, err := readBytes(b[offset:])
	if err != nil {
		return nil, 0, errors.Wrap(err, "public key")
	}
	offset += n
	pub, err := multied25519.ParsePublicKey(rawPub)
	if err != nil {
		return nil, 0, errors.Wrap(err, "public key")
	}

	rawSig, n, err := readBytes(b[offset:])
	if err != nil {
		return nil, 0, errors.Wrap(err, "signature")
	}
	offset += n
	sig, err := multied25519.ParseSignature(rawSig)
	if err != nil {
		return nil, 0, errors.Wrap(err, "signature")
	}

	auth := &Authenticator{PublicKey: pub, Signature: sig}
	if err := auth.Validate(); err != nil {
		return nil, 0, err
	}
	return auth, offset, nil
}

// SignedTransaction is a raw transaction together with its authenticator.
type SignedTransaction struct {
	Raw           []byte
	Authenticator *Authenticator
}

// Bytes returns the BCS encoding of the signed transaction. The raw
// transaction is already BCS encoded and is written as is.
func (t *SignedTransaction) Bytes() []byte {
	auth := t.Authenticator.Bytes()
	b := make([]byte, 0, len(t.Raw)+len(auth))
	b = append(b, t.Raw...)
	return append(b, auth...)
}

// EncodeHex returns the 0x prefixed hex form of the signed transaction.
func (t *SignedTransaction) EncodeHex() string {
	return multied25519.EncodeHex(t.Bytes())
}

// EncodeAuthenticatedTransaction attaches the authenticator to the raw
// transaction and returns the hex encoded result.
func EncodeAuthenticatedTransaction(raw []byte, auth *Authenticator) (string, error) {
	if len(raw) == 0 {
		return "", errors.Wrap(errors.ErrEmpty, "raw transaction")
	}
	if err := auth.Validate(); err != nil {
		return "", errors.Wrap(err, "authenticator")
	}
	signed := SignedTransaction{Raw: raw, Authenticator: auth}
	return signed.EncodeHex(), nil
}

// EncodeHex returns the 0x prefixed hex form of the authenticator.
func (a *Authenticator) EncodeHex() string {
	return multied25519.EncodeHex(a.Bytes())
}
