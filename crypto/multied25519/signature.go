package multied25519

import (
	"math/bits"

	"github.com/iov-one/mkeyring/errors"
	"golang.org/x/crypto/ed25519"
)

// BitmapSize is the size of the signers bitmap in bytes.
const BitmapSize = 4

// Bitmap marks the positions of the public keys that contributed a
// signature. Position 0 is the most significant bit of the first byte.
type Bitmap [BitmapSize]byte

// Set marks given position as signed.
func (b *Bitmap) Set(pos uint8) {
	b[pos/8] |= 0x80 >> (pos % 8)
}

// IsSet returns true if given position is marked.
func (b Bitmap) IsSet(pos uint8) bool {
	if pos >= MaxNumOfKeys {
		return false
	}
	return b[pos/8]&(0x80>>(pos%8)) != 0
}

// Count returns the number of marked positions.
func (b Bitmap) Count() int {
	var n int
	for _, c := range b {
		n += bits.OnesCount8(c)
	}
	return n
}

// Positions returns all marked positions in ascending order.
func (b Bitmap) Positions() []uint8 {
	positions := make([]uint8, 0, b.Count())
	for pos := uint8(0); pos < MaxNumOfKeys; pos++ {
		if b.IsSet(pos) {
			positions = append(positions, pos)
		}
	}
	return positions
}

// Signature is a, possibly incomplete, threshold signature. Signatures are
// ordered by the position of their signer.
type Signature struct {
	Signatures [][]byte
	Bitmap     Bitmap
}

// Count returns the number of contributed signatures.
func (s *Signature) Count() int {
	if s == nil {
		return 0
	}
	return s.Bitmap.Count()
}

// Bytes returns the serialized form: concatenated signatures followed by
// the bitmap.
func (s *Signature) Bytes() []byte {
	b := make([]byte, 0, len(s.Signatures)*ed25519.SignatureSize+BitmapSize)
	for _, sig := range s.Signatures {
		b = append(b, sig...)
	}
	return append(b, s.Bitmap[:]...)
}

// ParseSignature decodes a signature serialized with Bytes.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) < BitmapSize || (len(b)-BitmapSize)%ed25519.SignatureSize != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid signature length %d", len(b))
	}
	n := (len(b) - BitmapSize) / ed25519.SignatureSize
	var s Signature
	copy(s.Bitmap[:], b[len(b)-BitmapSize:])
	if got := s.Bitmap.Count(); got != n {
		return nil, errors.Wrapf(errors.ErrInvalidInput,
			"bitmap marks %d signers, but %d signatures are present", got, n)
	}
	s.Signatures = make([][]byte, n)
	for i := range s.Signatures {
		sig := make([]byte, ed25519.SignatureSize)
		copy(sig, b[i*ed25519.SignatureSize:])
		s.Signatures[i] = sig
	}
	return &s, nil
}

// SignatureShard is a signature together with the threshold of the public key
// it was created for. Shards created by different co-signers of the same
// account can be merged.
type SignatureShard struct {
	Signature *Signature
	Threshold uint8
}

// IsEnough returns true if the shard carries enough signatures to satisfy
// the threshold.
func (s *SignatureShard) IsEnough() bool {
	if s == nil {
		return false
	}
	return s.Signature.Count() >= int(s.Threshold)
}

// MergeSignatureShards combines given shards into a single one carrying the
// union of their signatures. All shards must declare the same threshold.
// When more than one shard contains a signature for the same position, the
// first one is used.
func MergeSignatureShards(shards ...*SignatureShard) (*SignatureShard, error) {
	if len(shards) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no signature shards")
	}

	threshold := shards[0].Threshold
	bySigner := make(map[uint8][]byte)
	for i, sh := range shards {
		if sh == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "signature shard %d", i)
		}
		if sh.Threshold != threshold {
			return nil, errors.Wrapf(errors.ErrInvalidInput,
				"signature shard %d threshold %d does not match %d", i, sh.Threshold, threshold)
		}
		if sh.Signature == nil {
			continue
		}
		positions := sh.Signature.Bitmap.Positions()
		if len(positions) != len(sh.Signature.Signatures) {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "signature shard %d: bitmap mismatch", i)
		}
		for j, pos := range positions {
			if _, ok := bySigner[pos]; !ok {
				bySigner[pos] = sh.Signature.Signatures[j]
			}
		}
	}

	var merged Signature
	for pos := uint8(0); pos < MaxNumOfKeys; pos++ {
		sig, ok := bySigner[pos]
		if !ok {
			continue
		}
		merged.Bitmap.Set(pos)
		merged.Signatures = append(merged.Signatures, sig)
	}
	return &SignatureShard{Signature: &merged, Threshold: threshold}, nil
}
