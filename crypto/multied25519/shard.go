package multied25519

import (
	"bytes"
	"sort"

	"github.com/iov-one/mkeyring/errors"
	"golang.org/x/crypto/ed25519"
)

// KeyShard holds the complete public key set of a multi signature account
// together with the private keys controlled locally.
type KeyShard struct {
	publicKey *PublicKey
	// private keys indexed by the position of their public key
	privateKeys map[uint8]ed25519.PrivateKey
}

// NewKeyShard builds a shard out of the public keys of other participants
// and the locally held private keys. Public keys of the private keys are
// derived and joined with the given public keys. The resulting set is
// deduplicated and sorted, so the order of the input does not influence the
// account address.
//
// Private keys can be given either as a 32 byte seed or as a 64 byte
// expanded key.
func NewKeyShard(publicKeys, privateKeys [][]byte, threshold uint8) (*KeyShard, error) {
	if len(privateKeys) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "at least one private key is required")
	}

	privs := make([]ed25519.PrivateKey, 0, len(privateKeys))
	for i, raw := range privateKeys {
		switch len(raw) {
		case ed25519.SeedSize:
			privs = append(privs, ed25519.NewKeyFromSeed(raw))
		case ed25519.PrivateKeySize:
			privs = append(privs, ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize]))
		default:
			return nil, errors.Wrapf(errors.ErrInvalidInput, "private key %d: invalid length %d", i, len(raw))
		}
	}

	keys := make([]ed25519.PublicKey, 0, len(publicKeys)+len(privs))
	for i, raw := range publicKeys {
		if len(raw) != ed25519.PublicKeySize {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "public key %d: invalid length %d", i, len(raw))
		}
		k := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(k, raw)
		keys = append(keys, k)
	}
	for _, priv := range privs {
		keys = append(keys, priv.Public().(ed25519.PublicKey))
	}
	keys = uniqueSorted(keys)

	pk, err := NewPublicKey(keys, threshold)
	if err != nil {
		return nil, err
	}

	shard := &KeyShard{
		publicKey:   pk,
		privateKeys: make(map[uint8]ed25519.PrivateKey, len(privs)),
	}
	for _, priv := range privs {
		pos := pk.indexOf(priv.Public().(ed25519.PublicKey))
		if pos < 0 {
			return nil, errors.Wrap(errors.ErrHuman, "private key public key not in the key set")
		}
		shard.privateKeys[uint8(pos)] = priv
	}
	return shard, nil
}

func uniqueSorted(keys []ed25519.PublicKey) []ed25519.PublicKey {
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	res := keys[:0]
	for i, k := range keys {
		if i > 0 && bytes.Equal(k, keys[i-1]) {
			continue
		}
		res = append(res, k)
	}
	return res
}

// PublicKey returns the multi public key of the account.
func (s *KeyShard) PublicKey() *PublicKey {
	keys := make([]ed25519.PublicKey, len(s.publicKey.Keys))
	copy(keys, s.publicKey.Keys)
	return &PublicKey{Keys: keys, Threshold: s.publicKey.Threshold}
}

// Threshold returns the number of signatures required.
func (s *KeyShard) Threshold() uint8 {
	return s.publicKey.Threshold
}

// Address returns the account address.
func (s *KeyShard) Address() Address {
	return s.publicKey.Address()
}

// Positions returns the positions controlled by this shard, ascending.
func (s *KeyShard) Positions() []uint8 {
	positions := make([]uint8, 0, len(s.privateKeys))
	for pos := range s.privateKeys {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	return positions
}

// Sign signs the message with all locally held private keys. The result
// usually does not satisfy the threshold on its own.
func (s *KeyShard) Sign(message []byte) *SignatureShard {
	var sig Signature
	for _, pos := range s.Positions() {
		sig.Signatures = append(sig.Signatures, ed25519.Sign(s.privateKeys[pos], message))
		sig.Bitmap.Set(pos)
	}
	return &SignatureShard{Signature: &sig, Threshold: s.publicKey.Threshold}
}

// Bytes returns the serialized shard:
//
//   n public keys | threshold | n private keys | public keys | private key seeds
//   uint8         | uint8     | uint8          | 32 bytes each | 32 bytes each
//
// Private key seeds are ordered by their position.
func (s *KeyShard) Bytes() []byte {
	positions := s.Positions()
	b := make([]byte, 0, 3+len(s.publicKey.Keys)*ed25519.PublicKeySize+len(positions)*ed25519.SeedSize)
	b = append(b, uint8(len(s.publicKey.Keys)), s.publicKey.Threshold, uint8(len(positions)))
	for _, k := range s.publicKey.Keys {
		b = append(b, k...)
	}
	for _, pos := range positions {
		b = append(b, s.privateKeys[pos][:ed25519.SeedSize]...)
	}
	return b
}

// ParseKeyShard decodes a shard serialized with Bytes.
func ParseKeyShard(b []byte) (*KeyShard, error) {
	if len(b) < 3 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid key shard length %d", len(b))
	}
	nPub, threshold, nPriv := int(b[0]), b[1], int(b[2])
	if want := 3 + nPub*ed25519.PublicKeySize + nPriv*ed25519.SeedSize; len(b) != want {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "want %d bytes key shard, got %d", want, len(b))
	}
	rest := b[3:]
	pubs := make([][]byte, nPub)
	for i := range pubs {
		pubs[i] = rest[:ed25519.PublicKeySize]
		rest = rest[ed25519.PublicKeySize:]
	}
	privs := make([][]byte, nPriv)
	for i := range privs {
		privs[i] = rest[:ed25519.SeedSize]
		rest = rest[ed25519.SeedSize:]
	}
	shard, err := NewKeyShard(pubs, privs, threshold)
	if err != nil {
		return nil, err
	}
	if len(shard.publicKey.Keys) != nPub {
		return nil, errors.Wrap(errors.ErrInvalidInput, "public key set is not canonical")
	}
	return shard, nil
}

// Wipe overwrites the private key material held by the shard. The shard
// must not be used for signing afterwards.
func (s *KeyShard) Wipe() {
	for pos, priv := range s.privateKeys {
		for i := range priv {
			priv[i] = 0
		}
		delete(s.privateKeys, pos)
	}
}
