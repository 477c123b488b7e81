package keyring

import (
	"context"
	"math"

	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/errors"
	"github.com/iov-one/mkeyring/tx"
)

// Shard is the key material of a single account as held by this keyring.
type Shard interface {
	// Address returns the account address.
	Address() string
	// PublicKey returns the multi public key of the account.
	PublicKey() *multied25519.PublicKey
	// PrivateKeyHex returns the exported, hex encoded shard.
	PrivateKeyHex() string
	// ReceiptIdentifier returns the human shareable form of the address.
	ReceiptIdentifier() (string, error)
}

// CryptoProvider implements the cryptographic primitives used by the keyring.
type CryptoProvider interface {
	// DeriveShard builds a key shard out of a registration. A shard that
	// implements Wipe is wiped only once the account holding it is removed
	// or released. Shards the registry rejects are left untouched.
	DeriveShard(ctx context.Context, publicKeys, privateKeys []string, threshold int) (Shard, error)
	// PartialSign signs the raw transaction with all private keys of the
	// shard.
	PartialSign(ctx context.Context, shard Shard, rawTx []byte) (*multied25519.SignatureShard, error)
	// MergeSignatureShards combines signatures collected for the same
	// public key.
	MergeSignatureShards(shards ...*multied25519.SignatureShard) (*multied25519.SignatureShard, error)
	// IsThresholdSatisfied returns true if the signature carries enough
	// signatures.
	IsThresholdSatisfied(sig *multied25519.SignatureShard) bool
	// EncodeAuthenticatedTransaction returns the hex encoded signed
	// transaction.
	EncodeAuthenticatedTransaction(rawTx []byte, auth *tx.Authenticator) (string, error)
}

// StarcoinProvider is the default CryptoProvider. It implements Starcoin
// multi Ed25519 accounts.
type StarcoinProvider struct{}

var _ CryptoProvider = StarcoinProvider{}

// DeriveShard implements CryptoProvider.
func (StarcoinProvider) DeriveShard(ctx context.Context, publicKeys, privateKeys []string, threshold int) (Shard, error) {
	if threshold < 1 || threshold > math.MaxUint8 {
		return nil, errors.Wrapf(errors.ErrInvalidRegistration, "threshold %d out of range", threshold)
	}
	if n := len(publicKeys) + len(privateKeys); threshold > n {
		return nil, errors.Wrapf(errors.ErrInvalidRegistration,
			"threshold %d greater than the number of keys %d", threshold, n)
	}
	pubs, err := decodeKeys(publicKeys)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidRegistration, "public key: "+err.Error())
	}
	privs, err := decodeKeys(privateKeys)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidRegistration, "private key: "+err.Error())
	}
	ks, err := multied25519.NewKeyShard(pubs, privs, uint8(threshold))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidRegistration, err.Error())
	}
	return &starcoinShard{ks: ks}, nil
}

func decodeKeys(keys []string) ([][]byte, error) {
	res := make([][]byte, len(keys))
	for i, k := range keys {
		b, err := multied25519.DecodeHex(k)
		if err != nil {
			return nil, errors.Wrapf(err, "key %d", i)
		}
		res[i] = b
	}
	return res, nil
}

// PartialSign implements CryptoProvider.
func (StarcoinProvider) PartialSign(ctx context.Context, shard Shard, rawTx []byte) (*multied25519.SignatureShard, error) {
	s, ok := shard.(*starcoinShard)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported shard type %T", shard)
	}
	if len(s.ks.Positions()) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidState, "shard holds no private keys")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "partial sign")
	}
	return s.ks.Sign(tx.SigningMessage(rawTx)), nil
}

// MergeSignatureShards implements CryptoProvider.
func (StarcoinProvider) MergeSignatureShards(shards ...*multied25519.SignatureShard) (*multied25519.SignatureShard, error) {
	return multied25519.MergeSignatureShards(shards...)
}

// IsThresholdSatisfied implements CryptoProvider.
func (StarcoinProvider) IsThresholdSatisfied(sig *multied25519.SignatureShard) bool {
	return sig.IsEnough()
}

// EncodeAuthenticatedTransaction implements CryptoProvider.
func (StarcoinProvider) EncodeAuthenticatedTransaction(rawTx []byte, auth *tx.Authenticator) (string, error) {
	return tx.EncodeAuthenticatedTransaction(rawTx, auth)
}

type starcoinShard struct {
	ks *multied25519.KeyShard
}

func (s *starcoinShard) Address() string {
	return s.ks.Address().String()
}

func (s *starcoinShard) PublicKey() *multied25519.PublicKey {
	return s.ks.PublicKey()
}

func (s *starcoinShard) PrivateKeyHex() string {
	return multied25519.EncodeHex(s.ks.Bytes())
}

func (s *starcoinShard) ReceiptIdentifier() (string, error) {
	return s.ks.Address().ReceiptIdentifier()
}

func (s *starcoinShard) Wipe() {
	s.ks.Wipe()
}

// providerErr labels errors that do not carry a registered root error as
// crypto provider failures.
func providerErr(err error, op string) error {
	if errors.Root(err) != nil {
		return errors.Wrap(err, op)
	}
	return errors.Wrapf(errors.ErrCryptoProvider, "%s: %s", op, err)
}
