package keyring

import (
	"context"

	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// TypeMultiSign is the keyring type name.
const TypeMultiSign = "Multi Sign"

// Keyring manages multi signature accounts of a single wallet.
type Keyring struct {
	provider CryptoProvider
	logger   log.Logger
	registry *Registry
}

// Option configures a Keyring.
type Option func(*Keyring)

// WithLogger sets the logger used by the keyring. By default nothing is
// logged.
func WithLogger(l log.Logger) Option {
	return func(k *Keyring) {
		k.logger = l
	}
}

// WithProvider replaces the default StarcoinProvider.
func WithProvider(p CryptoProvider) Option {
	return func(k *Keyring) {
		k.provider = p
	}
}

// New returns an empty keyring.
func New(opts ...Option) *Keyring {
	k := &Keyring{
		provider: StarcoinProvider{},
		logger:   log.NewNopLogger(),
	}
	for _, fn := range opts {
		fn(k)
	}
	k.logger = k.logger.With("module", "keyring")
	k.registry = NewRegistry(k.provider, k.logger)
	return k
}

// Type returns the keyring type name.
func (k *Keyring) Type() string {
	return TypeMultiSign
}

// Register adds a new account and returns addresses of all accounts.
func (k *Keyring) Register(ctx context.Context, r Registration) ([]string, error) {
	addrs, err := k.registry.Register(ctx, r)
	if err != nil {
		k.logError("cannot register account", err)
		return nil, err
	}
	k.logger.Debug("account registered",
		"address", addrs[len(addrs)-1],
		"threshold", r.Threshold,
		"accounts", len(addrs))
	return addrs, nil
}

// ListAddresses returns addresses of all accounts, in registration order.
func (k *Keyring) ListAddresses(ctx context.Context) ([]string, error) {
	addrs, err := k.registry.Addresses(ctx)
	if err != nil {
		k.logError("cannot list addresses", err)
		return nil, err
	}
	return addrs, nil
}

// RemoveAccount deletes the account with given address.
func (k *Keyring) RemoveAccount(ctx context.Context, address string) error {
	if err := k.registry.Remove(ctx, address); err != nil {
		return err
	}
	k.logger.Debug("account removed", "address", normalizeAddress(address))
	return nil
}

// ExportPrivateKey returns the hex encoded key shard of an account. The
// result contains the private keys held by this keyring.
func (k *Keyring) ExportPrivateKey(ctx context.Context, address string) (string, error) {
	var key string
	err := k.registry.WithShard(ctx, address, func(s Shard) error {
		key = s.PrivateKeyHex()
		return nil
	})
	return key, err
}

// ExportPublicKey returns the hex encoded multi public key of an account.
func (k *Keyring) ExportPublicKey(ctx context.Context, address string) (string, error) {
	var key string
	err := k.registry.WithShard(ctx, address, func(s Shard) error {
		pk := s.PublicKey()
		if pk == nil {
			return errors.Wrap(errors.ErrCryptoProvider, "shard without public key")
		}
		key = multied25519.EncodeHex(pk.Bytes())
		return nil
	})
	return key, err
}

// ReceiptIdentifier returns the receipt identifier of an account.
func (k *Keyring) ReceiptIdentifier(ctx context.Context, address string) (string, error) {
	var id string
	err := k.registry.WithShard(ctx, address, func(s Shard) error {
		var err error
		id, err = s.ReceiptIdentifier()
		if err != nil {
			return providerErr(err, "receipt identifier")
		}
		return nil
	})
	return id, err
}

// ReleaseShards wipes the cached private key material of all accounts.
// Accounts stay registered.
func (k *Keyring) ReleaseShards() {
	k.registry.ReleaseShards()
	k.logger.Debug("key shards released")
}

// logError logs failures of the crypto provider. Errors caused by the
// caller are not logged.
func (k *Keyring) logError(msg string, err error) {
	if errors.ErrCryptoProvider.Is(err) || errors.ErrInvalidState.Is(err) {
		k.logger.Error(msg, "err", err)
	}
}
