package keyring

import (
	"context"

	"github.com/iov-one/mkeyring/errors"
)

// Account is a registered multi signature account. Its address and key
// shard are derived lazily from the registration.
type Account struct {
	registration Registration
	state        accountState
}

// accountState is either pending or resolved.
type accountState interface {
	isAccountState()
}

// pending accounts were never derived.
type pending struct{}

func (pending) isAccountState() {}

// resolved accounts have a known address. The shard can be nil if the cached
// key material was released.
type resolved struct {
	address string
	shard   Shard
}

func (resolved) isAccountState() {}

func newPendingAccount(r Registration) *Account {
	return &Account{registration: r.Copy(), state: pending{}}
}

func newResolvedAccount(r Registration, address string, shard Shard) *Account {
	return &Account{
		registration: r.Copy(),
		state:        resolved{address: address, shard: shard},
	}
}

// Registration returns a copy of the registration this account was created
// from.
func (a *Account) Registration() Registration {
	return a.registration.Copy()
}

// Address returns the account address and true if the account was already
// resolved.
func (a *Account) Address() (string, bool) {
	r, ok := a.state.(resolved)
	if !ok {
		return "", false
	}
	return r.address, true
}

// resolve derives the address and the shard if they are not cached yet and
// returns the shard.
func (a *Account) resolve(ctx context.Context, p CryptoProvider) (Shard, error) {
	switch s := a.state.(type) {
	case resolved:
		if s.shard != nil {
			return s.shard, nil
		}
		shard, err := derive(ctx, p, a.registration)
		if err != nil {
			return nil, err
		}
		if addr := normalizedShardAddress(shard); addr != s.address {
			return nil, errors.Wrapf(errors.ErrInvalidState,
				"derived address %s does not match %s", addr, s.address)
		}
		a.state = resolved{address: s.address, shard: shard}
		return shard, nil
	case pending:
		shard, err := derive(ctx, p, a.registration)
		if err != nil {
			return nil, err
		}
		a.state = resolved{address: normalizedShardAddress(shard), shard: shard}
		return shard, nil
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unknown account state %T", a.state)
	}
}

// release drops the cached shard, keeping the address.
func (a *Account) release() {
	s, ok := a.state.(resolved)
	if !ok || s.shard == nil {
		return
	}
	if w, ok := s.shard.(wiper); ok {
		w.Wipe()
	}
	a.state = resolved{address: s.address}
}

// wiper is implemented by shards that can overwrite their private key
// material.
type wiper interface {
	Wipe()
}

func derive(ctx context.Context, p CryptoProvider, r Registration) (Shard, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "derive shard")
	}
	shard, err := p.DeriveShard(ctx, r.PublicKeys, r.PrivateKeys, r.Threshold)
	if err != nil {
		return nil, providerErr(err, "derive shard")
	}
	return shard, nil
}
