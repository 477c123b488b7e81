package keyring

import (
	"context"
	"strings"
	"sync"

	"github.com/google/btree"
	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// indexDegree is the degree of the address index btree.
const indexDegree = 2

// Registry is an ordered collection of accounts. Accounts are listed in the
// order they were added. Each resolved account is indexed by its address,
// which is unique within a registry.
//
// All methods are safe for concurrent use.
type Registry struct {
	provider CryptoProvider
	logger   log.Logger

	mu       sync.Mutex
	accounts []*Account
	index    *btree.BTree
}

// NewRegistry returns an empty registry that derives account key material
// using given provider.
func NewRegistry(p CryptoProvider, logger log.Logger) *Registry {
	return &Registry{
		provider: p,
		logger:   logger,
		index:    btree.New(indexDegree),
	}
}

// addressItem is the address index entry.
type addressItem struct {
	address string
	account *Account
}

var _ btree.Item = addressItem{}

func (a addressItem) Less(than btree.Item) bool {
	return a.address < than.(addressItem).address
}

// Register derives the account of given registration and appends it to the
// registry. It returns the addresses of all resolved accounts, in order.
// Registering an account with an address that already exists fails with
// ErrDuplicateAddress and leaves the registry unchanged. So does a failure
// to resolve a pending account, unless its registration is invalid.
func (r *Registry) Register(ctx context.Context, reg Registration) ([]string, error) {
	shard, err := derive(ctx, r.provider, reg)
	if err != nil {
		return nil, err
	}
	address := normalizedShardAddress(shard)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.resolvePending(ctx); err != nil {
		return nil, err
	}
	if r.index.Has(addressItem{address: address}) {
		return nil, errors.ErrDuplicateAddress.Newf("account %s", address)
	}
	acc := newResolvedAccount(reg, address, shard)
	r.accounts = append(r.accounts, acc)
	r.index.ReplaceOrInsert(addressItem{address: address, account: acc})
	return r.addresses(), nil
}

// Addresses resolves all accounts and returns their addresses in order. It
// fails if any of the accounts cannot be derived.
func (r *Registry) Addresses(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, acc := range r.accounts {
		if _, ok := acc.Address(); ok {
			continue
		}
		if err := r.resolveAccount(ctx, acc); err != nil {
			return nil, errors.Wrapf(err, "account %d", i)
		}
	}
	return r.addresses(), nil
}

// WithShard calls fn with the key shard of the account with given address.
// The registry is locked for the duration of the call, so fn must not call
// back into the registry.
func (r *Registry) WithShard(ctx context.Context, address string, fn func(Shard) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, err := r.lookup(ctx, address)
	if err != nil {
		return err
	}
	shard, err := acc.resolve(ctx, r.provider)
	if err != nil {
		return err
	}
	return fn(shard)
}

// Remove deletes the account with given address. The cached key material
// is wiped.
func (r *Registry) Remove(ctx context.Context, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, err := r.lookup(ctx, address)
	if err != nil {
		return err
	}
	addr, _ := acc.Address()
	r.index.Delete(addressItem{address: addr})
	for i, a := range r.accounts {
		if a == acc {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			break
		}
	}
	acc.release()
	return nil
}

// Registrations returns registrations of all accounts, in order.
func (r *Registry) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := make([]Registration, len(r.accounts))
	for i, acc := range r.accounts {
		regs[i] = acc.Registration()
	}
	return regs
}

// Replace drops all accounts and creates a pending account for each of
// given registrations. Registrations are not validated until the accounts
// are resolved.
func (r *Registry) Replace(regs []Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, acc := range r.accounts {
		acc.release()
	}
	r.accounts = make([]*Account, len(regs))
	for i, reg := range regs {
		r.accounts[i] = newPendingAccount(reg)
	}
	r.index = btree.New(indexDegree)
}

// ReleaseShards wipes the cached key material of all accounts. Addresses
// are kept and shards are derived again when needed.
func (r *Registry) ReleaseShards() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, acc := range r.accounts {
		acc.release()
	}
}

// Len returns the number of accounts, resolved or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// lookup returns the account with given address. Pending accounts are
// resolved first.
func (r *Registry) lookup(ctx context.Context, address string) (*Account, error) {
	address = normalizeAddress(address)
	if address == "" {
		return nil, errors.ErrAccountNotFound.New("empty address")
	}
	if err := r.resolvePending(ctx); err != nil {
		return nil, err
	}
	item := r.index.Get(addressItem{address: address})
	if item == nil {
		return nil, errors.ErrAccountNotFound.Newf("account %s", address)
	}
	return item.(addressItem).account, nil
}

// resolvePending resolves all pending accounts. Accounts with an invalid
// registration or a clashing address stay pending and are only logged, so
// that a single broken registration does not block other accounts. Any other
// failure is returned, as the account may be resolvable on a later call.
func (r *Registry) resolvePending(ctx context.Context) error {
	for i, acc := range r.accounts {
		if _, ok := acc.Address(); ok {
			continue
		}
		err := r.resolveAccount(ctx, acc)
		switch {
		case err == nil:
		case errors.ErrInvalidRegistration.Is(err), errors.ErrDuplicateAddress.Is(err):
			r.logger.Error("cannot resolve account", "position", i, "err", err)
		default:
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

// resolveAccount resolves a pending account and indexes it.
func (r *Registry) resolveAccount(ctx context.Context, acc *Account) error {
	if _, err := acc.resolve(ctx, r.provider); err != nil {
		return err
	}
	address, _ := acc.Address()
	if item := r.index.Get(addressItem{address: address}); item != nil && item.(addressItem).account != acc {
		// The shard is not wiped as the provider may share it with the
		// account already holding this address.
		acc.state = pending{}
		return errors.ErrDuplicateAddress.Newf("account %s", address)
	}
	r.index.ReplaceOrInsert(addressItem{address: address, account: acc})
	return nil
}

// addresses returns addresses of all resolved accounts, in order.
func (r *Registry) addresses() []string {
	addrs := make([]string, 0, len(r.accounts))
	for _, acc := range r.accounts {
		if addr, ok := acc.Address(); ok {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// normalizeAddress returns the canonical form of an address. Values that are
// not hex encoded addresses are only lowercased, so that they never match an
// account.
func normalizeAddress(s string) string {
	if a, err := multied25519.ParseAddress(s); err == nil {
		return a.String()
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizedShardAddress(s Shard) string {
	return normalizeAddress(s.Address())
}
