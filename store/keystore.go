package store

import (
	"encoding/binary"

	"github.com/iov-one/mkeyring/errors"
	"github.com/iov-one/mkeyring/keyring"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// registrationPrefix is the key prefix of all registration records. A record
// key is the prefix followed by the big endian encoded position.
var registrationPrefix = []byte("registration:")

// Keystore persists keyring registrations in a key value database.
type Keystore struct {
	db dbm.DB
}

// NewKeystore returns a keystore using given database.
func NewKeystore(db dbm.DB) *Keystore {
	return &Keystore{db: db}
}

// NewMemKeystore returns a keystore that keeps all data in memory.
func NewMemKeystore() *Keystore {
	return NewKeystore(dbm.NewMemDB())
}

// OpenKeystore opens or creates a keystore database in given directory.
func OpenKeystore(name, dir string) (ks *Keystore, err error) {
	defer errors.Recover(&err)
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "open keystore %q: %s", dir, err)
	}
	return NewKeystore(db), nil
}

// Save replaces all stored registrations with given ones. The order of
// registrations is preserved.
func (ks *Keystore) Save(regs []keyring.Registration) (err error) {
	defer errors.Recover(&err)

	batch := ks.db.NewBatch()
	for _, key := range ks.keys() {
		batch.Delete(key)
	}
	for i, r := range regs {
		raw, err := r.Marshal()
		if err != nil {
			return errors.Wrapf(err, "registration %d", i)
		}
		batch.Set(recordKey(uint64(i)), raw)
	}
	batch.WriteSync()
	return nil
}

// Load returns all stored registrations in the order they were saved.
func (ks *Keystore) Load() (regs []keyring.Registration, err error) {
	defer errors.Recover(&err)

	it := ks.db.Iterator(registrationPrefix, prefixEnd(registrationPrefix))
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var r keyring.Registration
		if err := r.Unmarshal(it.Value()); err != nil {
			return nil, errors.Wrapf(err, "record %X", it.Key())
		}
		regs = append(regs, r)
	}
	return regs, nil
}

// Close releases the database.
func (ks *Keystore) Close() {
	ks.db.Close()
}

func (ks *Keystore) keys() [][]byte {
	it := ks.db.Iterator(registrationPrefix, prefixEnd(registrationPrefix))
	defer it.Close()

	var keys [][]byte
	for ; it.Valid(); it.Next() {
		key := make([]byte, len(it.Key()))
		copy(key, it.Key())
		keys = append(keys, key)
	}
	return keys
}

func recordKey(pos uint64) []byte {
	key := make([]byte, len(registrationPrefix)+8)
	copy(key, registrationPrefix)
	binary.BigEndian.PutUint64(key[len(registrationPrefix):], pos)
	return key
}

// prefixEnd returns the smallest key greater than all keys starting with
// given prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
