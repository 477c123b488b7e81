/*
Package keyringtest provides fixtures and helpers shared by the keyring tests.
*/
package keyringtest

import (
	"encoding/hex"

	"golang.org/x/crypto/ed25519"
)

// Participant is a single key holder of a multi signature account.
type Participant struct {
	Name       string
	PublicKey  string
	PrivateKey string
}

// Participants of the reference 2 of 3 account. Their keys are public test
// vectors and must never hold funds.
var (
	Alice = Participant{
		Name:       "alice",
		PublicKey:  "0x547c6a1ef36e9e99865ce7ac028ee79aff404d279b568272bc7154802d4856bb",
		PrivateKey: "0xa9e47d270d2ce33b1475f500f3b9a773eb966f3f8ab5ceb738d52262bbe10cb2",
	}
	Bob = Participant{
		Name:       "bob",
		PublicKey:  "0xe8cdd5b17a37fe7e8fe446d067e7a9907cf7783aca204ccb623972176614c0a0",
		PrivateKey: "0x7ea63107b0e214789fdb0d6c6e6b0d8f8b8c0be7398654ddd63f3617282be97b",
	}
	Tom = Participant{
		Name:       "tom",
		PublicKey:  "0xc95ddc2b2926d1a451ea68fa74274aa04af97d8e2aefccb297e6ef61992d42e8",
		PrivateKey: "0x359059828e89fe42dddd5f9571a0c623b071379fc6287c712649dcc8c77f5eb4",
	}
)

// Threshold of the reference account.
const Threshold = 2

// Values of the reference account, 2 of {alice, bob, tom}, as seen by alice.
const (
	AccountAddress = "0xb555d8b06fed69769821e189b5168870"

	AccountReceiptIdentifier = "stc1pk42a3vr0a45hdxppuxym295gwq38kuqj"

	AccountPublicKey = "0x547c6a1ef36e9e99865ce7ac028ee79aff404d279b568272bc7154802d4856bb" +
		"c95ddc2b2926d1a451ea68fa74274aa04af97d8e2aefccb297e6ef61992d42e8" +
		"e8cdd5b17a37fe7e8fe446d067e7a9907cf7783aca204ccb623972176614c0a0" +
		"02"

	// AliceShard is the exported key shard of alice.
	AliceShard = "0x030201" +
		"547c6a1ef36e9e99865ce7ac028ee79aff404d279b568272bc7154802d4856bb" +
		"c95ddc2b2926d1a451ea68fa74274aa04af97d8e2aefccb297e6ef61992d42e8" +
		"e8cdd5b17a37fe7e8fe446d067e7a9907cf7783aca204ccb623972176614c0a0" +
		"a9e47d270d2ce33b1475f500f3b9a773eb966f3f8ab5ceb738d52262bbe10cb2"
)

// Others returns public keys of all reference participants except given one.
func Others(p Participant) []string {
	var keys []string
	for _, other := range []Participant{Alice, Bob, Tom} {
		if other.Name != p.Name {
			keys = append(keys, other.PublicKey)
		}
	}
	return keys
}

// RawTransaction is an opaque, already serialized transaction used for
// signing tests.
var RawTransaction = []byte("raw user transaction payload used by tests")

// NewKey returns a hex encoded random key pair.
func NewKey() (publicKey, privateKey string) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return "0x" + hex.EncodeToString(pub), "0x" + hex.EncodeToString(priv[:ed25519.SeedSize])
}

// MustDecodeHex decodes a 0x prefixed hex string or panics.
func MustDecodeHex(s string) []byte {
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
