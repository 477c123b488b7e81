/*
Package multied25519 implements the Starcoin flavour of Ed25519 threshold
multi-signatures.

A multi public key is an ordered set of up to 32 Ed25519 public keys together
with a threshold. A multi signature is a list of Ed25519 signatures ordered by
the position of the signer in the public key set, followed by a 4 byte bitmap
marking which positions signed. A signature is valid once at least threshold
positions carry a valid signature.

A KeyShard is what a single co-signer holds locally: the complete public key
set, the threshold and the private keys of the positions it controls. Signing
with a shard produces a SignatureShard that can be merged with shards produced
by other co-signers until the threshold is reached.
*/
package multied25519
