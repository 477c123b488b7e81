/*
Package keyring implements a registry of threshold multi signature accounts
and orchestrates signing of their transactions.

A Keyring is owned by a single wallet. Each registered account is described by
a Registration: the public keys of all participants, the private keys held
locally and the threshold. The account address and the key shard are derived
from the registration by a CryptoProvider and cached.

Signing never enforces the threshold. A co-signer signs a raw transaction,
optionally merging its contribution with an authenticator produced by other
co-signers, and passes the result on until enough signatures are collected:

	res, err := kr.PartiallySign(ctx, addr, raw, previous)
	if err != nil {
		return err
	}
	if !res.Satisfied {
		// hand res.Transaction.Authenticator to the next co-signer
	}
*/
package keyring
