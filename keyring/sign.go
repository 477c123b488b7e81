package keyring

import (
	"context"

	"github.com/iov-one/mkeyring/crypto/multied25519"
	"github.com/iov-one/mkeyring/errors"
	"github.com/iov-one/mkeyring/tx"
)

// SignResult is the outcome of a single signing round.
type SignResult struct {
	// Transaction is the raw transaction together with the merged
	// authenticator.
	Transaction *tx.SignedTransaction
	// Encoded is the hex encoded signed transaction, as returned by
	// SignTransaction.
	Encoded string
	// Signatures is the number of signatures the authenticator carries.
	Signatures int
	// Threshold is the number of signatures required.
	Threshold uint8
	// Satisfied is true if the transaction can be submitted.
	Satisfied bool
}

// SignTransaction signs the raw transaction with the private keys of given
// account and returns the hex encoded signed transaction.
//
// If existing is not nil, signatures collected by other co-signers are merged
// into the result. The threshold is not enforced, so the returned transaction
// may still require more signatures.
func (k *Keyring) SignTransaction(ctx context.Context, address string, rawTx []byte, existing *tx.Authenticator) (string, error) {
	var res *SignResult
	err := k.registry.WithShard(ctx, address, func(s Shard) error {
		var err error
		res, err = k.sign(ctx, s, rawTx, existing)
		return err
	})
	if err != nil {
		k.logError("cannot sign transaction", err)
		return "", err
	}
	k.logger.Debug("transaction signed", "address", normalizeAddress(address))
	return res.Encoded, nil
}

// PartiallySign works like SignTransaction but returns the signed
// transaction in its structured form together with the signing progress.
func (k *Keyring) PartiallySign(ctx context.Context, address string, rawTx []byte, existing *tx.Authenticator) (*SignResult, error) {
	var res *SignResult
	err := k.registry.WithShard(ctx, address, func(s Shard) error {
		var err error
		res, err = k.sign(ctx, s, rawTx, existing)
		return err
	})
	if err != nil {
		k.logError("cannot sign transaction", err)
		return nil, err
	}
	res.Satisfied = k.provider.IsThresholdSatisfied(&multied25519.SignatureShard{
		Signature: res.Transaction.Authenticator.Signature,
		Threshold: res.Threshold,
	})
	k.logger.Debug("transaction signed",
		"address", normalizeAddress(address),
		"signatures", res.Signatures,
		"threshold", res.Threshold)
	return res, nil
}

// ThresholdSatisfied returns true if the authenticator carries enough
// signatures to authorize a transaction.
func (k *Keyring) ThresholdSatisfied(auth *tx.Authenticator) bool {
	if err := auth.Validate(); err != nil {
		return false
	}
	return k.provider.IsThresholdSatisfied(auth.SignatureShard())
}

// sign creates a partial signature with the given shard, merges it with the
// existing authenticator and encodes the signed transaction. Satisfied is
// left for the caller to fill in.
func (k *Keyring) sign(ctx context.Context, s Shard, rawTx []byte, existing *tx.Authenticator) (*SignResult, error) {
	if len(rawTx) == 0 {
		return nil, errors.ErrEmpty.New("raw transaction")
	}
	pk := s.PublicKey()
	if pk == nil {
		return nil, errors.ErrCryptoProvider.New("shard without public key")
	}
	if existing != nil {
		if err := existing.Validate(); err != nil {
			return nil, errors.ErrInvalidInput.Newf("existing authenticator: %s", err)
		}
		if !existing.PublicKey.Equal(pk) {
			return nil, errors.ErrInvalidInput.New("existing authenticator public key does not match the account")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "partial sign")
	}

	local, err := k.provider.PartialSign(ctx, s, rawTx)
	if err != nil {
		return nil, providerErr(err, "partial sign")
	}

	combined := local
	if existing != nil {
		threshold := existing.PublicKey.Threshold
		previous := &multied25519.SignatureShard{Signature: existing.Signature, Threshold: threshold}
		current := &multied25519.SignatureShard{Signature: local.Signature, Threshold: threshold}
		combined, err = k.provider.MergeSignatureShards(previous, current)
		if err != nil {
			return nil, providerErr(err, "merge signatures")
		}
	}

	auth := &tx.Authenticator{PublicKey: pk, Signature: combined.Signature}
	encoded, err := k.provider.EncodeAuthenticatedTransaction(rawTx, auth)
	if err != nil {
		return nil, providerErr(err, "encode transaction")
	}
	return &SignResult{
		Transaction: &tx.SignedTransaction{Raw: copyBytes(rawTx), Authenticator: auth},
		Encoded:     encoded,
		Signatures:  combined.Signature.Count(),
		Threshold:   combined.Threshold,
	}, nil
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
