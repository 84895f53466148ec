package frost

import (
	"fmt"
	"io"

	"github.com/coinbase/kryptology/pkg/core/curves"
)

// SigningCommitments is the public half of a nonce pair.
type SigningCommitments struct {
	Hiding  curves.Point
	Binding curves.Point
}

func (c *SigningCommitments) Equal(other *SigningCommitments) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Hiding.Equal(other.Hiding) && c.Binding.Equal(other.Binding)
}

// SigningNonces is a single-use secret nonce pair. Discard clears it; a
// discarded pair can no longer produce a signature share.
type SigningNonces struct {
	Hiding      curves.Scalar
	Binding     curves.Scalar
	Commitments *SigningCommitments
}

// NewSigningNonces rebuilds a nonce pair received over the wire.
func NewSigningNonces(hiding, binding curves.Scalar) (*SigningNonces, error) {
	if hiding == nil || binding == nil || hiding.IsZero() || binding.IsZero() {
		return nil, ErrInvalidNonce
	}
	return &SigningNonces{
		Hiding:  hiding,
		Binding: binding,
		Commitments: &SigningCommitments{
			Hiding:  baseMul(hiding),
			Binding: baseMul(binding),
		},
	}, nil
}

func (n *SigningNonces) Discard() {
	n.Hiding = nil
	n.Binding = nil
}

func (n *SigningNonces) discarded() bool {
	return n == nil || n.Hiding == nil || n.Binding == nil
}

// Commit draws a fresh nonce pair for secret. Each nonce hashes fresh
// randomness together with the secret share so a weak rand source alone
// does not expose the share.
func Commit(secret curves.Scalar, rand io.Reader) (*SigningNonces, error) {
	hiding, err := nonceGenerate(secret, rand)
	if err != nil {
		return nil, err
	}
	binding, err := nonceGenerate(secret, rand)
	if err != nil {
		return nil, err
	}
	return NewSigningNonces(hiding, binding)
}

func nonceGenerate(secret curves.Scalar, rand io.Reader) (curves.Scalar, error) {
	for {
		var seed [32]byte
		if _, err := io.ReadFull(rand, seed[:]); err != nil {
			return nil, fmt.Errorf("%w: reading randomness: %v", ErrInvalidNonce, err)
		}
		k := hashToScalar(tagNonce, seed[:], ScalarBytes(secret))
		if !k.IsZero() {
			return k, nil
		}
	}
}
