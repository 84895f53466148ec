package frost

import (
	"fmt"

	"github.com/coinbase/kryptology/pkg/core/curves"
)

// SigningPackage fixes the message and the full commitment set for one
// signing session. Every signer and the aggregator must build it from the
// same inputs.
type SigningPackage struct {
	commitments  map[Identifier]*SigningCommitments
	ids          []Identifier
	participants []Identifier
	Message      []byte
}

// NewSigningPackage builds a package over commitments. participants is the
// set the Lagrange coefficient of the local signer is computed over; when
// empty, the user identifier signs alone and every other identifier forms
// the operator set.
func NewSigningPackage(commitments map[Identifier]*SigningCommitments, message []byte, participants []Identifier) (*SigningPackage, error) {
	if len(commitments) == 0 {
		return nil, ErrMissingCommitment
	}
	ids := make([]Identifier, 0, len(commitments))
	for id, c := range commitments {
		if id.IsZero() {
			return nil, ErrInvalidIdentifier
		}
		if c == nil || c.Hiding == nil || c.Binding == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingCommitment, id)
		}
		ids = append(ids, id)
	}
	SortIdentifiers(ids)

	var parts []Identifier
	if len(participants) > 0 {
		seen := make(map[Identifier]bool, len(participants))
		for _, id := range participants {
			if _, ok := commitments[id]; !ok {
				return nil, fmt.Errorf("%w: participant %s", ErrMissingCommitment, id)
			}
			if !seen[id] {
				seen[id] = true
				parts = append(parts, id)
			}
		}
		SortIdentifiers(parts)
	}

	return &SigningPackage{commitments: commitments, ids: ids, participants: parts, Message: message}, nil
}

func (p *SigningPackage) Commitment(id Identifier) (*SigningCommitments, bool) {
	c, ok := p.commitments[id]
	return c, ok
}

// Identifiers returns every committed identifier in ascending order.
func (p *SigningPackage) Identifiers() []Identifier {
	return append([]Identifier(nil), p.ids...)
}

// signerGroup returns the identifiers whose shares are interpolated together
// with id's.
func (p *SigningPackage) signerGroup(id Identifier) []Identifier {
	if len(p.participants) > 0 {
		return p.participants
	}
	if id == UserIdentifier {
		return []Identifier{UserIdentifier}
	}
	group := make([]Identifier, 0, len(p.ids))
	for _, other := range p.ids {
		if other != UserIdentifier {
			group = append(group, other)
		}
	}
	return group
}

func (p *SigningPackage) encodeCommitments() []byte {
	out := make([]byte, 0, len(p.ids)*(ScalarSize+2*PointSize))
	for _, id := range p.ids {
		c := p.commitments[id]
		out = append(out, id[:]...)
		out = append(out, PointBytes(c.Hiding)...)
		out = append(out, PointBytes(c.Binding)...)
	}
	return out
}

func (p *SigningPackage) bindingFactors(key curves.Point) map[Identifier]curves.Scalar {
	prefix := make([]byte, 0, 3*32)
	prefix = append(prefix, XOnly(key)...)
	prefix = append(prefix, hashBytes(tagMessage, p.Message)...)
	prefix = append(prefix, hashBytes(tagCommitList, p.encodeCommitments())...)

	factors := make(map[Identifier]curves.Scalar, len(p.ids))
	for _, id := range p.ids {
		factors[id] = hashToScalar(tagRho, prefix, id[:])
	}
	return factors
}

func (p *SigningPackage) groupCommitment(factors map[Identifier]curves.Scalar) curves.Point {
	r := curve.NewIdentityPoint()
	for _, id := range p.ids {
		r = r.Add(p.commitmentShare(id, factors[id]))
	}
	return r
}

func (p *SigningPackage) commitmentShare(id Identifier, factor curves.Scalar) curves.Point {
	c := p.commitments[id]
	return c.Hiding.Add(c.Binding.Mul(factor))
}

func lagrangeCoefficient(id Identifier, group []Identifier) (curves.Scalar, error) {
	xi := id.scalar()
	num := curve.Scalar.One()
	den := curve.Scalar.One()
	found := false
	for _, other := range group {
		if other == id {
			found = true
			continue
		}
		xj := other.scalar()
		num = num.Mul(xj)
		den = den.Mul(xj.Sub(xi))
	}
	if !found {
		return nil, fmt.Errorf("%w: %s not in signer set", ErrUnknownIdentifier, id)
	}
	inv, err := den.Invert()
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate identifier", ErrInvalidIdentifier)
	}
	return num.Mul(inv), nil
}

func challenge(r, key curves.Point, message []byte) curves.Scalar {
	return hashToScalar(tagChallenge, XOnly(r), XOnly(key), message)
}

// Sign produces kp's signature share. kp.VerifyingKey must be the key the
// final signature verifies under. The nonces are not discarded here.
func Sign(pkg *SigningPackage, nonces *SigningNonces, kp *KeyPackage) (curves.Scalar, error) {
	if nonces.discarded() {
		return nil, ErrInvalidNonce
	}
	own, ok := pkg.commitments[kp.Identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingCommitment, kp.Identifier)
	}
	if !own.Equal(nonces.Commitments) {
		return nil, ErrIncorrectCommitment
	}
	group := pkg.signerGroup(kp.Identifier)
	if len(group) < int(kp.MinSigners) {
		return nil, fmt.Errorf("%w: %d of %d", ErrTooFewSigners, len(group), kp.MinSigners)
	}
	lambda, err := lagrangeCoefficient(kp.Identifier, group)
	if err != nil {
		return nil, err
	}

	factors := pkg.bindingFactors(kp.VerifyingKey)
	r := pkg.groupCommitment(factors)
	c := challenge(r, kp.VerifyingKey, pkg.Message)

	d, e := nonces.Hiding, nonces.Binding
	if !HasEvenY(r) {
		d, e = d.Neg(), e.Neg()
	}
	s := kp.SigningShare
	if !HasEvenY(kp.VerifyingKey) {
		s = s.Neg()
	}
	return d.Add(e.Mul(factors[kp.Identifier])).Add(lambda.Mul(s).Mul(c)), nil
}

// SignWithTweak tweaks kp by merkleRoot at signing time and signs.
func SignWithTweak(pkg *SigningPackage, nonces *SigningNonces, kp *KeyPackage, merkleRoot []byte) (curves.Scalar, error) {
	tweaked, err := kp.Tweak(merkleRoot)
	if err != nil {
		return nil, err
	}
	return Sign(pkg, nonces, tweaked)
}
