package frost

import (
	"fmt"

	"github.com/coinbase/kryptology/pkg/core/curves"
)

// Signature is a BIP340 Schnorr signature.
type Signature struct {
	R curves.Point
	Z curves.Scalar
}

// Bytes returns the 64 byte x(R) || z encoding.
func (s *Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureSize)
	out = append(out, XOnly(s.R)...)
	return append(out, ScalarBytes(s.Z)...)
}

func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(b))
	}
	r, err := PointFromBytes(append([]byte{0x02}, b[:32]...))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	z, err := ScalarFromBytes(b[32:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &Signature{R: r, Z: z}, nil
}

// VerifySignature checks a BIP340 signature of message under the x-only
// form of key. Messages of any length are accepted.
func VerifySignature(key curves.Point, message, sig []byte) error {
	s, err := SignatureFromBytes(sig)
	if err != nil {
		return err
	}
	if !HasEvenY(key) {
		key = key.Neg()
	}
	c := challenge(s.R, key, message)
	if !baseMul(s.Z).Equal(s.R.Add(key.Mul(c))) {
		return ErrInvalidSignature
	}
	return nil
}

// AggregateWithTweak sums the signature shares into a signature under the
// Taproot output key of pkp.VerifyingKey for merkleRoot. Shares from the
// user identifier are expected untweaked; every other share carries the
// tweak. If the result does not verify, each share is checked and the
// first bad one is reported.
func AggregateWithTweak(pkg *SigningPackage, shares map[Identifier]curves.Scalar, pkp *PublicKeyPackage, merkleRoot []byte) (*Signature, error) {
	if len(shares) != len(pkg.ids) {
		return nil, fmt.Errorf("%w: %d shares for %d commitments", ErrIncorrectNumberOfShares, len(shares), len(pkg.ids))
	}
	for id, share := range shares {
		if _, ok := pkg.commitments[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingCommitment, id)
		}
		if share == nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSignatureShare, id)
		}
	}
	t, err := TaprootTweak(pkp.VerifyingKey, merkleRoot)
	if err != nil {
		return nil, err
	}
	tweaked, err := TweakKey(pkp.VerifyingKey, merkleRoot)
	if err != nil {
		return nil, err
	}

	factors := pkg.bindingFactors(tweaked)
	r := pkg.groupCommitment(factors)
	z := curve.Scalar.Zero()
	for _, id := range pkg.ids {
		z = z.Add(shares[id])
	}
	sig := &Signature{R: r, Z: z}
	if r.IsIdentity() {
		return nil, ErrInvalidSignature
	}
	if VerifySignature(tweaked, pkg.Message, sig.Bytes()) == nil {
		return sig, nil
	}

	c := challenge(r, tweaked, pkg.Message)
	for _, id := range pkg.ids {
		y, ok := pkp.VerifyingShares[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingVerifyingShare, id)
		}
		if !HasEvenY(pkp.VerifyingKey) {
			y = y.Neg()
		}
		if id != UserIdentifier {
			y = y.Add(baseMul(t))
		}
		if !HasEvenY(tweaked) {
			y = y.Neg()
		}
		lambda, err := lagrangeCoefficient(id, pkg.signerGroup(id))
		if err != nil {
			return nil, err
		}
		if !verifyShare(pkg, id, factors[id], r, shares[id], y, lambda, c) {
			return nil, fmt.Errorf("%w: identifier %s", ErrInvalidSignatureShare, id)
		}
	}
	return nil, ErrInvalidSignature
}

func verifyShare(pkg *SigningPackage, id Identifier, factor curves.Scalar, r curves.Point, share curves.Scalar, y curves.Point, lambda, c curves.Scalar) bool {
	ri := pkg.commitmentShare(id, factor)
	if !HasEvenY(r) {
		ri = ri.Neg()
	}
	return baseMul(share).Equal(ri.Add(y.Mul(lambda.Mul(c))))
}
