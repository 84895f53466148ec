package frost

import (
	"fmt"
	"io"

	"github.com/coinbase/kryptology/pkg/core/curves"
)

// Round1SecretPackage is the state a participant keeps between DKG part 1
// and part 2. It must never leave the process.
type Round1SecretPackage struct {
	Identifier   Identifier
	coefficients []curves.Scalar
	Commitment   []curves.Point
	MinSigners   uint16
	MaxSigners   uint16
}

// Round1Package is broadcast to every other participant.
type Round1Package struct {
	Commitment []curves.Point
	ProofR     curves.Point
	ProofZ     curves.Scalar
}

// Round2SecretPackage is the state kept between DKG part 2 and part 3.
type Round2SecretPackage struct {
	Identifier  Identifier
	Commitment  []curves.Point
	secretShare curves.Scalar
	MinSigners  uint16
	MaxSigners  uint16
}

// Round2Package carries the secret share destined for one peer.
type Round2Package struct {
	SigningShare curves.Scalar
}

func validateSigners(minSigners, maxSigners uint16) error {
	if minSigners < 1 {
		return ErrInvalidMinSigners
	}
	if maxSigners < minSigners {
		return fmt.Errorf("%w: max %d below min %d", ErrInvalidMaxSigners, maxSigners, minSigners)
	}
	return nil
}

// DKGPart1 samples a random polynomial of degree minSigners-1, commits to its
// coefficients and proves knowledge of the constant term.
func DKGPart1(id Identifier, maxSigners, minSigners uint16, rand io.Reader) (*Round1SecretPackage, *Round1Package, error) {
	if id.IsZero() {
		return nil, nil, ErrInvalidIdentifier
	}
	if err := validateSigners(minSigners, maxSigners); err != nil {
		return nil, nil, err
	}
	coefficients := make([]curves.Scalar, minSigners)
	commitment := make([]curves.Point, minSigners)
	for i := range coefficients {
		coefficients[i] = randomNonZero(rand)
		commitment[i] = baseMul(coefficients[i])
	}

	k := randomNonZero(rand)
	r := baseMul(k)
	c := dkgChallenge(id, commitment[0], r)
	z := k.Add(coefficients[0].Mul(c))

	secret := &Round1SecretPackage{
		Identifier:   id,
		coefficients: coefficients,
		Commitment:   commitment,
		MinSigners:   minSigners,
		MaxSigners:   maxSigners,
	}
	return secret, &Round1Package{Commitment: commitment, ProofR: r, ProofZ: z}, nil
}

// DKGPart2 verifies the peers' proofs of knowledge and evaluates the secret
// polynomial at every peer's identifier. round1Packages must hold exactly
// one package per peer and none for the caller.
func DKGPart2(secret *Round1SecretPackage, round1Packages map[Identifier]*Round1Package) (*Round2SecretPackage, map[Identifier]*Round2Package, error) {
	if len(round1Packages) != int(secret.MaxSigners)-1 {
		return nil, nil, fmt.Errorf("%w: expected %d, got %d", ErrIncorrectNumberOfPackages, secret.MaxSigners-1, len(round1Packages))
	}
	out := make(map[Identifier]*Round2Package, len(round1Packages))
	for peer, pkg := range round1Packages {
		if peer == secret.Identifier || peer.IsZero() {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidIdentifier, peer)
		}
		if err := verifyRound1Package(peer, pkg, secret.MinSigners); err != nil {
			return nil, nil, err
		}
		out[peer] = &Round2Package{SigningShare: evaluatePolynomial(secret.coefficients, peer.scalar())}
	}

	return &Round2SecretPackage{
		Identifier:  secret.Identifier,
		Commitment:  secret.Commitment,
		secretShare: evaluatePolynomial(secret.coefficients, secret.Identifier.scalar()),
		MinSigners:  secret.MinSigners,
		MaxSigners:  secret.MaxSigners,
	}, out, nil
}

// DKGPart3 checks every received share against its sender's commitment and
// derives the final key material. The resulting group key always has even Y.
func DKGPart3(secret *Round2SecretPackage, round1Packages map[Identifier]*Round1Package, round2Packages map[Identifier]*Round2Package) (*KeyPackage, *PublicKeyPackage, error) {
	expected := int(secret.MaxSigners) - 1
	if len(round1Packages) != expected || len(round2Packages) != expected {
		return nil, nil, fmt.Errorf("%w: expected %d round1 and round2 packages, got %d and %d",
			ErrIncorrectNumberOfPackages, expected, len(round1Packages), len(round2Packages))
	}

	self := secret.Identifier.scalar()
	signingShare := secret.secretShare
	groupCommitment := append([]curves.Point(nil), secret.Commitment...)
	participants := []Identifier{secret.Identifier}

	for peer, r2 := range round2Packages {
		r1, ok := round1Packages[peer]
		if !ok {
			return nil, nil, fmt.Errorf("%w: no round1 package for %s", ErrIncorrectNumberOfPackages, peer)
		}
		if len(r1.Commitment) != len(groupCommitment) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidCommitment, peer)
		}
		if r2 == nil || r2.SigningShare == nil {
			return nil, nil, fmt.Errorf("%w: missing share from %s", ErrInvalidSecretShare, peer)
		}
		if !baseMul(r2.SigningShare).Equal(evaluateCommitment(r1.Commitment, self)) {
			return nil, nil, fmt.Errorf("%w: from %s", ErrInvalidSecretShare, peer)
		}
		signingShare = signingShare.Add(r2.SigningShare)
		for i := range groupCommitment {
			groupCommitment[i] = groupCommitment[i].Add(r1.Commitment[i])
		}
		participants = append(participants, peer)
	}

	verifyingShares := make(map[Identifier]curves.Point, len(participants))
	for _, id := range participants {
		verifyingShares[id] = evaluateCommitment(groupCommitment, id.scalar())
	}
	pkp := &PublicKeyPackage{VerifyingShares: verifyingShares, VerifyingKey: groupCommitment[0]}
	kp := NewKeyPackage(secret.Identifier, signingShare, verifyingShares[secret.Identifier], groupCommitment[0], secret.MinSigners)

	return kp.IntoEvenY(nil), pkp.IntoEvenY(nil), nil
}

func verifyRound1Package(peer Identifier, pkg *Round1Package, minSigners uint16) error {
	if pkg == nil || len(pkg.Commitment) != int(minSigners) {
		return fmt.Errorf("%w: %s", ErrInvalidCommitment, peer)
	}
	if pkg.ProofR == nil || pkg.ProofZ == nil {
		return fmt.Errorf("%w: %s", ErrInvalidProofOfKnowledge, peer)
	}
	c := dkgChallenge(peer, pkg.Commitment[0], pkg.ProofR)
	expected := baseMul(pkg.ProofZ).Sub(pkg.Commitment[0].Mul(c))
	if !expected.Equal(pkg.ProofR) {
		return fmt.Errorf("%w: %s", ErrInvalidProofOfKnowledge, peer)
	}
	return nil
}

func dkgChallenge(id Identifier, c0, r curves.Point) curves.Scalar {
	return hashToScalar(tagDKG, id[:], PointBytes(c0), PointBytes(r))
}

func evaluatePolynomial(coefficients []curves.Scalar, x curves.Scalar) curves.Scalar {
	acc := coefficients[len(coefficients)-1]
	for i := len(coefficients) - 2; i >= 0; i-- {
		acc = acc.Mul(x).Add(coefficients[i])
	}
	return acc
}

func evaluateCommitment(commitment []curves.Point, x curves.Scalar) curves.Point {
	acc := commitment[len(commitment)-1]
	for i := len(commitment) - 2; i >= 0; i-- {
		acc = acc.Mul(x).Add(commitment[i])
	}
	return acc
}

func randomNonZero(rand io.Reader) curves.Scalar {
	for {
		s := curve.Scalar.Random(rand)
		if !s.IsZero() {
			return s
		}
	}
}
