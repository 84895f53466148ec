package frost

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/coinbase/kryptology/pkg/core/curves"
)

const (
	ScalarSize    = 32
	PointSize     = 33
	SignatureSize = 64
)

// Domain separation tags. The challenge and tweak tags are the BIP340/BIP341
// ones so that final signatures and tweaked keys are valid for Taproot.
var (
	tagIdentifier = []byte("FROST-secp256k1-SHA256-TR-v1/id")
	tagRho        = []byte("FROST-secp256k1-SHA256-TR-v1/rho")
	tagMessage    = []byte("FROST-secp256k1-SHA256-TR-v1/msg")
	tagCommitList = []byte("FROST-secp256k1-SHA256-TR-v1/com")
	tagNonce      = []byte("FROST-secp256k1-SHA256-TR-v1/nonce")
	tagDKG        = []byte("FROST-secp256k1-SHA256-TR-v1/dkg")
	tagChallenge  = []byte("BIP0340/challenge")
	tagTapTweak   = []byte("TapTweak")
)

var (
	curve = curves.K256()
	order = new(big.Int).Set(btcec.S256().N)
)

// ScalarFromBytes parses a 32 byte big-endian scalar. Values at or above the
// group order are rejected rather than reduced.
func ScalarFromBytes(b []byte) (curves.Scalar, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidScalar, ScalarSize, len(b))
	}
	v := new(big.Int).SetBytes(b)
	if v.Cmp(order) >= 0 {
		return nil, fmt.Errorf("%w: value not below group order", ErrInvalidScalar)
	}
	s, err := curve.Scalar.SetBigInt(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	return s, nil
}

// NonZeroScalarFromBytes is ScalarFromBytes for secrets, where zero is never valid.
func NonZeroScalarFromBytes(b []byte) (curves.Scalar, error) {
	s, err := ScalarFromBytes(b)
	if err != nil {
		return nil, err
	}
	if s.IsZero() {
		return nil, fmt.Errorf("%w: zero", ErrInvalidScalar)
	}
	return s, nil
}

func ScalarBytes(s curves.Scalar) []byte {
	return s.BigInt().FillBytes(make([]byte, ScalarSize))
}

// PointFromBytes parses a 33 byte SEC1 compressed point. The identity is rejected.
func PointFromBytes(b []byte) (curves.Point, error) {
	if len(b) != PointSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, PointSize, len(b))
	}
	p, err := curve.Point.FromAffineCompressed(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	if p.IsIdentity() {
		return nil, fmt.Errorf("%w: identity", ErrInvalidPoint)
	}
	return p, nil
}

func PointBytes(p curves.Point) []byte {
	return p.ToAffineCompressed()
}

// HasEvenY reports whether the affine y coordinate of p is even.
func HasEvenY(p curves.Point) bool {
	return p.ToAffineCompressed()[0] == 0x02
}

// XOnly returns the 32 byte BIP340 encoding of p.
func XOnly(p curves.Point) []byte {
	return p.ToAffineCompressed()[1:]
}

func baseMul(s curves.Scalar) curves.Point {
	return curve.ScalarBaseMult(s)
}

func scalarFromInt(n uint64) curves.Scalar {
	s, _ := curve.Scalar.SetBigInt(new(big.Int).SetUint64(n))
	return s
}

// hashToScalar reduces a tagged SHA-256 digest modulo the group order.
func hashToScalar(tag []byte, msgs ...[]byte) curves.Scalar {
	h := chainhash.TaggedHash(tag, msgs...)
	v := new(big.Int).SetBytes(h[:])
	v.Mod(v, order)
	s, _ := curve.Scalar.SetBigInt(v)
	return s
}

func hashBytes(tag []byte, msgs ...[]byte) []byte {
	h := chainhash.TaggedHash(tag, msgs...)
	return h[:]
}
