package frost

import (
	"fmt"

	"github.com/coinbase/kryptology/pkg/core/curves"
)

// KeyPackage is everything a participant needs to produce signature shares.
type KeyPackage struct {
	Identifier     Identifier
	SigningShare   curves.Scalar
	VerifyingShare curves.Point
	VerifyingKey   curves.Point
	MinSigners     uint16
}

// PublicKeyPackage holds the public material needed to aggregate and to
// check individual signature shares.
type PublicKeyPackage struct {
	VerifyingShares map[Identifier]curves.Point
	VerifyingKey    curves.Point
}

func NewKeyPackage(id Identifier, signingShare curves.Scalar, verifyingShare, verifyingKey curves.Point, minSigners uint16) *KeyPackage {
	return &KeyPackage{
		Identifier:     id,
		SigningShare:   signingShare,
		VerifyingShare: verifyingShare,
		VerifyingKey:   verifyingKey,
		MinSigners:     minSigners,
	}
}

// IntoEvenY negates the package if the verifying key has odd y. When isEven
// is non-nil it is used instead of inspecting the package's own key.
func (kp *KeyPackage) IntoEvenY(isEven *bool) *KeyPackage {
	even := HasEvenY(kp.VerifyingKey)
	if isEven != nil {
		even = *isEven
	}
	out := *kp
	if !even {
		out.SigningShare = kp.SigningShare.Neg()
		out.VerifyingShare = kp.VerifyingShare.Neg()
		out.VerifyingKey = kp.VerifyingKey.Neg()
	}
	return &out
}

// Tweak commits the package to merkleRoot as a BIP341 Taproot output key.
// The package is made even first; the tweak is added to the share, the
// verifying share and the verifying key. An empty root is the BIP86 tweak.
func (kp *KeyPackage) Tweak(merkleRoot []byte) (*KeyPackage, error) {
	t, err := TaprootTweak(kp.VerifyingKey, merkleRoot)
	if err != nil {
		return nil, err
	}
	tp := baseMul(t)
	even := kp.IntoEvenY(nil)
	return &KeyPackage{
		Identifier:     even.Identifier,
		SigningShare:   even.SigningShare.Add(t),
		VerifyingShare: even.VerifyingShare.Add(tp),
		VerifyingKey:   even.VerifyingKey.Add(tp),
		MinSigners:     even.MinSigners,
	}, nil
}

// IntoEvenY is the public package counterpart of KeyPackage.IntoEvenY.
func (pkp *PublicKeyPackage) IntoEvenY(isEven *bool) *PublicKeyPackage {
	even := HasEvenY(pkp.VerifyingKey)
	if isEven != nil {
		even = *isEven
	}
	if even {
		return pkp
	}
	shares := make(map[Identifier]curves.Point, len(pkp.VerifyingShares))
	for id, share := range pkp.VerifyingShares {
		shares[id] = share.Neg()
	}
	return &PublicKeyPackage{VerifyingShares: shares, VerifyingKey: pkp.VerifyingKey.Neg()}
}

// TweakedKey returns the Taproot output key for the package's verifying key.
func (pkp *PublicKeyPackage) TweakedKey(merkleRoot []byte) (curves.Point, error) {
	return TweakKey(pkp.VerifyingKey, merkleRoot)
}

// TaprootTweak computes t = H_TapTweak(x(P) || merkleRoot) mod n.
func TaprootTweak(key curves.Point, merkleRoot []byte) (curves.Scalar, error) {
	if len(merkleRoot) != 0 && len(merkleRoot) != 32 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidMerkleRoot, len(merkleRoot))
	}
	return hashToScalar(tagTapTweak, XOnly(key), merkleRoot), nil
}

// TweakKey returns lift_x(P) + t*G, the Taproot output key of P.
func TweakKey(key curves.Point, merkleRoot []byte) (curves.Point, error) {
	t, err := TaprootTweak(key, merkleRoot)
	if err != nil {
		return nil, err
	}
	even := key
	if !HasEvenY(key) {
		even = key.Neg()
	}
	return even.Add(baseMul(t)), nil
}
