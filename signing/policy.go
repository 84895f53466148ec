package signing

import (
	"fmt"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/coinbase/kryptology/pkg/core/curves"
)

// TweakPolicy decides how a signer's key package meets the Taproot tweak.
// Every policy must produce shares that aggregate under the output key of
// the untweaked aggregate key for the same merkle root.
type TweakPolicy interface {
	Role() wire.Role
	// Signer is the identifier the signer's commitment is filed under.
	Signer(kp *frost.KeyPackage) frost.Identifier
	// Participants is the default interpolation set for the signer.
	Participants(commitments map[frost.Identifier]*frost.SigningCommitments) []frost.Identifier
	Sign(pkg *frost.SigningPackage, nonces *frost.SigningNonces, kp *frost.KeyPackage, merkleRoot []byte) (curves.Scalar, error)
}

// OperatorTweakPolicy keeps the share untouched and applies the tweak when
// signing, so one share serves every script commitment.
type OperatorTweakPolicy struct{}

func (OperatorTweakPolicy) Role() wire.Role { return wire.RoleOperator }

func (OperatorTweakPolicy) Signer(kp *frost.KeyPackage) frost.Identifier {
	return kp.Identifier
}

// Participants returns every committed identifier except the user's.
func (OperatorTweakPolicy) Participants(commitments map[frost.Identifier]*frost.SigningCommitments) []frost.Identifier {
	ids := make([]frost.Identifier, 0, len(commitments))
	for id := range commitments {
		if id != frost.UserIdentifier {
			ids = append(ids, id)
		}
	}
	frost.SortIdentifiers(ids)
	return ids
}

func (OperatorTweakPolicy) Sign(pkg *frost.SigningPackage, nonces *frost.SigningNonces, kp *frost.KeyPackage, merkleRoot []byte) (curves.Scalar, error) {
	return frost.SignWithTweak(pkg, nonces, kp, merkleRoot)
}

// UserTweakPolicy never tweaks the user's secret. The share is corrected
// for the parity of the untweaked key and the package reports the tweaked
// key as its verifying key.
type UserTweakPolicy struct{}

func (UserTweakPolicy) Role() wire.Role { return wire.RoleUser }

func (UserTweakPolicy) Signer(*frost.KeyPackage) frost.Identifier {
	return frost.UserIdentifier
}

func (UserTweakPolicy) Participants(map[frost.Identifier]*frost.SigningCommitments) []frost.Identifier {
	return []frost.Identifier{frost.UserIdentifier}
}

func (p UserTweakPolicy) Sign(pkg *frost.SigningPackage, nonces *frost.SigningNonces, kp *frost.KeyPackage, merkleRoot []byte) (curves.Scalar, error) {
	resolved, err := p.Resolve(kp, merkleRoot)
	if err != nil {
		return nil, err
	}
	return frost.Sign(pkg, nonces, resolved)
}

// Resolve returns the package the user actually signs with. The even-Y
// correction is taken from the untweaked key before the tweaked key
// replaces it.
func (UserTweakPolicy) Resolve(kp *frost.KeyPackage, merkleRoot []byte) (*frost.KeyPackage, error) {
	even := frost.HasEvenY(kp.VerifyingKey)
	tweaked, err := frost.TweakKey(kp.VerifyingKey, merkleRoot)
	if err != nil {
		return nil, err
	}
	resolved := kp.IntoEvenY(&even)
	resolved.Identifier = frost.UserIdentifier
	resolved.VerifyingKey = tweaked
	return resolved, nil
}

func PolicyFor(role wire.Role) (TweakPolicy, error) {
	switch role {
	case wire.RoleOperator:
		return OperatorTweakPolicy{}, nil
	case wire.RoleUser:
		return UserTweakPolicy{}, nil
	}
	return nil, wire.NewValidationError("role", fmt.Errorf("%w: %d", wire.ErrInvalidRole, int(role)))
}
