// Package usersigner exposes the user side of a signing round to callers
// that hold a single user key and never run a DKG.
package usersigner

import (
	"errors"
	"fmt"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/google/uuid"
)

var errNoResult = errors.New("signer returned no result")

// KeyPackage is the user's key material.
type KeyPackage struct {
	// SecretKey is the user's 32 byte secret.
	SecretKey []byte
	// PublicKey is the compressed point for SecretKey.
	PublicKey []byte
	// VerifyingKey is the combined user and operator key, before the Taproot tweak.
	VerifyingKey []byte
}

// Wire converts kp into a threshold-1 key package under the user identifier.
func (kp *KeyPackage) Wire() *wire.KeyPackage {
	id := frost.UserIdentifier.String()
	return &wire.KeyPackage{
		Identifier:   id,
		SecretShare:  kp.SecretKey,
		PublicShares: map[string][]byte{id: kp.PublicKey},
		PublicKey:    kp.VerifyingKey,
		MinSigners:   1,
	}
}

// OperatorRound is what the operators contributed to a signing round, keyed
// by hex identifier.
type OperatorRound struct {
	Commitments     map[string]*wire.SigningCommitment
	SignatureShares map[string][]byte
	PublicShares    map[string][]byte
}

type UserSigner struct {
	signer *signing.Signer
}

// New returns a UserSigner. guard may be nil.
func New(guard signing.NonceGuard) *UserSigner {
	return &UserSigner{signer: signing.NewSigner(guard)}
}

func (u *UserSigner) FrostNonce(kp *KeyPackage) (*wire.SigningNonceResult, error) {
	resp, err := u.signer.FrostNonce(&signing.NonceRequest{KeyPackages: []*wire.KeyPackage{kp.Wire()}})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, errNoResult
	}
	return resp.Results[0], nil
}

// SignFrost produces the user's signature share. operatorCommitments must not
// contain the user's own commitment.
func (u *UserSigner) SignFrost(
	message []byte,
	kp *KeyPackage,
	nonce *wire.SigningNonce,
	commitment *wire.SigningCommitment,
	operatorCommitments map[string]*wire.SigningCommitment,
	merkleRoot []byte,
) ([]byte, error) {
	job := &wire.SigningJob{
		JobID:               uuid.NewString(),
		Message:             message,
		KeyPackage:          kp.Wire(),
		VerifyingKey:        kp.VerifyingKey,
		Nonce:               nonce,
		OwnCommitment:       commitment,
		Commitments:         operatorCommitments,
		TapscriptMerkleRoot: merkleRoot,
	}
	resp, err := u.signer.SignFrost(&signing.SignRequest{SigningJobs: []*wire.SigningJob{job}, Role: wire.RoleUser})
	if err != nil {
		return nil, err
	}
	share, ok := resp.Results[job.JobID]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", job.JobID, errNoResult)
	}
	return share, nil
}

// AggregateFrost combines the operators' shares with the user's share and
// returns the 64 byte signature.
func (u *UserSigner) AggregateFrost(
	message []byte,
	kp *KeyPackage,
	commitment *wire.SigningCommitment,
	share []byte,
	operators *OperatorRound,
	merkleRoot []byte,
) ([]byte, error) {
	if operators == nil {
		return nil, wire.NewValidationError("operators", wire.ErrMissingField)
	}
	result, err := u.signer.Aggregate(&wire.AggregateRequest{
		Message:             message,
		Commitments:         operators.Commitments,
		UserCommitment:      commitment,
		SignatureShares:     operators.SignatureShares,
		UserSignatureShare:  share,
		PublicShares:        operators.PublicShares,
		UserPublicKey:       kp.PublicKey,
		VerifyingKey:        kp.VerifyingKey,
		TapscriptMerkleRoot: merkleRoot,
	})
	if err != nil {
		return nil, err
	}
	return result.Signature, nil
}
