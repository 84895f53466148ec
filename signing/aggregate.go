package signing

import (
	"fmt"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/wire"
	log "github.com/sirupsen/logrus"
)

// Aggregate combines the operators' and the user's signature shares into a
// BIP340 signature under the Taproot output key of the aggregate key.
func (s *Signer) Aggregate(req *wire.AggregateRequest) (*wire.AggregateResult, error) {
	commitments, err := wire.ParseCommitments("commitments", req.Commitments)
	if err != nil {
		return nil, err
	}
	userCommitment, err := wire.ParseCommitment("user_commitments", req.UserCommitment)
	if err != nil {
		return nil, err
	}
	shares, err := wire.ParseSignatureShares("signature_shares", req.SignatureShares)
	if err != nil {
		return nil, err
	}
	userShare, err := wire.ParseScalar("user_signature_share", req.UserSignatureShare)
	if err != nil {
		return nil, err
	}
	publicShares, err := wire.ParsePublicShares("public_shares", req.PublicShares)
	if err != nil {
		return nil, err
	}
	userPublicKey, err := wire.ParsePoint("user_public_key", req.UserPublicKey)
	if err != nil {
		return nil, err
	}
	verifyingKey, err := wire.ParsePoint("verifying_key", req.VerifyingKey)
	if err != nil {
		return nil, err
	}
	merkleRoot, err := wire.ParseMerkleRoot("tapscript_merkle_root", req.TapscriptMerkleRoot)
	if err != nil {
		return nil, err
	}

	user := frost.UserIdentifier
	if existing, ok := commitments[user]; ok && !existing.Equal(userCommitment) {
		return nil, wire.NewValidationError("commitments", fmt.Errorf("%w: user entry differs from user_commitments", frost.ErrIncorrectCommitment))
	}
	commitments[user] = userCommitment
	shares[user] = userShare
	publicShares[user] = userPublicKey

	pkg, err := frost.NewSigningPackage(commitments, req.Message, nil)
	if err != nil {
		return nil, wire.NewValidationError("commitments", err)
	}
	pkp := &frost.PublicKeyPackage{VerifyingShares: publicShares, VerifyingKey: verifyingKey}

	sig, err := frost.AggregateWithTweak(pkg, shares, pkp, merkleRoot)
	if err != nil {
		log.WithFields(log.Fields{
			"signers": len(shares),
			"error":   err,
		}).Warn("aggregation failed")
		return nil, fmt.Errorf("%w: %w", ErrAggregationFailed, err)
	}
	outputKey, err := frost.TaprootOutputKey(verifyingKey, merkleRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregationFailed, err)
	}
	return &wire.AggregateResult{Signature: sig.Bytes(), OutputKey: outputKey}, nil
}
