package signing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/coinbase/kryptology/pkg/core/curves"
	log "github.com/sirupsen/logrus"
)

// NonceGuard refuses a commitment it has already recorded.
type NonceGuard interface {
	RecordCommitment(digest string) error
}

type NonceRequest struct {
	KeyPackages []*wire.KeyPackage `json:"key_packages"`
}

type NonceResponse struct {
	Results []*wire.SigningNonceResult `json:"results"`
}

type SignRequest struct {
	SigningJobs []*wire.SigningJob `json:"signing_jobs"`
	Role        wire.Role          `json:"role"`
}

type SignResponse struct {
	// Results maps job id to a 32 byte signature share.
	Results map[string][]byte `json:"results"`
}

// Signer runs nonce generation, share signing and aggregation. It holds no
// per-session state; concurrent calls are independent.
type Signer struct {
	guard NonceGuard
	rand  io.Reader
}

// NewSigner returns a Signer. guard may be nil, in which case commitments
// are not tracked across calls.
func NewSigner(guard NonceGuard) *Signer {
	return &Signer{guard: guard, rand: rand.Reader}
}

func (s *Signer) FrostNonce(req *NonceRequest) (*NonceResponse, error) {
	if len(req.KeyPackages) == 0 {
		return nil, wire.NewValidationError("key_packages", wire.ErrMissingField)
	}
	results := make([]*wire.SigningNonceResult, len(req.KeyPackages))
	for i, in := range req.KeyPackages {
		kp, err := wire.ParseKeyPackage(fmt.Sprintf("key_packages[%d]", i), in)
		if err != nil {
			return nil, err
		}
		nonces, err := frost.Commit(kp.SigningShare, s.rand)
		if err != nil {
			return nil, err
		}
		results[i] = &wire.SigningNonceResult{
			Nonces:     wire.NewSigningNonce(nonces),
			Commitment: wire.NewSigningCommitment(nonces.Commitments),
		}
	}
	return &NonceResponse{Results: results}, nil
}

type preparedJob struct {
	id         string
	pkg        *frost.SigningPackage
	nonces     *frost.SigningNonces
	kp         *frost.KeyPackage
	merkleRoot []byte
	digest     string
}

// SignFrost signs every job under one role. All jobs are validated before
// any is signed. Each job's nonce is discarded after its attempt whatever
// the outcome.
func (s *Signer) SignFrost(req *SignRequest) (*SignResponse, error) {
	policy, err := PolicyFor(req.Role)
	if err != nil {
		return nil, err
	}
	if len(req.SigningJobs) == 0 {
		return nil, wire.NewValidationError("signing_jobs", ErrNoJobs)
	}

	jobs := make([]*preparedJob, len(req.SigningJobs))
	seen := make(map[string]bool, len(req.SigningJobs))
	for i, in := range req.SigningJobs {
		job, err := prepareJob(fmt.Sprintf("signing_jobs[%d]", i), in, policy)
		if err != nil {
			return nil, err
		}
		if seen[job.id] {
			return nil, wire.NewValidationError(fmt.Sprintf("signing_jobs[%d].job_id", i), fmt.Errorf("%w: %s", ErrDuplicateJobID, job.id))
		}
		seen[job.id] = true
		jobs[i] = job
	}

	defer func() {
		for _, job := range jobs {
			job.nonces.Discard()
		}
	}()

	results := make(map[string][]byte, len(jobs))
	for _, job := range jobs {
		share, err := s.signJob(policy, job)
		if err != nil {
			log.WithFields(log.Fields{
				"jobID": job.id,
				"role":  policy.Role().String(),
				"error": err,
			}).Warn("signing job failed")
			return nil, err
		}
		results[job.id] = frost.ScalarBytes(share)
	}
	return &SignResponse{Results: results}, nil
}

func (s *Signer) signJob(policy TweakPolicy, job *preparedJob) (curves.Scalar, error) {
	if s.guard != nil {
		if err := s.guard.RecordCommitment(job.digest); err != nil {
			return nil, fmt.Errorf("job %s: %w: %v", job.id, ErrNonceReused, err)
		}
	}
	share, err := policy.Sign(job.pkg, job.nonces, job.kp, job.merkleRoot)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w: %w", job.id, ErrSigningFailed, err)
	}
	return share, nil
}

func prepareJob(field string, in *wire.SigningJob, policy TweakPolicy) (*preparedJob, error) {
	if in == nil {
		return nil, wire.NewValidationError(field, wire.ErrMissingField)
	}
	if in.JobID == "" {
		return nil, wire.NewValidationError(field+".job_id", wire.ErrMissingField)
	}
	kp, err := wire.ParseKeyPackage(field+".key_package", in.KeyPackage)
	if err != nil {
		return nil, err
	}
	verifyingKey, err := wire.ParsePoint(field+".verifying_key", in.VerifyingKey)
	if err != nil {
		return nil, err
	}
	nonces, err := wire.ParseNonce(field+".nonce", in.Nonce)
	if err != nil {
		return nil, err
	}
	own, err := wire.ParseCommitment(field+".own_commitment", in.OwnCommitment)
	if err != nil {
		return nil, err
	}
	commitments, err := wire.ParseCommitments(field+".commitments", in.Commitments)
	if err != nil {
		return nil, err
	}
	merkleRoot, err := wire.ParseMerkleRoot(field+".tapscript_merkle_root", in.TapscriptMerkleRoot)
	if err != nil {
		return nil, err
	}

	// The package's own key may be a partial key; signing always targets
	// the aggregate key of the job.
	kp.VerifyingKey = verifyingKey

	signer := policy.Signer(kp)
	if existing, ok := commitments[signer]; ok && !existing.Equal(own) {
		return nil, wire.NewValidationError(field+".commitments", fmt.Errorf("%w: entry for %s differs from own_commitment", frost.ErrIncorrectCommitment, signer))
	}
	commitments[signer] = own

	participants := policy.Participants(commitments)
	if len(in.Participants) > 0 {
		participants, err = wire.ParseIdentifiers(field+".participants", in.Participants)
		if err != nil {
			return nil, err
		}
	}
	pkg, err := frost.NewSigningPackage(commitments, in.Message, participants)
	if err != nil {
		return nil, wire.NewValidationError(field+".participants", err)
	}

	return &preparedJob{
		id:         in.JobID,
		pkg:        pkg,
		nonces:     nonces,
		kp:         kp,
		merkleRoot: merkleRoot,
		digest:     CommitmentDigest(own),
	}, nil
}

// CommitmentDigest identifies a commitment without retaining it.
func CommitmentDigest(c *frost.SigningCommitments) string {
	b := append(frost.PointBytes(c.Hiding), frost.PointBytes(c.Binding)...)
	return hex.EncodeToString(chainhash.HashB(b))
}
