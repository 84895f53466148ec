package frost

import "errors"

var (
	ErrInvalidScalar     = errors.New("invalid scalar encoding")
	ErrInvalidPoint      = errors.New("invalid point encoding")
	ErrInvalidIdentifier = errors.New("invalid identifier")

	ErrInvalidMinSigners         = errors.New("min signers must be between 1 and max signers")
	ErrInvalidMaxSigners         = errors.New("max signers must be between 1 and 65535")
	ErrIncorrectNumberOfPackages = errors.New("incorrect number of packages")
	ErrInvalidProofOfKnowledge   = errors.New("invalid proof of knowledge")
	ErrInvalidSecretShare        = errors.New("invalid secret share")
	ErrInvalidCommitment         = errors.New("invalid vss commitment")

	ErrUnknownIdentifier       = errors.New("unknown identifier")
	ErrMissingCommitment       = errors.New("missing signing commitment")
	ErrIncorrectCommitment     = errors.New("nonce does not match signing commitment")
	ErrInvalidNonce            = errors.New("signing nonce is unusable")
	ErrIncorrectNumberOfShares = errors.New("incorrect number of signature shares")
	ErrTooFewSigners           = errors.New("fewer signing participants than min signers")
	ErrMissingVerifyingShare   = errors.New("missing verifying share")
	ErrInvalidSignatureShare   = errors.New("invalid signature share")
	ErrInvalidSignature        = errors.New("invalid signature")
	ErrInvalidMerkleRoot       = errors.New("tapscript merkle root must be empty or 32 bytes")
)
