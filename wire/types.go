package wire

// Byte fields travel as base64 strings inside JSON-RPC bodies; identifiers
// used as map keys are lowercase hex.

type KeyPackage struct {
	Identifier   string            `json:"identifier"`
	SecretShare  []byte            `json:"secret_share"`
	PublicShares map[string][]byte `json:"public_shares"`
	PublicKey    []byte            `json:"public_key"`
	MinSigners   uint32            `json:"min_signers"`
}

type SigningNonce struct {
	Hiding  []byte `json:"hiding"`
	Binding []byte `json:"binding"`
}

type SigningCommitment struct {
	Hiding  []byte `json:"hiding"`
	Binding []byte `json:"binding"`
}

type SigningNonceResult struct {
	Nonces     *SigningNonce      `json:"nonces"`
	Commitment *SigningCommitment `json:"commitments"`
}

// SigningJob is one signature share request. Commitments holds the peers'
// commitments; OwnCommitment is inserted under the signer's own identifier.
type SigningJob struct {
	JobID               string                        `json:"job_id"`
	Message             []byte                        `json:"message"`
	KeyPackage          *KeyPackage                   `json:"key_package"`
	VerifyingKey        []byte                        `json:"verifying_key"`
	Nonce               *SigningNonce                 `json:"nonce"`
	OwnCommitment       *SigningCommitment            `json:"own_commitment"`
	Commitments         map[string]*SigningCommitment `json:"commitments"`
	Participants        []string                      `json:"participants,omitempty"`
	TapscriptMerkleRoot []byte                        `json:"tapscript_merkle_root,omitempty"`
}

type SignatureShare struct {
	JobID string `json:"job_id"`
	Share []byte `json:"share"`
}

type AggregateRequest struct {
	Message             []byte                        `json:"message"`
	Commitments         map[string]*SigningCommitment `json:"commitments"`
	UserCommitment      *SigningCommitment            `json:"user_commitments"`
	SignatureShares     map[string][]byte             `json:"signature_shares"`
	UserSignatureShare  []byte                        `json:"user_signature_share"`
	PublicShares        map[string][]byte             `json:"public_shares"`
	UserPublicKey       []byte                        `json:"user_public_key"`
	VerifyingKey        []byte                        `json:"verifying_key"`
	TapscriptMerkleRoot []byte                        `json:"tapscript_merkle_root,omitempty"`
}

type AggregateResult struct {
	Signature []byte `json:"signature"`
	// OutputKey is the x-only Taproot key the signature verifies under.
	OutputKey []byte `json:"output_key"`
}
