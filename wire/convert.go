package wire

import (
	"fmt"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/coinbase/kryptology/pkg/core/curves"
)

func ParseIdentifier(field, s string) (frost.Identifier, error) {
	id, err := frost.ParseIdentifier(s)
	if err != nil {
		return frost.Identifier{}, NewValidationError(field, err)
	}
	return id, nil
}

func ParseScalar(field string, b []byte) (curves.Scalar, error) {
	if b == nil {
		return nil, missing(field)
	}
	s, err := frost.ScalarFromBytes(b)
	if err != nil {
		return nil, NewValidationError(field, err)
	}
	return s, nil
}

func ParseSecret(field string, b []byte) (curves.Scalar, error) {
	if b == nil {
		return nil, missing(field)
	}
	s, err := frost.NonZeroScalarFromBytes(b)
	if err != nil {
		return nil, NewValidationError(field, err)
	}
	return s, nil
}

func ParsePoint(field string, b []byte) (curves.Point, error) {
	if b == nil {
		return nil, missing(field)
	}
	p, err := frost.PointFromBytes(b)
	if err != nil {
		return nil, NewValidationError(field, err)
	}
	return p, nil
}

// ParseKeyPackage converts a key package, requiring its public share map to
// carry the package's own verifying share.
func ParseKeyPackage(field string, kp *KeyPackage) (*frost.KeyPackage, error) {
	if kp == nil {
		return nil, missing(field)
	}
	id, err := ParseIdentifier(field+".identifier", kp.Identifier)
	if err != nil {
		return nil, err
	}
	secret, err := ParseSecret(field+".secret_share", kp.SecretShare)
	if err != nil {
		return nil, err
	}
	shares, err := ParsePublicShares(field+".public_shares", kp.PublicShares)
	if err != nil {
		return nil, err
	}
	own, ok := shares[id]
	if !ok {
		return nil, NewValidationError(field+".public_shares", fmt.Errorf("no entry for %s", id))
	}
	key, err := ParsePoint(field+".public_key", kp.PublicKey)
	if err != nil {
		return nil, err
	}
	if kp.MinSigners < 1 || kp.MinSigners > 65535 {
		return nil, NewValidationError(field+".min_signers", fmt.Errorf("%d out of range", kp.MinSigners))
	}
	return frost.NewKeyPackage(id, secret, own, key, uint16(kp.MinSigners)), nil
}

func NewKeyPackage(kp *frost.KeyPackage, pkp *frost.PublicKeyPackage) *KeyPackage {
	shares := map[string][]byte{kp.Identifier.String(): frost.PointBytes(kp.VerifyingShare)}
	if pkp != nil {
		shares = EncodePublicShares(pkp.VerifyingShares)
	}
	return &KeyPackage{
		Identifier:   kp.Identifier.String(),
		SecretShare:  frost.ScalarBytes(kp.SigningShare),
		PublicShares: shares,
		PublicKey:    frost.PointBytes(kp.VerifyingKey),
		MinSigners:   uint32(kp.MinSigners),
	}
}

func ParsePublicShares(field string, in map[string][]byte) (map[frost.Identifier]curves.Point, error) {
	out := make(map[frost.Identifier]curves.Point, len(in))
	for k, v := range in {
		id, err := ParseIdentifier(field, k)
		if err != nil {
			return nil, err
		}
		p, err := ParsePoint(field+"["+k+"]", v)
		if err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, nil
}

func EncodePublicShares(in map[frost.Identifier]curves.Point) map[string][]byte {
	out := make(map[string][]byte, len(in))
	for id, p := range in {
		out[id.String()] = frost.PointBytes(p)
	}
	return out
}

func ParseNonce(field string, n *SigningNonce) (*frost.SigningNonces, error) {
	if n == nil {
		return nil, missing(field)
	}
	hiding, err := ParseSecret(field+".hiding", n.Hiding)
	if err != nil {
		return nil, err
	}
	binding, err := ParseSecret(field+".binding", n.Binding)
	if err != nil {
		return nil, err
	}
	nonces, err := frost.NewSigningNonces(hiding, binding)
	if err != nil {
		return nil, NewValidationError(field, err)
	}
	return nonces, nil
}

func NewSigningNonce(n *frost.SigningNonces) *SigningNonce {
	return &SigningNonce{Hiding: frost.ScalarBytes(n.Hiding), Binding: frost.ScalarBytes(n.Binding)}
}

func ParseCommitment(field string, c *SigningCommitment) (*frost.SigningCommitments, error) {
	if c == nil {
		return nil, missing(field)
	}
	hiding, err := ParsePoint(field+".hiding", c.Hiding)
	if err != nil {
		return nil, err
	}
	binding, err := ParsePoint(field+".binding", c.Binding)
	if err != nil {
		return nil, err
	}
	return &frost.SigningCommitments{Hiding: hiding, Binding: binding}, nil
}

func NewSigningCommitment(c *frost.SigningCommitments) *SigningCommitment {
	return &SigningCommitment{Hiding: frost.PointBytes(c.Hiding), Binding: frost.PointBytes(c.Binding)}
}

func ParseCommitments(field string, in map[string]*SigningCommitment) (map[frost.Identifier]*frost.SigningCommitments, error) {
	out := make(map[frost.Identifier]*frost.SigningCommitments, len(in)+1)
	for k, v := range in {
		id, err := ParseIdentifier(field, k)
		if err != nil {
			return nil, err
		}
		c, err := ParseCommitment(field+"["+k+"]", v)
		if err != nil {
			return nil, err
		}
		out[id] = c
	}
	return out, nil
}

func ParseSignatureShares(field string, in map[string][]byte) (map[frost.Identifier]curves.Scalar, error) {
	out := make(map[frost.Identifier]curves.Scalar, len(in)+1)
	for k, v := range in {
		id, err := ParseIdentifier(field, k)
		if err != nil {
			return nil, err
		}
		s, err := ParseScalar(field+"["+k+"]", v)
		if err != nil {
			return nil, err
		}
		out[id] = s
	}
	return out, nil
}

func ParseIdentifiers(field string, in []string) ([]frost.Identifier, error) {
	out := make([]frost.Identifier, 0, len(in))
	for _, s := range in {
		id, err := ParseIdentifier(field, s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func ParseMerkleRoot(field string, b []byte) ([]byte, error) {
	if len(b) != 0 && len(b) != 32 {
		return nil, NewValidationError(field, fmt.Errorf("%w: got %d bytes", frost.ErrInvalidMerkleRoot, len(b)))
	}
	return b, nil
}
