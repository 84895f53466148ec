package frost

import (
	"fmt"

	"github.com/coinbase/kryptology/pkg/core/curves"
	json "github.com/goccy/go-json"
)

type round1PackageJSON struct {
	Commitment [][]byte  `json:"commitment"`
	Proof      proofJSON `json:"proof"`
}

type proofJSON struct {
	R []byte `json:"r"`
	Z []byte `json:"z"`
}

type round2PackageJSON struct {
	SigningShare []byte `json:"signing_share"`
}

func (p *Round1Package) MarshalJSON() ([]byte, error) {
	out := round1PackageJSON{
		Commitment: make([][]byte, len(p.Commitment)),
		Proof:      proofJSON{R: PointBytes(p.ProofR), Z: ScalarBytes(p.ProofZ)},
	}
	for i, c := range p.Commitment {
		out.Commitment[i] = PointBytes(c)
	}
	return json.Marshal(out)
}

func (p *Round1Package) UnmarshalJSON(data []byte) error {
	var in round1PackageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Commitment) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidCommitment)
	}
	commitment := make([]curves.Point, len(in.Commitment))
	for i, c := range in.Commitment {
		point, err := PointFromBytes(c)
		if err != nil {
			return fmt.Errorf("commitment[%d]: %w", i, err)
		}
		commitment[i] = point
	}
	r, err := PointFromBytes(in.Proof.R)
	if err != nil {
		return fmt.Errorf("proof r: %w", err)
	}
	z, err := ScalarFromBytes(in.Proof.Z)
	if err != nil {
		return fmt.Errorf("proof z: %w", err)
	}
	*p = Round1Package{Commitment: commitment, ProofR: r, ProofZ: z}
	return nil
}

func (p *Round2Package) MarshalJSON() ([]byte, error) {
	return json.Marshal(round2PackageJSON{SigningShare: ScalarBytes(p.SigningShare)})
}

func (p *Round2Package) UnmarshalJSON(data []byte) error {
	var in round2PackageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	share, err := ScalarFromBytes(in.SigningShare)
	if err != nil {
		return fmt.Errorf("signing share: %w", err)
	}
	p.SigningShare = share
	return nil
}

func Round1PackageFromBytes(b []byte) (*Round1Package, error) {
	var p Round1Package
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func Round2PackageFromBytes(b []byte) (*Round2Package, error) {
	var p Round2Package
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
