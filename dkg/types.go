package dkg

import "github.com/arcana-network/frostsigner/wire"

type Round1Request struct {
	Identifier string `json:"identifier"`
	MinSigners uint32 `json:"min_signers"`
	MaxSigners uint32 `json:"max_signers"`
	KeyCount   uint32 `json:"key_count"`
}

type Round1Response struct {
	Round1Packages [][]byte `json:"round1_packages"`
}

// PackageMap maps a sender or receiver identifier in hex to an encoded
// round package.
type PackageMap map[string][]byte

type Round2Request struct {
	Round1Packages []PackageMap `json:"round1_packages"`
}

type Round2Response struct {
	Round2Packages []PackageMap `json:"round2_packages"`
}

type Round3Request struct {
	Round1Packages []PackageMap `json:"round1_packages"`
	Round2Packages []PackageMap `json:"round2_packages"`
}

type Round3Response struct {
	KeyPackages []*wire.KeyPackage `json:"key_packages"`
}
