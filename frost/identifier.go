package frost

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/coinbase/kryptology/pkg/core/curves"
)

// Identifier names a protocol participant. It is the 32 byte big-endian
// encoding of a non-zero scalar, so it compares by value and can be used
// directly as a map key.
type Identifier [ScalarSize]byte

// UserIdentifier is the fixed identifier of the client-held share.
var UserIdentifier = DeriveIdentifier([]byte("user"))

// NewIdentifier maps the legacy small-integer form onto the scalar space.
func NewIdentifier(n uint16) (Identifier, error) {
	if n == 0 {
		return Identifier{}, fmt.Errorf("%w: zero", ErrInvalidIdentifier)
	}
	var id Identifier
	new(big.Int).SetUint64(uint64(n)).FillBytes(id[:])
	return id, nil
}

// DeriveIdentifier hashes an arbitrary tag into an identifier.
func DeriveIdentifier(tag []byte) Identifier {
	var id Identifier
	copy(id[:], ScalarBytes(hashToScalar(tagIdentifier, tag)))
	return id
}

func IdentifierFromBytes(b []byte) (Identifier, error) {
	s, err := NonZeroScalarFromBytes(b)
	if err != nil {
		return Identifier{}, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	return identifierFromScalar(s), nil
}

// ParseIdentifier accepts the 64 character hex form, or a decimal integer in
// [1, 65535] for the legacy form.
func ParseIdentifier(s string) (Identifier, error) {
	if len(s) <= 5 {
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
		}
		return NewIdentifier(uint16(n))
	}
	if len(s) != 2*ScalarSize {
		return Identifier{}, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidIdentifier, 2*ScalarSize, len(s))
	}
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return Identifier{}, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	return IdentifierFromBytes(b)
}

func identifierFromScalar(s curves.Scalar) Identifier {
	var id Identifier
	copy(id[:], ScalarBytes(s))
	return id
}

func (id Identifier) Bytes() []byte {
	out := make([]byte, ScalarSize)
	copy(out, id[:])
	return out
}

// String returns the lowercase hex wire form.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

func (id Identifier) IsZero() bool {
	return id == Identifier{}
}

func (id Identifier) scalar() curves.Scalar {
	s, _ := ScalarFromBytes(id[:])
	return s
}

// SortIdentifiers orders ids ascending by their scalar value.
func SortIdentifiers(ids []Identifier) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
