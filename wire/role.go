package wire

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Role decides which tweak policy a signer applies.
type Role int

const (
	RoleOperator Role = iota
	RoleUser
)

func (r Role) String() string {
	switch r {
	case RoleOperator:
		return "operator"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	return r == RoleOperator || r == RoleUser
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "operator", "0":
		return RoleOperator, nil
	case "user", "1":
		return RoleUser, nil
	}
	return 0, NewValidationError("role", fmt.Errorf("%w: %q", ErrInvalidRole, s))
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the role name or its numeric code.
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		role, err := ParseRole(name)
		if err != nil {
			return err
		}
		*r = role
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return NewValidationError("role", ErrInvalidRole)
	}
	role := Role(code)
	if !role.Valid() {
		return NewValidationError("role", fmt.Errorf("%w: %d", ErrInvalidRole, code))
	}
	*r = role
	return nil
}
