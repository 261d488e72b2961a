package model

import "fmt"

// Role is the enumerated account role. The hosted schema stores roles as the
// two-digit codes "01" (administrator) and "02" (member); those codes exist
// only at the storage and wire boundary. Everything else works with Role.
type Role int

const (
	RoleMember Role = iota
	RoleAdministrator
)

const (
	roleCodeAdministrator = "01"
	roleCodeMember        = "02"
)

// Code returns the two-digit storage code for the role.
func (r Role) Code() string {
	if r == RoleAdministrator {
		return roleCodeAdministrator
	}
	return roleCodeMember
}

func (r Role) String() string {
	if r == RoleAdministrator {
		return "administrator"
	}
	return "member"
}

// ParseRoleCode maps a stored role code back to a Role.
func ParseRoleCode(code string) (Role, error) {
	switch code {
	case roleCodeAdministrator:
		return RoleAdministrator, nil
	case roleCodeMember:
		return RoleMember, nil
	default:
		return RoleMember, fmt.Errorf("model: unknown role code %q", code)
	}
}

// MarshalText makes Role serialize as its storage code, keeping JSON payloads
// compatible with the original "01"/"02" convention.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.Code()), nil
}

// UnmarshalText accepts a role code. Unknown codes fall back to member so a
// stale stored session never grants elevated access.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRoleCode(string(text))
	if err != nil {
		*r = RoleMember
		return nil
	}
	*r = parsed
	return nil
}
