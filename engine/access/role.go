package access

import (
	"fmt"
	"slices"
	"strings"
)

// Role is a coarse permission category assigned by the backend.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleLearner    Role = "LEARNER"
	RoleCompanyRep Role = "COMPANY_REP"
)

// AllRoles lists every role the backend can assign.
var AllRoles = []Role{RoleAdmin, RoleInstructor, RoleLearner, RoleCompanyRep}

// Valid checks if the role is one of the known values
func (r Role) Valid() bool {
	return slices.Contains(AllRoles, r)
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts backend spellings such as "admin" or "ROLE_ADMIN".
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// ParseRoles parses raw role names, dropping duplicates. Names that are not
// roles are returned separately in their original spelling.
func ParseRoles(raw ...string) (roles []Role, unknown []string) {
	for _, s := range raw {
		r, err := ParseRole(s)
		if err != nil {
			unknown = append(unknown, s)
			continue
		}
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return roles, unknown
}
