package access

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/plasturgie/plasturgie/pkg/logger"
)

var (
	ErrUnknownRole      = errors.New("unknown role")
	ErrNoPrincipal      = errors.New("no authenticated principal")
	ErrPermissionDenied = errors.New("permission denied")
)

// Principal is the authenticated actor on whose behalf requests are made.
type Principal struct {
	ID       string
	Username string
	Roles    []Role
}

// PrincipalFromGrants builds a principal from roles granted by the backend,
// in a token or a profile. Grants that are not roles, such as scopes or
// unrelated authorities, are skipped and reported to the debug log.
func PrincipalFromGrants(ctx context.Context, id, username string, grants ...string) *Principal {
	roles, unknown := ParseRoles(grants...)
	if len(unknown) > 0 {
		logger.FromContext(ctx).Debug("ignoring grants that are not roles", "user", username, "grants", unknown)
	}
	return &Principal{ID: id, Username: username, Roles: roles}
}

// HasRole reports whether the principal carries r. A nil principal has no roles.
func (p *Principal) HasRole(r Role) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, r)
}

// HasAnyRole reports whether the principal's roles intersect allowed.
func (p *Principal) HasAnyRole(allowed ...Role) bool {
	for _, r := range allowed {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// PrincipalProvider resolves the current principal. Implementations return
// ErrNoPrincipal when nobody is authenticated.
type PrincipalProvider interface {
	Principal(ctx context.Context) (*Principal, error)
}

// StaticProvider always yields the same principal.
type StaticProvider struct {
	P *Principal
}

func (s StaticProvider) Principal(_ context.Context) (*Principal, error) {
	if s.P == nil {
		return nil, ErrNoPrincipal
	}
	return s.P, nil
}

// Require returns ErrPermissionDenied unless p may perform action.
func Require(action Action, p *Principal) error {
	if p == nil {
		return fmt.Errorf("%w: %s requires an authenticated user", ErrPermissionDenied, action)
	}
	if !CanPerform(action, p) {
		return fmt.Errorf("%w: %s is not allowed for roles %v", ErrPermissionDenied, action, p.Roles)
	}
	return nil
}
