package access

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider derives the principal from the claims of a bearer token.
// The signature is not checked here: the backend verifies every request, the
// claims only decide which affordances the client offers.
type TokenProvider struct {
	Token string
	Now   func() time.Time
}

func (t TokenProvider) Principal(ctx context.Context) (*Principal, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t.Token), "Bearer "))
	if raw == "" {
		return nil, ErrNoPrincipal
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !exp.After(now()) {
		return nil, fmt.Errorf("%w: access token expired at %s", ErrNoPrincipal, exp.Format(time.RFC3339))
	}
	subject, _ := claims.GetSubject()
	id := claimString(claims, "userId")
	if id == "" {
		id = subject
	}
	username := claimString(claims, "username")
	if username == "" {
		username = subject
	}
	return PrincipalFromGrants(ctx, id, username, claimRoles(claims)...), nil
}

func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// claimRoles reads "roles" or "role", each either a string, a list of
// strings, or a list of {"authority": "..."} objects.
func claimRoles(claims jwt.MapClaims) []string {
	for _, key := range []string{"roles", "role", "authorities"} {
		if v, ok := claims[key]; ok {
			return flattenRoles(v)
		}
	}
	return nil
}

func flattenRoles(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, flattenRoles(item)...)
		}
		return out
	case map[string]any:
		if authority, ok := val["authority"].(string); ok {
			return []string{authority}
		}
	}
	return nil
}
