package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/plasturgie/plasturgie/engine/access"
	"github.com/plasturgie/plasturgie/engine/resource"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := c.Validate(req); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	body, err := c.doRequest(ctx, http.MethodPost, PathLogin, req)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	resp, err := decodeOne[AuthResponse](c, body)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return &resp, nil
}

// Me returns the profile of the authenticated user. The backend sends the
// role either as a string or as a list.
func (c *Client) Me(ctx context.Context) (*access.Principal, error) {
	body, err := c.doRequest(ctx, http.MethodGet, PathCurrentUser, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	doc, ok := unwrap(body)
	if !ok || !doc.IsObject() {
		return nil, fmt.Errorf("failed to load current user: expected a JSON object")
	}
	var roles []string
	for _, key := range []string{"roles", "role"} {
		v := doc.Get(key)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.IsArray() {
			for _, r := range v.Array() {
				roles = append(roles, r.String())
			}
		} else {
			roles = append(roles, v.String())
		}
		break
	}
	id := doc.Get("userId")
	return access.PrincipalFromGrants(ctx, strconv.FormatInt(id.Int(), 10), doc.Get("username").String(), roles...), nil
}

// ProfileProvider resolves the principal by asking the backend.
type ProfileProvider struct {
	Client *Client
}

func (p ProfileProvider) Principal(ctx context.Context) (*access.Principal, error) {
	if p.Client == nil {
		return nil, access.ErrNoPrincipal
	}
	principal, err := p.Client.Me(ctx)
	if err != nil {
		if resource.IsAuthorizationStatus(statusOf(err)) {
			return nil, fmt.Errorf("%w: %w", access.ErrNoPrincipal, err)
		}
		return nil, err
	}
	return principal, nil
}
