package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/plasturgie/plasturgie/engine/resource"
)

// Endpoint is the REST surface of one collection.
type Endpoint[T resource.Item, In any] struct {
	client     *Client
	path       string
	createPath string
	noun       string
}

// NewEndpoint binds a collection path such as "/api/companies".
func NewEndpoint[T resource.Item, In any](client *Client, noun, path string) *Endpoint[T, In] {
	return &Endpoint[T, In]{client: client, path: path, createPath: path, noun: noun}
}

// WithCreatePath sends creations to a different path, e.g. a registration endpoint.
func (e *Endpoint[T, In]) WithCreatePath(path string) *Endpoint[T, In] {
	e.createPath = path
	return e
}

func (e *Endpoint[T, In]) Path() string {
	return e.path
}

func (e *Endpoint[T, In]) itemPath(id string) string {
	return e.path + "/" + url.PathEscape(id)
}

func (e *Endpoint[T, In]) List(ctx context.Context) ([]T, error) {
	body, err := e.client.doRequest(ctx, http.MethodGet, e.path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", e.noun, err)
	}
	items, err := decodeList[T](ctx, e.client, body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", e.noun, err)
	}
	return items, nil
}

func (e *Endpoint[T, In]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	body, err := e.client.doRequest(ctx, http.MethodGet, e.itemPath(id), nil)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s %s: %w", e.noun, id, err)
	}
	item, err := decodeOne[T](e.client, body)
	if err != nil {
		return zero, fmt.Errorf("failed to decode %s %s: %w", e.noun, id, err)
	}
	return item, nil
}

// Create posts in. The zero T is returned when the backend answers with a
// generic success body instead of the created record.
func (e *Endpoint[T, In]) Create(ctx context.Context, in In) (T, error) {
	body, err := e.client.doRequest(ctx, http.MethodPost, e.createPath, in)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to create %s: %w", e.noun, err)
	}
	return decodeOptional[T](ctx, e.client, body), nil
}

func (e *Endpoint[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	body, err := e.client.doRequest(ctx, http.MethodPut, e.itemPath(id), in)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to update %s %s: %w", e.noun, id, err)
	}
	return decodeOptional[T](ctx, e.client, body), nil
}

func (e *Endpoint[T, In]) Delete(ctx context.Context, id string) error {
	if _, err := e.client.doRequest(ctx, http.MethodDelete, e.itemPath(id), nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", e.noun, id, err)
	}
	return nil
}

// Collection paths of the platform backend.
const (
	PathCompanies         = "/api/companies"
	PathUsers             = "/api/users"
	PathInstructors       = "/api/instructors"
	PathEvents            = "/api/events"
	PathPracticalSessions = "/api/practical-sessions"
	PathCertifications    = "/api/certifications"
	PathLogin             = "/api/auth/login"
	PathRegister          = "/api/auth/register"
	PathCurrentUser       = "/api/users/me"
)

func (c *Client) Companies() *Endpoint[Company, CompanyInput] {
	return NewEndpoint[Company, CompanyInput](c, "companies", PathCompanies)
}

func (c *Client) Users() *UsersEndpoint {
	return &UsersEndpoint{
		Endpoint: NewEndpoint[User, UserInput](c, "users", PathUsers).WithCreatePath(PathRegister),
	}
}

func (c *Client) Instructors() *Endpoint[Instructor, InstructorInput] {
	return NewEndpoint[Instructor, InstructorInput](c, "instructors", PathInstructors)
}

func (c *Client) Events() *Endpoint[Event, EventInput] {
	return NewEndpoint[Event, EventInput](c, "events", PathEvents)
}

func (c *Client) PracticalSessions() *Endpoint[PracticalSession, PracticalSessionInput] {
	return NewEndpoint[PracticalSession, PracticalSessionInput](c, "practical sessions", PathPracticalSessions)
}

func (c *Client) Certifications() *Endpoint[Certification, CertificationInput] {
	return NewEndpoint[Certification, CertificationInput](c, "certifications", PathCertifications)
}

// UsersEndpoint adds role management to the user collection.
type UsersEndpoint struct {
	*Endpoint[User, UserInput]
}

// SetRole replaces the role of user id.
func (u *UsersEndpoint) SetRole(ctx context.Context, id string, role string) error {
	body := RoleUpdate{Role: role}
	if err := u.client.Validate(body); err != nil {
		return fmt.Errorf("invalid role %q: %w", role, err)
	}
	if _, err := u.client.doRequest(ctx, http.MethodPut, u.itemPath(id)+"/role", body); err != nil {
		return fmt.Errorf("failed to set role of user %s: %w", id, err)
	}
	return nil
}
