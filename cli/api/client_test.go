package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasturgie/plasturgie/engine/access"
	"github.com/plasturgie/plasturgie/engine/resource"
	"github.com/plasturgie/plasturgie/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := config.Default()
	cfg.API.BaseURL = server.URL
	cfg.API.Token = "test-token"
	client, err := New(cfg)
	require.NoError(t, err)
	return client, server
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// companyStore is an in-memory /api/companies backend.
type companyStore struct {
	mu     sync.Mutex
	items  []Company
	nextID int64
}

func (s *companyStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, PathCompanies), "/")
	switch {
	case r.Method == http.MethodGet && id == "":
		_ = json.NewEncoder(w).Encode(s.items)
	case r.Method == http.MethodPost && id == "":
		var in CompanyInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"status":400,"error":"Bad Request","message":"Company name is required"}`)
			return
		}
		s.nextID++
		c := Company{ID: s.nextID, Name: in.Name, City: in.City}
		s.items = append(s.items, c)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(c)
	case r.Method == http.MethodDelete:
		for i, c := range s.items {
			if strconv.FormatInt(c.ID, 10) == id {
				s.items = append(s.items[:i], s.items[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":404,"message":"Company not found with id: `+id+`"}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestNew(t *testing.T) {
	t.Run("Should reject relative or non-HTTP base URLs", func(t *testing.T) {
		for _, raw := range []string{"localhost:5000", "/api", "ftp://example.com"} {
			cfg := config.Default()
			cfg.API.BaseURL = raw
			_, err := New(cfg)
			assert.Error(t, err, raw)
		}
	})

	t.Run("Should trim the trailing slash", func(t *testing.T) {
		cfg := config.Default()
		cfg.API.BaseURL = "https://api.example.com/"
		client, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", client.BaseURL())
	})

	t.Run("Should require a configuration", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
}

func TestEndpoint_List(t *testing.T) {
	t.Run("Should send the bearer token and a request id", func(t *testing.T) {
		var gotAuth, gotRequestID, gotPath string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get(HeaderRequestID)
			gotPath = r.URL.Path
			respond(http.StatusOK, `[{"id":1,"name":"Acme"},{"id":2,"name":"Globex","city":"Sfax"}]`)(w, r)
		}))

		items, err := client.Companies().List(t.Context())

		require.NoError(t, err)
		assert.Equal(t, "Bearer test-token", gotAuth)
		assert.NotEmpty(t, gotRequestID)
		assert.Equal(t, PathCompanies, gotPath)
		require.Len(t, items, 2)
		assert.Equal(t, "Globex", items[1].Name)
		assert.Equal(t, "2", items[1].ResourceID())
	})

	t.Run("Should treat empty and null payloads as empty lists", func(t *testing.T) {
		for _, body := range []string{"", "null", `{"data":null}`, "[]"} {
			client, _ := newTestClient(t, respond(http.StatusOK, body))
			items, err := client.Companies().List(t.Context())
			require.NoError(t, err, body)
			assert.NotNil(t, items, body)
			assert.Empty(t, items, body)
		}
	})

	t.Run("Should unwrap a data envelope", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `{"data":[{"eventId":7,"title":"Job Fair","price":12.50}]}`))

		events, err := client.Events().List(t.Context())

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "12.5", events[0].Price.Decimal.String())
		assert.True(t, events[0].Price.Valid)
	})

	t.Run("Should drop malformed and invalid records", func(t *testing.T) {
		body := `[{"id":1,"name":"Acme"},{"id":"x","name":"Broken"},{"id":3},{"id":4,"name":"Initech"}]`
		client, _ := newTestClient(t, respond(http.StatusOK, body))

		items, err := client.Companies().List(t.Context())

		require.NoError(t, err)
		assert.Equal(t, []string{"Acme", "Initech"}, []string{items[0].Name, items[1].Name})
	})

	t.Run("Should fail on a non-list payload", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `{"message":"ok"}`))
		_, err := client.Companies().List(t.Context())
		assert.Error(t, err)
	})
}

func TestEndpoint_Errors(t *testing.T) {
	t.Run("Should expose the backend message of a validation failure", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusBadRequest,
			`{"timestamp":"2025-05-01T10:00:00","status":400,"error":"Bad Request","message":"Name is too long","path":"/api/companies"}`))

		_, err := client.Companies().Create(t.Context(), CompanyInput{Name: "x"})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
		assert.Equal(t, "/api/companies", apiErr.Path)
		assert.NotEmpty(t, apiErr.RequestID)
		assert.Equal(t, "Name is too long", resource.Message(err, ""))
	})

	t.Run("Should join field validation errors when the message is absent", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusBadRequest,
			`{"status":400,"validationErrors":{"name":"must not be blank","email":["must be valid","too long"]}}`))

		_, err := client.Companies().Create(t.Context(), CompanyInput{})

		assert.Equal(t, "email: must be valid, too long; name: must not be blank", resource.Message(err, ""))
	})

	t.Run("Should fall back to a status text for bodies without a message", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusInternalServerError, `<html>oops</html>`))

		_, err := client.Companies().List(t.Context())

		assert.Equal(t, "request failed with status code 500", resource.Message(err, ""))
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("Should hide forbidden responses behind the fallback", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusForbidden, `{"status":403,"message":"Access Denied"}`))

		_, err := client.Users().List(t.Context())

		assert.Equal(t, "failed to load", resource.Message(err, ""))
	})

	t.Run("Should classify unreachable servers as network errors", func(t *testing.T) {
		client, server := newTestClient(t, respond(http.StatusOK, "[]"))
		server.Close()

		_, err := client.Companies().List(t.Context())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "network error")
		assert.Equal(t, "failed to load", resource.Message(err, ""))
	})

	t.Run("Should report 404 through IsNotFound", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusNotFound, `{"message":"Instructor not found"}`))

		_, err := client.Instructors().Get(t.Context(), "9")

		assert.True(t, IsNotFound(err))
	})
}

func TestEndpoint_Writes(t *testing.T) {
	t.Run("Should return the zero record for a generic success body", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `"Event updated"`))

		event, err := client.Events().Update(t.Context(), "3", EventInput{Title: "Job Fair"})

		require.NoError(t, err)
		assert.Zero(t, event.ID)
	})

	t.Run("Should register users through the auth endpoint", func(t *testing.T) {
		var method, path string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			respond(http.StatusCreated, `{"userId":12,"username":"amira","email":"amira@example.com"}`)(w, r)
		}))

		user, err := client.Users().Create(t.Context(), UserInput{Username: "amira", Email: "amira@example.com", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, method)
		assert.Equal(t, PathRegister, path)
		assert.Equal(t, "amira", user.Label())
	})

	t.Run("Should change a user role", func(t *testing.T) {
		var path, body string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			path, body = r.URL.Path, string(raw)
			respond(http.StatusOK, `{"userId":3,"username":"sami","role":"ADMIN"}`)(w, r)
		}))

		err := client.Users().SetRole(t.Context(), "3", "ADMIN")

		require.NoError(t, err)
		assert.Equal(t, "/api/users/3/role", path)
		assert.JSONEq(t, `{"role":"ADMIN"}`, body)
	})

	t.Run("Should refuse unknown roles without calling the backend", func(t *testing.T) {
		called := false
		client, _ := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

		err := client.Users().SetRole(t.Context(), "3", "ROOT")

		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestAuth(t *testing.T) {
	t.Run("Should login and decode the token response", func(t *testing.T) {
		var got LoginRequest
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			respond(http.StatusOK, `{"accessToken":"abc","tokenType":"Bearer","userId":1,"username":"admin","roles":["ADMIN"]}`)(w, r)
		}))

		resp, err := client.Login(t.Context(), LoginRequest{UsernameOrEmail: "admin", Password: "pw"})

		require.NoError(t, err)
		assert.Equal(t, "admin", got.UsernameOrEmail)
		assert.Equal(t, "abc", resp.AccessToken)
		assert.Equal(t, []string{"ADMIN"}, resp.Roles)
	})

	t.Run("Should build the principal from a single role profile", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `{"userId":4,"username":"rep","role":"COMPANY_REP"}`))

		p, err := ProfileProvider{Client: client}.Principal(t.Context())

		require.NoError(t, err)
		assert.Equal(t, "4", p.ID)
		assert.Equal(t, []access.Role{access.RoleCompanyRep}, p.Roles)
	})

	t.Run("Should keep known roles when the profile lists other grants", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `{"userId":5,"username":"gina","roles":["ROLE_INSTRUCTOR","SCOPE_profile"]}`))

		p, err := client.Me(t.Context())

		require.NoError(t, err)
		assert.Equal(t, []access.Role{access.RoleInstructor}, p.Roles)
	})

	t.Run("Should report no principal when the token is rejected", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusUnauthorized, `{"message":"Full authentication is required"}`))

		_, err := ProfileProvider{Client: client}.Principal(t.Context())

		assert.ErrorIs(t, err, access.ErrNoPrincipal)
	})
}

func TestListManagerAgainstBackend(t *testing.T) {
	store := &companyStore{items: []Company{{ID: 1, Name: "Acme"}, {ID: 5, Name: "Globex"}}, nextID: 5}
	client, _ := newTestClient(t, store)
	companies := client.Companies()
	rec := &resource.Recorder{}
	ctrl := resource.NewController[Company](companies.List, resource.WithNotifier(rec))
	d := resource.NewDispatcher[Company, CompanyInput]("Company", companies, ctrl,
		resource.WithConfirmer[Company, CompanyInput](resource.AlwaysConfirm),
		resource.WithDispatchNotifier[Company, CompanyInput](rec),
	)
	ids := func() []string {
		var out []string
		for _, c := range ctrl.State().Items {
			out = append(out, c.ResourceID())
		}
		return out
	}

	t.Run("Should filter the loaded collection", func(t *testing.T) {
		state := ctrl.Load(t.Context())
		require.True(t, state.Loaded())
		visible := resource.Filter(state.Items, "glob", Company.SearchFields)
		require.Len(t, visible, 1)
		assert.Equal(t, int64(5), visible[0].ID)
	})

	t.Run("Should grow by exactly one after a create", func(t *testing.T) {
		before := len(ctrl.State().Items)
		created, err := d.Create(t.Context(), CompanyInput{Name: "Initech", City: "Sousse"})
		require.NoError(t, err)
		assert.Len(t, ctrl.State().Items, before+1)
		assert.Contains(t, ids(), created.ResourceID())
	})

	t.Run("Should no longer list a deleted item", func(t *testing.T) {
		err := d.Delete(t.Context(), Company{ID: 5, Name: "Globex"})
		require.NoError(t, err)
		assert.NotContains(t, ids(), "5")
		last, _ := rec.Last()
		assert.Equal(t, `Company "Globex" deleted successfully.`, last.Message)
	})

	t.Run("Should keep the collection when a create is rejected", func(t *testing.T) {
		before := ids()
		_, err := d.Create(t.Context(), CompanyInput{})
		require.Error(t, err)
		assert.Equal(t, before, ids())
		last, _ := rec.Last()
		assert.Equal(t, "Failed to create company: Company name is required", last.Message)
	})
}
