package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/plasturgie/plasturgie/pkg/config"
	"github.com/plasturgie/plasturgie/pkg/logger"
	"github.com/plasturgie/plasturgie/pkg/version"
)

const HeaderRequestID = "X-Request-ID"

// Client talks to the platform REST backend. Automatic retries are
// intentionally absent: a failed call is retried only by the user.
type Client struct {
	http     *resty.Client
	baseURL  string
	validate *validator.Validate
}

// New creates a client for cfg.API. The bearer token is optional so that
// unauthenticated calls such as login can share the client.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	baseURL, err := buildBaseURL(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:     buildHTTPClient(cfg, baseURL),
		baseURL:  baseURL,
		validate: newValidator(),
	}, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func buildBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute with a host, got: %q", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func buildHTTPClient(cfg *config.Config, baseURL string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.API.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetRetryCount(0)
	if token := strings.TrimSpace(cfg.API.Token.Value()); token != "" {
		client.SetAuthToken(strings.TrimPrefix(token, "Bearer "))
	}
	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(HeaderRequestID) == "" {
			r.SetHeader(HeaderRequestID, uuid.NewString())
		}
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log := logger.FromContext(resp.Request.Context())
		log.Debug("API response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"request_id", resp.Request.Header.Get(HeaderRequestID),
		)
		return nil
	})
	return client
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a record or payload against its validate tags.
func (c *Client) Validate(v any) error {
	return c.validate.Struct(v)
}

// doRequest performs a request and returns the raw body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	log := logger.FromContext(ctx)
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := executeRequest(req, method, path)
	if err != nil {
		return nil, transformRequestError(err, c.baseURL)
	}
	if err := handleResponse(resp); err != nil {
		log.Debug("API request rejected", "method", method, "path", path, "status", resp.StatusCode())
		return nil, err
	}
	return resp.Body(), nil
}

// executeRequest performs the HTTP request
func executeRequest(req *resty.Request, method, path string) (*resty.Response, error) {
	switch method {
	case http.MethodGet:
		return req.Get(path)
	case http.MethodPost:
		return req.Post(path)
	case http.MethodPut:
		return req.Put(path)
	case http.MethodPatch:
		return req.Patch(path)
	case http.MethodDelete:
		return req.Delete(path)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}
}

// handleResponse turns any non-2xx response into an *APIError.
func handleResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return parseAPIError(resp.StatusCode(), resp.Body(), resp.Request.Header.Get(HeaderRequestID))
}
