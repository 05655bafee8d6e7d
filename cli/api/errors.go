package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response. Fields mirror the backend error body,
// which may be absent or partial.
type APIError struct {
	Status           int               `json:"status"`
	Reason           string            `json:"error,omitempty"`
	Message          string            `json:"message,omitempty"`
	Path             string            `json:"path,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
	RequestID        string            `json:"-"`
}

func (e *APIError) Error() string {
	msg := e.BackendMessage()
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if msg == "" {
		return fmt.Sprintf("API error (status %d)", e.Status)
	}
	return fmt.Sprintf("API error: %s (status %d)", msg, e.Status)
}

// StatusCode returns the HTTP status of the response.
func (e *APIError) StatusCode() int {
	return e.Status
}

// BackendMessage returns the message field, or the field validation errors
// when the body carries no message.
func (e *APIError) BackendMessage() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	if len(e.ValidationErrors) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.ValidationErrors))
	for field := range e.ValidationErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.ValidationErrors[field])
	}
	return strings.Join(parts, "; ")
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// parseAPIError reads whatever error details the body offers.
func parseAPIError(status int, body []byte, requestID string) *APIError {
	apiErr := &APIError{Status: status, RequestID: requestID}
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return apiErr
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return apiErr
	}
	apiErr.Reason = strings.TrimSpace(doc.Get("error").String())
	apiErr.Message = strings.TrimSpace(doc.Get("message").String())
	apiErr.Path = doc.Get("path").String()
	if v := doc.Get("validationErrors"); v.IsObject() {
		apiErr.ValidationErrors = make(map[string]string)
		v.ForEach(func(field, msg gjson.Result) bool {
			if msg.IsArray() {
				var parts []string
				for _, m := range msg.Array() {
					parts = append(parts, m.String())
				}
				apiErr.ValidationErrors[field.String()] = strings.Join(parts, ", ")
				return true
			}
			apiErr.ValidationErrors[field.String()] = msg.String()
			return true
		})
	}
	return apiErr
}

// transformRequestError classifies failures that produced no response.
func transformRequestError(err error, baseURL string) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request canceled by user: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeoutError(err) {
		return fmt.Errorf("request timed out: server may be busy: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("network error: unable to reach %s: %w", baseURL, err)
	}
	return fmt.Errorf("request failed: %w", err)
}

func isTimeoutError(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out")
}

func isNetworkError(err error) bool {
	lower := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"no route to host",
		"network is unreachable",
		"no such host",
		"dial tcp",
		"eof",
	}
	for _, keyword := range networkKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
