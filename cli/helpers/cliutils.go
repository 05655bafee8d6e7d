package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/tui/models"
	"github.com/plasturgie/plasturgie/engine/access"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	cause     error
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CliError) Unwrap() error {
	return e.cause
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause keeps err reachable through errors.Is and errors.As.
func (e *CliError) WithCause(err error) *CliError {
	e.cause = err
	return e
}

// IsTimeoutError checks if an error is a timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out")
}

// IsNetworkError checks if an error is a network-related error
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"network error", "connection refused", "connection reset",
		"no route to host", "network unreachable", "no such host",
	}
	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// IsAuthError checks if an error is authentication-related
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuth) || errors.Is(err, access.ErrNoPrincipal) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	authKeywords := []string{
		"unauthorized", "authentication", "invalid token", "token expired",
	}
	for _, keyword := range authKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// IsForbiddenError reports refusals by the local permission gate.
func IsForbiddenError(err error) bool {
	return err != nil && (errors.Is(err, ErrForbidden) || errors.Is(err, access.ErrPermissionDenied))
}

// FormatError formats errors based on output mode
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	switch mode {
	case models.ModeJSON:
		return formatErrorJSON(err)
	case models.ModeTUI:
		return formatErrorTUI(err)
	default:
		return err.Error()
	}
}

// formatErrorJSON formats errors for JSON output
func formatErrorJSON(err error) string {
	errorResponse := map[string]any{
		"error":   err.Error(),
		"details": "",
	}
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		errorResponse = map[string]any{
			"code":    cliErr.Code,
			"error":   cliErr.Message,
			"details": cliErr.Details,
		}
	}
	jsonBytes, err := json.MarshalIndent(errorResponse, "", "  ")
	if err != nil {
		return `{"error": "JSON marshaling failed", "details": ""}`
	}
	return string(jsonBytes)
}

// formatErrorTUI formats errors for TUI output with colors and icons
func formatErrorTUI(err error) string {
	message, details := extractErrorInfo(err)
	icon := getErrorIcon(err)
	result := formatErrorMessage(icon, message)
	if details != "" {
		result += formatErrorDetails(details)
	}
	return result
}

// extractErrorInfo extracts message and details from error
func extractErrorInfo(err error) (message, details string) {
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return cliErr.Message, cliErr.Details
	}
	return err.Error(), ""
}

// getErrorIcon returns appropriate icon based on error type
func getErrorIcon(err error) string {
	switch {
	case IsForbiddenError(err):
		return "⛔"
	case IsNetworkError(err):
		return "🌐"
	case IsAuthError(err):
		return "🔐"
	case IsTimeoutError(err):
		return "⏰"
	default:
		return "❌"
	}
}

func formatErrorMessage(icon, message string) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true)
	return fmt.Sprintf("%s %s", icon, style.Render(message))
}

func formatErrorDetails(details string) string {
	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true)
	return "\n" + detailStyle.Render(fmt.Sprintf("Details: %s", details))
}

// OutputError writes an error to w in the appropriate format
func OutputError(w io.Writer, err error, mode models.Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatError(err, mode))
}

// ParseID validates a backend identifier, which is a positive integer.
func ParseID(id string) (int64, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, NewCliError("INVALID_ID", "ID cannot be empty")
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, NewCliError("INVALID_ID", "ID must be a positive integer", fmt.Sprintf("provided: %s", id))
	}
	return n, nil
}

// ValidateRequired validates that a required string value is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewCliError("REQUIRED_FIELD", fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateEnum validates that a value is in a set of allowed values
func ValidateEnum(value string, allowed []string, fieldName string) error {
	if value == "" {
		return nil
	}
	if slices.Contains(allowed, value) {
		return nil
	}
	return NewCliError("INVALID_ENUM",
		fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", ")),
		fmt.Sprintf("provided: %s", value))
}

// Truncate shortens s to maxLength runes, ending with "..." when there is room.
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// GetFlagStringWithDefault gets a string flag with a default value
func GetFlagStringWithDefault(cmd *cobra.Command, flagName, defaultValue string) string {
	if value, err := cmd.Flags().GetString(flagName); err == nil && value != "" {
		return value
	}
	return defaultValue
}

// GetFlagBoolWithDefault gets a boolean flag with a default value
func GetFlagBoolWithDefault(cmd *cobra.Command, flagName string, defaultValue bool) bool {
	if value, err := cmd.Flags().GetBool(flagName); err == nil {
		return value
	}
	return defaultValue
}

// LogOperation logs the start and completion of an operation
func LogOperation(ctx context.Context, operation string, fn func() error) error {
	log := logger.FromContext(ctx)
	start := time.Now()
	log.Debug("starting operation", "operation", operation)
	err := fn()
	duration := time.Since(start)
	if err != nil {
		log.Debug("operation failed", "operation", operation, "duration", duration, "error", err)
	} else {
		log.Debug("operation completed", "operation", operation, "duration", duration)
	}
	return err
}
