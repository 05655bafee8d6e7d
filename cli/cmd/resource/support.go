package resource

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/helpers"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	engine "github.com/plasturgie/plasturgie/engine/resource"
)

// noteQueue collects notifications raised inside a command so they can be
// shown once the command's result reaches the UI.
type noteQueue struct {
	mu    sync.Mutex
	notes []engine.Notification
}

func (q *noteQueue) Notify(n engine.Notification) {
	q.mu.Lock()
	q.notes = append(q.notes, n)
	q.mu.Unlock()
}

func (q *noteQueue) drain() []engine.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.notes
	q.notes = nil
	return out
}

// describeValidation turns validator errors into "field: rule" pairs.
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email", "url":
			parts = append(parts, fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "min", "max", "gt":
			parts = append(parts, fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// validatePayload checks a create or update body before it is sent.
func validatePayload(client *api.Client, in any) error {
	if err := client.Validate(in); err != nil {
		return helpers.NewCliError("VALIDATION_ERROR", describeValidation(err)).WithCause(err)
	}
	return nil
}

// readPayload decodes the --file payload of create and update.
func readPayload[In any](cobraCmd *cobra.Command, in *In) (bool, error) {
	source, err := cobraCmd.Flags().GetString("file")
	if err != nil {
		return false, fmt.Errorf("failed to get file flag: %w", err)
	}
	if source == "" {
		return false, nil
	}
	data, err := helpers.ReadInput(cobraCmd.Context(), source, cobraCmd.InOrStdin())
	if err != nil {
		return false, err
	}
	if err := helpers.DecodePayload(data, in); err != nil {
		return false, err
	}
	return true, nil
}

// parseIDArg validates the positional id argument.
func parseIDArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", helpers.NewCliError("MISSING_ARGUMENT", "an id is required")
	}
	id, err := helpers.ParseID(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprint(id), nil
}

// renderDetail draws one record as a titled key/value box.
func renderDetail[T any](title string, columns []components.Column[T], item T) string {
	width := 0
	for _, c := range columns {
		width = max(width, lipgloss.Width(c.Title))
	}
	var b strings.Builder
	b.WriteString(styles.RenderTitle(title) + "\n\n")
	for _, c := range columns {
		key := styles.HelpKeyStyle.Width(width).Render(c.Title)
		b.WriteString(key + "  " + c.Value(item) + "\n")
	}
	return styles.DialogStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderNote renders a notification as a single status line.
func renderNote(n engine.Notification) string {
	if n.Level == engine.LevelError {
		return styles.ErrorStyle.Render("✗ " + n.Message)
	}
	return styles.SuccessStyle.Render("✓ " + n.Message)
}

func emptyMessage(kind engine.EmptyKind, plural, query string) string {
	if kind == engine.EmptyNoMatch {
		return fmt.Sprintf("No %s match %q.", plural, query)
	}
	return fmt.Sprintf("No %s yet.", plural)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// noun is the lower case item name used in help texts.
func (d *Definition[T, In]) noun() string {
	return strings.ToLower(d.Noun)
}
