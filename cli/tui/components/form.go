package components

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/plasturgie/plasturgie/cli/tui/models"
)

// FormWrapper wraps a Huh form with BaseModel integration
type FormWrapper struct {
	models.BaseModel
	form      *huh.Form
	canceled  bool
	completed bool
}

// NewFormWrapper creates a new form wrapper
func NewFormWrapper(ctx context.Context, form *huh.Form) *FormWrapper {
	return &FormWrapper{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		form:      form,
	}
}

// Init initializes the form
func (f *FormWrapper) Init() tea.Cmd {
	return f.form.Init()
}

// Update handles form updates. Plain keys belong to the focused field, so
// only ctrl+c and the form's own abort binding cancel it.
func (f *FormWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		f.canceled = true
		return f, tea.Quit
	}
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		f.SetSize(size.Width, size.Height)
	}
	form, cmd := f.form.Update(msg)
	if frm, ok := form.(*huh.Form); ok {
		f.form = frm
		switch f.form.State {
		case huh.StateCompleted:
			f.completed = true
			return f, tea.Quit
		case huh.StateAborted:
			f.canceled = true
			return f, tea.Quit
		}
	}
	return f, cmd
}

// View renders the form
func (f *FormWrapper) View() string {
	if f.completed || f.canceled {
		return ""
	}
	return f.form.View()
}

// IsCanceled returns whether the form was canceled
func (f *FormWrapper) IsCanceled() bool {
	return f.canceled
}

// IsCompleted returns whether the form was completed
func (f *FormWrapper) IsCompleted() bool {
	return f.completed
}

// RunForm runs form full screen and reports whether it was submitted.
func RunForm(ctx context.Context, form *huh.Form, opts ...tea.ProgramOption) (bool, error) {
	wrapper := NewFormWrapper(ctx, form)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(wrapper, opts...).Run(); err != nil {
		return false, err
	}
	return wrapper.IsCompleted(), nil
}
