package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/cli/tui/models"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	engine "github.com/plasturgie/plasturgie/engine/resource"
	"github.com/plasturgie/plasturgie/pkg/logger"
)

const (
	keyEsc   = "esc"
	keyEnter = "enter"

	// breadcrumb, title/search, status bar and help line
	listChromeHeight = 6
)

type loadedMsg[T any] struct {
	state engine.State[T]
	notes []engine.Notification
}

type mutatedMsg[T any] struct {
	err   error
	state engine.State[T]
	notes []engine.Notification
}

// formSession is an open create or edit form.
type formSession[In any] struct {
	form  *huh.Form
	apply func() error
	in    *In
	// id is empty when creating.
	id string
}

// listModel is the interactive list screen of one collection.
type listModel[T engine.Item, In any] struct {
	models.BaseModel
	def        *Definition[T, In]
	client     *api.Client
	ctrl       *engine.Controller[T]
	dispatcher *engine.Dispatcher[T, In]
	notes      *noteQueue
	canMutate  bool

	state engine.State[T]
	query string
	busy  bool

	search     textinput.Model
	spinner    spinner.Model
	table      *components.Table[T]
	status     components.StatusBar
	shortcuts  components.KeyboardShortcuts
	breadcrumb components.Breadcrumb

	pendingDelete *T
	detail        *T
	form          *formSession[In]
}

func newListModel[T engine.Item, In any](
	ctx context.Context,
	d *Definition[T, In],
	executor *cmd.CommandExecutor,
	query string,
) *listModel[T, In] {
	notes := &noteQueue{}
	notifier := engine.Notifiers{notes, engine.LogNotifier{Log: logger.FromContext(ctx)}}
	backend := d.Backend(executor.Client())
	ctrl := d.controller(backend, notifier)
	canMutate := d.ManageAction != "" && d.Form != nil && executor.Can(ctx, d.ManageAction)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search " + d.Plural
	search.SetValue(query)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.InfoStyle

	m := &listModel[T, In]{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		def:       d,
		client:    executor.Client(),
		ctrl:      ctrl,
		dispatcher: engine.NewDispatcher[T, In](d.Noun, backend, ctrl,
			engine.WithConfirmer[T, In](engine.AlwaysConfirm),
			engine.WithDispatchNotifier[T, In](notifier),
		),
		notes:      notes,
		canMutate:  canMutate,
		state:      engine.State[T]{Status: engine.StatusLoading},
		query:      query,
		search:     search,
		spinner:    s,
		table:      components.NewTable(d.Columns),
		status:     components.NewStatusBar(0),
		shortcuts:  components.NewKeyboardShortcuts(canMutate),
		breadcrumb: components.NewBreadcrumb(titleCase(d.Plural)),
	}
	return m
}

func (m *listModel[T, In]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *listModel[T, In]) load() tea.Cmd {
	ctx := m.Context()
	return func() tea.Msg {
		state := m.ctrl.Load(ctx)
		return loadedMsg[T]{state: state, notes: m.notes.drain()}
	}
}

func (m *listModel[T, In]) mutate(do func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	ctx := m.Context()
	return func() tea.Msg {
		err := do(ctx)
		return mutatedMsg[T]{err: err, state: m.ctrl.State(), notes: m.notes.drain()}
	}
}

func (m *listModel[T, In]) toasts(notes []engine.Notification) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(notes))
	for _, n := range notes {
		cmds = append(cmds, m.status.Update(components.ToastMsg{Notification: n}))
	}
	return tea.Batch(cmds...)
}

func (m *listModel[T, In]) refresh() {
	view := engine.NewView(m.state, m.query, m.def.Fields)
	m.table.SetItems(view.Visible)
}

func (m *listModel[T, In]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.BaseModel.Update(msg)
		m.resize(msg.Width, msg.Height)
		if m.form != nil {
			m.form.form = m.form.form.WithWidth(msg.Width)
		}
		return m, nil
	case loadedMsg[T]:
		m.state = msg.state
		m.refresh()
		return m, m.toasts(msg.notes)
	case mutatedMsg[T]:
		m.busy = false
		m.state = msg.state
		m.refresh()
		notes := msg.notes
		if errors.Is(msg.err, engine.ErrMutationInProgress) {
			notes = append(notes, engine.Notification{Level: engine.LevelError, Message: msg.err.Error()})
		}
		return m, m.toasts(notes)
	case components.SelectedMsg[T]:
		item := msg.Item
		m.detail = &item
		m.breadcrumb.Push(item.Label())
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.form != nil {
		return m, tea.Batch(m.status.Update(msg), m.updateForm(msg))
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.status.Update(msg)
	}
	if m.shortcuts.Update(keyMsg) {
		return m, nil
	}
	switch {
	case m.pendingDelete != nil:
		return m, m.updateConfirm(keyMsg)
	case m.detail != nil:
		return m, m.updateDetail(keyMsg)
	case m.search.Focused():
		return m, m.updateSearch(keyMsg)
	}
	if cmd := m.BaseModel.Update(keyMsg); cmd != nil {
		return m, cmd
	}
	return m, m.handleKey(keyMsg)
}

func (m *listModel[T, In]) resize(width, height int) {
	m.table.SetSize(width, max(3, height-listChromeHeight))
	m.status.SetSize(width)
	m.shortcuts.SetSize(width, height)
	m.breadcrumb.SetWidth(width)
	m.search.Width = max(10, width/3)
}

func (m *listModel[T, In]) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "?":
		m.shortcuts.Toggle()
		return nil
	case "/":
		m.SetCapturing(true)
		return m.search.Focus()
	case keyEsc:
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.refresh()
		}
		return nil
	case "r":
		if m.busy {
			return nil
		}
		return m.load()
	case "c":
		if !m.canMutate || m.busy {
			return nil
		}
		var in In
		return m.openForm(&in, "")
	case "e":
		if !m.canMutate || m.busy || m.def.Seed == nil {
			return nil
		}
		item, ok := m.table.Selected()
		if !ok {
			return nil
		}
		in := m.def.Seed(item)
		return m.openForm(&in, item.ResourceID())
	case "d":
		if !m.canMutate || m.busy {
			return nil
		}
		if item, ok := m.table.Selected(); ok {
			m.pendingDelete = &item
		}
		return nil
	}
	return m.table.Update(msg)
}

func (m *listModel[T, In]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyEsc:
		m.search.SetValue("")
		m.query = ""
		m.search.Blur()
		m.SetCapturing(false)
		m.refresh()
		return nil
	case keyEnter:
		m.search.Blur()
		m.SetCapturing(false)
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query {
		m.query = v
		m.refresh()
	}
	return cmd
}

func (m *listModel[T, In]) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	item := *m.pendingDelete
	switch msg.String() {
	case "y", "Y":
		m.pendingDelete = nil
		return m.mutate(func(ctx context.Context) error {
			return m.dispatcher.Delete(ctx, item)
		})
	case "n", "N", keyEsc:
		m.pendingDelete = nil
	case "ctrl+c":
		return m.BaseModel.Update(msg)
	}
	return nil
}

func (m *listModel[T, In]) updateDetail(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return m.BaseModel.Update(msg)
	case keyEsc, keyEnter, "q":
		m.detail = nil
		m.breadcrumb.Pop()
	}
	return nil
}

func (m *listModel[T, In]) openForm(in *In, id string) tea.Cmd {
	form, apply := m.def.Form(in)
	width, _ := m.Size()
	if width > 0 {
		form = form.WithWidth(width)
	}
	m.form = &formSession[In]{form: form, apply: apply, in: in, id: id}
	m.SetCapturing(true)
	if id == "" {
		m.breadcrumb.Push("New " + strings.ToLower(m.def.Noun))
	} else {
		m.breadcrumb.Push("Edit #" + id)
	}
	return form.Init()
}

func (m *listModel[T, In]) closeForm() {
	m.form = nil
	m.SetCapturing(false)
	m.breadcrumb.Pop()
}

func (m *listModel[T, In]) updateForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return m.BaseModel.Update(keyMsg)
	}
	session := m.form
	model, cmd := session.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		session.form = f
	}
	switch session.form.State {
	case huh.StateAborted:
		m.closeForm()
		return nil
	case huh.StateCompleted:
		m.closeForm()
		return m.submit(session)
	}
	return cmd
}

func (m *listModel[T, In]) submit(session *formSession[In]) tea.Cmd {
	log := logger.FromContext(m.Context())
	if session.apply != nil {
		if err := session.apply(); err != nil {
			return m.toasts([]engine.Notification{{Level: engine.LevelError, Message: err.Error()}})
		}
	}
	if err := m.client.Validate(session.in); err != nil {
		log.Debug("form rejected", "resource", m.def.Plural, "error", err)
		return m.toasts([]engine.Notification{{Level: engine.LevelError, Message: describeValidation(err)}})
	}
	in := *session.in
	if session.id == "" {
		return m.mutate(func(ctx context.Context) error {
			_, err := m.dispatcher.Create(ctx, in)
			return err
		})
	}
	id := session.id
	return m.mutate(func(ctx context.Context) error {
		_, err := m.dispatcher.Update(ctx, id, in)
		return err
	})
}

func (m *listModel[T, In]) View() string {
	if m.IsQuitting() {
		return ""
	}
	if m.shortcuts.Visible {
		return m.shortcuts.View()
	}
	sections := []string{m.breadcrumb.View(), ""}
	switch {
	case m.form != nil:
		sections = append(sections, m.form.form.View())
	case m.detail != nil:
		sections = append(sections,
			renderDetail(m.def.Noun, m.def.Columns, *m.detail),
			styles.HelpStyle.Render("esc back"))
	default:
		sections = append(sections, m.renderHeader(), m.renderBody())
		if m.pendingDelete != nil {
			prompt := engine.DeletePrompt((*m.pendingDelete).Label())
			sections = append(sections, styles.ConfirmStyle.Render(prompt+" (y/n)"))
		}
		sections = append(sections, m.status.View(), m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *listModel[T, In]) renderHeader() string {
	title := styles.RenderTitle(titleCase(m.def.Plural))
	if m.busy || m.state.Loading() {
		title += " " + m.spinner.View()
	}
	if m.search.Focused() || m.query != "" {
		return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", m.search.View())
	}
	return title
}

func (m *listModel[T, In]) renderBody() string {
	switch {
	case m.state.Loading() && len(m.state.Items) == 0:
		return styles.InfoStyle.Render(fmt.Sprintf("%s Loading %s...", m.spinner.View(), m.def.Plural))
	case m.state.Failed() && len(m.state.Items) == 0:
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.ErrorStyle.Render("✗ "+m.state.Message),
			styles.HelpStyle.Render("press r to retry"))
	}
	view := engine.NewView(m.state, m.query, m.def.Fields)
	var warning string
	if m.state.Failed() {
		warning = styles.WarningStyle.Render("⚠ "+m.state.Message+" (showing the last loaded list, r to retry)") + "\n"
	}
	if view.Empty != engine.EmptyNone {
		return warning + styles.EmptyStyle.Render(emptyMessage(view.Empty, m.def.Plural, m.query))
	}
	return warning + m.table.View()
}

func (m *listModel[T, In]) renderHelp() string {
	keys := []string{"/ search", "r reload", "enter details"}
	if m.canMutate {
		keys = append(keys, "c create", "e edit", "d delete")
	}
	keys = append(keys, "? help", "q quit")
	return styles.HelpStyle.Render(strings.Join(keys, " • "))
}
