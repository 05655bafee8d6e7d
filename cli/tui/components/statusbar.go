package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plasturgie/plasturgie/cli/tui/styles"
	"github.com/plasturgie/plasturgie/engine/resource"
)

const defaultToastTTL = 4 * time.Second

// ToastMsg carries a notification into the bubbletea loop.
type ToastMsg struct {
	resource.Notification
}

type toastExpiredMsg struct {
	id int
}

// StatusBar shows the most recent notification until it expires.
type StatusBar struct {
	width   int
	ttl     time.Duration
	current *resource.Notification
	seq     int
}

// NewStatusBar creates a status bar. A ttl of zero uses the default.
func NewStatusBar(ttl time.Duration) StatusBar {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	return StatusBar{ttl: ttl}
}

// SetSize sets the status bar width
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// Current returns the visible notification.
func (s *StatusBar) Current() (resource.Notification, bool) {
	if s.current == nil {
		return resource.Notification{}, false
	}
	return *s.current, true
}

// Update shows toasts and hides them after the ttl.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ToastMsg:
		n := msg.Notification
		s.current = &n
		s.seq++
		id := s.seq
		return tea.Tick(s.ttl, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
	case toastExpiredMsg:
		if msg.id == s.seq {
			s.current = nil
		}
	}
	return nil
}

// View renders the status bar
func (s *StatusBar) View() string {
	if s.current == nil {
		return ""
	}
	style := styles.SuccessStyle
	icon := "✓ "
	if s.current.Level == resource.LevelError {
		style = styles.ErrorStyle
		icon = "✗ "
	}
	if s.width > 0 {
		style = style.MaxWidth(s.width)
	}
	return style.Render(icon + s.current.Message)
}
