package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plasturgie/plasturgie/cli/tui/styles"
)

const escKey = "esc"

// ShortcutCategory represents a category of keyboard shortcuts
type ShortcutCategory struct {
	Name      string
	Shortcuts [][2]string
}

// KeyboardShortcuts displays a reference card for keyboard shortcuts
type KeyboardShortcuts struct {
	Width      int
	Height     int
	Visible    bool
	Categories []ShortcutCategory
}

// NewKeyboardShortcuts creates the reference card. Mutation shortcuts are
// listed only when the signed-in user may use them.
func NewKeyboardShortcuts(canMutate bool) KeyboardShortcuts {
	categories := []ShortcutCategory{generalShortcuts(), listShortcuts()}
	if canMutate {
		categories = append(categories, mutationShortcuts())
	}
	return KeyboardShortcuts{Categories: categories}
}

func generalShortcuts() ShortcutCategory {
	return ShortcutCategory{
		Name: "General",
		Shortcuts: [][2]string{
			{"q", "quit"},
			{"ctrl+c", "force quit"},
			{"?", "toggle help"},
			{escKey, "cancel/back"},
		},
	}
}

func listShortcuts() ShortcutCategory {
	return ShortcutCategory{
		Name: "Lists",
		Shortcuts: [][2]string{
			{"↑/k ↓/j", "move"},
			{"/", "search"},
			{"r", "reload"},
			{"1-4", "sort by column"},
			{"n/p", "next/previous page"},
		},
	}
}

func mutationShortcuts() ShortcutCategory {
	return ShortcutCategory{
		Name: "Changes",
		Shortcuts: [][2]string{
			{"c", "create"},
			{"e", "edit selected"},
			{"d", "delete selected"},
			{"y/n", "confirm/decline"},
		},
	}
}

// SetSize sets the shortcuts size
func (k *KeyboardShortcuts) SetSize(width, height int) *KeyboardShortcuts {
	k.Width = width
	k.Height = height
	return k
}

// Toggle toggles the shortcuts visibility
func (k *KeyboardShortcuts) Toggle() {
	k.Visible = !k.Visible
}

// Update handles shortcuts updates. It reports whether the message was consumed.
func (k *KeyboardShortcuts) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		k.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if !k.Visible {
			return false
		}
		switch msg.String() {
		case escKey, "q", "?":
			k.Visible = false
		}
		return true
	}
	return false
}

// View renders the keyboard shortcuts
func (k *KeyboardShortcuts) View() string {
	if !k.Visible {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.RenderTitle("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	columns := make([]string, 0, len(k.Categories))
	for _, category := range k.Categories {
		columns = append(columns, renderCategory(category))
	}
	if k.Width > 80 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	} else {
		b.WriteString(strings.Join(columns, "\n"))
	}
	b.WriteString("\n" + styles.HelpStyle.Render("Press ESC or ? to close"))
	dialog := styles.DialogStyle.Render(b.String())
	if k.Width <= 0 || k.Height <= 0 {
		return dialog
	}
	return lipgloss.Place(k.Width, k.Height, lipgloss.Center, lipgloss.Center, dialog)
}

func renderCategory(category ShortcutCategory) string {
	var b strings.Builder
	b.WriteString(styles.HelpDescStyle.Render(category.Name) + "\n")
	for _, shortcut := range category.Shortcuts {
		b.WriteString("  " + styles.HelpKeyStyle.Render(shortcut[0]) + " " + styles.HelpDescStyle.Render(shortcut[1]) + "\n")
	}
	return lipgloss.NewStyle().PaddingRight(4).Render(b.String())
}
