package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plasturgie/plasturgie/cli/tui/styles"
)

const productName = "Plasturgie"

// BreadcrumbItem represents a single breadcrumb item
type BreadcrumbItem struct {
	Label  string
	Active bool
}

// Breadcrumb shows where a screen sits, e.g. "Plasturgie → Companies → Delete".
type Breadcrumb struct {
	Width int
	Items []BreadcrumbItem
}

// NewBreadcrumb creates a breadcrumb rooted at the product name followed by path.
func NewBreadcrumb(path ...string) Breadcrumb {
	b := Breadcrumb{}
	b.SetPath(path...)
	return b
}

// SetWidth sets the breadcrumb width
func (b *Breadcrumb) SetWidth(width int) {
	b.Width = width
}

// SetPath replaces the items. The last one is active.
func (b *Breadcrumb) SetPath(path ...string) {
	b.Items = make([]BreadcrumbItem, 0, len(path)+1)
	b.Items = append(b.Items, BreadcrumbItem{Label: productName})
	for _, label := range path {
		b.Items = append(b.Items, BreadcrumbItem{Label: label})
	}
	b.Items[len(b.Items)-1].Active = true
}

// Push appends an active item.
func (b *Breadcrumb) Push(label string) {
	for i := range b.Items {
		b.Items[i].Active = false
	}
	b.Items = append(b.Items, BreadcrumbItem{Label: label, Active: true})
}

// Pop removes the last item, never the root.
func (b *Breadcrumb) Pop() {
	if len(b.Items) <= 1 {
		return
	}
	b.Items = b.Items[:len(b.Items)-1]
	b.Items[len(b.Items)-1].Active = true
}

// View renders the breadcrumb, dropping leading items when too wide.
func (b *Breadcrumb) View() string {
	if len(b.Items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		if item.Active {
			parts = append(parts, styles.BreadcrumbActiveStyle.Render(item.Label))
		} else {
			parts = append(parts, styles.BreadcrumbStyle.Render(item.Label))
		}
	}
	separator := styles.BreadcrumbStyle.Render(" → ")
	view := strings.Join(parts, separator)
	if b.Width <= 0 {
		return view
	}
	for lipgloss.Width(view) > b.Width && len(parts) > 1 {
		parts = parts[1:]
		view = "..." + strings.Join(parts, separator)
	}
	return view
}
