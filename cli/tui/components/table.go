package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plasturgie/plasturgie/cli/helpers"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
)

type SortOrder string

// Sort direction constants
const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// Column renders one field of T. Width is the preferred width and also the
// weight used when the terminal is narrower.
type Column[T any] struct {
	Title string
	Width int
	Value func(item T) string
}

// Table is a paginated, sortable table of records.
type Table[T any] struct {
	table   table.Model
	columns []Column[T]
	items   []T
	width   int
	height  int

	sortColumn    int
	sortDirection SortOrder

	currentPage  int
	itemsPerPage int

	keyMap TableKeyMap
}

// TableKeyMap defines key bindings for the table
type TableKeyMap struct {
	SortBy    []key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	Select    key.Binding
}

// DefaultTableKeyMap returns the default key bindings
func DefaultTableKeyMap() TableKeyMap {
	sortBy := make([]key.Binding, 0, 4)
	for i := 1; i <= 4; i++ {
		k := fmt.Sprint(i)
		sortBy = append(sortBy, newBinding([]string{k}, "sort by column "+k, k))
	}
	return TableKeyMap{
		SortBy:    sortBy,
		NextPage:  newBinding([]string{"n", "right"}, "next page", "n/→"),
		PrevPage:  newBinding([]string{"p", "left"}, "prev page", "p/←"),
		FirstPage: newBinding([]string{"home"}, "first page", "home"),
		LastPage:  newBinding([]string{"end"}, "last page", "end"),
		Select:    newBinding([]string{"enter"}, "select", "enter"),
	}
}

func newBinding(keys []string, help, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

// NewTable creates a table. Items keep their given order until a sort key is pressed.
func NewTable[T any](columns []Column[T]) *Table[T] {
	tableColumns := make([]table.Column, 0, len(columns))
	for _, c := range columns {
		tableColumns = append(tableColumns, table.Column{Title: c.Title, Width: c.Width})
	}
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(defaultTableStyles())
	return &Table[T]{
		table:         t,
		columns:       columns,
		sortColumn:    -1,
		sortDirection: SortOrderAsc,
		itemsPerPage:  20,
		keyMap:        DefaultTableKeyMap(),
	}
}

func defaultTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Highlight).
		Background(styles.Surface).
		Bold(true)
	return s
}

// SetSize sets the table size
func (t *Table[T]) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.table.SetHeight(max(1, height-2))
	t.itemsPerPage = max(1, height-3)
	total := 0
	for _, c := range t.columns {
		total += c.Width
	}
	available := width - 2*len(t.columns)
	columns := make([]table.Column, 0, len(t.columns))
	for _, c := range t.columns {
		w := c.Width
		if total > available && total > 0 {
			w = max(4, c.Width*available/total)
		}
		columns = append(columns, table.Column{Title: c.Title, Width: w})
	}
	t.table.SetColumns(columns)
	t.updateTableRows()
}

// SetItems replaces the rows, keeping the current sort.
func (t *Table[T]) SetItems(items []T) {
	t.items = append([]T(nil), items...)
	t.sortItems()
	t.updateTableRows()
}

// Len returns the number of rows across pages.
func (t *Table[T]) Len() int {
	return len(t.items)
}

// Selected returns the record under the cursor.
func (t *Table[T]) Selected() (T, bool) {
	var zero T
	idx := t.currentPage*t.itemsPerPage + t.table.Cursor()
	if t.table.Cursor() < 0 || idx < 0 || idx >= len(t.items) {
		return zero, false
	}
	return t.items[idx], true
}

// Update handles component updates
func (t *Table[T]) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		for i, binding := range t.keyMap.SortBy {
			if key.Matches(keyMsg, binding) && i < len(t.columns) {
				t.setSortColumn(i)
				return nil
			}
		}
		switch {
		case key.Matches(keyMsg, t.keyMap.NextPage):
			t.nextPage()
			return nil
		case key.Matches(keyMsg, t.keyMap.PrevPage):
			t.prevPage()
			return nil
		case key.Matches(keyMsg, t.keyMap.FirstPage):
			t.currentPage = 0
			t.updateTableRows()
			return nil
		case key.Matches(keyMsg, t.keyMap.LastPage):
			t.currentPage = max(0, t.totalPages()-1)
			t.updateTableRows()
			return nil
		case key.Matches(keyMsg, t.keyMap.Select):
			if item, ok := t.Selected(); ok {
				return func() tea.Msg { return SelectedMsg[T]{Item: item} }
			}
			return nil
		}
	}
	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return cmd
}

// View renders the table
func (t *Table[T]) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, t.renderHeader(), t.table.View(), t.renderPagination())
}

func (t *Table[T]) renderHeader() string {
	parts := []string{styles.HelpStyle.Render(fmt.Sprintf("Total: %d", len(t.items)))}
	if t.sortColumn >= 0 {
		indicator := fmt.Sprintf("Sort: %s %s", strings.ToLower(t.columns[t.sortColumn].Title), t.sortDirection)
		parts = append(parts, styles.InfoStyle.Render(indicator))
	}
	return strings.Join(parts, " • ")
}

func (t *Table[T]) renderPagination() string {
	if len(t.items) <= t.itemsPerPage {
		return ""
	}
	start := t.currentPage*t.itemsPerPage + 1
	end := min(start+t.itemsPerPage-1, len(t.items))
	return styles.PaginationStyle.Render(fmt.Sprintf(
		"Page %d of %d • Items %d-%d of %d",
		t.currentPage+1, t.totalPages(), start, end, len(t.items),
	))
}

func (t *Table[T]) setSortColumn(column int) {
	if t.sortColumn == column {
		if t.sortDirection == SortOrderAsc {
			t.sortDirection = SortOrderDesc
		} else {
			t.sortDirection = SortOrderAsc
		}
	} else {
		t.sortColumn = column
		t.sortDirection = SortOrderAsc
	}
	t.sortItems()
	t.updateTableRows()
}

func (t *Table[T]) sortItems() {
	if t.sortColumn < 0 || t.sortColumn >= len(t.columns) {
		return
	}
	value := t.columns[t.sortColumn].Value
	sort.SliceStable(t.items, func(i, j int) bool {
		a, b := strings.ToLower(value(t.items[i])), strings.ToLower(value(t.items[j]))
		if t.sortDirection == SortOrderDesc {
			return a > b
		}
		return a < b
	})
}

func (t *Table[T]) totalPages() int {
	return (len(t.items) + t.itemsPerPage - 1) / t.itemsPerPage
}

func (t *Table[T]) nextPage() {
	if t.currentPage < t.totalPages()-1 {
		t.currentPage++
		t.updateTableRows()
	}
}

func (t *Table[T]) prevPage() {
	if t.currentPage > 0 {
		t.currentPage--
		t.updateTableRows()
	}
}

// updateTableRows updates the table with the current page of rows
func (t *Table[T]) updateTableRows() {
	if len(t.items) == 0 {
		t.currentPage = 0
		t.table.SetRows([]table.Row{})
		return
	}
	start := t.currentPage * t.itemsPerPage
	if start >= len(t.items) {
		t.currentPage = 0
		start = 0
	}
	end := min(start+t.itemsPerPage, len(t.items))
	widths := t.table.Columns()
	rows := make([]table.Row, 0, end-start)
	for _, item := range t.items[start:end] {
		row := make(table.Row, 0, len(t.columns))
		for i, c := range t.columns {
			row = append(row, helpers.Truncate(c.Value(item), widths[i].Width))
		}
		rows = append(rows, row)
	}
	t.table.SetRows(rows)
	if t.table.Cursor() >= len(rows) {
		t.table.SetCursor(len(rows) - 1)
	}
}

// SelectedMsg is emitted when enter is pressed on a row.
type SelectedMsg[T any] struct {
	Item T
}
