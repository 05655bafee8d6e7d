package resource

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fields returns the searchable text of an item. Absent fields are empty strings.
type Fields[T any] func(item T) []string

// Filter keeps the items where at least one field contains query, ignoring
// case. An empty query returns items itself. Order is preserved and items is
// never modified.
func Filter[T any](items []T, query string, fields Fields[T]) []T {
	if query == "" {
		return items
	}
	out := make([]T, 0, len(items))
	if len(items) == 0 || fields == nil {
		return out
	}
	folder := cases.Fold()
	needle := folder.String(query)
	for _, item := range items {
		if matches(folder, needle, fields(item)) {
			out = append(out, item)
		}
	}
	return out
}

func matches(folder cases.Caser, needle string, fields []string) bool {
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(folder.String(f), needle) {
			return true
		}
	}
	return false
}

// EmptyKind distinguishes the two empty states of a list.
type EmptyKind string

const (
	EmptyNone    EmptyKind = ""
	EmptyNoItems EmptyKind = "no_items"
	EmptyNoMatch EmptyKind = "no_match"
)

// ClassifyEmpty picks the empty state for a list of total items of which
// visible survived the query.
func ClassifyEmpty(total, visible int, query string) EmptyKind {
	switch {
	case visible > 0:
		return EmptyNone
	case total == 0:
		return EmptyNoItems
	case query != "":
		return EmptyNoMatch
	default:
		return EmptyNoItems
	}
}

// View is what a presenter renders: the state plus the filtered subset.
type View[T any] struct {
	State   State[T]
	Query   string
	Visible []T
	Empty   EmptyKind
}

// NewView derives the visible subset of s for query. Empty states are only
// reported for loaded collections.
func NewView[T any](s State[T], query string, fields Fields[T]) View[T] {
	v := View[T]{State: s, Query: query}
	v.Visible = Filter(s.Items, query, fields)
	if s.Status == StatusLoaded {
		v.Empty = ClassifyEmpty(len(s.Items), len(v.Visible), query)
	}
	return v
}
