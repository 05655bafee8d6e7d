// Package resource implements the list manager shared by every administrable
// collection: a fetch controller with an explicit load state, a client-side
// search filter and a mutation dispatcher that resynchronizes by refetching.
package resource

// Item is a record owned by the backend and identified by an id.
type Item interface {
	ResourceID() string
	Label() string
}

// Status is the fetch lifecycle tag.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of a controller. Items is meaningful when Status is
// StatusLoaded, or when stale items are retained across a failure.
type State[T any] struct {
	Status  Status `json:"status"`
	Items   []T    `json:"items"`
	Message string `json:"message,omitempty"`
	// Err is the failure behind a StatusFailed state.
	Err error `json:"-"`
}

func (s State[T]) Loaded() bool { return s.Status == StatusLoaded }

func (s State[T]) Failed() bool { return s.Status == StatusFailed }

func (s State[T]) Loading() bool { return s.Status == StatusLoading }
