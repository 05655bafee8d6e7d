package resource

import (
	"context"
	"slices"
	"sync"

	"github.com/plasturgie/plasturgie/pkg/logger"
)

// FetchFunc retrieves the full collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

type controllerOptions struct {
	notifier  Notifier
	fallback  string
	keepStale bool
	name      string
}

type ControllerOption func(*controllerOptions)

// WithNotifier sets where failure notifications go.
func WithNotifier(n Notifier) ControllerOption {
	return func(o *controllerOptions) { o.notifier = n }
}

// WithFallbackMessage overrides DefaultFallbackMessage.
func WithFallbackMessage(msg string) ControllerOption {
	return func(o *controllerOptions) { o.fallback = msg }
}

// WithStaleItems keeps the last loaded items visible while loading and after a failure.
func WithStaleItems() ControllerOption {
	return func(o *controllerOptions) { o.keepStale = true }
}

// WithName labels log records of this controller.
func WithName(name string) ControllerOption {
	return func(o *controllerOptions) { o.name = name }
}

// Controller owns the load state of one collection. Each Load issues exactly
// one fetch; only the response of the latest Load is applied, and nothing is
// applied after Close.
type Controller[T any] struct {
	fetch FetchFunc[T]
	opts  controllerOptions

	mu          sync.Mutex
	state       State[T]
	lastItems   []T
	seq         uint64
	closed      bool
	subscribers []func(State[T])
}

func NewController[T any](fetch FetchFunc[T], opts ...ControllerOption) *Controller[T] {
	o := controllerOptions{notifier: discard{}, fallback: DefaultFallbackMessage}
	for _, opt := range opts {
		opt(&o)
	}
	if o.notifier == nil {
		o.notifier = discard{}
	}
	if o.fallback == "" {
		o.fallback = DefaultFallbackMessage
	}
	return &Controller[T]{
		fetch: fetch,
		opts:  o,
		state: State[T]{Status: StatusIdle},
	}
}

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive every state transition.
func (c *Controller[T]) Subscribe(fn func(State[T])) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.mu.Unlock()
}

// Close discards every response that arrives afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.subscribers = nil
	c.mu.Unlock()
}

// Load fetches the collection and returns the resulting state. A response
// overtaken by a newer Load, or arriving after Close, is dropped and the
// current state is returned unchanged.
func (c *Controller[T]) Load(ctx context.Context) State[T] {
	log := logger.FromContext(ctx)
	c.mu.Lock()
	if c.closed {
		s := c.state
		c.mu.Unlock()
		return s
	}
	c.seq++
	seq := c.seq
	loading := State[T]{Status: StatusLoading}
	if c.opts.keepStale {
		loading.Items = c.lastItems
	}
	subs := c.transition(loading)
	c.mu.Unlock()
	publish(subs, loading)

	items, err := c.fetch(ctx)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		s := c.state
		c.mu.Unlock()
		log.Debug("discarding stale response", "resource", c.opts.name, "seq", seq)
		return s
	}
	var next State[T]
	if err != nil {
		next = State[T]{Status: StatusFailed, Message: Message(err, c.opts.fallback), Err: err}
		if c.opts.keepStale {
			next.Items = c.lastItems
		}
	} else {
		if items == nil {
			items = []T{}
		}
		c.lastItems = items
		next = State[T]{Status: StatusLoaded, Items: items}
	}
	subs = c.transition(next)
	c.mu.Unlock()

	publish(subs, next)
	if err != nil {
		log.Warn("load failed", "resource", c.opts.name, "error", err)
		c.opts.notifier.Notify(Notification{Level: LevelError, Message: next.Message})
	} else {
		log.Debug("load succeeded", "resource", c.opts.name, "count", len(items))
	}
	return next
}

// transition must be called with c.mu held.
func (c *Controller[T]) transition(s State[T]) []func(State[T]) {
	c.state = s
	return slices.Clone(c.subscribers)
}

func publish[T any](subs []func(State[T]), s State[T]) {
	for _, fn := range subs {
		fn(s)
	}
}
