package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Load(t *testing.T) {
	t.Run("Should start idle and become loaded after a successful fetch", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"}, company{ID: 2, Name: "Globex"})
		ctrl := NewController(backend.List)
		assert.Equal(t, StatusIdle, ctrl.State().Status)

		state := ctrl.Load(t.Context())

		assert.Equal(t, StatusLoaded, state.Status)
		assert.Equal(t, []int{1, 2}, ids(state.Items))
		assert.Equal(t, state, ctrl.State())
	})

	t.Run("Should default a missing payload to an empty collection", func(t *testing.T) {
		ctrl := NewController(func(context.Context) ([]company, error) { return nil, nil })

		state := ctrl.Load(t.Context())

		assert.Equal(t, StatusLoaded, state.Status)
		assert.NotNil(t, state.Items)
		assert.Empty(t, state.Items)
	})

	t.Run("Should fail with the fallback message on network errors and allow retry", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		backend.failWith = errors.New("dial tcp 127.0.0.1:5000: connect: connection refused")
		rec := &Recorder{}
		ctrl := NewController(backend.List, WithNotifier(rec))

		state := ctrl.Load(t.Context())

		assert.Equal(t, StatusFailed, state.Status)
		assert.Equal(t, "failed to load", state.Message)
		assert.Error(t, state.Err)
		assert.Equal(t, []Notification{{Level: LevelError, Message: "failed to load"}}, rec.Notifications())

		backend.failWith = nil
		state = ctrl.Load(t.Context())

		assert.Equal(t, StatusLoaded, state.Status)
		assert.Len(t, backend.Requests(), 2)
		assert.Len(t, rec.Notifications(), 1, "success must not notify")
	})

	t.Run("Should prefer the backend message over generic texts", func(t *testing.T) {
		rec := &Recorder{}
		ctrl := NewController(func(context.Context) ([]company, error) {
			return nil, fmt.Errorf("list companies: %w", &statusErr{code: 500, msg: "Database unavailable"})
		}, WithNotifier(rec))

		state := ctrl.Load(t.Context())

		assert.Equal(t, "Database unavailable", state.Message)
		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, "Database unavailable", last.Message)
	})

	t.Run("Should use a generic status text when the body has no message", func(t *testing.T) {
		ctrl := NewController(func(context.Context) ([]company, error) {
			return nil, &statusErr{code: 502}
		})

		assert.Equal(t, "request failed with status code 502", ctrl.Load(t.Context()).Message)
	})

	t.Run("Should surface authorization failures like transport failures", func(t *testing.T) {
		ctrl := NewController(func(context.Context) ([]company, error) {
			return nil, &statusErr{code: 403, msg: "Access Denied"}
		}, WithFallbackMessage("Failed to load companies."))

		assert.Equal(t, "Failed to load companies.", ctrl.Load(t.Context()).Message)
	})

	t.Run("Should keep stale items across a failure only when asked", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		plain := NewController(backend.List)
		stale := NewController(backend.List, WithStaleItems())
		plain.Load(t.Context())
		stale.Load(t.Context())

		backend.failWith = errors.New("timeout")

		assert.Empty(t, plain.Load(t.Context()).Items)
		failed := stale.Load(t.Context())
		assert.Equal(t, StatusFailed, failed.Status)
		assert.Equal(t, []int{1}, ids(failed.Items))
	})

	t.Run("Should publish every transition to subscribers", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		ctrl := NewController(backend.List)
		var seen []Status
		ctrl.Subscribe(func(s State[company]) { seen = append(seen, s.Status) })

		ctrl.Load(t.Context())
		ctrl.Load(t.Context())

		assert.Equal(t, []Status{StatusLoading, StatusLoaded, StatusLoading, StatusLoaded}, seen)
	})

	t.Run("Should let a subscriber register another one while being notified", func(t *testing.T) {
		backend := newFakeBackend(company{ID: 1, Name: "Acme"})
		ctrl := NewController(backend.List)
		var late []Status
		registered := false
		ctrl.Subscribe(func(State[company]) {
			if registered {
				return
			}
			registered = true
			ctrl.Subscribe(func(s State[company]) { late = append(late, s.Status) })
		})

		ctrl.Load(t.Context())

		assert.Equal(t, []Status{StatusLoaded}, late)
	})
}

func TestController_Sequencing(t *testing.T) {
	t.Run("Should discard a response overtaken by a newer load", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var calls atomic.Int32
		ctrl := NewController(func(context.Context) ([]company, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-release
				return []company{{ID: 1, Name: "old"}}, nil
			}
			return []company{{ID: 2, Name: "new"}}, nil
		})

		done := make(chan State[company], 1)
		go func() { done <- ctrl.Load(context.Background()) }()
		<-started

		second := ctrl.Load(t.Context())
		close(release)
		first := <-done

		assert.Equal(t, []int{2}, ids(second.Items))
		assert.Equal(t, []int{2}, ids(first.Items))
		assert.Equal(t, []int{2}, ids(ctrl.State().Items))
	})

	t.Run("Should ignore responses and loads after close", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var calls atomic.Int32
		rec := &Recorder{}
		ctrl := NewController(func(context.Context) ([]company, error) {
			calls.Add(1)
			close(started)
			<-release
			return nil, errors.New("boom")
		}, WithNotifier(rec))

		done := make(chan State[company], 1)
		go func() { done <- ctrl.Load(context.Background()) }()
		<-started
		ctrl.Close()
		close(release)
		<-done

		assert.Equal(t, StatusLoading, ctrl.State().Status)
		assert.Empty(t, rec.Notifications())
		ctrl.Load(t.Context())
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestMessage(t *testing.T) {
	t.Run("Should fall back for nil and plain errors", func(t *testing.T) {
		assert.Equal(t, DefaultFallbackMessage, Message(nil, ""))
		assert.Equal(t, "custom", Message(errors.New("x"), "custom"))
	})

	t.Run("Should pass validation messages through verbatim", func(t *testing.T) {
		err := &statusErr{code: 400, msg: "Company name must not be blank"}
		assert.Equal(t, "Company name must not be blank", Message(err, ""))
	})

	t.Run("Should hide 401 bodies", func(t *testing.T) {
		assert.Equal(t, DefaultFallbackMessage, Message(&statusErr{code: 401, msg: "Full authentication is required"}, ""))
	})
}
