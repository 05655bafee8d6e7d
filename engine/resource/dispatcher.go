package resource

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/plasturgie/plasturgie/pkg/logger"
)

// Mutator issues single-item writes against the backend.
type Mutator[T Item, In any] interface {
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, in In) (T, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// AlwaysConfirm approves every prompt, for callers that confirmed up front.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// DeletePrompt is the confirmation text for deleting item.
func DeletePrompt(label string) string {
	return fmt.Sprintf("Are you sure you want to delete %q?", label)
}

// Dispatcher runs mutations and resynchronizes the controller by a full
// reload after each success. It never edits the loaded items itself.
type Dispatcher[T Item, In any] struct {
	noun      string
	mutator   Mutator[T, In]
	ctrl      *Controller[T]
	notifier  Notifier
	confirmer Confirmer
	busy      atomic.Bool
}

type DispatcherOption[T Item, In any] func(*Dispatcher[T, In])

func WithConfirmer[T Item, In any](c Confirmer) DispatcherOption[T, In] {
	return func(d *Dispatcher[T, In]) { d.confirmer = c }
}

func WithDispatchNotifier[T Item, In any](n Notifier) DispatcherOption[T, In] {
	return func(d *Dispatcher[T, In]) { d.notifier = n }
}

// NewDispatcher builds a dispatcher. noun names the item in messages, e.g. "Company".
func NewDispatcher[T Item, In any](
	noun string,
	mutator Mutator[T, In],
	ctrl *Controller[T],
	opts ...DispatcherOption[T, In],
) *Dispatcher[T, In] {
	d := &Dispatcher[T, In]{noun: noun, mutator: mutator, ctrl: ctrl, notifier: discard{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.notifier == nil {
		d.notifier = discard{}
	}
	return d
}

// Operation is a single mutation with its notification texts.
type Operation struct {
	Success string
	Failure string
	Do      func(ctx context.Context) error
}

// Run executes op, notifies, and reloads on success.
func (d *Dispatcher[T, In]) Run(ctx context.Context, op Operation) error {
	return d.run(ctx, op.Failure, op.Do, func() string { return op.Success })
}

func (d *Dispatcher[T, In]) run(
	ctx context.Context,
	failure string,
	do func(ctx context.Context) error,
	success func() string,
) error {
	if !d.busy.CompareAndSwap(false, true) {
		return ErrMutationInProgress
	}
	defer d.busy.Store(false)

	log := logger.FromContext(ctx)
	if err := do(ctx); err != nil {
		log.Warn("mutation failed", "resource", d.noun, "error", err)
		d.notifier.Notify(Notification{Level: LevelError, Message: failure + ": " + Message(err, "request failed")})
		return err
	}
	d.notifier.Notify(Notification{Level: LevelSuccess, Message: success()})
	if d.ctrl != nil {
		d.ctrl.Load(ctx)
	}
	return nil
}

func (d *Dispatcher[T, In]) successText(item T, verb string) string {
	if label := item.Label(); label != "" {
		return fmt.Sprintf("%s %q %s successfully.", d.noun, label, verb)
	}
	return fmt.Sprintf("%s %s successfully.", d.noun, verb)
}

func (d *Dispatcher[T, In]) Create(ctx context.Context, in In) (T, error) {
	var created T
	err := d.run(ctx,
		fmt.Sprintf("Failed to create %s", strings.ToLower(d.noun)),
		func(ctx context.Context) error {
			var err error
			created, err = d.mutator.Create(ctx, in)
			return err
		},
		func() string { return d.successText(created, "created") },
	)
	return created, err
}

func (d *Dispatcher[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	var updated T
	err := d.run(ctx,
		fmt.Sprintf("Failed to update %s %s", strings.ToLower(d.noun), id),
		func(ctx context.Context) error {
			var err error
			updated, err = d.mutator.Update(ctx, id, in)
			return err
		},
		func() string { return d.successText(updated, "updated") },
	)
	return updated, err
}

// Delete asks for confirmation with the item's label, then deletes it.
// Declining returns ErrCanceled without issuing a request.
func (d *Dispatcher[T, In]) Delete(ctx context.Context, item T) error {
	if d.confirmer == nil {
		return ErrConfirmationRequired
	}
	label := item.Label()
	ok, err := d.confirmer.Confirm(ctx, DeletePrompt(label))
	if err != nil {
		return fmt.Errorf("failed to confirm deletion: %w", err)
	}
	if !ok {
		return ErrCanceled
	}
	return d.Run(ctx, Operation{
		Success: fmt.Sprintf("%s %q deleted successfully.", d.noun, label),
		Failure: fmt.Sprintf("Failed to delete %s %q", strings.ToLower(d.noun), label),
		Do: func(ctx context.Context) error {
			return d.mutator.Delete(ctx, item.ResourceID())
		},
	})
}
