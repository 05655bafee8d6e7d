// Package resource builds the list/get/create/update/delete command group
// shared by every managed collection.
package resource

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/engine/access"
	engine "github.com/plasturgie/plasturgie/engine/resource"
)

// Backend is the REST surface a collection command needs.
type Backend[T engine.Item, In any] interface {
	engine.Mutator[T, In]
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
}

// FormBuilder returns a form bound to in and a function that copies the
// form's text fields into in once it is submitted.
type FormBuilder[In any] func(in *In) (form *huh.Form, apply func() error)

// Definition describes one managed collection.
type Definition[T engine.Item, In any] struct {
	// Use is the command name, e.g. "companies".
	Use     string
	Aliases []string
	// Noun names one item in messages, e.g. "Company".
	Noun string
	// Plural names the collection in messages, e.g. "companies".
	Plural string

	// ViewAction guards list and get. Empty leaves reads to the backend.
	ViewAction access.Action
	// ManageAction guards create, update and delete.
	ManageAction access.Action

	Backend func(c *api.Client) Backend[T, In]
	Columns []components.Column[T]
	Fields  engine.Fields[T]
	Form    FormBuilder[In]
	// Seed prefills an update payload from the current record.
	Seed func(item T) In
}

// Command builds the command group. extra subcommands are appended as is.
func (d *Definition[T, In]) Command(extra ...*cobra.Command) *cobra.Command {
	group := &cobra.Command{
		Use:     d.Use,
		Aliases: d.Aliases,
		Short:   "Manage " + d.Plural,
	}
	group.AddCommand(
		d.listCommand(),
		d.getCommand(),
		d.createCommand(),
		d.updateCommand(),
		d.deleteCommand(),
	)
	group.AddCommand(extra...)
	return group
}

func (d *Definition[T, In]) controller(backend Backend[T, In], notifier engine.Notifier) *engine.Controller[T] {
	return engine.NewController[T](
		backend.List,
		engine.WithName(d.Plural),
		engine.WithNotifier(notifier),
		engine.WithStaleItems(),
	)
}
