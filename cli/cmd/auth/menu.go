package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/plasturgie/plasturgie/cli/cmd"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/cli/tui/styles"
	"github.com/plasturgie/plasturgie/engine/access"
)

const menuHeaderWidth = 80

// headerWidth fits the banner to the terminal, capped at menuHeaderWidth.
func headerWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return menuHeaderWidth
	}
	return min(width, menuHeaderWidth)
}

// MenuCmd returns the menu command
func MenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the navigation entries available to the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireClient: true,
			}, cmd.ModeHandlers{
				JSON: menuJSON,
				TUI:  menuTUI,
			}, args)
		},
	}
}

func visibleMenu(ctx context.Context, executor *cmd.CommandExecutor) ([]access.MenuItem, error) {
	p, err := executor.Principal(ctx)
	if err != nil {
		return nil, err
	}
	return access.FilterMenu(access.DefaultMenu(), p), nil
}

func menuJSON(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	items, err := visibleMenu(ctx, executor)
	if err != nil {
		return err
	}
	return executor.WriteJSON(map[string]any{"data": items})
}

func menuTUI(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	items, err := visibleMenu(ctx, executor)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(executor.Out(), lipgloss.JoinVertical(lipgloss.Left,
		components.RenderASCIIHeader(headerWidth()),
		renderMenu(items),
	))
	return err
}

func renderMenu(items []access.MenuItem) string {
	t := menuTree(items).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styles.HelpStyle).
		ItemStyle(styles.InfoStyle)
	return t.String()
}

func menuTree(items []access.MenuItem) *tree.Tree {
	t := tree.New()
	for _, item := range items {
		if len(item.Children) == 0 {
			t.Child(item.Title)
			continue
		}
		t.Child(menuTree(item.Children).Root(item.Title))
	}
	return t
}
