package users

import (
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd/resource"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/engine/access"
)

// Definition describes the user collection. Listing accounts is reserved to
// administrators, like every other user operation.
func Definition() *resource.Definition[api.User, api.UserInput] {
	return &resource.Definition[api.User, api.UserInput]{
		Use:          "users",
		Aliases:      []string{"user"},
		Noun:         "User",
		Plural:       "users",
		ViewAction:   access.ActionManageUsers,
		ManageAction: access.ActionManageUsers,
		Backend: func(c *api.Client) resource.Backend[api.User, api.UserInput] {
			return c.Users()
		},
		Columns: []components.Column[api.User]{
			{Title: "ID", Width: 6, Value: api.User.ResourceID},
			{Title: "Username", Width: 18, Value: api.User.Label},
			{Title: "Name", Width: 22, Value: api.User.FullName},
			{Title: "Email", Width: 28, Value: func(u api.User) string { return u.Email }},
			{Title: "Role", Width: 12, Value: func(u api.User) string { return u.Role }},
		},
		Fields: api.User.SearchFields,
		Form:   form,
		Seed:   seed,
	}
}

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	return Definition().Command(newSetRoleCommand())
}

func roleOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(access.AllRoles))
	for _, r := range access.AllRoles {
		options = append(options, huh.NewOption(r.String(), r.String()))
	}
	return options
}

func form(in *api.UserInput) (*huh.Form, func() error) {
	if in.Role == "" {
		in.Role = access.RoleLearner.String()
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&in.Username).
			Validate(resource.Required("username")),
		huh.NewInput().
			Title("Email").
			Value(&in.Email).
			Validate(resource.Required("email")),
		huh.NewInput().
			Title("Password").
			Description("Required for new accounts, leave blank to keep the current one").
			EchoMode(huh.EchoModePassword).
			Value(&in.Password),
		huh.NewInput().
			Title("First name").
			Value(&in.FirstName),
		huh.NewInput().
			Title("Last name").
			Value(&in.LastName),
		huh.NewSelect[string]().
			Title("Role").
			Options(roleOptions()...).
			Value(&in.Role),
	)), nil
}

func seed(u api.User) api.UserInput {
	return api.UserInput{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
