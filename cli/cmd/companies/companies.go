package companies

import (
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd/resource"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/engine/access"
)

// Definition describes the company collection.
func Definition() *resource.Definition[api.Company, api.CompanyInput] {
	return &resource.Definition[api.Company, api.CompanyInput]{
		Use:          "companies",
		Aliases:      []string{"company"},
		Noun:         "Company",
		Plural:       "companies",
		ManageAction: access.ActionManageCompanies,
		Backend: func(c *api.Client) resource.Backend[api.Company, api.CompanyInput] {
			return c.Companies()
		},
		Columns: []components.Column[api.Company]{
			{Title: "ID", Width: 6, Value: api.Company.ResourceID},
			{Title: "Name", Width: 28, Value: api.Company.Label},
			{Title: "City", Width: 16, Value: func(c api.Company) string { return c.City }},
			{Title: "Website", Width: 28, Value: func(c api.Company) string { return c.Website }},
			{Title: "Representative", Width: 20, Value: func(c api.Company) string { return c.RepresentativeName }},
		},
		Fields: api.Company.SearchFields,
		Form:   form,
		Seed:   seed,
	}
}

// NewCompaniesCommand creates the companies command group.
func NewCompaniesCommand() *cobra.Command {
	return Definition().Command()
}

func form(in *api.CompanyInput) (*huh.Form, func() error) {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Value(&in.Name).
			Validate(resource.Required("name")),
		huh.NewInput().
			Title("Address").
			Value(&in.Address),
		huh.NewInput().
			Title("City").
			Value(&in.City),
		huh.NewInput().
			Title("Phone number").
			Value(&in.PhoneNumber),
		huh.NewInput().
			Title("Email").
			Description("Contact address, optional").
			Value(&in.Email),
		huh.NewInput().
			Title("Website").
			Placeholder("https://").
			Value(&in.Website),
	)), nil
}

func seed(c api.Company) api.CompanyInput {
	return api.CompanyInput{
		Name:        c.Name,
		Address:     c.Address,
		City:        c.City,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		Website:     c.Website,
	}
}
