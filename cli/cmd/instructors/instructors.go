package instructors

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd/resource"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/engine/access"
)

// Definition describes the instructor collection.
func Definition() *resource.Definition[api.Instructor, api.InstructorInput] {
	return &resource.Definition[api.Instructor, api.InstructorInput]{
		Use:          "instructors",
		Aliases:      []string{"instructor"},
		Noun:         "Instructor",
		Plural:       "instructors",
		ManageAction: access.ActionManageInstructors,
		Backend: func(c *api.Client) resource.Backend[api.Instructor, api.InstructorInput] {
			return c.Instructors()
		},
		Columns: []components.Column[api.Instructor]{
			{Title: "ID", Width: 6, Value: api.Instructor.ResourceID},
			{Title: "Name", Width: 24, Value: api.Instructor.Label},
			{Title: "Expertise", Width: 24, Value: func(i api.Instructor) string { return i.Expertise }},
			{Title: "Rating", Width: 8, Value: rating},
			{Title: "Bio", Width: 36, Value: func(i api.Instructor) string { return i.Bio }},
		},
		Fields: api.Instructor.SearchFields,
		Form:   form,
		Seed:   seed,
	}
}

// NewInstructorsCommand creates the instructors command group.
func NewInstructorsCommand() *cobra.Command {
	return Definition().Command()
}

func rating(i api.Instructor) string {
	if !i.Rating.Valid {
		return "-"
	}
	return i.Rating.Decimal.StringFixed(1)
}

func form(in *api.InstructorInput) (*huh.Form, func() error) {
	userID := resource.IDText(in.UserID)
	f := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("User ID").
			Description("Account the profile belongs to").
			Value(&userID).
			Validate(resource.PositiveID("user id")),
		huh.NewText().
			Title("Bio").
			Value(&in.Bio).
			Validate(resource.Required("bio")),
		huh.NewInput().
			Title("Expertise").
			Value(&in.Expertise),
	))
	apply := func() error {
		id, err := resource.ParseIDText(userID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		in.UserID = id
		return nil
	}
	return f, apply
}

func seed(i api.Instructor) api.InstructorInput {
	return api.InstructorInput{
		UserID:    i.UserID,
		Bio:       i.Bio,
		Expertise: i.Expertise,
	}
}
