package sessions

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd/resource"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/engine/access"
)

// Definition describes the practical session collection.
func Definition() *resource.Definition[api.PracticalSession, api.PracticalSessionInput] {
	return &resource.Definition[api.PracticalSession, api.PracticalSessionInput]{
		Use:          "sessions",
		Aliases:      []string{"session", "practical-sessions"},
		Noun:         "Practical session",
		Plural:       "practical sessions",
		ViewAction:   access.ActionViewLearning,
		ManageAction: access.ActionManagePracticalSession,
		Backend: func(c *api.Client) resource.Backend[api.PracticalSession, api.PracticalSessionInput] {
			return c.PracticalSessions()
		},
		Columns: []components.Column[api.PracticalSession]{
			{Title: "ID", Width: 6, Value: api.PracticalSession.ResourceID},
			{Title: "Title", Width: 24, Value: api.PracticalSession.Label},
			{Title: "When", Width: 18, Value: func(s api.PracticalSession) string { return s.SessionDateTime }},
			{Title: "Location", Width: 14, Value: func(s api.PracticalSession) string { return s.Location }},
			{Title: "Status", Width: 10, Value: func(s api.PracticalSession) string { return s.Status }},
			{Title: "Course", Width: 18, Value: func(s api.PracticalSession) string { return s.CourseTitle }},
			{Title: "Instructor", Width: 18, Value: func(s api.PracticalSession) string { return s.ConductingInstructorName }},
		},
		Fields: api.PracticalSession.SearchFields,
		Form:   form,
		Seed:   seed,
	}
}

// NewSessionsCommand creates the practical sessions command group.
func NewSessionsCommand() *cobra.Command {
	return Definition().Command()
}

func form(in *api.PracticalSessionInput) (*huh.Form, func() error) {
	duration := resource.OptionalIntText(in.DurationMinutes)
	courseID := resource.IDText(in.CourseID)
	instructorID := resource.IDText(in.ConductingInstructorID)
	if in.Status == "" {
		in.Status = api.SessionUpcoming
	}
	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&in.Title).
				Validate(resource.Required("title")),
			huh.NewText().
				Title("Description").
				Value(&in.Description),
			huh.NewInput().
				Title("Date and time").
				Placeholder("2026-05-14T09:00:00").
				Value(&in.SessionDateTime).
				Validate(resource.Required("date and time")),
			huh.NewInput().
				Title("Location").
				Value(&in.Location).
				Validate(resource.Required("location")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Duration (minutes)").
				Value(&duration).
				Validate(resource.OptionalPositive("duration")),
			huh.NewInput().
				Title("Course ID").
				Value(&courseID).
				Validate(resource.PositiveID("course id")),
			huh.NewInput().
				Title("Instructor ID").
				Value(&instructorID).
				Validate(resource.PositiveID("instructor id")),
			huh.NewSelect[string]().
				Title("Status").
				Options(huh.NewOptions(api.SessionUpcoming, api.SessionCompleted, api.SessionCancelled)...).
				Value(&in.Status),
		),
	)
	apply := func() error {
		d, err := resource.ParseOptionalInt(duration)
		if err != nil {
			return err
		}
		course, err := resource.ParseIDText(courseID)
		if err != nil {
			return fmt.Errorf("invalid course id: %w", err)
		}
		instructor, err := resource.ParseIDText(instructorID)
		if err != nil {
			return fmt.Errorf("invalid instructor id: %w", err)
		}
		in.DurationMinutes = d
		in.CourseID = course
		in.ConductingInstructorID = instructor
		return nil
	}
	return f, apply
}

func seed(s api.PracticalSession) api.PracticalSessionInput {
	return api.PracticalSessionInput{
		Title:                  s.Title,
		Description:            s.Description,
		SessionDateTime:        s.SessionDateTime,
		Location:               s.Location,
		DurationMinutes:        s.DurationMinutes,
		CourseID:               s.CourseID,
		ConductingInstructorID: s.ConductingInstructorID,
		Status:                 s.Status,
	}
}
