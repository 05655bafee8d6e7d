package certifications

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd/resource"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/engine/access"
)

// Definition describes the certification collection.
func Definition() *resource.Definition[api.Certification, api.CertificationInput] {
	return &resource.Definition[api.Certification, api.CertificationInput]{
		Use:          "certifications",
		Aliases:      []string{"certification", "certs"},
		Noun:         "Certification",
		Plural:       "certifications",
		ViewAction:   access.ActionViewLearning,
		ManageAction: access.ActionManageCertifications,
		Backend: func(c *api.Client) resource.Backend[api.Certification, api.CertificationInput] {
			return c.Certifications()
		},
		Columns: []components.Column[api.Certification]{
			{Title: "ID", Width: 6, Value: api.Certification.ResourceID},
			{Title: "Code", Width: 18, Value: api.Certification.Label},
			{Title: "Learner", Width: 16, Value: func(c api.Certification) string { return c.User.Username }},
			{Title: "Course", Width: 24, Value: func(c api.Certification) string { return c.Course.Title }},
			{Title: "Issued", Width: 12, Value: func(c api.Certification) string { return c.IssueDate }},
			{Title: "Expires", Width: 12, Value: func(c api.Certification) string { return c.ExpiryDate }},
			{Title: "Status", Width: 10, Value: func(c api.Certification) string { return c.Status }},
		},
		Fields: api.Certification.SearchFields,
		Form:   form,
		Seed:   seed,
	}
}

// NewCertificationsCommand creates the certifications command group.
func NewCertificationsCommand() *cobra.Command {
	return Definition().Command()
}

func form(in *api.CertificationInput) (*huh.Form, func() error) {
	userID := resource.IDText(in.UserID)
	courseID := resource.IDText(in.CourseID)
	f := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Learner ID").
			Value(&userID).
			Validate(resource.PositiveID("learner id")),
		huh.NewInput().
			Title("Course ID").
			Value(&courseID).
			Validate(resource.PositiveID("course id")),
		huh.NewInput().
			Title("Issue date").
			Placeholder("2026-01-31").
			Value(&in.IssueDate).
			Validate(resource.Required("issue date")),
		huh.NewInput().
			Title("Expiry date").
			Description("Optional").
			Placeholder("2028-01-31").
			Value(&in.ExpiryDate),
	))
	apply := func() error {
		user, err := resource.ParseIDText(userID)
		if err != nil {
			return fmt.Errorf("invalid learner id: %w", err)
		}
		course, err := resource.ParseIDText(courseID)
		if err != nil {
			return fmt.Errorf("invalid course id: %w", err)
		}
		in.UserID = user
		in.CourseID = course
		return nil
	}
	return f, apply
}

func seed(c api.Certification) api.CertificationInput {
	return api.CertificationInput{
		UserID:     c.User.ID,
		CourseID:   c.Course.ID,
		IssueDate:  c.IssueDate,
		ExpiryDate: c.ExpiryDate,
	}
}
