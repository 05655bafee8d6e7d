package events

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/plasturgie/plasturgie/cli/api"
	"github.com/plasturgie/plasturgie/cli/cmd/resource"
	"github.com/plasturgie/plasturgie/cli/tui/components"
	"github.com/plasturgie/plasturgie/engine/access"
)

// Definition describes the event collection.
func Definition() *resource.Definition[api.Event, api.EventInput] {
	return &resource.Definition[api.Event, api.EventInput]{
		Use:          "events",
		Aliases:      []string{"event"},
		Noun:         "Event",
		Plural:       "events",
		ManageAction: access.ActionManageEvents,
		Backend: func(c *api.Client) resource.Backend[api.Event, api.EventInput] {
			return c.Events()
		},
		Columns: []components.Column[api.Event]{
			{Title: "ID", Width: 6, Value: api.Event.ResourceID},
			{Title: "Title", Width: 26, Value: api.Event.Label},
			{Title: "Date", Width: 18, Value: func(e api.Event) string { return e.EventDate }},
			{Title: "Location", Width: 16, Value: func(e api.Event) string { return e.Location }},
			{Title: "Price", Width: 9, Value: price},
			{Title: "Seats", Width: 8, Value: api.Event.Seats},
			{Title: "Company", Width: 16, Value: func(e api.Event) string { return e.CompanyName }},
		},
		Fields: api.Event.SearchFields,
		Form:   form,
		Seed:   seed,
	}
}

// NewEventsCommand creates the events command group.
func NewEventsCommand() *cobra.Command {
	return Definition().Command()
}

func price(e api.Event) string {
	if !e.Price.Valid || e.Price.Decimal.IsZero() {
		return "free"
	}
	return e.Price.Decimal.StringFixed(2)
}

func form(in *api.EventInput) (*huh.Form, func() error) {
	priceText := resource.DecimalText(in.Price)
	seats := resource.OptionalIntText(in.MaxParticipants)
	companyID := ""
	if in.CompanyID != nil {
		companyID = resource.IDText(*in.CompanyID)
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
				Title("Location").
				Value(&in.Location),
			huh.NewInput().
				Title("Type").
				Placeholder("workshop, conference...").
				Value(&in.Type),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder("2026-05-14T09:00:00").
				Value(&in.EventDate),
			huh.NewInput().
				Title("Registration deadline").
				Placeholder("2026-05-10T23:59:00").
				Value(&in.RegistrationDeadline),
			huh.NewInput().
				Title("Price").
				Description("Leave blank for a free event").
				Value(&priceText).
				Validate(resource.OptionalDecimal("price")),
			huh.NewInput().
				Title("Max participants").
				Value(&seats).
				Validate(resource.OptionalPositive("max participants")),
			huh.NewInput().
				Title("Company ID").
				Value(&companyID).
				Validate(resource.OptionalPositive("company id")),
		),
	)
	apply := func() error {
		p, err := resource.ParseOptionalDecimal(priceText)
		if err != nil {
			return err
		}
		limit, err := resource.ParseOptionalInt(seats)
		if err != nil {
			return err
		}
		company, err := resource.ParseIDText(companyID)
		if err != nil {
			return errors.New("invalid company id")
		}
		in.Price = p
		in.MaxParticipants = limit
		in.CompanyID = nil
		if company > 0 {
			in.CompanyID = &company
		}
		return nil
	}
	return f, apply
}

func seed(e api.Event) api.EventInput {
	return api.EventInput{
		Title:                e.Title,
		Description:          e.Description,
		Location:             e.Location,
		EventDate:            e.EventDate,
		RegistrationDeadline: e.RegistrationDeadline,
		Price:                e.Price,
		MaxParticipants:      e.MaxParticipants,
		Type:                 e.Type,
		CompanyID:            e.CompanyID,
	}
}
