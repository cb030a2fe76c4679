package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/covidash/internal/render"
	"github.com/jjenkins/covidash/internal/service"
	"github.com/jjenkins/covidash/internal/templates"
)

const pageTitle = "COVID Country Dashboard"

// HomeHandler renders the full dashboard. The country list is fetched on
// every page load and kept on the Dashboard until the next one.
func HomeHandler(dashboard *service.Dashboard, renderer *render.Renderer, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		data := templates.PageData{
			Title:    pageTitle,
			LoggedIn: dashboard.LoggedIn(),
		}

		countries, err := dashboard.LoadCountries(ctx)
		if err != nil {
			alert := renderer.ErrorFor(err, "countries")
			data.DirectoryAlert = &alert
		}

		current, hasCurrent := dashboard.Current()
		for _, country := range countries {
			data.Countries = append(data.Countries, templates.CountryOption{
				ID:       country.ID(),
				Name:     country.Name,
				Selected: hasCurrent && country.Name == current.Country,
			})
		}
		if hasCurrent {
			view := renderer.Snapshot(current)
			data.Snapshot = &view
		}

		data.Records, data.RecordsAlert = recordList(c, dashboard, renderer, log)

		page := templates.Page(data)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

// recordList fetches persisted records for display. A failed fetch yields
// an alert in place of the list.
func recordList(c *fiber.Ctx, dashboard *service.Dashboard, renderer *render.Renderer, log logrus.FieldLogger) (render.RecordListView, *render.Alert) {
	records, err := dashboard.Records(c.UserContext())
	if err != nil {
		log.WithError(err).Warn("Error loading records")
		alert := renderer.ErrorFor(err, "records")
		return render.RecordListView{}, &alert
	}
	return renderer.RecordList(records), nil
}

func renderComponent(c *fiber.Ctx, component templ.Component, options ...func(*templ.ComponentHandler)) error {
	handler := adaptor.HTTPHandler(templ.Handler(component, options...))
	return handler(c)
}
