package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/covidash/internal/render"
	"github.com/jjenkins/covidash/internal/service"
	"github.com/jjenkins/covidash/internal/templates"
)

// RecordsHandler renders the persisted record list
func RecordsHandler(dashboard *service.Dashboard, renderer *render.Renderer, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, alert := recordList(c, dashboard, renderer, log)
		if alert != nil {
			return renderComponent(c, templates.Alert(*alert))
		}
		return renderComponent(c, templates.RecordList(list))
	}
}

// SaveHandler persists the current snapshot, then renders the outcome and
// the re-fetched record list.
func SaveHandler(dashboard *service.Dashboard, renderer *render.Renderer, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var alert render.Alert

		record, err := dashboard.Save(c.UserContext())
		if err != nil {
			alert = renderer.ErrorFor(err, "saving the snapshot")
		} else {
			alert = renderer.Success("Saved " + record.Country + " (ID: " + record.ID + ")")
		}

		list, listAlert := recordList(c, dashboard, renderer, log)
		return renderComponent(c, templates.SaveResult(alert, list, listAlert))
	}
}
