package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/covidash/internal/model"
	"github.com/jjenkins/covidash/internal/render"
	"github.com/jjenkins/covidash/internal/service"
	"github.com/jjenkins/covidash/internal/templates"
)

// SnapshotHandler selects a country and renders its merged snapshot. A
// selection overtaken by a newer one answers 204 so the page keeps the
// newer card.
func SnapshotHandler(dashboard *service.Dashboard, renderer *render.Renderer, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Query("country")
		if id == "" {
			return renderComponent(c, templates.Alert(renderer.Error(model.KindNoSelection, "")))
		}

		snap, err := dashboard.Select(c.UserContext(), id)
		if errors.Is(err, model.ErrStaleResult) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		if err != nil {
			return renderComponent(c, templates.Alert(renderer.ErrorFor(err, selectionContext(dashboard, err, id))))
		}

		log.WithField("country", snap.Country).Debug("Snapshot selected")
		return renderComponent(c, templates.SnapshotCard(renderer.Snapshot(snap)))
	}
}

// selectionContext names what failed in a selection alert
func selectionContext(dashboard *service.Dashboard, err error, id string) string {
	switch model.KindOf(err) {
	case model.KindTransport:
		return "fetching COVID data"
	case model.KindStatsNotFound:
		if meta, ok := dashboard.Find(id); ok {
			return meta.Name
		}
	}
	return id
}
