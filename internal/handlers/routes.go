package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/covidash/internal/render"
	"github.com/jjenkins/covidash/internal/service"
	"github.com/jjenkins/covidash/internal/store"
)

// RegisterDashboard mounts the dashboard pages and partials
func RegisterDashboard(app fiber.Router, dashboard *service.Dashboard, renderer *render.Renderer, authorizeURL string, log logrus.FieldLogger) {
	app.Get("/", HomeHandler(dashboard, renderer, log))
	app.Get("/snapshot", SnapshotHandler(dashboard, renderer, log))
	app.Post("/save", SaveHandler(dashboard, renderer, log))
	app.Get("/records", RecordsHandler(dashboard, renderer, log))

	// Login flow
	app.Get("/login", LoginHandler(authorizeURL))
	app.Get("/auth/callback", CallbackHandler(dashboard, log))
}

// RegisterRecordsAPI mounts the records store API under /api
func RegisterRecordsAPI(app fiber.Router, recordStore *store.RecordStore, tokens []string, log logrus.FieldLogger) {
	api := app.Group("/api")
	api.Post("/records", RequireToken(tokens), CreateRecordHandler(recordStore, log))
	api.Get("/records", ListRecordsHandler(recordStore, log))
	api.Get("/records/:id", GetRecordHandler(recordStore, log))
}
