package handlers

import (
	"net/url"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/covidash/internal/render"
	"github.com/jjenkins/covidash/internal/service"
	"github.com/jjenkins/covidash/internal/templates"
)

// LoginHandler redirects to the authorization URL, asking it to come back
// to the callback with a token.
func LoginHandler(authorizeURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := url.Parse(authorizeURL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Invalid authorization URL")
		}

		q := u.Query()
		q.Set("redirect_uri", c.BaseURL()+"/auth/callback")
		u.RawQuery = q.Encode()

		return c.Redirect(u.String(), fiber.StatusFound)
	}
}

// CallbackHandler stores the token handed back by the authorization flow.
// The Dashboard holds a single process-wide session: the stored token
// replaces any earlier one and is sent with every later save, whoever
// triggers it.
func CallbackHandler(dashboard *service.Dashboard, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			token = c.Query("access_token")
		}
		if token == "" {
			alert := render.Alert{Level: render.LevelDanger, Message: "Login failed: no token received"}
			return renderComponent(c, templates.Alert(alert), templ.WithStatus(fiber.StatusBadRequest))
		}

		dashboard.Login(token)
		log.Info("Session token stored")

		return c.Redirect("/", fiber.StatusFound)
	}
}
