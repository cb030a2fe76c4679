package handlers

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/covidash/internal/model"
	"github.com/jjenkins/covidash/internal/store"
)

// SessionCookie carries a token for browsers that authenticate by cookie
const SessionCookie = "session"

type errorResponse struct {
	Message string `json:"message"`
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Message: msg})
}

// RequireToken admits requests carrying one of tokens as a bearer token or
// session cookie. With no tokens configured every request is admitted.
func RequireToken(tokens []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		allowed[t] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if len(allowed) == 0 {
			return c.Next()
		}

		if bearer, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "); ok {
			if _, ok := allowed[strings.TrimSpace(bearer)]; ok {
				return c.Next()
			}
		}
		if cookie := c.Cookies(SessionCookie); cookie != "" {
			if _, ok := allowed[cookie]; ok {
				return c.Next()
			}
		}

		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
}

// CreateRecordHandler stores a posted snapshot
func CreateRecordHandler(recordStore *store.RecordStore, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var snap model.Snapshot
		if err := json.Unmarshal(c.Body(), &snap); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
		}
		if err := snap.Validate(); err != nil {
			return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		}

		record, err := recordStore.Create(c.UserContext(), snap)
		if err != nil {
			log.WithError(err).WithField("country", snap.Country).Error("Error saving record")
			return jsonError(c, fiber.StatusInternalServerError, "failed to save record")
		}

		log.WithFields(logrus.Fields{"country": record.Country, "id": record.ID}).Info("Record created")
		return c.Status(fiber.StatusCreated).JSON(record)
	}
}

// ListRecordsHandler returns every record, newest first
func ListRecordsHandler(recordStore *store.RecordStore, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := recordStore.List(c.UserContext())
		if err != nil {
			log.WithError(err).Error("Error loading records")
			return jsonError(c, fiber.StatusInternalServerError, "failed to load records")
		}
		return c.JSON(records)
	}
}

// GetRecordHandler returns one record by id
func GetRecordHandler(recordStore *store.RecordStore, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		record, err := recordStore.GetByID(c.UserContext(), id)
		if err != nil {
			log.WithError(err).WithField("id", id).Error("Error loading record")
			return jsonError(c, fiber.StatusInternalServerError, "failed to load record")
		}
		if record == nil {
			return jsonError(c, fiber.StatusNotFound, "record not found")
		}

		return c.JSON(record)
	}
}
