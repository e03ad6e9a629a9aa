package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/triage-assistant/internal/chat"
	"github.com/i474232898/triage-assistant/internal/common"
	"github.com/i474232898/triage-assistant/internal/dashboard"
	"github.com/i474232898/triage-assistant/internal/environment"
	"github.com/i474232898/triage-assistant/internal/settings"
)

var validate = validator.New()

// EnvironmentGateway is the data-access API exposed to the client.
type EnvironmentGateway interface {
	FetchAndStore(ctx context.Context, latitude, longitude float64) error
	GetStored(ctx context.Context) *environment.Snapshot
}

// ContextFormatter renders the stored snapshot for the chat model.
type ContextFormatter interface {
	EnvironmentContext(ctx context.Context) string
}

// Services bundles what the routes call into.
type Services struct {
	Gateway     EnvironmentGateway
	Context     ContextFormatter
	Dashboard   *dashboard.Dashboard
	Chats       *chat.Registry
	Preferences *settings.Preferences
	Log         logrus.FieldLogger

	ChatRateLimit float64
	ChatRateBurst int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) error {
	log := svc.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	chatLimit, err := limitPerClient(svc.ChatRateLimit, svc.ChatRateBurst, log)
	if err != nil {
		return err
	}

	v1 := app.Group("/api/v1")

	v1.Get("/environment", func(c *fiber.Ctx) error {
		snap := svc.Gateway.GetStored(c.UserContext())
		if snap == nil {
			return fiber.NewError(fiber.StatusNotFound, "no environmental data stored")
		}
		return c.JSON(snap)
	})

	v1.Post("/environment/refresh", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := svc.Gateway.FetchAndStore(c.UserContext(), q.lat, q.lon); err != nil {
			return upstreamError(err, "failed to fetch environmental data")
		}
		return c.JSON(svc.Gateway.GetStored(c.UserContext()))
	})

	v1.Get("/environment/context", func(c *fiber.Ctx) error {
		return c.SendString(svc.Context.EnvironmentContext(c.UserContext()))
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		view, err := svc.Dashboard.Load(c.UserContext())
		if err != nil {
			log.WithError(err).Debug("dashboard load degraded")
		}
		return c.JSON(view)
	})

	v1.Post("/dashboard/refresh", func(c *fiber.Ctx) error {
		view, err := svc.Dashboard.Refresh(c.UserContext())
		if err != nil {
			log.WithError(err).Debug("dashboard refresh degraded")
		}
		return c.JSON(view)
	})

	v1.Get("/chat/modes", func(c *fiber.Ctx) error {
		return c.JSON(chat.Modes)
	})

	v1.Post("/chat/sessions", func(c *fiber.Ctx) error {
		conv := svc.Chats.Create()
		return c.Status(fiber.StatusCreated).JSON(sessionResponse(conv))
	})

	v1.Get("/chat/sessions/:id", func(c *fiber.Ctx) error {
		conv, err := lookupSession(c, svc.Chats)
		if err != nil {
			return err
		}
		return c.JSON(sessionResponse(conv))
	})

	v1.Post("/chat/sessions/:id/messages", chatLimit, func(c *fiber.Ctx) error {
		conv, err := lookupSession(c, svc.Chats)
		if err != nil {
			return err
		}

		var req messageRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		mode, err := chat.ParseMode(req.Mode)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reply, err := conv.Send(c.UserContext(), req.Text, mode)
		if errors.Is(err, chat.ErrEmptyMessage) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			log.WithError(err).WithField("session", conv.ID).Error("chat reply failed")
		}

		return c.JSON(fiber.Map{
			"reply":    reply,
			"degraded": err != nil,
			"turns":    conv.Turns(),
		})
	})

	v1.Delete("/chat/sessions/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
		}
		if !svc.Chats.Delete(id) {
			return fiber.NewError(fiber.StatusNotFound, "chat session not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Delete("/chat/sessions/:id/messages", func(c *fiber.Ctx) error {
		conv, err := lookupSession(c, svc.Chats)
		if err != nil {
			return err
		}
		conv.Reset()
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/settings/theme", func(c *fiber.Ctx) error {
		return c.JSON(svc.Preferences.Theme())
	})

	v1.Post("/settings/theme/toggle", func(c *fiber.Ctx) error {
		return c.JSON(svc.Preferences.Toggle())
	})

	v1.Put("/settings/theme", func(c *fiber.Ctx) error {
		var req themeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(svc.Preferences.SetDarkMode(*req.DarkMode))
	})

	return nil
}

// coordinatesQuery holds the refresh query parameters.
type coordinatesQuery struct {
	Latitude  string `validate:"required,latitude"`
	Longitude string `validate:"required,longitude"`

	lat, lon float64
}

func parseCoordinatesQuery(c *fiber.Ctx) (coordinatesQuery, error) {
	q := coordinatesQuery{
		Latitude:  c.Query("latitude"),
		Longitude: c.Query("longitude"),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	var err error
	if q.lat, err = strconv.ParseFloat(q.Latitude, 64); err != nil {
		return q, err
	}
	if q.lon, err = strconv.ParseFloat(q.Longitude, 64); err != nil {
		return q, err
	}
	return q, nil
}

type messageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
	Mode string `json:"mode"`
}

type themeRequest struct {
	DarkMode *bool `json:"dark_mode" validate:"required"`
}

func lookupSession(c *fiber.Ctx, chats *chat.Registry) (*chat.Conversation, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	conv, ok := chats.Get(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "chat session not found")
	}
	return conv, nil
}

func sessionResponse(conv *chat.Conversation) fiber.Map {
	return fiber.Map{
		"id":    conv.ID,
		"turns": conv.Turns(),
	}
}

// upstreamError maps gateway and chat failures onto HTTP statuses.
func upstreamError(err error, msg string) error {
	switch {
	case errors.Is(err, common.ErrNetwork):
		return fiber.NewError(fiber.StatusBadGateway, msg+": upstream unavailable")
	case errors.Is(err, common.ErrDecode):
		return fiber.NewError(fiber.StatusBadGateway, msg+": malformed upstream payload")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, msg)
	}
}
