package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/view"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, coord *weather.Coordinator) {
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(newStateResponse(coord))
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		pref, ok := view.ParseThemePreference(c.Query("theme"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "theme must be light, system or dark")
		}
		d := view.Build(coord.State(), coord.Locations())
		d.ThemePreference = pref
		return c.JSON(d)
	})

	v1.Post("/selection", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := coord.Select(req.ID); err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(newStateResponse(coord))
	})

	v1.Post("/selection/geo", func(c *fiber.Ctx) error {
		var override geo.Locator
		if len(c.Body()) > 0 {
			raw := map[string]any{}
			if err := c.BodyParser(&raw); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid position report")
			}
			loc, err := geo.DecodeReport(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			override = loc
		}
		coord.SelectGeo(override)
		return c.Status(fiber.StatusAccepted).JSON(newStateResponse(coord))
	})

	v1.Post("/locations", func(c *fiber.Ctx) error {
		var req addLocationRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		loc, err := coord.AddByQuery(c.UserContext(), req.Query)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"location": loc,
			"state":    newStateResponse(coord),
		})
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		suggestions, err := coord.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"suggestions": suggestions})
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		refreshed := coord.Refresh()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"refreshed": refreshed,
			"state":     newStateResponse(coord),
		})
	})
}

// stateResponse is the whole state surface the UI renders.
type stateResponse struct {
	weather.State
	Locations []weather.Location `json:"locations"`
}

func newStateResponse(coord *weather.Coordinator) stateResponse {
	return stateResponse{State: coord.State(), Locations: coord.Locations()}
}

type selectRequest struct {
	ID string `json:"id" validate:"required"`
}

type addLocationRequest struct {
	Query string `json:"query" validate:"required,max=128"`
}

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// toFiberError maps domain failures to HTTP statuses, keeping the provider's message.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, weather.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrUnknownLocation), errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrClosed):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, weather.ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, weather.ErrUnauthorized), errors.Is(err, weather.ErrNetwork), errors.Is(err, weather.ErrMalformed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
