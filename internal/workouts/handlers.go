package workouts

import (
	"errors"

	"backend-mapty/internal/auth"
	"backend-mapty/internal/session"
	"backend-mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Submission
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		rec, err := svc.Submit(c.UserContext(), auth.SessionID(c), req)
		if err != nil {
			return submitError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec.View())
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		records, err := svc.List(c.UserContext(), auth.SessionID(c))
		if err != nil {
			return storeError(err)
		}
		return c.JSON(ListResponse{Items: workout.Views(records), Count: len(records)})
	})

	r.Delete("/", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Clear(c.UserContext(), auth.SessionID(c)); err != nil {
			return storeError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		rec, err := svc.Get(c.UserContext(), auth.SessionID(c), c.Params("id"))
		if errors.Is(err, session.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "workout not found")
		}
		if err != nil {
			return storeError(err)
		}
		return c.JSON(rec.View())
	})

	r.Post("/:id/select", authMiddleware, func(c *fiber.Ctx) error {
		rec, err := svc.Select(c.UserContext(), auth.SessionID(c), c.Params("id"))
		if errors.Is(err, session.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "workout not found")
		}
		if err != nil {
			return storeError(err)
		}
		return c.JSON(rec.View())
	})
}

func submitError(err error) error {
	switch {
	case errors.Is(err, workout.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, workout.AlertMessage)
	case errors.Is(err, ErrUnknownType), errors.Is(err, ErrMissingCoordinates):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return storeError(err)
	}
}

func storeError(err error) error {
	if errors.Is(err, session.ErrUnavailable) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
