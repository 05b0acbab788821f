package auth

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		token, err := svc.Issue()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(token)
	})

	r.Get("/verify", SessionMiddleware(string(svc.secret)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"session_id": SessionID(c)})
	})
}
