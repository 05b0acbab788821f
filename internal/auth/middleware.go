package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalSessionID is the fiber locals key holding the caller's session id.
const LocalSessionID = "session_id"

// SessionMiddleware validates the bearer token and stores the session id in
// locals. Websocket clients that cannot set headers may pass ?token= instead.
func SessionMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := parseToken(token, secretBytes)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(LocalSessionID, claims.SessionID)
		return c.Next()
	}
}

// SessionID reads what SessionMiddleware stored.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalSessionID).(string)
	return id
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
