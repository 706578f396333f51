package middleware

import (
	"strings"

	"github.com/fathima-sithara/visa-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

const localIdentity = "identity"

// Authenticator resolves a bearer token to the calling identity.
type Authenticator interface {
	Authenticate(token string) (*services.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the request locals.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c, "Not authenticated")
		}
		id, err := auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			return unauthorized(c, "Invalid authentication credentials")
		}
		c.Locals(localIdentity, id)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, _ := c.Locals(localIdentity).(*services.Identity); id == nil || !id.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Admin privileges required",
			})
		}
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) string {
	if id, _ := c.Locals(localIdentity).(*services.Identity); id != nil {
		return id.UserID
	}
	return ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}
