package middleware

import (
	"log"
	"strings"

	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware resolves the caller's identity. The Gateway normally
// forwards it as X-User-ID / X-User-Email headers; when those are absent and
// an X-Session-Token is present, the token is validated against the external
// auth service instead. Identity is re-derived on every request — nothing is
// cached in-process.
//
// Anonymous requests pass through untouched; secured operations enforce
// authentication and role in their own guards.
func UserContextMiddleware(authClient *services.AuthServiceClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		userEmail := strings.TrimSpace(c.Get("X-User-Email"))

		if userID == "" && authClient != nil {
			if token := c.Get("X-Session-Token"); token != "" {
				session, err := authClient.ValidateSession(token)
				if err != nil {
					log.Printf("❌ [USER_CTX] session validation failed on %s: %v", c.Path(), err)
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"ok":      false,
						"message": "invalid session",
					})
				}
				userID = session.UserID
				userEmail = session.Email
			}
		}

		// Attach to ctx for handlers
		if userID != "" {
			c.Locals("user_id", userID)
			c.Locals("user_email", userEmail)
		}

		return c.Next()
	}
}
