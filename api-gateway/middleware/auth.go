package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/luckyfood/stockpilot/pkg/auth"
)

// SessionCookie is the cookie carrying the dashboard session token.
const SessionCookie = "stockpilot_session"

// sessionToken pulls the token from the cookie or the Authorization
// header. The cookie is the browser path; the header serves API clients.
func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthMiddleware validates session tokens minted after the gate accepted
// the principal.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid session",
			})
		}

		// Store user info in context
		c.Locals("uid", claims.UID)
		c.Locals("email", claims.Email)
		c.Locals("display_name", claims.DisplayName)

		// Add user info to headers for the backend service
		c.Request().Header.Set("X-User-Id", claims.UID)
		c.Request().Header.Set("X-User-Email", claims.Email)

		return c.Next()
	}
}

// OptionalAuthMiddleware validates the token if present but lets
// anonymous requests through.
func OptionalAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Next()
		}

		if claims, err := auth.ValidateToken(token); err == nil {
			c.Locals("uid", claims.UID)
			c.Locals("email", claims.Email)
			c.Locals("display_name", claims.DisplayName)
		}
		return c.Next()
	}
}
