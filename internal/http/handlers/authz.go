package handlers

import (
	"strings"

	applog "marketbay/internal/log"
	"marketbay/internal/services"

	"github.com/gofiber/fiber/v2"
)

// token looks in the x-auth-token header first (what the SPA sends),
// then falls back to a standard bearer token.
func token(c *fiber.Ctx) string {
	if t := c.Get("x-auth-token"); t != "" {
		return t
	}
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAuth verifies the caller's token and stashes the identity in
// request locals. The workflow layers trust this identity as-is.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := token(c)
		if t == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No token, authorization denied",
			})
		}
		id, err := auth.Verify(t)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token is not valid",
			})
		}
		c.Locals("identity", id)
		return c.Next()
	}
}

// RequireRoles gates a route to the given roles; must run after
// RequireAuth.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := Identity(c)
		if id == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: user role not found",
			})
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"role": id.Role})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied: role '" + id.Role + "' is not authorized for this action",
		})
	}
}

// Identity returns the verified caller, or nil on unauthenticated routes.
func Identity(c *fiber.Ctx) *services.Identity {
	id, _ := c.Locals("identity").(*services.Identity)
	return id
}
