package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/domain"
	applog "github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/log"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

// WithPrincipal resolves the sid cookie into a Principal and stashes it in
// locals. Routes stay open; capability checks happen downstream.
func WithPrincipal(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if p, err := auth.CurrentPrincipal(sid); err == nil && p != nil {
				c.Locals("principal", p)
			}
		}
		return c.Next()
	}
}

// RequirePrincipal rejects anonymous callers with 403 JSON.
func RequirePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if principal(c) == nil {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "authentication required"})
		}
		return c.Next()
	}
}

func principal(c *fiber.Ctx) *domain.Principal {
	p, _ := c.Locals("principal").(*domain.Principal)
	return p
}
