package handlers

import (
	applog "marketbay/internal/log"
	"marketbay/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	u, tok, err := h.Auth.Register(in.Email, in.Password)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": tok,
		"user":  fiber.Map{"id": u.ID, "email": u.Email, "role": u.Role},
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	u, tok, err := h.Auth.Login(in.Email, in.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return err
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{
		"token": tok,
		"user":  fiber.Map{"id": u.ID, "email": u.Email, "role": u.Role},
	})
}
