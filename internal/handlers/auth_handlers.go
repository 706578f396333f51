package handlers

import (
	"github.com/fathima-sithara/visa-service/internal/middleware"
	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if valid, err := h.parse(c, &req); !valid {
		return err
	}
	tokens, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, tokens, "User registered successfully")
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if valid, err := h.parse(c, &req); !valid {
		return err
	}
	tokens, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, tokens, "Login successful")
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	user, err := h.auth.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, user, "Profile retrieved successfully")
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req models.ProfileUpdate
	if valid, err := h.parse(c, &req); !valid {
		return err
	}
	if err := h.auth.UpdateProfile(c.UserContext(), middleware.UserID(c), req); err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "Profile updated successfully")
}
