package handlers

import (
	"github.com/chatterboxhq/chatterbox-backend/internal/httpx"
	"github.com/chatterboxhq/chatterbox-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if input.Name == "" || input.Username == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_fields", "Name, username, and password are required")
	}

	result, err := h.authService.Register(input)
	if err != nil {
		return httpx.BadRequest(c, "register_failed", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if input.Username == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_fields", "Username and password are required")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_credentials", err.Error())
	}

	return c.JSON(result)
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.authService.GetMe(userID)
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}

	return c.JSON(fiber.Map{
		"user": user.ToResponse(),
	})
}
