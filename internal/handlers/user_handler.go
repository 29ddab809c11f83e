package handlers

import (
	"github.com/chatterboxhq/chatterbox-backend/internal/httpx"
	"github.com/chatterboxhq/chatterbox-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns every other user with their live online status.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	users, err := h.userService.ListUsers(userID)
	if err != nil {
		return httpx.Internal(c, "list_users_failed")
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}
