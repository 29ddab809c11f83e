package handlers

import (
	"strconv"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/cache"
	"github.com/chatterboxhq/chatterbox-backend/internal/httpx"
	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"github.com/chatterboxhq/chatterbox-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// ChatHandler mirrors the socket intents for clients that poll over HTTP
// instead of holding a connection: history fetch, mark-as-read, and the
// unread-count summaries.
type ChatHandler struct {
	messageService *service.MessageService
	unreadService  *service.UnreadService
	historyCache   *cache.HistoryCache
}

func NewChatHandler(messageService *service.MessageService, unreadService *service.UnreadService, historyCache *cache.HistoryCache) *ChatHandler {
	return &ChatHandler{
		messageService: messageService,
		unreadService:  unreadService,
		historyCache:   historyCache,
	}
}

// GetMessages returns chronological history with the peer named in the path.
// Query params: limit (default 50, max 100), before (RFC3339 timestamp
// cursor for older pages).
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	peerID, err := parseUserIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user id")
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	var before *time.Time
	if beforeStr := c.Query("before"); beforeStr != "" {
		t, err := time.Parse(time.RFC3339, beforeStr)
		if err != nil {
			return httpx.BadRequest(c, "invalid_cursor", "Invalid before timestamp")
		}
		before = &t
	}

	// First page only: cursored requests always go to the store.
	if before == nil {
		if cached, ok := h.historyCache.Get(userID, peerID); ok {
			if page, ok := cachedPage(cached, limit); ok {
				return c.JSON(messagesPayload(page))
			}
		}
	}

	messages, err := h.messageService.History(userID, peerID, limit, before)
	if err != nil {
		return httpx.Internal(c, "fetch_messages_failed")
	}

	if before == nil && len(messages) > 0 {
		_ = h.historyCache.Set(userID, peerID, messages)
	}

	return c.JSON(messagesPayload(messages))
}

// MarkConversationRead resets the unread counter for the conversation with
// the peer in the path. Succeeds even when no ledger row exists yet.
func (h *ChatHandler) MarkConversationRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	peerID, err := parseUserIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user id")
	}

	if err := h.unreadService.MarkRead(userID, peerID); err != nil {
		return httpx.Internal(c, "mark_read_failed")
	}

	return c.JSON(fiber.Map{
		"status": "success",
	})
}

func (h *ChatHandler) GetUnreadCounts(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	entries, err := h.unreadService.CountsFor(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_unread_counts_failed")
	}

	return c.JSON(fiber.Map{
		"unread_counts": entries,
	})
}

func (h *ChatHandler) GetTotalUnreadCount(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	total, err := h.unreadService.TotalFor(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_unread_total_failed")
	}

	return c.JSON(fiber.Map{
		"total_count": total,
	})
}

// GetConversations lists the user's conversations with last message and
// unread count, most recent first.
func (h *ChatHandler) GetConversations(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	rows, err := h.messageService.ListConversations(userID, limit)
	if err != nil {
		return httpx.Internal(c, "fetch_conversations_failed")
	}

	return c.JSON(fiber.Map{
		"conversations": rows,
		"count":         len(rows),
	})
}

func parseUserIDParam(c *fiber.Ctx) (uint, error) {
	id64, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil || id64 == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id64), nil
}

// cachedPage serves a request from the cached first page only when the page
// actually covers the requested size. A cached page smaller than the request
// may just be a smaller earlier fetch, so the store must answer.
func cachedPage(cached []models.Message, limit int) ([]models.Message, bool) {
	if len(cached) < limit {
		return nil, false
	}
	return cached[len(cached)-limit:], true
}

func messagesPayload(messages []models.Message) fiber.Map {
	responses := make([]models.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, msg.ToResponse())
	}
	return fiber.Map{
		"messages": responses,
		"count":    len(responses),
	}
}
