package handlers

import (
	"errors"
	"log"
	"os"
	"sync"

	"github.com/chatterboxhq/chatterbox-backend/internal/cache"
	"github.com/chatterboxhq/chatterbox-backend/internal/handlers/ws"
	"github.com/chatterboxhq/chatterbox-backend/internal/service"
	"github.com/gofiber/websocket/v2"
)

type WebSocketHandler struct {
	messageService *service.MessageService
	unreadService  *service.UnreadService
	hub            *ws.Hub
	typing         *ws.TypingTracker
	presenceCache  *cache.PresenceCache
	historyCache   *cache.HistoryCache
}

func NewWebSocketHandler(messageService *service.MessageService, unreadService *service.UnreadService, presenceCache *cache.PresenceCache, historyCache *cache.HistoryCache) *WebSocketHandler {
	return &WebSocketHandler{
		messageService: messageService,
		unreadService:  unreadService,
		hub:            ws.NewHub(),
		typing:         ws.NewTypingTracker(),
		presenceCache:  presenceCache,
		historyCache:   historyCache,
	}
}

// GetHub exposes the routing table to the HTTP layer (user listing needs
// online status).
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

// HandleWebSocket is the per-connection session loop. The route's auth
// middleware has already verified the credential and rejected the upgrade if
// it was missing or invalid, so by the time this runs the session is
// authenticated and userID is in Locals.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	client := h.hub.Register(userID, c)

	// Cleanup must run exactly once even if the transport and the read loop
	// both signal a close.
	var closeOnce sync.Once
	closeSession := func() {
		closeOnce.Do(func() {
			h.hub.Unregister(client)

			// Synthetic typing:stop so nobody keeps seeing a stale indicator
			// for a user who vanished mid-type.
			for _, recipientID := range h.typing.ClearAllFor(userID) {
				if err := h.hub.SendToUser(recipientID, ws.TypingStopEvent(userID)); err != nil && !errors.Is(err, ws.ErrNotConnected) {
					log.Printf("Failed to send typing stop for user %d to %d: %v", userID, recipientID, err)
				}
			}

			if err := h.presenceCache.SetOffline(userID); err != nil {
				log.Printf("Failed to set user %d offline in cache: %v", userID, err)
			}

			h.hub.BroadcastExcept(userID, ws.UserOfflineEvent(userID))
			log.Printf("User %d disconnected from WebSocket", userID)
		})
	}
	defer closeSession()

	h.hub.BroadcastExcept(userID, ws.UserOnlineEvent(userID))

	if err := h.presenceCache.SetOnline(userID); err != nil {
		log.Printf("Failed to set user %d online in cache: %v", userID, err)
	}

	ctx := &ws.MessageContext{
		UserID:         userID,
		Client:         client,
		Gateway:        h.hub,
		Typing:         h.typing,
		MessageService: h.messageService,
		UnreadService:  h.unreadService,
		HistoryCache:   h.historyCache,
	}

	// Initial unread snapshot for this connection.
	if entries, err := h.unreadService.CountsFor(userID); err != nil {
		log.Printf("Failed to fetch initial unread counts for user %d: %v", userID, err)
	} else if err := h.hub.SendToUser(userID, ws.UnreadCountsEvent(entries)); err != nil {
		log.Printf("Failed to send initial unread counts to user %d: %v", userID, err)
	}

	log.Printf("User %d connected via WebSocket", userID)

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%d frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			ws.SendError(client, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
			ws.SendError(client, errorCode(err), "Failed to process message", err.Error())
		}
	}
}

// errorCode maps processing failures to client-facing codes so the client can
// tell a rejected payload from a backend fault.
func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyBody),
		errors.Is(err, service.ErrMissingRecipient),
		errors.Is(err, service.ErrMissingConversation):
		return "validation_error"
	default:
		return "processing_failed"
	}
}
