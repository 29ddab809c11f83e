package ws

import (
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
)

// Outbound event types (server -> client).
const (
	EventUserOnline       = "user:online"
	EventUserOffline      = "user:offline"
	EventNewMessage       = "message:new"
	EventMessageDelivered = "message:delivered"
	EventTypingStart      = "typing:start"
	EventTypingStop       = "typing:stop"
	EventUnreadCounts     = "unreadCounts:updated"
)

// Event is the outbound wire envelope, mirroring SerializedMessage on the
// inbound side.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type userPayload struct {
	UserID uint `json:"user_id"`
}

type newMessagePayload struct {
	Message models.MessageResponse `json:"message"`
}

type deliveredPayload struct {
	MessageID uint      `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
}

type unreadCountsPayload struct {
	UnreadCounts []models.UnreadCountEntry `json:"unread_counts"`
}

func UserOnlineEvent(userID uint) Event {
	return Event{Type: EventUserOnline, Payload: userPayload{UserID: userID}}
}

func UserOfflineEvent(userID uint) Event {
	return Event{Type: EventUserOffline, Payload: userPayload{UserID: userID}}
}

func NewMessageEvent(message models.MessageResponse) Event {
	return Event{Type: EventNewMessage, Payload: newMessagePayload{Message: message}}
}

func MessageDeliveredEvent(messageID uint, ts time.Time) Event {
	return Event{Type: EventMessageDelivered, Payload: deliveredPayload{MessageID: messageID, Timestamp: ts}}
}

func TypingStartEvent(userID uint) Event {
	return Event{Type: EventTypingStart, Payload: userPayload{UserID: userID}}
}

func TypingStopEvent(userID uint) Event {
	return Event{Type: EventTypingStop, Payload: userPayload{UserID: userID}}
}

func UnreadCountsEvent(entries []models.UnreadCountEntry) Event {
	if entries == nil {
		entries = []models.UnreadCountEntry{}
	}
	return Event{Type: EventUnreadCounts, Payload: unreadCountsPayload{UnreadCounts: entries}}
}
