package ws

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/chatterboxhq/chatterbox-backend/internal/cache"
	"github.com/chatterboxhq/chatterbox-backend/internal/service"
)

// Gateway is the dispatch surface the intent processors push through.
// *Hub implements it; tests substitute a recording fake.
type Gateway interface {
	SendToUser(userID uint, payload interface{}) error
	BroadcastExcept(excludeUserID uint, payload interface{})
	IsOnline(userID uint) bool
}

// ClientWriter is the originating connection's own write path. It is the
// locked, deadline-bounded writer of *ClientConnection; replies that must hit
// exactly this connection (pong, error events) go through it rather than
// through a userID lookup that could route to a newer registration.
type ClientWriter interface {
	Send(payload interface{}) error
}

// MessageContext provides all dependencies needed for intent processing.
type MessageContext struct {
	UserID         uint
	Client         ClientWriter
	Gateway        Gateway
	Typing         *TypingTracker
	MessageService *service.MessageService
	UnreadService  *service.UnreadService
	HistoryCache   *cache.HistoryCache
}

// Message is the interface all inbound intent types implement.
type Message interface {
	GetType() string
	Process(ctx *MessageContext) error
}

// SerializedMessage is the wire format wrapper.
type SerializedMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorResponse is sent when intent processing fails. Only the originating
// connection ever sees it.
type ErrorResponse struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func ToJson(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func FromJson(jsonBytes []byte, msg Message) error {
	// Intents like ping carry no payload at all.
	if len(jsonBytes) == 0 {
		return nil
	}
	return json.Unmarshal(jsonBytes, msg)
}

func CreateMessage(msgType string, typeRegistry map[string]reflect.Type) (Message, error) {
	msgTypeReflect, ok := typeRegistry[msgType]
	if !ok {
		return nil, fmt.Errorf("unknown message type: %s", msgType)
	}

	instance := reflect.New(msgTypeReflect).Interface()
	return instance.(Message), nil
}

// SendError reports a failure to the originating connection only, through its
// locked write path.
func SendError(client ClientWriter, code, message, details string) error {
	errResp := ErrorResponse{
		Type:    "error",
		Error:   message,
		Code:    code,
		Details: details,
	}
	return client.Send(errResp)
}
