package ws

import "github.com/chatterboxhq/chatterbox-backend/internal/service"

// MessageTypingStart signals the sender started composing a message to a
// recipient. The indicator is forwarded only if the recipient is online;
// typing events are never queued.
type MessageTypingStart struct {
	ToUserID uint `json:"to_user_id"`
}

func (msg *MessageTypingStart) GetType() string {
	return "typing:start"
}

func (msg *MessageTypingStart) Process(ctx *MessageContext) error {
	if msg.ToUserID == 0 {
		return service.ErrMissingRecipient
	}

	ctx.Typing.Start(msg.ToUserID, ctx.UserID)

	// Routing miss is expected and silent.
	_ = ctx.Gateway.SendToUser(msg.ToUserID, TypingStartEvent(ctx.UserID))
	return nil
}

// MessageTypingStop signals the sender stopped composing.
type MessageTypingStop struct {
	ToUserID uint `json:"to_user_id"`
}

func (msg *MessageTypingStop) GetType() string {
	return "typing:stop"
}

func (msg *MessageTypingStop) Process(ctx *MessageContext) error {
	if msg.ToUserID == 0 {
		return service.ErrMissingRecipient
	}

	ctx.Typing.Stop(msg.ToUserID, ctx.UserID)

	_ = ctx.Gateway.SendToUser(msg.ToUserID, TypingStopEvent(ctx.UserID))
	return nil
}
