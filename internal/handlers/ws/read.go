package ws

import "github.com/chatterboxhq/chatterbox-backend/internal/service"

// MessageMarkRead acknowledges a conversation as read. Marking a conversation
// with no ledger row is a defined no-op that still succeeds and still pushes
// a fresh snapshot back.
type MessageMarkRead struct {
	ConversationWith uint `json:"conversation_with"`
}

func (msg *MessageMarkRead) GetType() string {
	return "messages:markAsRead"
}

func (msg *MessageMarkRead) Process(ctx *MessageContext) error {
	// A missing peer id would upsert a junk ledger row keyed on zero.
	if msg.ConversationWith == 0 {
		return service.ErrMissingConversation
	}

	if err := ctx.UnreadService.MarkRead(ctx.UserID, msg.ConversationWith); err != nil {
		return err
	}

	pushUnreadCounts(ctx, ctx.UserID)
	return nil
}
