package ws

import (
	"log"
	"time"
)

// MessageSend is the send-message intent.
type MessageSend struct {
	ToUserID uint   `json:"to_user_id"`
	Body     string `json:"body"`
}

func (msg *MessageSend) GetType() string {
	return "message:send"
}

// Process runs the send flow:
//
//	append (durable, delivered=false) -> ledger increment -> attempt live
//	push to recipient; on success also push their fresh unread snapshot,
//	mark delivered and confirm delivery to the sender -> always echo the
//	message back to the sender.
//
// The increment happens before either unread push so a client reading its
// snapshot right after a message:new never sees a stale count. It also
// happens when the recipient is offline: the count must be waiting for them
// on their next connect.
func (msg *MessageSend) Process(ctx *MessageContext) error {
	stored, err := ctx.MessageService.Append(ctx.UserID, msg.ToUserID, msg.Body)
	if err != nil {
		// Nothing persisted, no counts touched; the caller reports the error
		// to the sender only.
		return err
	}

	if err := ctx.HistoryCache.Invalidate(ctx.UserID, msg.ToUserID); err != nil {
		log.Printf("Failed to invalidate history cache for %d<->%d: %v", ctx.UserID, msg.ToUserID, err)
	}

	if err := ctx.UnreadService.Increment(msg.ToUserID, ctx.UserID); err != nil {
		log.Printf("Failed to increment unread count for user %d from %d: %v", msg.ToUserID, ctx.UserID, err)
	}

	// Live delivery is attempted exactly once; a routing miss just leaves the
	// message undelivered until the recipient fetches history.
	if err := ctx.Gateway.SendToUser(msg.ToUserID, NewMessageEvent(stored.ToResponse())); err == nil {
		pushUnreadCounts(ctx, msg.ToUserID)

		if err := ctx.MessageService.MarkDelivered(stored.ID); err != nil {
			log.Printf("Failed to mark message %d delivered: %v", stored.ID, err)
		}
		if err := ctx.Gateway.SendToUser(ctx.UserID, MessageDeliveredEvent(stored.ID, time.Now())); err != nil {
			log.Printf("Failed to notify sender %d of delivery: %v", ctx.UserID, err)
		}
	}

	// Echo to the sender regardless of recipient reachability: this is the
	// client's confirmation that the message was persisted.
	if err := ctx.Gateway.SendToUser(ctx.UserID, NewMessageEvent(stored.ToResponse())); err != nil {
		log.Printf("Failed to echo message %d to sender %d: %v", stored.ID, ctx.UserID, err)
	}

	log.Printf("Message sent from %d to %d", ctx.UserID, msg.ToUserID)
	return nil
}

// pushUnreadCounts sends a user their current unread snapshot. Failures are
// logged, never propagated: the snapshot is re-sent on every relevant event
// and on connect.
func pushUnreadCounts(ctx *MessageContext, userID uint) {
	entries, err := ctx.UnreadService.CountsFor(userID)
	if err != nil {
		log.Printf("Failed to fetch unread counts for user %d: %v", userID, err)
		return
	}
	if err := ctx.Gateway.SendToUser(userID, UnreadCountsEvent(entries)); err != nil {
		log.Printf("Failed to push unread counts to user %d: %v", userID, err)
	}
}
