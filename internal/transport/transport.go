// Package transport defines the narrow messaging capability the pagination
// engine consumes. The engine never owns channel or message resources; it
// holds a Transport reference and a MessageID and delegates every network
// concern to the implementation.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/rshade/reactpage/internal/render"
)

// MessageID identifies a sent message within its channel.
type MessageID string

// ReactionEvent is one reaction added to a subscribed message. Events are
// transient: produced by the transport, consumed once by the session router.
type ReactionEvent struct {
	Emoji     string
	UserID    string
	Timestamp time.Time
}

// Permissions reports what the transport may do in a channel. The engine's
// build verification requires CanSend and CanAddReactions, and
// CanManageMessages only when a delete control is bound.
type Permissions struct {
	CanSend           bool
	CanAddReactions   bool
	CanManageMessages bool
}

// ErrAwaitTimeout is returned by AwaitTextMessage when no matching message
// arrives within the deadline.
var ErrAwaitTimeout = errors.New("timed out waiting for a text message")

// Transport is the messaging backend contract.
//
// SubscribeReactions returns a receive channel of reaction events for one
// message plus a cancel function; calling cancel detaches the listener and
// eventually closes the channel. All other operations are synchronous and
// honor ctx cancellation where the backend allows it.
type Transport interface {
	SendMessage(ctx context.Context, channelID string, art *render.Artifact) (MessageID, error)
	EditMessage(ctx context.Context, channelID string, id MessageID, art *render.Artifact) error
	DeleteMessage(ctx context.Context, channelID string, id MessageID) error
	AddReactions(ctx context.Context, channelID string, id MessageID, emojis []string) error
	ClearReactions(ctx context.Context, channelID string, id MessageID) error
	SubscribeReactions(channelID string, id MessageID) (<-chan ReactionEvent, func())
	AwaitTextMessage(ctx context.Context, channelID, userID string, timeout time.Duration) (string, error)
	Permissions(channelID string) Permissions
}

// SendText sends a plain-text message through t by wrapping the text in a
// description-only artifact. Used for prompt messages.
func SendText(ctx context.Context, t Transport, channelID, text string) (MessageID, error) {
	return t.SendMessage(ctx, channelID, &render.Artifact{Description: text})
}
