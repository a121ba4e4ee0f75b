// Package memory is an in-process Transport used by tests and the local TUI
// demo. It records every sent, edited and deleted message and lets callers
// inject reaction events and queued text replies.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rshade/reactpage/internal/render"
	"github.com/rshade/reactpage/internal/transport"
)

// reactionBuffer bounds the per-subscriber event channel so a stalled
// consumer cannot block the injecting side.
const reactionBuffer = 16

// Message is the recorded state of one sent message.
type Message struct {
	ChannelID string
	Artifact  *render.Artifact
	Reactions []string
	EditCount int
	Deleted   bool
}

// Transport is the in-memory transport. The zero value is not usable; call New.
type Transport struct {
	mu sync.Mutex

	nextID      int
	messages    map[transport.MessageID]*Message
	subscribers map[transport.MessageID]chan transport.ReactionEvent
	inbox       map[string]chan string // channelID/userID -> pending texts

	perms transport.Permissions

	sendErr error
	editErr error
}

// New creates an empty in-memory transport with full permissions.
func New() *Transport {
	return &Transport{
		messages:    make(map[transport.MessageID]*Message),
		subscribers: make(map[transport.MessageID]chan transport.ReactionEvent),
		inbox:       make(map[string]chan string),
		perms: transport.Permissions{
			CanSend:           true,
			CanAddReactions:   true,
			CanManageMessages: true,
		},
	}
}

// SetPermissions overrides the permissions reported for every channel.
func (t *Transport) SetPermissions(p transport.Permissions) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.perms = p
}

// FailSend makes subsequent SendMessage calls fail with err (nil clears it).
func (t *Transport) FailSend(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

// FailEdit makes subsequent EditMessage calls fail with err (nil clears it).
func (t *Transport) FailEdit(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.editErr = err
}

// SendMessage records a new message and returns its ID.
func (t *Transport) SendMessage(_ context.Context, channelID string, art *render.Artifact) (transport.MessageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return "", t.sendErr
	}
	t.nextID++
	id := transport.MessageID(fmt.Sprintf("msg-%d", t.nextID))
	t.messages[id] = &Message{ChannelID: channelID, Artifact: art.Clone()}
	return id, nil
}

// EditMessage replaces the recorded artifact and bumps the edit counter.
func (t *Transport) EditMessage(_ context.Context, _ string, id transport.MessageID, art *render.Artifact) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.editErr != nil {
		return t.editErr
	}
	msg, ok := t.messages[id]
	if !ok || msg.Deleted {
		return fmt.Errorf("edit: unknown message %q", id)
	}
	msg.Artifact = art.Clone()
	msg.EditCount++
	return nil
}

// DeleteMessage marks the message deleted.
func (t *Transport) DeleteMessage(_ context.Context, _ string, id transport.MessageID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.messages[id]
	if !ok {
		return fmt.Errorf("delete: unknown message %q", id)
	}
	msg.Deleted = true
	return nil
}

// AddReactions appends reaction controls to the recorded message.
func (t *Transport) AddReactions(_ context.Context, _ string, id transport.MessageID, emojis []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.messages[id]
	if !ok || msg.Deleted {
		return fmt.Errorf("react: unknown message %q", id)
	}
	msg.Reactions = append(msg.Reactions, emojis...)
	return nil
}

// ClearReactions removes all recorded reaction controls.
func (t *Transport) ClearReactions(_ context.Context, _ string, id transport.MessageID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.messages[id]
	if !ok {
		return fmt.Errorf("clear reactions: unknown message %q", id)
	}
	msg.Reactions = nil
	return nil
}

// SubscribeReactions registers the single reaction listener for a message.
// The cancel function detaches it and closes the channel.
func (t *Transport) SubscribeReactions(_ string, id transport.MessageID) (<-chan transport.ReactionEvent, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan transport.ReactionEvent, reactionBuffer)
	t.subscribers[id] = ch
	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if cur, ok := t.subscribers[id]; ok && cur == ch {
			delete(t.subscribers, id)
			close(ch)
		}
	}
}

// AwaitTextMessage blocks until PushText supplies a message from userID in
// channelID, the timeout elapses, or ctx is canceled.
func (t *Transport) AwaitTextMessage(ctx context.Context, channelID, userID string, timeout time.Duration) (string, error) {
	ch := t.textChannel(channelID, userID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case text := <-ch:
		return text, nil
	case <-timer.C:
		return "", transport.ErrAwaitTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Permissions returns the configured channel permissions.
func (t *Transport) Permissions(string) transport.Permissions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.perms
}

// React injects a reaction event for the message's subscriber, if any.
// Returns false when no listener is attached or its buffer is full. The send
// is non-blocking and stays under the lock so it cannot race a concurrent
// cancel closing the channel.
func (t *Transport) React(id transport.MessageID, emoji, userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.subscribers[id]
	if !ok {
		return false
	}
	select {
	case ch <- transport.ReactionEvent{Emoji: emoji, UserID: userID, Timestamp: time.Now()}:
		return true
	default:
		return false
	}
}

// PushText queues a text message from userID in channelID for a pending or
// future AwaitTextMessage call.
func (t *Transport) PushText(channelID, userID, text string) {
	ch := t.textChannel(channelID, userID)
	select {
	case ch <- text:
	default:
	}
}

// Subscribed reports whether a reaction listener is attached to the message.
func (t *Transport) Subscribed(id transport.MessageID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.subscribers[id]
	return ok
}

// Get returns a copy of the recorded message state.
func (t *Transport) Get(id transport.MessageID) (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.messages[id]
	if !ok {
		return Message{}, false
	}
	return *msg, true
}

// LastID returns the ID of the most recently sent message.
func (t *Transport) LastID() transport.MessageID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return transport.MessageID(fmt.Sprintf("msg-%d", t.nextID))
}

func (t *Transport) textChannel(channelID, userID string) chan string {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := channelID + "/" + userID
	ch, ok := t.inbox[key]
	if !ok {
		ch = make(chan string, reactionBuffer)
		t.inbox[key] = ch
	}
	return ch
}
