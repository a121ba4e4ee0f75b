// Package discord adapts a discordgo session to the transport contract.
// Artifacts map onto message embeds; reaction events come from the gateway's
// MessageReactionAdd stream with the bot's own reactions filtered out.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/rshade/reactpage/internal/render"
	"github.com/rshade/reactpage/internal/transport"
)

// Transport is the discordgo-backed transport.
type Transport struct {
	session *discordgo.Session
	log     zerolog.Logger
}

// New wraps an open discordgo session.
func New(session *discordgo.Session, log zerolog.Logger) *Transport {
	return &Transport{session: session, log: log}
}

// SendMessage posts the artifact as an embed.
func (t *Transport) SendMessage(_ context.Context, channelID string, art *render.Artifact) (transport.MessageID, error) {
	msg, err := t.session.ChannelMessageSendEmbed(channelID, toEmbed(art))
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}
	return transport.MessageID(msg.ID), nil
}

// EditMessage replaces the embed on an existing message.
func (t *Transport) EditMessage(_ context.Context, channelID string, id transport.MessageID, art *render.Artifact) error {
	if _, err := t.session.ChannelMessageEditEmbed(channelID, string(id), toEmbed(art)); err != nil {
		return fmt.Errorf("editing message: %w", err)
	}
	return nil
}

// DeleteMessage removes the message.
func (t *Transport) DeleteMessage(_ context.Context, channelID string, id transport.MessageID) error {
	if err := t.session.ChannelMessageDelete(channelID, string(id)); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	return nil
}

// AddReactions adds the navigation controls in order. Discord renders
// reactions in the order they were added, so ordering matters here.
func (t *Transport) AddReactions(_ context.Context, channelID string, id transport.MessageID, emojis []string) error {
	for _, emoji := range emojis {
		if err := t.session.MessageReactionAdd(channelID, string(id), emoji); err != nil {
			return fmt.Errorf("adding reaction %q: %w", emoji, err)
		}
	}
	return nil
}

// ClearReactions strips every reaction from the message.
func (t *Transport) ClearReactions(_ context.Context, channelID string, id transport.MessageID) error {
	if err := t.session.MessageReactionsRemoveAll(channelID, string(id)); err != nil {
		return fmt.Errorf("clearing reactions: %w", err)
	}
	return nil
}

// reactionSink serializes event delivery against subscription teardown.
// discordgo runs each gateway handler on its own goroutine and removing a
// handler does not wait for in-flight invocations, so a bare close of the
// event channel could race a handler mid-send.
type reactionSink struct {
	mu     sync.Mutex
	ch     chan transport.ReactionEvent
	closed bool
}

func newReactionSink(buffer int) *reactionSink {
	return &reactionSink{ch: make(chan transport.ReactionEvent, buffer)}
}

// send delivers ev without blocking. Returns false when the sink is closed
// or its buffer is full.
func (k *reactionSink) send(ev transport.ReactionEvent) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return false
	}
	select {
	case k.ch <- ev:
		return true
	default:
		return false
	}
}

// close marks the sink closed and closes the channel. Safe to call more than
// once; sends attempted afterwards are dropped.
func (k *reactionSink) close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return
	}
	k.closed = true
	close(k.ch)
}

// SubscribeReactions attaches a gateway handler for reaction adds on one
// message. Reactions from the bot itself are dropped to avoid feedback loops
// from the controls the engine adds.
func (t *Transport) SubscribeReactions(channelID string, id transport.MessageID) (<-chan transport.ReactionEvent, func()) {
	sink := newReactionSink(16)

	remove := t.session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r == nil || r.MessageID != string(id) || r.ChannelID != channelID {
			return
		}
		if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
			return
		}
		ev := transport.ReactionEvent{
			Emoji:     r.Emoji.Name,
			UserID:    r.UserID,
			Timestamp: time.Now(),
		}
		if !sink.send(ev) {
			t.log.Warn().Str("message", string(id)).Str("emoji", ev.Emoji).
				Msg("reaction event dropped, subscriber closed or buffer full")
		}
	})

	return sink.ch, func() {
		remove()
		sink.close()
	}
}

// AwaitTextMessage waits for the next message from userID in channelID.
func (t *Transport) AwaitTextMessage(ctx context.Context, channelID, userID string, timeout time.Duration) (string, error) {
	texts := make(chan string, 1)
	remove := t.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.ChannelID != channelID || m.Author == nil || m.Author.ID != userID {
			return
		}
		select {
		case texts <- m.Content:
		default:
		}
	})
	defer remove()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case text := <-texts:
		return text, nil
	case <-timer.C:
		return "", transport.ErrAwaitTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Permissions resolves the bot's channel permissions. On lookup failure the
// zero Permissions is returned, which fails build verification up front
// rather than midway through a session.
func (t *Transport) Permissions(channelID string) transport.Permissions {
	var userID string
	if t.session.State != nil && t.session.State.User != nil {
		userID = t.session.State.User.ID
	}
	perms, err := t.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		t.log.Warn().Err(err).Str("channel", channelID).Msg("could not resolve channel permissions")
		return transport.Permissions{}
	}
	return transport.Permissions{
		CanSend:           perms&discordgo.PermissionSendMessages != 0,
		CanAddReactions:   perms&discordgo.PermissionAddReactions != 0,
		CanManageMessages: perms&discordgo.PermissionManageMessages != 0,
	}
}

func toEmbed(art *render.Artifact) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       art.Title,
		Description: art.Description,
		Color:       art.Color,
	}
	for _, f := range art.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if art.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: art.Footer}
	}
	return embed
}
