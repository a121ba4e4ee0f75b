package discord

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/reactpage/internal/render"
	"github.com/rshade/reactpage/internal/transport"
)

func TestReactionSink_SendRacingClose(t *testing.T) {
	// Gateway handlers run on their own goroutines and may still be mid-send
	// when the subscription is canceled; the sink must drop those sends
	// instead of panicking on a closed channel.
	for i := 0; i < 200; i++ {
		sink := newReactionSink(16)

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					sink.send(transport.ReactionEvent{Emoji: "▶", UserID: "u1"})
				}
			}()
		}
		sink.close()
		wg.Wait()

		for range sink.ch {
			// Drain whatever landed before the close.
		}
	}
}

func TestReactionSink_Delivery(t *testing.T) {
	sink := newReactionSink(1)

	require.True(t, sink.send(transport.ReactionEvent{Emoji: "▶", UserID: "u1"}))
	assert.False(t, sink.send(transport.ReactionEvent{Emoji: "◀", UserID: "u1"}), "full buffer drops")

	ev := <-sink.ch
	assert.Equal(t, "▶", ev.Emoji)

	sink.close()
	assert.False(t, sink.send(transport.ReactionEvent{Emoji: "▶", UserID: "u1"}), "closed sink drops")

	_, open := <-sink.ch
	assert.False(t, open, "close closes the event channel")

	// A second close must be harmless.
	sink.close()
}

func TestToEmbed(t *testing.T) {
	art := &render.Artifact{
		Title:       "Numbers",
		Description: "A paginated list",
		Color:       0x5865F2,
		Fields: []render.Field{
			{Name: "Value", Value: "#1\n#2", Inline: true},
		},
		Footer: "Page 1 of 3",
	}

	embed := toEmbed(art)
	assert.Equal(t, "Numbers", embed.Title)
	assert.Equal(t, "A paginated list", embed.Description)
	assert.Equal(t, 0x5865F2, embed.Color)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Value", embed.Fields[0].Name)
	assert.Equal(t, "#1\n#2", embed.Fields[0].Value)
	assert.True(t, embed.Fields[0].Inline)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Page 1 of 3", embed.Footer.Text)

	assert.Nil(t, toEmbed(&render.Artifact{}).Footer, "no footer without text")
}
