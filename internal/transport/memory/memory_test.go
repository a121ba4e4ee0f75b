package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/reactpage/internal/render"
	"github.com/rshade/reactpage/internal/transport"
)

func TestTransport_SendEditDelete(t *testing.T) {
	tr := New()
	ctx := context.Background()

	id, err := tr.SendMessage(ctx, "c1", &render.Artifact{Title: "one"})
	require.NoError(t, err)

	require.NoError(t, tr.EditMessage(ctx, "c1", id, &render.Artifact{Title: "two"}))
	msg, ok := tr.Get(id)
	require.True(t, ok)
	assert.Equal(t, "two", msg.Artifact.Title)
	assert.Equal(t, 1, msg.EditCount)

	require.NoError(t, tr.DeleteMessage(ctx, "c1", id))
	msg, _ = tr.Get(id)
	assert.True(t, msg.Deleted)
	assert.Error(t, tr.EditMessage(ctx, "c1", id, &render.Artifact{}), "deleted messages cannot be edited")
}

func TestTransport_SubscribeAndCancel(t *testing.T) {
	tr := New()
	id, err := tr.SendMessage(context.Background(), "c1", &render.Artifact{})
	require.NoError(t, err)

	events, cancel := tr.SubscribeReactions("c1", id)
	require.True(t, tr.Subscribed(id))
	require.True(t, tr.React(id, "▶", "u1"))

	ev := <-events
	assert.Equal(t, "▶", ev.Emoji)
	assert.Equal(t, "u1", ev.UserID)

	cancel()
	assert.False(t, tr.Subscribed(id))
	assert.False(t, tr.React(id, "▶", "u1"), "reactions after cancel go nowhere")

	_, open := <-events
	assert.False(t, open, "cancel closes the event channel")

	// A second cancel must be harmless.
	cancel()
}

func TestTransport_ReactRacingCancel(t *testing.T) {
	tr := New()

	// Injecting reactions while the subscription is torn down must never
	// send on the closed channel, only start returning false.
	for i := 0; i < 200; i++ {
		id, err := tr.SendMessage(context.Background(), "c1", &render.Artifact{})
		require.NoError(t, err)
		events, cancel := tr.SubscribeReactions("c1", id)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tr.React(id, "▶", "u1")
			}
		}()
		cancel()
		wg.Wait()

		for range events {
			// Drain whatever landed before the close.
		}
		assert.False(t, tr.React(id, "▶", "u1"))
	}
}

func TestTransport_AwaitTextMessage(t *testing.T) {
	tr := New()

	t.Run("queued text is returned", func(t *testing.T) {
		tr.PushText("c1", "u1", "42")
		text, err := tr.AwaitTextMessage(context.Background(), "c1", "u1", time.Second)
		require.NoError(t, err)
		assert.Equal(t, "42", text)
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := tr.AwaitTextMessage(context.Background(), "c1", "u1", 20*time.Millisecond)
		assert.ErrorIs(t, err, transport.ErrAwaitTimeout)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := tr.AwaitTextMessage(ctx, "c1", "u1", time.Second)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
