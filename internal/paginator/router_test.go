package paginator

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/reactpage/internal/transport"
	"github.com/rshade/reactpage/internal/transport/memory"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// waitEdits blocks until the displayed message has been edited at least n times.
func waitEdits(t *testing.T, tr *memory.Transport, id transport.MessageID, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		msg, ok := tr.Get(id)
		return ok && msg.EditCount >= n
	}, waitFor, tick, "expected at least %d edits", n)
}

func TestRouter_ForwardClampsAtLastPage(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "▶", "u1")
	tr.React(id, "▶", "u1")
	waitEdits(t, tr, id, 2)
	assert.Equal(t, 3, s.Page(), "two forward presses from page 1 land on page 3")

	tr.React(id, "▶", "u1")
	waitEdits(t, tr, id, 3)
	assert.Equal(t, 3, s.Page(), "forward on the last page clamps")

	msg, _ := tr.Get(id)
	assert.Equal(t, "Page 3 of 3", msg.Artifact.Footer)
}

func TestRouter_BackOnFirstPageStillRerenders(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "◀", "u1")
	waitEdits(t, tr, id, 1)
	assert.Equal(t, 1, s.Page(), "back on page 1 is a no-op on the page")
	assert.Equal(t, StateListening, s.State())
}

func TestRouter_FirstAndLast(t *testing.T) {
	s, tr := newTestSession(t)
	s.SetNavigationEmojis(map[string]string{"first": "⏮", "last": "⏭"})
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "⏭", "u1")
	waitEdits(t, tr, id, 1)
	assert.Equal(t, 3, s.Page())

	tr.React(id, "⏮", "u1")
	waitEdits(t, tr, id, 2)
	assert.Equal(t, 1, s.Page())
}

func TestRouter_UnauthorizedUserDiscarded(t *testing.T) {
	s, tr := newTestSession(t)
	s.SetAuthorizedUsers([]string{"u1"})
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "▶", "u2")
	// An accepted press from the authorized user afterwards is the fence:
	// once it lands we know the u2 press has been fully processed.
	tr.React(id, "▶", "u1")
	waitEdits(t, tr, id, 1)

	assert.Equal(t, 2, s.Page(), "only the authorized press moved the page")
	msg, _ := tr.Get(id)
	assert.Equal(t, 1, msg.EditCount, "discarded events must not re-render")
}

func TestRouter_UnboundEmojiIgnored(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "🤷", "u1")
	tr.React(id, "▶", "u1")
	waitEdits(t, tr, id, 1)

	assert.Equal(t, 2, s.Page())
	msg, _ := tr.Get(id)
	assert.Equal(t, 1, msg.EditCount, "unbound emoji must not trigger a re-render")
}

func TestRouter_JumpToValidPage(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.PushText(testChannel, "u1", "2")
	tr.React(id, "↗", "u1")
	waitEdits(t, tr, id, 1)

	assert.Equal(t, 2, s.Page())
	assert.Equal(t, StateListening, s.State())

	prompt, ok := tr.Get(transport.MessageID("msg-2"))
	require.True(t, ok, "jump prompt was sent")
	assert.True(t, prompt.Deleted, "jump prompt is cleaned up afterwards")
}

func TestRouter_JumpDiscardsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "out of range high", reply: "9"},
		{name: "out of range low", reply: "0"},
		{name: "unparsable", reply: "banana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, tr := newTestSession(t)
			require.NoError(t, s.Build(context.Background()))
			id := s.MessageID()

			tr.PushText(testChannel, "u1", tt.reply)
			tr.React(id, "↗", "u1")
			waitEdits(t, tr, id, 1)

			assert.Equal(t, 1, s.Page(), "bad jump input leaves the page unchanged")
			assert.Equal(t, StateListening, s.State())
		})
	}
}

func TestRouter_JumpTimeoutResumesListening(t *testing.T) {
	s, tr := newTestSession(t)
	s.SetJumpTimeout(30 * time.Millisecond)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "↗", "u1")
	waitEdits(t, tr, id, 1)

	assert.Equal(t, 1, s.Page())
	assert.Equal(t, StateListening, s.State(), "jump timeout is not fatal")
}

func TestRouter_FunctionHookInvokedPerPress(t *testing.T) {
	var count atomic.Int64
	s, tr := newTestSession(t)
	s.SetFunctionEmoji("⭐", func(userID string, hs *Session) {
		assert.Equal(t, "u1", userID)
		count.Add(1)
	})
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "⭐", "u1")
	tr.React(id, "⭐", "u1")
	waitEdits(t, tr, id, 2)

	assert.Equal(t, int64(2), count.Load(), "hook runs exactly once per accepted press")
}

func TestRouter_FunctionHookMayMovePage(t *testing.T) {
	s, tr := newTestSession(t)
	s.SetFunctionEmoji("⭐", func(_ string, hs *Session) {
		hs.SetPage(hs.Pages())
	})
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "⭐", "u1")
	waitEdits(t, tr, id, 1)

	assert.Equal(t, 3, s.Page(), "router re-renders the page the hook selected")
	msg, _ := tr.Get(id)
	assert.Equal(t, "Page 3 of 3", msg.Artifact.Footer)
}

func TestRouter_DeleteTerminatesSession(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.React(id, "🗑", "u1")
	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("session did not terminate after delete")
	}

	assert.Equal(t, StateDeleted, s.State())
	msg, _ := tr.Get(id)
	assert.True(t, msg.Deleted)
	assert.Equal(t, 0, msg.EditCount, "delete skips the final re-render")
	assert.False(t, tr.Subscribed(id), "listener detached on termination")

	// Later reactions go nowhere: the subscription is gone.
	assert.False(t, tr.React(id, "▶", "u1"))
	assert.Equal(t, 1, s.Page())
}

func TestRouter_IdleTimeoutExpiresOnce(t *testing.T) {
	s, tr := newTestSession(t)
	s.SetTimeout(40 * time.Millisecond)

	var expired atomic.Int64
	s.OnExpire(func() { expired.Add(1) })

	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("session did not expire")
	}

	assert.Equal(t, StateExpired, s.State())
	assert.Equal(t, int64(1), expired.Load(), "expire observer fires exactly once")

	msg, _ := tr.Get(id)
	assert.False(t, msg.Deleted, "expiry leaves the artifact in place")
	assert.Empty(t, msg.Reactions, "controls stripped when permissions allow")
	assert.False(t, tr.Subscribed(id))
}

func TestRouter_AcceptedEventsResetTimer(t *testing.T) {
	s, tr := newTestSession(t)
	s.SetTimeout(120 * time.Millisecond)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	// Keep pressing within the timeout window; the session must outlive
	// several multiples of the idle timeout.
	for i := 1; i <= 4; i++ {
		time.Sleep(60 * time.Millisecond)
		tr.React(id, "◀", "u1")
		waitEdits(t, tr, id, i)
	}
	assert.Equal(t, StateListening, s.State())

	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("session did not expire after presses stopped")
	}
	assert.Equal(t, StateExpired, s.State())
}

func TestRouter_DispatchErrorKeepsListening(t *testing.T) {
	s, tr := newTestSession(t)

	var reported atomic.Int64
	s.OnError(func(err error) {
		var rtErr *RuntimeError
		assert.ErrorAs(t, err, &rtErr)
		reported.Add(1)
	})

	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	tr.FailEdit(fmt.Errorf("transient outage"))
	tr.React(id, "▶", "u1")
	require.Eventually(t, func() bool {
		return reported.Load() == 1
	}, waitFor, tick)

	assert.Equal(t, StateListening, s.State(), "a bad edit must not kill the session")
	assert.Equal(t, 2, s.Page(), "the page still moved")

	// Once the outage clears, the next press renders normally.
	tr.FailEdit(nil)
	tr.React(id, "▶", "u1")
	waitEdits(t, tr, id, 1)
	assert.Equal(t, 3, s.Page())
}

func TestRouter_StopTearsDown(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	s.Stop()
	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("session did not stop")
	}

	assert.Equal(t, StateStopped, s.State())
	assert.False(t, tr.Subscribed(id))
	msg, _ := tr.Get(id)
	assert.False(t, msg.Deleted, "stop leaves the artifact in place")
}

func TestRouter_PageInvariantHolds(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, s.Build(context.Background()))
	id := s.MessageID()

	presses := []string{"◀", "▶", "▶", "▶", "▶", "◀", "◀", "◀", "◀", "◀"}
	for i, emoji := range presses {
		tr.React(id, emoji, "u1")
		waitEdits(t, tr, id, i+1)
		page := s.Page()
		assert.GreaterOrEqual(t, page, 1)
		assert.LessOrEqual(t, page, s.Pages())
	}
}
