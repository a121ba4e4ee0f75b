package paginator

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rshade/reactpage/internal/transport"
)

// run is the session's event loop. It is the only goroutine that mutates
// session state after Build, which keeps event handling non-preemptive: a
// dispatch (including the jump sub-dialog) runs to completion before the
// next event is considered.
func (s *Session) run(ctx context.Context) {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.finish(StateStopped)
				return
			}
			if s.handleEvent(ctx, ev) {
				return
			}
		case <-s.timer.C():
			s.expire(ctx)
			return
		case <-s.stopCh:
			s.finish(StateStopped)
			return
		case <-ctx.Done():
			s.finish(StateStopped)
			return
		}
	}
}

// handleEvent runs one authorize/resolve/dispatch/re-render cycle. It
// returns true when the event terminated the session.
func (s *Session) handleEvent(ctx context.Context, ev transport.ReactionEvent) bool {
	if !s.authorize(ev.UserID) {
		s.log.Debug().Str("user", ev.UserID).Str("emoji", ev.Emoji).
			Msg("reaction from unauthorized user discarded")
		return false
	}

	action, isNav := s.byEmoji[ev.Emoji]
	hook, isHook := s.hooks.lookup(ev.Emoji)

	switch {
	case isNav:
		if action == ActionDelete {
			s.deleteAndFinish(ctx)
			return true
		}
		s.dispatchNavigation(ctx, action, ev.UserID)
	case isHook:
		hook(ev.UserID, s)
	default:
		// Unrecognized emoji: not an accepted event, timer untouched.
		s.log.Debug().Str("emoji", ev.Emoji).Msg("unbound reaction ignored")
		return false
	}

	// Re-render even when the page did not move so every accepted press
	// gets visible feedback, then restart the idle countdown.
	if err := s.rerender(ctx); err != nil {
		s.report(err)
	}
	s.timer.Reset(s.timeout)
	return false
}

// authorize applies the authorized-user filter. An empty set admits anyone.
func (s *Session) authorize(userID string) bool {
	if len(s.authorized) == 0 {
		return true
	}
	_, ok := s.authorized[userID]
	return ok
}

// dispatchNavigation applies a non-terminal navigation action.
func (s *Session) dispatchNavigation(ctx context.Context, action Action, userID string) {
	s.mu.Lock()
	switch action {
	case ActionBack:
		s.ps.back()
	case ActionForward:
		s.ps.forward()
	case ActionFirst:
		s.ps.first()
	case ActionLast:
		s.ps.last()
	case ActionJump:
		s.mu.Unlock()
		s.jumpDialog(ctx, userID)
		return
	case ActionDelete:
		// Handled by the caller before dispatch.
	}
	s.mu.Unlock()
}

// jumpDialog runs the nested "jump to page" exchange: prompt the acting
// user, await one text reply bounded by the jump timeout, and apply the
// parsed page number if it is in range. The idle timer is paused for the
// duration so the wait neither expires the session nor extends its idle
// tolerance.
func (s *Session) jumpDialog(ctx context.Context, userID string) {
	s.timer.Pause()
	defer s.timer.Resume()

	promptID, err := transport.SendText(ctx, s.tr, s.channelID, s.promptFor(userID))
	if err != nil {
		s.report(runtimeErr("sending jump prompt", err))
		return
	}
	defer func() {
		// Prompt cleanup is cosmetic; a failure is not worth reporting.
		if delErr := s.tr.DeleteMessage(ctx, s.channelID, promptID); delErr != nil {
			s.log.Debug().Err(delErr).Msg("could not delete jump prompt")
		}
	}()

	text, err := s.tr.AwaitTextMessage(ctx, s.channelID, userID, s.jumpWait)
	if err != nil {
		if !errors.Is(err, transport.ErrAwaitTimeout) && !errors.Is(err, context.Canceled) {
			s.report(runtimeErr("awaiting jump reply", err))
		}
		return
	}

	page, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		s.log.Debug().Str("input", text).Msg("jump reply is not a page number")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ps.inRange(page) {
		s.log.Debug().Int("page", page).Int("pages", s.ps.pages).Msg("jump target out of range")
		return
	}
	s.ps.set(page)
}

// rerender renders the current page and edits the displayed message. Called
// after every accepted dispatch; the edit completes before the next event is
// accepted so the display never lags the session state.
func (s *Session) rerender(ctx context.Context) error {
	art, err := s.strategy.Render(s.elements, s.Page(), s.perPage, s.indicator)
	if err != nil {
		return runtimeErr("rendering page", err)
	}
	if err := s.tr.EditMessage(ctx, s.channelID, s.messageID, art); err != nil {
		return runtimeErr("editing message", err)
	}
	return nil
}

// deleteAndFinish handles the delete control: remove the message and end the
// session without a final re-render.
func (s *Session) deleteAndFinish(ctx context.Context) {
	if err := s.tr.DeleteMessage(ctx, s.channelID, s.messageID); err != nil {
		s.report(runtimeErr("deleting message", err))
	}
	s.finish(StateDeleted)
	s.log.Info().Msg("pagination session deleted")
}

// expire handles the idle timer firing: the message stays in place and the
// reaction controls are stripped when the transport permits.
func (s *Session) expire(ctx context.Context) {
	if s.tr.Permissions(s.channelID).CanManageMessages {
		if err := s.tr.ClearReactions(ctx, s.channelID, s.messageID); err != nil {
			s.log.Debug().Err(err).Msg("could not clear reaction controls")
		}
	}
	s.finish(StateExpired)
	for _, fn := range s.onExpire {
		fn()
	}
	s.log.Info().Msg("pagination session expired")
}

// finish performs the terminal transition: set the state, detach the
// listener, clear the timer, and release waiters.
func (s *Session) finish(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.unsub()
	s.timer.Stop()
	close(s.done)
}

// report delivers a caught runtime error to the error observers. The session
// stays listening; a single bad render or transient transport failure must
// not kill an otherwise-healthy session.
func (s *Session) report(err error) {
	s.log.Warn().Err(err).Msg("dispatch error")
	for _, fn := range s.onError {
		fn(err)
	}
}
