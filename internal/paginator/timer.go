package paginator

import "time"

// lifecycleTimer is the session's idle countdown. It supports pausing with
// the remaining duration preserved, which the jump sub-dialog uses so a long
// prompt wait neither fires the timer nor extends the idle tolerance.
//
// All methods are called from the session's router goroutine only; no
// locking is required.
type lifecycleTimer struct {
	timer     *time.Timer
	deadline  time.Time
	remaining time.Duration
	paused    bool
}

func newLifecycleTimer(d time.Duration) *lifecycleTimer {
	return &lifecycleTimer{
		timer:    time.NewTimer(d),
		deadline: time.Now().Add(d),
	}
}

// C is the expiry channel.
func (t *lifecycleTimer) C() <-chan time.Time {
	return t.timer.C
}

// Reset restarts the countdown at d.
func (t *lifecycleTimer) Reset(d time.Duration) {
	t.stop()
	t.timer.Reset(d)
	t.deadline = time.Now().Add(d)
	t.paused = false
}

// Pause halts the countdown, remembering how much time was left.
func (t *lifecycleTimer) Pause() {
	if t.paused {
		return
	}
	t.stop()
	t.remaining = time.Until(t.deadline)
	if t.remaining < 0 {
		t.remaining = 0
	}
	t.paused = true
}

// Resume restarts the countdown with the duration left at Pause time. A
// countdown that had already reached zero fires immediately after Resume.
func (t *lifecycleTimer) Resume() {
	if !t.paused {
		return
	}
	t.timer.Reset(t.remaining)
	t.deadline = time.Now().Add(t.remaining)
	t.paused = false
}

// Stop halts the timer for good. Safe to call more than once.
func (t *lifecycleTimer) Stop() {
	t.stop()
	t.paused = true
}

// stop stops the underlying timer and drains a pending fire so a later Reset
// does not observe a stale tick.
func (t *lifecycleTimer) stop() {
	if !t.timer.Stop() {
		select {
		case <-t.timer.C:
		default:
		}
	}
}
