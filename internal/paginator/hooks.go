package paginator

// Hook is a user-registered reaction callback. It runs synchronously on the
// session's router goroutine with the acting user's ID, so it may safely use
// the session's page accessors; long-running work belongs elsewhere.
type Hook func(userID string, s *Session)

// hookRegistry maps emoji to registered hooks. Navigation bindings are
// resolved before hooks, so a hook can never shadow a bound navigation emoji.
type hookRegistry map[string]Hook

func (r hookRegistry) lookup(emoji string) (Hook, bool) {
	h, ok := r[emoji]
	return h, ok
}
