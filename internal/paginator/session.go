// Package paginator implements the reaction-driven pagination engine: a
// long-lived session bound to one displayed message, advancing through pages
// as authorized users press reaction controls.
//
// A session is configured through chained setters, started with Build, and
// then runs a single router goroutine that consumes reaction events until it
// is deleted, stopped, or the idle timer fires. Rendering is delegated to a
// render.Strategy and all messaging to a transport.Transport; the engine
// owns neither.
package paginator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/reactpage/internal/render"
	"github.com/rshade/reactpage/internal/transport"
)

// Configuration defaults.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultJumpTimeout     = 15 * time.Second
	DefaultElementsPerPage = 10

	// DefaultJumpPrompt is the jump sub-dialog prompt. The {{user}}
	// placeholder is replaced with the acting user's ID.
	DefaultJumpPrompt = "{{user}}, to what page would you like to jump?"
)

// State is the session lifecycle state. States at StateDeleted and beyond
// are terminal: the reaction listener is detached and the timer cleared.
type State int

const (
	// StateIdle means the session is constructed but not built.
	StateIdle State = iota
	// StateListening means the session is live and accepting events.
	StateListening
	// StateDeleted means the delete control removed the message.
	StateDeleted
	// StateExpired means the idle timer fired.
	StateExpired
	// StateStopped means Stop or context cancellation tore the session down.
	StateStopped
)

// Terminated reports whether the state is terminal.
func (s State) Terminated() bool {
	return s >= StateDeleted
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateDeleted:
		return "deleted"
	case StateExpired:
		return "expired"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Session is one live pagination instance. Configure it with the Set*
// methods, which validate eagerly and record the first failure, then call
// Build to render page 1 and start the event loop.
type Session struct {
	mu sync.Mutex

	id  string
	log zerolog.Logger

	tr        transport.Transport
	strategy  render.Strategy
	channelID string
	messageID transport.MessageID

	elements   []any
	perPage    int
	indicator  bool
	authorized map[string]struct{}
	navEmojis  map[Action]string
	hooks      hookRegistry
	timeout    time.Duration
	jumpWait   time.Duration
	jumpPrompt string

	state    State
	ps       pageState
	byEmoji  map[string]Action
	timer    *lifecycleTimer
	events   <-chan transport.ReactionEvent
	unsub    func()
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}

	onStart  []func()
	onExpire []func()
	onError  []func(error)

	cfgErr error
}

// New creates an unconfigured session bound to a transport and channel, with
// default timeouts, emoji bindings, and the page indicator enabled.
func New(tr transport.Transport, channelID string, log zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:         id,
		log:        log.With().Str("session", id).Logger(),
		tr:         tr,
		channelID:  channelID,
		perPage:    DefaultElementsPerPage,
		indicator:  true,
		navEmojis:  DefaultNavigationEmojis(),
		hooks:      hookRegistry{},
		timeout:    DefaultTimeout,
		jumpWait:   DefaultJumpTimeout,
		jumpPrompt: DefaultJumpPrompt,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// ID returns the session's unique identifier, used in log fields.
func (s *Session) ID() string {
	return s.id
}

// SetStrategy selects the render strategy. Must be set before Build.
func (s *Session) SetStrategy(strategy render.Strategy) *Session {
	if strategy == nil {
		s.record(configErr("strategy", "must not be nil"))
		return s
	}
	s.strategy = strategy
	return s
}

// SetElements supplies the element sequence to paginate. The sequence must
// be non-empty; if a strategy with a strict element type is already set, the
// elements are checked against it immediately.
func (s *Session) SetElements(elements []any) *Session {
	if len(elements) == 0 {
		s.record(configErr("elements", "must be a non-empty sequence"))
		return s
	}
	if s.strategy != nil {
		if err := s.strategy.ValidateElements(elements); err != nil {
			s.record(configErr("elements", "%v", err))
			return s
		}
	}
	s.elements = elements
	return s
}

// SetElementsPerPage sets how many elements each page groups together.
func (s *Session) SetElementsPerPage(n int) *Session {
	if n <= 0 {
		s.record(configErr("elementsPerPage", "must be a positive integer, got %d", n))
		return s
	}
	s.perPage = n
	return s
}

// SetAuthorizedUsers restricts reaction handling to the given user IDs.
// An empty set leaves the session unrestricted.
func (s *Session) SetAuthorizedUsers(ids []string) *Session {
	authorized := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			s.record(configErr("authorizedUsers", "user ID must not be empty"))
			return s
		}
		authorized[id] = struct{}{}
	}
	s.authorized = authorized
	return s
}

// SetTimeout sets the idle timeout after which the session expires.
func (s *Session) SetTimeout(d time.Duration) *Session {
	if d <= 0 {
		s.record(configErr("timeout", "must be positive, got %s", d))
		return s
	}
	s.timeout = d
	return s
}

// SetJumpTimeout bounds the jump sub-dialog's wait for a page number.
func (s *Session) SetJumpTimeout(d time.Duration) *Session {
	if d <= 0 {
		s.record(configErr("jumpTimeout", "must be positive, got %s", d))
		return s
	}
	s.jumpWait = d
	return s
}

// SetJumpPrompt overrides the jump sub-dialog prompt text. A {{user}}
// placeholder is replaced with the acting user's ID.
func (s *Session) SetJumpPrompt(text string) *Session {
	if text == "" {
		s.record(configErr("jumpPrompt", "must not be empty"))
		return s
	}
	s.jumpPrompt = text
	return s
}

// SetPageIndicator toggles the "Page N of M" footer on rendered pages.
func (s *Session) SetPageIndicator(enabled bool) *Session {
	s.indicator = enabled
	return s
}

// SetNavigationEmojis overrides navigation emoji bindings by action name
// ("first", "back", "jump", "forward", "last", "delete"). An empty emoji
// disables the action. Unknown names, emojis already used by another
// navigation action, and emojis already registered as function hooks are
// configuration errors: navigation is resolved first, so the late binding
// would silently shadow the hook.
func (s *Session) SetNavigationEmojis(bindings map[string]string) *Session {
	updated := make(map[Action]string, len(s.navEmojis))
	for a, e := range s.navEmojis {
		updated[a] = e
	}
	for name, emoji := range bindings {
		action, ok := ActionFromName(name)
		if !ok {
			s.record(configErr("navigationEmojis", "unknown action %q", name))
			return s
		}
		if emoji == "" {
			delete(updated, action)
			continue
		}
		updated[action] = emoji
	}
	seen := make(map[string]Action, len(updated))
	for _, action := range actionOrder {
		emoji, ok := updated[action]
		if !ok {
			continue
		}
		if prev, dup := seen[emoji]; dup {
			s.record(configErr("navigationEmojis", "emoji %q bound to both %s and %s", emoji, prev, action))
			return s
		}
		if _, hooked := s.hooks[emoji]; hooked {
			s.record(configErr("navigationEmojis", "emoji %q is already registered as a function hook", emoji))
			return s
		}
		seen[emoji] = action
	}
	s.navEmojis = updated
	return s
}

// SetFunctionEmoji registers a custom hook for an emoji. Binding an emoji
// already used by a navigation action is a configuration error: navigation
// is resolved first, so the hook would never fire.
func (s *Session) SetFunctionEmoji(emoji string, hook Hook) *Session {
	if emoji == "" {
		s.record(configErr("functionEmojis", "emoji must not be empty"))
		return s
	}
	if hook == nil {
		s.record(configErr("functionEmojis", "hook for %q must not be nil", emoji))
		return s
	}
	for action, nav := range s.navEmojis {
		if nav == emoji {
			s.record(configErr("functionEmojis", "emoji %q collides with the %s navigation binding", emoji, action))
			return s
		}
	}
	s.hooks[emoji] = hook
	return s
}

// SetFunctionEmojis registers several hooks at once.
func (s *Session) SetFunctionEmojis(hooks map[string]Hook) *Session {
	for emoji, hook := range hooks {
		s.SetFunctionEmoji(emoji, hook)
	}
	return s
}

// SetMessageID attaches an existing message. Build edits it in place
// instead of sending a new one.
func (s *Session) SetMessageID(id transport.MessageID) *Session {
	s.messageID = id
	return s
}

// OnStart registers an observer fired once when Build passes verification,
// before the first render.
func (s *Session) OnStart(fn func()) *Session {
	s.onStart = append(s.onStart, fn)
	return s
}

// OnExpire registers an observer fired once if the idle timer ends the
// session.
func (s *Session) OnExpire(fn func()) *Session {
	s.onExpire = append(s.onExpire, fn)
	return s
}

// OnError registers an observer for runtime errors caught during dispatch.
// Such errors do not terminate the session.
func (s *Session) OnError(fn func(error)) *Session {
	s.onError = append(s.onError, fn)
	return s
}

// Err returns the first configuration error recorded by a setter, if any.
func (s *Session) Err() error {
	return s.cfgErr
}

// record keeps the first configuration error; later ones are dropped so the
// caller sees the root cause, not a cascade.
func (s *Session) record(err error) {
	if s.cfgErr == nil {
		s.cfgErr = err
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Page returns the current 1-based page.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ps.page
}

// Pages returns the total page count. Zero until Build.
func (s *Session) Pages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ps.pages
}

// SetPage moves to page n, clamped into [1, pages]. Intended for function
// hooks; the router re-renders after the hook returns.
func (s *Session) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ps.set(n)
}

// MessageID returns the handle of the displayed message. Empty until Build.
func (s *Session) MessageID() transport.MessageID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageID
}

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop tears the session down from outside: listener detached, timer
// cleared, displayed message left in place. Safe to call more than once; if
// called before Build, the session stops right after it starts.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// Build verifies the configuration, renders page 1, sends (or edits) the
// message, attaches the reaction listener, starts the idle timer, and spawns
// the router goroutine. Configuration problems surface as *ConfigError
// before any message is sent; transport or render failures surface as
// *RuntimeError and abort the session start.
func (s *Session) Build(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyBuilt
	}
	s.mu.Unlock()

	if err := s.verify(); err != nil {
		return err
	}

	s.mu.Lock()
	s.ps = newPageState(s.strategy.TotalPages(len(s.elements), s.perPage))
	s.byEmoji = make(map[string]Action, len(s.navEmojis))
	for action, emoji := range s.navEmojis {
		s.byEmoji[emoji] = action
	}
	s.mu.Unlock()

	for _, fn := range s.onStart {
		fn()
	}

	art, err := s.strategy.Render(s.elements, 1, s.perPage, s.indicator)
	if err != nil {
		return runtimeErr("rendering first page", err)
	}

	if s.messageID == "" {
		id, sendErr := s.tr.SendMessage(ctx, s.channelID, art)
		if sendErr != nil {
			return runtimeErr("sending message", sendErr)
		}
		s.mu.Lock()
		s.messageID = id
		s.mu.Unlock()
	} else if editErr := s.tr.EditMessage(ctx, s.channelID, s.messageID, art); editErr != nil {
		return runtimeErr("editing message", editErr)
	}

	if reactErr := s.tr.AddReactions(ctx, s.channelID, s.messageID, s.controlEmojis()); reactErr != nil {
		return runtimeErr("adding reaction controls", reactErr)
	}

	events, unsub := s.tr.SubscribeReactions(s.channelID, s.messageID)

	s.mu.Lock()
	s.events = events
	s.unsub = unsub
	s.timer = newLifecycleTimer(s.timeout)
	s.state = StateListening
	s.mu.Unlock()

	s.log.Info().
		Str("channel", s.channelID).
		Str("message", string(s.messageID)).
		Int("pages", s.Pages()).
		Msg("pagination session started")

	go s.run(ctx)
	return nil
}

// verify is the pre-send checklist: configuration errors, element and
// strategy sanity, page count, and transport permissions.
func (s *Session) verify() error {
	if s.cfgErr != nil {
		return s.cfgErr
	}
	if s.tr == nil {
		return configErr("transport", "must not be nil")
	}
	if s.channelID == "" {
		return configErr("channel", "must not be empty")
	}
	if s.strategy == nil {
		return configErr("strategy", "must be set before Build")
	}
	if len(s.elements) == 0 {
		return configErr("elements", "must be a non-empty sequence")
	}
	if err := s.strategy.ValidateElements(s.elements); err != nil {
		return configErr("elements", "%v", err)
	}
	if s.perPage <= 0 {
		return configErr("elementsPerPage", "must be a positive integer")
	}
	if s.timeout <= 0 {
		return configErr("timeout", "must be positive")
	}
	if len(s.navEmojis) == 0 && len(s.hooks) == 0 {
		return configErr("emojis", "at least one navigation or function emoji must be bound")
	}
	if s.strategy.TotalPages(len(s.elements), s.perPage) < 1 {
		return configErr("elements", "no renderable page exists")
	}

	perms := s.tr.Permissions(s.channelID)
	if !perms.CanSend {
		return configErr("permissions", "transport cannot send messages in channel %s", s.channelID)
	}
	if !perms.CanAddReactions {
		return configErr("permissions", "transport cannot add reactions in channel %s", s.channelID)
	}
	if _, bound := s.navEmojis[ActionDelete]; bound && !perms.CanManageMessages {
		return configErr("permissions", "delete control requires manage-messages in channel %s", s.channelID)
	}
	return nil
}

// controlEmojis returns the bound navigation emojis in display order.
func (s *Session) controlEmojis() []string {
	emojis := make([]string, 0, len(s.navEmojis))
	for _, action := range actionOrder {
		if emoji, ok := s.navEmojis[action]; ok {
			emojis = append(emojis, emoji)
		}
	}
	return emojis
}

// promptFor expands the jump prompt for the acting user.
func (s *Session) promptFor(userID string) string {
	return strings.ReplaceAll(s.jumpPrompt, "{{user}}", userID)
}
