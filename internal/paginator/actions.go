package paginator

// Action identifies a built-in navigation control.
type Action int

// Built-in navigation actions, in the order their controls are added to the
// message.
const (
	ActionFirst Action = iota
	ActionBack
	ActionJump
	ActionForward
	ActionLast
	ActionDelete
)

// actionOrder fixes the order reaction controls appear on the message.
var actionOrder = []Action{ActionFirst, ActionBack, ActionJump, ActionForward, ActionLast, ActionDelete} //nolint:gochecknoglobals // Fixed control ordering.

// String returns the configuration name of the action.
func (a Action) String() string {
	switch a {
	case ActionFirst:
		return "first"
	case ActionBack:
		return "back"
	case ActionJump:
		return "jump"
	case ActionForward:
		return "forward"
	case ActionLast:
		return "last"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ActionFromName resolves a configuration name ("back", "jump", ...) to its
// Action. The second return is false for unrecognized names.
func ActionFromName(name string) (Action, bool) {
	for _, a := range actionOrder {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

// DefaultNavigationEmojis returns the default emoji bindings. First and last
// are disabled by default; sessions enable them by binding an emoji through
// SetNavigationEmojis.
func DefaultNavigationEmojis() map[Action]string {
	return map[Action]string{
		ActionBack:    "◀",
		ActionJump:    "↗",
		ActionForward: "▶",
		ActionDelete:  "🗑",
	}
}
