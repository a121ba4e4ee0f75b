// Package tui contains the local demo front end: a Bubble Tea program that
// stands in for a chat client, showing the session's displayed artifact and
// translating key presses into reaction events on a memory transport.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/reactpage/internal/paginator"
	"github.com/rshade/reactpage/internal/transport"
	"github.com/rshade/reactpage/internal/transport/memory"
)

// demoUser is the simulated acting user for injected reactions.
const demoUser = "demo-user"

// refreshInterval drives the artifact refresh tick. The engine edits the
// message asynchronously, so the view polls the transport's recorded state.
const refreshInterval = 50 * time.Millisecond

type tickMsg time.Time

type sessionDoneMsg struct{}

// DemoModel is the Bubble Tea model for `reactpage demo`.
type DemoModel struct {
	session *paginator.Session
	tr      *memory.Transport
	msgID   transport.MessageID
	channel string

	bindings  map[string]string
	input     textinput.Model
	prompting bool

	message memory.Message
	state   paginator.State
	width   int
}

// NewDemoModel wraps a built session running over tr. bindings maps action
// names ("back", "jump", ...) to the emojis the session was configured with.
func NewDemoModel(session *paginator.Session, tr *memory.Transport, channel string, bindings map[string]string) DemoModel {
	input := textinput.New()
	input.Placeholder = "page number"
	input.CharLimit = 6
	input.Width = 12

	m := DemoModel{
		session:  session,
		tr:       tr,
		msgID:    session.MessageID(),
		channel:  channel,
		bindings: bindings,
		input:    input,
		state:    session.State(),
		width:    80,
	}
	if msg, ok := tr.Get(m.msgID); ok {
		m.message = msg
	}
	return m
}

// Init starts the refresh tick and the session termination watch.
func (m DemoModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitDone())
}

func (m DemoModel) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m DemoModel) waitDone() tea.Cmd {
	done := m.session.Done()
	return func() tea.Msg {
		<-done
		return sessionDoneMsg{}
	}
}

// Update handles key presses and refresh ticks.
func (m DemoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if current, ok := m.tr.Get(m.msgID); ok {
			m.message = current
		}
		m.state = m.session.State()
		return m, m.tick()

	case sessionDoneMsg:
		m.state = m.session.State()
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m DemoModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		switch msg.Type {
		case tea.KeyEnter:
			m.tr.PushText(m.channel, demoUser, m.input.Value())
			m.prompting = false
			m.input.Reset()
			m.input.Blur()
			return m, nil
		case tea.KeyEsc:
			// Let the jump sub-timeout discard the dialog.
			m.prompting = false
			m.input.Reset()
			m.input.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.session.Stop()
		return m, nil
	case "left", "h":
		m.react("back")
	case "right", "l":
		m.react("forward")
	case "home":
		m.react("first")
	case "end":
		m.react("last")
	case "g":
		if m.react("jump") {
			m.prompting = true
			m.input.Focus()
			return m, textinput.Blink
		}
	case "d":
		m.react("delete")
	}
	return m, nil
}

// react injects the emoji bound to the named action, if one is bound.
func (m DemoModel) react(action string) bool {
	emoji, ok := m.bindings[action]
	if !ok || emoji == "" {
		return false
	}
	return m.tr.React(m.msgID, emoji, demoUser)
}
