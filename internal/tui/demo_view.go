package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/reactpage/internal/paginator"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	fieldNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	footerStyle = lipgloss.NewStyle().
			Faint(true).
			Italic(true)

	helpStyle = lipgloss.NewStyle().Faint(true)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))
)

// View draws the simulated chat message, the reaction controls, and either
// the jump prompt or the key help line.
func (m DemoModel) View() string {
	var b strings.Builder

	b.WriteString(m.artifactView())
	b.WriteString("\n")

	if len(m.message.Reactions) > 0 && !m.state.Terminated() {
		b.WriteString("reactions: " + strings.Join(m.message.Reactions, "  "))
		b.WriteString("\n")
	}

	switch {
	case m.state.Terminated():
		b.WriteString(statusStyle.Render(fmt.Sprintf("session %s", m.state)))
		b.WriteString("\n")
	case m.prompting:
		b.WriteString("jump to page: " + m.input.View())
		b.WriteString("\n")
	default:
		b.WriteString(helpStyle.Render("←/→ navigate · home/end jump to edge · g go to page · d delete · q quit"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m DemoModel) artifactView() string {
	if m.message.Deleted || m.message.Artifact == nil {
		return statusStyle.Render("(message deleted)")
	}

	art := m.message.Artifact
	var lines []string
	if art.Title != "" {
		lines = append(lines, titleStyle.Render(art.Title))
	}
	if art.Description != "" {
		lines = append(lines, art.Description)
	}
	for _, f := range art.Fields {
		lines = append(lines, fieldNameStyle.Render(f.Name))
		lines = append(lines, f.Value)
	}
	if art.Footer != "" {
		lines = append(lines, footerStyle.Render(art.Footer))
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return frameStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// StateLine is a short status summary used by tests and the demo command's
// exit message.
func StateLine(s *paginator.Session) string {
	return fmt.Sprintf("page %d of %d (%s)", s.Page(), s.Pages(), s.State())
}
