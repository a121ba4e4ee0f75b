package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/reactpage/internal/paginator"
	"github.com/rshade/reactpage/internal/render"
	"github.com/rshade/reactpage/internal/transport/memory"
	"github.com/rshade/reactpage/internal/tui"
)

const demoChannel = "demo-channel"

// errNotATerminal is returned when the demo is started without an interactive
// terminal attached to stdout.
var errNotATerminal = errors.New("demo requires an interactive terminal")

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a pagination session in a terminal mock of a chat message",
		Long: "demo runs the full engine loop against an in-memory transport:\n" +
			"key presses stand in for reaction events, and the displayed artifact is\n" +
			"redrawn exactly as a chat message would be edited.",
		RunE: runDemo,
	}

	cmd.Flags().Int("items", 25, "number of sample elements to paginate")
	cmd.Flags().Int("per-page", 0, "elements per page (0 = config default)")
	return cmd
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdout) {
		return errNotATerminal
	}

	items, _ := cmd.Flags().GetInt("items")
	perPage, _ := cmd.Flags().GetInt("per-page")
	if perPage <= 0 {
		perPage = cfg.Session.ElementsPerPage
	}

	elements := make([]any, 0, items)
	for i := 1; i <= items; i++ {
		elements = append(elements, fmt.Sprintf("element %d", i))
	}

	strategy := (&render.FieldsStrategy{
		Title:       "reactpage demo",
		Description: "A paginated list inside one message.",
	}).AddField("Items", render.ComputedValue(func(el any) string {
		return fmt.Sprintf("• %v", el)
	}), false)

	tr := memory.New()
	session := cfg.Session.ApplySession(
		paginator.New(tr, demoChannel, logger).
			SetStrategy(strategy).
			SetElements(elements),
	).SetElementsPerPage(perPage)

	if err := session.Build(cmd.Context()); err != nil {
		return fmt.Errorf("starting demo session: %w", err)
	}
	defer session.Stop()

	bindings := demoBindings()
	model := tui.NewDemoModel(session, tr, demoChannel, bindings)

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("running demo: %w", err)
	}

	cmd.Println(tui.StateLine(session))
	return nil
}

// demoBindings maps action names to the emojis the demo session uses:
// config overrides on top of the engine defaults.
func demoBindings() map[string]string {
	bindings := make(map[string]string)
	for action, emoji := range paginator.DefaultNavigationEmojis() {
		bindings[action.String()] = emoji
	}
	for name, emoji := range cfg.Session.NavigationEmojis {
		if emoji == "" {
			delete(bindings, name)
			continue
		}
		bindings[name] = emoji
	}
	return bindings
}
