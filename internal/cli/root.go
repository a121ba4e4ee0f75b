// Package cli wires the reactpage commands: a local TUI demo and a discord
// runner, both driving the same pagination engine.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/reactpage/internal/config"
	"github.com/rshade/reactpage/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Package-level state populated by PersistentPreRunE before any subcommand
// runs.
//
//nolint:gochecknoglobals // Shared by subcommands after root setup.
var (
	logger zerolog.Logger
	cfg    config.Config
)

// NewRootCmd creates the root Cobra command for the reactpage CLI.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reactpage",
		Short:   "Reaction-driven message pagination",
		Long:    "reactpage paginates long content inside a single chat message,\nnavigated by reaction controls.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
	}

	cmd.PersistentFlags().String("config", "reactpage.yaml", "path to the configuration file")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(newDemoCmd(), newDiscordCmd())

	return cmd
}

// setup loads the configuration file and builds the logger, honoring the
// --debug flag over both file and environment.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	logCfg := cfg.Logging
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
		logCfg.Format = logging.FormatConsole
	}

	base, err := logging.New(logCfg.ToLoggingConfig())
	if err != nil {
		cmd.PrintErrf("Warning: could not open log file, logging to stderr: %v\n", err)
	}
	logger = logging.ComponentLogger(base, "cli")
	cmd.SetContext(logging.WithContext(cmd.Context(), base))

	logger.Debug().Str("command", cmd.Name()).Str("config", path).Msg("command started")
	return nil
}

const rootCmdExample = `  # Try the engine locally in a terminal mock of a chat message
  reactpage demo --items 25 --per-page 10

  # Paginate the lines of a file in a Discord channel
  reactpage discord --channel 1234567890 --file notes.txt`
