package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"github.com/rshade/reactpage/internal/logging"
	"github.com/rshade/reactpage/internal/manager"
	"github.com/rshade/reactpage/internal/paginator"
	"github.com/rshade/reactpage/internal/render"
	"github.com/rshade/reactpage/internal/transport/discord"
)

var errNoToken = errors.New("no discord token: set discord.token in the config file or REACTPAGE_DISCORD_TOKEN")

func newDiscordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discord",
		Short: "Paginate content in a Discord channel",
		Long: "discord connects with a bot token and posts a paginated message in the\n" +
			"given channel. With --file, each line of the file becomes one element;\n" +
			"without it, a small sample list is used.",
		RunE: runDiscord,
	}

	cmd.Flags().String("channel", "", "channel ID to post in (defaults to discord.channelId from config)")
	cmd.Flags().String("file", "", "paginate the lines of this file")
	return cmd
}

func runDiscord(cmd *cobra.Command, _ []string) error {
	token := cfg.Discord.Token
	if token == "" {
		return errNoToken
	}

	channelID, _ := cmd.Flags().GetString("channel")
	if channelID == "" {
		channelID = cfg.Discord.ChannelID
	}
	if channelID == "" {
		return errors.New("no channel: pass --channel or set discord.channelId in the config file")
	}

	elements, title, err := loadElements(cmd)
	if err != nil {
		return err
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsGuildMessageReactions
	if err := dg.Open(); err != nil {
		return fmt.Errorf("connecting to discord: %w", err)
	}
	defer func() {
		if closeErr := dg.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("closing discord session")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr := discord.New(dg, logging.ComponentLogger(logger, "discord"))

	strategy := (&render.FieldsStrategy{
		Title: title,
		Color: 0x5865F2,
	}).AddField("Content", render.ComputedValue(func(el any) string {
		return fmt.Sprintf("%v", el)
	}), false)

	mgr := manager.New(logging.ComponentLogger(logger, "manager"))
	session := cfg.Session.ApplySession(
		paginator.New(tr, channelID, logger).
			SetStrategy(strategy).
			SetElements(elements),
	)

	if err := mgr.Launch(ctx, session); err != nil {
		return err
	}

	logger.Info().Str("channel", channelID).Int("pages", session.Pages()).
		Msg("pagination running, press Ctrl-C to stop")

	select {
	case <-session.Done():
	case <-ctx.Done():
	}
	if err := mgr.StopAll(); err != nil {
		return fmt.Errorf("stopping sessions: %w", err)
	}

	cmd.Printf("session ended: %s\n", session.State())
	return nil
}

// loadElements reads the element list for the session: file lines when
// --file is given, a sample list otherwise.
func loadElements(cmd *cobra.Command) ([]any, string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		sample := make([]any, 0, 12)
		for i := 1; i <= 12; i++ {
			sample = append(sample, fmt.Sprintf("sample entry %d", i))
		}
		return sample, "reactpage", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	var elements []any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			elements = append(elements, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	if len(elements) == 0 {
		return nil, "", fmt.Errorf("%s has no non-empty lines to paginate", path)
	}
	return elements, path, nil
}
