// Package config loads the reactpage configuration file: logging options,
// per-session defaults, and chat backend credentials. Missing files are not
// an error; defaults apply and environment variables override the file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/reactpage/internal/logging"
	"github.com/rshade/reactpage/internal/paginator"
)

// Environment variable overrides.
const (
	EnvLogLevel     = "REACTPAGE_LOG_LEVEL"
	EnvLogFormat    = "REACTPAGE_LOG_FORMAT"
	EnvDiscordToken = "REACTPAGE_DISCORD_TOKEN"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Session SessionConfig `yaml:"session"`
	Discord DiscordConfig `yaml:"discord"`
}

// LoggingConfig mirrors logging.Config in the file format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ToLoggingConfig converts to the logging package's config type.
func (c LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{Level: c.Level, Format: c.Format, File: c.File}
}

// SessionConfig holds per-session defaults applied to every new session.
type SessionConfig struct {
	TimeoutSeconds     int               `yaml:"timeoutSeconds"`
	JumpTimeoutSeconds int               `yaml:"jumpTimeoutSeconds"`
	ElementsPerPage    int               `yaml:"elementsPerPage"`
	PageIndicator      *bool             `yaml:"pageIndicator"`
	NavigationEmojis   map[string]string `yaml:"navigationEmojis"`
	JumpPrompt         string            `yaml:"jumpPrompt"`
	AuthorizedUsers    []string          `yaml:"authorizedUsers"`
}

// Timeout returns the configured idle timeout.
func (c SessionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// JumpTimeout returns the configured jump sub-dialog timeout.
func (c SessionConfig) JumpTimeout() time.Duration {
	return time.Duration(c.JumpTimeoutSeconds) * time.Second
}

// DiscordConfig holds the discord backend settings.
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channelId"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Session: SessionConfig{
			TimeoutSeconds:     int(paginator.DefaultTimeout / time.Second),
			JumpTimeoutSeconds: int(paginator.DefaultJumpTimeout / time.Second),
			ElementsPerPage:    paginator.DefaultElementsPerPage,
		},
	}
}

// Load reads the configuration from path, falling back to defaults when the
// file does not exist, then applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file: defaults plus env overrides.
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvDiscordToken); v != "" {
		cfg.Discord.Token = v
	}
}

// Validate fails fast on values a session would later reject.
func (c Config) Validate() error {
	if c.Session.TimeoutSeconds <= 0 {
		return fmt.Errorf("session.timeoutSeconds must be positive, got %d", c.Session.TimeoutSeconds)
	}
	if c.Session.JumpTimeoutSeconds <= 0 {
		return fmt.Errorf("session.jumpTimeoutSeconds must be positive, got %d", c.Session.JumpTimeoutSeconds)
	}
	if c.Session.ElementsPerPage <= 0 {
		return fmt.Errorf("session.elementsPerPage must be positive, got %d", c.Session.ElementsPerPage)
	}
	for name := range c.Session.NavigationEmojis {
		if _, ok := paginator.ActionFromName(name); !ok {
			return fmt.Errorf("session.navigationEmojis: unknown action %q", name)
		}
	}
	return nil
}

// ApplySession copies the session defaults onto s. Returns s for chaining;
// invalid values were already rejected by Validate, so the setters here only
// fail if the caller bypassed Load.
func (c SessionConfig) ApplySession(s *paginator.Session) *paginator.Session {
	s.SetTimeout(c.Timeout()).
		SetJumpTimeout(c.JumpTimeout()).
		SetElementsPerPage(c.ElementsPerPage)
	if c.PageIndicator != nil {
		s.SetPageIndicator(*c.PageIndicator)
	}
	if len(c.NavigationEmojis) > 0 {
		s.SetNavigationEmojis(c.NavigationEmojis)
	}
	if c.JumpPrompt != "" {
		s.SetJumpPrompt(c.JumpPrompt)
	}
	if len(c.AuthorizedUsers) > 0 {
		s.SetAuthorizedUsers(c.AuthorizedUsers)
	}
	return s
}
