package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/m96-chan/rivet/internal/consts"
)

//go:embed config.toml
var defaultConfig []byte

// Config holds the application configuration.
type Config struct {
	MessagesLimit  int `toml:"messages_limit"`
	SyncIntervalMS int `toml:"sync_interval_ms"`

	Markdown      MarkdownConfig `toml:"markdown"`
	Timestamps    Timestamps     `toml:"timestamps"`
	Emoji         EmojiConfig    `toml:"emoji"`
	Cache         CacheConfig    `toml:"cache"`
	Notifications Notifications  `toml:"notifications"`

	Keybinds Keybinds `toml:"keybinds"`
	Theme    Theme    `toml:"theme"`
}

// MarkdownConfig controls markdown rendering in messages.
type MarkdownConfig struct {
	Enabled     bool   `toml:"enabled"`
	SyntaxTheme string `toml:"syntax_theme"`
}

// Timestamps controls message timestamp display.
type Timestamps struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"`
}

// EmojiConfig controls shortcode expansion and suggestions.
type EmojiConfig struct {
	File        string `toml:"file"`
	Suggestions int    `toml:"suggestions"`
}

// CacheConfig controls the on-disk message cache.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	Dir      string `toml:"dir"`
	MaxBytes uint64 `toml:"max_bytes"`
}

// Notifications controls desktop notifications for mentions.
type Notifications struct {
	Enabled bool `toml:"enabled"`
}

// SyncInterval returns the conversation refresh period.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalMS) * time.Millisecond
}

// Dir returns the directory holding config.toml and emojis.json.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, consts.Name)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config from the given path. If the file does not exist,
// it writes the default config and loads that. Embedded defaults are applied
// first, then the theme preset, then the user file on top.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, defaultConfig, 0o600); err != nil {
			return nil, err
		}
	}

	// The preset has to be known before the user's per-style overrides land.
	var probe struct {
		Theme struct {
			Preset string `toml:"preset"`
		} `toml:"theme"`
	}
	if _, err := toml.DecodeFile(path, &probe); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	preset := probe.Theme.Preset
	if preset == "" {
		preset = cfg.Theme.Preset
	}
	cfg.Theme = BuiltinTheme(preset)

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// applyDefaults resolves computed defaults that can't be expressed in TOML.
func applyDefaults(cfg *Config) error {
	if cfg.Emoji.File == "" {
		cfg.Emoji.File = filepath.Join(Dir(), "emojis.json")
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(consts.CacheDir, "messages")
	}
	if cfg.Timestamps.Format == "" {
		cfg.Timestamps.Format = "15:04:05"
	}

	var err error
	if cfg.Emoji.File, err = homedir.Expand(cfg.Emoji.File); err != nil {
		return fmt.Errorf("expanding emoji.file: %w", err)
	}
	if cfg.Cache.Dir, err = homedir.Expand(cfg.Cache.Dir); err != nil {
		return fmt.Errorf("expanding cache.dir: %w", err)
	}
	return nil
}

// validate checks that config values are within acceptable ranges.
func validate(cfg *Config) error {
	if cfg.MessagesLimit < 1 || cfg.MessagesLimit > 100 {
		return fmt.Errorf("messages_limit must be between 1 and 100, got %d", cfg.MessagesLimit)
	}
	if cfg.SyncIntervalMS < 100 {
		return fmt.Errorf("sync_interval_ms must be >= 100, got %d", cfg.SyncIntervalMS)
	}
	if cfg.Emoji.Suggestions < 0 {
		return fmt.Errorf("emoji.suggestions must be >= 0, got %d", cfg.Emoji.Suggestions)
	}
	return nil
}
