// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Library  LibraryConfig  `yaml:"library"`
	Playback PlaybackConfig `yaml:"playback"`
	UI       UIConfig       `yaml:"ui"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
	Bindings map[string]any `yaml:"bindings"`
}

// LibraryConfig represents library browsing configuration.
type LibraryConfig struct {
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions" default:"[\".mp3\", \".wav\", \".flac\", \".ogg\"]"`
}

// PlaybackConfig represents playback control configuration.
type PlaybackConfig struct {
	PollIntervalMs int `yaml:"poll_interval_ms" default:"200" validate:"gte=50,lte=2000"`
	BufferMs       int `yaml:"buffer_ms" default:"100" validate:"gte=10,lte=1000"`
}

// UIConfig represents terminal UI configuration.
type UIConfig struct {
	PageSize   int `yaml:"page_size" default:"10" validate:"gte=1,lte=100"`
	MinColumns int `yaml:"min_columns" default:"60" validate:"gte=20"`
	MinRows    int `yaml:"min_rows" default:"12" validate:"gte=6"`
}

// SessionConfig represents session persistence configuration.
type SessionConfig struct {
	Path string `yaml:"path"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `yaml:"level" default:"info"`
	File  string `yaml:"file"`
}

// Load loads configuration from a YAML file. A missing file is not an
// error: the application must run with zero configuration, so defaults
// apply. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.setComputedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("PYMUS_ROOT"); v != "" {
		c.Library.Root = v
	}
	if v := os.Getenv("PYMUS_SESSION"); v != "" {
		c.Session.Path = v
	}
	if v := os.Getenv("PYMUS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PYMUS_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("PYMUS_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Playback.PollIntervalMs = n
		}
	}
}

// setComputedDefaults fills defaults that depend on the environment.
func (c *Config) setComputedDefaults() {
	if c.Library.Root == "" {
		c.Library.Root = defaultRoot()
	}
	if c.Session.Path == "" {
		c.Session.Path = filepath.Join(stateDir(), "session.json")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(stateDir(), "pymus.log")
	}
}

// defaultRoot prefers $HOME/Music when it exists, falling back to the
// home directory itself.
func defaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	music := filepath.Join(home, "Music")
	if info, err := os.Stat(music); err == nil && info.IsDir() {
		return music
	}
	return home
}

// stateDir returns the user-scoped state directory
// ($XDG_STATE_HOME/pymus or ~/.local/state/pymus).
func stateDir() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, "pymus")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pymus-state"
	}
	return filepath.Join(home, ".local", "state", "pymus")
}

// PollInterval returns the playback poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Playback.PollIntervalMs) * time.Millisecond
}

// PlaybackBuffer returns the speaker buffer length.
func (c *Config) PlaybackBuffer() time.Duration {
	return time.Duration(c.Playback.BufferMs) * time.Millisecond
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	if _, err := c.KeyBindings(); err != nil {
		return err
	}
	return nil
}

// KeyBindings decodes the free-form bindings section into an
// action→key map. Only string values are accepted.
func (c *Config) KeyBindings() (map[string]string, error) {
	if len(c.Bindings) == 0 {
		return nil, nil
	}
	var bindings map[string]string
	if err := mapstructure.Decode(c.Bindings, &bindings); err != nil {
		return nil, errors.Wrap(err, "invalid bindings section")
	}
	return bindings, nil
}
