// Package main provides the pymus entry point.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/andrewgepearce/pymus/internal/app/browser"
	"github.com/andrewgepearce/pymus/internal/app/playback"
	"github.com/andrewgepearce/pymus/internal/app/session"
	"github.com/andrewgepearce/pymus/internal/domain/queue"
	"github.com/andrewgepearce/pymus/internal/infra/audio"
	"github.com/andrewgepearce/pymus/internal/infra/config"
	"github.com/andrewgepearce/pymus/internal/infra/logger"
	"github.com/andrewgepearce/pymus/internal/infra/tags"
	"github.com/andrewgepearce/pymus/internal/ui"
)

var (
	app         = kingpin.New("pymus", "Terminal music player")
	configPath  = app.Flag("config", "Path to config file").Default(defaultConfigPath()).String()
	rootDir     = app.Flag("root", "Music library root").String()
	sessionPath = app.Flag("session", "Path to session file").String()
	verbose     = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile     = app.Flag("logfile", "Path to log file").String()
)

func defaultConfigPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v + "/pymus/config.yaml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return home + "/.config/pymus/config.yaml"
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pymus: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override file and environment values.
	if *rootDir != "" {
		cfg.Library.Root = *rootDir
	}
	if *sessionPath != "" {
		cfg.Session.Path = *sessionPath
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logfile != "" {
		cfg.Log.File = *logfile
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		fmt.Fprintf(os.Stderr, "pymus: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Err(err).Msg("exiting with error")
		fmt.Fprintf(os.Stderr, "pymus: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if w < cfg.UI.MinColumns || h < cfg.UI.MinRows {
			return fmt.Errorf("terminal %dx%d is below the minimum %dx%d",
				w, h, cfg.UI.MinColumns, cfg.UI.MinRows)
		}
	}

	keys := ui.DefaultKeymap()
	bindings, err := cfg.KeyBindings()
	if err != nil {
		return err
	}
	if err := keys.Apply(bindings); err != nil {
		return err
	}

	// No playback without a speaker: engine init failure is fatal.
	engine := audio.NewEngine()
	if err := engine.Init(cfg.PlaybackBuffer()); err != nil {
		return fmt.Errorf("audio engine unavailable: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			zlog.Warn().Err(err).Msg("audio engine close failed")
		}
	}()

	zlog.Info().Str("root", cfg.Library.Root).Msg("starting")

	q := queue.New()
	store := session.NewStore(cfg.Session.Path)
	session.Restore(store.Load(), q)

	b := browser.New(cfg.Library.Root, cfg.Library.Extensions)
	ctrl := playback.NewController(engine, q)
	model := ui.New(cfg, keys, b, q, ctrl, tags.NewCache())

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("ui error: %w", err)
	}

	// Persist the queue exactly once, on clean shutdown. A save
	// failure costs this run's queue, nothing more.
	if m, ok := final.(ui.Model); ok {
		if err := store.Save(session.FromQueue(m.Queue())); err != nil {
			zlog.Warn().Err(err).Msg("session not persisted")
			fmt.Fprintf(os.Stderr, "pymus: warning: session not persisted: %v\n", err)
		}
	}

	zlog.Info().Msg("clean shutdown")
	return nil
}
