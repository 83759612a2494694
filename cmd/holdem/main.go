package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/display"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/tui"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Config     string           `short:"c" default:"${config_file}" env:"HOLDEM_CONFIG" help:"HCL configuration file (defaults are used when missing)"`
	LogFile    string           `default:"holdem.log" env:"HOLDEM_LOG_FILE" help:"Debug log file"`
	Debug      bool             `env:"HOLDEM_DEBUG" help:"Enable debug logging"`
	Seed       int64            `env:"HOLDEM_SEED" help:"Random seed for reproducible games (0 picks one)"`
	NoColor    bool             `env:"HOLDEM_NO_COLOR" help:"Disable colours"`
	Transcript string           `env:"HOLDEM_TRANSCRIPT" help:"Also write a plain-text log of every round to this file"`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Heads-up Texas Hold'em against the computer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	ctx.FatalIfErrorf(cli.Run())
}

func (c *CLI) Run() error {
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create debug log: %w", err)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "holdem",
	})
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting", "version", version, "seed", seed, "config", c.Config)

	sim := equity.NewSimulator(cfg.Simulator, randutil.New(randutil.Derive(seed, 0)),
		equity.WithCache(equity.NewCache(cfg.Simulator.QualityFloor)),
		equity.WithLogger(logger),
	)
	engine := game.NewAIEngine(sim, randutil.New(randutil.Derive(seed, 1)), logger)
	for d, p := range cfg.Profiles {
		engine.SetProfile(d, p)
	}

	var profile *termenv.Profile
	if c.NoColor {
		ascii := termenv.Ascii
		profile = &ascii
	}
	styles := display.NewStyles(display.NewRenderer(os.Stdout, profile))

	observers := []game.Observer{}
	if c.Transcript != "" {
		transcript, err := os.Create(c.Transcript)
		if err != nil {
			return fmt.Errorf("failed to create transcript: %w", err)
		}
		defer transcript.Close()
		observers = append(observers, newTranscript(transcript))
	}

	app := tui.New(display.NewFormatter(styles), logger, tea.WithAltScreen())
	app.Start()
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close TUI", "error", err)
		}
	}()
	observers = append(observers, app)

	runCtx := setupSignalHandler(logger, app.Done())

	d := deck.NewDeck(randutil.New(seed))
	for {
		choice, err := app.MainMenu(runCtx)
		if err != nil {
			return quietExit(err)
		}

		switch choice {
		case tui.StartGame:
			session := game.NewSession(
				game.SessionConfig{AIName: cfg.AIName, MinRaise: cfg.MinRaise},
				app, app, engine, d,
				game.WithSessionObserver(game.MultiObserver(observers...)),
				game.WithSessionLogger(logger),
			)
			result, err := session.Run(runCtx)
			if err != nil {
				return quietExit(err)
			}
			logger.Debug("Back to main menu", "winner", result.Winner, "rounds", result.Rounds,
				"human_chips", result.HumanChips, "ai_chips", result.AIChips)
		case tui.ShowRules:
			app.Rules()
		case tui.Exit:
			logger.Info("Exiting")
			return nil
		}
	}
}

func newTranscript(w io.Writer) *display.Writer {
	return display.NewWriter(w, display.NewFormatter(display.NewStyles(display.Plain(w))))
}

// quietExit treats the player closing the window or interrupting as a
// normal exit.
func quietExit(err error) error {
	if errors.Is(err, tui.ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// setupSignalHandler returns a context cancelled on interrupt signals or
// when done is closed.
func setupSignalHandler(logger *log.Logger, done <-chan struct{}) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
		case <-done:
		}
		cancel()
	}()

	return ctx
}
