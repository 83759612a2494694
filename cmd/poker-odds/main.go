package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/display"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version       kong.VersionFlag `short:"v" help:"Show version"`
	Hand          string           `arg:"" help:"Hole cards, e.g. 'AcKd' or 'Ac Kd'"`
	Board         string           `short:"b" help:"Community cards (e.g., 'Td7s8h')"`
	Possibilities bool             `short:"p" help:"Show how often each hand category is made"`
	Trials        int              `short:"t" default:"100000" help:"Monte Carlo trials (ceiling in confidence mode)"`
	Mode          string           `short:"m" default:"fixed" enum:"fixed,adaptive,confidence" help:"Simulation mode (fixed, adaptive, confidence)"`
	Threshold     float64          `default:"0.001" help:"Confidence mode stops once batch estimates move less than this"`
	Timeout       time.Duration    `default:"10s" help:"Give up after this long"`
	Seed          int64            `help:"Random seed for reproducible results (0 picks one)"`
	Workers       int              `short:"w" default:"8" help:"Parallel simulation workers"`
	NoColor       bool             `help:"Disable colours"`
	Debug         bool             `help:"Log simulator progress to stderr"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Equity of a heads-up hand against a random opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	ctx.FatalIfErrorf(cli.Run())
}

func (c *CLI) Run() error {
	hole, err := parseHand(c.Hand)
	if err != nil {
		return err
	}
	board, err := parseBoard(c.Board)
	if err != nil {
		return err
	}
	if err := validateNoDuplicates(hole, board); err != nil {
		return err
	}
	mode, err := equity.ParseMode(c.Mode)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard)
	if c.Debug {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "poker-odds", Level: log.DebugLevel})
	}

	cfg := equity.DefaultConfig()
	cfg.DefaultTrials = c.Trials
	cfg.MaxWorkers = max(c.Workers, 1)
	sim := equity.NewSimulator(cfg, randutil.New(randutil.Seed(c.Seed)), equity.WithLogger(logger))

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	start := time.Now()
	res, err := sim.Estimate(ctx, equity.Request{
		Hole:      hole,
		Board:     board,
		Mode:      mode,
		Trials:    c.Trials,
		Threshold: c.Threshold,
	})
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	var profile *termenv.Profile
	if c.NoColor {
		ascii := termenv.Ascii
		profile = &ascii
	}
	styles := newStyles(display.NewRenderer(os.Stdout, profile))
	styles.report(os.Stdout, hole, board, res, c.Possibilities)
	fmt.Printf("\n%d trials (%s) in %v\n", res.Trials, mode, time.Since(start).Truncate(time.Millisecond))
	return nil
}

type styles struct {
	header   lipgloss.Style
	hand     lipgloss.Style
	win      lipgloss.Style
	tie      lipgloss.Style
	loss     lipgloss.Style
	category lipgloss.Style
	percent  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		hand:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		win:      r.NewStyle().Foreground(lipgloss.Color("10")),
		tie:      r.NewStyle().Foreground(lipgloss.Color("11")),
		loss:     r.NewStyle().Foreground(lipgloss.Color("9")),
		category: r.NewStyle().Foreground(lipgloss.Color("12")),
		percent:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func parseHand(s string) ([]deck.Card, error) {
	hand, err := deck.ParseCards(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if err != nil {
		return nil, fmt.Errorf("hand: %w", err)
	}
	if len(hand) != 2 {
		return nil, fmt.Errorf("hand: must contain exactly 2 cards, got %d", len(hand))
	}
	return hand, nil
}

func parseBoard(s string) ([]deck.Card, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return nil, nil
	}
	board, err := deck.ParseCards(s)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	switch len(board) {
	case 3, 4, 5:
		return board, nil
	}
	return nil, fmt.Errorf("board: must contain 3, 4 or 5 cards, got %d", len(board))
}

func validateNoDuplicates(hole, board []deck.Card) error {
	seen := make(map[deck.Card]bool)
	for _, card := range append(append([]deck.Card{}, hole...), board...) {
		if seen[card] {
			return fmt.Errorf("duplicate card: %s", card)
		}
		seen[card] = true
	}
	return nil
}

func (s styles) report(w io.Writer, hole, board []deck.Card, res equity.Result, possibilities bool) {
	if len(board) > 0 {
		fmt.Fprintf(w, "%s\n", s.header.Render("board"))
		fmt.Fprintf(w, "%s\n\n", deck.FormatCards(board))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		s.header.Render("hand"),
		s.header.Render("equity"),
		s.header.Render("win"),
		s.header.Render("tie"),
		s.header.Render("lose"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		s.hand.Render(deck.FormatCards(hole)),
		s.win.Render(pct(res.Equity)),
		s.win.Render(ratio(res.Wins, res.Trials)),
		s.tie.Render(ratio(res.Ties, res.Trials)),
		s.loss.Render(ratio(res.Losses, res.Trials)))
	tw.Flush()

	if key, ok := deck.StartingHandKey(hole); ok && len(board) == 0 {
		fmt.Fprintf(w, "\n%s %s, percentile %s\n",
			s.header.Render("class"), key, pct(deck.HandPercentile(hole)))
	}

	if possibilities && len(res.Categories) > 0 {
		fmt.Fprintln(w)
		s.categories(w, res)
	}
}

func (s styles) categories(w io.Writer, res equity.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", s.category.Render("made hand"), s.hand.Render("freq"))
	for c := evaluator.RoyalFlush; c >= evaluator.HighCard; c-- {
		n := res.Categories[c]
		if n == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", s.category.Render(c.String()), s.percent.Render(ratio(n, res.Trials)))
	}
	tw.Flush()
}

func ratio(n, total int) string {
	if total == 0 {
		return "."
	}
	return pct(float64(n) / float64(total))
}

func pct(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
