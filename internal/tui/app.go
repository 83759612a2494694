// Package tui is the terminal front end. App runs a Bubble Tea program and
// serves as the human's game.Input, the session's game.Menu and a
// game.Observer that writes every event to the log pane.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/headsup/internal/display"
	"github.com/lox/headsup/internal/game"
)

// DefaultStartingChips is used when the starting chips prompt is left empty.
const DefaultStartingChips = 1000

// MainChoice is picked from the main menu.
type MainChoice int

const (
	StartGame MainChoice = iota
	ShowRules
	Exit
)

type sender interface {
	Send(msg tea.Msg)
}

// App connects the game to the terminal.
type App struct {
	program *tea.Program
	send    sender
	model   *Model
	styles  *display.Styles
	logger  *log.Logger
	done    chan struct{}
	err     error

	mu      sync.Mutex
	pending int // amount typed along with a bet or raise
}

// New creates an App. Options are passed to tea.NewProgram.
func New(format *display.Formatter, logger *log.Logger, opts ...tea.ProgramOption) *App {
	model := NewModel(format, logger)
	program := tea.NewProgram(model, opts...)
	a := newApp(model, program, logger)
	a.program = program
	return a
}

func newApp(model *Model, send sender, logger *log.Logger) *App {
	return &App{
		send:   send,
		model:  model,
		styles: model.styles,
		logger: logger.WithPrefix("tui"),
		done:   make(chan struct{}),
	}
}

// Start runs the program in the background.
func (a *App) Start() {
	go func() {
		defer close(a.done)
		if _, err := a.program.Run(); err != nil {
			a.logger.Error("TUI stopped", "error", err)
			a.err = err
		}
	}()
}

// Close stops the program and waits for the terminal to be restored.
func (a *App) Close() error {
	a.send.Send(quitMsg{})
	<-a.done
	return a.err
}

// Done is closed when the program exits.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// OnEvent writes the event to the log pane.
func (a *App) OnEvent(e game.Event) {
	a.send.Send(eventMsg{event: e})
}

// Println writes lines to the log pane.
func (a *App) Println(lines ...string) {
	a.send.Send(logMsg{lines: lines})
}

func (a *App) ask(ctx context.Context, p *prompt) (answer, error) {
	p.reply = make(chan answer, 1)
	a.send.Send(promptMsg{prompt: p})
	select {
	case ans := <-p.reply:
		return ans, ans.err
	case <-ctx.Done():
		a.send.Send(cancelMsg{})
		return answer{}, ctx.Err()
	case <-a.done:
		return answer{}, ErrQuit
	}
}

// MainMenu asks what to do before a game.
func (a *App) MainMenu(ctx context.Context) (MainChoice, error) {
	ans, err := a.ask(ctx, &prompt{
		title: "Heads-up Hold'em",
		options: []option{
			{label: "Start game", keys: []string{"start", "s", "play"}},
			{label: "Rules", keys: []string{"rules", "r"}},
			{label: "Quit", keys: []string{"quit", "q", "exit"}},
		},
	})
	if err != nil {
		return Exit, err
	}
	return MainChoice(ans.index), nil
}

// Rules writes the rules to the log pane.
func (a *App) Rules() {
	a.Println(strings.Split(a.styles.Rules(), "\n")...)
}

// ChooseAction asks for one of the offered actions. An amount typed after
// a bet or raise, as in "raise 200", answers the following amount prompt.
func (a *App) ChooseAction(ctx context.Context, ap game.ActionPrompt) (game.Action, error) {
	format := a.model.format
	opts := make([]option, len(ap.Options))
	for i, act := range ap.Options {
		opts[i] = option{label: format.Option(act, ap.View), keys: actionKeys[act]}
	}
	title := "Your move"
	if len(ap.Options) == 2 && ap.View.OpponentAllIn {
		title = "Your opponent is all-in"
	}
	ans, err := a.ask(ctx, &prompt{
		title:       title,
		info:        format.Prompt(ap.View),
		placeholder: "call, check, raise 200, fold...",
		options:     opts,
	})
	if err != nil {
		return game.Fold, err
	}

	action := ap.Options[ans.index]
	a.mu.Lock()
	a.pending = 0
	if (action == game.Bet || action == game.Raise) && len(ans.args) > 0 {
		if n, err := strconv.Atoi(ans.args[0]); err == nil {
			a.pending = n
		}
	}
	a.mu.Unlock()
	return action, nil
}

// ChooseAmount asks for a bet between lo and hi.
func (a *App) ChooseAmount(ctx context.Context, lo, hi int) (int, error) {
	a.mu.Lock()
	pending := a.pending
	a.pending = 0
	a.mu.Unlock()
	if pending >= lo && pending <= hi {
		return pending, nil
	}

	ans, err := a.ask(ctx, &prompt{
		title:       fmt.Sprintf("How much? ($%d-$%d)", lo, hi),
		placeholder: strconv.Itoa(lo),
		validate:    intBetween(lo, hi),
	})
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(ans.text)
	return n, nil
}

// PlayerName asks for the human's name.
func (a *App) PlayerName(ctx context.Context) (string, error) {
	ans, err := a.ask(ctx, &prompt{
		title:       "What's your name?",
		placeholder: game.DefaultPlayerName,
		validate: func(s string) error {
			if len(s) > 20 {
				return fmt.Errorf("keep it under 20 characters")
			}
			return nil
		},
	})
	return ans.text, err
}

// StartingChips asks for the starting stack.
func (a *App) StartingChips(ctx context.Context, lo, hi int) (int, error) {
	check := intBetween(lo, hi)
	ans, err := a.ask(ctx, &prompt{
		title:       fmt.Sprintf("Starting chips ($%d-$%d)", lo, hi),
		placeholder: strconv.Itoa(DefaultStartingChips),
		validate: func(s string) error {
			if s == "" {
				return nil
			}
			return check(s)
		},
	})
	if err != nil {
		return 0, err
	}
	if ans.text == "" {
		return DefaultStartingChips, nil
	}
	n, _ := strconv.Atoi(ans.text)
	return n, nil
}

// Difficulty asks for the AI tier.
func (a *App) Difficulty(ctx context.Context) (game.Difficulty, error) {
	opts := make([]option, len(game.Difficulties))
	for i, d := range game.Difficulties {
		name := strings.ToLower(d.String())
		opts[i] = option{label: d.String(), keys: []string{name, name[:1]}}
	}
	ans, err := a.ask(ctx, &prompt{title: "Choose difficulty", options: opts})
	if err != nil {
		return 0, err
	}
	return game.Difficulties[ans.index], nil
}

// AfterRound asks what to do next.
func (a *App) AfterRound(ctx context.Context, _ game.RoundResult) (game.MenuChoice, error) {
	ans, err := a.ask(ctx, &prompt{
		title: "What next?",
		options: []option{
			{label: game.PlayAgain.String(), keys: []string{"play", "p", "again"}},
			{label: game.ChangeDifficulty.String(), keys: []string{"change", "difficulty", "d"}},
			{label: game.Quit.String(), keys: []string{"quit", "q"}},
		},
	})
	if err != nil {
		return game.Quit, err
	}
	return []game.MenuChoice{game.PlayAgain, game.ChangeDifficulty, game.Quit}[ans.index], nil
}
