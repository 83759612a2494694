package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/headsup/internal/deck"
)

// Starting stack limits offered by the menu.
const (
	MinStartingChips = 500
	MaxStartingChips = 10000
)

// DefaultPlayerName is used when the human gives no name.
const DefaultPlayerName = "Player"

// SessionConfig holds the game settings.
type SessionConfig struct {
	AIName   string
	MinRaise int
}

// SessionResult summarises a finished session.
type SessionResult struct {
	Winner     string
	Rounds     int
	HumanChips int
	AIChips    int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionObserver receives every event of every round.
func WithSessionObserver(o Observer) SessionOption {
	return func(s *Session) { s.observer = o }
}

// WithSessionClock sets the clock used to timestamp events.
func WithSessionClock(c quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// Session plays rounds until a player is out of chips or the human quits.
type Session struct {
	cfg      SessionConfig
	menu     Menu
	input    Input
	engine   *AIEngine
	deck     *deck.Deck
	observer Observer
	clock    quartz.Clock
	logger   *log.Logger
}

// NewSession wires a game. The deck is shared by every round.
func NewSession(cfg SessionConfig, menu Menu, input Input, engine *AIEngine, d *deck.Deck, opts ...SessionOption) *Session {
	if cfg.AIName == "" {
		cfg.AIName = "Computer"
	}
	if cfg.MinRaise <= 0 {
		cfg.MinRaise = 50
	}
	s := &Session{
		cfg:    cfg,
		menu:   menu,
		input:  input,
		engine: engine,
		deck:   d,
		clock:  quartz.NewReal(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run asks for the session settings and plays until the game ends. Aborted
// rounds are reported and play continues.
func (s *Session) Run(ctx context.Context) (SessionResult, error) {
	s.engine.ResetCache()

	name, err := s.menu.PlayerName(ctx)
	if err != nil {
		return SessionResult{}, fmt.Errorf("player name: %w", err)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultPlayerName
	}
	chips, err := s.menu.StartingChips(ctx, MinStartingChips, MaxStartingChips)
	if err != nil {
		return SessionResult{}, fmt.Errorf("starting chips: %w", err)
	}
	chips = min(max(chips, MinStartingChips), MaxStartingChips)
	difficulty, err := s.menu.Difficulty(ctx)
	if err != nil {
		return SessionResult{}, fmt.Errorf("difficulty: %w", err)
	}

	human := NewPlayer(name, chips)
	ai := NewPlayer(s.cfg.AIName, chips)
	aiAgent := NewAIAgent(s.engine, difficulty, s.logger)
	round := NewRound(RoundConfig{MinRaise: s.cfg.MinRaise}, s.deck,
		Seat{Player: human, Agent: NewHumanAgent(s.input)},
		Seat{Player: ai, Agent: aiAgent},
		WithObserver(s.observer),
		WithRoundClock(s.clock),
		WithRoundLogger(s.logger),
	)
	s.logger.Info("Session started", "player", name, "chips", chips, "difficulty", difficulty)

	result := SessionResult{}
	for {
		res, err := round.Play(ctx)
		result.Rounds++
		if err != nil {
			if ctx.Err() != nil {
				return s.end(result, human, ai), ctx.Err()
			}
			s.logger.Error("Round aborted", "round", result.Rounds, "error", err)
			s.emit(RoundAbortedEvent{
				Number:    result.Rounds,
				Err:       err,
				Stacks:    Stacks{Human: human.Chips(), AI: ai.Chips()},
				timestamp: s.clock.Now(),
			})
		}

		switch {
		case human.IsBusted():
			result.Winner = ai.Name
			return s.end(result, human, ai), nil
		case ai.IsBusted():
			result.Winner = human.Name
			return s.end(result, human, ai), nil
		}

		choice, err := s.menu.AfterRound(ctx, res)
		if err != nil {
			return s.end(result, human, ai), fmt.Errorf("post-round menu: %w", err)
		}
		switch choice {
		case Quit:
			return s.end(result, human, ai), nil
		case ChangeDifficulty:
			d, err := s.menu.Difficulty(ctx)
			if err != nil {
				return s.end(result, human, ai), fmt.Errorf("difficulty: %w", err)
			}
			aiAgent.SetDifficulty(d)
			s.logger.Info("Difficulty changed", "difficulty", d)
		}
	}
}

func (s *Session) end(result SessionResult, human, ai *Player) SessionResult {
	result.HumanChips = human.Chips()
	result.AIChips = ai.Chips()
	s.logger.Info("Session finished", "rounds", result.Rounds, "winner", result.Winner)
	s.emit(GameOverEvent{
		Winner:    result.Winner,
		Rounds:    result.Rounds,
		Stacks:    Stacks{Human: result.HumanChips, AI: result.AIChips},
		timestamp: s.clock.Now(),
	})
	return result
}

func (s *Session) emit(e Event) {
	if s.observer != nil {
		s.observer.OnEvent(e)
	}
}
