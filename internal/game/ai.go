package game

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
)

// HandSignal summarises the AI's hand for the policy.
type HandSignal struct {
	Preflop  bool
	Score    int                // pre-flop heuristic, 1-9
	Category evaluator.Category // best category with the board
	Equity   float64            // simulated win probability
}

// Strength is the value compared against strength thresholds: the pre-flop
// score before the flop, the category strength after it.
func (s HandSignal) Strength() int {
	if s.Preflop {
		return s.Score
	}
	return s.Category.Strength()
}

// Situation is the betting context of a decision.
type Situation struct {
	CurrentBet int // chips needed to call
	Pot        int
	Stage      Stage
	Chips      int
}

// PotOdds is the price of a call relative to the pot it would create.
func (s Situation) PotOdds() float64 {
	if s.CurrentBet <= 0 {
		return 0
	}
	return float64(s.CurrentBet) / float64(s.Pot+s.CurrentBet)
}

// AIEngine turns hand signals into betting actions.
type AIEngine struct {
	sim    *equity.Simulator
	logger *log.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	profiles map[Difficulty]Profile
}

// NewAIEngine creates an engine that draws bluff rolls from rng and equity
// from sim.
func NewAIEngine(sim *equity.Simulator, rng *rand.Rand, logger *log.Logger) *AIEngine {
	return &AIEngine{
		sim:      sim,
		rng:      rng,
		logger:   logger.WithPrefix("ai"),
		profiles: DefaultProfiles(),
	}
}

// Profile returns the table for d.
func (e *AIEngine) Profile(d Difficulty) (Profile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.profiles[d]
	return p, ok
}

// SetProfile replaces the table for d.
func (e *AIEngine) SetProfile(d Difficulty, p Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profiles[d] = p
}

// ResetCache drops every memoized equity estimate.
func (e *AIEngine) ResetCache() {
	if c := e.sim.Cache(); c != nil {
		c.Clear()
	}
}

// Signal evaluates hole cards against the board for a tier.
func (e *AIEngine) Signal(ctx context.Context, hole, board []deck.Card, d Difficulty) (HandSignal, error) {
	if len(board) == 0 {
		score, err := evaluator.PreflopScore(hole)
		if err != nil {
			return HandSignal{}, err
		}
		return HandSignal{Preflop: true, Score: score}, nil
	}

	rank, err := evaluator.Evaluate(append(append([]deck.Card{}, hole...), board...))
	if err != nil {
		return HandSignal{}, err
	}
	signal := HandSignal{Category: rank.Category()}

	p, ok := e.Profile(d)
	if !ok {
		return signal, nil
	}
	res, err := e.sim.Estimate(ctx, equity.Request{
		Hole:       hole,
		Board:      board,
		Mode:       p.Simulation.Mode,
		Trials:     p.Simulation.Trials,
		Threshold:  p.Simulation.Threshold,
		TimeBudget: p.Simulation.TimeBudget,
	})
	if err != nil {
		return HandSignal{}, fmt.Errorf("estimate equity: %w", err)
	}
	signal.Equity = res.Equity
	e.logger.Debug("Signal", "difficulty", d, "category", signal.Category, "equity", res.Equity, "trials", res.Trials, "cached", res.Cached)
	return signal, nil
}

// Decide picks an action. It never fails: an unknown difficulty or stage
// yields Check.
func (e *AIEngine) Decide(signal HandSignal, sit Situation, d Difficulty) Action {
	p, ok := e.Profile(d)
	if !ok {
		return Check
	}
	if sit.Chips <= 0 {
		return Check
	}
	if sit.Chips < sit.CurrentBet {
		return e.shortStack(p, signal, sit)
	}
	switch sit.Stage {
	case PreFlop:
		return preflop(p, signal, sit)
	case Flop, Turn, River:
		return e.postflop(p, signal, sit)
	}
	return Check
}

// DecideAllInCall answers an opponent's all-in with Call or Fold. An unknown
// difficulty calls, since Check is not a legal answer to an all-in.
func (e *AIEngine) DecideAllInCall(signal HandSignal, sit Situation, d Difficulty) Action {
	p, ok := e.Profile(d)
	if !ok {
		return Call
	}
	strong := signal.Strength() >= p.CallAllInStrength
	odds := sit.PotOdds()
	if p.CallAllInNeedBoth {
		if strong && odds <= p.CallAllInPotOdds {
			return Call
		}
		return Fold
	}
	if strong || odds < p.CallAllInPotOdds {
		return Call
	}
	return Fold
}

func (e *AIEngine) shortStack(p Profile, signal HandSignal, sit Situation) Action {
	if signal.Strength() >= p.ShortStackAllIn {
		return AllIn
	}
	if sit.Stage == River && e.roll(p.ShortStackRiverBluff) {
		return AllIn
	}
	return p.ShortStackSafe
}

func preflop(p Profile, signal HandSignal, sit Situation) Action {
	switch {
	case signal.Score >= p.PreflopRaise:
		return aggressive(sit)
	case signal.Score < p.PreflopFold && sit.CurrentBet > 0:
		return Fold
	}
	return passive(sit)
}

func (e *AIEngine) postflop(p Profile, signal HandSignal, sit Situation) Action {
	win := signal.Equity
	river := sit.Stage == River

	switch {
	case win < p.FoldBelow && sit.CurrentBet > 0:
		return Fold
	case win < p.BluffBelow && sit.Pot > p.BluffMinPot && e.roll(p.BluffChance):
		return aggressive(sit)
	case river && win > p.ShoveAbove && e.roll(p.ShoveChance):
		return AllIn
	case win < p.PassiveBelow:
		return passive(sit)
	case river && win < p.ValueAbove && e.roll(p.RiverBluffChance):
		return aggressive(sit)
	case win > p.ValueAbove && e.roll(p.ValueChance):
		return aggressive(sit)
	}

	switch p.Default {
	case DefaultLead:
		if sit.CurrentBet == 0 {
			return Bet
		}
		return Call
	case DefaultPotOdds:
		if sit.PotOdds() < win {
			return passive(sit)
		}
		if sit.CurrentBet == 0 {
			return Check
		}
		return Fold
	}
	return passive(sit)
}

// roll succeeds with probability chance.
func (e *AIEngine) roll(chance float64) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 1 {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64() < chance
}

func aggressive(sit Situation) Action {
	if sit.CurrentBet == 0 {
		return Bet
	}
	return Raise
}

func passive(sit Situation) Action {
	if sit.CurrentBet == 0 {
		return Check
	}
	return Call
}
