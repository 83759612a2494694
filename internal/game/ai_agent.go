package game

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// AIAgent plays a seat with an AIEngine at a difficulty that may change
// between rounds.
type AIAgent struct {
	engine *AIEngine
	logger *log.Logger

	mu         sync.RWMutex
	difficulty Difficulty
}

// NewAIAgent creates an AI seat.
func NewAIAgent(engine *AIEngine, d Difficulty, logger *log.Logger) *AIAgent {
	return &AIAgent{engine: engine, difficulty: d, logger: logger.WithPrefix("ai-agent")}
}

// Difficulty returns the current tier.
func (a *AIAgent) Difficulty() Difficulty {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.difficulty
}

// SetDifficulty changes the tier for later decisions.
func (a *AIAgent) SetDifficulty(d Difficulty) {
	a.mu.Lock()
	a.difficulty = d
	a.mu.Unlock()
}

// Act decides and then shapes the engine's action into one of valid with
// an amount the stack can cover.
func (a *AIAgent) Act(ctx context.Context, v View, valid []Action) (Decision, error) {
	d := a.Difficulty()
	signal, err := a.engine.Signal(ctx, v.Hole, v.Board, d)
	if err != nil {
		return Decision{}, err
	}
	sit := Situation{CurrentBet: v.ToCall, Pot: v.Pot, Stage: v.Stage, Chips: v.Chips}
	action := a.engine.Decide(signal, sit, d)
	decision := a.shape(action, v, valid, d)

	a.logger.Debug("Decision", "stage", v.Stage, "difficulty", d, "strength", signal.Strength(),
		"equity", signal.Equity, "engine", action, "action", decision.Action, "amount", decision.Amount)
	return decision, nil
}

// RespondToAllIn uses the tier's all-in calling thresholds.
func (a *AIAgent) RespondToAllIn(ctx context.Context, v View) (Action, error) {
	d := a.Difficulty()
	signal, err := a.engine.Signal(ctx, v.Hole, v.Board, d)
	if err != nil {
		return Fold, err
	}
	sit := Situation{CurrentBet: v.ToCall, Pot: v.Pot, Stage: v.Stage, Chips: v.Chips}
	action := a.engine.DecideAllInCall(signal, sit, d)
	a.logger.Debug("All-in response", "difficulty", d, "strength", signal.Strength(), "pot_odds", sit.PotOdds(), "action", action)
	return action, nil
}

func (a *AIAgent) shape(action Action, v View, valid []Action, d Difficulty) Decision {
	reason := "policy " + d.String()
	switch action {
	case Check, Call:
		if v.ToCall > 0 {
			action = Call
		} else {
			action = Check
		}
	case Bet, Raise:
		if v.ToCall > 0 {
			action = Raise
		} else {
			action = Bet
		}
	}

	if action == Bet || action == Raise {
		raise := v.MinRaise
		if p, ok := a.engine.Profile(d); ok && p.RaiseSize > raise {
			raise = p.RaiseSize
		}
		amount := v.ToCall + raise
		if amount >= v.Chips || !slices.Contains(valid, action) {
			return Decision{Action: AllIn, Amount: v.Chips, Reasoning: reason}
		}
		return Decision{Action: action, Amount: amount, Reasoning: reason}
	}

	if action == Call && !slices.Contains(valid, Call) {
		action = AllIn
	}
	if !slices.Contains(valid, action) {
		action = valid[0]
	}
	return Decision{Action: action, Reasoning: reason}
}
