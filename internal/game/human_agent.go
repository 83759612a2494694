package game

import (
	"context"
	"fmt"
	"slices"
)

// HumanAgent asks an Input for every decision.
type HumanAgent struct {
	input Input
}

// NewHumanAgent creates a human agent reading from input.
func NewHumanAgent(input Input) *HumanAgent {
	return &HumanAgent{input: input}
}

// Act prompts for an action and, for bets and raises, an amount between the
// minimum raise and the whole stack.
func (h *HumanAgent) Act(ctx context.Context, v View, valid []Action) (Decision, error) {
	action, err := h.input.ChooseAction(ctx, ActionPrompt{View: v, Options: valid})
	if err != nil {
		return Decision{}, fmt.Errorf("choose action: %w", err)
	}
	if !slices.Contains(valid, action) {
		return Decision{Action: action}, nil
	}

	d := Decision{Action: action, Reasoning: "player choice"}
	if action == Bet || action == Raise {
		lo := min(v.ToCall+v.MinRaise, v.Chips)
		amount, err := h.input.ChooseAmount(ctx, lo, v.Chips)
		if err != nil {
			return Decision{}, fmt.Errorf("choose amount: %w", err)
		}
		d.Amount = amount
	}
	return d, nil
}

// RespondToAllIn offers only Call and Fold.
func (h *HumanAgent) RespondToAllIn(ctx context.Context, v View) (Action, error) {
	action, err := h.input.ChooseAction(ctx, ActionPrompt{View: v, Options: []Action{Call, Fold}})
	if err != nil {
		return Fold, fmt.Errorf("respond to all-in: %w", err)
	}
	return action, nil
}
