package game

import (
	"context"

	"github.com/lox/headsup/internal/deck"
)

// View is the read-only state an agent decides from. Only the acting
// player's hole cards are included.
type View struct {
	Name          string
	Stage         Stage
	Hole          []deck.Card
	Board         []deck.Card
	Pot           int
	ToCall        int // chips needed to match the current bet
	Chips         int
	OpponentChips int
	OpponentAllIn bool
	MinRaise      int
}

// Agent makes decisions for one seat. Agents never mutate game state.
type Agent interface {
	// Act chooses one of valid for the current street.
	Act(ctx context.Context, v View, valid []Action) (Decision, error)
	// RespondToAllIn answers an opponent's all-in with Call or Fold.
	RespondToAllIn(ctx context.Context, v View) (Action, error)
}

// ActionPrompt is what a human is asked to choose from.
type ActionPrompt struct {
	View    View
	Options []Action
}

// Input supplies the human's choices. Implementations re-prompt on invalid
// input and only return an error when input is no longer possible.
type Input interface {
	ChooseAction(ctx context.Context, prompt ActionPrompt) (Action, error)
	ChooseAmount(ctx context.Context, min, max int) (int, error)
}

// MenuChoice is picked after every round.
type MenuChoice int

const (
	PlayAgain MenuChoice = iota + 1
	ChangeDifficulty
	Quit
)

func (c MenuChoice) String() string {
	switch c {
	case PlayAgain:
		return "Play again"
	case ChangeDifficulty:
		return "Change difficulty"
	case Quit:
		return "Quit"
	}
	return "Unknown"
}

// Menu supplies session setup and the post-round choice.
type Menu interface {
	PlayerName(ctx context.Context) (string, error)
	StartingChips(ctx context.Context, min, max int) (int, error)
	Difficulty(ctx context.Context) (Difficulty, error)
	AfterRound(ctx context.Context, summary RoundResult) (MenuChoice, error)
}
