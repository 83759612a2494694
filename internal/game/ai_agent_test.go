package game

import (
	"context"
	"testing"

	"github.com/lox/headsup/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIAgentShape(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		toCall int
		chips  int
		want   Decision
	}{
		{"check facing bet calls", Check, 100, 1000, Decision{Action: Call}},
		{"call with nothing owed checks", Call, 0, 1000, Decision{Action: Check}},
		{"bet facing bet raises", Bet, 100, 1000, Decision{Action: Raise, Amount: 200}},
		{"raise with nothing owed bets", Raise, 0, 1000, Decision{Action: Bet, Amount: 100}},
		{"bet fits stack", Bet, 0, 120, Decision{Action: Bet, Amount: 100}},
		{"bet of whole stack is all-in", Bet, 0, 100, Decision{Action: AllIn, Amount: 100}},
		{"raise beyond stack is all-in", Raise, 100, 140, Decision{Action: AllIn, Amount: 140}},
		{"call beyond stack is all-in", Call, 500, 200, Decision{Action: AllIn}},
		{"all-in stays all-in", AllIn, 100, 1000, Decision{Action: AllIn}},
		{"fold stays fold", Fold, 100, 1000, Decision{Action: Fold}},
		{"no chips checks", Call, 100, 0, Decision{Action: Check}},
	}

	a := NewAIAgent(newDecider(1), Normal, quietLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := View{ToCall: tt.toCall, Chips: tt.chips, MinRaise: 50}
			valid := ValidActions(tt.toCall, tt.chips, 50)
			got := a.shape(tt.action, v, valid, Normal)
			assert.Equal(t, tt.want.Action, got.Action)
			assert.Equal(t, tt.want.Amount, got.Amount)
			assert.Contains(t, valid, got.Action)
		})
	}
}

func TestAIAgentActPreflop(t *testing.T) {
	a := NewAIAgent(newTestEngine(5), Beginner, quietLogger())
	v := View{Stage: PreFlop, Hole: deck.MustParseCards("AsAh"), Chips: 1000, OpponentChips: 1000, MinRaise: 50}

	d, err := a.Act(context.Background(), v, ValidActions(0, 1000, 50))
	require.NoError(t, err)
	assert.Equal(t, Bet, d.Action)
	assert.Equal(t, 75, d.Amount)
	assert.Equal(t, "policy Beginner", d.Reasoning)

	v.Hole = deck.MustParseCards("7d2c")
	v.ToCall = 100
	d, err = a.Act(context.Background(), v, ValidActions(100, 1000, 50))
	require.NoError(t, err)
	assert.Equal(t, Fold, d.Action)
}

func TestAIAgentRespondToAllIn(t *testing.T) {
	a := NewAIAgent(newTestEngine(5), Beginner, quietLogger())
	v := View{Stage: PreFlop, Hole: deck.MustParseCards("AsAh"), Pot: 1000, ToCall: 900, Chips: 1000}

	got, err := a.RespondToAllIn(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, Call, got)

	v.Hole = deck.MustParseCards("7d2c")
	got, err = a.RespondToAllIn(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, Fold, got)
}

func TestAIAgentSetDifficulty(t *testing.T) {
	a := NewAIAgent(newDecider(1), Beginner, quietLogger())
	assert.Equal(t, Beginner, a.Difficulty())
	a.SetDifficulty(Expert)
	assert.Equal(t, Expert, a.Difficulty())
}

func TestAIAgentPlaysLegalRounds(t *testing.T) {
	for _, d := range Difficulties {
		t.Run(d.String(), func(t *testing.T) {
			engine := newTestEngine(int64(d) * 13)
			human := NewPlayer("Alice", 1000)
			ai := NewPlayer("Computer", 1000)
			rec := newRecorder(t, 2000)
			round := NewRound(RoundConfig{MinRaise: 50}, deck.NewDeck(engine.rng),
				Seat{Player: human, Agent: &scriptedAgent{}},
				Seat{Player: ai, Agent: NewAIAgent(engine, d, quietLogger())},
				WithObserver(rec),
				WithRoundLogger(quietLogger()),
			)

			for range 5 {
				if human.IsBusted() || ai.IsBusted() {
					break
				}
				_, err := round.Play(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 2000, human.Chips()+ai.Chips())
			}
			assert.Empty(t, rec.ofType(EventTypeActionReject), "the AI only picks offered actions")
		})
	}
}
