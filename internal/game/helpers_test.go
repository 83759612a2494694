package game

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/randutil"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// scriptedAgent plays queued decisions, then checks or calls when it can
// and otherwise takes the first valid action.
type scriptedAgent struct {
	decisions []Decision
	responses []Action
	err       error

	views      []View
	offered    [][]Action
	allInViews []View
}

func (a *scriptedAgent) Act(_ context.Context, v View, valid []Action) (Decision, error) {
	a.views = append(a.views, v)
	a.offered = append(a.offered, slices.Clone(valid))
	if a.err != nil && len(a.decisions) == 0 {
		return Decision{}, a.err
	}
	if len(a.decisions) > 0 {
		d := a.decisions[0]
		a.decisions = a.decisions[1:]
		return d, nil
	}
	for _, a := range []Action{Check, Call} {
		if slices.Contains(valid, a) {
			return Decision{Action: a}, nil
		}
	}
	return Decision{Action: valid[0]}, nil
}

func (a *scriptedAgent) RespondToAllIn(_ context.Context, v View) (Action, error) {
	a.allInViews = append(a.allInViews, v)
	if len(a.responses) > 0 {
		r := a.responses[0]
		a.responses = a.responses[1:]
		return r, nil
	}
	return Call, nil
}

// recorder collects events and checks that chips are conserved at every
// event that carries stacks.
type recorder struct {
	t     *testing.T
	total int

	mu     sync.Mutex
	events []Event
}

func newRecorder(t *testing.T, total int) *recorder {
	return &recorder{t: t, total: total}
}

func (r *recorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)

	var s *Stacks
	switch ev := e.(type) {
	case PlayerActionEvent:
		s = &ev.Stacks
	case StreetChangeEvent:
		s = &ev.Stacks
	case RoundEndEvent:
		s = &ev.Stacks
	}
	if s != nil && r.total > 0 {
		require.Equal(r.t, r.total, s.Human+s.AI+s.Pot, "chips not conserved at %s", e.EventType())
	}
}

func (r *recorder) ofType(et EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) actions() []PlayerActionEvent {
	var out []PlayerActionEvent
	for _, e := range r.ofType(EventTypePlayerAction) {
		out = append(out, e.(PlayerActionEvent))
	}
	return out
}

// stackedDeck deals human, AI, human, AI, then the board.
func stackedDeck(t *testing.T, humanHole, aiHole, board string) *deck.Deck {
	t.Helper()
	h := deck.MustParseCards(humanHole)
	a := deck.MustParseCards(aiHole)
	top := []deck.Card{h[0], a[0], h[1], a[1]}
	top = append(top, deck.MustParseCards(board)...)
	d, err := deck.NewStackedDeck(top...)
	require.NoError(t, err)
	return d
}

type table struct {
	round *Round
	human *Player
	ai    *Player
	hAg   Agent
	aAg   Agent
	rec   *recorder
}

func newTable(t *testing.T, d *deck.Deck, humanChips, aiChips int, humanAgent, aiAgent Agent) *table {
	t.Helper()
	human := NewPlayer("Alice", humanChips)
	ai := NewPlayer("Computer", aiChips)
	rec := newRecorder(t, humanChips+aiChips)
	round := NewRound(RoundConfig{MinRaise: 50}, d,
		Seat{Player: human, Agent: humanAgent},
		Seat{Player: ai, Agent: aiAgent},
		WithObserver(rec),
		WithRoundLogger(quietLogger()),
	)
	return &table{round: round, human: human, ai: ai, hAg: humanAgent, aAg: aiAgent, rec: rec}
}

func newTestEngine(seed int64) *AIEngine {
	sim := equity.NewSimulator(equity.DefaultConfig(), randutil.New(seed),
		equity.WithCache(equity.NewCache(equity.DefaultConfig().QualityFloor)),
		equity.WithLogger(quietLogger()))
	return NewAIEngine(sim, randutil.New(seed+1), quietLogger())
}

var errInputClosed = errors.New("input closed")

// scriptedInput answers prompts from queues and records what it was asked.
// With auto set it checks or calls once the queue is empty.
type scriptedInput struct {
	actions []Action
	amounts []int
	auto    bool

	prompts []ActionPrompt
	ranges  [][2]int
}

func (in *scriptedInput) ChooseAction(_ context.Context, p ActionPrompt) (Action, error) {
	in.prompts = append(in.prompts, p)
	if len(in.actions) == 0 {
		if in.auto {
			for _, a := range []Action{Check, Call} {
				if slices.Contains(p.Options, a) {
					return a, nil
				}
			}
			return p.Options[0], nil
		}
		return Fold, errInputClosed
	}
	a := in.actions[0]
	in.actions = in.actions[1:]
	return a, nil
}

func (in *scriptedInput) ChooseAmount(_ context.Context, lo, hi int) (int, error) {
	in.ranges = append(in.ranges, [2]int{lo, hi})
	if len(in.amounts) == 0 {
		return 0, errInputClosed
	}
	a := in.amounts[0]
	in.amounts = in.amounts[1:]
	return a, nil
}

type scriptedMenu struct {
	name         string
	chips        int
	difficulties []Difficulty
	choices      []MenuChoice
	err          error

	chipRange      [2]int
	summaries      []RoundResult
	difficultyAsks int
}

func (m *scriptedMenu) PlayerName(context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.name, nil
}

func (m *scriptedMenu) StartingChips(_ context.Context, lo, hi int) (int, error) {
	m.chipRange = [2]int{lo, hi}
	return m.chips, nil
}

func (m *scriptedMenu) Difficulty(context.Context) (Difficulty, error) {
	m.difficultyAsks++
	if len(m.difficulties) == 0 {
		return Normal, nil
	}
	d := m.difficulties[0]
	m.difficulties = m.difficulties[1:]
	return d, nil
}

func (m *scriptedMenu) AfterRound(_ context.Context, res RoundResult) (MenuChoice, error) {
	m.summaries = append(m.summaries, res)
	if len(m.choices) == 0 {
		return Quit, nil
	}
	c := m.choices[0]
	m.choices = m.choices[1:]
	return c, nil
}
