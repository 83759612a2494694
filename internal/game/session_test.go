package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, menu Menu, input Input, humanHole, aiHole, board string) (*Session, *recorder) {
	t.Helper()
	rec := newRecorder(t, 0)
	s := NewSession(SessionConfig{}, menu, input, newTestEngine(17),
		stackedDeck(t, humanHole, aiHole, board),
		WithSessionObserver(rec),
		WithSessionLogger(quietLogger()),
	)
	return s, rec
}

func TestSessionQuitAfterRound(t *testing.T) {
	menu := &scriptedMenu{name: "  ", chips: 100, difficulties: []Difficulty{Beginner}}
	s, rec := newTestSession(t, menu, &scriptedInput{auto: true}, "AsKs", "3c7d", "QsJsTs4h2d")

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [2]int{MinStartingChips, MaxStartingChips}, menu.chipRange)
	assert.Equal(t, 1, res.Rounds)
	assert.Empty(t, res.Winner)
	assert.Equal(t, 2*MinStartingChips, res.HumanChips+res.AIChips)
	assert.GreaterOrEqual(t, res.HumanChips, MinStartingChips)

	require.Len(t, menu.summaries, 1)
	assert.Equal(t, DefaultPlayerName, menu.summaries[0].Winner)

	start := rec.ofType(EventTypeRoundStart)
	require.Len(t, start, 1)
	assert.Equal(t, "Computer", start[0].(RoundStartEvent).AI)
	require.Len(t, rec.ofType(EventTypeGameOver), 1)
}

func TestSessionChangeDifficulty(t *testing.T) {
	menu := &scriptedMenu{
		name:         "Alice",
		chips:        2000,
		difficulties: []Difficulty{Beginner, Expert},
		choices:      []MenuChoice{ChangeDifficulty, PlayAgain, Quit},
	}
	s, _ := newTestSession(t, menu, &scriptedInput{auto: true}, "AsKs", "3c7d", "QsJsTs4h2d")

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rounds)
	assert.Equal(t, 2, menu.difficultyAsks)
	assert.Equal(t, 4000, res.HumanChips+res.AIChips)
}

func TestSessionEndsWhenPlayerBusts(t *testing.T) {
	menu := &scriptedMenu{name: "Alice", chips: 1000, difficulties: []Difficulty{Beginner}}
	input := &scriptedInput{actions: []Action{AllIn}, auto: true}
	s, rec := newTestSession(t, menu, input, "AsKs", "AhAd", "QsJsTs4h2d")

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Alice", res.Winner)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 2000, res.HumanChips)
	assert.Zero(t, res.AIChips)
	assert.Empty(t, menu.summaries, "no menu once the game is over")

	over := rec.ofType(EventTypeGameOver)
	require.Len(t, over, 1)
	assert.Equal(t, "Alice", over[0].(GameOverEvent).Winner)
}

func TestSessionContinuesAfterAbortedRound(t *testing.T) {
	menu := &scriptedMenu{name: "Alice", chips: 1000}
	s, rec := newTestSession(t, menu, &scriptedInput{}, "AsKs", "3c7d", "QsJsTs4h2d")

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	aborted := rec.ofType(EventTypeRoundAbort)
	require.Len(t, aborted, 1)
	ev := aborted[0].(RoundAbortedEvent)
	assert.ErrorIs(t, ev.Err, errInputClosed)
	assert.Equal(t, Stacks{Human: 1000, AI: 1000}, ev.Stacks)

	require.Len(t, menu.summaries, 1, "the menu still follows an aborted round")
	assert.Equal(t, 1000, res.HumanChips)
	assert.Equal(t, 1000, res.AIChips)
}

func TestSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	menu := &scriptedMenu{name: "Alice", chips: 1000}
	s, rec := newTestSession(t, menu, &scriptedInput{auto: true}, "AsKs", "3c7d", "QsJsTs4h2d")

	_, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.ofType(EventTypeRoundAbort))
	assert.Len(t, rec.ofType(EventTypeGameOver), 1)
}

func TestSessionMenuError(t *testing.T) {
	boom := errors.New("terminal closed")
	s, _ := newTestSession(t, &scriptedMenu{err: boom}, &scriptedInput{}, "AsKs", "3c7d", "QsJsTs4h2d")

	_, err := s.Run(context.Background())
	require.ErrorIs(t, err, boom)
}
