package equity

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(t *testing.T, seed int64, opts ...Option) *Simulator {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	return NewSimulator(DefaultConfig(), randutil.New(seed), opts...)
}

func TestPocketAcesPreflop(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 1)
	eq, err := sim.EstimateProbability(deck.MustParseCards("AsAh"), nil, 4000)
	require.NoError(t, err)
	assert.Greater(t, eq, 0.78)
	assert.Less(t, eq, 0.92)
}

func TestPocketAcesOnFlops(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 2)
	for _, flop := range []string{"2c7d9h", "KsQhJd", "6s6h2c", "Ts9s4d"} {
		eq, err := sim.EstimateProbability(deck.MustParseCards("AcAd"), deck.MustParseCards(flop), 4000)
		require.NoError(t, err)
		assert.Greater(t, eq, 0.5, flop)
	}
}

func TestEstimatesConverge(t *testing.T) {
	t.Parallel()
	hole := deck.MustParseCards("Th9h")
	board := deck.MustParseCards("8h2h3c")

	a, err := newTestSimulator(t, 10).EstimateProbability(hole, board, 20000)
	require.NoError(t, err)
	b, err := newTestSimulator(t, 11).EstimateProbability(hole, board, 20000)
	require.NoError(t, err)
	assert.InDelta(t, a, b, 0.03)
}

func TestExactEquities(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 3)

	// Nobody can beat or tie a royal flush.
	eq, err := sim.EstimateProbability(deck.MustParseCards("AsKs"), deck.MustParseCards("QsJsTs2h3d"), 500)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eq)

	// Everyone plays the board.
	eq, err = sim.EstimateProbability(deck.MustParseCards("2c3d"), deck.MustParseCards("AsKsQsJsTs"), 500)
	require.NoError(t, err)
	assert.Equal(t, 0.5, eq)
}

func TestEstimateResultCounts(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 4)
	res, err := sim.Estimate(context.Background(), Request{
		Hole:   deck.MustParseCards("QdQc"),
		Board:  deck.MustParseCards("Qs7h2c"),
		Mode:   Fixed,
		Trials: 1234,
	})
	require.NoError(t, err)
	assert.Equal(t, 1234, res.Trials)
	assert.Equal(t, res.Trials, res.Wins+res.Ties+res.Losses)

	total := 0
	for c, n := range res.Categories {
		assert.GreaterOrEqual(t, c, evaluator.ThreeOfAKind, "a set never gets weaker")
		total += n
	}
	assert.Equal(t, res.Trials, total)
}

func TestAdaptiveMode(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 5)
	for _, tc := range []struct {
		board string
		want  int
	}{
		{"", 2000},
		{"2c7d9h", 5000},
		{"2c7d9hKs", 8000},
		{"2c7d9hKs4s", 10000},
	} {
		res, err := sim.Estimate(context.Background(), Request{
			Hole:  deck.MustParseCards("AhKh"),
			Board: deck.MustParseCards(tc.board),
			Mode:  Adaptive,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Trials, tc.board)
	}
}

func TestInvalidCards(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 6)
	tests := []struct {
		name        string
		hole, board string
	}{
		{"one hole card", "As", ""},
		{"three hole cards", "AsKsQs", ""},
		{"two board cards", "AsKs", "2c3c"},
		{"six board cards", "AsKs", "2c3c4c5c6c7c"},
		{"duplicate", "AsKs", "As3c4c"},
	}
	for _, tt := range tests {
		_, err := sim.EstimateProbability(deck.MustParseCards(tt.hole), deck.MustParseCards(tt.board), 100)
		assert.ErrorIs(t, err, ErrInvalidCards, tt.name)
	}
}

func TestCacheQualityFloor(t *testing.T) {
	t.Parallel()
	cache := NewCache(DefaultConfig().QualityFloor)
	sim := newTestSimulator(t, 7, WithCache(cache))
	hole := deck.MustParseCards("JcJd")
	board := deck.MustParseCards("2s5h9c")

	res, err := sim.Estimate(context.Background(), Request{Hole: hole, Board: board, Trials: 1000})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 0, cache.Len(), "cheap estimates are not cached")

	first, err := sim.Estimate(context.Background(), Request{Hole: hole, Board: board, Trials: 3000})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	// Card order does not matter.
	again, err := sim.Estimate(context.Background(), Request{Hole: []deck.Card{hole[1], hole[0]}, Board: board, Trials: 3000})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, first.Equity, again.Equity)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestSequentialFallback(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 8)
	sim.workerHook = func(worker int) error {
		if worker == 0 {
			return errors.New("worker crashed")
		}
		return nil
	}

	res, err := sim.Estimate(context.Background(), Request{
		Hole:   deck.MustParseCards("AsAh"),
		Trials: 3000,
	})
	require.NoError(t, err)
	assert.Equal(t, 3000, res.Trials)
	assert.Greater(t, res.Equity, 0.75)
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Estimate(ctx, Request{Hole: deck.MustParseCards("AsAh"), Trials: 1000})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfidenceStopsWhenSettled(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 12)
	res, err := sim.Estimate(context.Background(), Request{
		Hole:      deck.MustParseCards("7s7h"),
		Mode:      Confidence,
		Trials:    10000,
		Threshold: 1.0,
	})
	require.NoError(t, err)
	cfg := sim.Config()
	assert.Equal(t, cfg.MinBatches*cfg.BatchSize, res.Trials)
}

func TestConfidenceRunsToCeiling(t *testing.T) {
	t.Parallel()
	sim := newTestSimulator(t, 13)
	eq, err := sim.EstimateWithConfidence(deck.MustParseCards("7s7h"), nil, 0, 1700)
	require.NoError(t, err)
	assert.Greater(t, eq, 0.5)

	res, err := sim.Estimate(context.Background(), Request{
		Hole:   deck.MustParseCards("7s7h"),
		Mode:   Confidence,
		Trials: 1700,
	})
	require.NoError(t, err)
	assert.Equal(t, 1700, res.Trials, "last batch is trimmed to the ceiling")
}

func TestConfidenceTimeBudget(t *testing.T) {
	t.Parallel()
	mClock := quartz.NewMock(t)
	sim := newTestSimulator(t, 14, WithClock(mClock))
	sim.batchHook = func(int) {
		mClock.Advance(60 * time.Millisecond).MustWait(context.Background())
	}

	res, err := sim.Estimate(context.Background(), Request{
		Hole:       deck.MustParseCards("KsQs"),
		Mode:       Confidence,
		Trials:     10000,
		TimeBudget: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, 2*sim.Config().BatchSize, res.Trials)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"fixed": Fixed, "Adaptive": Adaptive, " confidence ": Confidence, "": Fixed} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("bogus")
	assert.Error(t, err)
}
