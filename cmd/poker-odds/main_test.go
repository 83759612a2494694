package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/display"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
)

func TestParseHand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "AcKh", false},
		{"with spaces", " Ac Kh ", false},
		{"too many cards", "AcKhQd", true},
		{"too few cards", "Ac", true},
		{"invalid card", "AcXy", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand, err := parseHand(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, deck.MustParseCards("AcKh"), hand)
		})
	}
}

func TestParseBoard(t *testing.T) {
	board, err := parseBoard("")
	require.NoError(t, err)
	assert.Empty(t, board)

	board, err = parseBoard("Td 7s 8h")
	require.NoError(t, err)
	assert.Len(t, board, 3)

	_, err = parseBoard("Td7s")
	assert.ErrorContains(t, err, "3, 4 or 5 cards")

	_, err = parseBoard("Td7s8h9h2c3c")
	assert.Error(t, err)
}

func TestValidateNoDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		hole    string
		board   string
		wantErr bool
	}{
		{"no duplicates", "AsKh", "Td7s8h", false},
		{"pocket pair of the same card", "AsAs", "", true},
		{"hole card on the board", "AsKh", "AsTd7s", true},
		{"duplicate on the board", "AsKh", "TdTd7s", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNoDuplicates(deck.MustParseCards(tt.hole), deck.MustParseCards(tt.board))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	s := newStyles(display.Plain(&buf))

	res := equity.Result{
		Equity: 0.85,
		Trials: 200,
		Wins:   168,
		Ties:   4,
		Losses: 28,
		Categories: map[evaluator.Category]int{
			evaluator.OnePair:   120,
			evaluator.TwoPair:   60,
			evaluator.FullHouse: 20,
		},
	}
	s.report(&buf, deck.MustParseCards("AsAh"), nil, res, true)

	out := buf.String()
	assert.Contains(t, out, "A♠ A♥")
	assert.Contains(t, out, "85.0%")
	assert.Contains(t, out, "84.0%")
	assert.Contains(t, out, "class AA, percentile 100.0%")
	assert.Contains(t, out, "Full House")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Full House")), bytes.Index(buf.Bytes(), []byte("One Pair")))
}

func TestReportWithBoardSkipsStartingHandClass(t *testing.T) {
	var buf bytes.Buffer
	s := newStyles(display.Plain(&buf))

	s.report(&buf, deck.MustParseCards("AsKs"), deck.MustParseCards("QsJsTs"), equity.Result{Equity: 1, Trials: 10, Wins: 10}, false)

	out := buf.String()
	assert.Contains(t, out, "Q♠ J♠ T♠")
	assert.Contains(t, out, "100.0%")
	assert.NotContains(t, out, "class")
}

func TestEstimateFeedsReport(t *testing.T) {
	cfg := equity.DefaultConfig()
	cfg.MaxWorkers = 2
	sim := equity.NewSimulator(cfg, randutil.New(3), equity.WithLogger(log.New(io.Discard)))

	res, err := sim.Estimate(context.Background(), equity.Request{
		Hole:   deck.MustParseCards("AsAh"),
		Board:  deck.MustParseCards("AdAc2h"),
		Mode:   equity.Fixed,
		Trials: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, 2000, res.Trials)

	var buf bytes.Buffer
	newStyles(display.Plain(&buf)).report(&buf, deck.MustParseCards("AsAh"), deck.MustParseCards("AdAc2h"), res, true)
	assert.Contains(t, buf.String(), "Four of a Kind")
}

func TestRatio(t *testing.T) {
	assert.Equal(t, ".", ratio(1, 0))
	assert.Equal(t, "50.0%", ratio(1, 2))
}
