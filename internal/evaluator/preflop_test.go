package evaluator

import (
	"testing"

	"github.com/lox/headsup/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreflopScore(t *testing.T) {
	tests := map[string]int{
		"AsAh": 9,
		"KdKc": 9,
		"QsQh": 8,
		"9s9h": 7,
		"6d6c": 6,
		"2s2h": 5,
		"AsKs": 8,
		"AsKd": 7,
		"KhQh": 6,
		"QdJc": 5,
		"As5s": 5,
		"Ad9c": 4,
		"8h7h": 5,
		"8h7c": 3,
		"9c4c": 3,
		"Jd4c": 2,
		"7c2d": 1,
	}
	for hole, want := range tests {
		t.Run(hole, func(t *testing.T) {
			got, err := PreflopScore(deck.MustParseCards(hole))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPreflopScoreOrderIndependent(t *testing.T) {
	a, err := PreflopScore(deck.MustParseCards("KhAh"))
	require.NoError(t, err)
	b, err := PreflopScore(deck.MustParseCards("AhKh"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPreflopScoreInvalid(t *testing.T) {
	for _, s := range []string{"As", "AsKsQs", "AsAs"} {
		_, err := PreflopScore(deck.MustParseCards(s))
		assert.ErrorIs(t, err, ErrInvalidHoleCards, s)
	}
}
