package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Card
		wantErr bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			want: []Card{
				{Spades, Ace}, {Spades, King}, {Spades, Queen}, {Spades, Jack}, {Spades, Ten},
			},
		},
		{
			name:  "spaces and case",
			input: "ah Kd qc",
			want:  []Card{{Hearts, Ace}, {Diamonds, King}, {Clubs, Queen}},
		},
		{name: "empty", input: "", want: []Card{}},
		{name: "bad rank", input: "XsKs", wantErr: true},
		{name: "bad suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Equal(t, []Card{{Spades, Ace}, {Spades, King}}, MustParseCards("AsKs"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Spades, Ace).String())
	assert.Equal(t, "T♥", NewCard(Hearts, Ten).String())
	assert.Equal(t, "2♣", NewCard(Clubs, Two).String())
	assert.Equal(t, "Q♦ 9♣", FormatCards(MustParseCards("Qd9c")))
}

func TestStartingHandKey(t *testing.T) {
	tests := map[string]string{
		"AsKs": "AKs",
		"KdAc": "AKo",
		"QhQs": "QQ",
		"2c7d": "72o",
		"Th9h": "T9s",
	}
	for in, want := range tests {
		key, ok := StartingHandKey(MustParseCards(in))
		require.True(t, ok, in)
		assert.Equal(t, want, key, in)
	}

	_, ok := StartingHandKey(MustParseCards("AsKsQs"))
	assert.False(t, ok)
}

func TestHandPercentile(t *testing.T) {
	assert.Equal(t, 1.0, HandPercentile(MustParseCards("AhAd")))
	assert.Equal(t, 0.0, HandPercentile(MustParseCards("7c2d")))
	assert.Greater(t, HandPercentile(MustParseCards("AsKs")), HandPercentile(MustParseCards("AsKd")))
	assert.Equal(t, 0.0, HandPercentile(nil))
}
