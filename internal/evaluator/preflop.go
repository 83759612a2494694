package evaluator

import (
	"errors"
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

// ErrInvalidHoleCards is returned when a pre-flop score is asked for anything
// other than two distinct cards.
var ErrInvalidHoleCards = errors.New("evaluator: need exactly two distinct hole cards")

// PreflopScore rates two hole cards on a 1-9 scale before any community
// card is known. 9 is reserved for aces and kings.
func PreflopScore(hole []deck.Card) (int, error) {
	if len(hole) != 2 || hole[0] == hole[1] {
		return 0, fmt.Errorf("preflop score %v: %w", hole, ErrInvalidHoleCards)
	}

	hi, lo := hole[0].Rank, hole[1].Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	suited := hole[0].Suit == hole[1].Suit
	gap := hi - lo

	if gap == 0 {
		switch {
		case hi >= deck.King:
			return 9, nil
		case hi >= deck.Jack:
			return 8, nil
		case hi >= deck.Nine:
			return 7, nil
		case hi >= deck.Six:
			return 6, nil
		default:
			return 5, nil
		}
	}

	switch {
	case hi == deck.Ace && lo == deck.King:
		if suited {
			return 8, nil
		}
		return 7, nil
	case lo >= deck.Ten:
		if suited {
			return 6, nil
		}
		return 5, nil
	case hi == deck.Ace && suited:
		return 5, nil
	case hi == deck.Ace && lo >= deck.Nine:
		return 4, nil
	case gap == 1 && suited && hi >= deck.Seven:
		return 5, nil
	case gap == 1 && !suited:
		return 3, nil
	case suited:
		return 3, nil
	case hi >= deck.Jack:
		return 2, nil
	}
	return 1, nil
}
