// Package evaluator ranks poker hands of five to seven cards.
//
// Every five-card subset is scored and the best one wins, so straights and
// flushes are only ever detected within a single five-card hand.
package evaluator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/headsup/internal/deck"
)

// ErrInvalidHandSize is returned when evaluating fewer than 5 or more than 7 cards.
var ErrInvalidHandSize = errors.New("evaluator: hand must have 5 to 7 cards")

// Hand is a ranked five-card poker hand.
type Hand struct {
	Rank  HandRank
	Cards []deck.Card
}

func (h Hand) String() string {
	return fmt.Sprintf("%s [%s]", h.Rank, deck.FormatCards(h.Cards))
}

// Evaluate returns the rank of the best five-card hand within cards.
func Evaluate(cards []deck.Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("evaluate %d cards: %w", len(cards), ErrInvalidHandSize)
	}
	rank, _ := best(cards)
	return rank, nil
}

// MustEvaluate is Evaluate for callers that have already validated the size.
func MustEvaluate(cards []deck.Card) HandRank {
	rank, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return rank
}

// BestHand returns the best five-card hand within cards along with its rank.
func BestHand(cards []deck.Card) (Hand, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Hand{}, fmt.Errorf("best hand of %d cards: %w", len(cards), ErrInvalidHandSize)
	}
	rank, five := best(cards)
	return Hand{Rank: rank, Cards: five[:]}, nil
}

func best(cards []deck.Card) (HandRank, [5]deck.Card) {
	var (
		top    HandRank
		topSet [5]deck.Card
		hand   [5]deck.Card
	)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand = [5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						if r := evaluate5(hand); r > top {
							top, topSet = r, hand
						}
					}
				}
			}
		}
	}
	return top, topSet
}

// evaluate5 scores exactly five cards.
func evaluate5(cards [5]deck.Card) HandRank {
	var counts [deck.Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Ranks ordered by multiplicity, then by rank, both descending.
	ranks := make([]deck.Rank, 0, 5)
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] > 0 {
			ranks = append(ranks, r)
		}
	}
	slices.SortStableFunc(ranks, func(a, b deck.Rank) int {
		return counts[b] - counts[a]
	})

	straightHigh := deck.Rank(0)
	if len(ranks) == 5 {
		switch {
		case ranks[0]-ranks[4] == 4:
			straightHigh = ranks[0]
		case ranks[0] == deck.Ace && ranks[1] == deck.Five:
			straightHigh = deck.Five
		}
	}

	switch {
	case flush && straightHigh == deck.Ace:
		return makeHandRank(RoyalFlush, straightRanks(straightHigh)...)
	case flush && straightHigh != 0:
		return makeHandRank(StraightFlush, straightRanks(straightHigh)...)
	case counts[ranks[0]] == 4:
		return makeHandRank(FourOfAKind, ranks...)
	case counts[ranks[0]] == 3 && counts[ranks[1]] == 2:
		return makeHandRank(FullHouse, ranks...)
	case flush:
		return makeHandRank(Flush, ranks...)
	case straightHigh != 0:
		return makeHandRank(Straight, straightRanks(straightHigh)...)
	case counts[ranks[0]] == 3:
		return makeHandRank(ThreeOfAKind, ranks...)
	case counts[ranks[0]] == 2 && counts[ranks[1]] == 2:
		return makeHandRank(TwoPair, ranks...)
	case counts[ranks[0]] == 2:
		return makeHandRank(OnePair, ranks...)
	}
	return makeHandRank(HighCard, ranks...)
}

// straightRanks lists the five ranks of a straight topped by high. A wheel
// (high Five) ends with deck.LowAce.
func straightRanks(high deck.Rank) []deck.Rank {
	out := make([]deck.Rank, 5)
	for i := range out {
		out[i] = high - deck.Rank(i)
	}
	return out
}
