package evaluator

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

// Category is the class of a five-card poker hand. Higher values are
// stronger, so the underlying integer is the category's strength.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// Strength returns the category's primary sort key: Royal Flush=10 down to
// High Card=1.
func (c Category) Strength() int {
	return int(c)
}

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

const (
	categoryShift = 20
	kickerBits    = 4
	maxKickers    = 5
)

// HandRank is a comparable hand value: the category in the high bits
// followed by up to five 4-bit kicker ranks, most significant first. A
// greater HandRank is a stronger hand.
type HandRank uint32

func makeHandRank(c Category, kickers ...deck.Rank) HandRank {
	h := HandRank(c) << categoryShift
	for i := 0; i < maxKickers && i < len(kickers); i++ {
		shift := categoryShift - kickerBits*(i+1)
		h |= HandRank(kickers[i]&0xF) << shift
	}
	return h
}

// Category returns the hand category.
func (h HandRank) Category() Category {
	return Category(h >> categoryShift)
}

// Kickers returns the tie-break ranks in descending significance. A wheel
// straight reports its ace as deck.LowAce.
func (h HandRank) Kickers() []deck.Rank {
	ks := make([]deck.Rank, 0, maxKickers)
	for i := range maxKickers {
		shift := categoryShift - kickerBits*(i+1)
		r := deck.Rank((h >> shift) & 0xF)
		if r == 0 {
			break
		}
		ks = append(ks, r)
	}
	return ks
}

// Compare returns -1 if h is weaker, 0 if equal, 1 if h is stronger.
func (h HandRank) Compare(other HandRank) int {
	switch {
	case h > other:
		return 1
	case h < other:
		return -1
	}
	return 0
}

// String describes the hand, e.g. "Two Pair, Kings and Sevens".
func (h HandRank) String() string {
	ks := h.Kickers()
	if len(ks) == 0 {
		return h.Category().String()
	}
	switch h.Category() {
	case OnePair:
		return fmt.Sprintf("Pair of %ss", ks[0].Name())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %ss and %ss", ks[0].Name(), ks[1].Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three %ss", ks[0].Name())
	case FourOfAKind:
		return fmt.Sprintf("Four %ss", ks[0].Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %ss over %ss", ks[0].Name(), ks[1].Name())
	case Straight, StraightFlush, Flush, HighCard:
		return fmt.Sprintf("%s, %s high", h.Category(), ks[0].Name())
	}
	return h.Category().String()
}
