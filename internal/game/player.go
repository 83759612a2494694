package game

import (
	"errors"
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

var (
	// ErrInsufficientChips is returned when a bet exceeds a player's stack.
	ErrInsufficientChips = errors.New("insufficient chips")
	// ErrHandFull is returned when a third hole card is dealt.
	ErrHandFull = errors.New("hand already holds two cards")
)

// HoleCards is a player's private two-card hand.
type HoleCards struct {
	cards []deck.Card
}

// Add gives the hand another card.
func (h *HoleCards) Add(c deck.Card) error {
	if len(h.cards) >= 2 {
		return fmt.Errorf("add %s: %w", c, ErrHandFull)
	}
	h.cards = append(h.cards, c)
	return nil
}

// Cards returns a copy of the cards held.
func (h *HoleCards) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards held.
func (h *HoleCards) Len() int {
	return len(h.cards)
}

// Clear empties the hand for the next round.
func (h *HoleCards) Clear() {
	h.cards = h.cards[:0]
}

func (h *HoleCards) String() string {
	return deck.FormatCards(h.cards)
}

// Player is a seat at the table. Chips change only through PlaceBet and
// AddChips.
type Player struct {
	Name  string
	Hand  HoleCards
	chips int
}

// NewPlayer creates a player with a starting stack.
func NewPlayer(name string, chips int) *Player {
	return &Player{Name: name, chips: max(chips, 0)}
}

// Chips returns the player's stack.
func (p *Player) Chips() int {
	return p.chips
}

// PlaceBet moves amount from the stack. The stack is unchanged on error.
func (p *Player) PlaceBet(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%s bet %d: negative amount", p.Name, amount)
	}
	if amount > p.chips {
		return fmt.Errorf("%s bet %d with %d: %w", p.Name, amount, p.chips, ErrInsufficientChips)
	}
	p.chips -= amount
	return nil
}

// AddChips awards chips to the player.
func (p *Player) AddChips(amount int) {
	if amount > 0 {
		p.chips += amount
	}
}

// IsBusted reports whether the player has no chips left.
func (p *Player) IsBusted() bool {
	return p.chips == 0
}
