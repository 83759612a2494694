package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

var (
	// ErrDeckEmpty is returned when dealing more cards than remain.
	ErrDeckEmpty = errors.New("deck: no cards left to deal")
	// ErrCardNotFound is returned when removing a card the deck does not hold.
	ErrCardNotFound = errors.New("deck: card not in deck")
)

// Size is the number of cards in a standard deck.
const Size = 52

// Deck represents a deck of playing cards
type Deck struct {
	cards   []Card
	dealt   int
	rng     *rand.Rand
	stacked []Card // fixed order restored by Reset when rng is nil
}

// NewDeck creates a new standard 52-card deck shuffled with rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.fill()
	d.Shuffle()
	return d
}

// NewOrderedDeck creates an unshuffled deck in suit-major order. It never
// shuffles, which makes it suitable as a source of "all remaining cards".
func NewOrderedDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	d.fill()
	return d
}

// NewStackedDeck returns a deck that deals top first, in order, followed by
// the rest of the deck in suit-major order. Shuffle is a no-op and Reset
// restores the same order, so tests can script complete rounds.
func NewStackedDeck(top ...Card) (*Deck, error) {
	if HasDuplicates(top...) {
		return nil, fmt.Errorf("stacked deck: duplicate card in %v", top)
	}
	used := NewCardSet(top...)
	order := make([]Card, 0, Size)
	order = append(order, top...)
	for _, c := range standardOrder() {
		if !used.Contains(c) {
			order = append(order, c)
		}
	}
	d := &Deck{stacked: order}
	d.Reset()
	return d, nil
}

func standardOrder() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

func (d *Deck) fill() {
	d.cards = append(d.cards[:0], standardOrder()...)
	d.dealt = 0
}

// Shuffle randomizes the order of the undealt cards using Fisher-Yates.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckEmpty
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	d.dealt++
	return card, nil
}

// DealN deals n cards from the deck. Nothing is dealt if fewer than n remain.
func (d *Deck) DealN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("deal %d cards with %d left: %w", n, len(d.cards), ErrDeckEmpty)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	d.dealt += n
	return cards, nil
}

// Remove takes the given cards out of the deck by identity. It fails without
// modifying the deck if any card is absent.
func (d *Deck) Remove(cards ...Card) error {
	drop := NewCardSet(cards...)
	if HasDuplicates(cards...) {
		return fmt.Errorf("remove %v: %w", cards, ErrCardNotFound)
	}
	kept := d.cards[:0:0]
	for _, c := range d.cards {
		if !drop.Contains(c) {
			kept = append(kept, c)
		}
	}
	if len(d.cards)-len(kept) != len(cards) {
		return fmt.Errorf("remove %v: %w", cards, ErrCardNotFound)
	}
	d.cards = kept
	return nil
}

// Cards returns a copy of the undealt cards in deal order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Dealt returns the number of cards dealt since the last Reset.
func (d *Deck) Dealt() int {
	return d.dealt
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Reset restores the deck to a full 52 cards and shuffles it. Stacked decks
// return to their scripted order.
func (d *Deck) Reset() {
	if d.stacked != nil {
		d.cards = append(d.cards[:0], d.stacked...)
		d.dealt = 0
		return
	}
	d.fill()
	d.Shuffle()
}
