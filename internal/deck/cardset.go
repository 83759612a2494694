package deck

// CardSet represents a set of cards using a bitset for fast operations.
// Each card maps to the bit returned by Card.Index.
type CardSet uint64

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards ...Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

// Add adds a card to the set
func (cs *CardSet) Add(card Card) {
	*cs |= 1 << card.Index()
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return cs&(1<<card.Index()) != 0
}

// Len returns the number of cards in the set.
func (cs CardSet) Len() int {
	n := 0
	for v := uint64(cs); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// HasDuplicates reports whether any card appears more than once in cards.
func HasDuplicates(cards ...Card) bool {
	var seen CardSet
	for _, c := range cards {
		if seen.Contains(c) {
			return true
		}
		seen.Add(c)
	}
	return false
}
