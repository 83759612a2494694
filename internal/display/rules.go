package display

import "strings"

var rules = []string{
	"Heads-up Texas Hold'em against the computer.",
	"",
	"Each round both players get two private cards. Five community cards follow:",
	"three on the flop, one on the turn and one on the river, with a betting",
	"round before the flop and after each street. You always act first.",
	"",
	"On your turn you may check, call, bet, raise, go all-in or fold. A bet or",
	"raise must add at least the minimum raise on top of the amount to call,",
	"unless it puts your whole stack in.",
	"",
	"When a player goes all-in the other may only call or fold. The rest of the",
	"board is dealt at once and the hands are shown. Chips beyond what the",
	"shorter stack can match go back to their owner.",
	"",
	"The best five-card hand from your two cards and the board wins the pot.",
	"Equal hands split it. The game ends when a player runs out of chips.",
	"",
	"Hand ranks, best first: Royal Flush, Straight Flush, Four of a Kind,",
	"Full House, Flush, Straight, Three of a Kind, Two Pair, One Pair, High Card.",
}

// Rules renders the rules screen.
func (s *Styles) Rules() string {
	return s.Header.Render("Rules") + "\n\n" + strings.Join(rules, "\n")
}
