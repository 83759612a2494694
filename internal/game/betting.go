package game

import (
	"fmt"
	"strings"
)

// Stage is the point a round has reached. Stages only move forward.
type Stage int

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	switch s {
	case PreFlop:
		return "Pre-flop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	case Showdown:
		return "Showdown"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// cardsToReveal is the number of community cards dealt when the stage opens.
func (s Stage) cardsToReveal() int {
	switch s {
	case Flop:
		return 3
	case Turn, River:
		return 1
	}
	return 0
}

// Action is a betting action.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "all-in"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Label is the capitalised name shown in menus.
func (a Action) Label() string {
	s := a.String()
	if s == "all-in" {
		return "All-In"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsAggressive reports whether the action puts in more than a call.
func (a Action) IsAggressive() bool {
	return a == Bet || a == Raise || a == AllIn
}

// Decision is an agent's chosen action. Amount is the number of chips the
// action adds to the pot and is only read for Bet and Raise.
type Decision struct {
	Action    Action
	Amount    int
	Reasoning string
}

// ValidActions lists what a player with chips may do when facing toCall,
// in menu order.
func ValidActions(toCall, chips, minRaise int) []Action {
	switch {
	case chips <= 0:
		return []Action{Check}
	case toCall <= 0 && chips > minRaise:
		return []Action{Check, Bet, AllIn, Fold}
	case toCall <= 0:
		return []Action{Check, AllIn, Fold}
	case chips <= toCall:
		return []Action{AllIn, Fold}
	case chips > toCall+minRaise:
		return []Action{Call, Raise, AllIn, Fold}
	default:
		return []Action{Call, AllIn, Fold}
	}
}
