package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lox/headsup/internal/equity"
)

// Difficulty selects the AI's policy table.
type Difficulty int

const (
	Beginner Difficulty = iota + 1
	Normal
	Expert
)

// Difficulties lists every tier in menu order.
var Difficulties = []Difficulty{Beginner, Normal, Expert}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "Beginner"
	case Normal:
		return "Normal"
	case Expert:
		return "Expert"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d >= Beginner && d <= Expert
}

// ParseDifficulty accepts a tier name or its menu number.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil && Difficulty(n).Valid() {
		return Difficulty(n), nil
	}
	for _, d := range Difficulties {
		if strings.ToLower(d.String()) == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// PostflopDefault is what a tier does when no threshold fires.
type PostflopDefault int

const (
	// DefaultPassive checks, or calls a bet.
	DefaultPassive PostflopDefault = iota
	// DefaultLead bets, or calls a bet.
	DefaultLead
	// DefaultPotOdds calls only when equity beats the pot odds.
	DefaultPotOdds
)

// Simulation configures the equity estimate a tier asks for.
type Simulation struct {
	Mode       equity.Mode
	Trials     int
	Threshold  float64
	TimeBudget time.Duration
}

// Profile is one tier's thresholds and bluff frequencies. Probabilities are
// in [0,1]; equities are win probabilities from the simulator; strengths
// use the 1-10 hand category scale, or the 1-9 pre-flop score before the flop.
type Profile struct {
	// Pre-flop, stack covers the bet.
	PreflopRaise int // score at or above which the AI bets or raises
	PreflopFold  int // score below which the AI folds to a bet

	// Post-flop, stack covers the bet. Rules are tried in this order.
	FoldBelow        float64 // fold to a bet below this equity
	BluffBelow       float64 // bluff below this equity...
	BluffMinPot      int     // ...when the pot is bigger than this...
	BluffChance      float64 // ...this often
	ShoveAbove       float64 // on the river, move all-in above this equity...
	ShoveChance      float64 // ...this often
	PassiveBelow     float64 // check or call below this equity
	RiverBluffChance float64 // on the river, bet below ValueAbove this often
	ValueAbove       float64 // bet or raise above this equity...
	ValueChance      float64 // ...this often
	Default          PostflopDefault

	// Short stack: chips below the amount to call.
	ShortStackAllIn      int     // strength at or above which the AI moves all-in
	ShortStackRiverBluff float64 // chance of moving all-in anyway on the river
	ShortStackSafe       Action  // otherwise

	// Facing an all-in.
	CallAllInStrength int     // strength that justifies a call
	CallAllInPotOdds  float64 // pot odds that justify a call
	CallAllInNeedBoth bool    // require both instead of either

	// RaiseSize is added to the amount to call when the AI bets or raises.
	RaiseSize int

	Simulation Simulation
}

// DefaultProfiles returns the built-in policy tables.
func DefaultProfiles() map[Difficulty]Profile {
	return map[Difficulty]Profile{
		Beginner: {
			PreflopRaise:      8,
			PreflopFold:       3,
			FoldBelow:         0.3,
			PassiveBelow:      0.5,
			ValueAbove:        0.7,
			ValueChance:       0.3,
			Default:           DefaultLead,
			ShortStackAllIn:   7,
			ShortStackSafe:    Call,
			CallAllInStrength: 6,
			CallAllInPotOdds:  0.5,
			CallAllInNeedBoth: true,
			RaiseSize:         75,
			Simulation:        Simulation{Mode: equity.Fixed, Trials: 1000},
		},
		Normal: {
			PreflopRaise:         7,
			PreflopFold:          2,
			FoldBelow:            0.25,
			PassiveBelow:         0.45,
			RiverBluffChance:     0.2,
			ValueAbove:           0.6,
			ValueChance:          1,
			Default:              DefaultPassive,
			ShortStackAllIn:      7,
			ShortStackRiverBluff: 0.3,
			ShortStackSafe:       Check,
			CallAllInStrength:    7,
			CallAllInPotOdds:     0.4,
			RaiseSize:            100,
			Simulation: Simulation{
				Mode:       equity.Confidence,
				Trials:     3000,
				Threshold:  0.02,
				TimeBudget: 250 * time.Millisecond,
			},
		},
		Expert: {
			PreflopRaise:         6,
			PreflopFold:          2,
			FoldBelow:            0.2,
			BluffBelow:           0.3,
			BluffMinPot:          100,
			BluffChance:          0.15,
			ShoveAbove:           0.8,
			ShoveChance:          0.4,
			ValueAbove:           0.65,
			ValueChance:          1,
			Default:              DefaultPotOdds,
			ShortStackAllIn:      6,
			ShortStackRiverBluff: 0.4,
			ShortStackSafe:       Check,
			CallAllInStrength:    5,
			CallAllInPotOdds:     0.6,
			RaiseSize:            125,
			Simulation:           Simulation{Mode: equity.Adaptive},
		},
	}
}
