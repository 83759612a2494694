package equity

import (
	"fmt"
	"strings"
)

// Mode selects how many trials an estimate runs.
type Mode int

const (
	// Fixed runs exactly the requested number of trials.
	Fixed Mode = iota
	// Adaptive picks the trial count from the number of board cards.
	Adaptive
	// Confidence runs batches until the estimate settles, the trial ceiling
	// is reached or the time budget runs out.
	Confidence
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Adaptive:
		return "adaptive"
	case Confidence:
		return "confidence"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "":
		return Fixed, nil
	case "adaptive":
		return Adaptive, nil
	case "confidence":
		return Confidence, nil
	}
	return Fixed, fmt.Errorf("unknown simulation mode %q", s)
}

// AdaptiveTrials returns the trial count for a board of boardLen cards:
// fewer before the flop, where each estimate is cheap to be wrong about,
// and the most on the river.
func AdaptiveTrials(boardLen int) int {
	switch boardLen {
	case 0:
		return 2000
	case 3:
		return 5000
	case 4:
		return 8000
	default:
		return 10000
	}
}
