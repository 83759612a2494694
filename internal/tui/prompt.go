package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/headsup/internal/game"
)

// ErrQuit is returned by every prompt once the user has quit.
var ErrQuit = errors.New("user quit")

type option struct {
	label string
	keys  []string
}

// prompt is one question waiting for the user. A prompt without options
// takes free text checked by validate.
type prompt struct {
	title       string
	info        string
	placeholder string
	options     []option
	validate    func(string) error
	reply       chan answer
}

type answer struct {
	index int
	text  string
	args  []string
	err   error
}

// resolve turns typed input into an answer, or explains why it cannot.
func (p *prompt) resolve(input string) (answer, error) {
	input = strings.TrimSpace(input)
	if len(p.options) == 0 {
		if p.validate != nil {
			if err := p.validate(input); err != nil {
				return answer{}, err
			}
		}
		return answer{index: -1, text: input}, nil
	}

	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return answer{}, fmt.Errorf("choose 1-%d", len(p.options))
	}
	if n, err := strconv.Atoi(fields[0]); err == nil {
		if n < 1 || n > len(p.options) {
			return answer{}, fmt.Errorf("choose 1-%d", len(p.options))
		}
		return answer{index: n - 1, args: fields[1:]}, nil
	}
	for i, o := range p.options {
		for _, k := range o.keys {
			if fields[0] == k {
				return answer{index: i, args: fields[1:]}, nil
			}
		}
	}
	return answer{}, fmt.Errorf("unknown choice %q", fields[0])
}

var actionKeys = map[game.Action][]string{
	game.Fold:  {"fold", "f"},
	game.Check: {"check", "ch", "x"},
	game.Call:  {"call", "c"},
	game.Bet:   {"bet", "b"},
	game.Raise: {"raise", "r"},
	game.AllIn: {"all-in", "allin", "all", "a"},
}

func intBetween(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("enter an amount between %d and %d", lo, hi)
		}
		return nil
	}
}
