package display

import (
	"fmt"
	"strings"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/game"
)

// Formatter turns game events into display lines.
type Formatter struct {
	styles *Styles
	human  string
	ai     string
}

// NewFormatter creates a formatter using styles.
func NewFormatter(styles *Styles) *Formatter {
	return &Formatter{styles: styles, human: "You", ai: "Computer"}
}

// Styles returns the formatter's styles.
func (f *Formatter) Styles() *Styles {
	return f.styles
}

// Card renders one card in its suit colour.
func (f *Formatter) Card(c deck.Card) string {
	if c.IsRed() {
		return f.styles.RedCard.Render(c.String())
	}
	return f.styles.BlackCard.Render(c.String())
}

// Cards renders cards in brackets, or nothing for no cards.
func (f *Formatter) Cards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = f.Card(c)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// Event renders an event as zero or more lines.
func (f *Formatter) Event(e game.Event) []string {
	switch ev := e.(type) {
	case game.RoundStartEvent:
		f.human, f.ai = ev.Human, ev.AI
		return []string{
			f.styles.Header.Render(fmt.Sprintf("Round %d", ev.Number)),
			f.stacks(ev.Stacks),
		}
	case game.HoleCardsEvent:
		return []string{f.styles.HandInfo.Render("Your cards: ") + f.Cards(ev.Cards)}
	case game.StreetChangeEvent:
		header := f.styles.Stage.Render(fmt.Sprintf("*** %s ***", strings.ToUpper(ev.Stage.String())))
		if len(ev.Board) == 0 {
			return []string{header}
		}
		return []string{header + " " + f.Cards(ev.Board)}
	case game.PlayerActionEvent:
		return []string{f.action(ev)}
	case game.ActionRejectedEvent:
		return []string{f.styles.Error.Render("Invalid action: " + ev.Reason)}
	case game.RunOutEvent:
		return []string{f.styles.Stage.Render("*** ALL-IN, RUNNING OUT THE BOARD ***") + " " + f.Cards(ev.Board)}
	case game.RefundEvent:
		return []string{f.styles.Info.Render(fmt.Sprintf("Uncalled $%d returned to %s", ev.Amount, ev.Player))}
	case game.ShowdownEvent:
		return []string{
			f.styles.Stage.Render("*** SHOWDOWN ***") + " " + f.Cards(ev.Board),
			fmt.Sprintf("%s shows %s: %s", f.name(true), f.Cards(ev.HumanHand.Cards), ev.HumanHand.Rank),
			fmt.Sprintf("%s shows %s, best hand %s: %s", f.name(false), f.Cards(ev.AIHole), f.Cards(ev.AIHand.Cards), ev.AIHand.Rank),
		}
	case game.RoundEndEvent:
		return []string{f.Result(ev.Result), f.stacks(ev.Stacks)}
	case game.RoundAbortedEvent:
		return []string{
			f.styles.Warning.Render(fmt.Sprintf("Round %d abandoned, all bets returned: %v", ev.Number, ev.Err)),
			f.stacks(ev.Stacks),
		}
	case game.GameOverEvent:
		return []string{f.gameOver(ev)}
	}
	return nil
}

// Result summarises how a round ended.
func (f *Formatter) Result(res game.RoundResult) string {
	switch {
	case res.Split:
		return f.styles.Success.Render(fmt.Sprintf("Split pot: %s $%d, %s $%d", f.human, res.HumanWon, f.ai, res.AIWon))
	case res.Folded:
		return f.styles.Success.Render(fmt.Sprintf("%s wins $%d, opponent folded", res.Winner, res.Pot))
	case res.Winner != "":
		hand := res.HumanHand
		if res.AIHand.Rank.Compare(res.HumanHand.Rank) > 0 {
			hand = res.AIHand
		}
		return f.styles.Success.Render(fmt.Sprintf("%s wins $%d with %s", res.Winner, res.Pot, hand.Rank))
	}
	return ""
}

// Prompt renders the state a human decides from.
func (f *Formatter) Prompt(v game.View) string {
	line := fmt.Sprintf("Hand: %s", f.Cards(v.Hole))
	if len(v.Board) > 0 {
		line += fmt.Sprintf("  Board: %s", f.Cards(v.Board))
	}
	line += fmt.Sprintf("  Chips: $%d  Pot: $%d", v.Chips, v.Pot)
	if v.ToCall > 0 {
		line += fmt.Sprintf("  To call: $%d", v.ToCall)
	}
	return f.styles.HandInfo.Render(line)
}

// Option labels an action for a menu.
func (f *Formatter) Option(a game.Action, v game.View) string {
	switch a {
	case game.Call:
		return fmt.Sprintf("Call $%d", min(v.ToCall, v.Chips))
	case game.AllIn:
		return fmt.Sprintf("All-In $%d", v.Chips)
	case game.Bet, game.Raise:
		return fmt.Sprintf("%s (min $%d)", a.Label(), min(v.ToCall+v.MinRaise, v.Chips))
	}
	return a.Label()
}

func (f *Formatter) action(ev game.PlayerActionEvent) string {
	var text string
	switch ev.Action {
	case game.Fold:
		text = "folds"
	case game.Check:
		text = "checks"
	case game.Call:
		text = fmt.Sprintf("calls $%d", ev.Amount)
	case game.Bet:
		text = fmt.Sprintf("bets $%d", ev.Amount)
	case game.Raise:
		text = fmt.Sprintf("raises $%d", ev.Amount)
	case game.AllIn:
		text = fmt.Sprintf("goes all-in for $%d", ev.Amount)
	default:
		text = ev.Action.String()
	}
	return fmt.Sprintf("%s %s %s", f.name(ev.Human), text, f.styles.Info.Render(fmt.Sprintf("(pot $%d)", ev.Stacks.Pot)))
}

func (f *Formatter) name(human bool) string {
	if human {
		return f.styles.Human.Render(f.human)
	}
	return f.styles.AI.Render(f.ai)
}

func (f *Formatter) stacks(s game.Stacks) string {
	return f.styles.Info.Render(fmt.Sprintf("Chips: %s $%d, %s $%d", f.human, s.Human, f.ai, s.AI))
}

func (f *Formatter) gameOver(ev game.GameOverEvent) string {
	if ev.Winner == "" {
		return f.styles.Header.Render(fmt.Sprintf("Game over after %d rounds. %s $%d, %s $%d",
			ev.Rounds, f.human, ev.Stacks.Human, f.ai, ev.Stacks.AI))
	}
	return f.styles.Header.Render(fmt.Sprintf("%s wins the game after %d rounds!", ev.Winner, ev.Rounds))
}
