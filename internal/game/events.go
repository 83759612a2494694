package game

import (
	"time"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
)

// EventType identifies a game event
type EventType string

const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeHoleCards    EventType = "hole_cards"
	EventTypeStreetChange EventType = "street_change"
	EventTypePlayerAction EventType = "player_action"
	EventTypeActionReject EventType = "action_rejected"
	EventTypeRunOut       EventType = "run_out"
	EventTypeRefund       EventType = "refund"
	EventTypeShowdown     EventType = "showdown"
	EventTypeRoundEnd     EventType = "round_end"
	EventTypeRoundAbort   EventType = "round_aborted"
	EventTypeGameOver     EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything that happens during a round. Events are delivered after
// the state change they describe.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// Observer receives every event. It must not block.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) { f(e) }

// MultiObserver fans events out to every non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) OnEvent(e Event) {
	for _, o := range m {
		o.OnEvent(e)
	}
}

// Stacks is a snapshot of both stacks and the pot.
type Stacks struct {
	Human int
	AI    int
	Pot   int
}

// RoundStartEvent opens a round.
type RoundStartEvent struct {
	Number    int
	Human     string
	AI        string
	Stacks    Stacks
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// HoleCardsEvent shows the human their cards.
type HoleCardsEvent struct {
	Player    string
	Cards     []deck.Card
	timestamp time.Time
}

func (e HoleCardsEvent) EventType() EventType { return EventTypeHoleCards }
func (e HoleCardsEvent) Timestamp() time.Time { return e.timestamp }

// StreetChangeEvent is published when a street opens.
type StreetChangeEvent struct {
	Stage     Stage
	Board     []deck.Card
	Stacks    Stacks
	timestamp time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an action is applied.
type PlayerActionEvent struct {
	Player    string
	Human     bool
	Action    Action
	Amount    int // chips added to the pot
	Stage     Stage
	Reasoning string
	Stacks    Stacks
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// ActionRejectedEvent is published when an action cannot be applied and
// the player is asked again.
type ActionRejectedEvent struct {
	Player    string
	Action    Action
	Amount    int
	Reason    string
	timestamp time.Time
}

func (e ActionRejectedEvent) EventType() EventType { return EventTypeActionReject }
func (e ActionRejectedEvent) Timestamp() time.Time { return e.timestamp }

// RunOutEvent is published when an all-in deals the rest of the board.
type RunOutEvent struct {
	Board     []deck.Card
	timestamp time.Time
}

func (e RunOutEvent) EventType() EventType { return EventTypeRunOut }
func (e RunOutEvent) Timestamp() time.Time { return e.timestamp }

// RefundEvent returns an uncalled bet.
type RefundEvent struct {
	Player    string
	Amount    int
	timestamp time.Time
}

func (e RefundEvent) EventType() EventType { return EventTypeRefund }
func (e RefundEvent) Timestamp() time.Time { return e.timestamp }

// ShowdownEvent reveals both hands.
type ShowdownEvent struct {
	HumanHand evaluator.Hand
	AIHand    evaluator.Hand
	AIHole    []deck.Card
	Board     []deck.Card
	timestamp time.Time
}

func (e ShowdownEvent) EventType() EventType { return EventTypeShowdown }
func (e ShowdownEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent closes a round.
type RoundEndEvent struct {
	Result    RoundResult
	Stacks    Stacks
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// RoundAbortedEvent reports a round that could not be completed. Stacks are
// as they were before the round.
type RoundAbortedEvent struct {
	Number    int
	Err       error
	Stacks    Stacks
	timestamp time.Time
}

func (e RoundAbortedEvent) EventType() EventType { return EventTypeRoundAbort }
func (e RoundAbortedEvent) Timestamp() time.Time { return e.timestamp }

// GameOverEvent is published when the session ends.
type GameOverEvent struct {
	Winner    string // empty if the human quit with chips on both sides
	Rounds    int
	Stacks    Stacks
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }
