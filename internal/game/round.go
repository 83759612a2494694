package game

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
)

var (
	// ErrChipConservation means chips were created or destroyed.
	ErrChipConservation = errors.New("chip conservation violated")
	// ErrInvalidAction is returned for an action that is not on offer or an
	// amount outside the allowed range.
	ErrInvalidAction = errors.New("invalid action")
)

const (
	humanSeat = 0
	aiSeat    = 1

	// maxAttempts bounds how often one seat may be re-asked in a turn.
	maxAttempts = 5
)

// Seat pairs a player with the agent deciding for them.
type Seat struct {
	Player *Player
	Agent  Agent
}

// RoundConfig holds the table rules.
type RoundConfig struct {
	// MinRaise is the least a bet or raise must add on top of the call.
	MinRaise int
}

// RoundResult describes how a round ended.
type RoundResult struct {
	Number    int
	Winner    string // empty on a split pot
	Folded    bool   // the loser folded
	Split     bool
	AllIn     bool // the board was run out after an all-in
	Pot       int
	Board     []deck.Card
	HumanHand evaluator.Hand // zero unless the round reached showdown
	AIHand    evaluator.Hand
	HumanWon  int
	AIWon     int
}

type phaseResult int

const (
	phaseDone phaseResult = iota
	phaseFold
	phaseAllIn
)

// RoundOption configures a Round.
type RoundOption func(*Round)

// WithObserver receives every event of the round.
func WithObserver(o Observer) RoundOption {
	return func(r *Round) { r.observer = o }
}

// WithRoundClock sets the clock used to timestamp events.
func WithRoundClock(c quartz.Clock) RoundOption {
	return func(r *Round) { r.clock = c }
}

// WithRoundLogger sets the logger.
func WithRoundLogger(l *log.Logger) RoundOption {
	return func(r *Round) { r.logger = l.WithPrefix("round") }
}

// Round is the betting state machine for one hand between the human, who
// always acts first, and the AI. A Round is reused for every hand of a
// session; Play resets it.
type Round struct {
	cfg      RoundConfig
	deck     *deck.Deck
	seats    [2]Seat
	observer Observer
	logger   *log.Logger
	clock    quartz.Clock
	number   int

	stage      Stage
	board      []deck.Card
	pot        int
	currentBet int
	street     [2]int // contributions this street
	total      [2]int // contributions this round
	allIn      [2]bool
	folded     [2]bool
	startChips int
}

// NewRound creates a round dealing from d.
func NewRound(cfg RoundConfig, d *deck.Deck, human, ai Seat, opts ...RoundOption) *Round {
	r := &Round{
		cfg:    cfg,
		deck:   d,
		seats:  [2]Seat{human, ai},
		logger: log.Default().WithPrefix("round"),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stage returns the current stage.
func (r *Round) Stage() Stage {
	return r.stage
}

// Pot returns the chips in the pot.
func (r *Round) Pot() int {
	return r.pot
}

// Board returns a copy of the community cards.
func (r *Round) Board() []deck.Card {
	return slices.Clone(r.board)
}

// Play deals and plays one hand to completion. If the hand cannot be
// completed every contribution is returned and an error describes why.
func (r *Round) Play(ctx context.Context) (result RoundResult, err error) {
	r.reset()
	defer func() {
		if err != nil {
			r.abort()
			err = fmt.Errorf("round %d aborted: %w", r.number, err)
		}
	}()

	r.logger.Info("Round started", "round", r.number, "human", r.seats[humanSeat].Player.Chips(), "ai", r.seats[aiSeat].Player.Chips())
	r.emit(RoundStartEvent{
		Number:    r.number,
		Human:     r.seats[humanSeat].Player.Name,
		AI:        r.seats[aiSeat].Player.Name,
		Stacks:    r.stacks(),
		timestamp: r.clock.Now(),
	})

	if err := r.dealHoleCards(); err != nil {
		return RoundResult{}, err
	}

	for stage := PreFlop; stage <= River; stage++ {
		r.stage = stage
		if err := r.reveal(stage.cardsToReveal()); err != nil {
			return RoundResult{}, err
		}
		r.emit(StreetChangeEvent{Stage: stage, Board: r.Board(), Stacks: r.stacks(), timestamp: r.clock.Now()})

		outcome, seat, ask, err := r.bettingPhase(ctx)
		if err != nil {
			return RoundResult{}, err
		}
		switch outcome {
		case phaseFold:
			return r.awardFold(seat)
		case phaseAllIn:
			return r.resolveAllIn(ctx, seat, ask)
		}
	}
	return r.showdown(false)
}

func (r *Round) reset() {
	r.number++
	r.deck.Reset()
	r.stage = PreFlop
	r.board = r.board[:0]
	r.pot = 0
	r.currentBet = 0
	r.street = [2]int{}
	r.total = [2]int{}
	r.allIn = [2]bool{}
	r.folded = [2]bool{}
	r.startChips = 0
	for _, s := range r.seats {
		s.Player.Hand.Clear()
		r.startChips += s.Player.Chips()
	}
}

// abort hands every contribution back.
func (r *Round) abort() {
	for i, s := range r.seats {
		s.Player.AddChips(r.total[i])
		r.total[i] = 0
	}
	r.pot = 0
	r.logger.Warn("Round aborted, contributions returned", "round", r.number)
}

func (r *Round) dealHoleCards() error {
	for range 2 {
		for _, s := range r.seats {
			c, err := r.deck.Deal()
			if err != nil {
				return fmt.Errorf("deal hole cards: %w", err)
			}
			if err := s.Player.Hand.Add(c); err != nil {
				return err
			}
		}
	}
	human := r.seats[humanSeat].Player
	r.emit(HoleCardsEvent{Player: human.Name, Cards: human.Hand.Cards(), timestamp: r.clock.Now()})
	r.logger.Debug("Hole cards", "human", human.Hand.String(), "ai", r.seats[aiSeat].Player.Hand.String())
	return nil
}

func (r *Round) reveal(n int) error {
	if n == 0 {
		return nil
	}
	cards, err := r.deck.DealN(n)
	if err != nil {
		return fmt.Errorf("deal %s: %w", r.stage, err)
	}
	r.board = append(r.board, cards...)
	return nil
}

// bettingPhase runs one street. It reports a fold with the winning seat, or
// an all-in with the all-in seat and whether the opponent must answer it.
func (r *Round) bettingPhase(ctx context.Context) (phaseResult, int, bool, error) {
	r.street = [2]int{}
	r.currentBet = 0

	var acted [2]bool
	for actor := humanSeat; ; actor = 1 - actor {
		if err := ctx.Err(); err != nil {
			return phaseDone, -1, false, err
		}
		action, err := r.turn(ctx, actor)
		if err != nil {
			return phaseDone, -1, false, err
		}
		acted[actor] = true

		switch {
		case r.folded[actor]:
			return phaseFold, 1 - actor, false, nil
		case r.allIn[actor]:
			return phaseAllIn, actor, action != Call, nil
		case acted[humanSeat] && acted[aiSeat] && r.street[humanSeat] == r.street[aiSeat]:
			return phaseDone, -1, false, nil
		}
	}
}

// turn asks a seat for an action until one can be applied.
func (r *Round) turn(ctx context.Context, seat int) (Action, error) {
	p := r.seats[seat].Player
	valid := ValidActions(r.toCall(seat), p.Chips(), r.cfg.MinRaise)

	for attempt := 1; ; attempt++ {
		dec, err := r.seats[seat].Agent.Act(ctx, r.view(seat), valid)
		if err != nil {
			return Fold, fmt.Errorf("%s: %w", p.Name, err)
		}
		amount, err := r.validate(seat, dec, valid)
		if err == nil {
			if err := r.commit(seat, dec.Action, amount, dec.Reasoning); err != nil {
				return Fold, err
			}
			return dec.Action, nil
		}

		r.logger.Debug("Action rejected", "player", p.Name, "action", dec.Action, "amount", dec.Amount, "error", err)
		r.emit(ActionRejectedEvent{Player: p.Name, Action: dec.Action, Amount: dec.Amount, Reason: err.Error(), timestamp: r.clock.Now()})
		if attempt >= maxAttempts {
			return Fold, fmt.Errorf("%s gave no valid action after %d attempts: %w", p.Name, attempt, err)
		}
	}
}

// validate returns the chips an action adds to the pot.
func (r *Round) validate(seat int, dec Decision, valid []Action) (int, error) {
	if !slices.Contains(valid, dec.Action) {
		return 0, fmt.Errorf("%s not allowed: %w", dec.Action, ErrInvalidAction)
	}
	chips := r.seats[seat].Player.Chips()
	toCall := r.toCall(seat)

	switch dec.Action {
	case Call:
		return min(toCall, chips), nil
	case AllIn:
		return chips, nil
	case Bet, Raise:
		if dec.Amount > chips {
			return 0, fmt.Errorf("%s of %d with %d chips: %w", dec.Action, dec.Amount, chips, ErrInsufficientChips)
		}
		if floor := toCall + r.cfg.MinRaise; dec.Amount < floor && dec.Amount != chips {
			return 0, fmt.Errorf("%s of %d below minimum %d: %w", dec.Action, dec.Amount, floor, ErrInvalidAction)
		}
		return dec.Amount, nil
	}
	return 0, nil
}

// commit applies an action and checks that no chips were lost.
func (r *Round) commit(seat int, action Action, amount int, reasoning string) error {
	p := r.seats[seat].Player
	if action == Fold {
		r.folded[seat] = true
	} else if amount > 0 {
		if err := p.PlaceBet(amount); err != nil {
			return err
		}
		r.pot += amount
		r.street[seat] += amount
		r.total[seat] += amount
		r.currentBet = max(r.currentBet, r.street[seat])
		if p.Chips() == 0 {
			r.allIn[seat] = true
		}
	}

	r.logger.Info("Action", "player", p.Name, "action", action, "amount", amount, "pot", r.pot, "stage", r.stage)
	r.emit(PlayerActionEvent{
		Player:    p.Name,
		Human:     seat == humanSeat,
		Action:    action,
		Amount:    amount,
		Stage:     r.stage,
		Reasoning: reasoning,
		Stacks:    r.stacks(),
		timestamp: r.clock.Now(),
	})
	return r.checkConservation()
}

// resolveAllIn lets the opponent call or fold, returns any uncalled chips,
// runs out the board and goes to showdown. An opponent who already covers the
// all-in owes nothing and is not asked.
func (r *Round) resolveAllIn(ctx context.Context, shover int, ask bool) (RoundResult, error) {
	other := 1 - shover
	if ask && !r.allIn[other] && r.toCall(other) > 0 {
		resp, err := r.respondToAllIn(ctx, other)
		if err != nil {
			return RoundResult{}, err
		}
		if resp == Fold {
			if err := r.commit(other, Fold, 0, "facing all-in"); err != nil {
				return RoundResult{}, err
			}
			return r.awardFold(shover)
		}
		amount := min(r.toCall(other), r.seats[other].Player.Chips())
		if err := r.commit(other, Call, amount, "facing all-in"); err != nil {
			return RoundResult{}, err
		}
	}

	if err := r.refundUncalled(); err != nil {
		return RoundResult{}, err
	}
	if err := r.reveal(5 - len(r.board)); err != nil {
		return RoundResult{}, err
	}
	r.stage = River
	r.emit(RunOutEvent{Board: r.Board(), timestamp: r.clock.Now()})
	return r.showdown(true)
}

func (r *Round) respondToAllIn(ctx context.Context, seat int) (Action, error) {
	p := r.seats[seat].Player
	for attempt := 1; ; attempt++ {
		action, err := r.seats[seat].Agent.RespondToAllIn(ctx, r.view(seat))
		if err != nil {
			return Fold, fmt.Errorf("%s: %w", p.Name, err)
		}
		if action == Call || action == Fold {
			return action, nil
		}
		r.emit(ActionRejectedEvent{Player: p.Name, Action: action, Reason: "only call or fold is allowed against an all-in", timestamp: r.clock.Now()})
		if attempt >= maxAttempts {
			return Fold, fmt.Errorf("%s answered all-in with %s: %w", p.Name, action, ErrInvalidAction)
		}
	}
}

// refundUncalled returns whatever one player put in beyond the other's
// total, which only happens when the other is all-in for less.
func (r *Round) refundUncalled() error {
	hi, lo := humanSeat, aiSeat
	if r.total[aiSeat] > r.total[humanSeat] {
		hi, lo = aiSeat, humanSeat
	}
	excess := r.total[hi] - r.total[lo]
	if excess <= 0 {
		return nil
	}
	p := r.seats[hi].Player
	p.AddChips(excess)
	r.pot -= excess
	r.total[hi] -= excess
	r.street[hi] = max(r.street[hi]-excess, 0)
	r.logger.Info("Uncalled chips returned", "player", p.Name, "amount", excess)
	r.emit(RefundEvent{Player: p.Name, Amount: excess, timestamp: r.clock.Now()})
	return r.checkConservation()
}

func (r *Round) awardFold(winner int) (RoundResult, error) {
	p := r.seats[winner].Player
	res := RoundResult{
		Number: r.number,
		Winner: p.Name,
		Folded: true,
		Pot:    r.pot,
		Board:  r.Board(),
	}
	if winner == humanSeat {
		res.HumanWon = r.pot
	} else {
		res.AIWon = r.pot
	}
	p.AddChips(r.pot)
	r.pot = 0
	return r.finish(res)
}

func (r *Round) showdown(allIn bool) (RoundResult, error) {
	r.stage = Showdown
	hands := [2]evaluator.Hand{}
	for i, s := range r.seats {
		h, err := evaluator.BestHand(append(s.Player.Hand.Cards(), r.board...))
		if err != nil {
			return RoundResult{}, fmt.Errorf("showdown %s: %w", s.Player.Name, err)
		}
		hands[i] = h
	}
	r.emit(ShowdownEvent{
		HumanHand: hands[humanSeat],
		AIHand:    hands[aiSeat],
		AIHole:    r.seats[aiSeat].Player.Hand.Cards(),
		Board:     r.Board(),
		timestamp: r.clock.Now(),
	})

	res := RoundResult{
		Number:    r.number,
		AllIn:     allIn,
		Pot:       r.pot,
		Board:     r.Board(),
		HumanHand: hands[humanSeat],
		AIHand:    hands[aiSeat],
	}
	switch hands[humanSeat].Rank.Compare(hands[aiSeat].Rank) {
	case 1:
		res.Winner = r.seats[humanSeat].Player.Name
		res.HumanWon = r.pot
	case -1:
		res.Winner = r.seats[aiSeat].Player.Name
		res.AIWon = r.pot
	default:
		res.Split = true
		res.HumanWon, res.AIWon = splitPot(r.pot)
	}
	r.seats[humanSeat].Player.AddChips(res.HumanWon)
	r.seats[aiSeat].Player.AddChips(res.AIWon)
	r.pot = 0
	return r.finish(res)
}

// splitPot halves a pot. The odd chip goes to the first player to act.
func splitPot(pot int) (first, second int) {
	second = pot / 2
	return pot - second, second
}

func (r *Round) finish(res RoundResult) (RoundResult, error) {
	r.total = [2]int{}
	if err := r.checkConservation(); err != nil {
		return RoundResult{}, err
	}
	r.logger.Info("Round finished", "round", r.number, "winner", res.Winner, "pot", res.Pot, "split", res.Split)
	r.emit(RoundEndEvent{Result: res, Stacks: r.stacks(), timestamp: r.clock.Now()})
	return res, nil
}

func (r *Round) checkConservation() error {
	sum := r.pot
	for _, s := range r.seats {
		sum += s.Player.Chips()
	}
	if sum != r.startChips {
		return fmt.Errorf("pot %d + stacks = %d, started with %d: %w", r.pot, sum, r.startChips, ErrChipConservation)
	}
	return nil
}

func (r *Round) toCall(seat int) int {
	return max(r.currentBet-r.street[seat], 0)
}

func (r *Round) view(seat int) View {
	p := r.seats[seat].Player
	opp := 1 - seat
	return View{
		Name:          p.Name,
		Stage:         r.stage,
		Hole:          p.Hand.Cards(),
		Board:         r.Board(),
		Pot:           r.pot,
		ToCall:        r.toCall(seat),
		Chips:         p.Chips(),
		OpponentChips: r.seats[opp].Player.Chips(),
		OpponentAllIn: r.allIn[opp],
		MinRaise:      r.cfg.MinRaise,
	}
}

func (r *Round) stacks() Stacks {
	return Stacks{
		Human: r.seats[humanSeat].Player.Chips(),
		AI:    r.seats[aiSeat].Player.Chips(),
		Pot:   r.pot,
	}
}

func (r *Round) emit(e Event) {
	if r.observer != nil {
		r.observer.OnEvent(e)
	}
}
