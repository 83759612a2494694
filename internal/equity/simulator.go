// Package equity estimates the probability that two hole cards win against
// a random opponent hand by Monte Carlo simulation.
package equity

import (
	"context"
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidCards is returned for anything other than two hole cards and a
// board of 0, 3, 4 or 5 cards, all distinct.
var ErrInvalidCards = errors.New("equity: invalid known cards")

// Config tunes the simulator.
type Config struct {
	DefaultTrials int // Fixed mode trials when a request gives none
	BatchSize     int // trials per Confidence batch
	MinBatches    int // batches run before Confidence may stop early
	QualityFloor  int // fewest trials an estimate needs to be cached
	MaxWorkers    int // upper bound on parallel workers
}

// DefaultConfig returns the settings used by the game.
func DefaultConfig() Config {
	return Config{
		DefaultTrials: 10000,
		BatchSize:     500,
		MinBatches:    4,
		QualityFloor:  2000,
		MaxWorkers:    8,
	}
}

// Request describes one estimate.
type Request struct {
	Hole  []deck.Card
	Board []deck.Card
	Mode  Mode

	// Trials is the trial count in Fixed mode and the ceiling in Confidence
	// mode. Zero means Config.DefaultTrials.
	Trials int
	// Threshold is the change between consecutive batch estimates below
	// which Confidence mode stops.
	Threshold float64
	// TimeBudget bounds a Confidence estimate. Zero means no bound.
	TimeBudget time.Duration
}

// Result is an equity estimate and the counts behind it.
type Result struct {
	Equity float64
	Trials int
	Wins   int
	Ties   int
	Losses int
	// Categories counts the hero's final hand category per trial. It is empty
	// for cached results.
	Categories map[evaluator.Category]int
	Cached     bool
}

// Simulator runs Monte Carlo equity estimates. It is safe for concurrent use.
type Simulator struct {
	cfg    Config
	cache  *Cache
	clock  quartz.Clock
	logger *log.Logger

	mu  sync.Mutex
	rng *rand.Rand

	// test hooks
	workerHook func(worker int) error
	batchHook  func(batch int)
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithCache shares a cache between estimates.
func WithCache(c *Cache) Option {
	return func(s *Simulator) { s.cache = c }
}

// WithClock sets the clock used for time budgets.
func WithClock(c quartz.Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// NewSimulator creates a simulator drawing its randomness from rng.
func NewSimulator(cfg Config, rng *rand.Rand, opts ...Option) *Simulator {
	def := DefaultConfig()
	if cfg.DefaultTrials <= 0 {
		cfg.DefaultTrials = def.DefaultTrials
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MinBatches <= 0 {
		cfg.MinBatches = def.MinBatches
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = def.MaxWorkers
	}

	s := &Simulator{
		cfg:    cfg,
		rng:    rng,
		clock:  quartz.NewReal(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the simulator settings.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Cache returns the shared cache, or nil.
func (s *Simulator) Cache() *Cache {
	return s.cache
}

// EstimateProbability returns the equity of hole on board against a random
// hand over the given number of trials. Wins score 1, ties 0.5.
func (s *Simulator) EstimateProbability(hole, board []deck.Card, trials int) (float64, error) {
	res, err := s.Estimate(context.Background(), Request{Hole: hole, Board: board, Mode: Fixed, Trials: trials})
	if err != nil {
		return 0, err
	}
	return res.Equity, nil
}

// EstimateWithConfidence runs batches until consecutive estimates differ by
// less than threshold, or maxTrials have run.
func (s *Simulator) EstimateWithConfidence(hole, board []deck.Card, threshold float64, maxTrials int) (float64, error) {
	res, err := s.Estimate(context.Background(), Request{
		Hole:      hole,
		Board:     board,
		Mode:      Confidence,
		Trials:    maxTrials,
		Threshold: threshold,
	})
	if err != nil {
		return 0, err
	}
	return res.Equity, nil
}

// Estimate runs the request in its mode, consulting the cache first.
func (s *Simulator) Estimate(ctx context.Context, req Request) (Result, error) {
	if err := validate(req.Hole, req.Board); err != nil {
		return Result{}, err
	}

	key := NewKey(req.Hole, req.Board)
	if s.cache != nil {
		if eq, trials, ok := s.cache.Get(key); ok {
			return Result{Equity: eq, Trials: trials, Cached: true}, nil
		}
	}

	var (
		t   tally
		err error
	)
	switch req.Mode {
	case Adaptive:
		t, err = s.run(ctx, req.Hole, req.Board, AdaptiveTrials(len(req.Board)))
	case Confidence:
		t, err = s.runConfidence(ctx, req)
	default:
		trials := req.Trials
		if trials <= 0 {
			trials = s.cfg.DefaultTrials
		}
		t, err = s.run(ctx, req.Hole, req.Board, trials)
	}
	if err != nil {
		return Result{}, err
	}

	res := t.result()
	if s.cache != nil && s.cache.Put(key, res.Equity, res.Trials) {
		s.logger.Debug("Cached equity", "hole", deck.FormatCards(req.Hole), "board", deck.FormatCards(req.Board), "equity", res.Equity, "trials", res.Trials)
	}
	return res, nil
}

func (s *Simulator) runConfidence(ctx context.Context, req Request) (tally, error) {
	ceiling := req.Trials
	if ceiling <= 0 {
		ceiling = s.cfg.DefaultTrials
	}
	start := s.clock.Now()

	var total tally
	prev := -1.0
	for batch := 1; total.trials < ceiling; batch++ {
		n := min(s.cfg.BatchSize, ceiling-total.trials)
		t, err := s.run(ctx, req.Hole, req.Board, n)
		if err != nil {
			return tally{}, err
		}
		total.merge(t)
		if s.batchHook != nil {
			s.batchHook(batch)
		}

		est := total.equity()
		if batch >= s.cfg.MinBatches && prev >= 0 && math.Abs(est-prev) < req.Threshold {
			s.logger.Debug("Equity converged", "batches", batch, "trials", total.trials, "equity", est)
			break
		}
		prev = est
		if req.TimeBudget > 0 && s.clock.Since(start) >= req.TimeBudget {
			s.logger.Debug("Equity time budget spent", "budget", req.TimeBudget, "trials", total.trials)
			break
		}
	}
	return total, nil
}

// run spreads trials over a bounded worker pool. If the pool fails for any
// reason other than cancellation the same trials run sequentially.
func (s *Simulator) run(ctx context.Context, hole, board []deck.Card, trials int) (tally, error) {
	workers := min(runtime.GOMAXPROCS(0), s.cfg.MaxWorkers, trials)
	if workers < 1 {
		workers = 1
	}
	seed := s.nextSeed()

	per, rem := trials/workers, trials%workers
	results := make([]tally, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		n := per
		if w < rem {
			n++
		}
		g.Go(func() error {
			if s.workerHook != nil {
				if err := s.workerHook(w); err != nil {
					return err
				}
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			avail, err := remainingCards(hole, board)
			if err != nil {
				return err
			}
			results[w] = runTrials(hole, board, avail, n, randutil.New(randutil.Derive(seed, w)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return tally{}, ctx.Err()
		}
		s.logger.Warn("Parallel equity failed, running sequentially", "error", err, "trials", trials)
		avail, err := remainingCards(hole, board)
		if err != nil {
			return tally{}, err
		}
		return runTrials(hole, board, avail, trials, randutil.New(seed)), nil
	}

	var total tally
	for _, r := range results {
		total.merge(r)
	}
	return total, nil
}

func (s *Simulator) nextSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int64()
}

// remainingCards is a fresh deck with the known cards removed.
func remainingCards(hole, board []deck.Card) ([]deck.Card, error) {
	d := deck.NewOrderedDeck()
	if err := d.Remove(hole...); err != nil {
		return nil, err
	}
	if err := d.Remove(board...); err != nil {
		return nil, err
	}
	return d.Cards(), nil
}

// runTrials deals the opponent's hole cards and the rest of the board from
// avail, which it reorders in place.
func runTrials(hole, board, avail []deck.Card, trials int, rng *rand.Rand) tally {
	t := tally{categories: make(map[evaluator.Category]int)}

	var hero, opp [7]deck.Card
	copy(hero[:2], hole)
	copy(hero[2:], board)
	copy(opp[2:], board)
	need := 2 + 5 - len(board)

	for range trials {
		for i := range need {
			j := i + rng.IntN(len(avail)-i)
			avail[i], avail[j] = avail[j], avail[i]
		}
		opp[0], opp[1] = avail[0], avail[1]
		for i := len(board); i < 5; i++ {
			c := avail[2+i-len(board)]
			hero[2+i] = c
			opp[2+i] = c
		}

		heroRank := evaluator.MustEvaluate(hero[:])
		oppRank := evaluator.MustEvaluate(opp[:])
		switch heroRank.Compare(oppRank) {
		case 1:
			t.wins++
		case 0:
			t.ties++
		default:
			t.losses++
		}
		t.categories[heroRank.Category()]++
		t.trials++
	}
	return t
}

func validate(hole, board []deck.Card) error {
	if len(hole) != 2 {
		return fmt.Errorf("%d hole cards: %w", len(hole), ErrInvalidCards)
	}
	switch len(board) {
	case 0, 3, 4, 5:
	default:
		return fmt.Errorf("%d board cards: %w", len(board), ErrInvalidCards)
	}
	all := append(append([]deck.Card{}, hole...), board...)
	for _, c := range all {
		if !c.Valid() {
			return fmt.Errorf("card %v: %w", c, ErrInvalidCards)
		}
	}
	if deck.HasDuplicates(all...) {
		return fmt.Errorf("duplicate card in %s: %w", deck.FormatCards(all), ErrInvalidCards)
	}
	return nil
}

type tally struct {
	trials, wins, ties, losses int
	categories                 map[evaluator.Category]int
}

func (t *tally) merge(o tally) {
	t.trials += o.trials
	t.wins += o.wins
	t.ties += o.ties
	t.losses += o.losses
	if len(o.categories) > 0 && t.categories == nil {
		t.categories = make(map[evaluator.Category]int)
	}
	for c, n := range o.categories {
		t.categories[c] += n
	}
}

func (t tally) equity() float64 {
	if t.trials == 0 {
		return 0
	}
	return (float64(t.wins) + float64(t.ties)/2) / float64(t.trials)
}

func (t tally) result() Result {
	return Result{
		Equity:     t.equity(),
		Trials:     t.trials,
		Wins:       t.wins,
		Ties:       t.ties,
		Losses:     t.losses,
		Categories: t.categories,
	}
}
