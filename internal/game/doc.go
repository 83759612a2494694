// Package game implements heads-up Texas Hold'em between a human and a
// computer opponent.
//
// A Session owns both players and plays Rounds until one player is out of
// chips or the human quits. Each Round deals hole cards, runs the four
// betting streets and settles the pot at showdown.
//
// # Basic Usage
//
//	engine := game.NewAIEngine(sim, randutil.New(seed), logger)
//	human := game.NewPlayer("Alice", 1000)
//	ai := game.NewPlayer("Computer", 1000)
//	round := game.NewRound(game.RoundConfig{MinRaise: 50}, d,
//		game.Seat{Player: human, Agent: game.NewHumanAgent(input)},
//		game.Seat{Player: ai, Agent: game.NewAIAgent(engine, game.Normal, logger)},
//		game.WithObserver(renderer))
//	result, err := round.Play(ctx)
//
// NewSession wraps the same wiring behind a Menu and loops rounds.
//
// # Deterministic Testing
//
// Rounds take their cards from a deck.Deck, so a deck built with
// deck.NewStackedDeck scripts the exact hole cards and board. Agents are
// plain interfaces; tests script both seats.
//
// # Architecture
//
// The human always acts first on every street. Agents receive an immutable
// View and return a Decision; only the Round changes stacks and the pot.
// The AIEngine turns a HandSignal (pre-flop score, or hand category and
// simulated equity) into an Action using the Profile of its Difficulty.
package game
