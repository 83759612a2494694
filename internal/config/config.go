// Package config loads optional game settings from an HCL file:
//
//	game {
//	  ai_name   = "Computer"
//	  min_raise = 50
//	}
//
//	simulator {
//	  default_trials = 10000
//	  max_workers    = 4
//	}
//
//	difficulty "expert" {
//	  mode          = "confidence"
//	  trials        = 8000
//	  threshold     = 0.01
//	  time_budget   = "400ms"
//	  shove_chance  = 0.5
//	}
//
// Anything not set keeps its default.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/game"
)

// DefaultFile is read when no path is given.
const DefaultFile = "holdem.hcl"

// Config is the resolved game configuration.
type Config struct {
	AIName    string
	MinRaise  int
	Simulator equity.Config
	Profiles  map[game.Difficulty]game.Profile
}

// fileConfig mirrors the HCL file. Pointer attributes are nil when absent.
type fileConfig struct {
	Game         *gameBlock        `hcl:"game,block"`
	Simulator    *simulatorBlock   `hcl:"simulator,block"`
	Difficulties []difficultyBlock `hcl:"difficulty,block"`
}

type gameBlock struct {
	AIName   *string `hcl:"ai_name,optional"`
	MinRaise *int    `hcl:"min_raise,optional"`
}

type simulatorBlock struct {
	DefaultTrials *int `hcl:"default_trials,optional"`
	BatchSize     *int `hcl:"batch_size,optional"`
	MinBatches    *int `hcl:"min_batches,optional"`
	QualityFloor  *int `hcl:"quality_floor,optional"`
	MaxWorkers    *int `hcl:"max_workers,optional"`
}

type difficultyBlock struct {
	Name string `hcl:"name,label"`

	Mode       *string  `hcl:"mode,optional"`
	Trials     *int     `hcl:"trials,optional"`
	Threshold  *float64 `hcl:"threshold,optional"`
	TimeBudget *string  `hcl:"time_budget,optional"`

	PreflopRaise     *int     `hcl:"preflop_raise,optional"`
	PreflopFold      *int     `hcl:"preflop_fold,optional"`
	FoldBelow        *float64 `hcl:"fold_below,optional"`
	BluffBelow       *float64 `hcl:"bluff_below,optional"`
	BluffMinPot      *int     `hcl:"bluff_min_pot,optional"`
	BluffChance      *float64 `hcl:"bluff_chance,optional"`
	ShoveAbove       *float64 `hcl:"shove_above,optional"`
	ShoveChance      *float64 `hcl:"shove_chance,optional"`
	PassiveBelow     *float64 `hcl:"passive_below,optional"`
	RiverBluffChance *float64 `hcl:"river_bluff_chance,optional"`
	ValueAbove       *float64 `hcl:"value_above,optional"`
	ValueChance      *float64 `hcl:"value_chance,optional"`

	ShortStackAllIn      *int     `hcl:"short_stack_all_in,optional"`
	ShortStackRiverBluff *float64 `hcl:"short_stack_river_bluff,optional"`

	CallAllInStrength *int     `hcl:"call_all_in_strength,optional"`
	CallAllInPotOdds  *float64 `hcl:"call_all_in_pot_odds,optional"`
	CallAllInNeedBoth *bool    `hcl:"call_all_in_need_both,optional"`

	RaiseSize *int `hcl:"raise_size,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AIName:    "Computer",
		MinRaise:  50,
		Simulator: equity.DefaultConfig(),
		Profiles:  game.DefaultProfiles(),
	}
}

// Load reads filename over the defaults. A missing file is not an error.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if err := cfg.apply(fc); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) apply(fc fileConfig) error {
	if g := fc.Game; g != nil {
		set(&c.AIName, g.AIName)
		set(&c.MinRaise, g.MinRaise)
	}
	if s := fc.Simulator; s != nil {
		set(&c.Simulator.DefaultTrials, s.DefaultTrials)
		set(&c.Simulator.BatchSize, s.BatchSize)
		set(&c.Simulator.MinBatches, s.MinBatches)
		set(&c.Simulator.QualityFloor, s.QualityFloor)
		set(&c.Simulator.MaxWorkers, s.MaxWorkers)
	}

	seen := make(map[game.Difficulty]bool)
	for _, b := range fc.Difficulties {
		d, err := game.ParseDifficulty(b.Name)
		if err != nil {
			return err
		}
		if seen[d] {
			return fmt.Errorf("difficulty %q defined twice", b.Name)
		}
		seen[d] = true

		p := c.Profiles[d]
		if err := b.applyTo(&p); err != nil {
			return fmt.Errorf("difficulty %q: %w", b.Name, err)
		}
		c.Profiles[d] = p
	}
	return nil
}

func (b difficultyBlock) applyTo(p *game.Profile) error {
	if b.Mode != nil {
		m, err := equity.ParseMode(*b.Mode)
		if err != nil {
			return err
		}
		p.Simulation.Mode = m
	}
	if b.TimeBudget != nil {
		d, err := time.ParseDuration(*b.TimeBudget)
		if err != nil {
			return fmt.Errorf("time_budget: %w", err)
		}
		p.Simulation.TimeBudget = d
	}
	set(&p.Simulation.Trials, b.Trials)
	set(&p.Simulation.Threshold, b.Threshold)

	set(&p.PreflopRaise, b.PreflopRaise)
	set(&p.PreflopFold, b.PreflopFold)
	set(&p.FoldBelow, b.FoldBelow)
	set(&p.BluffBelow, b.BluffBelow)
	set(&p.BluffMinPot, b.BluffMinPot)
	set(&p.BluffChance, b.BluffChance)
	set(&p.ShoveAbove, b.ShoveAbove)
	set(&p.ShoveChance, b.ShoveChance)
	set(&p.PassiveBelow, b.PassiveBelow)
	set(&p.RiverBluffChance, b.RiverBluffChance)
	set(&p.ValueAbove, b.ValueAbove)
	set(&p.ValueChance, b.ValueChance)
	set(&p.ShortStackAllIn, b.ShortStackAllIn)
	set(&p.ShortStackRiverBluff, b.ShortStackRiverBluff)
	set(&p.CallAllInStrength, b.CallAllInStrength)
	set(&p.CallAllInPotOdds, b.CallAllInPotOdds)
	set(&p.CallAllInNeedBoth, b.CallAllInNeedBoth)
	set(&p.RaiseSize, b.RaiseSize)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MinRaise <= 0 {
		return fmt.Errorf("min_raise must be positive, got %d", c.MinRaise)
	}
	s := c.Simulator
	if s.DefaultTrials <= 0 || s.BatchSize <= 0 || s.MinBatches <= 0 || s.MaxWorkers <= 0 {
		return fmt.Errorf("simulator sizes must be positive")
	}
	if s.QualityFloor < 0 {
		return fmt.Errorf("quality_floor must not be negative, got %d", s.QualityFloor)
	}

	for _, d := range game.Difficulties {
		p, ok := c.Profiles[d]
		if !ok {
			return fmt.Errorf("no profile for %s", d)
		}
		if err := validateProfile(p); err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
	}
	return nil
}

func validateProfile(p game.Profile) error {
	probabilities := map[string]float64{
		"fold_below":              p.FoldBelow,
		"bluff_below":             p.BluffBelow,
		"bluff_chance":            p.BluffChance,
		"shove_above":             p.ShoveAbove,
		"shove_chance":            p.ShoveChance,
		"passive_below":           p.PassiveBelow,
		"river_bluff_chance":      p.RiverBluffChance,
		"value_above":             p.ValueAbove,
		"value_chance":            p.ValueChance,
		"short_stack_river_bluff": p.ShortStackRiverBluff,
		"call_all_in_pot_odds":    p.CallAllInPotOdds,
		"threshold":               p.Simulation.Threshold,
	}
	for name, v := range probabilities {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %g", name, v)
		}
	}
	if p.RaiseSize < 0 || p.Simulation.Trials < 0 || p.Simulation.TimeBudget < 0 {
		return fmt.Errorf("sizes must not be negative")
	}
	return nil
}
