package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Computer", cfg.AIName)
	assert.Equal(t, 50, cfg.MinRaise)
	assert.Equal(t, equity.DefaultConfig(), cfg.Simulator)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
game {
  ai_name   = "Deep Stack"
  min_raise = 25
}

simulator {
  default_trials = 4000
  max_workers    = 2
}

difficulty "expert" {
  mode         = "confidence"
  trials       = 8000
  threshold    = 0.01
  time_budget  = "400ms"
  shove_chance = 0.5
  raise_size   = 150
}

difficulty "1" {
  call_all_in_need_both = false
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Deep Stack", cfg.AIName)
	assert.Equal(t, 25, cfg.MinRaise)
	assert.Equal(t, 4000, cfg.Simulator.DefaultTrials)
	assert.Equal(t, 2, cfg.Simulator.MaxWorkers)
	assert.Equal(t, equity.DefaultConfig().BatchSize, cfg.Simulator.BatchSize)

	expert := cfg.Profiles[game.Expert]
	assert.Equal(t, game.Simulation{
		Mode:       equity.Confidence,
		Trials:     8000,
		Threshold:  0.01,
		TimeBudget: 400 * time.Millisecond,
	}, expert.Simulation)
	assert.Equal(t, 0.5, expert.ShoveChance)
	assert.Equal(t, 150, expert.RaiseSize)
	assert.Equal(t, game.DefaultProfiles()[game.Expert].FoldBelow, expert.FoldBelow)

	assert.False(t, cfg.Profiles[game.Beginner].CallAllInNeedBoth)
	assert.Equal(t, game.DefaultProfiles()[game.Normal], cfg.Profiles[game.Normal])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", `game {`, "failed to parse HCL file"},
		{"unknown attribute", `game { colour = "red" }`, "failed to decode HCL"},
		{"wrong type", `game { min_raise = "lots" }`, "failed to decode HCL"},
		{"unknown difficulty", `difficulty "grandmaster" {}`, "unknown difficulty"},
		{"duplicate difficulty", "difficulty \"normal\" {}\ndifficulty \"2\" {}", "defined twice"},
		{"bad mode", `difficulty "normal" { mode = "psychic" }`, "unknown simulation mode"},
		{"bad budget", `difficulty "normal" { time_budget = "soon" }`, "time_budget"},
		{"probability out of range", `difficulty "expert" { bluff_chance = 1.5 }`, "bluff_chance must be between 0 and 1"},
		{"non-positive min raise", `game { min_raise = 0 }`, "min_raise must be positive"},
		{"non-positive workers", `simulator { max_workers = 0 }`, "simulator sizes must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	delete(cfg.Profiles, game.Normal)
	assert.ErrorContains(t, cfg.Validate(), "no profile for Normal")
}
