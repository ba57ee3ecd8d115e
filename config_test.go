package kinoplan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		path := writeFile(t, "plan.yaml", `
start: [-8, -8]
goal: [8, 8]
goal_radius: 1.5
delta_near: 0.5
seed: 7
iterations: 2000
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []float64{-8, -8}, cfg.Start)
		assert.Equal(t, []float64{8, 8}, cfg.Goal)
		assert.Equal(t, 1.5, cfg.GoalRadius)
		assert.Equal(t, 0.5, cfg.DeltaNear)
		assert.Equal(t, int64(7), cfg.Seed)
		assert.Equal(t, 2000, cfg.Iterations)

		// Unset keys keep their defaults.
		def := DefaultConfig()
		assert.Equal(t, def.DeltaDrain, cfg.DeltaDrain)
		assert.Equal(t, def.MinTimeSteps, cfg.MinTimeSteps)
		assert.Equal(t, def.IntegrationStep, cfg.IntegrationStep)
	})

	t.Run("JSON", func(t *testing.T) {
		path := writeFile(t, "plan.json", `{"start": [0], "goal": [9], "delta_drain": 0.1}`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, cfg.Start)
		assert.Equal(t, 0.1, cfg.DeltaDrain)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("KINOPLAN_SEED", "99")
		t.Setenv("KINOPLAN_ITERATIONS", "123")
		t.Setenv("KINOPLAN_DELTA_NEAR", "0.25")
		t.Setenv("KINOPLAN_DELTA_DRAIN", "not-a-number")

		path := writeFile(t, "plan.yaml", "start: [0]\ngoal: [1]\nseed: 1\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, int64(99), cfg.Seed)
		assert.Equal(t, 123, cfg.Iterations)
		assert.Equal(t, 0.25, cfg.DeltaNear)
		assert.Equal(t, DefaultConfig().DeltaDrain, cfg.DeltaDrain)
	})

	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		// Defaults have no start state and fail validation.
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := writeFile(t, "plan.yaml", "start: [0\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"Valid", func(*Config) {}, true},
		{"ZeroDrain", func(c *Config) { c.DeltaDrain = 0 }, true},
		{"EmptyStart", func(c *Config) { c.Start = nil }, false},
		{"GoalDimension", func(c *Config) { c.Goal = []float64{1, 2} }, false},
		{"GoalRadius", func(c *Config) { c.GoalRadius = 0 }, false},
		{"DeltaNear", func(c *Config) { c.DeltaNear = -1 }, false},
		{"DeltaDrain", func(c *Config) { c.DeltaDrain = -0.1 }, false},
		{"MinTimeSteps", func(c *Config) { c.MinTimeSteps = 0 }, false},
		{"MaxBelowMin", func(c *Config) { c.MaxTimeSteps = c.MinTimeSteps - 1 }, false},
		{"IntegrationStep", func(c *Config) { c.IntegrationStep = 0 }, false},
		{"NegativeIterations", func(c *Config) { c.Iterations = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
