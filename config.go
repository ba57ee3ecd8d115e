package kinoplan

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/kinoplan/sst"
)

// Config describes one planning problem together with the sparsification
// parameters and the sampling budget.
type Config struct {
	// Start is the root state.
	Start []float64 `yaml:"start" json:"start"`

	// Goal is the center of the goal region.
	Goal []float64 `yaml:"goal" json:"goal"`

	// GoalRadius is the exclusive radius of the goal region.
	GoalRadius float64 `yaml:"goal_radius" json:"goal_radius"`

	// DeltaNear bounds the distance to candidate parents.
	DeltaNear float64 `yaml:"delta_near" json:"delta_near"`

	// DeltaDrain is the witness radius.
	DeltaDrain float64 `yaml:"delta_drain" json:"delta_drain"`

	// Seed initializes the planner's random source.
	Seed int64 `yaml:"seed" json:"seed"`

	// MinTimeSteps and MaxTimeSteps bound the number of integration steps
	// drawn per iteration.
	MinTimeSteps int `yaml:"min_time_steps" json:"min_time_steps"`
	MaxTimeSteps int `yaml:"max_time_steps" json:"max_time_steps"`

	// IntegrationStep is the length of one integration step.
	IntegrationStep float64 `yaml:"integration_step" json:"integration_step"`

	// Iterations is the default budget for Run.
	Iterations int `yaml:"iterations" json:"iterations"`
}

// DefaultConfig returns sensible defaults. Start and Goal are left empty and
// must be provided.
func DefaultConfig() Config {
	return Config{
		GoalRadius:      0.5,
		DeltaNear:       0.4,
		DeltaDrain:      0.2,
		MinTimeSteps:    10,
		MaxTimeSteps:    50,
		IntegrationStep: 0.02,
		Iterations:      10000,
	}
}

// LoadConfig loads configuration from a YAML or JSON file and environment
// variables. A missing file leaves the defaults in place.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadConfigFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}

	return nil
}

func loadConfigFromEnv(config *Config) {
	if v := os.Getenv("KINOPLAN_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Seed = i
		}
	}
	if v := os.Getenv("KINOPLAN_ITERATIONS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Iterations = i
		}
	}
	if v := os.Getenv("KINOPLAN_DELTA_NEAR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.DeltaNear = f
		}
	}
	if v := os.Getenv("KINOPLAN_DELTA_DRAIN"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.DeltaDrain = f
		}
	}
}

// Validate checks the configuration for consistency. Dimensions against a
// concrete system are checked again by New.
func (c Config) Validate() error {
	var errs []error

	if len(c.Start) == 0 {
		errs = append(errs, errors.New("start must not be empty"))
	}
	if len(c.Goal) != len(c.Start) {
		errs = append(errs, fmt.Errorf("goal has dimension %d, start has %d", len(c.Goal), len(c.Start)))
	}
	if !(c.GoalRadius > 0) || math.IsInf(c.GoalRadius, 0) {
		errs = append(errs, fmt.Errorf("goal_radius must be positive and finite, got %g", c.GoalRadius))
	}
	if !(c.DeltaNear > 0) || math.IsInf(c.DeltaNear, 0) {
		errs = append(errs, fmt.Errorf("delta_near must be positive and finite, got %g", c.DeltaNear))
	}
	if !(c.DeltaDrain >= 0) || math.IsInf(c.DeltaDrain, 0) {
		errs = append(errs, fmt.Errorf("delta_drain must be non-negative and finite, got %g", c.DeltaDrain))
	}
	if c.MinTimeSteps < 1 {
		errs = append(errs, fmt.Errorf("min_time_steps must be at least 1, got %d", c.MinTimeSteps))
	}
	if c.MaxTimeSteps < c.MinTimeSteps {
		errs = append(errs, fmt.Errorf("max_time_steps %d is below min_time_steps %d", c.MaxTimeSteps, c.MinTimeSteps))
	}
	if !(c.IntegrationStep > 0) || math.IsInf(c.IntegrationStep, 0) {
		errs = append(errs, fmt.Errorf("integration_step must be positive and finite, got %g", c.IntegrationStep))
	}
	if c.Iterations < 0 {
		errs = append(errs, fmt.Errorf("iterations must not be negative, got %d", c.Iterations))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) engineConfig() sst.Config {
	return sst.Config{
		Start:      c.Start,
		Goal:       c.Goal,
		GoalRadius: c.GoalRadius,
		DeltaNear:  c.DeltaNear,
		DeltaDrain: c.DeltaDrain,
		Seed:       c.Seed,
	}
}
