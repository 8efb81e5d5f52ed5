// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/aristath/mabsim/internal/bandit"
	"github.com/aristath/mabsim/internal/simulation"
	"github.com/aristath/mabsim/internal/utils"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel      string
	LogPretty     bool
	Workers       int
	Trials        int
	Repetitions   int
	Seed          uint64 // 0 means derive from the clock at load time
	Epsilon       float64
	Optimistic    float64
	Deadline      time.Duration // 0 means no deadline
	Probabilities []float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	probs, err := utils.ParseFloatCSV(getEnv("MAB_PROBABILITIES", "0.25,0.50,0.75"))
	if err != nil {
		return nil, fmt.Errorf("%w: MAB_PROBABILITIES: %v", bandit.ErrInvalidConfiguration, err)
	}

	cfg := &Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPretty:     getEnvAsBool("LOG_PRETTY", true),
		Workers:       getEnvAsInt("MAB_WORKERS", runtime.NumCPU()),
		Trials:        getEnvAsInt("MAB_TRIALS", 1000),
		Repetitions:   getEnvAsInt("MAB_REPETITIONS", 100),
		Seed:          getEnvAsUint64("MAB_SEED", 0),
		Epsilon:       getEnvAsFloat("MAB_EPSILON", bandit.DefaultEpsilon),
		Optimistic:    getEnvAsFloat("MAB_OPTIMISTIC_VALUE", bandit.DefaultOptimisticValue),
		Deadline:      getEnvAsDuration("MAB_DEADLINE", 0),
		Probabilities: probs,
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded values can drive a simulation
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%w: MAB_WORKERS must be positive, got %d", bandit.ErrInvalidConfiguration, c.Workers)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: MAB_TRIALS must be positive, got %d", bandit.ErrInvalidConfiguration, c.Trials)
	}
	if c.Repetitions <= 0 {
		return fmt.Errorf("%w: MAB_REPETITIONS must be positive, got %d", bandit.ErrInvalidConfiguration, c.Repetitions)
	}
	if c.Deadline < 0 {
		return fmt.Errorf("%w: MAB_DEADLINE must not be negative", bandit.ErrInvalidConfiguration)
	}
	if err := c.Options().Validate(); err != nil {
		return err
	}
	if len(c.Probabilities) == 0 {
		return fmt.Errorf("%w: MAB_PROBABILITIES is empty", bandit.ErrInvalidConfiguration)
	}
	for i, p := range c.Probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: MAB_PROBABILITIES value %d must be within [0, 1], got %v", bandit.ErrInvalidConfiguration, i, p)
		}
	}
	return nil
}

// Options returns the policy options carried by the configuration
func (c *Config) Options() bandit.Options {
	return bandit.Options{
		Epsilon:         bandit.Float(c.Epsilon),
		OptimisticValue: bandit.Float(c.Optimistic),
	}
}

// Experiment builds an experiment for the given policy from the configured defaults
func (c *Config) Experiment(policy bandit.Name) simulation.Experiment {
	probs := make([]float64, len(c.Probabilities))
	copy(probs, c.Probabilities)
	return simulation.Experiment{
		Policy:        policy,
		NumTrials:     c.Trials,
		Probabilities: probs,
		Options:       c.Options(),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
