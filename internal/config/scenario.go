package config

import (
	"fmt"
	"os"

	"github.com/aristath/mabsim/internal/bandit"
	"github.com/aristath/mabsim/internal/simulation"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var scenarioValidate *validator.Validate

func init() {
	scenarioValidate = validator.New()
	_ = scenarioValidate.RegisterValidation("policy", validatePolicy)
}

// validatePolicy accepts canonical policy identifiers and their display names
func validatePolicy(fl validator.FieldLevel) bool {
	_, err := bandit.ParseName(fl.Field().String())
	return err == nil
}

// Scenario is one named aggregation described in a scenario file
type Scenario struct {
	Name          string         `yaml:"name" validate:"required"`
	Policy        string         `yaml:"policy" validate:"required,policy"`
	Trials        int            `yaml:"trials" validate:"gt=0"`
	Repetitions   int            `yaml:"repetitions" validate:"gt=0"`
	Seed          uint64         `yaml:"seed"`
	Stake         *float64       `yaml:"stake,omitempty"`
	Probabilities []float64      `yaml:"probabilities" validate:"required,min=1,dive,gte=0,lte=1"`
	Options       bandit.Options `yaml:"options"`
}

// ScenarioFile is the top-level document of a scenario file. Defaults fill
// fields a scenario leaves unset.
type ScenarioFile struct {
	Defaults  ScenarioDefaults `yaml:"defaults"`
	Scenarios []Scenario       `yaml:"scenarios" validate:"required,min=1,dive"`
}

// ScenarioDefaults holds values shared by every scenario in a file
type ScenarioDefaults struct {
	Trials        int            `yaml:"trials"`
	Repetitions   int            `yaml:"repetitions"`
	Seed          uint64         `yaml:"seed"`
	Probabilities []float64      `yaml:"probabilities"`
	Options       bandit.Options `yaml:"options"`
}

// Experiment converts the scenario to a runnable experiment
func (s Scenario) Experiment() (simulation.Experiment, error) {
	name, err := bandit.ParseName(s.Policy)
	if err != nil {
		return simulation.Experiment{}, err
	}
	return simulation.Experiment{
		Policy:        name,
		NumTrials:     s.Trials,
		Probabilities: s.Probabilities,
		Options:       s.Options,
	}, nil
}

// LoadScenarios reads and validates a YAML scenario file
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes a scenario document, applies file defaults and
// validates every scenario
func ParseScenarios(data []byte) ([]Scenario, error) {
	file := ScenarioFile{
		Defaults: ScenarioDefaults{
			Trials:      1000,
			Repetitions: 100,
		},
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	for i := range file.Scenarios {
		file.Scenarios[i].applyDefaults(file.Defaults)
	}

	if err := scenarioValidate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", bandit.ErrInvalidConfiguration, err)
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for _, s := range file.Scenarios {
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate scenario name %q", bandit.ErrInvalidConfiguration, s.Name)
		}
		seen[s.Name] = true
		if err := s.Options.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if s.Stake != nil {
			if err := simulation.ValidateStake(*s.Stake); err != nil {
				return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
			}
		}
	}

	return file.Scenarios, nil
}

func (s *Scenario) applyDefaults(d ScenarioDefaults) {
	if s.Trials == 0 {
		s.Trials = d.Trials
	}
	if s.Repetitions == 0 {
		s.Repetitions = d.Repetitions
	}
	if s.Seed == 0 {
		s.Seed = d.Seed
	}
	if len(s.Probabilities) == 0 {
		s.Probabilities = append([]float64(nil), d.Probabilities...)
	}
	if s.Options.Epsilon == nil {
		s.Options.Epsilon = d.Options.Epsilon
	}
	if s.Options.OptimisticValue == nil {
		s.Options.OptimisticValue = d.Options.OptimisticValue
	}
}
