// Package simulation runs one bandit policy over one set of arms for a
// fixed number of sequential trials and derives the per-trial metrics.
package simulation

import (
	"fmt"
	"math"

	"github.com/aristath/mabsim/internal/bandit"
)

// Experiment describes a single simulated run
type Experiment struct {
	Policy        bandit.Name    `json:"policy" yaml:"policy" msgpack:"policy"`
	NumTrials     int            `json:"num_trials" yaml:"trials" msgpack:"num_trials"`
	Probabilities []float64      `json:"probabilities" yaml:"probabilities" msgpack:"probabilities"`
	Options       bandit.Options `json:"options" yaml:"options" msgpack:"options"`
}

// Validate checks the experiment before any simulation work is done
func (e Experiment) Validate() error {
	if e.NumTrials <= 0 {
		return fmt.Errorf("%w: num_trials must be positive, got %d", bandit.ErrInvalidConfiguration, e.NumTrials)
	}
	if len(e.Probabilities) == 0 {
		return fmt.Errorf("%w: at least one arm probability is required", bandit.ErrInvalidConfiguration)
	}
	for i, p := range e.Probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: probability %d must be within [0, 1], got %v", bandit.ErrInvalidConfiguration, i, p)
		}
	}
	if !e.Policy.Valid() {
		return fmt.Errorf("%w: %q", bandit.ErrUnknownPolicy, e.Policy)
	}
	return e.Options.Validate()
}

// ValidateStake checks the starting stake of an investment run
func ValidateStake(stake float64) error {
	if math.IsNaN(stake) || math.IsInf(stake, 0) {
		return fmt.Errorf("%w: stake must be a finite number, got %v", bandit.ErrInvalidConfiguration, stake)
	}
	return nil
}

// OptimalArm returns the index of the highest true probability, lowest
// index on ties, together with that probability
func OptimalArm(probabilities []float64) (int, float64) {
	best := 0
	for i, p := range probabilities {
		if p > probabilities[best] {
			best = i
		}
	}
	return best, probabilities[best]
}
