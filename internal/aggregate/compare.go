package aggregate

import (
	"context"
	"fmt"

	"github.com/aristath/mabsim/internal/bandit"
	"github.com/aristath/mabsim/internal/simulation"
)

// CompareRequest runs the same arms, trial count and seed under several policies
type CompareRequest struct {
	Policies      []bandit.Name // empty means every supported policy
	NumTrials     int
	Probabilities []float64
	Options       bandit.Options
	Repetitions   int
	Seed          uint64
}

// Row is one line of the policy comparison table
type Row struct {
	Policy               bandit.Name `json:"policy" msgpack:"policy"`
	Label                string      `json:"label" msgpack:"label"`
	MeanFinalWinRate     float64     `json:"mean_final_win_rate" msgpack:"mean_final_win_rate"`
	MeanFinalPerformance float64     `json:"mean_final_performance" msgpack:"mean_final_performance"`
	MeanTrialPulls       []float64   `json:"mean_trial_pulls" msgpack:"mean_trial_pulls"`
	MeanOptimalHits      float64     `json:"mean_optimal_hits" msgpack:"mean_optimal_hits"`
}

func (c CompareRequest) requests() ([]Request, error) {
	policies := c.Policies
	if len(policies) == 0 {
		policies = bandit.Names()
	}

	reqs := make([]Request, 0, len(policies))
	seen := make(map[bandit.Name]bool, len(policies))
	for _, name := range policies {
		if seen[name] {
			return nil, fmt.Errorf("%w: policy %q listed twice", bandit.ErrInvalidConfiguration, name)
		}
		seen[name] = true

		req := Request{
			Experiment: simulation.Experiment{
				Policy:        name,
				NumTrials:     c.NumTrials,
				Probabilities: c.Probabilities,
				Options:       c.Options,
			},
			Repetitions: c.Repetitions,
			Seed:        c.Seed,
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Compare aggregates every requested policy under identical inputs and
// returns one row per policy in request order. All requests are validated
// before the first repetition runs.
func (a *Aggregator) Compare(ctx context.Context, req CompareRequest) ([]Row, error) {
	reqs, err := req.requests()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(reqs))
	for _, r := range reqs {
		res, err := a.Run(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", r.Experiment.Policy, err)
		}
		rows = append(rows, Row{
			Policy:               res.Policy,
			Label:                res.Policy.Label(),
			MeanFinalWinRate:     res.MeanFinalWinRate(),
			MeanFinalPerformance: res.MeanFinalPerformance(),
			MeanTrialPulls:       res.MeanTrialPulls,
			MeanOptimalHits:      res.MeanOptimalHits,
		})
	}

	a.log.Debug().Int("policies", len(rows)).Msg("Comparison complete")
	return rows, nil
}
