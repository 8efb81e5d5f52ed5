package simulation

import "github.com/aristath/mabsim/internal/bandit"

// Trial is the immutable record of one counted pull
type Trial struct {
	Arm      int  `json:"arm" msgpack:"arm"`
	Reward   int  `json:"reward" msgpack:"reward"`
	Explored bool `json:"explored,omitempty" msgpack:"explored,omitempty"`
}

// Investment tracks the escalating-stake balance of an investment run
type Investment struct {
	Stake    float64   `json:"stake" msgpack:"stake"`
	Balances []float64 `json:"balances" msgpack:"balances"`
	Final    float64   `json:"final" msgpack:"final"`
}

// Result is the read-only outcome of one run. Sequences are indexed by
// trial number and exclude priming pulls.
type Result struct {
	Policy        bandit.Name `json:"policy" msgpack:"policy"`
	NumTrials     int         `json:"num_trials" msgpack:"num_trials"`
	Probabilities []float64   `json:"probabilities" msgpack:"probabilities"`

	Trials            []Trial   `json:"trials" msgpack:"trials"`
	CumulativeRewards []float64 `json:"cumulative_rewards" msgpack:"cumulative_rewards"`
	WinRates          []float64 `json:"win_rates" msgpack:"win_rates"`
	Performances      []float64 `json:"performances" msgpack:"performances"`

	PullCounts   []int `json:"pull_counts" msgpack:"pull_counts"` // every pull, priming included
	TrialPulls   []int `json:"trial_pulls" msgpack:"trial_pulls"` // counted trials only
	PrimingPulls int   `json:"priming_pulls" msgpack:"priming_pulls"`

	Explored  int `json:"num_times_explored" msgpack:"num_times_explored"`
	Exploited int `json:"num_times_exploited" msgpack:"num_times_exploited"`

	// OptimalArm is the lowest index holding the highest true probability.
	// When several arms tie for best, only pulls of that arm count in OptimalHits.
	OptimalArm  int `json:"optimal_arm" msgpack:"optimal_arm"`
	OptimalHits int `json:"num_optimal" msgpack:"num_optimal"`

	Investment *Investment `json:"investment,omitempty" msgpack:"investment,omitempty"`
}

// FinalWinRate returns the win rate after the last trial
func (r *Result) FinalWinRate() float64 {
	return r.WinRates[len(r.WinRates)-1]
}

// FinalPerformance returns the performance after the last trial
func (r *Result) FinalPerformance() float64 {
	return r.Performances[len(r.Performances)-1]
}

// OptimalHitRate returns the fraction of trials that pulled the optimal arm
func (r *Result) OptimalHitRate() float64 {
	return float64(r.OptimalHits) / float64(r.NumTrials)
}

// TotalReward returns the number of successful counted trials
func (r *Result) TotalReward() float64 {
	return r.CumulativeRewards[len(r.CumulativeRewards)-1]
}
