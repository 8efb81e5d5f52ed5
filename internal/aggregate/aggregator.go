// Package aggregate repeats a simulated experiment many times with
// independent random sources and reduces the runs to mean curves,
// terminal distributions and per-policy comparison rows.
package aggregate

import (
	"context"
	"fmt"

	"github.com/aristath/mabsim/internal/bandit"
	"github.com/aristath/mabsim/internal/simulation"
	"github.com/aristath/mabsim/internal/utils"
	"github.com/aristath/mabsim/internal/workers"
	"github.com/aristath/mabsim/pkg/formulas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request describes one aggregation. Repetition r draws from
// simulation.NewRand(Seed, r), so output depends only on the request.
type Request struct {
	Experiment  simulation.Experiment
	Repetitions int
	Seed        uint64
	Stake       *float64 // non-nil runs the investment variant
}

// Validate checks the request before any repetition starts
func (r Request) Validate() error {
	if r.Repetitions <= 0 {
		return fmt.Errorf("%w: repetitions must be positive, got %d", bandit.ErrInvalidConfiguration, r.Repetitions)
	}
	if err := r.Experiment.Validate(); err != nil {
		return err
	}
	if r.Stake != nil {
		return simulation.ValidateStake(*r.Stake)
	}
	return nil
}

// Result is the reduced output of Repetitions independent runs
type Result struct {
	ID            string         `json:"id" msgpack:"id"`
	Policy        bandit.Name    `json:"policy" msgpack:"policy"`
	NumTrials     int            `json:"num_trials" msgpack:"num_trials"`
	Probabilities []float64      `json:"probabilities" msgpack:"probabilities"`
	Options       bandit.Options `json:"options" msgpack:"options"`
	Repetitions   int            `json:"repetitions" msgpack:"repetitions"`
	Seed          uint64         `json:"seed" msgpack:"seed"`
	Stake         *float64       `json:"stake,omitempty" msgpack:"stake,omitempty"`

	MeanWinRates     []float64 `json:"mean_win_rates" msgpack:"mean_win_rates"`
	MeanPerformances []float64 `json:"mean_performances" msgpack:"mean_performances"`
	MeanBalances     []float64 `json:"mean_balances,omitempty" msgpack:"mean_balances,omitempty"`

	MeanPullCounts  []float64 `json:"mean_pull_counts" msgpack:"mean_pull_counts"`
	MeanTrialPulls  []float64 `json:"mean_trial_pulls" msgpack:"mean_trial_pulls"`
	MeanExplored    float64   `json:"mean_explored" msgpack:"mean_explored"`
	MeanExploited   float64   `json:"mean_exploited" msgpack:"mean_exploited"`
	MeanOptimalHits float64   `json:"mean_optimal_hits" msgpack:"mean_optimal_hits"`

	FinalWinRates     []float64 `json:"final_win_rates" msgpack:"final_win_rates"`
	FinalPerformances []float64 `json:"final_performances" msgpack:"final_performances"`
	FinalBalances     []float64 `json:"final_balances,omitempty" msgpack:"final_balances,omitempty"`

	Performance formulas.Summary  `json:"performance" msgpack:"performance"`
	Balance     *formulas.Summary `json:"balance,omitempty" msgpack:"balance,omitempty"`
}

// MeanFinalWinRate returns the win rate after the last trial averaged over repetitions
func (r *Result) MeanFinalWinRate() float64 {
	return formulas.Mean(r.FinalWinRates)
}

// MeanFinalPerformance returns the performance after the last trial averaged over repetitions
func (r *Result) MeanFinalPerformance() float64 {
	return r.Performance.Mean
}

// Aggregator runs repetitions on a worker pool
type Aggregator struct {
	pool     *workers.WorkerPool
	log      zerolog.Logger
	progress workers.ProgressCallback
}

// New creates an aggregator backed by pool
func New(pool *workers.WorkerPool, log zerolog.Logger) *Aggregator {
	if pool == nil {
		pool = workers.NewWorkerPool(workers.DefaultWorkers)
	}
	return &Aggregator{
		pool: pool,
		log:  log.With().Str("component", "aggregator").Logger(),
	}
}

// SetProgressCallback registers a callback invoked after every completed repetition
func (a *Aggregator) SetProgressCallback(cb workers.ProgressCallback) {
	a.progress = cb
}

// Run executes the request and reduces its repetitions.
// The context is consulted between repetitions only; expiry returns an
// error wrapping ctx.Err().
func (a *Aggregator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	exp := req.Experiment
	log := a.log.With().
		Str("run_id", id).
		Str("policy", string(exp.Policy)).
		Logger()

	log.Info().
		Int("repetitions", req.Repetitions).
		Int("trials", exp.NumTrials).
		Int("arms", len(exp.Probabilities)).
		Uint64("seed", req.Seed).
		Int("workers", a.pool.NumWorkers()).
		Msg("Starting aggregation")

	timer := utils.NewTimer("aggregate", log)

	task := func(_ context.Context, index int) (*simulation.Result, error) {
		rng := simulation.NewRand(req.Seed, uint64(index))
		if req.Stake != nil {
			return simulation.RunInvestment(exp, *req.Stake, rng)
		}
		return simulation.Run(exp, rng)
	}

	runs, err := a.pool.RunRepetitions(ctx, req.Repetitions, task, a.progress)
	if err != nil {
		log.Warn().Err(err).Msg("Aggregation interrupted")
		return nil, fmt.Errorf("aggregation %s: %w", id, err)
	}

	result := reduce(id, req, runs)

	duration := timer.Stop(map[string]interface{}{
		"repetitions": req.Repetitions,
	})
	log.Info().
		Float64("mean_final_performance", result.MeanFinalPerformance()).
		Float64("mean_optimal_hits", result.MeanOptimalHits).
		Dur("duration", duration).
		Msg("Aggregation complete")

	return result, nil
}

// reduce folds per-repetition results, in repetition order, into one Result
func reduce(id string, req Request, runs []*simulation.Result) *Result {
	exp := req.Experiment
	n := len(runs)
	arms := len(exp.Probabilities)

	winRates := make([][]float64, n)
	performances := make([][]float64, n)
	pullCounts := make([][]float64, n)
	trialPulls := make([][]float64, n)

	result := &Result{
		ID:                id,
		Policy:            exp.Policy,
		NumTrials:         exp.NumTrials,
		Probabilities:     append([]float64(nil), exp.Probabilities...),
		Options:           exp.Options.WithDefaults(),
		Repetitions:       req.Repetitions,
		Seed:              req.Seed,
		Stake:             req.Stake,
		FinalWinRates:     make([]float64, n),
		FinalPerformances: make([]float64, n),
	}

	var balances [][]float64
	if req.Stake != nil {
		balances = make([][]float64, n)
		result.FinalBalances = make([]float64, n)
	}

	var explored, exploited, optimal float64
	for i, run := range runs {
		winRates[i] = run.WinRates
		performances[i] = run.Performances
		pullCounts[i] = toFloats(run.PullCounts, arms)
		trialPulls[i] = toFloats(run.TrialPulls, arms)

		result.FinalWinRates[i] = run.FinalWinRate()
		result.FinalPerformances[i] = run.FinalPerformance()

		explored += float64(run.Explored)
		exploited += float64(run.Exploited)
		optimal += float64(run.OptimalHits)

		if balances != nil {
			balances[i] = run.Investment.Balances
			result.FinalBalances[i] = run.Investment.Final
		}
	}

	result.MeanWinRates = formulas.ColumnMeans(winRates)
	result.MeanPerformances = formulas.ColumnMeans(performances)
	result.MeanPullCounts = formulas.ColumnMeans(pullCounts)
	result.MeanTrialPulls = formulas.ColumnMeans(trialPulls)
	result.MeanExplored = explored / float64(n)
	result.MeanExploited = exploited / float64(n)
	result.MeanOptimalHits = optimal / float64(n)
	result.Performance = formulas.Summarize(result.FinalPerformances)

	if balances != nil {
		result.MeanBalances = formulas.ColumnMeans(balances)
		summary := formulas.Summarize(result.FinalBalances)
		result.Balance = &summary
	}

	return result
}

func toFloats(counts []int, n int) []float64 {
	out := make([]float64, n)
	for i, c := range counts {
		out[i] = float64(c)
	}
	return out
}
