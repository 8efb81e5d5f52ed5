package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/mabsim/internal/bandit"
	"github.com/aristath/mabsim/internal/simulation"
	"github.com/aristath/mabsim/internal/utils"
	"github.com/spf13/cobra"
)

// addExperimentFlags registers the flags shared by commands that simulate one policy
func addExperimentFlags(cmd *cobra.Command, withPolicy bool) {
	if withPolicy {
		cmd.Flags().String("policy", string(bandit.ThompsonSampling), "Policy to simulate")
	}
	cmd.Flags().Int("trials", 0, "Trials per run (default MAB_TRIALS)")
	cmd.Flags().String("probs", "", "Comma-separated arm probabilities (default MAB_PROBABILITIES)")
	cmd.Flags().Uint64("seed", 0, "Random seed (default MAB_SEED)")
	cmd.Flags().Float64("epsilon", 0, "Exploration rate for epsilon-greedy (default MAB_EPSILON)")
	cmd.Flags().Float64("optimistic-value", 0, "Initial estimate for optimistic initial values (default MAB_OPTIMISTIC_VALUE)")
}

// experiment resolves the experiment flags against the loaded configuration
func (a *app) experiment(cmd *cobra.Command) (simulation.Experiment, error) {
	flags := cmd.Flags()

	policy := bandit.ThompsonSampling
	if flags.Lookup("policy") != nil {
		raw, _ := flags.GetString("policy")
		name, err := bandit.ParseName(raw)
		if err != nil {
			return simulation.Experiment{}, err
		}
		policy = name
	}

	exp := a.cfg.Experiment(policy)

	if flags.Changed("trials") {
		exp.NumTrials, _ = flags.GetInt("trials")
	}
	if flags.Changed("probs") {
		raw, _ := flags.GetString("probs")
		probs, err := utils.ParseFloatCSV(raw)
		if err != nil {
			return simulation.Experiment{}, err
		}
		exp.Probabilities = probs
	}
	if flags.Changed("epsilon") {
		v, _ := flags.GetFloat64("epsilon")
		exp.Options.Epsilon = bandit.Float(v)
	}
	if flags.Changed("optimistic-value") {
		v, _ := flags.GetFloat64("optimistic-value")
		exp.Options.OptimisticValue = bandit.Float(v)
	}

	return exp, exp.Validate()
}

func (a *app) seed(cmd *cobra.Command) uint64 {
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		return seed
	}
	return a.cfg.Seed
}

func (a *app) repetitions(cmd *cobra.Command) int {
	if cmd.Flags().Changed("repetitions") {
		n, _ := cmd.Flags().GetInt("repetitions")
		return n
	}
	return a.cfg.Repetitions
}

// stake returns the --stake value, or nil when the flag was not given
func stake(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("stake") {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64("stake")
	return &v
}

// runContext returns the command context cancelled on SIGINT/SIGTERM and,
// when MAB_DEADLINE is set, after the deadline
func (a *app) runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if a.cfg.Deadline <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Deadline)
	return ctx, func() {
		cancel()
		stop()
	}
}
