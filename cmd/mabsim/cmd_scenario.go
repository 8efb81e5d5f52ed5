package main

import (
	"fmt"

	"github.com/aristath/mabsim/internal/aggregate"
	"github.com/aristath/mabsim/internal/config"
	"github.com/aristath/mabsim/internal/report"
	"github.com/spf13/cobra"
)

func newScenarioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run every scenario of a YAML file",
		Long: `Load named scenarios from a YAML file and aggregate each one.

A scenario file looks like:

  defaults:
    trials: 1000
    repetitions: 100
    probabilities: [0.25, 0.50, 0.75]
  scenarios:
    - name: baseline
      policy: thompson-sampling
    - name: escalating-stake
      policy: ucb1
      stake: 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")

			scenarios, err := config.LoadScenarios(path)
			if err != nil {
				return err
			}

			ctx, cancel := a.runContext(cmd)
			defer cancel()

			agg := a.aggregator()
			results := make([]report.ScenarioResult, 0, len(scenarios))
			for _, s := range scenarios {
				exp, err := s.Experiment()
				if err != nil {
					return fmt.Errorf("scenario %q: %w", s.Name, err)
				}
				seed := s.Seed
				if seed == 0 {
					seed = a.cfg.Seed
				}

				a.log.Info().Str("scenario", s.Name).Msg("Running scenario")
				res, err := agg.Run(ctx, aggregate.Request{
					Experiment:  exp,
					Repetitions: s.Repetitions,
					Seed:        seed,
					Stake:       s.Stake,
				})
				if err != nil {
					return fmt.Errorf("scenario %q: %w", s.Name, err)
				}
				results = append(results, report.ScenarioResult{Name: s.Name, Result: res})
			}

			return a.writer.WriteScenarios(results)
		},
	}

	cmd.Flags().String("file", "", "Path to the scenario YAML file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
