package main

import (
	"github.com/aristath/mabsim/internal/aggregate"
	"github.com/aristath/mabsim/internal/bandit"
	"github.com/aristath/mabsim/internal/utils"
	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare policies on the same arms",
		Long: `Repeat every policy with identical arms, trial count and seed and
print one row per policy: mean final win rate, mean final performance and
mean pulls per arm.`,
		Example: `  mabsim compare --repetitions 100 --seed 7
  mabsim compare --policies ucb1,thompson-sampling --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := a.experiment(cmd)
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetString("policies")
			var policies []bandit.Name
			for _, p := range utils.ParseCSV(raw) {
				name, err := bandit.ParseName(p)
				if err != nil {
					return err
				}
				policies = append(policies, name)
			}

			ctx, cancel := a.runContext(cmd)
			defer cancel()

			rows, err := a.aggregator().Compare(ctx, aggregate.CompareRequest{
				Policies:      policies,
				NumTrials:     exp.NumTrials,
				Probabilities: exp.Probabilities,
				Options:       exp.Options,
				Repetitions:   a.repetitions(cmd),
				Seed:          a.seed(cmd),
			})
			if err != nil {
				return err
			}

			return a.writer.WriteComparison(rows)
		},
	}

	addExperimentFlags(cmd, false)
	cmd.Flags().String("policies", "", "Comma-separated policies to compare (default all)")
	cmd.Flags().Int("repetitions", 0, "Number of repetitions per policy (default MAB_REPETITIONS)")

	return cmd
}
