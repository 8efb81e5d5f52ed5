package main

import (
	"github.com/aristath/mabsim/internal/aggregate"
	"github.com/spf13/cobra"
)

func newRepeatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repeat",
		Short: "Repeat one policy and average the runs",
		Example: `  mabsim repeat --policy thompson-sampling --repetitions 100 --seed 42
  mabsim repeat --policy greedy --probs 0.75,0.5,0.25 --stake 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := a.experiment(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := a.runContext(cmd)
			defer cancel()

			res, err := a.aggregator().Run(ctx, aggregate.Request{
				Experiment:  exp,
				Repetitions: a.repetitions(cmd),
				Seed:        a.seed(cmd),
				Stake:       stake(cmd),
			})
			if err != nil {
				return err
			}

			return a.writer.WriteAggregate(res)
		},
	}

	addExperimentFlags(cmd, true)
	cmd.Flags().Int("repetitions", 0, "Number of repetitions (default MAB_REPETITIONS)")
	cmd.Flags().Float64("stake", 0, "Starting balance for the escalating-stake variant")

	return cmd
}
