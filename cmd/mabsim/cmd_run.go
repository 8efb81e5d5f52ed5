package main

import (
	"github.com/aristath/mabsim/internal/simulation"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one policy once",
		Long: `Run one policy for the given number of trials and print the
reward curve summary. The run uses the same random stream as repetition 0
of "mabsim repeat" with the same seed.`,
		Example: `  mabsim run --policy ucb1 --trials 1000 --probs 0.25,0.5,0.75
  mabsim run --policy "Epsilon Greedy" --epsilon 0.2 --stake 10 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := a.experiment(cmd)
			if err != nil {
				return err
			}

			seed := a.seed(cmd)
			rng := simulation.NewRand(seed, 0)

			var res *simulation.Result
			if s := stake(cmd); s != nil {
				res, err = simulation.RunInvestment(exp, *s, rng)
			} else {
				res, err = simulation.Run(exp, rng)
			}
			if err != nil {
				return err
			}

			a.log.Info().
				Str("policy", string(exp.Policy)).
				Uint64("seed", seed).
				Float64("final_performance", res.FinalPerformance()).
				Msg("Run complete")

			return a.writer.WriteRun(res)
		},
	}

	addExperimentFlags(cmd, true)
	cmd.Flags().Float64("stake", 0, "Starting balance for the escalating-stake variant")

	return cmd
}
