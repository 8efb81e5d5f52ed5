// Package main is the command line entry point for the bandit simulator.
// Results are written to stdout in the selected format; logs go to stderr.
package main

import (
	"fmt"
	"os"

	"github.com/aristath/mabsim/internal/aggregate"
	"github.com/aristath/mabsim/internal/config"
	"github.com/aristath/mabsim/internal/report"
	"github.com/aristath/mabsim/internal/workers"
	"github.com/aristath/mabsim/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

// app carries the state shared by every subcommand once flags and
// environment have been resolved
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	writer *report.Writer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mabsim",
		Short: "Multi-armed bandit simulator",
		Long: `mabsim simulates exploration/exploitation policies on Bernoulli arms.

It runs single experiments, repeats them to average out noise, and
compares Greedy, Epsilon Greedy, Optimistic Initial Values, UCB1 and
Thompson Sampling on the same arms.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("format", string(report.FormatTable), "Output format: table, json or msgpack")
	rootCmd.PersistentFlags().Int("workers", 0, "Concurrent repetitions (default MAB_WORKERS)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (default LOG_LEVEL)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newRepeatCmd(a),
		newCompareCmd(a),
		newScenarioCmd(a),
	)

	return rootCmd
}

// setup loads configuration, applies global flag overrides and builds the
// logger and output writer
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	formatName, _ := flags.GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: cmd.ErrOrStderr(),
	})
	logger.SetGlobalLogger(a.log)
	a.writer = report.NewWriter(cmd.OutOrStdout(), format)

	a.log.Debug().
		Int("workers", cfg.Workers).
		Uint64("seed", cfg.Seed).
		Str("format", string(a.writer.Format())).
		Msg("Configuration loaded")

	return nil
}

func (a *app) aggregator() *aggregate.Aggregator {
	agg := aggregate.New(workers.NewWorkerPool(a.cfg.Workers), a.log)
	agg.SetProgressCallback(func(current, total int, message string) {
		a.log.Trace().Int("current", current).Int("total", total).Msg(message)
	})
	return agg
}
