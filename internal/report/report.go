// Package report encodes simulation output for the command line as JSON,
// msgpack or an aligned text table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aristath/mabsim/internal/aggregate"
	"github.com/aristath/mabsim/internal/simulation"
	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the encoding used by a Writer
type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or msgpack)", s)
	}
}

// ScenarioResult pairs a scenario name with its aggregation
type ScenarioResult struct {
	Name   string            `json:"name" msgpack:"name"`
	Result *aggregate.Result `json:"result" msgpack:"result"`
}

// Writer renders results in one format
type Writer struct {
	out    io.Writer
	format Format
}

// NewWriter creates a writer for out
func NewWriter(out io.Writer, format Format) *Writer {
	if format == "" {
		format = FormatTable
	}
	return &Writer{out: out, format: format}
}

// Format returns the writer's encoding
func (w *Writer) Format() Format {
	return w.format
}

// WriteRun renders a single run
func (w *Writer) WriteRun(res *simulation.Result) error {
	if w.format != FormatTable {
		return w.encode(res)
	}

	tw := newTable(w.out)
	fmt.Fprintf(tw, "Policy\t%s\n", res.Policy.Label())
	fmt.Fprintf(tw, "Trials\t%d\n", res.NumTrials)
	fmt.Fprintf(tw, "Probabilities\t%s\n", joinFloats(res.Probabilities, 2))
	fmt.Fprintf(tw, "Total reward\t%.0f\n", res.TotalReward())
	fmt.Fprintf(tw, "Final win rate\t%.4f\n", res.FinalWinRate())
	fmt.Fprintf(tw, "Final performance\t%.4f\n", res.FinalPerformance())
	fmt.Fprintf(tw, "Optimal arm\t%d (%d hits, %.1f%%)\n", res.OptimalArm+1, res.OptimalHits, 100*res.OptimalHitRate())
	fmt.Fprintf(tw, "Explored / exploited\t%d / %d\n", res.Explored, res.Exploited)
	fmt.Fprintf(tw, "Pulls per arm\t%s\n", joinInts(res.TrialPulls))
	if res.PrimingPulls > 0 {
		fmt.Fprintf(tw, "Priming pulls\t%d\n", res.PrimingPulls)
	}
	if res.Investment != nil {
		fmt.Fprintf(tw, "Stake\t%.2f\n", res.Investment.Stake)
		fmt.Fprintf(tw, "Final balance\t%.2f\n", res.Investment.Final)
	}
	return tw.Flush()
}

// WriteAggregate renders an aggregation
func (w *Writer) WriteAggregate(res *aggregate.Result) error {
	if w.format != FormatTable {
		return w.encode(res)
	}
	tw := newTable(w.out)
	writeAggregateRows(tw, res)
	return tw.Flush()
}

// WriteComparison renders the policy comparison table
func (w *Writer) WriteComparison(rows []aggregate.Row) error {
	if w.format != FormatTable {
		return w.encode(rows)
	}

	arms := 0
	for _, r := range rows {
		if len(r.MeanTrialPulls) > arms {
			arms = len(r.MeanTrialPulls)
		}
	}

	tw := newTable(w.out)
	header := []string{"Algorithm", "Win Rate", "Performance", "Optimal Hits"}
	for i := 0; i < arms; i++ {
		header = append(header, fmt.Sprintf("Arm %d", i+1))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range rows {
		cells := []string{
			r.Label,
			fmt.Sprintf("%.4f", r.MeanFinalWinRate),
			fmt.Sprintf("%.4f", r.MeanFinalPerformance),
			fmt.Sprintf("%.1f", r.MeanOptimalHits),
		}
		for _, p := range r.MeanTrialPulls {
			cells = append(cells, fmt.Sprintf("%.1f", p))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteScenarios renders the aggregations of a scenario file in file order
func (w *Writer) WriteScenarios(results []ScenarioResult) error {
	if w.format != FormatTable {
		return w.encode(results)
	}

	tw := newTable(w.out)
	for i, sr := range results {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "Scenario\t%s\n", sr.Name)
		writeAggregateRows(tw, sr.Result)
	}
	return tw.Flush()
}

func writeAggregateRows(tw *tabwriter.Writer, res *aggregate.Result) {
	fmt.Fprintf(tw, "Run\t%s\n", res.ID)
	fmt.Fprintf(tw, "Policy\t%s\n", res.Policy.Label())
	fmt.Fprintf(tw, "Trials x repetitions\t%d x %d\n", res.NumTrials, res.Repetitions)
	fmt.Fprintf(tw, "Probabilities\t%s\n", joinFloats(res.Probabilities, 2))
	fmt.Fprintf(tw, "Seed\t%d\n", res.Seed)
	fmt.Fprintf(tw, "Mean final win rate\t%.4f\n", res.MeanFinalWinRate())
	fmt.Fprintf(tw, "Final performance\tmean %.4f  sd %.4f  p10 %.4f  p90 %.4f\n",
		res.Performance.Mean, res.Performance.StdDev, res.Performance.P10, res.Performance.P90)
	fmt.Fprintf(tw, "Mean optimal hits\t%.1f\n", res.MeanOptimalHits)
	fmt.Fprintf(tw, "Mean explored / exploited\t%.1f / %.1f\n", res.MeanExplored, res.MeanExploited)
	fmt.Fprintf(tw, "Mean pulls per arm\t%s\n", joinFloats(res.MeanTrialPulls, 1))
	if res.Balance != nil && res.Stake != nil {
		fmt.Fprintf(tw, "Stake\t%.2f\n", *res.Stake)
		fmt.Fprintf(tw, "Final balance\tmean %.2f  min %.2f  max %.2f\n",
			res.Balance.Mean, res.Balance.Min, res.Balance.Max)
	}
}

func (w *Writer) encode(v interface{}) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatMsgpack:
		return msgpack.NewEncoder(w.out).Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", w.format)
	}
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func joinFloats(values []float64, precision int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.*f", precision, v)
	}
	return strings.Join(parts, ", ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
