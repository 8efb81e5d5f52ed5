// Package formulas holds the gonum-backed statistics used to summarise
// simulation output.
package formulas

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a terminal metric across repetitions
type Summary struct {
	Count    int     `json:"count" msgpack:"count"`
	Mean     float64 `json:"mean" msgpack:"mean"`
	StdDev   float64 `json:"std_dev" msgpack:"std_dev"`
	Variance float64 `json:"variance" msgpack:"variance"`
	Min      float64 `json:"min" msgpack:"min"`
	Max      float64 `json:"max" msgpack:"max"`
	P10      float64 `json:"p10" msgpack:"p10"`
	P90      float64 `json:"p90" msgpack:"p90"`
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// ColumnMeans returns the element-wise mean of equally sized rows.
// Rows shorter than the first one are a programming error and panic inside gonum.
func ColumnMeans(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	sum := make([]float64, len(rows[0]))
	for _, row := range rows {
		floats.Add(sum, row)
	}
	floats.Scale(1/float64(len(rows)), sum)
	return sum
}

// Summarize computes the distribution summary of data
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	return Summary{
		Count:    len(sorted),
		Mean:     stat.Mean(sorted, nil),
		StdDev:   StdDev(sorted),
		Variance: Variance(sorted),
		Min:      floats.Min(sorted),
		Max:      floats.Max(sorted),
		P10:      stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P90:      stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}
