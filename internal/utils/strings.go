package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCSV splits a comma-separated string and returns trimmed non-empty values.
// Returns nil for empty/whitespace-only input.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// ParseFloatCSV parses a comma-separated list of numbers such as an arm
// probability vector ("0.25, 0.5, 0.75")
func ParseFloatCSV(s string) ([]float64, error) {
	parts := ParseCSV(s)
	if parts == nil {
		return nil, nil
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d (%q) is not a number: %w", i, p, err)
		}
		values[i] = v
	}
	return values, nil
}
