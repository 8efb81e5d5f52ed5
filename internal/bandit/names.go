package bandit

import (
	"fmt"
	"strings"
)

// Name identifies one of the supported selection policies
type Name string

const (
	Greedy                  Name = "greedy"
	EpsilonGreedy           Name = "epsilon-greedy"
	EpsilonGreedyDecay      Name = "epsilon-greedy-decay"
	OptimisticInitialValues Name = "optimistic-initial-values"
	UCB1                    Name = "ucb1"
	ThompsonSampling        Name = "thompson-sampling"
)

// Names returns every supported policy in comparison-table order
func Names() []Name {
	return []Name{
		Greedy,
		EpsilonGreedy,
		EpsilonGreedyDecay,
		OptimisticInitialValues,
		UCB1,
		ThompsonSampling,
	}
}

var labels = map[Name]string{
	Greedy:                  "Greedy",
	EpsilonGreedy:           "Epsilon Greedy",
	EpsilonGreedyDecay:      "Epsilon Greedy Decay",
	OptimisticInitialValues: "Optimistic Initial Values",
	UCB1:                    "UCB1",
	ThompsonSampling:        "Thompson Sampling",
}

var aliases = map[string]Name{
	"optimistic-initial-value":  OptimisticInitialValues,
	"optimistic":                OptimisticInitialValues,
	"epsilon-greedy-with-decay": EpsilonGreedyDecay,
	"decaying-epsilon-greedy":   EpsilonGreedyDecay,
	"ucb":                       UCB1,
	"thompson":                  ThompsonSampling,
}

// Label returns the human-readable policy name
func (n Name) Label() string {
	if l, ok := labels[n]; ok {
		return l
	}
	return string(n)
}

// Valid reports whether n is a supported policy
func (n Name) Valid() bool {
	_, ok := labels[n]
	return ok
}

// ParseName resolves canonical identifiers and display names such as
// "Epsilon Greedy" or "thompson_sampling" to a Name.
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)

	if n := Name(key); n.Valid() {
		return n, nil
	}
	if n, ok := aliases[key]; ok {
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
