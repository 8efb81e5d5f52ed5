package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/mabsim/internal/bandit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenarios = `
defaults:
  trials: 500
  repetitions: 20
  seed: 7
  probabilities: [0.25, 0.50, 0.75]
scenarios:
  - name: baseline
    policy: Thompson Sampling
  - name: tuned-epsilon
    policy: epsilon-greedy
    trials: 200
    probabilities: [0.1, 0.9]
    options:
      epsilon: 0.25
  - name: escalating-stake
    policy: UCB1
    stake: 10
`

func TestParseScenarios(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(sampleScenarios))
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	base := scenarios[0]
	assert.Equal(t, "baseline", base.Name)
	assert.Equal(t, 500, base.Trials)
	assert.Equal(t, 20, base.Repetitions)
	assert.Equal(t, uint64(7), base.Seed)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, base.Probabilities)
	assert.Nil(t, base.Stake)

	exp, err := base.Experiment()
	require.NoError(t, err)
	assert.Equal(t, bandit.ThompsonSampling, exp.Policy)

	tuned := scenarios[1]
	assert.Equal(t, 200, tuned.Trials)
	assert.Equal(t, []float64{0.1, 0.9}, tuned.Probabilities)
	require.NotNil(t, tuned.Options.Epsilon)
	assert.Equal(t, 0.25, *tuned.Options.Epsilon)

	stake := scenarios[2]
	require.NotNil(t, stake.Stake)
	assert.Equal(t, 10.0, *stake.Stake)
	exp, err = stake.Experiment()
	require.NoError(t, err)
	assert.Equal(t, bandit.UCB1, exp.Policy)
}

func TestParseScenarios_BuiltInDefaults(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(`
scenarios:
  - name: only
    policy: greedy
    probabilities: [0.5]
`))
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, 1000, scenarios[0].Trials)
	assert.Equal(t, 100, scenarios[0].Repetitions)
}

func TestParseScenarios_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no scenarios", "defaults:\n  trials: 10\n"},
		{"missing name", "scenarios:\n  - policy: greedy\n    probabilities: [0.5]\n"},
		{"unknown policy", "scenarios:\n  - name: a\n    policy: softmax\n    probabilities: [0.5]\n"},
		{"no probabilities", "scenarios:\n  - name: a\n    policy: greedy\n"},
		{"probability out of range", "scenarios:\n  - name: a\n    policy: greedy\n    probabilities: [0.5, 1.5]\n"},
		{"negative trials", "scenarios:\n  - name: a\n    policy: greedy\n    trials: -3\n    probabilities: [0.5]\n"},
		{"epsilon out of range", "scenarios:\n  - name: a\n    policy: greedy\n    probabilities: [0.5]\n    options:\n      epsilon: 2\n"},
		{"duplicate names", "scenarios:\n  - name: a\n    policy: greedy\n    probabilities: [0.5]\n  - name: a\n    policy: ucb1\n    probabilities: [0.5]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenarios([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, bandit.ErrInvalidConfiguration)
		})
	}
}

func TestParseScenarios_MalformedYAML(t *testing.T) {
	_, err := ParseScenarios([]byte("scenarios: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenario file")
}

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScenarios), 0o644))

	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)

	_, err = LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseScenarios_ExplicitZeroOverridesDefaults(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(`
defaults:
  probabilities: [0.5, 0.6]
  options:
    epsilon: 0.3
scenarios:
  - name: inherits
    policy: epsilon-greedy
  - name: pure-exploit
    policy: epsilon-greedy
    options:
      epsilon: 0
`))
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, 0.3, scenarios[0].Options.EpsilonValue())
	require.NotNil(t, scenarios[1].Options.Epsilon)
	assert.Equal(t, 0.0, *scenarios[1].Options.Epsilon)
}
