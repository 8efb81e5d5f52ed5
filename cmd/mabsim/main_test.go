package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/mabsim/internal/aggregate"
	"github.com/aristath/mabsim/internal/bandit"
	"github.com/aristath/mabsim/internal/report"
	"github.com/aristath/mabsim/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// isolateEnv clears simulator variables so tests do not depend on the host
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_PRETTY", "MAB_WORKERS", "MAB_TRIALS", "MAB_REPETITIONS", "MAB_SEED",
		"MAB_EPSILON", "MAB_OPTIMISTIC_VALUE", "MAB_DEADLINE", "MAB_PROBABILITIES",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "disabled")
}

func execute(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.Bytes(), err
}

func TestRunCommand_JSON(t *testing.T) {
	out, err := execute(t, "run", "--policy", "Epsilon Greedy", "--trials", "100", "--probs", "0.2,0.8", "--seed", "3", "--format", "json")
	require.NoError(t, err)

	var res simulation.Result
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, bandit.EpsilonGreedy, res.Policy)
	assert.Equal(t, 100, res.NumTrials)
	assert.Len(t, res.WinRates, 100)
	assert.Equal(t, []float64{0.2, 0.8}, res.Probabilities)
	assert.Nil(t, res.Investment)
}

func TestRunCommand_MatchesFirstRepetition(t *testing.T) {
	out, err := execute(t, "run", "--policy", "ucb1", "--trials", "60", "--probs", "0.3,0.6", "--seed", "9", "--format", "json")
	require.NoError(t, err)
	var single simulation.Result
	require.NoError(t, json.Unmarshal(out, &single))

	out, err = execute(t, "repeat", "--policy", "ucb1", "--trials", "60", "--probs", "0.3,0.6", "--seed", "9", "--repetitions", "1", "--format", "json")
	require.NoError(t, err)
	var repeated aggregate.Result
	require.NoError(t, json.Unmarshal(out, &repeated))

	assert.Equal(t, single.WinRates, repeated.MeanWinRates)
}

func TestRunCommand_ZeroEpsilon(t *testing.T) {
	out, err := execute(t, "run", "--policy", "epsilon-greedy", "--epsilon", "0", "--trials", "300", "--seed", "1", "--format", "json")
	require.NoError(t, err)

	var res simulation.Result
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, 0, res.Explored)
	assert.Equal(t, 300, res.Exploited)
}

func TestRunCommand_Stake(t *testing.T) {
	out, err := execute(t, "run", "--policy", "greedy", "--trials", "10", "--probs", "1", "--stake", "5", "--format", "json")
	require.NoError(t, err)

	var res simulation.Result
	require.NoError(t, json.Unmarshal(out, &res))
	require.NotNil(t, res.Investment)
	assert.Equal(t, 60.0, res.Investment.Final)
}

func TestRunCommand_Table(t *testing.T) {
	out, err := execute(t, "run", "--policy", "thompson-sampling", "--trials", "50")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Thompson Sampling")
}

func TestRunCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown policy", []string{"run", "--policy", "softmax"}, bandit.ErrUnknownPolicy},
		{"zero trials", []string{"run", "--trials", "0"}, bandit.ErrInvalidConfiguration},
		{"probability out of range", []string{"run", "--probs", "0.5,2"}, bandit.ErrInvalidConfiguration},
		{"bad epsilon", []string{"run", "--policy", "epsilon-greedy", "--epsilon", "3"}, bandit.ErrInvalidConfiguration},
		{"zero workers", []string{"repeat", "--workers", "0"}, bandit.ErrInvalidConfiguration},
		{"zero repetitions", []string{"repeat", "--repetitions", "0", "--trials", "5"}, bandit.ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "run", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRepeatCommand_Msgpack(t *testing.T) {
	out, err := execute(t, "repeat", "--policy", "ucb1", "--trials", "80", "--repetitions", "6", "--seed", "4", "--workers", "3", "--format", "msgpack")
	require.NoError(t, err)

	var res aggregate.Result
	require.NoError(t, msgpack.Unmarshal(out, &res))
	assert.Equal(t, bandit.UCB1, res.Policy)
	assert.Equal(t, 6, res.Repetitions)
	assert.Equal(t, uint64(4), res.Seed)
	assert.Len(t, res.MeanPerformances, 80)
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--trials", "50", "--repetitions", "3", "--seed", "1", "--format", "json")
	require.NoError(t, err)

	var rows []aggregate.Row
	require.NoError(t, json.Unmarshal(out, &rows))
	require.Len(t, rows, len(bandit.Names()))
	assert.Equal(t, bandit.Greedy, rows[0].Policy)
	assert.Equal(t, bandit.ThompsonSampling, rows[5].Policy)
}

func TestCompareCommand_PolicySubset(t *testing.T) {
	out, err := execute(t, "compare", "--policies", "UCB1, thompson sampling", "--trials", "30", "--repetitions", "2", "--format", "json")
	require.NoError(t, err)

	var rows []aggregate.Row
	require.NoError(t, json.Unmarshal(out, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, bandit.UCB1, rows[0].Policy)
	assert.Equal(t, bandit.ThompsonSampling, rows[1].Policy)

	_, err = execute(t, "compare", "--policies", "ucb1,softmax")
	assert.ErrorIs(t, err, bandit.ErrUnknownPolicy)
}

func TestScenarioCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	doc := `
defaults:
  trials: 40
  repetitions: 3
  seed: 2
  probabilities: [0.4, 0.6]
scenarios:
  - name: thompson
    policy: Thompson Sampling
  - name: staked
    policy: greedy
    stake: 10
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "scenario", "--file", path, "--format", "json")
	require.NoError(t, err)

	var results []report.ScenarioResult
	require.NoError(t, json.Unmarshal(out, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "thompson", results[0].Name)
	assert.Equal(t, bandit.ThompsonSampling, results[0].Result.Policy)
	assert.Equal(t, "staked", results[1].Name)
	require.NotNil(t, results[1].Result.Balance)
	assert.Len(t, results[1].Result.MeanBalances, 40)
}

func TestScenarioCommand_RequiresFile(t *testing.T) {
	_, err := execute(t, "scenario")
	require.Error(t, err)
}
