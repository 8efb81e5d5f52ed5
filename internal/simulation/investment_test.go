package simulation

import (
	"math"
	"testing"

	"github.com/aristath/mabsim/internal/bandit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInvestment_BalanceFollowsOutcomes(t *testing.T) {
	exp := Experiment{Policy: bandit.EpsilonGreedy, NumTrials: 400, Probabilities: threeArms}

	res, err := RunInvestment(exp, 1000, NewRand(21, 21))
	require.NoError(t, err)
	require.NotNil(t, res.Investment)

	balance := 1000.0
	for i, trial := range res.Trials {
		if trial.Reward == 1 {
			balance += float64(i + 1)
		} else {
			balance -= float64(i + 1)
		}
		require.Equal(t, balance, res.Investment.Balances[i], "trial %d", i)
	}
	assert.Equal(t, balance, res.Investment.Final)
	assert.Equal(t, 1000.0, res.Investment.Stake)
}

func TestRunInvestment_AllLossesGoNegative(t *testing.T) {
	res, err := RunInvestment(Experiment{Policy: bandit.Greedy, NumTrials: 10, Probabilities: []float64{0}}, 5, NewRand(1, 1))
	require.NoError(t, err)

	// 5 - (1 + 2 + ... + 10)
	assert.Equal(t, -50.0, res.Investment.Final)
}

func TestRunInvestment_AllWins(t *testing.T) {
	res, err := RunInvestment(Experiment{Policy: bandit.ThompsonSampling, NumTrials: 10, Probabilities: []float64{1}}, 0, NewRand(1, 1))
	require.NoError(t, err)

	assert.Equal(t, 55.0, res.Investment.Final)
	assert.Equal(t, 1.0, res.FinalPerformance())
}

func TestRunInvestment_MatchesPlainRunForSameSeed(t *testing.T) {
	exp := Experiment{Policy: bandit.UCB1, NumTrials: 200, Probabilities: threeArms}

	plain, err := Run(exp, NewRand(5, 6))
	require.NoError(t, err)
	invested, err := RunInvestment(exp, 100, NewRand(5, 6))
	require.NoError(t, err)

	assert.Nil(t, plain.Investment)
	assert.Equal(t, plain.Trials, invested.Trials)
	assert.Equal(t, plain.Performances, invested.Performances)
}

func TestRunInvestment_InvalidStake(t *testing.T) {
	exp := Experiment{Policy: bandit.Greedy, NumTrials: 10, Probabilities: threeArms}

	for _, stake := range []float64{math.NaN(), math.Inf(1)} {
		_, err := RunInvestment(exp, stake, NewRand(1, 1))
		assert.ErrorIs(t, err, bandit.ErrInvalidConfiguration)
	}
}
