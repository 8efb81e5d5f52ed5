package simulation

import (
	"math/rand/v2"

	"github.com/aristath/mabsim/internal/bandit"
)

// runner owns the arms and policy of exactly one run
type runner struct {
	exp     Experiment
	policy  bandit.Policy
	arms    []*bandit.Arm
	rng     *rand.Rand
	optimal int
	best    float64
}

// newRunner validates exp and builds fresh arms and a fresh policy instance.
// The policy is chosen here once and never re-dispatched per trial.
func newRunner(exp Experiment, rng *rand.Rand) (*runner, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}

	policy, err := bandit.New(exp.Policy, exp.Options)
	if err != nil {
		return nil, err
	}

	arms := make([]*bandit.Arm, len(exp.Probabilities))
	for i, p := range exp.Probabilities {
		arms[i] = policy.NewArm(p)
	}

	if rng == nil {
		rng = NewRand(rand.Uint64(), rand.Uint64())
	}

	optimal, best := OptimalArm(exp.Probabilities)

	return &runner{
		exp:     exp,
		policy:  policy,
		arms:    arms,
		rng:     rng,
		optimal: optimal,
		best:    best,
	}, nil
}

// NewRand returns a PCG-backed random source for one run or repetition
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Run executes exp.NumTrials sequential pulls. UCB1 priming pulls happen
// before the counted trials and are not part of the reward sequence.
// A nil rng draws a fresh seed from the runtime source.
func Run(exp Experiment, rng *rand.Rand) (*Result, error) {
	r, err := newRunner(exp, rng)
	if err != nil {
		return nil, err
	}
	return r.run(nil), nil
}

// RunInvestment is Run plus a balance that starts at stake and moves by
// trial index + 1 on every counted trial: up on a win, down on a loss.
// Negative balances are reported as is.
func RunInvestment(exp Experiment, stake float64, rng *rand.Rand) (*Result, error) {
	if err := ValidateStake(stake); err != nil {
		return nil, err
	}
	r, err := newRunner(exp, rng)
	if err != nil {
		return nil, err
	}
	return r.run(&stake), nil
}

func (r *runner) run(stake *float64) *Result {
	n := r.exp.NumTrials
	res := &Result{
		Policy:            r.exp.Policy,
		NumTrials:         n,
		Probabilities:     append([]float64(nil), r.exp.Probabilities...),
		Trials:            make([]Trial, n),
		CumulativeRewards: make([]float64, n),
		WinRates:          make([]float64, n),
		Performances:      make([]float64, n),
		PullCounts:        make([]int, len(r.arms)),
		TrialPulls:        make([]int, len(r.arms)),
		OptimalArm:        r.optimal,
	}

	var balance float64
	if stake != nil {
		balance = *stake
		res.Investment = &Investment{
			Stake:    *stake,
			Balances: make([]float64, n),
		}
	}

	if primer, ok := r.policy.(bandit.Primer); ok {
		res.PrimingPulls = primer.Prime(r.arms, r.rng)
	}

	cumulative := 0.0
	for i := 0; i < n; i++ {
		d := r.policy.Select(r.arms, i, r.rng)
		if d.Explored {
			res.Explored++
		} else {
			res.Exploited++
		}
		if d.Arm == r.optimal {
			res.OptimalHits++
		}

		arm := r.arms[d.Arm]
		x := arm.Pull(r.rng)
		r.policy.Update(arm, x)

		res.TrialPulls[d.Arm]++
		res.Trials[i] = Trial{Arm: d.Arm, Reward: x, Explored: d.Explored}

		cumulative += float64(x)
		winRate := cumulative / float64(i+1)
		res.CumulativeRewards[i] = cumulative
		res.WinRates[i] = winRate
		res.Performances[i] = r.performance(winRate)

		if res.Investment != nil {
			stakeSize := float64(i + 1)
			if x == 1 {
				balance += stakeSize
			} else {
				balance -= stakeSize
			}
			res.Investment.Balances[i] = balance
		}
	}

	for i, a := range r.arms {
		res.PullCounts[i] = a.Pulls()
	}
	if res.Investment != nil {
		res.Investment.Final = balance
	}

	return res
}

// performance normalises a win rate by the best true probability. With no
// winning arm at all nothing better is achievable, so the run scores 1.
func (r *runner) performance(winRate float64) float64 {
	if r.best == 0 {
		return 1
	}
	return winRate / r.best
}
