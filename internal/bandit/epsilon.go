package bandit

import "math/rand/v2"

// epsilonGreedy explores a uniformly random arm with probability epsilon
// and exploits the best estimate otherwise. With decay set, epsilon is
// 1/n on the n-th trial.
type epsilonGreedy struct {
	epsilon float64
	decay   bool
	scores  scoreBuffer
}

func (e *epsilonGreedy) Name() Name {
	if e.decay {
		return EpsilonGreedyDecay
	}
	return EpsilonGreedy
}

func (e *epsilonGreedy) NewArm(p float64) *Arm { return NewMeanArm(p, 0, 0) }

// Epsilon returns the exploration rate in effect for a 0-based trial index
func (e *epsilonGreedy) Epsilon(trial int) float64 {
	if e.decay {
		return 1 / float64(trial+1)
	}
	return e.epsilon
}

func (e *epsilonGreedy) Select(arms []*Arm, trial int, rng *rand.Rand) Decision {
	if rng.Float64() < e.Epsilon(trial) {
		return Decision{Arm: rng.IntN(len(arms)), Explored: true}
	}
	return Decision{Arm: greedyIndex(arms, &e.scores)}
}

func (e *epsilonGreedy) Update(arm *Arm, reward int) { arm.Update(reward) }
