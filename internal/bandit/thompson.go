package bandit

import "math/rand/v2"

// thompson draws one sample from each arm's Beta posterior and pulls the
// arm with the largest draw.
type thompson struct {
	scores scoreBuffer
}

func (t *thompson) Name() Name { return ThompsonSampling }

// Beta(1, 1) is the uniform prior.
func (t *thompson) NewArm(p float64) *Arm { return NewBetaArm(p, 1, 1) }

func (t *thompson) Select(arms []*Arm, _ int, rng *rand.Rand) Decision {
	scores := t.scores.reset(len(arms))
	for i, a := range arms {
		scores[i] = a.Sample(rng)
	}
	return Decision{Arm: argmax(scores)}
}

func (t *thompson) Update(arm *Arm, reward int) { arm.Update(reward) }
