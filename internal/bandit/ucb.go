package bandit

import (
	"math"
	"math/rand/v2"
)

// ucb1 picks the arm with the highest upper confidence bound
// estimate + sqrt(2 ln(totalPlays) / pulls).
type ucb1 struct {
	totalPlays int
	scores     scoreBuffer
}

func (u *ucb1) Name() Name { return UCB1 }

func (u *ucb1) NewArm(p float64) *Arm { return NewMeanArm(p, 0, 0) }

// Prime pulls every arm once so no confidence term divides by zero.
func (u *ucb1) Prime(arms []*Arm, rng *rand.Rand) int {
	for _, a := range arms {
		u.Update(a, a.Pull(rng))
	}
	return len(arms)
}

func (u *ucb1) Select(arms []*Arm, _ int, _ *rand.Rand) Decision {
	scores := u.scores.reset(len(arms))
	logPlays := math.Log(float64(u.totalPlays))

	for i, a := range arms {
		if a.Pulls() == 0 {
			// Unprimed arm: pull it before trusting any bound.
			return Decision{Arm: i}
		}
		scores[i] = a.Estimate() + math.Sqrt(2*logPlays/float64(a.Pulls()))
	}
	return Decision{Arm: argmax(scores)}
}

func (u *ucb1) Update(arm *Arm, reward int) {
	u.totalPlays++
	arm.Update(reward)
}

// TotalPlays returns the number of pulls seen, priming included
func (u *ucb1) TotalPlays() int { return u.totalPlays }
