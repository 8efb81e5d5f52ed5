package bandit

import "math/rand/v2"

// greedy always exploits the best current estimate
type greedy struct {
	scores scoreBuffer
}

func (g *greedy) Name() Name { return Greedy }

func (g *greedy) NewArm(p float64) *Arm { return NewMeanArm(p, 0, 0) }

func (g *greedy) Select(arms []*Arm, _ int, _ *rand.Rand) Decision {
	return Decision{Arm: greedyIndex(arms, &g.scores)}
}

func (g *greedy) Update(arm *Arm, reward int) { arm.Update(reward) }

// optimistic is greedy selection over estimates that start high, so every
// untried arm looks better than any arm that has produced real rewards.
type optimistic struct {
	initial float64
	scores  scoreBuffer
}

func (o *optimistic) Name() Name { return OptimisticInitialValues }

// The optimistic value counts as one pseudo-observation.
func (o *optimistic) NewArm(p float64) *Arm { return NewMeanArm(p, o.initial, 1) }

func (o *optimistic) Select(arms []*Arm, _ int, _ *rand.Rand) Decision {
	return Decision{Arm: greedyIndex(arms, &o.scores)}
}

func (o *optimistic) Update(arm *Arm, reward int) { arm.Update(reward) }
