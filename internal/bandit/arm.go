// Package bandit implements the arms and selection policies of the
// multi-armed bandit simulator.
//
// An Arm couples a fixed, hidden success probability with the running
// belief a policy keeps about it. Policies only ever read the belief; the
// true probability is exposed for instrumentation (optimal-arm detection).
package bandit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Belief selects how an arm summarises the rewards it has produced
type Belief int

const (
	// MeanBelief keeps a running mean of observed rewards
	MeanBelief Belief = iota
	// BetaBelief keeps Beta posterior parameters for Bernoulli rewards
	BetaBelief
)

// Arm is one reward source together with its belief state.
// An Arm is owned by a single run and is not safe for concurrent use.
type Arm struct {
	prob   float64
	belief Belief

	// mean belief
	estimate float64
	prior    float64 // pseudo-observations already folded into estimate

	// beta belief
	alpha float64
	beta  float64

	pulls int
}

// NewMeanArm creates an arm whose belief is a running mean starting at
// initial. priorWeight is the number of pseudo-observations the initial
// value is worth; 0 means the first real reward replaces it entirely.
func NewMeanArm(p, initial, priorWeight float64) *Arm {
	return &Arm{
		prob:     p,
		belief:   MeanBelief,
		estimate: initial,
		prior:    priorWeight,
	}
}

// NewBetaArm creates an arm with a Beta(alpha, beta) prior
func NewBetaArm(p, alpha, beta float64) *Arm {
	return &Arm{
		prob:   p,
		belief: BetaBelief,
		alpha:  alpha,
		beta:   beta,
	}
}

// Pulls returns how many times Update has been called
func (a *Arm) Pulls() int { return a.pulls }

// Alpha returns the Beta posterior alpha (successes + prior)
func (a *Arm) Alpha() float64 { return a.alpha }

// Beta returns the Beta posterior beta (failures + prior)
func (a *Arm) Beta() float64 { return a.beta }

// Estimate returns the current point estimate of the arm's win rate.
// For a Beta belief this is the posterior mean.
func (a *Arm) Estimate() float64 {
	if a.belief == BetaBelief {
		return a.alpha / (a.alpha + a.beta)
	}
	return a.estimate
}

// Pull draws a Bernoulli outcome: 1 with the arm's true probability, else 0
func (a *Arm) Pull(rng *rand.Rand) int {
	if rng.Float64() < a.prob {
		return 1
	}
	return 0
}

// Update folds one observed reward into the belief in O(1)
func (a *Arm) Update(reward int) {
	a.pulls++
	x := float64(reward)

	switch a.belief {
	case BetaBelief:
		a.alpha += x
		a.beta += 1 - x
	default:
		a.estimate += (x - a.estimate) / (float64(a.pulls) + a.prior)
	}
}

// Sample draws a win-rate sample from the Beta posterior using rng as the
// source of randomness
func (a *Arm) Sample(rng *rand.Rand) float64 {
	return distuv.Beta{Alpha: a.alpha, Beta: a.beta, Src: rng}.Rand()
}
