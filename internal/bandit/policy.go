package bandit

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultEpsilon is the exploration rate used when Options.Epsilon is nil
	DefaultEpsilon = 0.1
	// DefaultOptimisticValue is the initial estimate used when Options.OptimisticValue is nil
	DefaultOptimisticValue = 5.0
)

// Decision is the outcome of one selection step
type Decision struct {
	Arm      int
	Explored bool // true only for explicit exploration pulls (epsilon branches)
}

// Policy decides which arm to pull on every trial and how to update the
// pulled arm. A Policy instance carries per-run state and must not be
// shared between runs.
type Policy interface {
	Name() Name
	// NewArm creates an arm with the belief representation this policy reads
	NewArm(p float64) *Arm
	// Select picks an arm for the given 0-based trial index
	Select(arms []*Arm, trial int, rng *rand.Rand) Decision
	// Update records the reward observed on arm
	Update(arm *Arm, reward int)
}

// Primer is implemented by policies that must pull arms before the counted
// trials start. Prime returns the number of pulls it performed.
type Primer interface {
	Prime(arms []*Arm, rng *rand.Rand) int
}

// Options tunes the configurable policies. Nil fields select the
// defaults; an explicit zero is honoured.
type Options struct {
	Epsilon         *float64 `json:"epsilon,omitempty" yaml:"epsilon,omitempty" msgpack:"epsilon,omitempty"`
	OptimisticValue *float64 `json:"optimistic_value,omitempty" yaml:"optimistic_value,omitempty" msgpack:"optimistic_value,omitempty"`
}

// Float returns a pointer to v for populating Options
func Float(v float64) *float64 {
	return &v
}

// WithDefaults returns a copy of o with nil fields replaced by defaults
func (o Options) WithDefaults() Options {
	if o.Epsilon == nil {
		o.Epsilon = Float(DefaultEpsilon)
	}
	if o.OptimisticValue == nil {
		o.OptimisticValue = Float(DefaultOptimisticValue)
	}
	return o
}

// EpsilonValue returns the configured exploration rate or the default
func (o Options) EpsilonValue() float64 {
	if o.Epsilon == nil {
		return DefaultEpsilon
	}
	return *o.Epsilon
}

// OptimisticInitialValue returns the configured initial estimate or the default
func (o Options) OptimisticInitialValue() float64 {
	if o.OptimisticValue == nil {
		return DefaultOptimisticValue
	}
	return *o.OptimisticValue
}

// Validate checks option ranges. Nil fields are valid.
func (o Options) Validate() error {
	if e := o.Epsilon; e != nil && (math.IsNaN(*e) || *e < 0 || *e > 1) {
		return fmt.Errorf("%w: epsilon must be within [0, 1], got %v", ErrInvalidConfiguration, *e)
	}
	if v := o.OptimisticValue; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0) {
		return fmt.Errorf("%w: optimistic value must be a non-negative number, got %v", ErrInvalidConfiguration, *v)
	}
	return nil
}

// New constructs a fresh policy instance for one run
func New(name Name, opts Options) (Policy, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch name {
	case Greedy:
		return &greedy{}, nil
	case EpsilonGreedy:
		return &epsilonGreedy{epsilon: opts.EpsilonValue()}, nil
	case EpsilonGreedyDecay:
		return &epsilonGreedy{decay: true}, nil
	case OptimisticInitialValues:
		return &optimistic{initial: opts.OptimisticInitialValue()}, nil
	case UCB1:
		return &ucb1{}, nil
	case ThompsonSampling:
		return &thompson{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// scoreBuffer is reusable scratch space for per-arm selection scores
type scoreBuffer []float64

func (b *scoreBuffer) reset(n int) []float64 {
	if cap(*b) < n {
		*b = make([]float64, n)
	}
	*b = (*b)[:n]
	return *b
}

// argmax returns the index of the largest score, lowest index on ties
func argmax(scores []float64) int {
	return floats.MaxIdx(scores)
}

// greedyIndex returns the arm with the highest current estimate
func greedyIndex(arms []*Arm, buf *scoreBuffer) int {
	scores := buf.reset(len(arms))
	for i, a := range arms {
		scores[i] = a.Estimate()
	}
	return argmax(scores)
}
