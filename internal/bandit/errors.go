package bandit

import "errors"

var (
	// ErrInvalidConfiguration is returned for empty or out-of-range probability
	// vectors, non-positive trial or repetition counts and bad policy options.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownPolicy is returned when a policy name is not in the supported set.
	ErrUnknownPolicy = errors.New("unknown policy")
)
