package apdex

import "errors"

var (
	// ErrInvalidThreshold is returned by New when the threshold is not a
	// positive finite number. No accumulator is produced.
	ErrInvalidThreshold = errors.New("apdex: threshold must be a positive finite number")

	// ErrInvalidSample is returned by Record for negative, NaN, or infinite
	// samples. The rejected sample is not counted in any zone.
	ErrInvalidSample = errors.New("apdex: sample must be a non-negative finite number")

	// ErrThresholdMismatch is returned by Merge when the two accumulators
	// were built with different thresholds. No partial merge occurs.
	ErrThresholdMismatch = errors.New("apdex: cannot merge accumulators with different thresholds")

	// ErrInvalidHitRate is returned by AssumeHitRate for rates outside [0, 1).
	ErrInvalidHitRate = errors.New("apdex: hit rate must be in [0, 1)")
)
