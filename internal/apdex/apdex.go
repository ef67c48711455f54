package apdex

import (
	"fmt"
	"math"
	"time"
)

// smallGroupSize is the sample count below which the Apdex specification
// flags the group as statistically small in uniform output.
const smallGroupSize = 100

// Accumulator records response-time samples against a fixed threshold and
// derives the Apdex score from the resulting zone counts. The threshold is
// immutable for the accumulator's lifetime; recording is the only mutation.
//
// Not safe for concurrent use. See the package documentation for the
// single-writer-plus-Merge discipline.
type Accumulator struct {
	threshold  float64
	satisfied  uint64
	tolerated  uint64
	frustrated uint64
}

// New creates an Accumulator with the given threshold T in seconds.
// Returns ErrInvalidThreshold unless T is positive and finite.
func New(threshold float64) (*Accumulator, error) {
	if !(threshold > 0) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return &Accumulator{threshold: threshold}, nil
}

// Threshold returns T in seconds.
func (a *Accumulator) Threshold() float64 {
	return a.threshold
}

// Classify returns the zone the given sample would be counted in, without
// recording it. Returns ErrInvalidSample for negative, NaN, or infinite
// samples.
func (a *Accumulator) Classify(seconds float64) (Zone, error) {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidSample, seconds)
	}
	return classify(a.threshold, seconds), nil
}

// Record classifies a response-time sample in seconds and increments exactly
// one zone counter. Invalid samples are rejected with ErrInvalidSample and
// leave all counters unchanged.
func (a *Accumulator) Record(seconds float64) error {
	zone, err := a.Classify(seconds)
	if err != nil {
		return err
	}
	switch zone {
	case ZoneSatisfied:
		a.satisfied++
	case ZoneTolerated:
		a.tolerated++
	default:
		a.frustrated++
	}
	return nil
}

// RecordDuration records a sample given as a time.Duration.
func (a *Accumulator) RecordDuration(d time.Duration) error {
	return a.Record(d.Seconds())
}

// RecordFailure counts a failed task as a frustrated sample, per the Apdex
// specification's treatment of detected task errors.
func (a *Accumulator) RecordFailure() {
	a.frustrated++
}

// Counts returns the current zone counters.
func (a *Accumulator) Counts() (satisfied, tolerated, frustrated uint64) {
	return a.satisfied, a.tolerated, a.frustrated
}

// Total returns the number of samples recorded so far.
func (a *Accumulator) Total() uint64 {
	return a.satisfied + a.tolerated + a.frustrated
}

// SmallGroup reports whether samples were recorded but fewer than the
// specification's minimum group size of 100.
func (a *Accumulator) SmallGroup() bool {
	total := a.Total()
	return total > 0 && total < smallGroupSize
}

// Score computes (satisfied + tolerated/2) / total. With no samples recorded
// the score is undefined and ok is false; callers must not substitute a
// numeric default.
func (a *Accumulator) Score() (score float64, ok bool) {
	return ScoreFromCounts(a.satisfied, a.tolerated, a.frustrated)
}

// ScoreFromCounts computes the Apdex score for a raw counter triple. It is
// the single home of the score formula, shared with live views that observe
// counts outside an accumulator. ok is false when the triple is empty.
func ScoreFromCounts(satisfied, tolerated, frustrated uint64) (score float64, ok bool) {
	total := satisfied + tolerated + frustrated
	if total == 0 {
		return 0, false
	}
	return (float64(satisfied) + float64(tolerated)/2) / float64(total), true
}

// Merge adds other's counters into the receiver. Both accumulators must have
// been built with the same threshold; otherwise ErrThresholdMismatch is
// returned and the receiver is unchanged. The other accumulator is never
// modified.
func (a *Accumulator) Merge(other *Accumulator) error {
	if other == nil {
		return nil
	}
	if other.threshold != a.threshold {
		return fmt.Errorf("%w: %v vs %v", ErrThresholdMismatch, a.threshold, other.threshold)
	}
	a.satisfied += other.satisfied
	a.tolerated += other.tolerated
	a.frustrated += other.frustrated
	return nil
}

// Reset zeroes all counters without changing the threshold, so the
// accumulator can be reused across measurement windows.
func (a *Accumulator) Reset() {
	a.satisfied = 0
	a.tolerated = 0
	a.frustrated = 0
}

// AssumeHitRate adjusts the accumulator for a cache in front of the measured
// system: recorded samples are treated as cache misses and the simulated
// hits are credited as satisfied samples. The rate must be in [0, 1).
func (a *Accumulator) AssumeHitRate(rate float64) error {
	if rate < 0 || rate >= 1 || math.IsNaN(rate) {
		return fmt.Errorf("%w: got %v", ErrInvalidHitRate, rate)
	}
	misses := float64(a.Total())
	hits := math.Ceil(misses/(1-rate) - misses)
	a.satisfied += uint64(hits)
	return nil
}

// String renders the Apdex uniform output, e.g. "0.75 [4.0]" or "NS [10]"
// with no samples. Small groups carry a trailing "*".
func (a *Accumulator) String() string {
	if score, ok := a.Score(); ok {
		return fmt.Sprintf("%.2f%s", score, a.formatThreshold())
	}
	return "NS" + a.formatThreshold()
}

// formatThreshold renders " [T]" with one decimal below 10 seconds and none
// at or above, plus the small-group indicator.
func (a *Accumulator) formatThreshold() string {
	indicator := ""
	if a.SmallGroup() {
		indicator = "*"
	}
	if a.threshold < 10 {
		return fmt.Sprintf(" [%.1f]%s", a.threshold, indicator)
	}
	return fmt.Sprintf(" [%.0f]%s", a.threshold, indicator)
}
