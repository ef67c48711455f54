// Package feeder provides sample sources that produce response-time
// measurements for the scoring engine: plain text, CSV, JSON lines, HAR
// archives, and live WebSocket streams.
package feeder

import (
	"context"
	"errors"
	"fmt"
)

// Sample is a single response-time measurement. Failed marks a task error
// detected by the measuring tool; failed tasks are scored as frustrated.
type Sample struct {
	Seconds float64
	Failed  bool
}

// Source produces samples one at a time. The runner serializes Next calls,
// so implementations do not need to be safe for concurrent use.
type Source interface {
	// Next returns the next sample, ErrExhausted at end of data, or an
	// error wrapping ErrMalformed for an entry that cannot be parsed.
	Next(ctx context.Context) (Sample, error)

	// Close releases any resources held by the source.
	Close() error
}

// ErrExhausted is returned when a finite source has no more samples.
var ErrExhausted = fmt.Errorf("feeder exhausted: no more samples available")

// ErrMalformed wraps parse failures for individual entries. The runner
// tallies these as invalid samples and continues reading.
var ErrMalformed = fmt.Errorf("malformed sample")

// Multi chains several sources into one, draining them in order.
type Multi struct {
	sources []Source
	index   int
}

// NewMulti creates a source that yields all samples of the given sources in
// sequence.
func NewMulti(sources ...Source) *Multi {
	return &Multi{sources: sources}
}

// Next returns the next sample from the first non-exhausted source.
func (m *Multi) Next(ctx context.Context) (Sample, error) {
	for m.index < len(m.sources) {
		sample, err := m.sources[m.index].Next(ctx)
		if err == nil || !errors.Is(err, ErrExhausted) {
			return sample, err
		}
		m.index++
	}
	return Sample{}, ErrExhausted
}

// Close closes all underlying sources, returning the first error seen.
func (m *Multi) Close() error {
	var first error
	for _, s := range m.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
