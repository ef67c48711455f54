// Package runner coordinates concurrent sample ingestion. It implements the
// single-writer discipline: every worker records into a private accumulator
// and the partial results are merged once all workers finish.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/apdexgauge/apdexgauge/internal/apdex"
	"github.com/apdexgauge/apdexgauge/internal/feeder"
)

// Result captures the outcome of an ingestion run.
type Result struct {
	Summary       apdex.Summary
	Invalid       uint64
	Duration      time.Duration
	SamplesPerSec float64
}

// Runner reads samples from a source and scores them across a worker pool.
type Runner struct {
	opt     Options
	tracker Tracker
}

// New creates a Runner with normalized options.
func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Tracker returns the live counters for progress displays. Valid for one
// Run; counters are not reset between runs.
func (r *Runner) Tracker() *Tracker {
	return &r.tracker
}

// Run ingests the source until exhaustion, the sample cap, or context
// cancellation. Malformed entries are tallied as invalid and skipped; a
// cancelled context ends the run cleanly with whatever was recorded.
func (r *Runner) Run(ctx context.Context, src feeder.Source) (Result, error) {
	start := time.Now()

	total, err := apdex.New(r.opt.Threshold)
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock sources that wait on network reads.
	stop := context.AfterFunc(ctx, func() { _ = src.Close() })
	defer stop()

	var limiter *rate.Limiter
	if r.opt.MaxSamplesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.opt.MaxSamplesPerSec), 1)
	}

	var invalid atomic.Uint64
	samples := make(chan feeder.Sample, r.opt.Workers)
	var readErr error

	// Reader: sources are not safe for concurrent use, so a single
	// goroutine pulls samples and fans them out.
	go func() {
		defer close(samples)
		var sent int64
		for {
			if r.opt.MaxSamples > 0 && sent >= r.opt.MaxSamples {
				return
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
			}
			sample, err := src.Next(ctx)
			if err != nil {
				switch {
				case errors.Is(err, feeder.ErrExhausted):
				case errors.Is(err, feeder.ErrMalformed):
					invalid.Add(1)
					r.tracker.observeInvalid()
					continue
				case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				default:
					readErr = fmt.Errorf("read sample: %w", err)
				}
				return
			}
			select {
			case samples <- sample:
				sent++
			case <-ctx.Done():
				return
			}
		}
	}()

	partials := make([]*apdex.Accumulator, r.opt.Workers)
	var wg sync.WaitGroup
	wg.Add(r.opt.Workers)
	for i := 0; i < r.opt.Workers; i++ {
		acc, err := apdex.New(r.opt.Threshold)
		if err != nil {
			return Result{}, err
		}
		partials[i] = acc
		go func(acc *apdex.Accumulator) {
			defer wg.Done()
			for sample := range samples {
				if sample.Failed {
					acc.RecordFailure()
					r.tracker.observe(apdex.ZoneFrustrated)
					continue
				}
				zone, err := acc.Classify(sample.Seconds)
				if err != nil {
					invalid.Add(1)
					r.tracker.observeInvalid()
					continue
				}
				if err := acc.Record(sample.Seconds); err != nil {
					invalid.Add(1)
					r.tracker.observeInvalid()
					continue
				}
				r.tracker.observe(zone)
			}
		}(acc)
	}
	wg.Wait()

	if readErr != nil {
		return Result{}, readErr
	}

	for _, acc := range partials {
		if err := total.Merge(acc); err != nil {
			return Result{}, err
		}
	}

	if r.opt.HitRate > 0 {
		if err := total.AssumeHitRate(r.opt.HitRate); err != nil {
			return Result{}, err
		}
	}

	elapsed := time.Since(start)
	result := Result{
		Summary:  total.Summary(),
		Invalid:  invalid.Load(),
		Duration: elapsed,
	}
	if elapsed > 0 && result.Summary.Total > 0 {
		result.SamplesPerSec = float64(result.Summary.Total) / elapsed.Seconds()
	}
	return result, nil
}
