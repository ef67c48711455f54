package runner

// Options configures an ingestion run.
type Options struct {
	// Threshold is the Apdex target time T in seconds.
	Threshold float64

	// Workers is the number of concurrent scoring workers. Each worker owns
	// a private accumulator; results are merged when the run ends.
	Workers int

	// HitRate, when positive, adjusts the final result for an assumed cache
	// hit rate in [0, 1). Recorded samples are treated as cache misses.
	HitRate float64

	// MaxSamplesPerSec caps the ingest rate, for paced replay of recorded
	// data. Zero means unlimited.
	MaxSamplesPerSec int

	// MaxSamples stops the run after this many samples. Zero means read the
	// source to exhaustion.
	MaxSamples int64
}

func (o *Options) normalize() {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MaxSamplesPerSec < 0 {
		o.MaxSamplesPerSec = 0
	}
	if o.MaxSamples < 0 {
		o.MaxSamples = 0
	}
}
