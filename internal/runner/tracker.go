package runner

import (
	"sync/atomic"

	"github.com/apdexgauge/apdexgauge/internal/apdex"
)

// Tracker exposes live counters to progress reporters and the dashboard
// while a run is in flight. The scoring accumulators stay private to their
// workers; the tracker is an observational copy updated atomically.
type Tracker struct {
	satisfied  atomic.Uint64
	tolerated  atomic.Uint64
	frustrated atomic.Uint64
	invalid    atomic.Uint64
}

// Snapshot is a consistent-enough view of the live counters for display.
type Snapshot struct {
	Satisfied  uint64
	Tolerated  uint64
	Frustrated uint64
	Invalid    uint64
}

// Snapshot reads the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Satisfied:  t.satisfied.Load(),
		Tolerated:  t.tolerated.Load(),
		Frustrated: t.frustrated.Load(),
		Invalid:    t.invalid.Load(),
	}
}

func (t *Tracker) observe(zone apdex.Zone) {
	switch zone {
	case apdex.ZoneSatisfied:
		t.satisfied.Add(1)
	case apdex.ZoneTolerated:
		t.tolerated.Add(1)
	default:
		t.frustrated.Add(1)
	}
}

func (t *Tracker) observeInvalid() {
	t.invalid.Add(1)
}

// Total returns the number of scored samples in the snapshot.
func (s Snapshot) Total() uint64 {
	return s.Satisfied + s.Tolerated + s.Frustrated
}

// Score returns the live Apdex score; ok is false before any sample lands.
func (s Snapshot) Score() (float64, bool) {
	return apdex.ScoreFromCounts(s.Satisfied, s.Tolerated, s.Frustrated)
}
