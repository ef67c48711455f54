package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/apdexgauge/apdexgauge/internal/runner"
)

// ProgressReporter displays a one-line live status while samples stream in.
type ProgressReporter struct {
	tracker  *runner.Tracker
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32
}

// NewProgressReporter creates a progress reporter that updates at the given
// interval.
func NewProgressReporter(tracker *runner.Tracker, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		tracker:  tracker,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, "\r"+statusLine(p.tracker.Snapshot()))
		case <-p.done:
			return
		}
	}
}

func statusLine(snap runner.Snapshot) string {
	line := fmt.Sprintf("Samples: %d | S/T/F: %d/%d/%d",
		snap.Total(), snap.Satisfied, snap.Tolerated, snap.Frustrated)
	if snap.Invalid > 0 {
		line += fmt.Sprintf(" | Invalid: %d", snap.Invalid)
	}
	if score, ok := snap.Score(); ok {
		line += fmt.Sprintf(" | Apdex: %.2f", score)
	} else {
		line += " | Apdex: NS"
	}
	return line
}
