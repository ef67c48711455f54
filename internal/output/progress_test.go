package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/apdexgauge/apdexgauge/internal/feeder"
	"github.com/apdexgauge/apdexgauge/internal/runner"
)

func TestStatusLine(t *testing.T) {
	src := feeder.NewPlainSource(strings.NewReader("0.1\n2.0\nbogus\n"), feeder.UnitSeconds)
	r := runner.New(runner.Options{Threshold: 1.0, Workers: 1})
	if _, err := r.Run(context.Background(), src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	line := statusLine(r.Tracker().Snapshot())
	for _, want := range []string{"Samples: 2", "S/T/F: 1/1/0", "Invalid: 1", "Apdex: 0.75"} {
		if !strings.Contains(line, want) {
			t.Errorf("status line missing %q: %s", want, line)
		}
	}
}

func TestStatusLineNoData(t *testing.T) {
	r := runner.New(runner.Options{Threshold: 1.0})
	line := statusLine(r.Tracker().Snapshot())
	if !strings.Contains(line, "Apdex: NS") {
		t.Errorf("status line for empty tracker = %s, want NS", line)
	}
}

func TestProgressReporterLifecycle(t *testing.T) {
	r := runner.New(runner.Options{Threshold: 1.0})
	var buf bytes.Buffer
	p := NewProgressReporter(r.Tracker(), 5*time.Millisecond, &buf)

	p.Start()
	p.Start() // second Start is a no-op
	time.Sleep(30 * time.Millisecond)
	p.Stop()
	p.Stop() // second Stop is a no-op

	if !strings.Contains(buf.String(), "Apdex: NS") {
		t.Errorf("progress output = %q, want at least one status line", buf.String())
	}
}

func TestProgressReporterNilWriter(t *testing.T) {
	r := runner.New(runner.Options{Threshold: 1.0})
	p := NewProgressReporter(r.Tracker(), time.Millisecond, nil)
	p.Start()
	time.Sleep(5 * time.Millisecond)
	p.Stop()
}
