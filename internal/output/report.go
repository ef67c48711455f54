package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apdexgauge/apdexgauge/internal/apdex"
	"github.com/apdexgauge/apdexgauge/internal/runner"
	"github.com/apdexgauge/apdexgauge/internal/threshold"
)

// Report is the complete outcome of one run, shaped for rendering and for
// the run history file.
type Report struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Apdex       apdex.Summary   `json:"apdex" yaml:"apdex"`
	Uniform     string          `json:"uniform" yaml:"uniform"`
	Invalid     uint64          `json:"invalid" yaml:"invalid"`
	DurationMs  float64         `json:"duration_ms" yaml:"duration_ms"`
	PerSecond   float64         `json:"samples_per_sec" yaml:"samples_per_sec"`
	Assertions  []AssertionLine `json:"assertions,omitempty" yaml:"assertions,omitempty"`
}

// AssertionLine is one evaluated assertion in report form.
type AssertionLine struct {
	Raw      string  `json:"assertion" yaml:"assertion"`
	Actual   float64 `json:"actual" yaml:"actual"`
	Expected float64 `json:"expected" yaml:"expected"`
	Pass     bool    `json:"pass" yaml:"pass"`
	Message  string  `json:"message" yaml:"message"`
}

// NewReport assembles a report from the run result and assertion outcomes.
func NewReport(runID string, result runner.Result, assertions []threshold.Result) Report {
	report := Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Apdex:       result.Summary,
		Uniform:     result.Summary.Uniform(),
		Invalid:     result.Invalid,
		DurationMs:  float64(result.Duration) / float64(time.Millisecond),
		PerSecond:   result.SamplesPerSec,
	}
	for _, a := range assertions {
		report.Assertions = append(report.Assertions, AssertionLine{
			Raw:      a.Assertion.Raw,
			Actual:   a.Actual,
			Expected: a.Assertion.Value,
			Pass:     a.Pass,
			Message:  a.Message,
		})
	}
	return report
}

// PrintReport writes a human-readable summary.
func PrintReport(w io.Writer, report Report) {
	fmt.Fprintln(w, "\n--- Apdex Report ---")
	fmt.Fprintf(w, "Apdex:             %s  (%s)\n", report.Uniform, report.Apdex.Rating)
	fmt.Fprintf(w, "Threshold:         %gs (tolerable ceiling %gs)\n", report.Apdex.Threshold, 4*report.Apdex.Threshold)
	fmt.Fprintf(w, "Samples:           %d\n", report.Apdex.Total)
	fmt.Fprintf(w, "  Satisfied:       %d (%.1f%%)\n", report.Apdex.Satisfied, report.Apdex.SatisfiedPct)
	fmt.Fprintf(w, "  Tolerated:       %d (%.1f%%)\n", report.Apdex.Tolerated, report.Apdex.ToleratedPct)
	fmt.Fprintf(w, "  Frustrated:      %d (%.1f%%)\n", report.Apdex.Frustrated, report.Apdex.FrustratedPct)
	if report.Invalid > 0 {
		fmt.Fprintf(w, "Invalid samples:   %d (skipped)\n", report.Invalid)
	}
	fmt.Fprintf(w, "Duration:          %.0fms\n", report.DurationMs)
	if report.PerSecond > 0 {
		fmt.Fprintf(w, "Samples/sec:       %.0f\n", report.PerSecond)
	}
	if report.Apdex.SmallGroup {
		fmt.Fprintln(w, "Note: fewer than 100 samples; the score is statistically weak.")
	}
	if len(report.Assertions) > 0 {
		fmt.Fprintln(w, "\nAssertions:")
		for _, a := range report.Assertions {
			fmt.Fprintf(w, "  %s\n", a.Message)
		}
	}
}

// PrintJSONReport writes the report as indented JSON.
func PrintJSONReport(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintYAMLReport writes the report as YAML.
func PrintYAMLReport(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(report)
}
