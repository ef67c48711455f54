package config

import (
	"fmt"
	"math"
	"strings"
)

// Format identifies how input samples are encoded.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatPlain  Format = "plain"
	FormatCSV    Format = "csv"
	FormatJSONL  Format = "jsonl"
	FormatHAR    Format = "har"
	FormatStream Format = "stream"
)

// DefaultThreshold is the Apdex specification's suggested target time for
// interactive web applications, in seconds.
const DefaultThreshold = 4.0

// Config holds the fully resolved run configuration.
type Config struct {
	// Inputs are file paths, "-" for stdin, or a ws:// URL for streams.
	Inputs []string
	Format Format

	// Threshold is T in seconds.
	Threshold float64

	// Unit scales bare numeric samples: "s", "ms", or "us".
	Unit string

	// CSVColumn names the sample column for CSV inputs.
	CSVColumn string

	// JSONPath extracts the sample value for JSONL and stream inputs;
	// ErrorPath optionally marks failed tasks.
	JSONPath  string
	ErrorPath string

	// HitRate adjusts the final score for an assumed cache hit rate.
	HitRate float64

	Workers    int
	MaxRate    int
	MaxSamples int64

	// Assertions are raw threshold strings evaluated after the run.
	Assertions []string

	JSONOutput  bool
	YAMLOutput  bool
	HTMLOutput  string
	HistoryFile string
	Dashboard   bool
	NoProgress  bool

	Tracing TracingConfig

	ConfigFile string
}

// TracingConfig configures the optional OTLP trace export.
type TracingConfig struct {
	Endpoint    string
	Protocol    string // "grpc" or "http"
	ServiceName string
	Insecure    bool
	SampleRate  float64
}

// Enabled reports whether tracing was configured at all.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// Validate checks the configuration invariants before a run starts.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("no input specified: pass sample files, \"-\" for stdin, or a ws:// stream URL")
	}
	if !(c.Threshold > 0) || math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("threshold must be a positive duration, got %v", c.Threshold)
	}
	if c.HitRate < 0 || c.HitRate >= 1 || math.IsNaN(c.HitRate) {
		return fmt.Errorf("hit-rate must be in [0, 1), got %v", c.HitRate)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxRate < 0 {
		return fmt.Errorf("max-rate must not be negative, got %d", c.MaxRate)
	}
	if c.MaxSamples < 0 {
		return fmt.Errorf("max-samples must not be negative, got %d", c.MaxSamples)
	}

	switch c.Format {
	case FormatAuto, FormatPlain, FormatCSV, FormatJSONL, FormatHAR, FormatStream:
	default:
		return fmt.Errorf("unsupported format %q (supported: auto, plain, csv, jsonl, har, stream)", c.Format)
	}

	if c.Format == FormatStream || (c.Format == FormatAuto && hasStreamInput(c.Inputs)) {
		if len(c.Inputs) != 1 {
			return fmt.Errorf("stream ingestion takes exactly one ws:// URL, got %d inputs", len(c.Inputs))
		}
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("trace-sample-rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate)
	}

	if c.JSONOutput && c.YAMLOutput {
		return fmt.Errorf("json-output and yaml-output are mutually exclusive")
	}
	if c.Dashboard && (c.JSONOutput || c.YAMLOutput) {
		return fmt.Errorf("dashboard cannot be combined with machine-readable output")
	}

	return nil
}

// ResolveFormat determines the effective format for one input path.
func (c *Config) ResolveFormat(input string) Format {
	if c.Format != FormatAuto {
		return c.Format
	}
	return detectFormat(input)
}

func detectFormat(input string) Format {
	lower := strings.ToLower(input)
	switch {
	case strings.HasPrefix(lower, "ws://") || strings.HasPrefix(lower, "wss://"):
		return FormatStream
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV
	case strings.HasSuffix(lower, ".jsonl") || strings.HasSuffix(lower, ".ndjson"):
		return FormatJSONL
	case strings.HasSuffix(lower, ".har"):
		return FormatHAR
	default:
		return FormatPlain
	}
}

func hasStreamInput(inputs []string) bool {
	for _, in := range inputs {
		if detectFormat(in) == FormatStream {
			return true
		}
	}
	return false
}
