package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "apdexgauge [flags] [input ...]",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Input flags
	flags.StringSliceP("input", "i", nil, "Sample input: file path, '-' for stdin, or ws:// stream URL (repeatable)")
	flags.StringP("format", "f", string(FormatAuto), "Input format: auto, plain, csv, jsonl, har, or stream")
	flags.StringP("unit", "u", "s", "Unit for bare numeric samples: s, ms, or us")
	flags.String("csv-column", "latency", "CSV column holding the sample values")
	flags.String("json-path", "latency", "gjson path to the sample value in JSONL/stream input")
	flags.String("error-path", "", "gjson path marking failed tasks in JSONL/stream input (scored frustrated)")

	// Scoring flags
	flags.StringP("threshold", "t", "4s", "Apdex target time T: duration ('500ms') or seconds ('0.5')")
	flags.Float64("hit-rate", 0, "Assumed cache hit rate in [0,1); samples are treated as misses")

	// Ingestion flags
	flags.IntP("workers", "w", 4, "Number of concurrent scoring workers")
	flags.Int("max-rate", 0, "Max samples ingested per second (0 means unlimited)")
	flags.Int64("max-samples", 0, "Stop after this many samples (0 means read everything)")

	// Assertion flags
	flags.StringSlice("assert", nil, "Pass/fail assertion, e.g. 'score >= 0.85' (repeatable)")

	// Output flags
	flags.Bool("json-output", false, "Emit the report as JSON")
	flags.Bool("yaml-output", false, "Emit the report as YAML")
	flags.String("html-output", "", "Write a standalone HTML report to the given path")
	flags.String("history-file", "", "Append one JSON line per run to this file")
	flags.Bool("dashboard", false, "Show a live terminal dashboard while ingesting")
	flags.Bool("no-progress", false, "Disable the live progress line")

	// Tracing flags
	flags.String("trace-endpoint", "", "OTLP endpoint for trace export (empty disables tracing)")
	flags.String("trace-protocol", "grpc", "OTLP transport: grpc or http")
	flags.Bool("trace-insecure", false, "Skip TLS for the OTLP endpoint")
	flags.Float64("trace-sample-rate", 1.0, "Trace sampling ratio between 0.0 and 1.0")

	flags.StringP("config", "c", "", "Path to configuration file (JSON or YAML)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("input") {
		val, err := fs.GetStringSlice("input")
		if err != nil {
			return err
		}
		cfg.Inputs = append(cfg.Inputs, val...)
	}
	if fs.Changed("format") {
		val, err := fs.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = Format(val)
	}
	if fs.Changed("unit") {
		val, err := fs.GetString("unit")
		if err != nil {
			return err
		}
		cfg.Unit = val
	}
	if fs.Changed("csv-column") {
		val, err := fs.GetString("csv-column")
		if err != nil {
			return err
		}
		cfg.CSVColumn = val
	}
	if fs.Changed("json-path") {
		val, err := fs.GetString("json-path")
		if err != nil {
			return err
		}
		cfg.JSONPath = val
	}
	if fs.Changed("error-path") {
		val, err := fs.GetString("error-path")
		if err != nil {
			return err
		}
		cfg.ErrorPath = val
	}
	if fs.Changed("threshold") {
		val, err := fs.GetString("threshold")
		if err != nil {
			return err
		}
		seconds, err := parseThreshold(val)
		if err != nil {
			return err
		}
		cfg.Threshold = seconds
	}
	if fs.Changed("hit-rate") {
		val, err := fs.GetFloat64("hit-rate")
		if err != nil {
			return err
		}
		cfg.HitRate = val
	}
	if fs.Changed("workers") {
		val, err := fs.GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Workers = val
	}
	if fs.Changed("max-rate") {
		val, err := fs.GetInt("max-rate")
		if err != nil {
			return err
		}
		cfg.MaxRate = val
	}
	if fs.Changed("max-samples") {
		val, err := fs.GetInt64("max-samples")
		if err != nil {
			return err
		}
		cfg.MaxSamples = val
	}
	if fs.Changed("assert") {
		val, err := fs.GetStringSlice("assert")
		if err != nil {
			return err
		}
		cfg.Assertions = append(cfg.Assertions, val...)
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("yaml-output") {
		val, err := fs.GetBool("yaml-output")
		if err != nil {
			return err
		}
		cfg.YAMLOutput = val
	}
	if fs.Changed("html-output") {
		val, err := fs.GetString("html-output")
		if err != nil {
			return err
		}
		cfg.HTMLOutput = val
	}
	if fs.Changed("history-file") {
		val, err := fs.GetString("history-file")
		if err != nil {
			return err
		}
		cfg.HistoryFile = val
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("no-progress") {
		val, err := fs.GetBool("no-progress")
		if err != nil {
			return err
		}
		cfg.NoProgress = val
	}
	if fs.Changed("trace-endpoint") {
		val, err := fs.GetString("trace-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = val
	}
	if fs.Changed("trace-protocol") {
		val, err := fs.GetString("trace-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = val
	}
	if fs.Changed("trace-insecure") {
		val, err := fs.GetBool("trace-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("trace-sample-rate") {
		val, err := fs.GetFloat64("trace-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	return nil
}
