package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/apdexgauge/apdexgauge/internal/config"
	"github.com/apdexgauge/apdexgauge/internal/dashboard"
	"github.com/apdexgauge/apdexgauge/internal/feeder"
	"github.com/apdexgauge/apdexgauge/internal/output"
	"github.com/apdexgauge/apdexgauge/internal/runner"
	"github.com/apdexgauge/apdexgauge/internal/threshold"
	"github.com/apdexgauge/apdexgauge/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Fail on malformed assertions before reading any input.
	assertions, err := threshold.ParseMultiple(cfg.Assertions)
	if err != nil {
		return err
	}

	unit, err := feeder.ParseUnit(cfg.Unit)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	src, err := buildSource(ctx, cfg, unit)
	if err != nil {
		return err
	}

	r := runner.New(runner.Options{
		Threshold:        cfg.Threshold,
		Workers:          cfg.Workers,
		HitRate:          cfg.HitRate,
		MaxSamplesPerSec: cfg.MaxRate,
		MaxSamples:       cfg.MaxSamples,
	})

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(r.Tracker(), dashboard.RunConfig{
			Inputs:     cfg.Inputs,
			Format:     string(cfg.ResolveFormat(cfg.Inputs[0])),
			Threshold:  cfg.Threshold,
			Workers:    cfg.Workers,
			MaxRate:    float64(cfg.MaxRate),
			HitRate:    cfg.HitRate,
			ConfigFile: cfg.ConfigFile,
		}, cancel)
		if err != nil {
			src.Close()
			return err
		}
		dash.Start()
		defer dash.Stop()
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.YAMLOutput && !cfg.Dashboard && !cfg.NoProgress {
		progress = output.NewProgressReporter(r.Tracker(), progressInterval, os.Stderr)
		progress.Start()
		defer func() {
			progress.Stop()
			fmt.Fprintln(os.Stderr)
		}()
	}

	runCtx, span := tracing.StartRunSpan(ctx, provider.Tracer(),
		string(cfg.ResolveFormat(cfg.Inputs[0])), cfg.Inputs)
	result, runErr := r.Run(runCtx, src)
	tracing.EndRunSpan(span, runErr, result.Summary.Score, result.Summary.Total, result.Invalid)
	if runErr != nil {
		return runErr
	}

	results := threshold.NewEvaluator(assertions).Evaluate(result.Summary, result.Invalid)
	report := output.NewReport(ulid.Make().String(), result, results)

	switch {
	case cfg.JSONOutput:
		if err := output.PrintJSONReport(os.Stdout, report); err != nil {
			return err
		}
	case cfg.YAMLOutput:
		if err := output.PrintYAMLReport(os.Stdout, report); err != nil {
			return err
		}
	default:
		if dash != nil {
			dash.Stop()
		}
		output.PrintReport(os.Stdout, report)
	}

	if cfg.HTMLOutput != "" {
		if err := writeHTMLReport(cfg.HTMLOutput, report); err != nil {
			return err
		}
	}

	if cfg.HistoryFile != "" {
		if err := output.AppendHistory(cfg.HistoryFile, report); err != nil {
			return err
		}
	}

	if !threshold.AllPassed(results) {
		failed := 0
		for _, res := range results {
			if !res.Pass {
				failed++
			}
		}
		return fmt.Errorf("%d assertion(s) failed", failed)
	}
	return nil
}

// buildSource opens every configured input and chains multiple files into a
// single source.
func buildSource(ctx context.Context, cfg *config.Config, unit feeder.Unit) (feeder.Source, error) {
	sources := make([]feeder.Source, 0, len(cfg.Inputs))
	for _, input := range cfg.Inputs {
		src, err := openInput(ctx, cfg, input, unit)
		if err != nil {
			for _, opened := range sources {
				opened.Close()
			}
			return nil, err
		}
		sources = append(sources, src)
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return feeder.NewMulti(sources...), nil
}

func openInput(ctx context.Context, cfg *config.Config, input string, unit feeder.Unit) (feeder.Source, error) {
	switch cfg.ResolveFormat(input) {
	case config.FormatPlain:
		return feeder.OpenPlainSource(input, unit)
	case config.FormatCSV:
		return feeder.NewCSVSource(input, cfg.CSVColumn, unit)
	case config.FormatJSONL:
		return feeder.OpenJSONLSource(input, cfg.JSONPath, cfg.ErrorPath, unit)
	case config.FormatHAR:
		return feeder.NewHARSource(input)
	case config.FormatStream:
		return feeder.DialStream(ctx, input, cfg.JSONPath, cfg.ErrorPath, unit)
	default:
		return nil, fmt.Errorf("unsupported format for input %q", input)
	}
}

func writeHTMLReport(path string, report output.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML report: %w", err)
	}
	defer file.Close()
	return output.GenerateHTMLReport(file, report)
}
