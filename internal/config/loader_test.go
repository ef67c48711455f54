package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFlagsOnly(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load([]string{
		"--input", "samples.txt",
		"--threshold", "500ms",
		"--workers", "2",
		"--assert", "score >= 0.85",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "samples.txt" {
		t.Errorf("Inputs = %v, want [samples.txt]", cfg.Inputs)
	}
	if math.Abs(cfg.Threshold-0.5) > 1e-12 {
		t.Errorf("Threshold = %v, want 0.5", cfg.Threshold)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if len(cfg.Assertions) != 1 || cfg.Assertions[0] != "score >= 0.85" {
		t.Errorf("Assertions = %v", cfg.Assertions)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load([]string{"samples.txt"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", cfg.Threshold, DefaultThreshold)
	}
	if cfg.Format != FormatAuto {
		t.Errorf("Format = %v, want auto", cfg.Format)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Tracing.Protocol != "grpc" || cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("Tracing defaults = %+v", cfg.Tracing)
	}
}

func TestLoadPositionalInputs(t *testing.T) {
	cfg, err := NewLoader().Load([]string{"--threshold", "1", "a.txt", "b.csv"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Inputs) != 2 || cfg.Inputs[0] != "a.txt" || cfg.Inputs[1] != "b.csv" {
		t.Errorf("Inputs = %v, want [a.txt b.csv]", cfg.Inputs)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	path := writeConfigFile(t, "apdex.yaml", `
inputs:
  - results.jsonl
format: jsonl
threshold: 250ms
unit: ms
json_path: timings.total
error_path: failed
hit_rate: 0.2
workers: 8
assertions:
  - "score >= 0.9"
  - "invalid:count == 0"
history_file: runs.jsonl
tracing:
  endpoint: localhost:4317
  insecure: true
  sample_rate: 0.5
`)

	cfg, err := NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "results.jsonl" {
		t.Errorf("Inputs = %v", cfg.Inputs)
	}
	if cfg.Format != FormatJSONL {
		t.Errorf("Format = %v, want jsonl", cfg.Format)
	}
	if math.Abs(cfg.Threshold-0.25) > 1e-12 {
		t.Errorf("Threshold = %v, want 0.25", cfg.Threshold)
	}
	if cfg.JSONPath != "timings.total" || cfg.ErrorPath != "failed" {
		t.Errorf("paths = %q / %q", cfg.JSONPath, cfg.ErrorPath)
	}
	if cfg.HitRate != 0.2 || cfg.Workers != 8 {
		t.Errorf("HitRate = %v Workers = %d", cfg.HitRate, cfg.Workers)
	}
	if len(cfg.Assertions) != 2 {
		t.Errorf("Assertions = %v", cfg.Assertions)
	}
	if cfg.HistoryFile != "runs.jsonl" {
		t.Errorf("HistoryFile = %q", cfg.HistoryFile)
	}
	if !cfg.Tracing.Enabled() || !cfg.Tracing.Insecure || cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
}

func TestLoadFlagOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "apdex.yaml", `
inputs:
  - from-file.txt
threshold: 2
workers: 8
`)

	cfg, err := NewLoader().Load([]string{
		"--config", path,
		"--threshold", "1s",
		"--workers", "2",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threshold != 1.0 {
		t.Errorf("Threshold = %v, want flag override 1.0", cfg.Threshold)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want flag override 2", cfg.Workers)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "from-file.txt" {
		t.Errorf("Inputs = %v, want file value preserved", cfg.Inputs)
	}
}

func TestLoadJSONConfig(t *testing.T) {
	path := writeConfigFile(t, "apdex.json", `{
  "inputs": ["capture.har"],
  "threshold": "1500ms",
  "yaml_output": true
}`)

	cfg, err := NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if math.Abs(cfg.Threshold-1.5) > 1e-12 {
		t.Errorf("Threshold = %v, want 1.5", cfg.Threshold)
	}
	if !cfg.YAMLOutput {
		t.Error("YAMLOutput = false, want true")
	}
}

func TestLoadHelp(t *testing.T) {
	if _, err := NewLoader().Load([]string{"--help"}); !errors.Is(err, ErrHelpRequested) {
		t.Errorf("Load(--help) error = %v, want ErrHelpRequested", err)
	}
	if _, err := NewLoader().Load(nil); !errors.Is(err, ErrHelpRequested) {
		t.Errorf("Load(no args) error = %v, want ErrHelpRequested", err)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := NewLoader().Load([]string{"--config", "/does/not/exist.yaml"}); err == nil {
		t.Fatal("Load accepted a missing config file")
	}
}

func TestLoadBadThresholdFlag(t *testing.T) {
	if _, err := NewLoader().Load([]string{"--threshold", "whenever", "x.txt"}); err == nil {
		t.Fatal("Load accepted an unparseable threshold")
	}
}
