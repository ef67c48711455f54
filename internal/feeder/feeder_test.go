package feeder

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Unit
		wantError bool
	}{
		{name: "default is seconds", input: "", want: UnitSeconds},
		{name: "seconds", input: "s", want: UnitSeconds},
		{name: "milliseconds", input: "ms", want: UnitMilliseconds},
		{name: "microseconds", input: "us", want: UnitMicroseconds},
		{name: "case insensitive", input: "MS", want: UnitMilliseconds},
		{name: "unknown", input: "fortnights", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnit(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseUnit(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if !tt.wantError && got != tt.want {
				t.Errorf("ParseUnit(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		unit      Unit
		want      float64
		wantError bool
	}{
		{name: "bare seconds", input: "1.5", unit: UnitSeconds, want: 1.5},
		{name: "bare milliseconds", input: "250", unit: UnitMilliseconds, want: 0.25},
		{name: "duration suffix overrides unit", input: "250ms", unit: UnitSeconds, want: 0.25},
		{name: "microsecond duration", input: "1500us", unit: UnitSeconds, want: 0.0015},
		{name: "empty", input: "", unit: UnitSeconds, wantError: true},
		{name: "garbage", input: "fast", unit: UnitSeconds, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(tt.input, tt.unit)
			if (err != nil) != tt.wantError {
				t.Fatalf("parseValue(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if tt.wantError {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("parseValue(%q) error = %v, want ErrMalformed", tt.input, err)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("parseValue(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func drain(t *testing.T, src Source) []Sample {
	t.Helper()
	var samples []Sample
	for {
		sample, err := src.Next(context.Background())
		if errors.Is(err, ErrExhausted) {
			return samples
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		samples = append(samples, sample)
	}
}

func TestPlainSource(t *testing.T) {
	input := strings.NewReader("0.5\n\n# comment\n250ms\n3\n")
	src := NewPlainSource(input, UnitSeconds)
	defer src.Close()

	samples := drain(t, src)
	want := []float64{0.5, 0.25, 3}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i, w := range want {
		if math.Abs(samples[i].Seconds-w) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, samples[i].Seconds, w)
		}
	}
}

func TestPlainSourceMalformedLine(t *testing.T) {
	src := NewPlainSource(strings.NewReader("0.5\nbogus\n1.0\n"), UnitSeconds)
	defer src.Close()

	ctx := context.Background()
	if _, err := src.Next(ctx); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if _, err := src.Next(ctx); !errors.Is(err, ErrMalformed) {
		t.Fatalf("second Next error = %v, want ErrMalformed", err)
	}
	// The source keeps going after a bad line.
	sample, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("third Next: %v", err)
	}
	if sample.Seconds != 1.0 {
		t.Errorf("third sample = %v, want 1.0", sample.Seconds)
	}
}

func TestCSVSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	content := "endpoint,duration_ms,status\n/api/users,120,200\n/api/orders,950,200\n/api/search,4500,200\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := NewCSVSource(path, "duration_ms", UnitMilliseconds)
	if err != nil {
		t.Fatalf("NewCSVSource: %v", err)
	}
	defer src.Close()

	samples := drain(t, src)
	want := []float64{0.12, 0.95, 4.5}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i, w := range want {
		if math.Abs(samples[i].Seconds-w) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, samples[i].Seconds, w)
		}
	}
}

func TestCSVSourceMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewCSVSource(path, "duration", UnitSeconds); err == nil {
		t.Fatal("NewCSVSource accepted a missing column")
	}
}

func TestJSONLSource(t *testing.T) {
	input := strings.NewReader(`{"latency_ms": 120, "error": false}
{"latency_ms": 950}
{"error": true}
{"latency_ms": "2.5s"}
`)
	src := NewJSONLSource(input, "latency_ms", "error", UnitMilliseconds)
	defer src.Close()

	samples := drain(t, src)
	if len(samples) != 4 {
		t.Fatalf("got %d samples, want 4", len(samples))
	}
	if math.Abs(samples[0].Seconds-0.12) > 1e-12 || samples[0].Failed {
		t.Errorf("sample 0 = %+v, want 0.12s ok", samples[0])
	}
	if !samples[2].Failed {
		t.Errorf("sample 2 = %+v, want failed", samples[2])
	}
	// Duration strings bypass the unit scale.
	if math.Abs(samples[3].Seconds-2.5) > 1e-12 {
		t.Errorf("sample 3 = %v, want 2.5", samples[3].Seconds)
	}
}

func TestJSONLSourceJSONPathPrefix(t *testing.T) {
	input := strings.NewReader(`{"timings": {"total": 1.5}}` + "\n")
	src := NewJSONLSource(input, "$.timings.total", "", UnitSeconds)
	defer src.Close()

	sample, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if sample.Seconds != 1.5 {
		t.Errorf("sample = %v, want 1.5", sample.Seconds)
	}
}

func TestJSONLSourceMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid JSON", input: "not json"},
		{name: "missing path", input: `{"other": 1}`},
		{name: "wrong type", input: `{"latency_ms": [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewJSONLSource(strings.NewReader(tt.input+"\n"), "latency_ms", "", UnitMilliseconds)
			defer src.Close()
			if _, err := src.Next(context.Background()); !errors.Is(err, ErrMalformed) {
				t.Errorf("Next error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestMulti(t *testing.T) {
	a := NewPlainSource(strings.NewReader("1\n2\n"), UnitSeconds)
	b := NewPlainSource(strings.NewReader("3\n"), UnitSeconds)
	src := NewMulti(a, b)
	defer src.Close()

	samples := drain(t, src)
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	if samples[2].Seconds != 3 {
		t.Errorf("last sample = %v, want 3", samples[2].Seconds)
	}
}

func TestSourceContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewPlainSource(strings.NewReader("1\n"), UnitSeconds)
	defer src.Close()
	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next error = %v, want context.Canceled", err)
	}
}
