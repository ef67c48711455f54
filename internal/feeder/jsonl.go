package feeder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// JSONLSource reads newline-delimited JSON, extracting the sample value via
// a gjson path. An optional error path marks failed tasks, which the engine
// scores as frustrated.
type JSONLSource struct {
	scanner   *bufio.Scanner
	closer    io.Closer
	unit      Unit
	valuePath string
	errorPath string
	line      int
}

// NewJSONLSource wraps an open reader of JSON lines.
func NewJSONLSource(r io.Reader, valuePath, errorPath string, unit Unit) *JSONLSource {
	src := &JSONLSource{
		scanner:   bufio.NewScanner(r),
		unit:      unit,
		valuePath: normalizePath(valuePath),
		errorPath: normalizePath(errorPath),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// OpenJSONLSource opens a JSON-lines file. The path "-" reads stdin.
func OpenJSONLSource(path, valuePath, errorPath string, unit Unit) (*JSONLSource, error) {
	if path == "-" {
		src := NewJSONLSource(os.Stdin, valuePath, errorPath, unit)
		src.closer = nil
		return src, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open JSON lines file: %w", err)
	}
	return NewJSONLSource(file, valuePath, errorPath, unit), nil
}

// Next parses the next JSON line into a sample.
func (s *JSONLSource) Next(ctx context.Context) (Sample, error) {
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	default:
	}

	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" {
			continue
		}
		sample, err := extractSample(text, s.valuePath, s.errorPath, s.unit)
		if err != nil {
			return Sample{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		return sample, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Sample{}, fmt.Errorf("read JSON lines: %w", err)
	}
	return Sample{}, ErrExhausted
}

// Close closes the underlying file, if any.
func (s *JSONLSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// extractSample pulls a sample out of one JSON document. Shared with the
// WebSocket stream source.
func extractSample(doc, valuePath, errorPath string, unit Unit) (Sample, error) {
	if !gjson.Valid(doc) {
		return Sample{}, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}

	if errorPath != "" {
		if failed := gjson.Get(doc, errorPath); failed.Exists() && failed.Bool() {
			return Sample{Failed: true}, nil
		}
	}

	value := gjson.Get(doc, valuePath)
	if !value.Exists() {
		return Sample{}, fmt.Errorf("%w: path %q not found", ErrMalformed, valuePath)
	}

	switch value.Type {
	case gjson.Number:
		return Sample{Seconds: value.Float() * float64(unit)}, nil
	case gjson.String:
		seconds, err := parseValue(value.String(), unit)
		if err != nil {
			return Sample{}, err
		}
		return Sample{Seconds: seconds}, nil
	default:
		return Sample{}, fmt.Errorf("%w: path %q is %s, want number or duration string", ErrMalformed, valuePath, value.Type)
	}
}

// normalizePath strips a leading "$." JSONPath prefix; gjson paths are bare.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "$.") {
		return path[2:]
	}
	if path == "$" {
		return "@this"
	}
	return path
}
