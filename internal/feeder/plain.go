package feeder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// PlainSource reads one sample per line from a text stream. Blank lines and
// lines starting with '#' are skipped.
type PlainSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	unit    Unit
	line    int
}

// NewPlainSource wraps an open reader. The caller keeps ownership of closing
// when closer is nil.
func NewPlainSource(r io.Reader, unit Unit) *PlainSource {
	src := &PlainSource{
		scanner: bufio.NewScanner(r),
		unit:    unit,
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// OpenPlainSource opens a text file of samples. The path "-" reads stdin.
func OpenPlainSource(path string, unit Unit) (*PlainSource, error) {
	if path == "-" {
		src := NewPlainSource(os.Stdin, unit)
		src.closer = nil // never close stdin
		return src, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples file: %w", err)
	}
	return NewPlainSource(file, unit), nil
}

// Next returns the next parsed sample line.
func (s *PlainSource) Next(ctx context.Context) (Sample, error) {
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	default:
	}

	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		seconds, err := parseValue(text, s.unit)
		if err != nil {
			return Sample{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		return Sample{Seconds: seconds}, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Sample{}, fmt.Errorf("read samples: %w", err)
	}
	return Sample{}, ErrExhausted
}

// Close closes the underlying file, if any.
func (s *PlainSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
