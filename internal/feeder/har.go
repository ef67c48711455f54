package feeder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// harArchive mirrors the subset of the HAR 1.2 format the source needs:
// per-entry total time in milliseconds and the response status.
type harArchive struct {
	Log *harLog `json:"log"`
}

type harLog struct {
	Entries []*harEntry `json:"entries"`
}

type harEntry struct {
	Time     float64      `json:"time"`
	Response *harResponse `json:"response"`
}

type harResponse struct {
	Status int `json:"status"`
}

// HARSource yields one sample per entry of an HTTP Archive file. Entry times
// are milliseconds per the HAR spec; responses with status >= 400 are failed
// tasks and score as frustrated.
type HARSource struct {
	entries []*harEntry
	index   int
}

// NewHARSource parses a HAR file from disk.
func NewHARSource(path string) (*HARSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open HAR file: %w", err)
	}
	defer file.Close()

	return ParseHAR(file)
}

// ParseHAR parses a HAR archive from a reader.
func ParseHAR(r io.Reader) (*HARSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read HAR data: %w", err)
	}

	var archive harArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("parse HAR JSON: %w", err)
	}
	if archive.Log == nil {
		return nil, fmt.Errorf("invalid HAR: missing log field")
	}

	return &HARSource{entries: archive.Log.Entries}, nil
}

// Next converts the next HAR entry into a sample.
func (s *HARSource) Next(ctx context.Context) (Sample, error) {
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	default:
	}

	for s.index < len(s.entries) {
		entry := s.entries[s.index]
		s.index++
		if entry == nil {
			continue
		}
		if entry.Response != nil && entry.Response.Status >= 400 {
			return Sample{Failed: true}, nil
		}
		return Sample{Seconds: entry.Time / 1000}, nil
	}
	return Sample{}, ErrExhausted
}

// Close releases resources. The archive is fully loaded, so this is a no-op.
func (s *HARSource) Close() error {
	return nil
}
