package feeder

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSource reads samples from a named column of a CSV file. The first row
// must be a header containing the column name.
type CSVSource struct {
	values []string
	index  int
	unit   Unit
}

// NewCSVSource loads a CSV file and selects the sample column.
func NewCSVSource(path, column string, unit Unit) (*CSVSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have a header row and at least one data row")
	}

	col := -1
	for i, name := range rows[0] {
		if name == column {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("CSV column %q not found in header %v", column, rows[0])
	}

	values := make([]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if col >= len(row) {
			return nil, fmt.Errorf("row %d has %d fields, column %q is index %d", i+2, len(row), column, col)
		}
		values = append(values, row[col])
	}

	return &CSVSource{values: values, unit: unit}, nil
}

// Next returns the next value from the selected column.
func (s *CSVSource) Next(ctx context.Context) (Sample, error) {
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	default:
	}

	if s.index >= len(s.values) {
		return Sample{}, ErrExhausted
	}
	raw := s.values[s.index]
	s.index++

	seconds, err := parseValue(raw, s.unit)
	if err != nil {
		return Sample{}, fmt.Errorf("row %d: %w", s.index+1, err)
	}
	return Sample{Seconds: seconds}, nil
}

// Close releases resources. For the CSV source this is a no-op.
func (s *CSVSource) Close() error {
	return nil
}
