package feeder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit scales bare numeric samples into seconds. Values carrying an explicit
// duration suffix ("250ms") ignore the unit.
type Unit float64

const (
	UnitSeconds      Unit = 1
	UnitMilliseconds Unit = 1e-3
	UnitMicroseconds Unit = 1e-6
)

// ParseUnit resolves a unit name from configuration.
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "s", "sec", "seconds":
		return UnitSeconds, nil
	case "ms", "milliseconds":
		return UnitMilliseconds, nil
	case "us", "µs", "microseconds":
		return UnitMicroseconds, nil
	default:
		return 0, fmt.Errorf("unsupported unit %q (supported: s, ms, us)", name)
	}
}

// parseValue converts a raw field into seconds. Bare numbers are scaled by
// the unit; strings with a duration suffix go through time.ParseDuration.
func parseValue(raw string, unit Unit) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformed)
	}

	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v * float64(unit), nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is neither a number nor a duration", ErrMalformed, raw)
	}
	return d.Seconds(), nil
}
