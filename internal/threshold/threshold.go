// Package threshold evaluates pass/fail assertions against a finished run,
// so CI pipelines can gate on the Apdex outcome.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/apdexgauge/apdexgauge/internal/apdex"
)

// Assertion is a single check against the run summary.
type Assertion struct {
	Metric    string  // "score", "satisfied", "tolerated", "frustrated", "samples", "invalid"
	Aggregate string  // "rate" or "count"; empty for "score"
	Operator  string  // "<", "<=", ">", ">=", "=="
	Value     float64 // the expected bound
	Raw       string  // original assertion string for display
}

// Result is the outcome of evaluating one assertion.
type Result struct {
	Assertion Assertion
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates a set of assertions.
type Evaluator struct {
	assertions []Assertion
}

// NewEvaluator creates an evaluator over the given assertions.
func NewEvaluator(assertions []Assertion) *Evaluator {
	return &Evaluator{assertions: assertions}
}

// Evaluate checks every assertion against the summary. The invalid count is
// carried separately because rejected samples never enter the accumulator.
func (e *Evaluator) Evaluate(summary apdex.Summary, invalid uint64) []Result {
	if len(e.assertions) == 0 {
		return nil
	}
	results := make([]Result, 0, len(e.assertions))
	for _, a := range e.assertions {
		results = append(results, evaluateOne(a, summary, invalid))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func evaluateOne(a Assertion, summary apdex.Summary, invalid uint64) Result {
	actual, err := extractValue(a, summary, invalid)
	if err != nil {
		return Result{
			Assertion: a,
			Pass:      false,
			Message:   fmt.Sprintf("✗ %s: %v", a.Raw, err),
		}
	}

	pass := compare(actual, a.Operator, a.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}
	return Result{
		Assertion: a,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.4g %s %.4g", status, a.Raw, actual, a.Operator, a.Value),
	}
}

var assertionPattern = regexp.MustCompile(`^([a-z_]+)(?::([a-z]+))?\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses an assertion string. Supported forms:
//   - "score >= 0.85"
//   - "satisfied:rate >= 0.9"       (zone share of total, 0..1)
//   - "tolerated:rate < 0.3"
//   - "frustrated:rate < 0.05"
//   - "frustrated:count == 0"
//   - "samples:count >= 100"
//   - "invalid:count == 0"
func Parse(s string) (Assertion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Assertion{}, fmt.Errorf("empty assertion string")
	}

	matches := assertionPattern.FindStringSubmatch(s)
	if matches == nil {
		return Assertion{}, fmt.Errorf("invalid assertion format: %q (expected 'metric[:aggregate] operator value', e.g. 'score >= 0.85')", s)
	}

	metric := matches[1]
	aggregate := matches[2]
	operator := matches[3]

	value, err := strconv.ParseFloat(matches[4], 64)
	if err != nil {
		return Assertion{}, fmt.Errorf("invalid assertion value %q: %v", matches[4], err)
	}

	switch metric {
	case "score":
		if aggregate != "" {
			return Assertion{}, fmt.Errorf("metric \"score\" takes no aggregate, got %q", aggregate)
		}
	case "satisfied", "tolerated", "frustrated":
		if aggregate != "rate" && aggregate != "count" {
			return Assertion{}, fmt.Errorf("metric %q needs aggregate 'rate' or 'count'", metric)
		}
	case "samples", "invalid":
		if aggregate != "count" {
			return Assertion{}, fmt.Errorf("metric %q needs aggregate 'count'", metric)
		}
	default:
		return Assertion{}, fmt.Errorf("unsupported metric %q (supported: score, satisfied, tolerated, frustrated, samples, invalid)", metric)
	}

	if !isValidOperator(operator) {
		return Assertion{}, fmt.Errorf("unsupported operator %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Assertion{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses a list of assertion strings, collecting all errors.
func ParseMultiple(raw []string) ([]Assertion, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	result := make([]Assertion, 0, len(raw))
	var errs []string
	for i, s := range raw {
		a, err := Parse(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d]: %v", i, err))
			continue
		}
		result = append(result, a)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("assertion parsing errors: %s", strings.Join(errs, "; "))
	}
	return result, nil
}

func isValidOperator(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==":
		return true
	default:
		return false
	}
}

func extractValue(a Assertion, summary apdex.Summary, invalid uint64) (float64, error) {
	switch a.Metric {
	case "score":
		if summary.Score == nil {
			return 0, fmt.Errorf("no samples recorded, score is undefined")
		}
		return *summary.Score, nil
	case "samples":
		return float64(summary.Total), nil
	case "invalid":
		return float64(invalid), nil
	}

	var count uint64
	switch a.Metric {
	case "satisfied":
		count = summary.Satisfied
	case "tolerated":
		count = summary.Tolerated
	case "frustrated":
		count = summary.Frustrated
	default:
		return 0, fmt.Errorf("unknown metric: %s", a.Metric)
	}

	if a.Aggregate == "count" {
		return float64(count), nil
	}
	if summary.Total == 0 {
		return 0, fmt.Errorf("no samples recorded, %s rate is undefined", a.Metric)
	}
	return float64(count) / float64(summary.Total), nil
}

func compare(actual float64, operator string, expected float64) bool {
	const epsilon = 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
