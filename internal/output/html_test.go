package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateHTMLReport(t *testing.T) {
	report := sampleReport(t, "0.5\n2.0\n10.0\n", "score >= 0.4", "frustrated:rate < 0.1")

	var buf bytes.Buffer
	if err := GenerateHTMLReport(&buf, report); err != nil {
		t.Fatalf("GenerateHTMLReport: %v", err)
	}
	out := buf.String()

	wants := []string{
		"<!DOCTYPE html>",
		"0.50",
		"Poor",
		"Satisfied",
		"Frustrated",
		"PASS",
		"FAIL",
		"01TESTRUN",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("HTML report missing %q", want)
		}
	}
}

func TestGenerateHTMLReportNoData(t *testing.T) {
	report := sampleReport(t, "")

	var buf bytes.Buffer
	if err := GenerateHTMLReport(&buf, report); err != nil {
		t.Fatalf("GenerateHTMLReport: %v", err)
	}
	if !strings.Contains(buf.String(), "NS") {
		t.Error("HTML report for empty run missing NS score")
	}
	if !strings.Contains(buf.String(), "NoSample") {
		t.Error("HTML report for empty run missing NoSample rating")
	}
}
