package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"fluids/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Fluid calculator", statusError, "unreachable", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Fluid calculator:", "[ERROR] unreachable")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := renderStatusLine("Rows", statusInfo, "", false); !strings.HasSuffix(got, "[INFO]") {
		t.Fatalf("expected bare status without message, got %q", got)
	}
}

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		result preflight.Result
		want   statusKind
	}{
		{preflight.Result{Passed: true}, statusOK},
		{preflight.Result{Passed: true, Warn: true}, statusWarn},
		{preflight.Result{Passed: false, Warn: true}, statusError},
	}
	for _, tc := range cases {
		if got := checkStatus(tc.result); got != tc.want {
			t.Errorf("checkStatus(%+v) = %v, want %v", tc.result, got, tc.want)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(leftColumns("ID", "Name"), [][]string{{"C7732185", "Water"}, {"C74828"}})
	for _, want := range []string{"ID", "Name", "C7732185", "Water", "C74828"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
	if renderTable(nil, [][]string{{"x"}}) != "" {
		t.Fatal("expected empty output without columns")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected no color for non-file writer")
	}
}
