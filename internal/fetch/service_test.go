package fetch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fluids/internal/catalogue"
	"fluids/internal/history"
	"fluids/internal/request"
	"fluids/internal/units"
	"fluids/internal/webbook"
)

type fakeTransport struct {
	body  string
	err   error
	plans []request.Plan
}

func (f *fakeTransport) Fetch(_ context.Context, plan request.Plan) (string, error) {
	f.plans = append(f.plans, plan)
	return f.body, f.err
}

type fakeNames struct {
	entries    map[string]string
	refreshErr error
	refreshes  int
}

func (f *fakeNames) Refresh(context.Context, bool) (catalogue.RefreshResult, error) {
	f.refreshes++
	return catalogue.RefreshResult{}, f.refreshErr
}

func (f *fakeNames) LookupByID(id string) (string, bool, error) {
	if f.entries == nil {
		return "", false, catalogue.ErrMissing
	}
	name, ok := f.entries[id]
	return name, ok, nil
}

func (f *fakeNames) NameOf(id string) string {
	if name, ok := f.entries[id]; ok {
		return name
	}
	return catalogue.NotAvailable
}

type memRecorder struct {
	runs []history.Run
	err  error
}

func (m *memRecorder) Record(_ context.Context, run history.Run) (history.Run, error) {
	if m.err != nil {
		return history.Run{}, m.err
	}
	m.runs = append(m.runs, run)
	return run, nil
}

func tableBody(width, rows int) string {
	var b strings.Builder
	b.WriteString("echoed input line\n")
	for range rows {
		b.WriteString(strings.TrimSpace(strings.Repeat("1.5 ", width)))
		b.WriteByte('\n')
	}
	return b.String()
}

func isotherm() request.Request {
	return request.Request{
		Variant:     request.Isotherm,
		SubstanceID: "C7732185",
		Temperature: "725.5",
		PLow:        "1.0",
		PHigh:       "10.0",
		PInc:        "0.5",
		Digits:      5,
		Units:       units.Default(),
	}
}

func newTestService(t *testing.T, transport Transport, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(transport, "http://svc.test/cgi/fluid.cgi", opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRunWritesAnnotatedOutput(t *testing.T) {
	transport := &fakeTransport{body: tableBody(14, 3)}
	recorder := &memRecorder{}
	names := &fakeNames{entries: map[string]string{"C7732185": "Water"}}
	fixed := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	svc := newTestService(t, transport,
		WithNames(names),
		WithRecorder(recorder),
		WithClock(func() time.Time { return fixed }))

	out := filepath.Join(t.TempDir(), "runs", "water.dat")
	summary, err := svc.Run(context.Background(), Input{Request: isotherm(), Output: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(transport.plans) != 1 {
		t.Fatalf("expected one fetch, got %d", len(transport.plans))
	}
	if !strings.Contains(transport.plans[0].DataURL, "Type=IsoTherm&T=725.5&PLow=1.0&PHigh=10.0&PInc=0.5") {
		t.Fatalf("unexpected data url %s", transport.plans[0].DataURL)
	}
	if !summary.Table.Recognized || summary.Table.Rows != 3 || summary.SubstanceName != "Water" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if names.refreshes != 0 {
		t.Fatal("catalogue refreshed without name resolution")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(data)
	for _, want := range []string{"# Substance: Water (C7732185)", "# Calculation: isotherm", "# Run: " + summary.RunID, "Temperature [K]"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "echoed input line") {
		t.Fatal("echoed input line written to output")
	}

	if len(recorder.runs) != 1 {
		t.Fatalf("expected one history row, got %d", len(recorder.runs))
	}
	run := recorder.runs[0]
	if run.ID != summary.RunID || run.OutputPath != out || run.Layout != "single-phase" || !run.StartedAt.Equal(fixed) {
		t.Fatalf("unexpected history row: %+v", run)
	}
}

func TestRunDefaultOutputName(t *testing.T) {
	t.Chdir(t.TempDir())
	svc := newTestService(t, &fakeTransport{body: tableBody(14, 1)}, WithOutputPrefix("water"))
	summary, err := svc.Run(context.Background(), Input{Request: isotherm()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Plan.OutputPath != "water_isotherm.dat" {
		t.Fatalf("output path = %q", summary.Plan.OutputPath)
	}
	if _, err := os.Stat("water_isotherm.dat"); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestRunUsageErrorSkipsNetwork(t *testing.T) {
	transport := &fakeTransport{body: tableBody(14, 1)}
	svc := newTestService(t, transport)
	req := isotherm()
	req.Variant = 0
	_, err := svc.Run(context.Background(), Input{Request: req, Output: filepath.Join(t.TempDir(), "x.dat")})
	if !request.IsUsageError(err) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if len(transport.plans) != 0 {
		t.Fatal("network used for invalid request")
	}
}

func TestRunNetworkErrorWritesNothing(t *testing.T) {
	transport := &fakeTransport{err: &webbook.NetworkError{Op: "prime", URL: "http://svc.test", Status: 503}}
	recorder := &memRecorder{}
	svc := newTestService(t, transport, WithRecorder(recorder))
	out := filepath.Join(t.TempDir(), "out.dat")

	_, err := svc.Run(context.Background(), Input{Request: isotherm(), Output: out})
	var netErr *webbook.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output file written after network failure: %v", statErr)
	}
	if len(recorder.runs) != 0 {
		t.Fatal("failed run recorded in history")
	}
}

func TestRunEmptyResponseWritesNothing(t *testing.T) {
	for name, body := range map[string]string{
		"empty":      "",
		"echo only":  "echoed input line\n",
		"blank rows": "echoed input line\n\n  \n",
	} {
		t.Run(name, func(t *testing.T) {
			recorder := &memRecorder{}
			svc := newTestService(t, &fakeTransport{body: body}, WithRecorder(recorder))
			out := filepath.Join(t.TempDir(), "empty.dat")

			_, err := svc.Run(context.Background(), Input{Request: isotherm(), Output: out})
			var emptyErr *EmptyResponseError
			if !errors.As(err, &emptyErr) {
				t.Fatalf("expected EmptyResponseError, got %v", err)
			}
			if !strings.Contains(emptyErr.URL, "Action=Data") {
				t.Fatalf("error URL = %q", emptyErr.URL)
			}
			if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
				t.Fatalf("output file written for empty response: %v", statErr)
			}
			if len(recorder.runs) != 0 {
				t.Fatal("empty run recorded in history")
			}
		})
	}
}

func TestRunUnrecognizedFormatWarns(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc := newTestService(t, &fakeTransport{body: tableBody(7, 2)}, WithLogger(logger))
	out := filepath.Join(t.TempDir(), "odd.dat")

	summary, err := svc.Run(context.Background(), Input{Request: isotherm(), Output: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Table.Recognized || summary.Table.Columns != 7 {
		t.Fatalf("unexpected table result: %+v", summary.Table)
	}
	if !strings.Contains(logs.String(), "event_type=format_unrecognized") {
		t.Fatalf("missing warning log:\n%s", logs.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "# WARNING: format not recognized") {
		t.Fatalf("missing warning line:\n%s", data)
	}
}

func TestRunResolveName(t *testing.T) {
	transport := &fakeTransport{body: tableBody(14, 1)}
	names := &fakeNames{entries: map[string]string{"C7727379": "Nitrogen"}}
	svc := newTestService(t, transport, WithNames(names))

	_, err := svc.Run(context.Background(), Input{Request: isotherm(), ResolveName: true, Output: filepath.Join(t.TempDir(), "a.dat")})
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.ID != "C7732185" {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if len(transport.plans) != 0 {
		t.Fatal("network used after resolution failure")
	}
	if names.refreshes != 1 {
		t.Fatalf("expected a staleness-checked refresh, got %d", names.refreshes)
	}

	names.entries["C7732185"] = "Water"
	names.refreshErr = errors.New("offline")
	summary, err := svc.Run(context.Background(), Input{Request: isotherm(), ResolveName: true, Output: filepath.Join(t.TempDir(), "b.dat")})
	if err != nil {
		t.Fatalf("Run with failed refresh: %v", err)
	}
	if summary.SubstanceName != "Water" {
		t.Fatalf("name = %q", summary.SubstanceName)
	}
}

func TestRunResolveNameWithoutCatalogue(t *testing.T) {
	svc := newTestService(t, &fakeTransport{body: tableBody(14, 1)})
	_, err := svc.Run(context.Background(), Input{Request: isotherm(), ResolveName: true, Output: filepath.Join(t.TempDir(), "c.dat")})
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
}

func TestRunHistoryFailureIsNotFatal(t *testing.T) {
	svc := newTestService(t, &fakeTransport{body: tableBody(14, 1)}, WithRecorder(&memRecorder{err: errors.New("disk full")}))
	if _, err := svc.Run(context.Background(), Input{Request: isotherm(), Output: filepath.Join(t.TempDir(), "d.dat")}); err != nil {
		t.Fatalf("history failure should not fail the run: %v", err)
	}
}

func TestNewServiceRequiresTransport(t *testing.T) {
	if _, err := NewService(nil, "http://svc.test"); err == nil {
		t.Fatal("expected error without transport")
	}
}
