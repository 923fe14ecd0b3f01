package catalogue_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fluids/internal/catalogue"
)

const listingPage = `<html><body>
<form action="/cgi/fluid.cgi">
<select name="Units"><option value="SI">SI</option></select>
<select name="ID">
<option value="">-- Select a fluid --</option>
<!-- <option value="C0000000">Commented out</option> -->
<option value="C7732185">Water</option>
<option value="C7727379">Nitrogen</option>
<option value="C74828">Methane</option>
<option value="C7732185">Water duplicate</option>
<option value="C124389">Carbon dioxide</option>
</select>
<select name="Type"><option value="IsoTherm">Isothermal</option></select>
</form></body></html>`

type fakeFetcher struct {
	page  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Listing(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func newTestCatalogue(t *testing.T, fetcher catalogue.ListingFetcher, opts ...catalogue.Option) *catalogue.Catalogue {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogue.txt")
	cat, err := catalogue.New(path, "https://example.com/fluid/", fetcher, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return cat
}

func writeCatalogue(t *testing.T, path, body string, modTime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write catalogue: %v", err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := catalogue.New("  ", "", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestAgeOfMissingFileExceedsMaxAge(t *testing.T) {
	cat := newTestCatalogue(t, &fakeFetcher{})
	age, err := cat.Age()
	if err != nil {
		t.Fatalf("Age returned error: %v", err)
	}
	if age <= cat.MaxAge() {
		t.Fatalf("expected missing catalogue to be stale, age=%v", age)
	}
	stale, err := cat.Stale()
	if err != nil || !stale {
		t.Fatalf("Stale() = %v, %v", stale, err)
	}
}

func TestRefreshSkipsFreshCatalogue(t *testing.T) {
	fetcher := &fakeFetcher{page: []byte(listingPage)}
	cat := newTestCatalogue(t, fetcher)
	writeCatalogue(t, cat.Path(), "# header\nC7732185:Water\n", time.Now().Add(-time.Hour))

	result, err := cat.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if result.Refreshed {
		t.Fatal("expected fresh catalogue not to be refreshed")
	}
	if fetcher.calls != 0 {
		t.Fatalf("expected no network calls, got %d", fetcher.calls)
	}
	if result.Age < 59*time.Minute || result.Age > 2*time.Hour {
		t.Fatalf("unexpected reported age: %v", result.Age)
	}
}

func TestRefreshDownloadsWhenStale(t *testing.T) {
	fetcher := &fakeFetcher{page: []byte(listingPage)}
	cat := newTestCatalogue(t, fetcher)
	writeCatalogue(t, cat.Path(), "# old\nX1:Old\n", time.Now().Add(-48*time.Hour))

	result, err := cat.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !result.Refreshed || result.Entries != 4 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one network call, got %d", fetcher.calls)
	}

	data, err := os.ReadFile(cat.Path())
	if err != nil {
		t.Fatalf("read catalogue: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if !strings.HasPrefix(lines[0], "#") {
		t.Fatalf("expected header comment, got %q", lines[0])
	}
	want := []string{"C7732185:Water", "C7727379:Nitrogen", "C74828:Methane", "C124389:Carbon dioxide"}
	if strings.Join(lines[1:], "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected catalogue body:\n%s", data)
	}

	entries, err := cat.Entries()
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 4 || entries[3].Name != "Carbon dioxide" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestRefreshIsIdempotentWithinWindow(t *testing.T) {
	fetcher := &fakeFetcher{page: []byte(listingPage)}
	cat := newTestCatalogue(t, fetcher)

	if _, err := cat.Refresh(context.Background(), false); err != nil {
		t.Fatalf("first Refresh returned error: %v", err)
	}
	first, err := os.ReadFile(cat.Path())
	if err != nil {
		t.Fatalf("read catalogue: %v", err)
	}

	if _, err := cat.Refresh(context.Background(), false); err != nil {
		t.Fatalf("second Refresh returned error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected a single network call, got %d", fetcher.calls)
	}
	second, err := os.ReadFile(cat.Path())
	if err != nil {
		t.Fatalf("read catalogue: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("catalogue changed on non-forced refresh within window")
	}
}

func TestForcedRefreshIgnoresAge(t *testing.T) {
	fetcher := &fakeFetcher{page: []byte(listingPage)}
	cat := newTestCatalogue(t, fetcher)
	writeCatalogue(t, cat.Path(), "C1:One\n", time.Now())

	result, err := cat.Refresh(context.Background(), true)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !result.Refreshed || !result.Forced || fetcher.calls != 1 {
		t.Fatalf("expected forced download, result=%+v calls=%d", result, fetcher.calls)
	}
}

func TestRefreshFailureKeepsExistingCatalogue(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	cat := newTestCatalogue(t, fetcher)
	writeCatalogue(t, cat.Path(), "C7732185:Water\n", time.Now().Add(-72*time.Hour))

	_, err := cat.Refresh(context.Background(), false)
	var refreshErr *catalogue.RefreshError
	if !errors.As(err, &refreshErr) {
		t.Fatalf("expected RefreshError, got %v", err)
	}
	data, readErr := os.ReadFile(cat.Path())
	if readErr != nil || string(data) != "C7732185:Water\n" {
		t.Fatalf("existing catalogue modified: %q, %v", data, readErr)
	}
}

func TestRefreshRejectsPageWithoutEntries(t *testing.T) {
	fetcher := &fakeFetcher{page: []byte(`<select name="ID"><option value="">-- none --</option></select>`)}
	cat := newTestCatalogue(t, fetcher)

	_, err := cat.Refresh(context.Background(), true)
	if !errors.Is(err, catalogue.ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
	if _, statErr := os.Stat(cat.Path()); !os.IsNotExist(statErr) {
		t.Fatalf("expected no catalogue file, stat err=%v", statErr)
	}
}

func TestAgeUsesClock(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cat := newTestCatalogue(t, &fakeFetcher{}, catalogue.WithClock(func() time.Time { return base.Add(3 * time.Hour) }), catalogue.WithMaxAge(2*time.Hour))
	writeCatalogue(t, cat.Path(), "C1:One\n", base)

	age, err := cat.Age()
	if err != nil {
		t.Fatalf("Age returned error: %v", err)
	}
	if age != 3*time.Hour {
		t.Fatalf("unexpected age %v", age)
	}
	if stale, _ := cat.Stale(); !stale {
		t.Fatal("expected catalogue older than max age to be stale")
	}
}
