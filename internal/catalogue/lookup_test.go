package catalogue_test

import (
	"errors"
	"testing"
	"time"

	"fluids/internal/catalogue"
)

const sampleCatalogue = `# fluids substance catalogue
C7732185:Water
C7727379:Nitrogen
C74828:Methane
C74840:Ethane
C124389:Carbon dioxide
`

func TestLookupByID(t *testing.T) {
	cat := newTestCatalogue(t, nil)
	writeCatalogue(t, cat.Path(), sampleCatalogue, time.Now())

	name, ok, err := cat.LookupByID("C7732185")
	if err != nil || !ok || name != "Water" {
		t.Fatalf("LookupByID = %q, %v, %v", name, ok, err)
	}

	name, ok, err = cat.LookupByID("C0000001")
	if err != nil {
		t.Fatalf("LookupByID returned error: %v", err)
	}
	if ok || name != "" {
		t.Fatalf("expected no match, got %q", name)
	}
	if got := cat.NameOf("C0000001"); got != catalogue.NotAvailable {
		t.Fatalf("NameOf absent id = %q", got)
	}
}

func TestLookupByNameFirstMatchWins(t *testing.T) {
	cat := newTestCatalogue(t, nil)
	writeCatalogue(t, cat.Path(), sampleCatalogue, time.Now())

	id, ok, err := cat.LookupByName("thane")
	if err != nil || !ok {
		t.Fatalf("LookupByName = %q, %v, %v", id, ok, err)
	}
	if id != "C74828" {
		t.Fatalf("expected first match Methane, got %q", id)
	}

	if _, ok, _ := cat.LookupByName("water"); ok {
		t.Fatal("expected case-sensitive lookup to miss lower-case fragment")
	}
}

func TestLookupAllReturnsEveryMatch(t *testing.T) {
	cat := newTestCatalogue(t, nil)
	writeCatalogue(t, cat.Path(), sampleCatalogue, time.Now())

	matches, err := cat.LookupAll(catalogue.ByName, "thane", catalogue.MatchOptions{})
	if err != nil {
		t.Fatalf("LookupAll returned error: %v", err)
	}
	if len(matches) != 2 || matches[0].Name != "Methane" || matches[1].Name != "Ethane" {
		t.Fatalf("unexpected matches: %+v", matches)
	}

	folded, err := cat.LookupAll(catalogue.ByName, "CARBON", catalogue.MatchOptions{FoldCase: true})
	if err != nil {
		t.Fatalf("LookupAll returned error: %v", err)
	}
	if len(folded) != 1 || folded[0].ID != "C124389" {
		t.Fatalf("unexpected folded matches: %+v", folded)
	}

	if none, _ := cat.LookupAll(catalogue.ByID, "  ", catalogue.MatchOptions{}); len(none) != 0 {
		t.Fatalf("expected empty fragment to match nothing, got %+v", none)
	}
}

func TestLookupOnMissingCatalogue(t *testing.T) {
	cat := newTestCatalogue(t, nil)
	_, _, err := cat.LookupByID("C7732185")
	if !errors.Is(err, catalogue.ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if got := cat.NameOf("C7732185"); got != catalogue.NotAvailable {
		t.Fatalf("NameOf on missing catalogue = %q", got)
	}
}

func TestParseListingWithoutSelector(t *testing.T) {
	if _, err := catalogue.ParseListing([]byte("<html><body>maintenance</body></html>")); !errors.Is(err, catalogue.ErrNoSelector) {
		t.Fatalf("expected ErrNoSelector, got %v", err)
	}
}

func TestParseListingIgnoresOtherSelectors(t *testing.T) {
	entries, err := catalogue.ParseListing([]byte(listingPage))
	if err != nil {
		t.Fatalf("ParseListing returned error: %v", err)
	}
	for _, entry := range entries {
		if entry.ID == "SI" || entry.ID == "IsoTherm" || entry.ID == "C0000000" {
			t.Fatalf("unexpected entry from outside the substance selector: %+v", entry)
		}
	}
	if entries[0] != (catalogue.Entry{ID: "C7732185", Name: "Water"}) {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
}
