package catalogue

import (
	"strings"

	"golang.org/x/text/cases"
)

// Field selects which side of an entry a lookup matches against.
type Field int

const (
	ByID Field = iota
	ByName
)

// MatchOptions tunes substring matching.
type MatchOptions struct {
	// FoldCase enables Unicode case-insensitive matching.
	FoldCase bool
}

// LookupByID returns the name of the first entry whose ID contains id.
func (c *Catalogue) LookupByID(id string) (string, bool, error) {
	entry, ok, err := c.first(ByID, id, MatchOptions{})
	return entry.Name, ok, err
}

// LookupByName returns the ID of the first entry whose name contains fragment.
func (c *Catalogue) LookupByName(fragment string) (string, bool, error) {
	entry, ok, err := c.first(ByName, fragment, MatchOptions{})
	return entry.ID, ok, err
}

// NameOf returns the substance name for id, or NotAvailable when the
// catalogue has no match or cannot be read.
func (c *Catalogue) NameOf(id string) string {
	name, ok, err := c.LookupByID(id)
	if err != nil || !ok {
		return NotAvailable
	}
	return name
}

// LookupAll returns every entry whose field contains fragment, in file order.
func (c *Catalogue) LookupAll(field Field, fragment string, opts MatchOptions) ([]Entry, error) {
	entries, err := c.Entries()
	if err != nil {
		return nil, err
	}
	return Match(entries, field, fragment, opts), nil
}

func (c *Catalogue) first(field Field, fragment string, opts MatchOptions) (Entry, bool, error) {
	matches, err := c.LookupAll(field, fragment, opts)
	if err != nil || len(matches) == 0 {
		return Entry{}, false, err
	}
	return matches[0], true, nil
}

// Match filters entries by substring. An empty fragment matches nothing.
func Match(entries []Entry, field Field, fragment string, opts MatchOptions) []Entry {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil
	}
	normalize := func(s string) string { return s }
	if opts.FoldCase {
		folder := cases.Fold()
		normalize = folder.String
	}
	needle := normalize(fragment)

	var out []Entry
	for _, entry := range entries {
		hay := entry.ID
		if field == ByName {
			hay = entry.Name
		}
		if strings.Contains(normalize(hay), needle) {
			out = append(out, entry)
		}
	}
	return out
}
