package catalogue

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// The substance selector on the listing page is <select name="ID">.
const selectorName = "ID"

var (
	// ErrNoSelector reports a listing page without the substance selector.
	ErrNoSelector = errors.New("substance selector not found in listing page")
	// ErrNoEntries reports a selector that yielded no usable substances.
	ErrNoEntries = errors.New("no substances found in listing page")
)

// ParseListing extracts catalogue entries from the <option> rows of the
// substance selector. Placeholder rows (no value, "--" or "select" prompts)
// and values that cannot be stored as an ID are skipped. Duplicate IDs keep
// their first occurrence.
func ParseListing(page []byte) ([]Entry, error) {
	z := html.NewTokenizer(bytes.NewReader(page))

	var (
		inSelect  bool
		sawSelect bool
		inOption  bool
		value     string
		hasValue  bool
		text      strings.Builder
		entries   []Entry
		seen      = map[string]struct{}{}
	)

	flush := func() {
		if !inOption {
			return
		}
		inOption = false
		name := strings.Join(strings.Fields(text.String()), " ")
		id := strings.TrimSpace(value)
		if !hasValue {
			id = name
		}
		if !usableEntry(id, name) {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		entries = append(entries, Entry{ID: id, Name: name})
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			flush()
			return finishListing(sawSelect, entries)
		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "select":
				if attr(tok, "name") == selectorName {
					inSelect = true
					sawSelect = true
				}
			case "option":
				if !inSelect {
					continue
				}
				flush()
				inOption = true
				value, hasValue = lookupAttr(tok, "value")
				text.Reset()
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.Data {
			case "option":
				flush()
			case "select":
				if inSelect {
					flush()
					return finishListing(sawSelect, entries)
				}
			}
		case html.TextToken:
			if inOption {
				text.Write(z.Text())
			}
		}
	}
}

func finishListing(sawSelect bool, entries []Entry) ([]Entry, error) {
	if !sawSelect {
		return nil, ErrNoSelector
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

func usableEntry(id, name string) bool {
	if id == "" || name == "" {
		return false
	}
	if strings.ContainsAny(id, ": \t\r\n") || strings.Contains(name, "\n") {
		return false
	}
	lowered := strings.ToLower(name)
	if strings.HasPrefix(name, "--") || strings.HasPrefix(lowered, "select") {
		return false
	}
	return true
}

func attr(tok html.Token, key string) string {
	value, _ := lookupAttr(tok, key)
	return value
}

func lookupAttr(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
