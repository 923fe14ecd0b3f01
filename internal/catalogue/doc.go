// Package catalogue maintains the local substance catalogue: a text file of
// ID:Name lines scraped from the service's substance listing page.
//
// The file's modification time drives staleness. Refresh re-downloads the
// listing when the file is older than the configured maximum age (or when
// forced), and replaces the file atomically under an advisory lock so
// overlapping invocations do not interleave writes. Lookups are substring
// matches over the persisted entries; the first match wins, and LookupAll
// returns every candidate.
package catalogue
