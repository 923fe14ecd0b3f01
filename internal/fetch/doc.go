// Package fetch runs one calculation request end to end.
//
// A run validates the request, resolves units and the substance name, builds
// the query, primes and downloads the table, writes the annotated output file,
// and records the run in the history ledger. Usage and resolution failures
// happen before any network call. A network failure aborts the run without
// writing output. An unrecognized table shape is a warning, not a failure.
package fetch
