// Command fluids retrieves tabulated thermophysical property data for a
// substance and writes it to a local file with a provenance header and column
// legend. It also maintains the local substance catalogue and a ledger of
// completed runs.
package main
