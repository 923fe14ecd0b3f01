// Package table classifies the service's tabular responses and writes them to
// disk with a provenance header and a column legend.
//
// The word count of the final data row is the only format discriminator.
// Known counts live in the Layouts table; any other count is written through
// unannotated behind a warning line.
package table
