package preflight

import (
	"context"
	"path/filepath"
	"time"

	"fluids/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Warn marks a passing check that still needs attention.
	Warn   bool
	Detail string
}

// CatalogueAge is the part of the catalogue a freshness check needs.
type CatalogueAge interface {
	Age() (time.Duration, error)
	MaxAge() time.Duration
}

// Pinger issues a single reachability request.
type Pinger interface {
	Ping(ctx context.Context, url string) error
}

// Options controls which checks RunAll performs.
type Options struct {
	// Offline skips the service reachability checks.
	Offline   bool
	Catalogue CatalogueAge
	Service   Pinger
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Catalogue directory", filepath.Dir(cfg.Paths.CataloguePath)))
	results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.Paths.HistoryPath)))
	if cfg.Paths.ScratchDir != "" {
		results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if opts.Catalogue != nil {
		results = append(results, CheckCatalogue(opts.Catalogue))
	}

	if !opts.Offline {
		results = append(results, CheckService(ctx, "Substance listing", cfg.Service.ListingURL, opts.Service))
		results = append(results, CheckService(ctx, "Fluid calculator", cfg.Service.BaseURL, opts.Service))
	}

	return results
}

// Failed reports whether any result failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
