package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"fluids/internal/catalogue"
	"fluids/internal/webbook"
)

// CheckService verifies that url answers a GET with 200 through pinger. It
// makes a single attempt; timeout and User-Agent come from the pinger.
func CheckService(ctx context.Context, name, url string, pinger Pinger) Result {
	url = strings.TrimSpace(url)
	if url == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if pinger == nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no service client)", url)}
	}
	if err := pinger.Ping(ctx, url); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", url, summarizeNetError(err))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", url)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalogue reports whether the catalogue exists and is fresh. A stale
// catalogue passes with a warning since fetches still work without names.
func CheckCatalogue(cat CatalogueAge) Result {
	const name = "Catalogue"
	age, err := cat.Age()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	if age == catalogue.Infinite {
		return Result{Name: name, Passed: true, Warn: true, Detail: "not downloaded (run 'fluids catalogue refresh')"}
	}
	if age > cat.MaxAge() {
		return Result{Name: name, Passed: true, Warn: true, Detail: fmt.Sprintf("stale (age %s)", age.Round(time.Second))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("fresh (age %s)", age.Round(time.Second))}
}

func summarizeNetError(err error) string {
	var svcErr *webbook.NetworkError
	if errors.As(err, &svcErr) && svcErr.Status != 0 {
		return fmt.Sprintf("error: status %d", svcErr.Status)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "error: timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "error: timed out"
	}
	return "error: " + err.Error()
}
