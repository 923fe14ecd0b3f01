package catalogue

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"fluids/internal/fileutil"
	"fluids/internal/logging"
)

const (
	// DefaultMaxAge is the catalogue time-to-live.
	DefaultMaxAge = 24 * time.Hour
	// Infinite is reported as the age of a catalogue file that does not exist.
	Infinite = time.Duration(math.MaxInt64)
	// NotAvailable is the display text for a lookup with no match.
	NotAvailable = "not available"

	lockRetryDelay = 100 * time.Millisecond
)

// ErrMissing reports that no catalogue file has been written yet.
var ErrMissing = errors.New("catalogue not downloaded")

// Entry is one substance in the catalogue.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListingFetcher downloads the substance listing page.
type ListingFetcher interface {
	Listing(ctx context.Context, url string) ([]byte, error)
}

// Catalogue manages the persisted substance catalogue file.
type Catalogue struct {
	path       string
	listingURL string
	maxAge     time.Duration
	fetcher    ListingFetcher
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Catalogue.
type Option func(*Catalogue)

// WithMaxAge overrides DefaultMaxAge.
func WithMaxAge(maxAge time.Duration) Option {
	return func(c *Catalogue) {
		if maxAge > 0 {
			c.maxAge = maxAge
		}
	}
}

// WithLogger sets the logger used for refresh reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalogue) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Catalogue) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a catalogue backed by path. fetcher may be nil when only
// lookups are needed; Refresh then fails if a download is required.
func New(path, listingURL string, fetcher ListingFetcher, opts ...Option) (*Catalogue, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalogue path required")
	}
	c := &Catalogue{
		path:       path,
		listingURL: strings.TrimSpace(listingURL),
		maxAge:     DefaultMaxAge,
		fetcher:    fetcher,
		logger:     logging.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "catalogue")
	return c, nil
}

// Path returns the catalogue file location.
func (c *Catalogue) Path() string {
	return c.path
}

// MaxAge returns the configured time-to-live.
func (c *Catalogue) MaxAge() time.Duration {
	return c.maxAge
}

// Age returns the time since the catalogue file was last modified, or
// Infinite when the file does not exist.
func (c *Catalogue) Age() (time.Duration, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Infinite, nil
		}
		return 0, fmt.Errorf("stat catalogue: %w", err)
	}
	age := c.now().Sub(info.ModTime())
	if age < 0 {
		age = 0
	}
	return age, nil
}

// Stale reports whether the catalogue is older than its maximum age.
func (c *Catalogue) Stale() (bool, error) {
	age, err := c.Age()
	if err != nil {
		return false, err
	}
	return age > c.maxAge, nil
}

// Entries reads the persisted catalogue in file order.
func (c *Catalogue) Entries() ([]Entry, error) {
	file, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run `fluids catalogue refresh`)", ErrMissing, c.path)
		}
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, name, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if id == "" || name == "" {
			continue
		}
		entries = append(entries, Entry{ID: id, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return entries, nil
}

// RefreshResult describes what Refresh did.
type RefreshResult struct {
	Refreshed bool
	Forced    bool
	// Age is the catalogue age before the refresh decision.
	Age     time.Duration
	Entries int
}

// RefreshError wraps a failed download or an unusable listing page. The
// existing catalogue file is left untouched.
type RefreshError struct {
	URL string
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh catalogue from %s: %v", e.URL, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Refresh downloads and rewrites the catalogue when forced or stale. A fresh
// catalogue is reported and left alone without any network access.
func (c *Catalogue) Refresh(ctx context.Context, force bool) (RefreshResult, error) {
	age, err := c.Age()
	if err != nil {
		return RefreshResult{}, err
	}
	result := RefreshResult{Forced: force, Age: age}
	if !force && age <= c.maxAge {
		c.logger.Debug("catalogue fresh; skipping download",
			logging.Duration("catalogue_age", age),
			logging.Duration("max_age", c.maxAge))
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return result, fmt.Errorf("create catalogue directory: %w", err)
	}
	lock := flock.New(c.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return result, fmt.Errorf("lock catalogue: %w", err)
	}
	if !locked {
		return result, errors.New("lock catalogue: lock not acquired")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			c.logger.Debug("release catalogue lock failed", logging.Error(err))
		}
	}()

	// Another invocation may have refreshed while we waited for the lock.
	if !force {
		if current, err := c.Age(); err == nil && current <= c.maxAge {
			result.Age = current
			return result, nil
		}
	}

	if c.fetcher == nil {
		return result, &RefreshError{URL: c.listingURL, Err: errors.New("no listing fetcher configured")}
	}
	c.logger.Debug("downloading substance listing", logging.String("url", c.listingURL))
	page, err := c.fetcher.Listing(ctx, c.listingURL)
	if err != nil {
		return result, &RefreshError{URL: c.listingURL, Err: err}
	}
	entries, err := ParseListing(page)
	if err != nil {
		return result, &RefreshError{URL: c.listingURL, Err: err}
	}

	if err := c.write(entries); err != nil {
		return result, err
	}

	result.Refreshed = true
	result.Entries = len(entries)
	c.logger.Info("catalogue refreshed",
		logging.String(logging.FieldEventType, "catalogue_refreshed"),
		logging.Int("entries", len(entries)),
		logging.Bool("forced", force),
		logging.String("catalogue_path", c.path))
	return result, nil
}

func (c *Catalogue) write(entries []Entry) error {
	err := fileutil.WriteAtomic(c.path, 0o644, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "# fluids substance catalogue: %d entries from %s, retrieved %s\n",
			len(entries), c.listingURL, c.now().UTC().Format(time.RFC3339)); err != nil {
			return err
		}
		for _, entry := range entries {
			if _, err := fmt.Fprintf(w, "%s:%s\n", entry.ID, entry.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write catalogue: %w", err)
	}
	return nil
}
