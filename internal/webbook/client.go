package webbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"fluids/internal/catalogue"
	"fluids/internal/logging"
	"fluids/internal/request"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultUserAgent    = "fluids"
	defaultMaxBodyBytes = 64 << 20
)

// ErrBodyTooLarge reports a response larger than the client's body limit.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// NetworkError reports a failed or non-200 request.
type NetworkError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: service returned %d", e.Op, e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client talks to the service.
type Client struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	userAgent    string
	scratchDir   string
	logger       *slog.Logger
}

var _ catalogue.ListingFetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The client is never
// modified; WithTimeout applies to a copy.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read. Larger bodies
// fail with ErrBodyTooLarge.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithScratchDir sets where data responses are spooled. Empty uses the
// system temp dir.
func WithScratchDir(dir string) Option {
	return func(c *Client) {
		c.scratchDir = strings.TrimSpace(dir)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	client := &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		maxBodyBytes: defaultMaxBodyBytes,
		userAgent:    defaultUserAgent,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.timeout > 0 {
		hc := *client.httpClient
		hc.Timeout = client.timeout
		client.httpClient = &hc
	}
	client.logger = logging.NewComponentLogger(client.logger, "webbook")
	return client
}

// Prime issues the compute call and discards the response body.
func (c *Client) Prime(ctx context.Context, url string) error {
	return c.discard(ctx, "prime", url)
}

// Ping checks that url answers a GET with 200, discarding the body.
func (c *Client) Ping(ctx context.Context, url string) error {
	return c.discard(ctx, "ping", url)
}

func (c *Client) discard(ctx context.Context, op, url string) error {
	resp, err := c.get(ctx, op, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = c.readBody(io.Discard, resp, op, url)
	return err
}

// FetchData downloads the tabular response through a scratch file, which is
// removed before returning.
func (c *Client) FetchData(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, "data", url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	scratch, err := os.CreateTemp(c.scratchDir, "fluids-data-*.txt")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	scratchPath := scratch.Name()
	defer func() {
		_ = scratch.Close()
		if err := os.Remove(scratchPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Debug("remove scratch file failed", logging.String("path", scratchPath), logging.Error(err))
		}
	}()

	written, err := c.readBody(scratch, resp, "data", url)
	if err != nil {
		return "", err
	}
	if err := scratch.Close(); err != nil {
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	data, err := os.ReadFile(scratchPath)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	c.logger.Debug("data response received", logging.Int64("bytes", written))
	return string(data), nil
}

// Fetch primes the service and then downloads the table. The data call is
// never issued when priming fails.
func (c *Client) Fetch(ctx context.Context, plan request.Plan) (string, error) {
	if err := c.Prime(ctx, plan.PrimeURL); err != nil {
		return "", err
	}
	return c.FetchData(ctx, plan.DataURL)
}

// Listing downloads the substance listing page.
func (c *Client) Listing(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, "listing", url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var page bytes.Buffer
	if _, err := c.readBody(&page, resp, "listing", url); err != nil {
		return nil, err
	}
	return page.Bytes(), nil
}

// readBody copies at most maxBodyBytes of resp into dst. One extra byte is
// read so an oversized body fails instead of being cut short.
func (c *Client) readBody(dst io.Writer, resp *http.Response, op, url string) (int64, error) {
	n, err := io.Copy(dst, io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return n, &NetworkError{Op: op, URL: url, Err: err}
	}
	if n > c.maxBodyBytes {
		return n, &NetworkError{Op: op, URL: url, Err: fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, c.maxBodyBytes)}
	}
	return n, nil
}

func (c *Client) get(ctx context.Context, op, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: url, Err: fmt.Errorf("execute request (latency=%v): %w", latency, err)}
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &NetworkError{Op: op, URL: url, Status: resp.StatusCode}
	}
	c.logger.Debug("service request complete",
		logging.String("op", op),
		logging.Duration("latency", latency))
	return resp, nil
}
