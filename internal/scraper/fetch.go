package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/cycling-races-ics/internal/logger"
)

const (
	UserAgent = "cycling-races-ics/1.0 (github.com/pfrederiksen/cycling-races-ics)"
	Timeout   = 10 * time.Second
)

// maxBodySize bounds how much of a page is read.
const maxBodySize = 8 << 20

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}

// Fetcher performs GET requests with a timeout, a fixed User-Agent and
// bounded exponential retries for transient failures.
type Fetcher struct {
	client    *http.Client
	userAgent string
	retries   uint64

	// initialInterval is the first retry delay.
	initialInterval time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) FetcherOption {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retries = uint64(n)
		}
	}
}

// WithRetryInterval sets the first retry delay.
func WithRetryInterval(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.initialInterval = d
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent:       UserAgent,
		retries:         2,
		initialInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get fetches url and returns the body. Non-200 responses return a
// *StatusError; 429 and 5xx are retried, other statuses are not.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0

	op := func() error {
		attempt++
		b, err := f.get(ctx, url)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !retryable(se.StatusCode) {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			logger.Debug("fetch attempt failed", logger.Fields{"url": url, "attempt": attempt})
			return err
		}
		body = b
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = f.initialInterval
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, f.retries), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
