// Package transport fetches raw source payloads over HTTP with retries,
// fallback endpoints and an on-disk raw cache.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client performs GET requests with retry.
type Client struct {
	http      *http.Client
	userAgent string
	attempts  int
	backoff   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetry sets the attempts per URL and the initial backoff.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.backoff = backoff
	}
}

// New creates a client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: constants.UserAgent,
		attempts:  constants.MaxRetries,
		backoff:   constants.RetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and returns the response body. Network failures, 429 and
// 5xx responses are retried; other statuses fail at once. The returned error
// is a *errors.FetchError recording the attempts made.
func (c *Client) Get(ctx context.Context, source, url string) ([]byte, error) {
	var body []byte
	attempts := 0
	err := Retry(ctx, c.attempts, c.backoff, func() error {
		attempts++
		b, err := c.do(ctx, source, url)
		if err != nil {
			logger := logging.FromContext(ctx)
			event, msg := logger.Debug(), "Fetch attempt failed"
			if errors.IsRateLimited(err) {
				event, msg = logger.Warn(), "Rate limited, backing off"
			}
			event.Str("source", source).
				Str("url", url).
				Int("attempt", attempts).
				Err(err).
				Msg(msg)
			return err
		}
		body = b
		return nil
	})
	if err == nil {
		return body, nil
	}

	var fe *errors.FetchError
	if stderrors.As(err, &fe) {
		fe.Attempts = attempts
		return nil, fe
	}
	return nil, &errors.FetchError{Source: source, URL: url, Attempts: attempts, Err: err}
}

// GetPlain fetches url like Get and rejects HTML responses, which source
// hosts serve in place of raw files when a path moves.
func (c *Client) GetPlain(ctx context.Context, source, url string) ([]byte, error) {
	body, err := c.Get(ctx, source, url)
	if err != nil {
		return nil, err
	}
	if LooksLikeHTML(body) {
		return nil, errors.NewFetchError(source, url, 0, fmt.Errorf("got HTML instead of plain text"))
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, source, url string, target any) error {
	body, err := c.Get(ctx, source, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", url, err)
	}
	return nil
}

// FirstOf calls fetch with each URL in turn and returns the first success.
// When every URL fails the last error is returned.
func FirstOf[T any](ctx context.Context, urls []string, fetch func(ctx context.Context, url string) (T, error)) (T, string, error) {
	var zero T
	err := stderrors.New("no endpoints configured")
	for _, url := range urls {
		var v T
		v, err = fetch(ctx, url)
		if err == nil {
			return v, url, nil
		}
		logging.FromContext(ctx).Warn().
			Str("url", url).
			Err(err).
			Msg("Endpoint failed, trying next")
	}
	return zero, "", err
}

func (c *Client) do(ctx context.Context, source, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewFetchError(source, url, 0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: errors.NewFetchError(source, url, 0, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: errors.NewFetchError(source, url, resp.StatusCode, err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{Err: errors.NewFetchError(source, url, resp.StatusCode, statusError(body))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.NewFetchError(source, url, resp.StatusCode, statusError(body))
	}
	return body, nil
}

func statusError(body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		return nil
	}
	return stderrors.New(msg)
}

// LooksLikeHTML reports whether body starts like an HTML document.
func LooksLikeHTML(body []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
