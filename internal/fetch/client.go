// Package fetch is the single outbound HTTP door for every provider call.
// It stamps the identifying User-Agent on each request, enforces a per-call
// timeout, and reports non-2xx statuses as data rather than errors; only
// transport-level failures (timeout, network) come back as errors.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxBodyBytes = 4 * 1024 * 1024

type ErrorKind string

const (
	KindTimeout ErrorKind = "timeout"
	KindNetwork ErrorKind = "network"
)

// Error is a transport-level fetch failure. HTTP error statuses are not
// represented here; they are carried in Result.Status.
type Error struct {
	Kind  ErrorKind
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// Result is the outcome of a completed HTTP exchange.
type Result struct {
	Status int
	Body   []byte
}

func (r Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Client struct {
	http      *http.Client
	userAgent string
}

type Config struct {
	UserAgent string
	Transport http.RoundTripper
}

func NewClient(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "moviesearch/1.1 (+https://archive.org)"
	}
	return &Client{
		// Per-call deadlines come from the request context, not the client.
		http:      &http.Client{Transport: transport},
		userAgent: userAgent,
	}
}

// Do performs one HTTP exchange. params are appended to the URL's query
// string; headers are set after the identifying User-Agent, so callers may
// add but not unset it being present. For HEAD requests the body is not read.
func (c *Client) Do(ctx context.Context, method, rawURL string, params url.Values, headers map[string]string, timeout time.Duration) (Result, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, &Error{Kind: KindNetwork, cause: err}
	}
	if len(params) > 0 {
		merged := target.Query()
		for key, values := range params {
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		target.RawQuery = merged.Encode()
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return Result{}, &Error{Kind: KindNetwork, cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, classify(err)
	}
	defer resp.Body.Close()

	if method == http.MethodHead {
		return Result{Status: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, classify(err)
	}
	return Result{Status: resp.StatusCode, Body: body}, nil
}

// Get is shorthand for Do with http.MethodGet.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string, timeout time.Duration) (Result, error) {
	return c.Do(ctx, http.MethodGet, rawURL, params, headers, timeout)
}

// Head probes a URL without downloading the body.
func (c *Client) Head(ctx context.Context, rawURL string, timeout time.Duration) (Result, error) {
	return c.Do(ctx, http.MethodHead, rawURL, nil, nil, timeout)
}

func classify(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, cause: err}
	}
	return &Error{Kind: KindNetwork, cause: err}
}
