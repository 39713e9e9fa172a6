// Package omdb queries the OMDb metadata provider for the best-known
// canonical title of a free-text movie query. A provider-side miss is an
// expected outcome, reported via the found flag rather than an error.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"moviesearch/internal/domain"
	"moviesearch/internal/fetch"
)

const (
	defaultEndpoint = "https://www.omdbapi.com/"
	// OMDb reports a missing poster with this literal value.
	posterUnavailable = "N/A"
)

type Config struct {
	APIKey   string
	Endpoint string
	Fetch    *fetch.Client
	Timeout  time.Duration
}

type Client struct {
	apiKey   string
	endpoint string
	fetch    *fetch.Client
	timeout  time.Duration
}

type lookupResponse struct {
	Response string `json:"Response"`
	Title    string `json:"Title"`
	Poster   string `json:"Poster"`
}

func NewClient(cfg Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: endpoint,
		fetch:    cfg.Fetch,
		timeout:  timeout,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Lookup asks OMDb for the canonical title matching the query. found is false
// when the provider reports no match ("Response" != "True"); that is not an
// error. Errors are reserved for transport failures and malformed payloads.
func (c *Client) Lookup(ctx context.Context, title string) (domain.ResolvedTitle, bool, error) {
	if !c.Enabled() {
		return domain.ResolvedTitle{}, false, nil
	}

	params := url.Values{
		"apikey": {c.apiKey},
		"t":      {strings.TrimSpace(title)},
	}
	result, err := c.fetch.Get(ctx, c.endpoint, params, nil, c.timeout)
	if err != nil {
		return domain.ResolvedTitle{}, false, err
	}
	if !result.OK() {
		return domain.ResolvedTitle{}, false, fmt.Errorf("omdb HTTP %d", result.Status)
	}

	var payload lookupResponse
	if err := json.Unmarshal(result.Body, &payload); err != nil {
		return domain.ResolvedTitle{}, false, fmt.Errorf("omdb payload: %w", err)
	}
	if payload.Response != "True" || strings.TrimSpace(payload.Title) == "" {
		return domain.ResolvedTitle{}, false, nil
	}

	poster := strings.TrimSpace(payload.Poster)
	if poster == posterUnavailable {
		poster = ""
	}
	return domain.ResolvedTitle{
		CanonicalTitle: strings.TrimSpace(payload.Title),
		CoverImageURL:  poster,
	}, true, nil
}
