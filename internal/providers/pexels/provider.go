// Package pexels adapts the Pexels stock video API into clip-kind candidates.
// Clips need no asset expansion: the first file variant's link is the direct
// link, and clips without a usable link are dropped.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviesearch/internal/domain"
	"moviesearch/internal/fetch"
)

const (
	defaultEndpoint = "https://api.pexels.com/videos/search"
	defaultPerPage  = 3
	defaultTimeout  = 10 * time.Second
	defaultLabel    = "Pexels Video"
)

type Config struct {
	APIKey   string
	Endpoint string
	Fetch    *fetch.Client
	PerPage  int
	Timeout  time.Duration
}

type Provider struct {
	apiKey   string
	endpoint string
	fetch    *fetch.Client
	perPage  int
	timeout  time.Duration
}

type videoFile struct {
	Link string `json:"link"`
}

type video struct {
	ID   int64 `json:"id"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	VideoFiles []videoFile `json:"video_files"`
}

type searchResponse struct {
	Videos []video `json:"videos"`
}

func NewProvider(cfg Config) *Provider {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: endpoint,
		fetch:    cfg.Fetch,
		perPage:  perPage,
		timeout:  timeout,
	}
}

func (p *Provider) Name() string { return "pexels" }

func (p *Provider) Source() domain.SourceKind { return domain.SourceClip }

func (p *Provider) Info() domain.ProviderInfo {
	return domain.ProviderInfo{
		Name:    p.Name(),
		Label:   "Pexels",
		Kind:    "clip",
		Enabled: p.apiKey != "",
	}
}

func (p *Provider) Search(ctx context.Context, title string) ([]domain.Candidate, error) {
	params := url.Values{
		"query":    {strings.TrimSpace(title)},
		"per_page": {strconv.Itoa(p.perPage)},
	}
	headers := map[string]string{"Authorization": p.apiKey}

	result, err := p.fetch.Get(ctx, p.endpoint, params, headers, p.timeout)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, fmt.Errorf("pexels HTTP %d", result.Status)
	}

	var payload searchResponse
	if err := json.Unmarshal(result.Body, &payload); err != nil {
		return nil, fmt.Errorf("pexels payload: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(payload.Videos))
	for _, item := range payload.Videos {
		if len(item.VideoFiles) == 0 {
			continue
		}
		link := strings.TrimSpace(item.VideoFiles[0].Link)
		if link == "" {
			continue
		}
		displayTitle := strings.TrimSpace(item.User.Name)
		if displayTitle == "" {
			displayTitle = defaultLabel
		}
		candidates = append(candidates, domain.Candidate{
			Source:     domain.SourceClip,
			Identifier: strconv.FormatInt(item.ID, 10),
			Title:      displayTitle,
			DirectLink: link,
		})
		if len(candidates) >= p.perPage {
			break
		}
	}
	return candidates, nil
}
