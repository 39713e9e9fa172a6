// Package archive adapts the Internet Archive advanced search and metadata
// APIs. A search yields archive-kind candidates; each candidate can then be
// expanded into verified downloadable assets from its file listing.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"moviesearch/internal/domain"
	"moviesearch/internal/fetch"
	"moviesearch/internal/verify"
)

const (
	defaultSearchEndpoint   = "https://archive.org/advancedsearch.php"
	defaultMetadataEndpoint = "https://archive.org/metadata/"
	defaultDownloadBase     = "https://archive.org/download/"
	defaultDetailsBase      = "https://archive.org/details/"

	defaultRows            = 5
	defaultSearchTimeout   = 20 * time.Second
	defaultMetadataTimeout = 15 * time.Second

	// Reachability checks within one candidate run concurrently, bounded so a
	// long file listing cannot flood the provider with HEAD requests.
	maxConcurrentChecks = 3
)

// The advanced search is constrained to movies in this fixed language set.
var searchLanguages = []string{"hindi", "english", "marathi"}

var videoExtensions = []string{".mp4", ".mkv", ".webm", ".ogv"}

type Config struct {
	SearchEndpoint   string
	MetadataEndpoint string
	DownloadBase     string
	DetailsBase      string
	Fetch            *fetch.Client
	Verifier         *verify.Verifier
	Rows             int
	SearchTimeout    time.Duration
	MetadataTimeout  time.Duration
}

type Provider struct {
	fetch            *fetch.Client
	verifier         *verify.Verifier
	searchEndpoint   string
	metadataEndpoint string
	downloadBase     string
	detailsBase      string
	rows             int
	searchTimeout    time.Duration
	metadataTimeout  time.Duration
}

type searchDoc struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

type searchResponse struct {
	Response struct {
		Docs []searchDoc `json:"docs"`
	} `json:"response"`
}

type metadataFile struct {
	Name string `json:"name"`
}

type metadataResponse struct {
	Files []metadataFile `json:"files"`
}

func NewProvider(cfg Config) *Provider {
	provider := &Provider{
		fetch:            cfg.Fetch,
		verifier:         cfg.Verifier,
		searchEndpoint:   orDefault(cfg.SearchEndpoint, defaultSearchEndpoint),
		metadataEndpoint: orDefault(cfg.MetadataEndpoint, defaultMetadataEndpoint),
		downloadBase:     orDefault(cfg.DownloadBase, defaultDownloadBase),
		detailsBase:      orDefault(cfg.DetailsBase, defaultDetailsBase),
		rows:             cfg.Rows,
		searchTimeout:    cfg.SearchTimeout,
		metadataTimeout:  cfg.MetadataTimeout,
	}
	if provider.rows <= 0 {
		provider.rows = defaultRows
	}
	if provider.searchTimeout <= 0 {
		provider.searchTimeout = defaultSearchTimeout
	}
	if provider.metadataTimeout <= 0 {
		provider.metadataTimeout = defaultMetadataTimeout
	}
	return provider
}

func (p *Provider) Name() string { return "archive" }

func (p *Provider) Source() domain.SourceKind { return domain.SourceArchive }

func (p *Provider) Info() domain.ProviderInfo {
	return domain.ProviderInfo{
		Name:    p.Name(),
		Label:   "Internet Archive",
		Kind:    "archive",
		Enabled: true,
	}
}

func (p *Provider) Search(ctx context.Context, title string) ([]domain.Candidate, error) {
	params := url.Values{
		"q":      {buildQuery(title)},
		"fl[]":   {"identifier", "title", "creator", "date"},
		"rows":   {strconv.Itoa(p.rows)},
		"page":   {"1"},
		"output": {"json"},
	}
	result, err := p.fetch.Get(ctx, p.searchEndpoint, params, nil, p.searchTimeout)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, fmt.Errorf("archive search HTTP %d", result.Status)
	}

	var payload searchResponse
	if err := json.Unmarshal(result.Body, &payload); err != nil {
		return nil, fmt.Errorf("archive search payload: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(payload.Response.Docs))
	for _, doc := range payload.Response.Docs {
		identifier := strings.TrimSpace(doc.Identifier)
		if identifier == "" {
			continue
		}
		displayTitle := strings.TrimSpace(doc.Title)
		if displayTitle == "" {
			displayTitle = identifier
		}
		candidates = append(candidates, domain.Candidate{
			Source:     domain.SourceArchive,
			Identifier: identifier,
			Title:      displayTitle,
		})
		if len(candidates) >= p.rows {
			break
		}
	}
	return candidates, nil
}

// ExpandAssets fetches the item's metadata document, keeps only known video
// files, and verifies each direct download URL before inclusion. Files that
// fail verification are silently dropped; a partial (or empty) asset list is
// a valid outcome.
func (p *Provider) ExpandAssets(ctx context.Context, candidate domain.Candidate) ([]domain.Asset, error) {
	metadataURL := p.metadataEndpoint + url.PathEscape(candidate.Identifier)
	result, err := p.fetch.Get(ctx, metadataURL, nil, nil, p.metadataTimeout)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, fmt.Errorf("archive metadata HTTP %d", result.Status)
	}

	var payload metadataResponse
	if err := json.Unmarshal(result.Body, &payload); err != nil {
		return nil, fmt.Errorf("archive metadata payload: %w", err)
	}

	type checked struct {
		asset domain.Asset
		ok    bool
	}
	pending := make([]domain.Asset, 0, len(payload.Files))
	for _, file := range payload.Files {
		name := strings.TrimSpace(file.Name)
		if name == "" || !isVideoFile(name) {
			continue
		}
		pending = append(pending, domain.Asset{
			Label: name,
			URL:   p.downloadBase + path.Join(url.PathEscape(candidate.Identifier), url.PathEscape(name)),
		})
	}
	if len(pending) == 0 {
		return nil, nil
	}

	// Verify concurrently but join by position so the listing order survives.
	results := make([]checked, len(pending))
	sem := semaphore.NewWeighted(maxConcurrentChecks)
	var wg sync.WaitGroup
	for i, asset := range pending {
		wg.Add(1)
		go func(index int, asset domain.Asset) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			results[index] = checked{asset: asset, ok: p.verifier.Verify(ctx, asset.URL)}
		}(i, asset)
	}
	wg.Wait()

	assets := make([]domain.Asset, 0, len(results))
	for _, entry := range results {
		if entry.ok {
			assets = append(assets, entry.asset)
		}
	}
	return assets, nil
}

// FallbackLink is the item's page on the provider site, shown when no asset
// survived verification.
func (p *Provider) FallbackLink(identifier string) string {
	return p.detailsBase + url.PathEscape(identifier)
}

func buildQuery(title string) string {
	languages := strings.Join(searchLanguages, " OR ")
	return fmt.Sprintf(`title:("%s") AND mediatype:(movies) AND (language:(%s))`, title, languages)
}

func isVideoFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
