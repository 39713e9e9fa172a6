// Package search holds the aggregation core: title resolution, the
// concurrent provider fan-out, asset expansion, and response assembly.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"moviesearch/internal/domain"
	"moviesearch/internal/metrics"
)

var (
	ErrInvalidQuery = errors.New("query is required")
	ErrNoProviders  = errors.New("no search providers configured")
	// ErrNoResults is the explicit all-providers-empty outcome. It reaches the
	// requester as a message, never as a system error.
	ErrNoResults = errors.New("no results found")
)

// Provider is one external content source. A provider failure yields empty
// results for that provider only; it never aborts the whole query.
type Provider interface {
	Name() string
	Source() domain.SourceKind
	Info() domain.ProviderInfo
	Search(ctx context.Context, title string) ([]domain.Candidate, error)
}

// AssetExpander is an optional interface for providers whose candidates must
// be resolved into verified downloadable assets before presentation.
type AssetExpander interface {
	ExpandAssets(ctx context.Context, candidate domain.Candidate) ([]domain.Asset, error)
	FallbackLink(identifier string) string
}

const (
	defaultTimeout          = 25 * time.Second
	defaultMaxItems         = 5
	defaultMaxAssetsPerItem = 3
)

// Service runs the whole query pipeline. Providers keep their constructor
// order throughout: it is the fixed source priority (archive before clip),
// and final item order never depends on which provider finished first.
type Service struct {
	providers []Provider
	resolver  *Resolver
	timeout   time.Duration
	maxItems  int
	maxAssets int

	healthMu sync.Mutex
	health   map[string]*providerHealth
}

type ServiceOption func(*Service)

func WithTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithMaxItems(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.maxItems = limit
		}
	}
}

func WithMaxAssetsPerItem(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.maxAssets = limit
		}
	}
}

func NewService(providers []Provider, resolver *Resolver, opts ...ServiceOption) *Service {
	kept := make([]Provider, 0, len(providers))
	for _, provider := range providers {
		if provider != nil {
			kept = append(kept, provider)
		}
	}
	svc := &Service{
		providers: kept,
		resolver:  resolver,
		timeout:   defaultTimeout,
		maxItems:  defaultMaxItems,
		maxAssets: defaultMaxAssetsPerItem,
		health:    make(map[string]*providerHealth),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) Providers() []domain.ProviderInfo {
	items := make([]domain.ProviderInfo, 0, len(s.providers))
	for _, provider := range s.providers {
		info := provider.Info()
		if info.Name == "" {
			info.Name = strings.ToLower(strings.TrimSpace(provider.Name()))
		}
		if info.Label == "" {
			info.Label = info.Name
		}
		items = append(items, info)
	}
	return items
}

// HandleQuery runs one query through resolution, fan-out, expansion and
// assembly. Anything unexpected below this boundary degrades to ErrNoResults;
// the requester always receives a reply.
func (s *Service) HandleQuery(ctx context.Context, rawQuery string) (model domain.ResponseModel, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("query pipeline panic",
				slog.String("query", truncateQuery(rawQuery)),
				slog.Any("error", recovered),
			)
			model = domain.ResponseModel{}
			err = ErrNoResults
		}
	}()

	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return domain.ResponseModel{}, ErrInvalidQuery
	}
	if len(s.providers) == 0 {
		return domain.ResponseModel{}, ErrNoProviders
	}

	runCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	startedAt := time.Now()
	workingTitle, coverURL := s.resolver.Resolve(runCtx, query)

	candidatesByProvider, statuses := s.fanOut(runCtx, workingTitle)

	type merged struct {
		candidate domain.Candidate
		provider  Provider
	}
	capped := make([]merged, 0, s.maxItems)
	for i, items := range candidatesByProvider {
		for _, candidate := range items {
			if len(capped) >= s.maxItems {
				break
			}
			capped = append(capped, merged{candidate: candidate, provider: s.providers[i]})
		}
	}

	if len(capped) == 0 {
		metrics.SearchesTotal.WithLabelValues("no_results").Inc()
		slog.Info("search yielded no results",
			slog.String("query", truncateQuery(query)),
			slog.String("workingTitle", truncateQuery(workingTitle)),
			slog.Int64("elapsedMs", time.Since(startedAt).Milliseconds()),
		)
		return domain.ResponseModel{}, ErrNoResults
	}

	items := make([]domain.PresentableItem, 0, len(capped))
	for _, entry := range capped {
		items = append(items, s.present(runCtx, entry.candidate, entry.provider))
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	failed := 0
	for _, status := range statuses {
		if !status.OK {
			failed++
		}
	}
	slog.Info("search completed",
		slog.String("query", truncateQuery(query)),
		slog.String("workingTitle", truncateQuery(workingTitle)),
		slog.Int("items", len(items)),
		slog.Int("failedProviders", failed),
		slog.Int64("elapsedMs", time.Since(startedAt).Milliseconds()),
	)

	return domain.ResponseModel{
		Query:         query,
		DisplayTitle:  workingTitle,
		CoverImageURL: coverURL,
		Items:         items,
		Providers:     statuses,
		ElapsedMS:     time.Since(startedAt).Milliseconds(),
	}, nil
}

// fanOut queries every provider concurrently. Results are joined by provider
// index, not by arrival, so ordering stays deterministic.
func (s *Service) fanOut(ctx context.Context, title string) ([][]domain.Candidate, []domain.ProviderStatus) {
	results := make([][]domain.Candidate, len(s.providers))
	statuses := make([]domain.ProviderStatus, len(s.providers))

	var wg sync.WaitGroup
	for i, provider := range s.providers {
		wg.Add(1)
		go func(index int, current Provider) {
			defer wg.Done()
			defer func() {
				if recovered := recover(); recovered != nil {
					slog.Error("provider search panic",
						slog.String("provider", current.Name()),
						slog.Any("error", recovered),
					)
					statuses[index] = domain.ProviderStatus{
						Name:  strings.ToLower(strings.TrimSpace(current.Name())),
						OK:    false,
						Error: "provider panic",
					}
				}
			}()

			startedAt := time.Now()
			items, searchErr := current.Search(ctx, title)
			s.recordProviderResult(current.Name(), title, searchErr, time.Since(startedAt), time.Now())

			status := domain.ProviderStatus{
				Name:  strings.ToLower(strings.TrimSpace(current.Name())),
				OK:    searchErr == nil,
				Count: len(items),
			}
			if searchErr != nil {
				status.Error = searchErr.Error()
				slog.Warn("provider search failed",
					slog.String("provider", status.Name),
					slog.String("title", truncateQuery(title)),
					slog.String("error", searchErr.Error()),
				)
				items = nil
			}
			results[index] = items
			statuses[index] = status
		}(i, provider)
	}
	wg.Wait()

	return results, statuses
}

// present turns one surviving candidate into its final shape. Archive
// candidates are expanded into verified assets; when nothing survives
// verification the item keeps a fallback link to the provider's page rather
// than being dropped.
func (s *Service) present(ctx context.Context, candidate domain.Candidate, provider Provider) domain.PresentableItem {
	if candidate.Source != domain.SourceArchive {
		return domain.PresentableItem{
			Kind:  candidate.Source,
			Title: candidate.Title,
			Link:  candidate.DirectLink,
		}
	}

	item := domain.PresentableItem{
		Kind:  domain.SourceArchive,
		Title: candidate.Title,
	}
	expander, ok := provider.(AssetExpander)
	if !ok {
		return item
	}

	assets, err := expander.ExpandAssets(ctx, candidate)
	if err != nil {
		slog.Warn("asset expansion failed",
			slog.String("provider", provider.Name()),
			slog.String("identifier", candidate.Identifier),
			slog.String("error", err.Error()),
		)
		assets = nil
	}
	if len(assets) > s.maxAssets {
		assets = assets[:s.maxAssets]
	}
	if len(assets) == 0 {
		item.FallbackLink = expander.FallbackLink(candidate.Identifier)
		return item
	}
	item.Assets = assets
	return item
}

func truncateQuery(value string) string {
	const limit = 80
	if len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
