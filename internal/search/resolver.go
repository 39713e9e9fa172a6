package search

import (
	"context"
	"log/slog"

	"moviesearch/internal/domain"
	"moviesearch/internal/metrics"
)

// MetadataClient is the title-correction side of the metadata provider.
// found=false means the provider had no match, which is a tolerated outcome.
type MetadataClient interface {
	Enabled() bool
	Lookup(ctx context.Context, title string) (domain.ResolvedTitle, bool, error)
}

const defaultSimilarityThreshold = 90

// Resolver decides the working title for a query. The canonical title
// replaces the query only when the two are dissimilar (ratio below the
// threshold); when they are already close the user's own phrasing wins.
type Resolver struct {
	client    MetadataClient
	threshold int
}

func NewResolver(client MetadataClient, threshold int) *Resolver {
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}
	return &Resolver{client: client, threshold: threshold}
}

// Resolve returns the working title and the cover image URL (empty when
// absent). Provider failure and provider-side misses both leave the original
// query untouched; neither is an error.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, string) {
	if r == nil || r.client == nil || !r.client.Enabled() {
		return query, ""
	}

	resolved, found, err := r.client.Lookup(ctx, query)
	if err != nil {
		slog.Debug("title resolution skipped",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return query, ""
	}
	if !found {
		return query, ""
	}

	working := query
	score := SimilarityRatio(resolved.CanonicalTitle, query)
	if score < r.threshold {
		working = resolved.CanonicalTitle
		metrics.TitleCorrectionsTotal.Inc()
		slog.Debug("title corrected",
			slog.String("query", query),
			slog.String("canonical", resolved.CanonicalTitle),
			slog.Int("similarity", score),
		)
	}
	return working, resolved.CoverImageURL
}
