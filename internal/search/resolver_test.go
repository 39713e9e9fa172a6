package search

import (
	"context"
	"errors"
	"testing"

	"moviesearch/internal/domain"
)

type fakeMetadataClient struct {
	enabled  bool
	resolved domain.ResolvedTitle
	found    bool
	err      error
	calls    int
}

func (f *fakeMetadataClient) Enabled() bool { return f.enabled }

func (f *fakeMetadataClient) Lookup(_ context.Context, _ string) (domain.ResolvedTitle, bool, error) {
	f.calls++
	return f.resolved, f.found, f.err
}

func TestResolveSubstitutesDissimilarTitle(t *testing.T) {
	client := &fakeMetadataClient{
		enabled: true,
		found:   true,
		resolved: domain.ResolvedTitle{
			CanonicalTitle: "Sherlock Holmes",
			CoverImageURL:  "https://img.example/poster.jpg",
		},
	}
	resolver := NewResolver(client, 90)

	title, cover := resolver.Resolve(context.Background(), "sherlok holms 1916")
	if title != "Sherlock Holmes" {
		t.Fatalf("expected canonical title, got %q", title)
	}
	if cover != "https://img.example/poster.jpg" {
		t.Fatalf("expected cover URL, got %q", cover)
	}
}

func TestResolveKeepsQueryAtThreshold(t *testing.T) {
	// "sherlock12" vs "sherlock13" scores exactly 90: one edit in ten runes.
	// The threshold is exclusive, so the user's phrasing stays.
	client := &fakeMetadataClient{
		enabled:  true,
		found:    true,
		resolved: domain.ResolvedTitle{CanonicalTitle: "sherlock13", CoverImageURL: "https://img.example/p.jpg"},
	}
	resolver := NewResolver(client, 90)

	title, cover := resolver.Resolve(context.Background(), "sherlock12")
	if title != "sherlock12" {
		t.Fatalf("query should be kept at the threshold, got %q", title)
	}
	if cover != "https://img.example/p.jpg" {
		t.Fatalf("cover should pass through even without substitution, got %q", cover)
	}
}

func TestResolveNotFoundKeepsQuery(t *testing.T) {
	client := &fakeMetadataClient{enabled: true, found: false}
	resolver := NewResolver(client, 90)

	title, cover := resolver.Resolve(context.Background(), "obscure regional film")
	if title != "obscure regional film" || cover != "" {
		t.Fatalf("miss should keep the query untouched, got %q / %q", title, cover)
	}
}

func TestResolveLookupErrorKeepsQuery(t *testing.T) {
	client := &fakeMetadataClient{enabled: true, err: errors.New("upstream down")}
	resolver := NewResolver(client, 90)

	title, cover := resolver.Resolve(context.Background(), "sholay")
	if title != "sholay" || cover != "" {
		t.Fatalf("lookup failure should keep the query untouched, got %q / %q", title, cover)
	}
}

func TestResolveDisabledClientSkipsLookup(t *testing.T) {
	client := &fakeMetadataClient{enabled: false}
	resolver := NewResolver(client, 90)

	title, cover := resolver.Resolve(context.Background(), "sholay")
	if title != "sholay" || cover != "" {
		t.Fatalf("disabled client should be a no-op, got %q / %q", title, cover)
	}
	if client.calls != 0 {
		t.Fatalf("disabled client should not be queried, got %d calls", client.calls)
	}
}

func TestResolveNilResolver(t *testing.T) {
	var resolver *Resolver
	title, cover := resolver.Resolve(context.Background(), "sholay")
	if title != "sholay" || cover != "" {
		t.Fatalf("nil resolver should keep the query untouched, got %q / %q", title, cover)
	}
}
