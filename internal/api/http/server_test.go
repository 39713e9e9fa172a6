package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moviesearch/internal/domain"
	"moviesearch/internal/search"
)

type fakeSearchService struct {
	lastQuery string
	callCount int
	err       error
}

func (f *fakeSearchService) HandleQuery(_ context.Context, query string) (domain.ResponseModel, error) {
	f.callCount++
	f.lastQuery = query
	if f.err != nil {
		return domain.ResponseModel{}, f.err
	}
	return domain.ResponseModel{
		Query:        query,
		DisplayTitle: query,
		Items: []domain.PresentableItem{
			{Kind: domain.SourceClip, Title: query + " clip", Link: "https://clips.example/1.mp4"},
		},
		Providers: []domain.ProviderStatus{
			{Name: "archive", OK: true, Count: 0},
			{Name: "clips", OK: true, Count: 1},
		},
		ElapsedMS: 3,
	}, nil
}

func (f *fakeSearchService) Providers() []domain.ProviderInfo {
	return []domain.ProviderInfo{
		{Name: "archive", Label: "Internet Archive", Kind: "archive", Enabled: true},
		{Name: "clips", Label: "Pexels Clips", Kind: "clip", Enabled: true},
	}
}

func (f *fakeSearchService) ProviderDiagnostics() []domain.ProviderDiagnostics {
	return []domain.ProviderDiagnostics{
		{Name: "archive", Label: "Internet Archive", Kind: "archive", Enabled: true},
		{Name: "clips", Label: "Pexels Clips", Kind: "clip", Enabled: true},
	}
}

func newTestServer(t *testing.T, service SearchService) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(service).Handler())
	t.Cleanup(server.Close)
	return server
}

func TestHandleSearchOK(t *testing.T) {
	service := &fakeSearchService{}
	ts := newTestServer(t, service)

	res, err := http.Get(ts.URL + "/search?q=sholay")
	if err != nil {
		t.Fatalf("GET /search: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var payload domain.ResponseModel
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Query != "sholay" || len(payload.Items) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if service.lastQuery != "sholay" {
		t.Fatalf("service saw query %q", service.lastQuery)
	}
}

func TestHandleSearchMissingQuery(t *testing.T) {
	service := &fakeSearchService{}
	ts := newTestServer(t, service)

	res, err := http.Get(ts.URL + "/search")
	if err != nil {
		t.Fatalf("GET /search: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if service.callCount != 0 {
		t.Fatalf("service should not be called without a query")
	}
}

func TestHandleSearchQueryTooLong(t *testing.T) {
	ts := newTestServer(t, &fakeSearchService{})

	res, err := http.Get(ts.URL + "/search?q=" + strings.Repeat("a", 501))
	if err != nil {
		t.Fatalf("GET /search: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestHandleSearchErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "no results", err: search.ErrNoResults, wantStatus: http.StatusNotFound, wantCode: "no_results"},
		{name: "no providers", err: search.ErrNoProviders, wantStatus: http.StatusServiceUnavailable, wantCode: "service_unavailable"},
		{name: "invalid query", err: search.ErrInvalidQuery, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, &fakeSearchService{err: tc.err})

			res, err := http.Get(ts.URL + "/search?q=sholay")
			if err != nil {
				t.Fatalf("GET /search: %v", err)
			}
			defer res.Body.Close()
			if res.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, res.StatusCode)
			}

			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
				t.Fatalf("decode error payload: %v", err)
			}
			if payload.Error.Code != tc.wantCode {
				t.Fatalf("expected error code %q, got %q", tc.wantCode, payload.Error.Code)
			}
		})
	}
}

func TestHandleSearchMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &fakeSearchService{})

	res, err := http.Post(ts.URL+"/search?q=sholay", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.StatusCode)
	}
}

func TestHandleProviders(t *testing.T) {
	ts := newTestServer(t, &fakeSearchService{})

	res, err := http.Get(ts.URL + "/search/providers")
	if err != nil {
		t.Fatalf("GET /search/providers: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var payload struct {
		Providers []domain.ProviderInfo `json:"providers"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode providers: %v", err)
	}
	if len(payload.Providers) != 2 || payload.Providers[0].Name != "archive" {
		t.Fatalf("unexpected providers payload: %+v", payload.Providers)
	}
}

func TestHandleProvidersHealth(t *testing.T) {
	ts := newTestServer(t, &fakeSearchService{})

	res, err := http.Get(ts.URL + "/search/providers/health")
	if err != nil {
		t.Fatalf("GET /search/providers/health: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var payload struct {
		Providers []domain.ProviderDiagnostics `json:"providers"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}
	if len(payload.Providers) != 2 {
		t.Fatalf("expected 2 diagnostics entries, got %d", len(payload.Providers))
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, &fakeSearchService{})

	res, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, &fakeSearchService{})

	res, err := http.Get(ts.URL + "/search/unknown")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}
