package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestDoSetsIdentifyingHeader(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(Config{UserAgent: "test-agent/1.0", Transport: http.DefaultTransport})
	result, err := client.Get(context.Background(), server.URL, nil, nil, 2*time.Second)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAgent != "test-agent/1.0" {
		t.Fatalf("user agent = %q", gotAgent)
	}
	if !result.OK() || string(result.Body) != "ok" {
		t.Fatalf("result = %#v", result)
	}
}

func TestDoMergesQueryParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
	}))
	defer server.Close()

	client := NewClient(Config{Transport: http.DefaultTransport})
	_, err := client.Get(context.Background(), server.URL+"?page=1", url.Values{
		"q":    {"sholay"},
		"fl[]": {"identifier", "title"},
	}, nil, 2*time.Second)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotQuery.Get("page") != "1" || gotQuery.Get("q") != "sholay" {
		t.Fatalf("query = %v", gotQuery)
	}
	if fields := gotQuery["fl[]"]; len(fields) != 2 {
		t.Fatalf("fl[] = %v", fields)
	}
}

func TestDoNonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{Transport: http.DefaultTransport})
	result, err := client.Get(context.Background(), server.URL, nil, nil, 2*time.Second)
	if err != nil {
		t.Fatalf("expected no error for 404, got %v", err)
	}
	if result.OK() || result.Status != http.StatusNotFound {
		t.Fatalf("status = %d", result.Status)
	}
}

func TestDoTimeoutKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(Config{Transport: http.DefaultTransport})
	_, err := client.Get(context.Background(), server.URL, nil, nil, 30*time.Millisecond)
	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fetchErr.Kind != KindTimeout {
		t.Fatalf("kind = %s", fetchErr.Kind)
	}
}

func TestDoNetworkKind(t *testing.T) {
	client := NewClient(Config{Transport: http.DefaultTransport})
	_, err := client.Get(context.Background(), "http://127.0.0.1:1", nil, nil, 2*time.Second)
	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fetchErr.Kind != KindNetwork {
		t.Fatalf("kind = %s", fetchErr.Kind)
	}
}

func TestHeadDoesNotReadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{Transport: http.DefaultTransport})
	result, err := client.Head(context.Background(), server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if !result.OK() || len(result.Body) != 0 {
		t.Fatalf("result = %#v", result)
	}
}
