package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchReturnsBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		_, _ = w.Write([]byte("<export/>"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), 0)

	raw, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(raw) != "<export/>" {
		t.Fatalf("unexpected body: %q", raw)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), 0)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected fetch.Error, got %v", err)
	}
	if fetchErr.Status == "" {
		t.Fatalf("expected status in error, got %v", fetchErr)
	}
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := server.Client()
	client.Timeout = 20 * time.Millisecond
	fetcher := NewHTTPFetcher(client, 0)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected fetch.Error, got %v", err)
	}
	if fetchErr.Unwrap() == nil {
		t.Fatalf("expected wrapped transport cause")
	}
}
