package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>FSF updates</title>
    <item>
      <title>Press release</title>
      <enclosure url="%s/press.pdf" type="application/pdf" length="100"/>
    </item>
    <item>
      <title>Full list</title>
      <enclosure url="%s/full.pdf" type="application/pdf" length="100"/>
      <enclosure url="%s/full.xml" type="application/xml" length="100"/>
      <enclosure url="%s/other.xml" type="application/xml" length="100"/>
    </item>
  </channel>
</rss>`

func TestResolveFindsFirstXMLEnclosure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, rssTemplate, "https://data.example", "https://data.example", "https://data.example", "https://data.example")
	}))
	defer server.Close()

	resolver := NewResolver(server.Client(), nil)

	href, err := resolver.Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if href != "https://data.example/full.xml" {
		t.Fatalf("unexpected href: %s", href)
	}
}

func TestResolveNoXMLEnclosure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>empty</title>
			<item><title>no attachments</title></item></channel></rss>`)
	}))
	defer server.Close()

	resolver := NewResolver(server.Client(), nil)

	_, err := resolver.Resolve(context.Background(), server.URL)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resErr.FeedURL != server.URL {
		t.Fatalf("unexpected feed url in error: %s", resErr.FeedURL)
	}
}

func TestResolveFeedFetchFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := NewResolver(server.Client(), nil)

	_, err := resolver.Resolve(context.Background(), server.URL)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resErr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause for transport failure")
	}
}
