package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"SanctionsExplorer/internal/ports"
)

const defaultTimeout = 10 * time.Second

// Error reports a failed download: transport failure, timeout, or a non-2xx
// status from the upstream server.
type Error struct {
	URL    string
	Status string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: upstream returned %s", e.URL, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPFetcher downloads export documents over a shared, long-lived client.
type HTTPFetcher struct {
	client *http.Client
}

var _ ports.DataFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; timeout defaults to 10 seconds.
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{client: client}
}

// Fetch issues a GET against the resolved URL and returns the body bytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, dataURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dataURL, nil)
	if err != nil {
		return nil, &Error{URL: dataURL, Err: err}
	}
	req.Header.Set("User-Agent", "SanctionsExplorer/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: dataURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{URL: dataURL, Status: resp.Status}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: dataURL, Err: fmt.Errorf("read body: %w", err)}
	}

	return raw, nil
}
