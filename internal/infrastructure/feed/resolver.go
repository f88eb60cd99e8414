package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"SanctionsExplorer/internal/ports"
)

const xmlEnclosureType = "application/xml"

// ResolutionError reports that the feed yielded no usable XML data link.
// It aborts the whole pipeline for the current request cycle.
type ResolutionError struct {
	FeedURL string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve feed %s: %v", e.FeedURL, e.Err)
	}
	return fmt.Sprintf("no XML data link found in feed %s", e.FeedURL)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolver finds the current export-file URL published as a feed enclosure.
type Resolver struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.FeedResolver = (*Resolver)(nil)

// NewResolver wires a feed parser; client may be nil for a default one.
func NewResolver(client *http.Client, log *slog.Logger) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "SanctionsExplorer/1.0"

	return &Resolver{parser: parser, logger: log}
}

// Resolve scans feed entries in order and returns the href of the first
// enclosure declared as application/xml. The scan stops at the first match.
func (r *Resolver) Resolve(ctx context.Context, feedURL string) (string, error) {
	parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return "", &ResolutionError{FeedURL: feedURL, Err: err}
	}

	for _, item := range parsed.Items {
		for _, enc := range item.Enclosures {
			if enc == nil || enc.Type != xmlEnclosureType || enc.URL == "" {
				continue
			}
			r.debug("resolved data link", "feed", feedURL, "href", enc.URL)
			return enc.URL, nil
		}
	}

	return "", &ResolutionError{FeedURL: feedURL}
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
