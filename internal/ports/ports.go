package ports

import (
	"context"

	"SanctionsExplorer/internal/domain"
)

// FeedResolver locates the current data-file URL inside a syndication feed.
type FeedResolver interface {
	Resolve(ctx context.Context, feedURL string) (string, error)
}

// DataFetcher downloads the raw export document from a resolved URL.
type DataFetcher interface {
	Fetch(ctx context.Context, dataURL string) ([]byte, error)
}

// RecordExtractor turns a raw XML payload into flat sanction records.
type RecordExtractor interface {
	Extract(raw []byte) ([]domain.SanctionRecord, error)
}

// RecordSource hands the current record set to query and transport layers.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.SanctionRecord, error)
}
