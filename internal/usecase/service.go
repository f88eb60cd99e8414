package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"SanctionsExplorer/internal/cache"
	"SanctionsExplorer/internal/domain"
	"SanctionsExplorer/internal/metrics"
	"SanctionsExplorer/internal/ports"
)

// ServiceDeps wires the driven adapters into the pipeline.
type ServiceDeps struct {
	Resolver  ports.FeedResolver
	Fetcher   ports.DataFetcher
	Extractor ports.RecordExtractor
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Clock     func() time.Time
}

// Service runs the resolve -> fetch -> extract pipeline behind two TTL
// caches: the raw payload keyed on the feed URL, the record set keyed on a
// digest of the payload. A change in the resolved data URL within the TTL
// window is deliberately not observed until expiry.
type Service struct {
	feedURL   string
	resolver  ports.FeedResolver
	fetcher   ports.DataFetcher
	extractor ports.RecordExtractor
	logger    *slog.Logger
	metrics   *metrics.Metrics

	payload *cache.Cache[[]byte]
	records *cache.Cache[[]domain.SanctionRecord]
}

var _ ports.RecordSource = (*Service)(nil)

// NewService constructs the pipeline with both caches sharing ttl.
func NewService(feedURL string, ttl time.Duration, deps ServiceDeps) *Service {
	s := &Service{
		feedURL:   feedURL,
		resolver:  deps.Resolver,
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}

	var payloadOpts []cache.Option[[]byte]
	var recordOpts []cache.Option[[]domain.SanctionRecord]
	if deps.Clock != nil {
		payloadOpts = append(payloadOpts, cache.WithClock[[]byte](deps.Clock))
		recordOpts = append(recordOpts, cache.WithClock[[]domain.SanctionRecord](deps.Clock))
	}
	if deps.Metrics != nil {
		payloadOpts = append(payloadOpts, cache.WithStats[[]byte](
			func() { deps.Metrics.CacheHits.WithLabelValues("payload").Inc() },
			func() { deps.Metrics.CacheMisses.WithLabelValues("payload").Inc() },
		))
		recordOpts = append(recordOpts, cache.WithStats[[]domain.SanctionRecord](
			func() { deps.Metrics.CacheHits.WithLabelValues("records").Inc() },
			func() { deps.Metrics.CacheMisses.WithLabelValues("records").Inc() },
		))
	}

	s.payload = cache.New[[]byte](ttl, payloadOpts...)
	s.records = cache.New[[]domain.SanctionRecord](ttl, recordOpts...)
	return s
}

// Records returns the current record set, reusing cached payload and parse
// results within the TTL window. Any stage failure aborts the request and
// surfaces the typed error of that stage.
func (s *Service) Records(ctx context.Context) ([]domain.SanctionRecord, error) {
	raw, err := s.payload.GetOrCompute(s.feedURL, func() ([]byte, error) {
		dataURL, err := s.resolver.Resolve(ctx, s.feedURL)
		if err != nil {
			s.countError("resolve")
			return nil, err
		}

		body, err := s.fetcher.Fetch(ctx, dataURL)
		if err != nil {
			s.countError("fetch")
			return nil, err
		}

		if s.metrics != nil {
			s.metrics.PayloadFetches.Inc()
		}
		s.debug("downloaded sanctions payload", "url", dataURL, "bytes", len(body))
		return body, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load payload: %w", err)
	}

	digest := sha256.Sum256(raw)
	key := hex.EncodeToString(digest[:])

	records, err := s.records.GetOrCompute(key, func() ([]domain.SanctionRecord, error) {
		start := time.Now()
		extracted, err := s.extractor.Extract(raw)
		if err != nil {
			s.countError("extract")
			return nil, err
		}

		if s.metrics != nil {
			s.metrics.ObserveExtract(start)
		}
		s.debug("extracted sanction records", "count", len(extracted))
		return extracted, nil
	})
	if err != nil {
		return nil, fmt.Errorf("extract records: %w", err)
	}

	return records, nil
}

func (s *Service) countError(stage string) {
	if s.metrics != nil {
		s.metrics.PipelineErrors.WithLabelValues(stage).Inc()
	}
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
