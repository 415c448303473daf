package service

import (
	"context"
	"strings"
	"time"

	"vinyl-collection/internal/domains/catalog/discogs"
	"vinyl-collection/internal/domains/catalog/model"
	"vinyl-collection/internal/infrastructure/metrics"
	"vinyl-collection/pkg/cache"

	"github.com/rs/zerolog/log"
)

// ServiceInterface - catalog lookup. Never touches the record store.
type ServiceInterface interface {
	Search(ctx context.Context, artist, title string) ([]model.Hit, error)
}

type LookupService struct {
	searcher discogs.Searcher
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

var _ ServiceInterface = (*LookupService)(nil)

// NewLookupService - searcher is nil when no token is configured;
// cache may be nil to disable caching.
func NewLookupService(searcher discogs.Searcher, c cache.Cache, cacheTTL time.Duration, m *metrics.Metrics) *LookupService {
	return &LookupService{
		searcher: searcher,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

// Search queries the catalog with whichever terms are present. One attempt, no retry.
func (s *LookupService) Search(ctx context.Context, artist, title string) ([]model.Hit, error) {
	q := model.Query{
		Artist: strings.TrimSpace(artist),
		Title:  strings.TrimSpace(title),
	}
	if q.IsEmpty() {
		return nil, model.ErrMissingQuery
	}
	if s.searcher == nil {
		return nil, model.ErrTokenNotConfigured
	}

	if hits, ok := s.cached(ctx, q); ok {
		s.metrics.RecordCatalogLookup("cached")
		return hits, nil
	}

	resp, err := s.searcher.Search(ctx, q)
	if err != nil {
		s.metrics.RecordCatalogLookup("error")
		return nil, err
	}

	hits := discogs.NormalizeResults(resp)
	if len(hits) == 0 {
		s.metrics.RecordCatalogLookup("miss")
	} else {
		s.metrics.RecordCatalogLookup("hit")
	}
	s.store(ctx, q, hits)

	log.Info().
		Str("artist", q.Artist).
		Str("title", q.Title).
		Int("results", len(hits)).
		Msg("Catalog lookup completed")
	return hits, nil
}

func (s *LookupService) cached(ctx context.Context, q model.Query) ([]model.Hit, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	var hits []model.Hit
	found, err := s.cache.Get(ctx, q.CacheKey(), &hits)
	if err != nil {
		log.Warn().Err(err).Str("key", q.CacheKey()).Msg("Catalog cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	if hits == nil {
		hits = []model.Hit{}
	}
	return hits, true
}

func (s *LookupService) store(ctx context.Context, q model.Query, hits []model.Hit) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, q.CacheKey(), hits, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", q.CacheKey()).Msg("Catalog cache write failed")
	}
}
