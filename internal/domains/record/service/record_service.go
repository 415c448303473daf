package service

import (
	"context"
	"strings"

	"vinyl-collection/internal/domains/record/model"
	"vinyl-collection/internal/domains/record/repository"
	"vinyl-collection/internal/infrastructure/metrics"

	"github.com/rs/zerolog/log"
)

type RecordService struct {
	repo    repository.RepositoryInterface
	metrics *metrics.Metrics
}

var _ ServiceInterface = (*RecordService)(nil)

// NewRecordService - metrics may be nil
func NewRecordService(repo repository.RepositoryInterface, m *metrics.Metrics) *RecordService {
	return &RecordService{repo: repo, metrics: m}
}

// ListRecords returns every record, or those whose artist/title/notes contain search
func (s *RecordService) ListRecords(ctx context.Context, search string) ([]model.Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.TrimSpace(search)
	if search == "" {
		return records, nil
	}

	filtered := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.Matches(search) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *RecordService) GetRecord(ctx context.Context, id int64) (*model.Record, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateRecord validates, defaults and persists a new record
func (s *RecordService) CreateRecord(ctx context.Context, fields model.Fields) (*model.Record, error) {
	fields.ApplyDefaults()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("id", created.ID).
		Str("artist", created.Artist).
		Str("title", created.Title).
		Msg("Record created")
	s.metrics.RecordMutation("create", 1)
	return created, nil
}

// UpdateRecord shallow-merges patch onto the stored record. An empty
// patch returns the stored record without writing.
func (s *RecordService) UpdateRecord(ctx context.Context, id int64, patch model.Patch) (*model.Record, error) {
	if len(patch) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, func(existing model.Record) (model.Record, error) {
		return existing.Merge(patch)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("id", id).Int("fields", len(patch)).Msg("Record updated")
	s.metrics.RecordMutation("update", 1)
	return updated, nil
}

// DeleteRecord removes the record and returns it so callers can offer undo
func (s *RecordService) DeleteRecord(ctx context.Context, id int64) (*model.Record, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("id", id).Msg("Record deleted")
	s.metrics.RecordMutation("delete", 1)
	return removed, nil
}

func (s *RecordService) Summary(ctx context.Context) (*model.Summary, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := model.Summarize(records)
	return &summary, nil
}
