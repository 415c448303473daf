package service

import (
	"context"

	"vinyl-collection/internal/domains/record/model"
	"vinyl-collection/internal/domains/record/repository"
	"vinyl-collection/internal/infrastructure/metrics"

	"github.com/rs/zerolog/log"
)

type bulkImportService struct {
	repo    repository.RepositoryInterface
	metrics *metrics.Metrics
}

// NewBulkImportService creates the bulk import service
func NewBulkImportService(repo repository.RepositoryInterface, m *metrics.Metrics) BulkImportServiceInterface {
	return &bulkImportService{repo: repo, metrics: m}
}

// ImportRecords skips rows without artist or title and persists the rest
// in a single write. A bad row never fails the batch.
func (s *bulkImportService) ImportRecords(ctx context.Context, candidates []model.Candidate) (*model.BulkImportResult, error) {
	log.Info().Int("total_rows", len(candidates)).Msg("Starting bulk import")

	accepted := make([]model.Fields, 0, len(candidates))
	for i, c := range candidates {
		fields, ok := c.ToFields()
		if !ok {
			log.Debug().Int("row", i).Msg("Skipping row without artist/title")
			continue
		}
		accepted = append(accepted, fields)
	}

	created, err := s.repo.CreateMany(ctx, accepted)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("total_rows", len(candidates)).
		Int("imported", len(created)).
		Int("skipped", len(candidates)-len(created)).
		Msg("Bulk import completed")
	s.metrics.RecordMutation("bulk_import", len(created))

	return &model.BulkImportResult{
		ImportedCount: len(created),
		Items:         created,
	}, nil
}
