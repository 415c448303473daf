package service

import (
	"context"
	"io"

	"vinyl-collection/internal/domains/record/model"
)

// ServiceInterface - collection business logic
type ServiceInterface interface {
	ListRecords(ctx context.Context, search string) ([]model.Record, error)
	GetRecord(ctx context.Context, id int64) (*model.Record, error)
	CreateRecord(ctx context.Context, fields model.Fields) (*model.Record, error)
	UpdateRecord(ctx context.Context, id int64, patch model.Patch) (*model.Record, error)
	DeleteRecord(ctx context.Context, id int64) (*model.Record, error)
	Summary(ctx context.Context) (*model.Summary, error)
	Export(ctx context.Context, format string, w io.Writer) (contentType string, err error)
}

// BulkImportServiceInterface - best-effort import of loosely-typed rows
type BulkImportServiceInterface interface {
	ImportRecords(ctx context.Context, candidates []model.Candidate) (*model.BulkImportResult, error)
}
