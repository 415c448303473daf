package repository

import (
	"context"

	"vinyl-collection/internal/domains/record/model"
)

// RepositoryInterface - data access over the collection document.
// Each mutating call is one full read-modify-write of the document.
type RepositoryInterface interface {
	List(ctx context.Context) ([]model.Record, error)
	GetByID(ctx context.Context, id int64) (*model.Record, error)

	// Create assigns id = max(existing ids, ids already issued, 0) + 1
	Create(ctx context.Context, fields model.Fields) (*model.Record, error)

	// Update loads the record, hands it to merge and stores the result.
	// The id of the merged record is forced back to id.
	Update(ctx context.Context, id int64, merge func(model.Record) (model.Record, error)) (*model.Record, error)

	Delete(ctx context.Context, id int64) (*model.Record, error)

	// CreateMany appends all fields with one running id counter and one write
	CreateMany(ctx context.Context, batch []model.Fields) ([]model.Record, error)
}
