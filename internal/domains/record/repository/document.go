package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"vinyl-collection/internal/domains/record/model"
	"vinyl-collection/internal/infrastructure/docstore"
)

// DocumentRepository stores every record in one JSON array document.
// Ids are max+1 over the document, but never below the highest id this
// process already handed out, so deleting the newest record does not
// free its id for reuse.
type DocumentRepository struct {
	store docstore.Store

	mu        sync.Mutex
	highWater int64
}

var _ RepositoryInterface = (*DocumentRepository)(nil)

func NewDocumentRepository(store docstore.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func decodeDocument(data []byte) ([]model.Record, error) {
	if len(data) == 0 {
		return []model.Record{}, nil
	}
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDocumentCorrupt, err)
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func encodeDocument(records []model.Record) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}

func nextID(records []model.Record) int64 {
	var max int64
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// reserveIDs returns the first of n consecutive ids. Called inside the
// store's Update so the document cannot change underneath it.
func (r *DocumentRepository) reserveIDs(records []model.Record, n int) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	first := nextID(records)
	if first <= r.highWater {
		first = r.highWater + 1
	}
	if last := first + int64(n) - 1; last > r.highWater {
		r.highWater = last
	}
	return first
}

func indexOf(records []model.Record, id int64) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// mutate runs fn inside one locked read-modify-write cycle
func (r *DocumentRepository) mutate(ctx context.Context, fn func([]model.Record) ([]model.Record, error)) error {
	err := r.store.Update(ctx, func(current []byte) ([]byte, error) {
		records, err := decodeDocument(current)
		if err != nil {
			return nil, err
		}
		next, err := fn(records)
		if err != nil {
			return nil, err
		}
		return encodeDocument(next)
	})
	return err
}

func (r *DocumentRepository) List(ctx context.Context) ([]model.Record, error) {
	data, err := r.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDocumentRead, err)
	}
	return decodeDocument(data)
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*model.Record, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return nil, model.ErrRecordNotFound
	}
	found := records[idx]
	return &found, nil
}

func (r *DocumentRepository) Create(ctx context.Context, fields model.Fields) (*model.Record, error) {
	var created model.Record
	err := r.mutate(ctx, func(records []model.Record) ([]model.Record, error) {
		created = model.Record{ID: r.reserveIDs(records, 1), Fields: fields}
		return append(records, created), nil
	})
	if err != nil {
		return nil, wrapWrite(err)
	}
	return &created, nil
}

func (r *DocumentRepository) Update(ctx context.Context, id int64, merge func(model.Record) (model.Record, error)) (*model.Record, error) {
	var updated model.Record
	err := r.mutate(ctx, func(records []model.Record) ([]model.Record, error) {
		idx := indexOf(records, id)
		if idx < 0 {
			return nil, model.ErrRecordNotFound
		}
		merged, err := merge(records[idx])
		if err != nil {
			return nil, err
		}
		merged.ID = id
		records[idx] = merged
		updated = merged
		return records, nil
	})
	if err != nil {
		return nil, wrapWrite(err)
	}
	return &updated, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id int64) (*model.Record, error) {
	var removed model.Record
	err := r.mutate(ctx, func(records []model.Record) ([]model.Record, error) {
		idx := indexOf(records, id)
		if idx < 0 {
			return nil, model.ErrRecordNotFound
		}
		removed = records[idx]
		return append(records[:idx], records[idx+1:]...), nil
	})
	if err != nil {
		return nil, wrapWrite(err)
	}
	return &removed, nil
}

func (r *DocumentRepository) CreateMany(ctx context.Context, batch []model.Fields) ([]model.Record, error) {
	created := make([]model.Record, 0, len(batch))
	err := r.mutate(ctx, func(records []model.Record) ([]model.Record, error) {
		created = created[:0]
		id := r.reserveIDs(records, len(batch))
		for _, fields := range batch {
			rec := model.Record{ID: id, Fields: fields}
			id++
			records = append(records, rec)
			created = append(created, rec)
		}
		return records, nil
	})
	if err != nil {
		return nil, wrapWrite(err)
	}
	return created, nil
}
