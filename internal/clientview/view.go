package clientview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"vinyl-collection/internal/domains/record/model"

	"github.com/rs/zerolog/log"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNotInSnapshot = errors.New("record is not in the current snapshot")
)

// View owns the client-side state. Local state is reconciled only after
// the corresponding server call returns. A View is not safe for
// concurrent use.
type View struct {
	api      CollectionAPI
	snapshot []model.Record
	filters  Filters
	sort     SortKey
	undo     *model.Fields
}

// New returns an empty view sorted by artist
func New(api CollectionAPI) *View {
	return &View{
		api:      api,
		snapshot: []model.Record{},
		filters:  Filters{Format: FormatAll},
		sort:     SortByArtist,
	}
}

// Load replaces the snapshot with the server list for the current search term
func (v *View) Load(ctx context.Context) error {
	records, err := v.api.List(ctx, v.filters.Search)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	v.snapshot = records
	return nil
}

// Snapshot returns a copy of the last fetched records
func (v *View) Snapshot() []model.Record {
	out := make([]model.Record, len(v.snapshot))
	copy(out, v.snapshot)
	return out
}

func (v *View) Filters() Filters { return v.filters }

func (v *View) Sort() SortKey { return v.sort }

// SetFilters applies new filter settings. Only a changed search term
// triggers a server re-query; the other predicates are local.
func (v *View) SetFilters(ctx context.Context, f Filters) error {
	searchChanged := f.Search != v.filters.Search
	v.filters = f
	if searchChanged {
		return v.Load(ctx)
	}
	return nil
}

func (v *View) SetSort(key SortKey) {
	v.sort = key
}

// Visible is the displayed sequence: Project over the current state
func (v *View) Visible() []model.Record {
	return Project(v.snapshot, v.filters, v.sort)
}

// Summary reports statistics over the snapshot
func (v *View) Summary() model.Summary {
	return model.Summarize(v.snapshot)
}

// PendingUndo returns the buffered deletion, if any
func (v *View) PendingUndo() *model.Fields {
	if v.undo == nil {
		return nil
	}
	f := *v.undo
	return &f
}

// RestoreUndo seeds the undo slot, e.g. from state saved by a previous process
func (v *View) RestoreUndo(f *model.Fields) {
	if f == nil {
		v.undo = nil
		return
	}
	cp := *f
	v.undo = &cp
}

// Create adds a record and appends the server copy to the snapshot
func (v *View) Create(ctx context.Context, fields model.Fields) (*model.Record, error) {
	created, err := v.api.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	v.snapshot = append(v.snapshot, *created)
	return created, nil
}

// Delete removes the record on the server, then locally, and buffers its
// content for undo. Any previously buffered deletion is discarded.
func (v *View) Delete(ctx context.Context, id int64) (*model.Record, error) {
	removed, err := v.api.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete record %d: %w", id, err)
	}

	if idx := v.indexOf(id); idx >= 0 {
		v.snapshot = append(v.snapshot[:idx], v.snapshot[idx+1:]...)
	}
	if v.undo != nil {
		log.Debug().Str("artist", v.undo.Artist).Str("title", v.undo.Title).Msg("Discarding previous undo entry")
	}
	fields := removed.Fields
	v.undo = &fields
	return removed, nil
}

// Undo re-creates the buffered record. The result has a new id.
// The buffer is kept when the create fails.
func (v *View) Undo(ctx context.Context) (*model.Record, error) {
	if v.undo == nil {
		return nil, ErrNothingToUndo
	}
	created, err := v.api.Create(ctx, *v.undo)
	if err != nil {
		return nil, fmt.Errorf("undo delete: %w", err)
	}
	v.snapshot = append(v.snapshot, *created)
	v.undo = nil
	return created, nil
}

// ToggleFavorite flips the local flag first, then asks the server. On
// failure the local flip stays in place until the next Load, so the
// snapshot can disagree with the server.
func (v *View) ToggleFavorite(ctx context.Context, id int64) (*model.Record, error) {
	idx := v.indexOf(id)
	if idx < 0 {
		return nil, ErrNotInSnapshot
	}
	next := !v.snapshot[idx].Favorite
	v.snapshot[idx].Favorite = next

	patch, err := model.NewPatch(map[string]bool{"favorite": next})
	if err != nil {
		return nil, err
	}
	updated, err := v.api.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("toggle favorite %d: %w", id, err)
	}

	if idx := v.indexOf(id); idx >= 0 {
		v.snapshot[idx] = *updated
	}
	return updated, nil
}

// Update sends a partial record and replaces the local copy with the result
func (v *View) Update(ctx context.Context, id int64, patch model.Patch) (*model.Record, error) {
	updated, err := v.api.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if idx := v.indexOf(id); idx >= 0 {
		v.snapshot[idx] = *updated
	}
	return updated, nil
}

// Export writes the full server collection, ignoring the local filters
func (v *View) Export(ctx context.Context, w io.Writer) (int, error) {
	records, err := v.api.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("export collection: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return len(records), nil
}

// Import parses an import document, sends it to bulk import and appends
// the created records. A malformed or empty document aborts before any
// request is made.
func (v *View) Import(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}
	rows, err := ParseImport(data)
	if err != nil {
		return 0, err
	}

	result, err := v.api.BulkImport(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("import collection: %w", err)
	}
	v.snapshot = append(v.snapshot, result.Items...)
	return result.ImportedCount, nil
}

func (v *View) indexOf(id int64) int {
	for i, r := range v.snapshot {
		if r.ID == id {
			return i
		}
	}
	return -1
}
