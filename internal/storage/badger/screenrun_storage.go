package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/annscreen/internal/models"
)

// ScreenRunStorage implements interfaces.ScreenRunStore.
type ScreenRunStorage struct {
	store *Store
}

// NewScreenRunStorage creates screen-run storage over a shared store.
func NewScreenRunStorage(store *Store) *ScreenRunStorage {
	return &ScreenRunStorage{store: store}
}

func (r *ScreenRunStorage) SaveRun(_ context.Context, run *models.ScreenRun) error {
	if err := r.store.db.Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save screen run %s: %w", run.ID, err)
	}
	r.store.logger.Debug().Str("run_id", run.ID).Msg("Screen run saved")
	return nil
}

func (r *ScreenRunStorage) GetRun(_ context.Context, id string) (*models.ScreenRun, error) {
	var run models.ScreenRun
	if err := r.store.db.Get(id, &run); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("no screen run with id %s", id)
		}
		return nil, fmt.Errorf("failed to get screen run %s: %w", id, err)
	}
	return &run, nil
}

func (r *ScreenRunStorage) ListRuns(_ context.Context) ([]*models.ScreenRun, error) {
	var all []models.ScreenRun
	if err := r.store.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list screen runs: %w", err)
	}
	list := make([]*models.ScreenRun, len(all))
	for i := range all {
		list[i] = &all[i]
	}
	sort.Slice(list, func(i, j int) bool { return list[i].GeneratedAt.After(list[j].GeneratedAt) })
	return list, nil
}
