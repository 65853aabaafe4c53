package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/annscreen/internal/models"
)

// PeriodStorage implements interfaces.PeriodStore.
type PeriodStorage struct {
	store *Store
}

// NewPeriodStorage creates period storage over a shared store.
func NewPeriodStorage(store *Store) *PeriodStorage {
	return &PeriodStorage{store: store}
}

func (p *PeriodStorage) SaveSeries(_ context.Context, series *models.EntitySeries) error {
	if err := p.store.db.Upsert(series.EntityID, series); err != nil {
		return fmt.Errorf("failed to save series for entity %d: %w", series.EntityID, err)
	}
	p.store.logger.Debug().
		Int64("entity", series.EntityID).
		Int("periods", len(series.Periods)).
		Msg("Series saved")
	return nil
}

func (p *PeriodStorage) GetSeries(_ context.Context, entityID int64) (*models.EntitySeries, error) {
	var series models.EntitySeries
	if err := p.store.db.Get(entityID, &series); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("no series for entity %d", entityID)
		}
		return nil, fmt.Errorf("failed to get series for entity %d: %w", entityID, err)
	}
	return &series, nil
}

func (p *PeriodStorage) ListSeries(_ context.Context) ([]*models.EntitySeries, error) {
	var all []models.EntitySeries
	if err := p.store.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	list := make([]*models.EntitySeries, len(all))
	for i := range all {
		list[i] = &all[i]
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EntityID < list[j].EntityID })
	return list, nil
}

func (p *PeriodStorage) DeleteSeries(_ context.Context, entityID int64) error {
	if err := p.store.db.Delete(entityID, models.EntitySeries{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete series for entity %d: %w", entityID, err)
	}
	return nil
}
