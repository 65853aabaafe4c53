package interfaces

import (
	"context"

	"github.com/bobmcallan/annscreen/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	PeriodStore() PeriodStore
	MappingStore() MappingStore
	ScreenRunStore() ScreenRunStore

	// Lifecycle
	Close() error
}

// PeriodStore persists canonical per-entity annual series.
type PeriodStore interface {
	SaveSeries(ctx context.Context, series *models.EntitySeries) error
	GetSeries(ctx context.Context, entityID int64) (*models.EntitySeries, error)
	ListSeries(ctx context.Context) ([]*models.EntitySeries, error)
	DeleteSeries(ctx context.Context, entityID int64) error
}

// MappingStore persists entity display-identifier mappings.
type MappingStore interface {
	SaveMappings(ctx context.Context, infos []models.EntityDisplayInfo) error
	GetMapping(ctx context.Context, entityID int64) (*models.EntityDisplayInfo, error)
}

// ScreenRunStore persists completed screen runs for audit.
type ScreenRunStore interface {
	SaveRun(ctx context.Context, run *models.ScreenRun) error
	GetRun(ctx context.Context, id string) (*models.ScreenRun, error)
	ListRuns(ctx context.Context) ([]*models.ScreenRun, error)
}
