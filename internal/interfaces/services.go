// Package interfaces defines service contracts for annscreen
package interfaces

import (
	"context"

	"github.com/bobmcallan/annscreen/internal/models"
)

// ScreenService runs the fact-to-verdict pipeline: reconciliation, canonical
// series building, window construction, and multi-criterion screening.
type ScreenService interface {
	// LoadFacts reconciles raw observations into canonical annual periods
	// and persists the resulting per-entity series.
	LoadFacts(ctx context.Context, observations []models.RawObservation) (*models.LoadSummary, error)

	// Run screens every stored entity series against a rule set and returns
	// the ranked result. Each entity's pipeline is isolated; one entity's
	// bad data never aborts the run.
	Run(ctx context.Context, rules *models.RuleSet) (*models.ScreenRun, error)

	// GetSeries returns the canonical annual series for one entity.
	GetSeries(ctx context.Context, entityID int64) (*models.EntitySeries, error)
}

// MappingService manages the optional entity → display identifier mapping.
type MappingService interface {
	// LoadMappings replaces or merges display info records.
	LoadMappings(ctx context.Context, infos []models.EntityDisplayInfo) (int, error)

	// Resolve returns display info for an entity. A miss resolves to the
	// unknown sentinel, never an error.
	Resolve(ctx context.Context, entityID int64) models.EntityDisplayInfo
}
