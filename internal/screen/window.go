// Package screen evaluates canonical annual series against named,
// parameterized rule sets: trailing-window construction, per-window metric
// reductions, growth classification, and deterministic ranking.
package screen

import (
	"fmt"

	"github.com/bobmcallan/annscreen/internal/models"
)

// ErrIncompleteWindow marks an entity whose series does not cover every year
// of the requested window. The entity is excluded from that screen, never
// scored with partial data.
var ErrIncompleteWindow = fmt.Errorf("incomplete window")

// GlobalAnchorYear resolves the shared anchor for a global-anchor screen: the
// maximum fiscal year present across all series. Returns 0 when the dataset
// is empty.
func GlobalAnchorYear(series []*models.EntitySeries) int {
	anchor := 0
	for _, s := range series {
		if latest := s.LatestYear(); latest > anchor {
			anchor = latest
		}
	}
	return anchor
}

// BuildWindow selects the trailing horizon years ending at anchorYear from a
// series. Every year in [anchorYear-horizon+1, anchorYear] must have an
// AnnualPeriod; any gap returns ErrIncompleteWindow.
func BuildWindow(series *models.EntitySeries, anchorYear, horizon int) (*models.Window, error) {
	if horizon < 2 {
		return nil, fmt.Errorf("horizon must be at least 2, got %d", horizon)
	}

	startYear := anchorYear - horizon + 1
	periods := make([]models.AnnualPeriod, 0, horizon)
	for year := startYear; year <= anchorYear; year++ {
		period := series.Period(year)
		if period == nil {
			return nil, fmt.Errorf("%w: entity %d missing fiscal year %d in [%d, %d]",
				ErrIncompleteWindow, series.EntityID, year, startYear, anchorYear)
		}
		periods = append(periods, *period)
	}

	return &models.Window{
		EntityID:   series.EntityID,
		AnchorYear: anchorYear,
		Horizon:    horizon,
		Periods:    periods,
	}, nil
}
