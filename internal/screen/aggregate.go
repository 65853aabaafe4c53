package screen

import (
	"github.com/bobmcallan/annscreen/internal/models"
)

// Aggregate computes the pure per-window reductions for one metric: strict
// positive/negative year counts, boundary values, and the window minimum.
// Unset years satisfy neither predicate and never coerce to zero.
func Aggregate(w *models.Window, metric string) *models.MetricStats {
	stats := &models.MetricStats{Metric: metric}

	values := w.Values(metric)
	for _, v := range values {
		if v == nil {
			stats.MissingYears++
			continue
		}
		switch {
		case v.IsPositive():
			stats.PositiveYears++
		case v.IsNegative():
			stats.NegativeYears++
		}
		if stats.Min == nil || v.LessThan(*stats.Min) {
			stats.Min = v
		}
	}

	if len(values) > 0 {
		stats.Start = values[0]
		stats.End = values[len(values)-1]
	}

	return stats
}
