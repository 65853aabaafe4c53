package screen

import (
	"github.com/shopspring/decimal"
)

// YearFlags are the per-year outputs of the running-improvement tracker.
type YearFlags struct {
	// ExceedsAllPrior is true when the year's value strictly exceeds the
	// maximum of every earlier year in the window. The first year has no
	// prior history and never counts; ties never count.
	ExceedsAllPrior bool
	// IsNegative is true when the year's value is strictly below zero.
	IsNegative bool
}

// TrackImprovement walks a window's ordered values for one metric and flags
// each year against the running maximum of the years before it. Unset years
// produce zero flags and do not advance the running maximum.
func TrackImprovement(values []*decimal.Decimal) []YearFlags {
	flags := make([]YearFlags, len(values))

	var runningMax *decimal.Decimal
	for i, v := range values {
		if v == nil {
			continue
		}
		flags[i].IsNegative = v.IsNegative()
		if i > 0 && runningMax != nil && v.GreaterThan(*runningMax) {
			flags[i].ExceedsAllPrior = true
		}
		if runningMax == nil || v.GreaterThan(*runningMax) {
			runningMax = v
		}
	}

	return flags
}

// CountImprovements returns how many years in the window strictly improved on
// all prior years.
func CountImprovements(flags []YearFlags) int {
	count := 0
	for _, f := range flags {
		if f.ExceedsAllPrior {
			count++
		}
	}
	return count
}
