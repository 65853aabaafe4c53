package screen

import (
	"sort"

	"github.com/bobmcallan/annscreen/internal/models"
)

// Rank orders passing verdicts deterministically under a sort policy,
// independent of evaluation completion order.
//
// SortByGrowth: turnarounds first, then growth rate descending, then entity
// id ascending. SortByIdentifier: ticker-mapped entities first, then ticker
// ascending, then entity id ascending. Entities without a mapped ticker keep
// the sentinel and stay in the output.
func Rank(verdicts []models.ScreenVerdict, policy models.SortPolicy) {
	switch policy {
	case models.SortByIdentifier:
		sort.SliceStable(verdicts, func(i, j int) bool {
			a, b := &verdicts[i], &verdicts[j]
			aMapped := a.Ticker != models.UnknownDisplay
			bMapped := b.Ticker != models.UnknownDisplay
			if aMapped != bMapped {
				return aMapped
			}
			if a.Ticker != b.Ticker {
				return a.Ticker < b.Ticker
			}
			return a.EntityID < b.EntityID
		})
	default:
		sort.SliceStable(verdicts, func(i, j int) bool {
			a, b := &verdicts[i], &verdicts[j]
			if ta, tb := isTurnaround(a), isTurnaround(b); ta != tb {
				return ta
			}
			ra, rb := ratePct(a), ratePct(b)
			if ra != rb {
				return ra > rb
			}
			return a.EntityID < b.EntityID
		})
	}
}

func isTurnaround(v *models.ScreenVerdict) bool {
	return v.Growth != nil && v.Growth.Turnaround
}

func ratePct(v *models.ScreenVerdict) float64 {
	if v.Growth == nil || v.Growth.RatePct == nil {
		return 0
	}
	return *v.Growth.RatePct
}
