package screen

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/annscreen/internal/models"
)

// ClassifyGrowth derives a growth verdict from a window's boundary values.
// The rules, in order:
//
//  1. start <= 0 and end > 0: turnaround. The rate is unbounded, so RatePct
//     stays nil and Turnaround carries the claim.
//  2. start > 0 and end > 0: CAGR over horizon-1 year-steps.
//  3. otherwise: no positive-growth claim can be made; both fields stay zero.
//
// A nil boundary value means the metric was unset for that year; no verdict
// is possible and the zero result is returned. Callers distinguish that case
// by checking the boundaries before calling.
func ClassifyGrowth(start, end *decimal.Decimal, horizon int) models.GrowthResult {
	if start == nil || end == nil || horizon < 2 {
		return models.GrowthResult{}
	}

	if start.Sign() <= 0 {
		if end.Sign() > 0 {
			return models.GrowthResult{Turnaround: true}
		}
		return models.GrowthResult{}
	}
	if end.Sign() <= 0 {
		return models.GrowthResult{}
	}

	ratio := end.Div(*start)
	rate := (math.Pow(ratio.InexactFloat64(), 1/float64(horizon-1)) - 1) * 100
	return models.GrowthResult{RatePct: &rate}
}
