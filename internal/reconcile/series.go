package reconcile

import (
	"sort"

	"github.com/bobmcallan/annscreen/internal/models"
)

// BuildSeries assembles reconciled facts into one ordered annual series.
// Every fiscal year present in at least one concept map gets an AnnualPeriod;
// concepts absent for a year stay unset on that period. Free cash flow is
// derived as operating cash flow minus capital expenditure when no reported
// value exists and both inputs are present — never approximated from one
// side alone.
func BuildSeries(entityID int64, facts models.EntityFacts) models.EntitySeries {
	yearSet := make(map[int]struct{})
	for _, years := range facts {
		for year := range years {
			yearSet[year] = struct{}{}
		}
	}

	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)

	series := models.EntitySeries{
		EntityID: entityID,
		Periods:  make([]models.AnnualPeriod, 0, len(years)),
	}

	for _, year := range years {
		period := models.AnnualPeriod{
			EntityID:   entityID,
			FiscalYear: year,
		}

		for _, concept := range models.Metrics {
			fact, ok := facts[concept][year]
			if !ok {
				continue
			}
			period.SetMetric(concept, fact.Value)

			// Provenance follows the most recently filed contributing fact.
			if fact.Filed.After(period.Filed) {
				period.Filed = fact.Filed
				period.Form = fact.Form
			}
			if fact.PeriodEnd.After(period.PeriodEnd) {
				period.PeriodEnd = fact.PeriodEnd
			}
		}

		deriveFreeCashFlow(&period)
		series.Periods = append(series.Periods, period)
	}

	return series
}

// deriveFreeCashFlow fills FreeCashFlow = CFO - CapEx when the company did
// not report FCF directly. SEC capital-expenditure tags report the payment
// as a positive outflow, hence the subtraction.
func deriveFreeCashFlow(p *models.AnnualPeriod) {
	if p.FreeCashFlow != nil {
		return
	}
	if p.OperatingCashFlow == nil || p.CapitalExpenditure == nil {
		return
	}
	fcf := p.OperatingCashFlow.Sub(*p.CapitalExpenditure)
	p.FreeCashFlow = &fcf
}
