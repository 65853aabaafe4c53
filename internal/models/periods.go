package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical concept names carried on an AnnualPeriod. These are the
// post-mapping names; the loader translates raw XBRL tags into them.
const (
	MetricRevenue            = "revenue"
	MetricNetIncome          = "net_income"
	MetricEBITDA             = "ebitda"
	MetricOperatingCashFlow  = "operating_cash_flow"
	MetricCapitalExpenditure = "capital_expenditure"
	MetricFreeCashFlow       = "free_cash_flow"
	MetricDividendsPaid      = "dividends_paid"
)

// Metrics lists every concept an AnnualPeriod can carry.
var Metrics = []string{
	MetricRevenue,
	MetricNetIncome,
	MetricEBITDA,
	MetricOperatingCashFlow,
	MetricCapitalExpenditure,
	MetricFreeCashFlow,
	MetricDividendsPaid,
}

// AnnualPeriod is one row per (entity, fiscal year), merging every concept's
// canonical value for that year. A nil field means the concept had no valid
// observation for the year; values are never defaulted to zero.
type AnnualPeriod struct {
	EntityID   int64     `json:"entity_id"`
	FiscalYear int       `json:"fiscal_year"`
	PeriodEnd  time.Time `json:"period_end"`
	Form       string    `json:"form"`  // source form of the latest contributing fact
	Filed      time.Time `json:"filed"` // latest filing date among contributing facts

	Revenue            *decimal.Decimal `json:"revenue,omitempty"`
	NetIncome          *decimal.Decimal `json:"net_income,omitempty"`
	EBITDA             *decimal.Decimal `json:"ebitda,omitempty"`
	OperatingCashFlow  *decimal.Decimal `json:"operating_cash_flow,omitempty"`
	CapitalExpenditure *decimal.Decimal `json:"capital_expenditure,omitempty"`
	FreeCashFlow       *decimal.Decimal `json:"free_cash_flow,omitempty"`
	DividendsPaid      *decimal.Decimal `json:"dividends_paid,omitempty"`
}

// Metric returns the value for a canonical concept name, or nil when unset
// or unknown.
func (p *AnnualPeriod) Metric(name string) *decimal.Decimal {
	switch name {
	case MetricRevenue:
		return p.Revenue
	case MetricNetIncome:
		return p.NetIncome
	case MetricEBITDA:
		return p.EBITDA
	case MetricOperatingCashFlow:
		return p.OperatingCashFlow
	case MetricCapitalExpenditure:
		return p.CapitalExpenditure
	case MetricFreeCashFlow:
		return p.FreeCashFlow
	case MetricDividendsPaid:
		return p.DividendsPaid
	}
	return nil
}

// SetMetric assigns the value for a canonical concept name. Unknown names
// are ignored.
func (p *AnnualPeriod) SetMetric(name string, v decimal.Decimal) {
	switch name {
	case MetricRevenue:
		p.Revenue = &v
	case MetricNetIncome:
		p.NetIncome = &v
	case MetricEBITDA:
		p.EBITDA = &v
	case MetricOperatingCashFlow:
		p.OperatingCashFlow = &v
	case MetricCapitalExpenditure:
		p.CapitalExpenditure = &v
	case MetricFreeCashFlow:
		p.FreeCashFlow = &v
	case MetricDividendsPaid:
		p.DividendsPaid = &v
	}
}

// EntitySeries is the ordered (ascending fiscal year) sequence of annual
// periods for one entity. Gaps are real gaps; missing years are never
// interpolated.
type EntitySeries struct {
	EntityID int64          `json:"entity_id"`
	Periods  []AnnualPeriod `json:"periods"`
}

// LatestYear returns the entity's maximum available fiscal year, or 0 when
// the series is empty.
func (s *EntitySeries) LatestYear() int {
	if len(s.Periods) == 0 {
		return 0
	}
	return s.Periods[len(s.Periods)-1].FiscalYear
}

// Period returns the annual period for a fiscal year, or nil when the year
// is missing from the series.
func (s *EntitySeries) Period(year int) *AnnualPeriod {
	for i := range s.Periods {
		if s.Periods[i].FiscalYear == year {
			return &s.Periods[i]
		}
	}
	return nil
}

// Window is a view over exactly Horizon consecutive fiscal years ending at
// AnchorYear for one entity. It only exists when every year in the range has
// an AnnualPeriod; incomplete coverage excludes the entity instead.
type Window struct {
	EntityID   int64
	AnchorYear int
	Horizon    int
	Periods    []AnnualPeriod // ascending, len == Horizon
}

// StartYear returns the first fiscal year in the window.
func (w *Window) StartYear() int {
	return w.AnchorYear - w.Horizon + 1
}

// Values returns the window's ordered values for one metric; entries are nil
// where the metric is unset for a year.
func (w *Window) Values(metric string) []*decimal.Decimal {
	values := make([]*decimal.Decimal, len(w.Periods))
	for i := range w.Periods {
		values[i] = w.Periods[i].Metric(metric)
	}
	return values
}
