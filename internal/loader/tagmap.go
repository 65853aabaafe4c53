package loader

import (
	"github.com/bobmcallan/annscreen/internal/models"
)

// tagBinding maps one source XBRL tag onto a canonical concept. Rank orders
// alternative tags for the same concept; a lower rank is more authoritative
// and, when present for an (entity, concept, year), suppresses observations
// from higher-ranked tags entirely.
type tagBinding struct {
	concept string
	rank    int
}

// tagBindings lists every source tag the loader understands. Companies tag
// the same concept inconsistently across taxonomies, so each concept carries
// an ordered list of acceptable tags.
var tagBindings = map[string]tagBinding{
	// Income statement
	"Revenues": {models.MetricRevenue, 0},
	"RevenueFromContractWithCustomerExcludingAssessedTax": {models.MetricRevenue, 1},
	"SalesRevenueNet": {models.MetricRevenue, 2},
	"NetIncomeLoss":   {models.MetricNetIncome, 0},
	"ProfitLoss":      {models.MetricNetIncome, 1},
	"EBITDA":          {models.MetricEBITDA, 0},

	// Cash flow
	"NetCashProvidedByUsedInOperatingActivities":                       {models.MetricOperatingCashFlow, 0},
	"NetCashProvidedByUsedInOperatingActivitiesContinuingOperations":   {models.MetricOperatingCashFlow, 1},
	"PaymentsToAcquirePropertyPlantAndEquipment":                       {models.MetricCapitalExpenditure, 0},
	"PurchaseOfPropertyPlantAndEquipment":                              {models.MetricCapitalExpenditure, 1},
	"PaymentsToAcquireProductiveAssets":                                {models.MetricCapitalExpenditure, 2},
	"FreeCashFlow":           {models.MetricFreeCashFlow, 0},
	"CalculatedFreeCashFlow": {models.MetricFreeCashFlow, 1},
	"PaymentsOfDividends":    {models.MetricDividendsPaid, 0},
	"DividendsPaid":          {models.MetricDividendsPaid, 1},
}

// taggedObservation pairs a parsed observation with its tag rank so the
// priority filter can run after the whole file is read.
type taggedObservation struct {
	obs  models.RawObservation
	rank int
}

type conceptYear struct {
	entityID int64
	concept  string
	year     int
}

// filterByTagRank drops observations whose tag is outranked by another tag
// reporting the same (entity, concept, year). Rank competition happens before
// reconciliation, so the reconciler only ever weighs filings of the single
// most authoritative tag.
func filterByTagRank(tagged []taggedObservation) []models.RawObservation {
	bestRank := make(map[conceptYear]int, len(tagged))
	for _, t := range tagged {
		key := conceptYear{t.obs.EntityID, t.obs.Concept, t.obs.FiscalYear}
		if rank, ok := bestRank[key]; !ok || t.rank < rank {
			bestRank[key] = t.rank
		}
	}

	observations := make([]models.RawObservation, 0, len(tagged))
	for _, t := range tagged {
		key := conceptYear{t.obs.EntityID, t.obs.Concept, t.obs.FiscalYear}
		if t.rank == bestRank[key] {
			observations = append(observations, t.obs)
		}
	}
	return observations
}
