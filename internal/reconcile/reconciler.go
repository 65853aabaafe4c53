// Package reconcile collapses conflicting source filings into one canonical
// value per (entity, concept, fiscal year) and assembles the results into
// ordered annual series.
package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/models"
)

// Stats counts what happened to the observations of one reconciliation pass.
type Stats struct {
	Considered int // annual observations with a parsable value
	Discarded  int // malformed, missing value, or sub-annual
	Chosen     int // canonical facts produced
}

// Reconciler selects the single best observation per (concept, fiscal year)
// using a total-order precedence: preferred filing type strictly dominates,
// then later filing date wins among equally-ranked forms.
type Reconciler struct {
	preferredForm string
	logger        *common.Logger
}

// NewReconciler creates a reconciler preferring the given filing type
// (typically "10-K").
func NewReconciler(preferredForm string, logger *common.Logger) *Reconciler {
	return &Reconciler{
		preferredForm: preferredForm,
		logger:        logger,
	}
}

// candidate pairs a parsed fact with its precedence rank.
type candidate struct {
	fact      models.CanonicalFact
	preferred bool
}

// better reports whether the challenger outranks the incumbent. The order is
// total so reconciliation is independent of input order: preferred form, then
// filing date, then period end, then value.
func better(challenger, incumbent candidate) bool {
	if challenger.preferred != incumbent.preferred {
		return challenger.preferred
	}
	if !challenger.fact.Filed.Equal(incumbent.fact.Filed) {
		return challenger.fact.Filed.After(incumbent.fact.Filed)
	}
	if !challenger.fact.PeriodEnd.Equal(incumbent.fact.PeriodEnd) {
		return challenger.fact.PeriodEnd.After(incumbent.fact.PeriodEnd)
	}
	return challenger.fact.Value.GreaterThan(incumbent.fact.Value)
}

// Reconcile collapses all observations for one entity into per-concept,
// per-year canonical facts. Sub-annual observations and observations whose
// value cannot be parsed are discarded; nothing is ever defaulted to zero.
// A (concept, year) with no valid observation yields no entry at all.
func (r *Reconciler) Reconcile(observations []models.RawObservation) (models.EntityFacts, Stats) {
	facts := make(models.EntityFacts)
	var stats Stats

	for _, obs := range observations {
		if !obs.Annual {
			stats.Discarded++
			continue
		}

		value, err := decimal.NewFromString(strings.TrimSpace(obs.RawValue))
		if err != nil || strings.TrimSpace(obs.RawValue) == "" {
			stats.Discarded++
			r.logger.Debug().
				Int64("entity", obs.EntityID).
				Str("concept", obs.Concept).
				Int("fiscal_year", obs.FiscalYear).
				Str("raw_value", obs.RawValue).
				Msg("Discarding observation with unparsable value")
			continue
		}
		stats.Considered++

		challenger := candidate{
			fact: models.CanonicalFact{
				Value:     value,
				Form:      obs.Form,
				Filed:     obs.Filed,
				PeriodEnd: obs.PeriodEnd,
			},
			preferred: strings.EqualFold(obs.Form, r.preferredForm),
		}

		years, ok := facts[obs.Concept]
		if !ok {
			years = make(models.ConceptFacts)
			facts[obs.Concept] = years
		}

		incumbentFact, exists := years[obs.FiscalYear]
		if !exists {
			years[obs.FiscalYear] = challenger.fact
			continue
		}

		incumbent := candidate{
			fact:      incumbentFact,
			preferred: strings.EqualFold(incumbentFact.Form, r.preferredForm),
		}
		if better(challenger, incumbent) {
			years[obs.FiscalYear] = challenger.fact
		}
	}

	for _, years := range facts {
		stats.Chosen += len(years)
	}

	return facts, stats
}
