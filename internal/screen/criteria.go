package screen

import (
	"fmt"

	"github.com/bobmcallan/annscreen/internal/models"
)

// Evaluator applies one rule set to per-entity windows. Clause families
// combine by logical AND; the only OR lives inside the growth clause
// (turnaround OR CAGR meeting the threshold).
type Evaluator struct {
	rules *models.RuleSet
}

// NewEvaluator creates an evaluator for a validated rule set.
func NewEvaluator(rules *models.RuleSet) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate screens one window and returns the verdict with its full
// diagnostic bundle. A growth clause whose boundary values are unset yields
// StatusInsufficient rather than a failure, so "did not qualify" and "lacked
// data to evaluate" stay distinguishable.
func (e *Evaluator) Evaluate(w *models.Window) *models.ScreenVerdict {
	verdict := &models.ScreenVerdict{
		EntityID:   w.EntityID,
		Ticker:     models.UnknownDisplay,
		Name:       models.UnknownDisplay,
		AnchorYear: w.AnchorYear,
		Status:     models.StatusPassed,
		Stats:      make(map[string]*models.MetricStats),
	}

	insufficient := false

	for _, rule := range e.rules.Positive {
		stats := e.stats(verdict, w, rule.Metric)
		if stats.PositiveYears < rule.MinYears {
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("%s positive in %d of %d years, need %d",
					rule.Metric, stats.PositiveYears, w.Horizon, rule.MinYears))
		}
	}

	for _, rule := range e.rules.Negative {
		stats := e.stats(verdict, w, rule.Metric)
		if stats.NegativeYears < rule.MinYears {
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("%s negative in %d of %d years, need %d",
					rule.Metric, stats.NegativeYears, w.Horizon, rule.MinYears))
		}
	}

	for _, rule := range e.rules.Improvement {
		flags := TrackImprovement(w.Values(rule.Metric))
		count := CountImprovements(flags)
		if verdict.ImprovementYears == nil {
			verdict.ImprovementYears = make(map[string]int)
		}
		verdict.ImprovementYears[rule.Metric] = count
		if count < rule.MinYears {
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("%s improved on all prior years %d times, need %d",
					rule.Metric, count, rule.MinYears))
		}
	}

	if rule := e.rules.Growth; rule != nil {
		stats := e.stats(verdict, w, rule.Metric)
		if stats.Start == nil || stats.End == nil {
			insufficient = true
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("%s unset at a window boundary, growth undefined", rule.Metric))
		} else {
			growth := ClassifyGrowth(stats.Start, stats.End, w.Horizon)
			verdict.Growth = &growth
			if !growth.Meets(rule.MinCAGRPct) {
				verdict.Reasons = append(verdict.Reasons,
					fmt.Sprintf("%s growth %s below %.2f%% with no turnaround",
						rule.Metric, growth.String(), rule.MinCAGRPct))
			}
		}
	}

	switch {
	case insufficient:
		verdict.Status = models.StatusInsufficient
	case len(verdict.Reasons) > 0:
		verdict.Status = models.StatusFailed
	}

	return verdict
}

// stats memoizes per-metric aggregation on the verdict so clauses sharing a
// metric reduce the window once.
func (e *Evaluator) stats(v *models.ScreenVerdict, w *models.Window, metric string) *models.MetricStats {
	if s, ok := v.Stats[metric]; ok {
		return s
	}
	s := Aggregate(w, metric)
	v.Stats[metric] = s
	return s
}
