package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AnchorPolicy selects the fiscal year a trailing window ends at.
type AnchorPolicy string

const (
	// AnchorGlobal uses one anchor year shared by all entities (the maximum
	// annual fiscal year present in the dataset unless set explicitly).
	AnchorGlobal AnchorPolicy = "global"
	// AnchorPerEntity uses each entity's own latest available fiscal year.
	AnchorPerEntity AnchorPolicy = "per_entity"
)

// SortPolicy selects the ordering of passing entities in a screen run.
type SortPolicy string

const (
	// SortByGrowth orders turnarounds first, then growth rate descending.
	SortByGrowth SortPolicy = "growth"
	// SortByIdentifier orders ticker-mapped entities first, then by ticker.
	SortByIdentifier SortPolicy = "identifier"
)

// CountRule requires a minimum number of window years satisfying a predicate
// for one metric (positive, negative, or strict improvement depending on the
// clause family it appears under).
type CountRule struct {
	Metric   string `json:"metric" toml:"metric"`
	MinYears int    `json:"min_years" toml:"min_years"`
}

// GrowthRule requires the metric's growth over the window horizon to meet a
// CAGR threshold, or a turnaround from a non-positive base to a positive end.
type GrowthRule struct {
	Metric     string  `json:"metric" toml:"metric"`
	MinCAGRPct float64 `json:"min_cagr_pct" toml:"min_cagr_pct"`
}

// RuleSet is a named, parameterized screen definition. Clauses combine by
// logical AND; the only OR lives inside the growth clause (turnaround OR
// CAGR >= threshold).
type RuleSet struct {
	Name          string       `json:"name"`
	Horizon       int          `json:"horizon"`
	Anchor        AnchorPolicy `json:"anchor"`
	AnchorYear    int          `json:"anchor_year,omitempty"` // explicit global anchor; 0 = dataset maximum
	PreferredForm string       `json:"preferred_form"`
	Sort          SortPolicy   `json:"sort"`
	Positive      []CountRule  `json:"positive,omitempty"`
	Negative      []CountRule  `json:"negative,omitempty"`
	Improvement   []CountRule  `json:"improvement,omitempty"`
	Growth        *GrowthRule  `json:"growth,omitempty"`
}

// Validate checks the rule set parameters are usable.
func (r *RuleSet) Validate() error {
	if r.Horizon < 2 {
		return fmt.Errorf("horizon must be at least 2 years, got %d", r.Horizon)
	}
	switch r.Anchor {
	case AnchorGlobal, AnchorPerEntity:
	default:
		return fmt.Errorf("unknown anchor policy %q", r.Anchor)
	}
	switch r.Sort {
	case SortByGrowth, SortByIdentifier, "":
	default:
		return fmt.Errorf("unknown sort policy %q", r.Sort)
	}
	for _, c := range append(append(append([]CountRule{}, r.Positive...), r.Negative...), r.Improvement...) {
		if c.Metric == "" {
			return fmt.Errorf("count rule with empty metric")
		}
		if c.MinYears < 0 || c.MinYears > r.Horizon {
			return fmt.Errorf("count rule for %s: min_years %d outside window of %d", c.Metric, c.MinYears, r.Horizon)
		}
	}
	if r.Growth != nil && r.Growth.Metric == "" {
		return fmt.Errorf("growth rule with empty metric")
	}
	return nil
}

// MetricStats are the pure per-window reductions for one metric.
type MetricStats struct {
	Metric        string           `json:"metric"`
	PositiveYears int              `json:"positive_years"`
	NegativeYears int              `json:"negative_years"`
	MissingYears  int              `json:"missing_years"`
	Start         *decimal.Decimal `json:"start,omitempty"` // value at first window year, nil when unset
	End           *decimal.Decimal `json:"end,omitempty"`   // value at anchor year, nil when unset
	Min           *decimal.Decimal `json:"min,omitempty"`   // minimum across the window, nil when all unset
}

// GrowthResult classifies growth between a window's boundary values.
// A turnaround (non-positive start, positive end) has no finite rate: RatePct
// stays nil and Turnaround marks the unbounded-positive-growth case.
type GrowthResult struct {
	RatePct    *float64 `json:"rate_pct,omitempty"`
	Turnaround bool     `json:"turnaround"`
}

// Meets reports whether the result satisfies a percentage threshold: a
// turnaround always qualifies, otherwise the rate must exist and be >= min.
func (g GrowthResult) Meets(minPct float64) bool {
	if g.Turnaround {
		return true
	}
	return g.RatePct != nil && *g.RatePct >= minPct
}

// String renders the result the way screen reports display it.
func (g GrowthResult) String() string {
	if g.Turnaround {
		return "Positive Turnaround"
	}
	if g.RatePct == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *g.RatePct)
}

// VerdictStatus distinguishes "did not qualify" from "lacked sufficient data".
type VerdictStatus string

const (
	StatusPassed       VerdictStatus = "passed"
	StatusFailed       VerdictStatus = "failed"
	StatusInsufficient VerdictStatus = "insufficient_data"
)

// ScreenVerdict is the per-entity output of a screen: pass/fail plus the raw
// diagnostic values that justified it. Entities missing from the display
// mapping keep a sentinel ticker; they are never dropped.
type ScreenVerdict struct {
	EntityID   int64         `json:"entity_id"`
	Ticker     string        `json:"ticker"`
	Name       string        `json:"name"`
	AnchorYear int           `json:"anchor_year"`
	Status     VerdictStatus `json:"status"`
	Reasons    []string      `json:"reasons,omitempty"` // failed clauses or missing-data details

	Stats            map[string]*MetricStats `json:"stats,omitempty"`
	Growth           *GrowthResult           `json:"growth,omitempty"`
	ImprovementYears map[string]int          `json:"improvement_years,omitempty"`
}

// Passed reports whether the entity qualified.
func (v *ScreenVerdict) Passed() bool {
	return v.Status == StatusPassed
}

// ScreenRun is one complete screening pass over the dataset.
type ScreenRun struct {
	ID          string          `json:"id"`
	RuleSet     RuleSet         `json:"rule_set"`
	GeneratedAt time.Time       `json:"generated_at"`
	Evaluated   int             `json:"evaluated"` // entities with a complete window
	Excluded    int             `json:"excluded"`  // entities without a complete window
	Candidates  []ScreenVerdict `json:"candidates"` // ranked passing entities
	Rejected    []ScreenVerdict `json:"rejected,omitempty"`
}

// LoadSummary reports the outcome of a fact-loading pass.
type LoadSummary struct {
	Entities     int `json:"entities"`
	Observations int `json:"observations"`
	Discarded    int `json:"discarded"` // malformed or sub-annual observations
	Periods      int `json:"periods"`
}
