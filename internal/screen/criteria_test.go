package screen

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/annscreen/internal/models"
)

// growthWindow builds a five-year window carrying ebitda and free cash flow.
func growthWindow(ebitda, fcf []*decimal.Decimal) *models.Window {
	periods := make([]models.AnnualPeriod, len(ebitda))
	for i := range ebitda {
		periods[i] = models.AnnualPeriod{
			EntityID:     1,
			FiscalYear:   2019 + i,
			EBITDA:       ebitda[i],
			FreeCashFlow: fcf[i],
		}
	}
	return &models.Window{
		EntityID:   1,
		AnchorYear: 2019 + len(ebitda) - 1,
		Horizon:    len(ebitda),
		Periods:    periods,
	}
}

func growthRules() *models.RuleSet {
	return &models.RuleSet{
		Name:          "ebitda-fcf-growth",
		Horizon:       5,
		Anchor:        models.AnchorPerEntity,
		PreferredForm: "10-K",
		Sort:          models.SortByGrowth,
		Positive: []models.CountRule{
			{Metric: models.MetricEBITDA, MinYears: 3},
			{Metric: models.MetricFreeCashFlow, MinYears: 3},
		},
		Growth: &models.GrowthRule{Metric: models.MetricEBITDA, MinCAGRPct: 15},
	}
}

func TestEvaluatePassingEntity(t *testing.T) {
	// One loss year each; both metrics clear the 3-of-5 positive bar and
	// ebitda doubles over the window.
	window := growthWindow(
		[]*decimal.Decimal{dec("10"), dec("-5"), dec("8"), dec("12"), dec("20")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("-1"), dec("2"), dec("3")},
	)

	verdict := NewEvaluator(growthRules()).Evaluate(window)

	assert.Equal(t, models.StatusPassed, verdict.Status)
	assert.True(t, verdict.Passed())
	assert.Empty(t, verdict.Reasons)
	assert.Equal(t, 2023, verdict.AnchorYear)
	assert.Equal(t, models.UnknownDisplay, verdict.Ticker)

	require.NotNil(t, verdict.Growth)
	require.NotNil(t, verdict.Growth.RatePct)
	assert.InDelta(t, 18.92, *verdict.Growth.RatePct, 0.01)
	assert.False(t, verdict.Growth.Turnaround)

	require.Contains(t, verdict.Stats, models.MetricEBITDA)
	assert.Equal(t, 4, verdict.Stats[models.MetricEBITDA].PositiveYears)
	assert.Equal(t, 4, verdict.Stats[models.MetricFreeCashFlow].PositiveYears)
}

func TestEvaluateFailsPositiveCount(t *testing.T) {
	window := growthWindow(
		[]*decimal.Decimal{dec("10"), dec("-5"), dec("-8"), dec("-12"), dec("20")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("2"), dec("3")},
	)

	verdict := NewEvaluator(growthRules()).Evaluate(window)

	assert.Equal(t, models.StatusFailed, verdict.Status)
	require.Len(t, verdict.Reasons, 1)
	assert.Contains(t, verdict.Reasons[0], "ebitda positive in 2 of 5 years")
}

func TestEvaluateFailsGrowthThreshold(t *testing.T) {
	window := growthWindow(
		[]*decimal.Decimal{dec("100"), dec("105"), dec("108"), dec("110"), dec("114.9")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("2"), dec("3")},
	)

	verdict := NewEvaluator(growthRules()).Evaluate(window)

	assert.Equal(t, models.StatusFailed, verdict.Status)
	require.Len(t, verdict.Reasons, 1)
	assert.Contains(t, verdict.Reasons[0], "below 15.00%")
}

func TestEvaluateTurnaroundPassesGrowth(t *testing.T) {
	window := growthWindow(
		[]*decimal.Decimal{dec("-10"), dec("-5"), dec("8"), dec("12"), dec("20")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("2"), dec("3")},
	)

	verdict := NewEvaluator(growthRules()).Evaluate(window)

	assert.Equal(t, models.StatusPassed, verdict.Status)
	require.NotNil(t, verdict.Growth)
	assert.True(t, verdict.Growth.Turnaround)
	assert.Nil(t, verdict.Growth.RatePct)
	assert.Equal(t, "Positive Turnaround", verdict.Growth.String())
}

func TestEvaluateInsufficientGrowthBoundary(t *testing.T) {
	// Window coverage is complete but ebitda is unset at the anchor year, so
	// the growth clause cannot be evaluated at all.
	window := growthWindow(
		[]*decimal.Decimal{dec("10"), dec("12"), dec("14"), dec("16"), nil},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("2"), dec("3")},
	)

	verdict := NewEvaluator(growthRules()).Evaluate(window)

	assert.Equal(t, models.StatusInsufficient, verdict.Status)
	assert.False(t, verdict.Passed())
	assert.Nil(t, verdict.Growth)
	require.NotEmpty(t, verdict.Reasons)
	assert.Contains(t, verdict.Reasons[len(verdict.Reasons)-1], "growth undefined")
}

func TestEvaluateTurnaroundRuleSet(t *testing.T) {
	// Loss-years-plus-improvement screen: at least two negative net-income
	// years and at least two strict improvements in the window.
	rules := &models.RuleSet{
		Name:          "net-income-turnaround",
		Horizon:       5,
		Anchor:        models.AnchorPerEntity,
		PreferredForm: "10-K",
		Negative:      []models.CountRule{{Metric: models.MetricEBITDA, MinYears: 2}},
		Improvement:   []models.CountRule{{Metric: models.MetricEBITDA, MinYears: 2}},
	}
	require.NoError(t, rules.Validate())

	window := growthWindow(
		[]*decimal.Decimal{dec("-10"), dec("-4"), dec("-6"), dec("2"), dec("5")},
		make([]*decimal.Decimal, 5),
	)

	verdict := NewEvaluator(rules).Evaluate(window)

	assert.Equal(t, models.StatusPassed, verdict.Status)
	assert.Equal(t, 3, verdict.ImprovementYears[models.MetricEBITDA])
	assert.Equal(t, 3, verdict.Stats[models.MetricEBITDA].NegativeYears)
}
