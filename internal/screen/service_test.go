package screen

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/models"
)

func newTestService(storage *memStorage) *Service {
	return NewService(common.NewDefaultConfig(), storage, common.NewSilentLogger())
}

// observations builds one annual 10-K observation per year for a concept.
func observations(entityID int64, concept string, firstYear int, values ...string) []models.RawObservation {
	obs := make([]models.RawObservation, 0, len(values))
	for i, value := range values {
		year := firstYear + i
		obs = append(obs, models.RawObservation{
			EntityID:   entityID,
			Concept:    concept,
			FiscalYear: year,
			Annual:     true,
			Form:       "10-K",
			Filed:      time.Date(year+1, 2, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:  time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
			Currency:   "USD",
			RawValue:   value,
		})
	}
	return obs
}

// seedSeries stores a five-year series directly, bypassing reconciliation.
func seedSeries(t *testing.T, storage *memStorage, entityID int64, ebitda, fcf []*decimal.Decimal) {
	t.Helper()
	series := &models.EntitySeries{EntityID: entityID}
	for i := range ebitda {
		series.Periods = append(series.Periods, models.AnnualPeriod{
			EntityID:     entityID,
			FiscalYear:   2019 + i,
			EBITDA:       ebitda[i],
			FreeCashFlow: fcf[i],
		})
	}
	require.NoError(t, storage.PeriodStore().SaveSeries(context.Background(), series))
}

func TestServiceLoadFacts(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(storage)

	obs := observations(1, models.MetricEBITDA, 2019, "10", "-5", "8", "12", "20")
	obs = append(obs, observations(1, models.MetricOperatingCashFlow, 2019, "15", "2", "10", "14", "25")...)
	obs = append(obs, observations(1, models.MetricCapitalExpenditure, 2019, "5", "5", "5", "5", "5")...)
	obs = append(obs, observations(2, models.MetricEBITDA, 2021, "7", "bad-value", "9")...)

	summary, err := svc.LoadFacts(context.Background(), obs)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Entities)
	assert.Equal(t, len(obs), summary.Observations)
	assert.Equal(t, 1, summary.Discarded)
	assert.Equal(t, 7, summary.Periods) // five for entity 1, two for entity 2

	series, err := svc.GetSeries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, series.Periods, 5)

	// Free cash flow derived from CFO and capex during series build.
	p := series.Period(2023)
	require.NotNil(t, p)
	require.NotNil(t, p.FreeCashFlow)
	assert.Equal(t, "20", p.FreeCashFlow.String())
}

func TestServiceRunSplitsVerdicts(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	// Entity 1 passes, entity 2 fails the growth threshold, entity 3 has only
	// three years and is excluded before evaluation.
	seedSeries(t, storage, 1,
		[]*decimal.Decimal{dec("10"), dec("-5"), dec("8"), dec("12"), dec("20")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("-1"), dec("2"), dec("3")})
	seedSeries(t, storage, 2,
		[]*decimal.Decimal{dec("100"), dec("102"), dec("104"), dec("106"), dec("108")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("1"), dec("1")})
	seedSeries(t, storage, 3,
		[]*decimal.Decimal{dec("5"), dec("6"), dec("7")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1")})

	run, err := svc.Run(ctx, growthRules())
	require.NoError(t, err)

	assert.Equal(t, 2, run.Evaluated)
	assert.Equal(t, 1, run.Excluded)
	require.Len(t, run.Candidates, 1)
	require.Len(t, run.Rejected, 1)
	assert.Equal(t, int64(1), run.Candidates[0].EntityID)
	assert.Equal(t, int64(2), run.Rejected[0].EntityID)
	assert.Equal(t, models.StatusFailed, run.Rejected[0].Status)

	// The run is persisted under its generated id.
	stored, err := storage.ScreenRunStore().GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Evaluated, stored.Evaluated)
}

func TestServiceRunPerEntityAnchor(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(storage)

	// Entity 2's history ends in 2021; per-entity anchoring still evaluates
	// it over its own latest five years.
	seedSeries(t, storage, 1,
		[]*decimal.Decimal{dec("10"), dec("12"), dec("14"), dec("16"), dec("20")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("1"), dec("1")})

	stale := &models.EntitySeries{EntityID: 2}
	for i, v := range []string{"10", "12", "14", "16", "20"} {
		stale.Periods = append(stale.Periods, models.AnnualPeriod{
			EntityID:     2,
			FiscalYear:   2017 + i,
			EBITDA:       dec(v),
			FreeCashFlow: dec("1"),
		})
	}
	require.NoError(t, storage.PeriodStore().SaveSeries(context.Background(), stale))

	rules := growthRules()
	run, err := svc.Run(context.Background(), rules)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Evaluated)
	assert.Equal(t, 0, run.Excluded)

	// A global anchor pinned to 2023 excludes the stale entity instead.
	rules.Anchor = models.AnchorGlobal
	run, err = svc.Run(context.Background(), rules)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Evaluated)
	assert.Equal(t, 1, run.Excluded)
}

func TestServiceRunResolvesDisplayMapping(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	seedSeries(t, storage, 1,
		[]*decimal.Decimal{dec("10"), dec("-5"), dec("8"), dec("12"), dec("20")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("-1"), dec("2"), dec("3")})
	seedSeries(t, storage, 2,
		[]*decimal.Decimal{dec("-10"), dec("-5"), dec("8"), dec("12"), dec("20")},
		[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("2"), dec("3")})

	require.NoError(t, storage.MappingStore().SaveMappings(ctx, []models.EntityDisplayInfo{
		{EntityID: 1, Ticker: "ACME", Name: "Acme Corp"},
	}))

	run, err := svc.Run(ctx, growthRules())
	require.NoError(t, err)
	require.Len(t, run.Candidates, 2)

	// Turnaround ranks first despite having no ticker mapping; the missing
	// mapping resolves to the sentinel, never to exclusion.
	assert.Equal(t, int64(2), run.Candidates[0].EntityID)
	assert.Equal(t, models.UnknownDisplay, run.Candidates[0].Ticker)
	assert.Equal(t, int64(1), run.Candidates[1].EntityID)
	assert.Equal(t, "ACME", run.Candidates[1].Ticker)
	assert.Equal(t, "Acme Corp", run.Candidates[1].Name)
}

func TestServiceRunManyEntitiesDeterministic(t *testing.T) {
	storage := newMemStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	// More entities than worker slots; growth rate rises with entity id.
	for id := int64(1); id <= 40; id++ {
		end := fmt.Sprintf("%d", 100+id*10)
		seedSeries(t, storage, id,
			[]*decimal.Decimal{dec("100"), dec("110"), dec("120"), dec("130"), dec(end)},
			[]*decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("1"), dec("1")})
	}

	rules := growthRules()
	rules.Growth.MinCAGRPct = 0

	first, err := svc.Run(ctx, rules)
	require.NoError(t, err)
	second, err := svc.Run(ctx, rules)
	require.NoError(t, err)

	require.Len(t, first.Candidates, 40)
	assert.Equal(t, entityOrder(first.Candidates), entityOrder(second.Candidates))
	// Highest growth first.
	assert.Equal(t, int64(40), first.Candidates[0].EntityID)
	assert.Equal(t, int64(1), first.Candidates[39].EntityID)
}

func TestServiceRunRejectsInvalidRules(t *testing.T) {
	svc := newTestService(newMemStorage())
	_, err := svc.Run(context.Background(), &models.RuleSet{Horizon: 1, Anchor: models.AnchorPerEntity})
	assert.Error(t, err)
}

func TestMappingServiceResolveFallsBackToSentinel(t *testing.T) {
	storage := newMemStorage()
	svc := NewMappingService(storage, common.NewSilentLogger())
	ctx := context.Background()

	count, err := svc.LoadMappings(ctx, []models.EntityDisplayInfo{
		{EntityID: 320193, Ticker: "AAPL", Name: "Apple Inc."},
		{Ticker: "GHOST", Name: "No Entity ID"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	info := svc.Resolve(ctx, 320193)
	assert.Equal(t, "AAPL", info.Ticker)

	missing := svc.Resolve(ctx, 999)
	assert.Equal(t, models.UnknownDisplay, missing.Ticker)
	assert.Equal(t, models.UnknownDisplay, missing.Name)
	assert.Equal(t, int64(999), missing.EntityID)
}
