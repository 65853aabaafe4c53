package screen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/interfaces"
	"github.com/bobmcallan/annscreen/internal/models"
	"github.com/bobmcallan/annscreen/internal/reconcile"
)

// Service implements interfaces.ScreenService: it turns raw observations into
// persisted canonical series and screens the stored series against rule sets.
type Service struct {
	config  *common.Config
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates the screen service.
func NewService(config *common.Config, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		config:  config,
		storage: storage,
		logger:  logger,
	}
}

// LoadFacts reconciles raw observations into canonical annual series, one per
// entity, and persists them. Malformed observations are discarded and
// counted; they never abort the load.
func (s *Service) LoadFacts(ctx context.Context, observations []models.RawObservation) (*models.LoadSummary, error) {
	byEntity := make(map[int64][]models.RawObservation)
	for _, obs := range observations {
		byEntity[obs.EntityID] = append(byEntity[obs.EntityID], obs)
	}

	reconciler := reconcile.NewReconciler(s.config.Screen.PreferredForm, s.logger)
	summary := &models.LoadSummary{Observations: len(observations)}

	for entityID, entityObs := range byEntity {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		facts, stats := reconciler.Reconcile(entityObs)
		summary.Discarded += stats.Discarded

		series := reconcile.BuildSeries(entityID, facts)
		if len(series.Periods) == 0 {
			s.logger.Debug().Int64("entity", entityID).Msg("No usable annual facts for entity")
			continue
		}

		if err := s.storage.PeriodStore().SaveSeries(ctx, &series); err != nil {
			return nil, fmt.Errorf("failed to save series for entity %d: %w", entityID, err)
		}

		summary.Entities++
		summary.Periods += len(series.Periods)
	}

	s.logger.Info().
		Int("entities", summary.Entities).
		Int("observations", summary.Observations).
		Int("discarded", summary.Discarded).
		Int("periods", summary.Periods).
		Msg("Loaded annual facts")

	return summary, nil
}

// GetSeries returns the canonical annual series for one entity.
func (s *Service) GetSeries(ctx context.Context, entityID int64) (*models.EntitySeries, error) {
	return s.storage.PeriodStore().GetSeries(ctx, entityID)
}

// entityResult carries one entity's outcome back through the fan-in channel.
type entityResult struct {
	verdict  *models.ScreenVerdict
	excluded bool
}

// Run screens every stored series against the rule set. Entities are
// evaluated concurrently; each pipeline is isolated, so one entity's gaps or
// bad data only ever exclude that entity. Ordering comes from the final
// deterministic sort, never from completion order.
func (s *Service) Run(ctx context.Context, rules *models.RuleSet) (*models.ScreenRun, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}

	seriesList, err := s.storage.PeriodStore().ListSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}

	globalAnchor := rules.AnchorYear
	if rules.Anchor == models.AnchorGlobal && globalAnchor == 0 {
		globalAnchor = GlobalAnchorYear(seriesList)
	}

	evaluator := NewEvaluator(rules)

	const maxConcurrent = 8
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]entityResult, 0, len(seriesList))

	for _, series := range seriesList {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(series *models.EntitySeries) {
			defer wg.Done()
			defer func() { <-sem }()

			result := s.screenEntity(series, rules, globalAnchor, evaluator)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(series)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := &models.ScreenRun{
		ID:          uuid.NewString(),
		RuleSet:     *rules,
		GeneratedAt: time.Now().UTC(),
	}

	for _, result := range results {
		if result.excluded {
			run.Excluded++
			continue
		}
		run.Evaluated++

		verdict := result.verdict
		s.resolveDisplay(ctx, verdict)
		if verdict.Passed() {
			run.Candidates = append(run.Candidates, *verdict)
		} else {
			run.Rejected = append(run.Rejected, *verdict)
		}
	}

	Rank(run.Candidates, rules.Sort)
	Rank(run.Rejected, rules.Sort)

	if err := s.storage.ScreenRunStore().SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save screen run: %w", err)
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Str("rule_set", rules.Name).
		Int("evaluated", run.Evaluated).
		Int("excluded", run.Excluded).
		Int("candidates", len(run.Candidates)).
		Msg("Screen run complete")

	return run, nil
}

// screenEntity runs one entity's window-and-evaluate pipeline. It touches no
// shared state; exclusion for incomplete coverage is an outcome, not an error.
func (s *Service) screenEntity(series *models.EntitySeries, rules *models.RuleSet, globalAnchor int, evaluator *Evaluator) entityResult {
	anchor := globalAnchor
	if rules.Anchor == models.AnchorPerEntity {
		anchor = series.LatestYear()
	}

	window, err := BuildWindow(series, anchor, rules.Horizon)
	if err != nil {
		s.logger.Debug().
			Int64("entity", series.EntityID).
			Int("anchor", anchor).
			Int("horizon", rules.Horizon).
			Msg("Entity excluded: incomplete window")
		return entityResult{excluded: true}
	}

	return entityResult{verdict: evaluator.Evaluate(window)}
}

// resolveDisplay decorates a verdict with ticker and name. A missing mapping
// keeps the sentinel; it never drops the entity.
func (s *Service) resolveDisplay(ctx context.Context, verdict *models.ScreenVerdict) {
	info, err := s.storage.MappingStore().GetMapping(ctx, verdict.EntityID)
	if err != nil || info == nil {
		return
	}
	if info.Ticker != "" {
		verdict.Ticker = info.Ticker
	}
	if info.Name != "" {
		verdict.Name = info.Name
	}
}
