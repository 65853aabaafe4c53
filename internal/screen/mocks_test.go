package screen

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bobmcallan/annscreen/internal/interfaces"
	"github.com/bobmcallan/annscreen/internal/models"
)

// memStorage is an in-memory StorageManager for service tests.
type memStorage struct {
	mu       sync.Mutex
	series   map[int64]*models.EntitySeries
	mappings map[int64]*models.EntityDisplayInfo
	runs     map[string]*models.ScreenRun
}

func newMemStorage() *memStorage {
	return &memStorage{
		series:   make(map[int64]*models.EntitySeries),
		mappings: make(map[int64]*models.EntityDisplayInfo),
		runs:     make(map[string]*models.ScreenRun),
	}
}

func (m *memStorage) PeriodStore() interfaces.PeriodStore       { return (*memPeriodStore)(m) }
func (m *memStorage) MappingStore() interfaces.MappingStore     { return (*memMappingStore)(m) }
func (m *memStorage) ScreenRunStore() interfaces.ScreenRunStore { return (*memScreenRunStore)(m) }
func (m *memStorage) Close() error                              { return nil }

type memPeriodStore memStorage

func (s *memPeriodStore) SaveSeries(_ context.Context, series *models.EntitySeries) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[series.EntityID] = series
	return nil
}

func (s *memPeriodStore) GetSeries(_ context.Context, entityID int64) (*models.EntitySeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	series, ok := s.series[entityID]
	if !ok {
		return nil, fmt.Errorf("series not found for entity %d", entityID)
	}
	return series, nil
}

func (s *memPeriodStore) ListSeries(_ context.Context) ([]*models.EntitySeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*models.EntitySeries, 0, len(s.series))
	for _, series := range s.series {
		list = append(list, series)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EntityID < list[j].EntityID })
	return list, nil
}

func (s *memPeriodStore) DeleteSeries(_ context.Context, entityID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.series, entityID)
	return nil
}

type memMappingStore memStorage

func (s *memMappingStore) SaveMappings(_ context.Context, infos []models.EntityDisplayInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range infos {
		info := infos[i]
		s.mappings[info.EntityID] = &info
	}
	return nil
}

func (s *memMappingStore) GetMapping(_ context.Context, entityID int64) (*models.EntityDisplayInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.mappings[entityID]
	if !ok {
		return nil, fmt.Errorf("mapping not found for entity %d", entityID)
	}
	return info, nil
}

type memScreenRunStore memStorage

func (s *memScreenRunStore) SaveRun(_ context.Context, run *models.ScreenRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *memScreenRunStore) GetRun(_ context.Context, id string) (*models.ScreenRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, nil
}

func (s *memScreenRunStore) ListRuns(_ context.Context) ([]*models.ScreenRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*models.ScreenRun, 0, len(s.runs))
	for _, run := range s.runs {
		list = append(list, run)
	}
	return list, nil
}
