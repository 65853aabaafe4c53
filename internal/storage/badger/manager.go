package badger

import (
	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/interfaces"
)

// Manager implements interfaces.StorageManager over one BadgerHold database.
type Manager struct {
	store    *Store
	periods  *PeriodStorage
	mappings *MappingStorage
	runs     *ScreenRunStorage
}

// NewManager opens the database and wires the typed storage types.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	store, err := NewStore(logger, path)
	if err != nil {
		return nil, err
	}
	return &Manager{
		store:    store,
		periods:  NewPeriodStorage(store),
		mappings: NewMappingStorage(store),
		runs:     NewScreenRunStorage(store),
	}, nil
}

func (m *Manager) PeriodStore() interfaces.PeriodStore       { return m.periods }
func (m *Manager) MappingStore() interfaces.MappingStore     { return m.mappings }
func (m *Manager) ScreenRunStore() interfaces.ScreenRunStore { return m.runs }

func (m *Manager) Close() error {
	return m.store.Close()
}
