package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/annscreen/internal/models"
)

// MappingStorage implements interfaces.MappingStore.
type MappingStorage struct {
	store *Store
}

// NewMappingStorage creates mapping storage over a shared store.
func NewMappingStorage(store *Store) *MappingStorage {
	return &MappingStorage{store: store}
}

func (m *MappingStorage) SaveMappings(_ context.Context, infos []models.EntityDisplayInfo) error {
	for i := range infos {
		info := infos[i]
		if err := m.store.db.Upsert(info.EntityID, &info); err != nil {
			return fmt.Errorf("failed to save mapping for entity %d: %w", info.EntityID, err)
		}
	}
	m.store.logger.Debug().Int("mappings", len(infos)).Msg("Mappings saved")
	return nil
}

func (m *MappingStorage) GetMapping(_ context.Context, entityID int64) (*models.EntityDisplayInfo, error) {
	var info models.EntityDisplayInfo
	if err := m.store.db.Get(entityID, &info); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("no mapping for entity %d", entityID)
		}
		return nil, fmt.Errorf("failed to get mapping for entity %d: %w", entityID, err)
	}
	return &info, nil
}
