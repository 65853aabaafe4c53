package screen

import (
	"context"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/interfaces"
	"github.com/bobmcallan/annscreen/internal/models"
)

// MappingService implements interfaces.MappingService over the mapping store.
// Identifier mapping is optional decoration on screen output; a missing entry
// resolves to the unknown sentinel and is never an error.
type MappingService struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewMappingService creates the mapping service.
func NewMappingService(storage interfaces.StorageManager, logger *common.Logger) *MappingService {
	return &MappingService{
		storage: storage,
		logger:  logger,
	}
}

// LoadMappings persists display info records, skipping rows without an entity
// id, and returns the number stored.
func (m *MappingService) LoadMappings(ctx context.Context, infos []models.EntityDisplayInfo) (int, error) {
	valid := make([]models.EntityDisplayInfo, 0, len(infos))
	for _, info := range infos {
		if info.EntityID == 0 {
			continue
		}
		valid = append(valid, info)
	}

	if err := m.storage.MappingStore().SaveMappings(ctx, valid); err != nil {
		return 0, err
	}

	m.logger.Info().Int("mappings", len(valid)).Msg("Loaded entity display mappings")
	return len(valid), nil
}

// Resolve returns display info for an entity, falling back to the unknown
// sentinel on any miss.
func (m *MappingService) Resolve(ctx context.Context, entityID int64) models.EntityDisplayInfo {
	info, err := m.storage.MappingStore().GetMapping(ctx, entityID)
	if err != nil || info == nil {
		return models.EntityDisplayInfo{
			EntityID: entityID,
			Ticker:   models.UnknownDisplay,
			Name:     models.UnknownDisplay,
		}
	}
	return *info
}
