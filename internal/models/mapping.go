package models

// UnknownDisplay is the sentinel shown when an entity is absent from the
// display-identifier mapping. Mapping misses decorate, they never filter.
const UnknownDisplay = "-"

// EntityDisplayInfo maps a stable entity identifier to its display ticker
// and company name.
type EntityDisplayInfo struct {
	EntityID int64  `json:"entity_id"` // CIK
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
}
