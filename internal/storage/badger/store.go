// Package badger persists canonical series, display mappings, and screen runs
// using BadgerHold.
package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/annscreen/internal/common"
)

// Store wraps one BadgerHold database shared by the typed storage types.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) the database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Storage opened")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
