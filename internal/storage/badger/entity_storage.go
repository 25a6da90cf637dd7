package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// listSnapshot is the stored record: the full entity set for one source
// list as of its last successful refresh. Precomputed fields are not
// persisted; they are rebuilt when the snapshot is loaded into the index.
type listSnapshot struct {
	Source      string
	Entities    []*models.Entity
	RefreshedAt time.Time
}

// EntityStorage implements the EntityCache interface for Badger
type EntityStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEntityStorage creates a new EntityStorage instance
func NewEntityStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EntityCache {
	return &EntityStorage{
		db:     db,
		logger: logger,
	}
}

// SaveSnapshot replaces the cached entity set for a source list.
func (s *EntityStorage) SaveSnapshot(source models.SourceList, entities []*models.Entity, refreshedAt time.Time) error {
	if source == "" {
		return fmt.Errorf("source is required")
	}

	stored := make([]*models.Entity, 0, len(entities))
	for _, e := range entities {
		c := *e
		c.Prepared = nil
		stored = append(stored, &c)
	}

	snap := &listSnapshot{
		Source:      string(source),
		Entities:    stored,
		RefreshedAt: refreshedAt,
	}
	if err := s.db.Store().Upsert(string(source), snap); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", source, err)
	}

	s.logger.Debug().
		Str("source", string(source)).
		Int("entities", len(stored)).
		Msg("Cached entity snapshot")
	return nil
}

// LoadSnapshot returns the cached entities for one source list and the
// time they were refreshed. A missing snapshot is not an error; it
// returns an empty slice and a zero time.
func (s *EntityStorage) LoadSnapshot(source models.SourceList) ([]*models.Entity, time.Time, error) {
	var snap listSnapshot
	if err := s.db.Store().Get(string(source), &snap); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to load snapshot for %s: %w", source, err)
	}
	return snap.Entities, snap.RefreshedAt, nil
}

// LoadAll returns every cached entity across all source lists.
func (s *EntityStorage) LoadAll() ([]*models.Entity, error) {
	var snaps []listSnapshot
	if err := s.db.Store().Find(&snaps, nil); err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	var entities []*models.Entity
	for _, snap := range snaps {
		entities = append(entities, snap.Entities...)
	}
	return entities, nil
}

// RefreshedAt returns per-source refresh timestamps for cached lists.
func (s *EntityStorage) RefreshedAt() (map[models.SourceList]time.Time, error) {
	var snaps []listSnapshot
	if err := s.db.Store().Find(&snaps, nil); err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	stamps := make(map[models.SourceList]time.Time, len(snaps))
	for _, snap := range snaps {
		stamps[models.SourceList(snap.Source)] = snap.RefreshedAt
	}
	return stamps, nil
}
