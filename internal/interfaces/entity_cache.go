package interfaces

import (
	"time"

	"github.com/ternarybob/vigil/internal/models"
)

// EntityCache persists per-source watchlist snapshots between restarts.
type EntityCache interface {
	// SaveSnapshot replaces the cached entity set for a source list.
	SaveSnapshot(source models.SourceList, entities []*models.Entity, refreshedAt time.Time) error

	// LoadSnapshot returns the cached entities for one source list and
	// when they were refreshed; a missing snapshot returns a zero time.
	LoadSnapshot(source models.SourceList) ([]*models.Entity, time.Time, error)

	// LoadAll returns every cached entity across all source lists.
	LoadAll() ([]*models.Entity, error)

	// RefreshedAt returns per-source refresh timestamps.
	RefreshedAt() (map[models.SourceList]time.Time, error)
}
