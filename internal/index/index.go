// Package index holds the in-memory watchlist entity index. Writers
// publish whole snapshots atomically; readers capture one snapshot pointer
// and use it for the duration of a query, so they never observe a
// half-updated view.
package index

import (
	"sync"
	"sync/atomic"

	"github.com/ternarybob/vigil/internal/models"
)

type sourceTypeKey struct {
	source models.SourceList
	typ    models.EntityType
}

// snapshot is one immutable published state of the index.
type snapshot struct {
	all          []*models.Entity
	bySource     map[models.SourceList][]*models.Entity
	bySourceType map[sourceTypeKey][]*models.Entity
}

// Index is the append/replace-all entity container. Safe for any number of
// concurrent readers; writes serialize through an internal mutex.
type Index struct {
	writeMu sync.Mutex
	snap    atomic.Pointer[snapshot]
}

// New returns an empty index.
func New() *Index {
	idx := &Index{}
	idx.snap.Store(buildSnapshot(nil))
	return idx
}

// Replace atomically publishes entities as the new full index state.
// Every entity is normalized before publication so scoring never races a
// lazy preparation.
func (idx *Index) Replace(entities []*models.Entity) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	for _, e := range entities {
		e.EnsurePrepared()
	}
	idx.snap.Store(buildSnapshot(entities))
}

// Append publishes a new snapshot containing the current entities plus the
// given ones.
func (idx *Index) Append(entities []*models.Entity) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	current := idx.snap.Load()
	merged := make([]*models.Entity, 0, len(current.all)+len(entities))
	merged = append(merged, current.all...)
	for _, e := range entities {
		e.EnsurePrepared()
		merged = append(merged, e)
	}
	idx.snap.Store(buildSnapshot(merged))
}

// Candidates returns the entity pool matching the optional source and type
// filters. The returned slice is shared snapshot state and must not be
// modified.
func (idx *Index) Candidates(source models.SourceList, typ models.EntityType) []*models.Entity {
	snap := idx.snap.Load()

	switch {
	case source != "" && typ != "" && typ != models.EntityUnknown:
		return snap.bySourceType[sourceTypeKey{source: source, typ: typ}]
	case source != "":
		return snap.bySource[source]
	case typ != "" && typ != models.EntityUnknown:
		// Type-only filters are rare; collect across sources.
		var out []*models.Entity
		for key, list := range snap.bySourceType {
			if key.typ == typ {
				out = append(out, list...)
			}
		}
		return out
	default:
		return snap.all
	}
}

// Len is the number of indexed entities.
func (idx *Index) Len() int {
	return len(idx.snap.Load().all)
}

// CountsBySource reports indexed entity counts per source list.
func (idx *Index) CountsBySource() map[models.SourceList]int {
	snap := idx.snap.Load()
	out := make(map[models.SourceList]int, len(snap.bySource))
	for source, list := range snap.bySource {
		out[source] = len(list)
	}
	return out
}

func buildSnapshot(entities []*models.Entity) *snapshot {
	snap := &snapshot{
		all:          entities,
		bySource:     make(map[models.SourceList][]*models.Entity),
		bySourceType: make(map[sourceTypeKey][]*models.Entity),
	}
	for _, e := range entities {
		snap.bySource[e.Source] = append(snap.bySource[e.Source], e)
		key := sourceTypeKey{source: e.Source, typ: e.Type}
		snap.bySourceType[key] = append(snap.bySourceType[key], e)
	}
	return snap
}
