package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/index"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// stubLoader serves a fixed entity set, or a fixed error.
type stubLoader struct {
	source   models.SourceList
	entities []*models.Entity
	err      error
}

func (l *stubLoader) Source() models.SourceList { return l.source }

func (l *stubLoader) Load(ctx context.Context) ([]*models.Entity, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.entities, nil
}

// stubCache is an in-memory EntityCache.
type stubCache struct {
	snapshots map[models.SourceList][]*models.Entity
	refreshed map[models.SourceList]time.Time
}

func newStubCache() *stubCache {
	return &stubCache{
		snapshots: make(map[models.SourceList][]*models.Entity),
		refreshed: make(map[models.SourceList]time.Time),
	}
}

func (c *stubCache) SaveSnapshot(source models.SourceList, entities []*models.Entity, refreshedAt time.Time) error {
	c.snapshots[source] = entities
	c.refreshed[source] = refreshedAt
	return nil
}

func (c *stubCache) LoadSnapshot(source models.SourceList) ([]*models.Entity, time.Time, error) {
	return c.snapshots[source], c.refreshed[source], nil
}

func (c *stubCache) LoadAll() ([]*models.Entity, error) {
	var all []*models.Entity
	for _, entities := range c.snapshots {
		all = append(all, entities...)
	}
	return all, nil
}

func (c *stubCache) RefreshedAt() (map[models.SourceList]time.Time, error) {
	return c.refreshed, nil
}

func listEntity(id string, source models.SourceList) *models.Entity {
	return &models.Entity{
		ID: id, SourceID: id, Source: source,
		Type: models.EntityPerson, Name: "Entity " + id,
	}
}

func TestRefreshReplacesIndex(t *testing.T) {
	idx := index.New()
	idx.Replace([]*models.Entity{listEntity("stale", models.SourceEUCSL)})

	svc := NewService([]interfaces.ListLoader{
		&stubLoader{source: models.SourceOFACSDN, entities: []*models.Entity{
			listEntity("1001", models.SourceOFACSDN),
			listEntity("1002", models.SourceOFACSDN),
		}},
		&stubLoader{source: models.SourceUKCSL, entities: []*models.Entity{
			listEntity("2001", models.SourceUKCSL),
		}},
	}, idx, nil, common.RefreshConfig{RatePerSecond: 100}, common.GetLogger())

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 3, idx.Len())
	assert.Empty(t, idx.Candidates(models.SourceEUCSL, ""))

	status := svc.Status()
	assert.False(t, status.Refreshing)
	assert.False(t, status.LastRefresh.IsZero())
	assert.Empty(t, status.LastError)
	assert.Equal(t, 3, status.IndexSize)
}

func TestRefreshPersistsSnapshots(t *testing.T) {
	idx := index.New()
	cache := newStubCache()
	svc := NewService([]interfaces.ListLoader{
		&stubLoader{source: models.SourceOFACSDN, entities: []*models.Entity{
			listEntity("1001", models.SourceOFACSDN),
		}},
	}, idx, cache, common.RefreshConfig{RatePerSecond: 100}, common.GetLogger())

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Len(t, cache.snapshots[models.SourceOFACSDN], 1)
	assert.False(t, cache.refreshed[models.SourceOFACSDN].IsZero())
}

func TestRefreshFailedListKeepsCachedEntities(t *testing.T) {
	idx := index.New()
	cache := newStubCache()
	require.NoError(t, cache.SaveSnapshot(models.SourceUKCSL, []*models.Entity{
		listEntity("2001", models.SourceUKCSL),
	}, time.Now()))

	svc := NewService([]interfaces.ListLoader{
		&stubLoader{source: models.SourceOFACSDN, entities: []*models.Entity{
			listEntity("1001", models.SourceOFACSDN),
		}},
		&stubLoader{source: models.SourceUKCSL, err: errors.New("upstream unavailable")},
	}, idx, cache, common.RefreshConfig{RatePerSecond: 100}, common.GetLogger())

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UK_CSL")

	// The fresh OFAC load and the cached UK snapshot both serve.
	assert.Equal(t, 2, idx.Len())
	assert.Len(t, idx.Candidates(models.SourceUKCSL, ""), 1)
	assert.Contains(t, svc.Status().LastError, "UK_CSL")
}

func TestRefreshCancelled(t *testing.T) {
	idx := index.New()
	svc := NewService([]interfaces.ListLoader{
		&stubLoader{source: models.SourceOFACSDN},
	}, idx, nil, common.RefreshConfig{RatePerSecond: 100}, common.GetLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, svc.Refresh(ctx))
}

func TestWarmFromCache(t *testing.T) {
	idx := index.New()
	cache := newStubCache()
	require.NoError(t, cache.SaveSnapshot(models.SourceOFACSDN, []*models.Entity{
		listEntity("1001", models.SourceOFACSDN),
		listEntity("1002", models.SourceOFACSDN),
	}, time.Now()))

	svc := NewService(nil, idx, cache, common.RefreshConfig{}, common.GetLogger())
	svc.Warm()

	assert.Equal(t, 2, idx.Len())
	got := idx.Candidates(models.SourceOFACSDN, models.EntityPerson)
	require.Len(t, got, 2)
	assert.NotNil(t, got[0].Prepared)
}

func TestWarmWithoutCache(t *testing.T) {
	idx := index.New()
	svc := NewService(nil, idx, nil, common.RefreshConfig{}, common.GetLogger())
	svc.Warm()
	assert.Zero(t, idx.Len())
}

func TestStartTwice(t *testing.T) {
	idx := index.New()
	svc := NewService(nil, idx, nil, common.RefreshConfig{}, common.GetLogger())
	defer svc.Stop()

	require.NoError(t, svc.Start(context.Background(), ""))
	assert.Error(t, svc.Start(context.Background(), ""))
}
