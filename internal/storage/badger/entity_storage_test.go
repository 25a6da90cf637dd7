package badger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/models"
)

func testStorage(t *testing.T) *EntityStorage {
	t.Helper()

	db, err := NewBadgerDB(common.GetLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "vigil-test"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewEntityStorage(db, common.GetLogger()).(*EntityStorage)
}

func cachedEntity(id string, source models.SourceList) *models.Entity {
	e := &models.Entity{
		ID: id, SourceID: id, Source: source,
		Type: models.EntityPerson, Name: "Entity " + id,
	}
	e.Normalize()
	return e
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	storage := testStorage(t)
	refreshedAt := time.Now().Truncate(time.Second)

	err := storage.SaveSnapshot(models.SourceOFACSDN, []*models.Entity{
		cachedEntity("1001", models.SourceOFACSDN),
		cachedEntity("1002", models.SourceOFACSDN),
	}, refreshedAt)
	require.NoError(t, err)

	entities, got, err := storage.LoadSnapshot(models.SourceOFACSDN)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "Entity 1001", entities[0].Name)
	assert.True(t, got.Equal(refreshedAt))

	// Prepared fields are rebuilt on load, never persisted.
	assert.Nil(t, entities[0].Prepared)
}

func TestLoadSnapshotMissing(t *testing.T) {
	storage := testStorage(t)

	entities, refreshedAt, err := storage.LoadSnapshot(models.SourceUKCSL)
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.True(t, refreshedAt.IsZero())
}

func TestSaveSnapshotReplaces(t *testing.T) {
	storage := testStorage(t)

	require.NoError(t, storage.SaveSnapshot(models.SourceOFACSDN, []*models.Entity{
		cachedEntity("1001", models.SourceOFACSDN),
		cachedEntity("1002", models.SourceOFACSDN),
	}, time.Now()))
	require.NoError(t, storage.SaveSnapshot(models.SourceOFACSDN, []*models.Entity{
		cachedEntity("1003", models.SourceOFACSDN),
	}, time.Now()))

	entities, _, err := storage.LoadSnapshot(models.SourceOFACSDN)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "1003", entities[0].ID)
}

func TestSaveSnapshotRequiresSource(t *testing.T) {
	storage := testStorage(t)
	assert.Error(t, storage.SaveSnapshot("", nil, time.Now()))
}

func TestLoadAll(t *testing.T) {
	storage := testStorage(t)

	require.NoError(t, storage.SaveSnapshot(models.SourceOFACSDN, []*models.Entity{
		cachedEntity("1001", models.SourceOFACSDN),
	}, time.Now()))
	require.NoError(t, storage.SaveSnapshot(models.SourceUKCSL, []*models.Entity{
		cachedEntity("2001", models.SourceUKCSL),
		cachedEntity("2002", models.SourceUKCSL),
	}, time.Now()))

	entities, err := storage.LoadAll()
	require.NoError(t, err)
	assert.Len(t, entities, 3)
}

func TestRefreshedAt(t *testing.T) {
	storage := testStorage(t)
	ofacTime := time.Now().Add(-time.Hour).Truncate(time.Second)
	ukTime := time.Now().Truncate(time.Second)

	require.NoError(t, storage.SaveSnapshot(models.SourceOFACSDN, nil, ofacTime))
	require.NoError(t, storage.SaveSnapshot(models.SourceUKCSL, nil, ukTime))

	stamps, err := storage.RefreshedAt()
	require.NoError(t, err)
	require.Len(t, stamps, 2)
	assert.True(t, stamps[models.SourceOFACSDN].Equal(ofacTime))
	assert.True(t, stamps[models.SourceUKCSL].Equal(ukTime))
}

func TestSaveSnapshotDoesNotMutateInput(t *testing.T) {
	storage := testStorage(t)

	e := cachedEntity("1001", models.SourceOFACSDN)
	require.NotNil(t, e.Prepared)
	require.NoError(t, storage.SaveSnapshot(models.SourceOFACSDN, []*models.Entity{e}, time.Now()))

	// The caller's entity keeps its prepared fields; only the stored
	// copy is stripped.
	assert.NotNil(t, e.Prepared)
}
