package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/model"
)

func TestJSONFileStoreGetMissingReturnsNotOK(t *testing.T) {
	store, err := NewJSONFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	entry, ok, err := store.Get("berlin")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestJSONFileStorePutThenGetRoundTrips(t *testing.T) {
	store, err := NewJSONFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	entry := &Entry{
		CityID:      "berlin",
		SourceHash:  "abc123",
		GoodExport:  &model.Export{},
		BadElements: map[int64]bool{42: true},
		RetrievedAt: "2026-07-30T00:00:00Z",
	}
	require.NoError(t, store.Put(entry))

	got, ok, err := store.Get("berlin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.SourceHash, got.SourceHash)
	assert.True(t, got.BadElements[42])
	require.NotNil(t, got.GoodExport)
}

func TestJSONFileStoreStatsCountsGoodAndBad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(&Entry{
		CityID:      "berlin",
		GoodExport:  &model.Export{},
		BadElements: map[int64]bool{1: true, 2: true},
	}))
	require.NoError(t, store.Put(&Entry{
		CityID:      "hamburg",
		BadElements: map[int64]bool{3: true},
	}))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Cities)
	assert.Equal(t, 1, stats.GoodCities)
	assert.Equal(t, 3, stats.BadElements)
}

func TestJSONFileStorePathIsJSONUnderDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "berlin.json"), store.path("berlin"))
}
