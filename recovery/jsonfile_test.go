package recovery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/model"
)

func TestJSONFileStoreLoadMissingFileReturnsEmptyData(t *testing.T) {
	store := NewJSONFileStore(filepath.Join(t.TempDir(), "recovery.json"))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, data.ByKey)
}

func TestJSONFileStoreSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recovery.json")
	store := NewJSONFileStore(path)

	key := model.RecoveryKey{Colour: "009640", Ref: "U1"}
	data := &model.RecoveryData{ByKey: map[model.RecoveryKey][]model.RecoveryItinerary{
		key: {{
			Name: "U1",
			From: "A",
			To:   "B",
			Stations: []model.RecoveryStation{
				{OSMID: 1, Name: "A"},
				{OSMID: 2, Name: "B"},
			},
		}},
	}}
	require.NoError(t, store.Save(data))

	reloaded, err := store.Load()
	require.NoError(t, err)
	itins, ok := reloaded.ByKey[key]
	require.True(t, ok)
	require.Len(t, itins, 1)
	assert.Equal(t, "U1", itins[0].Name)
	require.Len(t, itins[0].Stations, 2)
	assert.Equal(t, int64(2), itins[0].Stations[1].OSMID)
}

func TestJSONFileStoreCloseIsNoop(t *testing.T) {
	store := NewJSONFileStore(filepath.Join(t.TempDir(), "recovery.json"))
	assert.NoError(t, store.Close())
}
