package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/model"
	"github.com/transitmap/topology/testutil"
)

func TestClassifyStationSubway(t *testing.T) {
	node := testutil.Node(t, 1, 13.4, 52.5, map[string]string{
		"railway": "station",
		"station": "subway",
		"name":    "Alexanderplatz",
		"colour":  "red",
	})
	store := elementstore.New([]model.Element{*node})

	st, diags, ok := ClassifyStation(node, store, model.NewModeSet(model.ModeSubway))
	require.True(t, ok)
	assert.Empty(t, diags)
	assert.Equal(t, "Alexanderplatz", st.Name)
	assert.Equal(t, "ff0000", st.Colour)
	assert.True(t, st.IsNode)
}

func TestClassifyStationWrongMode(t *testing.T) {
	node := testutil.Node(t, 1, 0, 0, map[string]string{
		"railway": "station",
		"station": "light_rail",
	})
	store := elementstore.New([]model.Element{*node})

	_, _, ok := ClassifyStation(node, store, model.NewModeSet(model.ModeSubway))
	assert.False(t, ok)
}

func TestClassifyStationConstructionExcluded(t *testing.T) {
	node := testutil.Node(t, 1, 0, 0, map[string]string{
		"railway":      "station",
		"station":      "subway",
		"construction": "station",
	})
	store := elementstore.New([]model.Element{*node})

	_, _, ok := ClassifyStation(node, store, model.NewModeSet(model.ModeSubway))
	assert.False(t, ok)
}

func TestClassifyStationNotANodeWarns(t *testing.T) {
	way := testutil.Way(t, 2, []int64{1}, map[string]string{
		"railway": "station",
		"station": "subway",
	})
	node := testutil.Node(t, 1, 1, 1, nil)
	store := elementstore.New([]model.Element{*node, *way})
	store.ComputeCentres()

	st, diags, ok := ClassifyStation(way, store, model.NewModeSet(model.ModeSubway))
	require.True(t, ok)
	assert.False(t, st.IsNode)
	require.Len(t, diags, 1)
	assert.Equal(t, model.SeverityWarning, diags[0].Severity)
}

func TestClassifyStationTramRequiresTramMode(t *testing.T) {
	node := testutil.Node(t, 1, 0, 0, map[string]string{
		"railway": "tram_stop",
		"tram":    "yes",
	})
	store := elementstore.New([]model.Element{*node})

	_, _, ok := ClassifyStation(node, store, model.NewModeSet(model.ModeSubway))
	assert.False(t, ok, "tram_stop should not classify when tram mode is inactive")

	_, _, ok = ClassifyStation(node, store, model.NewModeSet(model.ModeTram))
	assert.True(t, ok)
}
