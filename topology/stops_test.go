package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/model"
	"github.com/transitmap/topology/testutil"
)

func stopAreaFor(num int64) *model.StopArea {
	station := &model.Station{ID: model.ID{Kind: model.KindNode, Num: num}}
	return model.NewStopArea(station.ID, station)
}

func TestExtractStopsMergesStopAndPlatform(t *testing.T) {
	stopNode := *testutil.Node(t, 1, 0, 0, map[string]string{"railway": "stop"})
	platformNode := *testutil.Node(t, 2, 0.0001, 0, map[string]string{"railway": "platform"})
	store := elementstore.New([]model.Element{stopNode, platformNode})

	sa := stopAreaFor(1)
	byElement := map[int64]*model.StopArea{1: sa, 2: sa}

	rel := testutil.Relation(t, 10, []model.Member{
		testutil.Member("stop", model.KindNode, 1),
		testutil.Member("platform", model.KindNode, 2),
	}, map[string]string{"type": "route"})

	stops, diags, circular := ExtractStops(rel, store, byElement)
	assert.Empty(t, diags)
	assert.False(t, circular)
	require.Len(t, stops, 1)
	assert.True(t, stops[0].SeenStop)
	assert.True(t, stops[0].SeenPlatformEntry)
}

func TestExtractStopsUnresolvedWarns(t *testing.T) {
	stopNode := *testutil.Node(t, 1, 0, 0, map[string]string{"railway": "stop"})
	store := elementstore.New([]model.Element{stopNode})

	rel := testutil.Relation(t, 10, []model.Member{
		testutil.Member("stop", model.KindNode, 1),
	}, map[string]string{"type": "route"})

	stops, diags, _ := ExtractStops(rel, store, map[int64]*model.StopArea{})
	assert.Empty(t, stops)
	require.Len(t, diags, 1)
	assert.Equal(t, model.SeverityWarning, diags[0].Severity)
}

func TestExtractStopsDetectsCircular(t *testing.T) {
	a := stopAreaFor(1)
	b := stopAreaFor(2)
	nodeA := *testutil.Node(t, 1, 0, 0, map[string]string{"railway": "stop"})
	nodeB := *testutil.Node(t, 2, 1, 0, map[string]string{"railway": "stop"})
	store := elementstore.New([]model.Element{nodeA, nodeB})
	byElement := map[int64]*model.StopArea{1: a, 2: b}

	rel := testutil.Relation(t, 10, []model.Member{
		testutil.Member("stop", model.KindNode, 1),
		testutil.Member("stop", model.KindNode, 2),
		testutil.Member("stop", model.KindNode, 1),
	}, map[string]string{"type": "route"})

	stops, _, circular := ExtractStops(rel, store, byElement)
	assert.True(t, circular)
	assert.Len(t, stops, 2)
}

func TestDetectReplayTruncatesMirroredSequence(t *testing.T) {
	a := stopAreaFor(1)
	b := stopAreaFor(2)
	stops := []*model.RouteStop{
		{StopArea: a}, {StopArea: b}, {StopArea: b}, {StopArea: a},
	}
	idx := detectReplay(stops)
	require.Equal(t, 2, idx)
}

func TestDetectReplayNoMirrorReturnsZero(t *testing.T) {
	a := stopAreaFor(1)
	b := stopAreaFor(2)
	c := stopAreaFor(3)
	stops := []*model.RouteStop{
		{StopArea: a}, {StopArea: b}, {StopArea: c},
	}
	assert.Equal(t, 0, detectReplay(stops))
}
