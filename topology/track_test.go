package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/model"
	"github.com/transitmap/topology/testutil"
)

func allNodes(t *testing.T, n int) []model.Element {
	var elements []model.Element
	for i := int64(0); i < int64(n); i++ {
		elements = append(elements, *testutil.Node(t, i, float64(i)*0.001, 0, nil))
	}
	return elements
}

func TestStitchTracksSimpleChain(t *testing.T) {
	elements := allNodes(t, 6)
	wayA := *testutil.Way(t, 100, []int64{0, 1, 2}, map[string]string{"railway": "rail"})
	wayB := *testutil.Way(t, 101, []int64{2, 3, 4}, map[string]string{"railway": "rail"})
	store := elementstore.New(append(elements, wayA, wayB))

	rel := testutil.Relation(t, 1, []model.Member{
		testutil.Member("", model.KindWay, 100),
		testutil.Member("", model.KindWay, 101),
	}, map[string]string{"type": "route"})

	nodes, diags := StitchTracks(rel, store)
	assert.Empty(t, diags)
	require.Equal(t, []int64{0, 1, 2, 3, 4}, nodes)
}

func TestStitchTracksBackwardRole(t *testing.T) {
	elements := allNodes(t, 4)
	wayA := *testutil.Way(t, 100, []int64{0, 1}, map[string]string{"railway": "rail"})
	wayB := *testutil.Way(t, 101, []int64{3, 2, 1}, map[string]string{"railway": "rail"})
	store := elementstore.New(append(elements, wayA, wayB))

	rel := testutil.Relation(t, 1, []model.Member{
		testutil.Member("", model.KindWay, 100),
		testutil.Member("backward", model.KindWay, 101),
	}, map[string]string{"type": "route"})

	nodes, _ := StitchTracks(rel, store)
	require.Equal(t, []int64{0, 1, 2, 3}, nodes)
}

func TestStitchTracksHoleWarns(t *testing.T) {
	elements := allNodes(t, 6)
	wayA := *testutil.Way(t, 100, []int64{0, 1}, map[string]string{"railway": "rail"})
	wayB := *testutil.Way(t, 101, []int64{4, 5}, map[string]string{"railway": "rail"})
	store := elementstore.New(append(elements, wayA, wayB))

	rel := testutil.Relation(t, 1, []model.Member{
		testutil.Member("", model.KindWay, 100),
		testutil.Member("", model.KindWay, 101),
	}, map[string]string{"type": "route"})

	_, diags := StitchTracks(rel, store)
	require.Len(t, diags, 1)
	assert.Equal(t, model.SeverityWarning, diags[0].Severity)
}

func TestStitchTracksIgnoresNonTrackWays(t *testing.T) {
	elements := allNodes(t, 3)
	platform := *testutil.Way(t, 200, []int64{0, 1}, map[string]string{"railway": "platform"})
	track := *testutil.Way(t, 100, []int64{1, 2}, map[string]string{"railway": "rail"})
	store := elementstore.New(append(elements, platform, track))

	rel := testutil.Relation(t, 1, []model.Member{
		testutil.Member("", model.KindWay, 200),
		testutil.Member("", model.KindWay, 100),
	}, map[string]string{"type": "route"})

	nodes, _ := StitchTracks(rel, store)
	require.Equal(t, []int64{1, 2}, nodes)
}
