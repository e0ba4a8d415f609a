package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/model"
)

func sampleRoute(id int64, ref, colour string, numStops int, circular bool) *model.Route {
	var stops []*model.RouteStop
	for i := 0; i < numStops; i++ {
		stops = append(stops, &model.RouteStop{StopArea: stopAreaFor(int64(i))})
	}
	return &model.Route{
		ID:         model.ID{Kind: model.KindRelation, Num: id},
		Ref:        ref,
		Colour:     colour,
		Stops:      stops,
		IsCircular: circular,
	}
}

func TestAssembleRouteMasterPicksLongestVariant(t *testing.T) {
	short := sampleRoute(1, "U1", "red", 3, false)
	long := sampleRoute(2, "U1", "red", 5, false)

	rm, diags := AssembleRouteMaster(GroupKey{Colour: "red", Ref: "U1"}, []*model.Route{short, long})
	require.NotNil(t, rm)
	assert.Empty(t, diags)
	assert.Same(t, long, rm.Canonical)
}

func TestAssembleRouteMasterColourMismatchWarns(t *testing.T) {
	a := sampleRoute(1, "U1", "red", 3, false)
	b := sampleRoute(2, "U1", "blue", 3, false)

	_, diags := AssembleRouteMaster(GroupKey{Ref: "U1"}, []*model.Route{a, b})
	var found bool
	for _, d := range diags {
		if d.Severity == model.SeverityWarning {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssembleRouteMasterRefMismatchErrors(t *testing.T) {
	a := sampleRoute(1, "U1", "red", 3, false)
	b := sampleRoute(2, "U2", "red", 3, false)

	_, diags := AssembleRouteMaster(GroupKey{}, []*model.Route{a, b})
	var found bool
	for _, d := range diags {
		if d.Severity == model.SeverityError {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHasAnyReturnDetectsOutAndBackPair(t *testing.T) {
	s1, s2 := stopAreaFor(1), stopAreaFor(2)
	out := &model.Route{Stops: []*model.RouteStop{{StopArea: s1}, {StopArea: s2}}}
	back := &model.Route{Stops: []*model.RouteStop{{StopArea: s2}, {StopArea: s1}}}

	assert.True(t, HasAnyReturn([]*model.Route{out, back}))
}

func TestHasAnyReturnCircularAlone(t *testing.T) {
	loop := &model.Route{IsCircular: true}
	assert.True(t, HasAnyReturn([]*model.Route{loop}))
}

func TestHasAnyReturnFalseForSingleOneWay(t *testing.T) {
	one := sampleRoute(1, "U1", "red", 3, false)
	assert.False(t, HasAnyReturn([]*model.Route{one}))
}

func TestGroupRoutesByMasterGroupsByMasterID(t *testing.T) {
	a := sampleRoute(1, "U1", "red", 3, false)
	b := sampleRoute(2, "U1", "red", 3, false)
	masterID := model.ID{Kind: model.KindRelation, Num: 99}

	groups := GroupRoutesByMaster([]*model.Route{a, b}, map[int64]model.ID{1: masterID, 2: masterID})
	require.Len(t, groups, 1)
	for key, variants := range groups {
		assert.True(t, key.HasID)
		assert.Equal(t, masterID, key.MasterID)
		assert.Len(t, variants, 2)
	}
}

func TestGroupRoutesByMasterFallsBackToColourRef(t *testing.T) {
	a := sampleRoute(1, "U1", "red", 3, false)
	b := sampleRoute(2, "U1", "red", 3, false)

	groups := GroupRoutesByMaster([]*model.Route{a, b}, map[int64]model.ID{})
	require.Len(t, groups, 1)
	for key, variants := range groups {
		assert.False(t, key.HasID)
		assert.Equal(t, "red", key.Colour)
		assert.Len(t, variants, 2)
	}
}
