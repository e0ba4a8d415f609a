package topology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/model"
)

func straightTrack(n int) []model.Point {
	track := make([]model.Point, n)
	for i := range track {
		track[i] = model.Point{Lon: float64(i) * 0.001, Lat: 0}
	}
	return track
}

func TestProjectAndOrderStopsAscending(t *testing.T) {
	track := straightTrack(5)
	stops := []*model.RouteStop{
		{StopArea: stopAreaFor(1), StopPoint: model.Point{Lon: 0, Lat: 0}},
		{StopArea: stopAreaFor(2), StopPoint: model.Point{Lon: 0.002, Lat: 0}},
		{StopArea: stopAreaFor(3), StopPoint: model.Point{Lon: 0.004, Lat: 0}},
	}

	tunables := config.Default()
	diags := ProjectStops(stops, track, tunables)
	assert.Empty(t, diags)

	orderedTrack, orderDiags := OrderStops(stops, track, false, tunables, nil)
	assert.Empty(t, orderDiags)
	require.Equal(t, track, orderedTrack)

	for i := 1; i < len(stops); i++ {
		assert.GreaterOrEqual(t, stops[i].ChosenPosition, stops[i-1].ChosenPosition)
	}
}

func TestOrderStopsDetectsReversedTrack(t *testing.T) {
	track := straightTrack(5)
	stops := []*model.RouteStop{
		{StopArea: stopAreaFor(1), StopPoint: model.Point{Lon: 0.004, Lat: 0}},
		{StopArea: stopAreaFor(2), StopPoint: model.Point{Lon: 0.002, Lat: 0}},
		{StopArea: stopAreaFor(3), StopPoint: model.Point{Lon: 0, Lat: 0}},
	}

	tunables := config.Default()
	ProjectStops(stops, track, tunables)
	reversedTrack, diags := OrderStops(stops, track, false, tunables, nil)

	require.Len(t, diags, 1)
	assert.Equal(t, track[0], reversedTrack[len(reversedTrack)-1])
}

func TestComputeAlongLineDistancesPrefersRailDistance(t *testing.T) {
	track := straightTrack(3)
	stops := []*model.RouteStop{
		{StopArea: stopAreaFor(1), StopPoint: model.Point{Lon: 0, Lat: 0}},
		{StopArea: stopAreaFor(2), StopPoint: model.Point{Lon: 0.002, Lat: 0}},
	}
	ProjectStops(stops, track, config.Default())
	OrderStops(stops, track, false, config.Default(), nil)
	ComputeAlongLineDistances(stops, track)

	assert.Equal(t, float64(0), stops[0].AlongLineDist)
	assert.Greater(t, stops[1].AlongLineDist, float64(0))
}

func TestProjectStopsNoTrackWarns(t *testing.T) {
	stops := []*model.RouteStop{{StopArea: stopAreaFor(1), StopPoint: model.Point{Lon: 0, Lat: 0}}}
	diags := ProjectStops(stops, nil, config.Default())
	require.Len(t, diags, 1)
}

func TestOrderStopsRecoveryReordersAndDowngradesViolations(t *testing.T) {
	track := straightTrack(5)
	s1, s2, s3, s4 := stopAreaFor(1), stopAreaFor(2), stopAreaFor(3), stopAreaFor(4)
	stops := []*model.RouteStop{
		{StopArea: s1, StopPoint: model.Point{Lon: 0, Lat: 0}},
		{StopArea: s3, StopPoint: model.Point{Lon: 0.003, Lat: 0}},
		{StopArea: s2, StopPoint: model.Point{Lon: 0.001, Lat: 0}},
		{StopArea: s4, StopPoint: model.Point{Lon: 0.004, Lat: 0}},
	}
	tunables := config.Default()
	ProjectStops(stops, track, tunables)

	recoveryItin := &model.RecoveryItinerary{
		Stations: []model.RecoveryStation{
			{OSMID: 1}, {OSMID: 3}, {OSMID: 2}, {OSMID: 4},
		},
	}

	_, diags := OrderStops(stops, track, false, tunables, recoveryItin)

	var recoveryDiags int
	for _, d := range diags {
		if d.Severity == model.SeverityWarning && strings.Contains(d.Message, "Fixed with recovery data") {
			recoveryDiags++
		}
		if strings.Contains(d.Message, "stop order violation") {
			assert.NotEqual(t, model.SeverityError, d.Severity, "order errors should be downgraded once recovery reorders the stops")
		}
	}
	assert.Equal(t, 1, recoveryDiags)

	require.Equal(t, []*model.RouteStop{stops[0], stops[1], stops[2], stops[3]}, stops)
	assert.Same(t, s1, stops[0].StopArea)
	assert.Same(t, s3, stops[1].StopArea)
	assert.Same(t, s2, stops[2].StopArea)
	assert.Same(t, s4, stops[3].StopArea)
}

func TestOrderStopsNoRecoveryDataLeavesErrors(t *testing.T) {
	track := straightTrack(5)
	stops := []*model.RouteStop{
		{StopArea: stopAreaFor(1), StopPoint: model.Point{Lon: 0, Lat: 0}},
		{StopArea: stopAreaFor(3), StopPoint: model.Point{Lon: 0.003, Lat: 0}},
		{StopArea: stopAreaFor(2), StopPoint: model.Point{Lon: 0.001, Lat: 0}},
		{StopArea: stopAreaFor(4), StopPoint: model.Point{Lon: 0.004, Lat: 0}},
	}
	tunables := config.Default()
	ProjectStops(stops, track, tunables)

	_, diags := OrderStops(stops, track, false, tunables, nil)

	var hasOrderError bool
	for _, d := range diags {
		if d.Severity == model.SeverityError && strings.Contains(d.Message, "stop order violation") {
			hasOrderError = true
		}
	}
	assert.True(t, hasOrderError)
}

func TestWalkPositionsPicksSmallestAtLeastPrevious(t *testing.T) {
	positions := [][]float64{{0}, {1}, {2}}
	chosen := make([]float64, 3)
	violations := walkPositions(3, false, func(i int) []float64 { return positions[i] }, chosen)
	assert.Empty(t, violations)
	assert.Equal(t, []float64{0, 1, 2}, chosen)
}

func TestWalkPositionsRecordsViolationAndResets(t *testing.T) {
	positions := [][]float64{{5}, {1}, {6}}
	chosen := make([]float64, 3)
	violations := walkPositions(3, false, func(i int) []float64 { return positions[i] }, chosen)
	require.Equal(t, []int{1}, violations)
	assert.Equal(t, []float64{5, 1, 6}, chosen)
}

func TestWalkPositionsCircularTolerantOfOneWrapViolation(t *testing.T) {
	positions := [][]float64{{0}, {1}, {2}}
	chosen := make([]float64, 3)
	violations := walkPositions(3, true, func(i int) []float64 { return positions[i] }, chosen)
	require.Equal(t, []int{0}, violations)
}

func TestMirrorPositionsReflectsAboutTotal(t *testing.T) {
	assert.Equal(t, []float64{4, 2, 0}, mirrorPositions([]float64{0, 2, 4}, 4))
}

func TestSmallestAtLeastReturnsFalseWhenNothingQualifies(t *testing.T) {
	_, ok := smallestAtLeast([]float64{1, 2}, 3)
	assert.False(t, ok)
}

func TestReorderToRecoveryPermutesInPlace(t *testing.T) {
	s1, s2, s3 := stopAreaFor(1), stopAreaFor(2), stopAreaFor(3)
	stops := []*model.RouteStop{{StopArea: s2}, {StopArea: s1}, {StopArea: s3}}

	itin := &model.RecoveryItinerary{Stations: []model.RecoveryStation{{OSMID: 1}, {OSMID: 2}, {OSMID: 3}}}
	ok := reorderToRecovery(stops, itin)
	require.True(t, ok)
	assert.Same(t, s1, stops[0].StopArea)
	assert.Same(t, s2, stops[1].StopArea)
	assert.Same(t, s3, stops[2].StopArea)
}

func TestReorderToRecoveryFailsOnStationCountMismatch(t *testing.T) {
	stops := []*model.RouteStop{{StopArea: stopAreaFor(1)}, {StopArea: stopAreaFor(2)}}
	itin := &model.RecoveryItinerary{Stations: []model.RecoveryStation{{OSMID: 1}}}
	assert.False(t, reorderToRecovery(stops, itin))
}
