package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCityGoodRequiresNoErrors(t *testing.T) {
	c := NewCity(CityMeta{ID: "berlin"})
	assert.True(t, c.Good())

	c.AddWarning(ElementRef{}, "minor issue")
	assert.True(t, c.Good())

	c.AddError(ElementRef{}, "broken route")
	assert.False(t, c.Good())
}

func TestCityStatisticsCountsStationsOnce(t *testing.T) {
	c := NewCity(CityMeta{ID: "berlin"})
	station := &Station{ID: ID{Kind: KindNode, Num: 1}}
	sa := NewStopArea(station.ID, station)

	c.StationIndex[station.ID] = []*StopArea{sa}
	c.RouteMasters["U1"] = &RouteMaster{Mode: ModeSubway}
	c.RouteMasters["T1"] = &RouteMaster{Mode: ModeTram}
	c.Transfers = []*Transfer{{}}

	stats := c.Statistics()
	assert.Equal(t, 1, stats.Stations)
	assert.Equal(t, 1, stats.SubwayLines)
	assert.Equal(t, 1, stats.LightRailLines)
	assert.Equal(t, 1, stats.Interchanges)
}

func TestBBoxContains(t *testing.T) {
	b := BBox{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}
	assert.True(t, b.Contains(Point{Lon: 5, Lat: 5}))
	assert.False(t, b.Contains(Point{Lon: 20, Lat: 5}))
}
