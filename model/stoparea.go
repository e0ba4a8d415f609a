package model

// StopArea is the operational unit a route refers to. Built from a
// Station plus an optional stop-area relation.
type StopArea struct {
	ID      ID
	Station *Station

	StopPositions map[int64]bool
	Platforms     map[int64]bool
	Entrances     map[int64]bool
	Exits         map[int64]bool

	// Cached centres of every included sub-element, keyed by numeric id.
	ElementCenters map[int64]Point

	// PlatformNodes holds, for each platform element, the raw node
	// coordinates making it up (a way's member nodes, or a relation's
	// resolved way nodes); a node platform gets a single entry holding
	// its own coordinate.
	PlatformNodes map[int64][]PlatformNode

	Center Point

	TransferGroup *ID // set if this stop area belongs to a Transfer group

	Name    string
	IntName string
	Colour  string
}

// NewStopArea creates an empty StopArea rooted at the given station.
func NewStopArea(id ID, station *Station) *StopArea {
	return &StopArea{
		ID:             id,
		Station:        station,
		StopPositions:  map[int64]bool{},
		Platforms:      map[int64]bool{},
		Entrances:      map[int64]bool{},
		Exits:          map[int64]bool{},
		ElementCenters: map[int64]Point{},
		PlatformNodes:  map[int64][]PlatformNode{},
		Name:           station.Name,
		IntName:        station.IntName,
		Colour:         station.Colour,
	}
}

// PlatformNode is one node of a platform way/relation, kept so entrance
// synthesis can sample candidate exit points along the platform's own
// geometry rather than just its centroid.
type PlatformNode struct {
	ID    int64
	Point Point
}

// RecomputeCenter averages stop positions and platforms when present,
// else inherits the station centre.
func (sa *StopArea) RecomputeCenter() {
	var sumLon, sumLat float64
	n := 0
	for id := range sa.StopPositions {
		if c, ok := sa.ElementCenters[id]; ok {
			sumLon += c.Lon
			sumLat += c.Lat
			n++
		}
	}
	for id := range sa.Platforms {
		if c, ok := sa.ElementCenters[id]; ok {
			sumLon += c.Lon
			sumLat += c.Lat
			n++
		}
	}
	if n == 0 {
		sa.Center = sa.Station.Center
		return
	}
	sa.Center = Point{Lon: sumLon / float64(n), Lat: sumLat / float64(n)}
}
