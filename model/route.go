package model

// RouteStop is a station appearance inside a route variant.
type RouteStop struct {
	StopArea *StopArea

	// StopPoint is the raw coordinate used for projection: the
	// stop-position, or the platform centre, or the station centre, in
	// that preference order.
	StopPoint Point

	CanEnter bool
	CanExit  bool

	SeenStop          bool
	SeenPlatformEntry bool
	SeenPlatformExit  bool

	PlatformEntryID int64
	PlatformExitID  int64

	// Projected stop point on the route's track polyline.
	Projected      Point
	HasProjection  bool
	AlongLineDist  float64 // distance from the previous stop, meters; 0 for the first stop (the cumulative distance is not stored)

	// Fractional vertex indices where the projected point occurs on the
	// polyline; a list because the polyline may revisit a segment.
	PositionsOnRails []float64

	// ChosenPosition is the positions-on-rails entry picked by the
	// ordering walk.
	ChosenPosition float64
}

// Route is one route relation ("variant") reconstructed from its
// member ways and stop references.
type Route struct {
	ID         ID
	Ref        string
	Name       string
	Mode       Mode
	Network    string
	Interval   float64 // minutes; 0 means unspecified
	Colour     string
	Infill     string
	From       string // relation's "from" tag, used for recovery disambiguation
	To         string // relation's "to" tag
	Stops      []*RouteStop
	Track      []Point
	IsCircular bool

	// CumulativeSeconds[i] is the travel time in seconds from the first
	// stop to Stops[i].
	CumulativeSeconds []int
}

// RouteMaster groups variants sharing a master relation, or a single
// ref-keyed variant when no master exists.
type RouteMaster struct {
	ID       ID
	HasID    bool // false when there's no master relation and ID is synthetic
	Ref      string
	Colour   string
	Infill   string
	Mode     Mode
	Network  string
	Name     string
	Interval float64 // minutes

	Variants  []*Route
	Canonical *Route
}

// BestVariant returns the variant with the most stops, ties broken by
// first-seen (stable order).
func (rm *RouteMaster) BestVariant() *Route {
	if len(rm.Variants) == 0 {
		return nil
	}
	best := rm.Variants[0]
	for _, v := range rm.Variants[1:] {
		if len(v.Stops) > len(best.Stops) {
			best = v
		}
	}
	return best
}
