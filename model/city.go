package model

// CityMeta is catalogue metadata for one city, as read from the city
// catalogue CSV.
type CityMeta struct {
	ID                 string
	Name               string
	Country            string
	Continent          string
	NumStations        int
	NumLines           int
	NumLightLines      int
	NumInterchanges    int
	BBox               BBox
	Modes              ModeSet
	Networks           []string
}

// BBox is a geographic bounding box: min/max lat/lon.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Contains reports whether a point falls inside the bounding box.
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// City is the per-city working set and result of validation.
type City struct {
	Meta CityMeta

	// ElementIDs is the subset of the global snapshot this city owns.
	ElementIDs map[ID]bool

	// StationIndex maps a composite element id to the StopAreas it
	// resolves into. A list, because a stop-area group may share
	// elements across cities.
	StationIndex map[ID][]*StopArea

	RouteMasters map[string]*RouteMaster // keyed by master id string, or ref fallback

	// MasterLookup maps a variant relation id to its owning master
	// relation id (if any).
	MasterLookup map[ID]ID

	Transfers []*Transfer

	Errors   []Diagnostic
	Warnings []Diagnostic

	Recovery *RecoveryData // optional, attached before validation

	UnusedEntranceCount int
}

// NewCity creates an empty City for the given catalogue metadata.
func NewCity(meta CityMeta) *City {
	return &City{
		Meta:         meta,
		ElementIDs:   map[ID]bool{},
		StationIndex: map[ID][]*StopArea{},
		RouteMasters: map[string]*RouteMaster{},
		MasterLookup: map[ID]ID{},
	}
}

// AddError buffers an error-severity diagnostic.
func (c *City) AddError(element ElementRef, format string, args ...interface{}) {
	c.Errors = append(c.Errors, NewError(element, format, args...))
}

// AddWarning buffers a warning-severity diagnostic.
func (c *City) AddWarning(element ElementRef, format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, NewWarning(element, format, args...))
}

// Good reports whether the city is free of errors: an error
// count of zero makes the city eligible for a fresh export; otherwise
// the export stage falls back to a cached snapshot if one exists.
func (c *City) Good() bool {
	return len(c.Errors) == 0
}

// Statistics summarises the validated topology for human-facing
// reporting. It only surfaces counts the pipeline already computed.
type Statistics struct {
	Stations       int
	SubwayLines    int
	LightRailLines int
	Interchanges   int
	UnusedEntrance int
	Errors         int
	Warnings       int
}

// Statistics computes the summary described above.
func (c *City) Statistics() Statistics {
	stats := Statistics{
		UnusedEntrance: c.UnusedEntranceCount,
		Errors:         len(c.Errors),
		Warnings:       len(c.Warnings),
	}
	seen := map[ID]bool{}
	for _, sas := range c.StationIndex {
		for _, sa := range sas {
			if !seen[sa.ID] {
				seen[sa.ID] = true
				stats.Stations++
			}
		}
	}
	for _, rm := range c.RouteMasters {
		switch rm.Mode {
		case ModeSubway, ModeTrain:
			stats.SubwayLines++
		case ModeLightRail, ModeTram:
			stats.LightRailLines++
		}
	}
	stats.Interchanges = len(c.Transfers)
	return stats
}
