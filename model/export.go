package model

// ExportEntrance is one entrance/exit record attached to an exported
// stop.
type ExportEntrance struct {
	OSMType string `json:"osm_type"`
	OSMID   int64  `json:"osm_id"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Cost    int     `json:"distance"` // seconds
}

// ExportStop is one exported station.
type ExportStop struct {
	UID       int64            `json:"id"`
	Name      string           `json:"name"`
	IntName   string           `json:"int_name,omitempty"`
	Lon       float64          `json:"lon"`
	Lat       float64          `json:"lat"`
	OSMType   string           `json:"osm_type"`
	OSMID     int64            `json:"osm_id"`
	Entrances []ExportEntrance `json:"entrances"`
	Exits     []ExportEntrance `json:"exits"`
}

// ExportItineraryStop is one (stop_uid, cumulative_seconds) pair.
type ExportItineraryStop struct {
	UID            int64 `json:"id"`
	CumulativeSecs int   `json:"seconds"`
}

// ExportItinerary is an ordered sequence of stops with cumulative travel
// times within a route variant.
type ExportItinerary struct {
	Stops    []ExportItineraryStop `json:"stops"`
	Interval int                   `json:"interval"` // seconds
}

// ExportRoute is one exported route within a network.
type ExportRoute struct {
	Type        Mode              `json:"type"`
	Ref         string            `json:"ref"`
	Name        string            `json:"name"`
	Colour      string            `json:"colour"`
	RouteUID    int64             `json:"id"`
	Itineraries []ExportItinerary `json:"itineraries"`
}

// ExportNetwork groups routes under a network/agency.
type ExportNetwork struct {
	Network  string        `json:"network"`
	AgencyID string        `json:"agency_id,omitempty"`
	Routes   []ExportRoute `json:"routes"`
}

// ExportTransfer is a transfer edge: uid1 < uid2 "Uid encoding".
type ExportTransfer struct {
	UID1    int64 `json:"id1"`
	UID2    int64 `json:"id2"`
	Seconds int   `json:"seconds"`
}

// Export is the full export record.
type Export struct {
	Stops     []ExportStop     `json:"stops"`
	Transfers []ExportTransfer `json:"transfers"`
	Networks  []ExportNetwork  `json:"networks"`
}
