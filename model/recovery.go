package model

// RecoveryKey keys a city's recovery data by the variant's (colour, ref);
// the JSON and SQLite stores persist the two as separate fields.
type RecoveryKey struct {
	Colour string
	Ref    string
}

// RecoveryStation is one station appearance in a recovered itinerary.
type RecoveryStation struct {
	OSMID  int64
	Name   string
	Center Point
}

// RecoveryItinerary is a prior run's stop ordering for one route variant,
// consulted when the current run's stop ordering can't be resolved on
// its own.
type RecoveryItinerary struct {
	Stations []RecoveryStation
	Name     string
	From     string
	To       string
}

// RecoveryData is the recovery payload attached to a City before
// validation.
type RecoveryData struct {
	ByKey map[RecoveryKey][]RecoveryItinerary
}
