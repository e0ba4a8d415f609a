// Package cache implements the good/bad city substitution cache: a
// persistent record, keyed by city id, of the last known-good export
// for a city together with the set of element ids that were flagged
// bad. Every run still builds every city; a later run falls back to
// the cached good export only for a city whose current build has
// errors.
package cache

import "github.com/transitmap/topology/model"

// Entry is the cached state for one city.
type Entry struct {
	CityID       string
	SourceHash   string
	GoodExport   *model.Export
	BadElements  map[int64]bool
	RetrievedAt  string
}

// Store is implemented by every cache backend: a JSON-file-backed
// implementation and a SQLite-backed one.
type Store interface {
	Get(cityID string) (*Entry, bool, error)
	Put(entry *Entry) error
	Stats() (Stats, error)
	Close() error
}

// Stats summarises the cache's contents.
type Stats struct {
	Cities      int
	GoodCities  int
	BadElements int
}
