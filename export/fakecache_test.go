package export

import (
	"github.com/transitmap/topology/cache"
)

// fakeCacheStore is a minimal in-memory cache.Store used only by this
// package's tests, avoiding a dependency on a real file or database.
type fakeCacheStore struct {
	entries map[string]*cache.Entry
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: map[string]*cache.Entry{}}
}

func (f *fakeCacheStore) Get(cityID string) (*cache.Entry, bool, error) {
	e, ok := f.entries[cityID]
	return e, ok, nil
}

func (f *fakeCacheStore) Put(entry *cache.Entry) error {
	f.entries[entry.CityID] = entry
	return nil
}

func (f *fakeCacheStore) Stats() (cache.Stats, error) {
	return cache.Stats{Cities: len(f.entries)}, nil
}

func (f *fakeCacheStore) Close() error { return nil }
