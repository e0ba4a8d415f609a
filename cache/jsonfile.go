package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// JSONFileStore persists one JSON document per city under a directory,
// the default cache backend per config.CacheBackendJSONFile.
type JSONFileStore struct {
	dir string
	mu  sync.Mutex
}

func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating cache directory %s", dir)
	}
	return &JSONFileStore{dir: dir}, nil
}

func (s *JSONFileStore) path(cityID string) string {
	return filepath.Join(s.dir, cityID+".json")
}

func (s *JSONFileStore) Get(cityID string) (*Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(cityID))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading cache entry for %s", cityID)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, errors.Wrapf(err, "parsing cache entry for %s", cityID)
	}
	return &e, true, nil
}

func (s *JSONFileStore) Put(entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding cache entry for %s", entry.CityID)
	}
	if err := os.WriteFile(s.path(entry.CityID), data, 0o644); err != nil {
		return errors.Wrapf(err, "writing cache entry for %s", entry.CityID)
	}
	return nil
}

func (s *JSONFileStore) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "listing cache directory %s", s.dir)
	}

	var stats Stats
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		stats.Cities++
		if e.GoodExport != nil {
			stats.GoodCities++
		}
		stats.BadElements += len(e.BadElements)
	}
	return stats, nil
}

func (s *JSONFileStore) Close() error { return nil }
