package cache

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the alternate cache backend, for deployments that
// prefer one embedded database file over a directory of JSON
// documents (config.CacheBackendSQLite).
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening cache database")
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS cache_entry (
    city_id TEXT NOT NULL,
    source_hash TEXT NOT NULL,
    good_export BLOB,
    bad_elements BLOB,
    retrieved_at TEXT NOT NULL,
PRIMARY KEY (city_id)
);`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating cache schema")
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(cityID string) (*Entry, bool, error) {
	row := s.db.QueryRow(`SELECT source_hash, good_export, bad_elements, retrieved_at FROM cache_entry WHERE city_id = ?`, cityID)

	var e Entry
	e.CityID = cityID
	var goodExportJSON, badElementsJSON []byte
	if err := row.Scan(&e.SourceHash, &goodExportJSON, &badElementsJSON, &e.RetrievedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "reading cache entry for %s", cityID)
	}

	if len(goodExportJSON) > 0 {
		if err := json.Unmarshal(goodExportJSON, &e.GoodExport); err != nil {
			return nil, false, errors.Wrapf(err, "decoding good export for %s", cityID)
		}
	}
	if len(badElementsJSON) > 0 {
		if err := json.Unmarshal(badElementsJSON, &e.BadElements); err != nil {
			return nil, false, errors.Wrapf(err, "decoding bad elements for %s", cityID)
		}
	}

	return &e, true, nil
}

func (s *SQLiteStore) Put(entry *Entry) error {
	goodExportJSON, err := json.Marshal(entry.GoodExport)
	if err != nil {
		return errors.Wrapf(err, "encoding good export for %s", entry.CityID)
	}
	badElementsJSON, err := json.Marshal(entry.BadElements)
	if err != nil {
		return errors.Wrapf(err, "encoding bad elements for %s", entry.CityID)
	}

	_, err = s.db.Exec(`
INSERT INTO cache_entry (city_id, source_hash, good_export, bad_elements, retrieved_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (city_id) DO UPDATE SET
    source_hash = excluded.source_hash,
    good_export = excluded.good_export,
    bad_elements = excluded.bad_elements,
    retrieved_at = excluded.retrieved_at
`, entry.CityID, entry.SourceHash, goodExportJSON, badElementsJSON, entry.RetrievedAt)
	if err != nil {
		return errors.Wrapf(err, "writing cache entry for %s", entry.CityID)
	}
	return nil
}

func (s *SQLiteStore) Stats() (Stats, error) {
	var stats Stats
	row := s.db.QueryRow(`SELECT COUNT(*), SUM(CASE WHEN good_export IS NOT NULL THEN 1 ELSE 0 END) FROM cache_entry`)
	var goodCities sql.NullInt64
	if err := row.Scan(&stats.Cities, &goodCities); err != nil && err != sql.ErrNoRows {
		return stats, errors.Wrap(err, "reading cache stats")
	}
	stats.GoodCities = int(goodCities.Int64)

	rows, err := s.db.Query(`SELECT bad_elements FROM cache_entry`)
	if err != nil {
		return stats, errors.Wrap(err, "reading cache stats")
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		if len(raw) == 0 {
			continue
		}
		var bad map[int64]bool
		if json.Unmarshal(raw, &bad) == nil {
			stats.BadElements += len(bad)
		}
	}

	return stats, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
