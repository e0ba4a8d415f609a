package recovery

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/transitmap/topology/model"
)

// SQLiteStore is the alternate recovery backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening recovery database")
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS recovery_itinerary (
    colour TEXT NOT NULL,
    ref TEXT NOT NULL,
    itineraries BLOB NOT NULL,
PRIMARY KEY (colour, ref)
);`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating recovery schema")
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (*model.RecoveryData, error) {
	data := &model.RecoveryData{ByKey: map[model.RecoveryKey][]model.RecoveryItinerary{}}

	rows, err := s.db.Query(`SELECT colour, ref, itineraries FROM recovery_itinerary`)
	if err != nil {
		return nil, errors.Wrap(err, "reading recovery store")
	}
	defer rows.Close()

	for rows.Next() {
		var colour, ref string
		var raw []byte
		if err := rows.Scan(&colour, &ref, &raw); err != nil {
			return nil, errors.Wrap(err, "scanning recovery row")
		}
		var itins []model.RecoveryItinerary
		if err := json.Unmarshal(raw, &itins); err != nil {
			return nil, errors.Wrapf(err, "decoding itineraries for %s/%s", colour, ref)
		}
		data.ByKey[model.RecoveryKey{Colour: colour, Ref: ref}] = itins
	}
	return data, rows.Err()
}

func (s *SQLiteStore) Save(data *model.RecoveryData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning recovery transaction")
	}

	if _, err := tx.Exec(`DELETE FROM recovery_itinerary`); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "clearing recovery store")
	}

	for key, itins := range data.ByKey {
		raw, err := json.Marshal(itins)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "encoding itineraries for %s/%s", key.Colour, key.Ref)
		}
		if _, err := tx.Exec(`INSERT INTO recovery_itinerary (colour, ref, itineraries) VALUES (?, ?, ?)`, key.Colour, key.Ref, raw); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "writing itineraries for %s/%s", key.Colour, key.Ref)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
