package recovery

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/transitmap/topology/model"
)

// JSONFileStore persists recovery data as a single JSON document.
type JSONFileStore struct {
	path string
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

type jsonRecord struct {
	Colour     string                    `json:"colour"`
	Ref        string                    `json:"ref"`
	Itineraries []model.RecoveryItinerary `json:"itineraries"`
}

func (s *JSONFileStore) Load() (*model.RecoveryData, error) {
	data := &model.RecoveryData{ByKey: map[model.RecoveryKey][]model.RecoveryItinerary{}}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading recovery store %s", s.path)
	}

	var records []jsonRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrapf(err, "parsing recovery store %s", s.path)
	}

	for _, r := range records {
		key := model.RecoveryKey{Colour: r.Colour, Ref: r.Ref}
		data.ByKey[key] = r.Itineraries
	}
	return data, nil
}

func (s *JSONFileStore) Save(data *model.RecoveryData) error {
	records := make([]jsonRecord, 0, len(data.ByKey))
	for key, itins := range data.ByKey {
		records = append(records, jsonRecord{Colour: key.Colour, Ref: key.Ref, Itineraries: itins})
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding recovery store")
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "writing recovery store %s", s.path)
	}
	return nil
}

func (s *JSONFileStore) Close() error { return nil }
