// Package catalogue loads the city catalogue: the CSV listing which
// cities to process, their metadata (expected station/line counts,
// bounding box, active modes) and where their element snapshot lives.
package catalogue

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"github.com/transitmap/topology/model"
)

// Row is one line of the city catalogue CSV: id, name, country,
// continent, num_stations, num_lines, num_light_lines,
// num_interchanges, bbox, modes_and_networks. bbox packs
// "min_lat,min_lon,max_lat,max_lon" into one field; modes_and_networks
// packs "modes:networks", modes comma-separated and networks
// semicolon-separated, either half possibly empty.
type Row struct {
	ID               string `csv:"id"`
	Name             string `csv:"name"`
	Country          string `csv:"country"`
	Continent        string `csv:"continent"`
	NumStations      int    `csv:"num_stations"`
	NumLines         int    `csv:"num_lines"`
	NumLightLines    int    `csv:"num_light_lines"`
	NumInterchanges  int    `csv:"num_interchanges"`
	BBox             string `csv:"bbox"`
	ModesAndNetworks string `csv:"modes_and_networks"`
}

// City is a catalogue entry resolved into a CityMeta plus the path to
// its element snapshot.
type City struct {
	Meta         model.CityMeta
	SnapshotPath string
}

func init() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}

// Load parses a city catalogue CSV. The snapshot fetch itself is an
// external collaborator; snapshotDir is where the fetched snapshot for
// each catalogue row is expected to already sit, named "<id>.json".
func Load(data io.Reader, snapshotDir string) ([]City, error) {
	rows := []*Row{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "unmarshaling catalogue csv")
	}

	cities := make([]City, 0, len(rows))
	seen := map[string]bool{}
	for _, r := range rows {
		if r.ID == "" {
			return nil, fmt.Errorf("empty city id")
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("repeated city id %q", r.ID)
		}
		seen[r.ID] = true

		bbox, err := parseBBox(r.BBox)
		if err != nil {
			return nil, errors.Wrapf(err, "city %q", r.ID)
		}
		modes, networks := parseModesAndNetworks(r.ModesAndNetworks)

		cities = append(cities, City{
			Meta: model.CityMeta{
				ID:              r.ID,
				Name:            r.Name,
				Country:         r.Country,
				Continent:       r.Continent,
				NumStations:     r.NumStations,
				NumLines:        r.NumLines,
				NumLightLines:   r.NumLightLines,
				NumInterchanges: r.NumInterchanges,
				BBox:            bbox,
				Modes:           modes,
				Networks:        networks,
			},
			SnapshotPath: filepath.Join(snapshotDir, r.ID+".json"),
		})
	}

	return cities, nil
}

// parseBBox parses "min_lat,min_lon,max_lat,max_lon" into a model.BBox.
func parseBBox(s string) (model.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.BBox{}, fmt.Errorf("bbox %q: expected 4 comma-separated values, got %d", s, len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.BBox{}, errors.Wrapf(err, "bbox %q", s)
		}
		vals[i] = v
	}
	return model.BBox{MinLat: vals[0], MinLon: vals[1], MaxLat: vals[2], MaxLon: vals[3]}, nil
}

// parseModesAndNetworks splits "modes:networks" into a mode set and a
// network list; modes are comma-separated, networks semicolon-separated.
func parseModesAndNetworks(s string) (model.ModeSet, []string) {
	modesPart, networksPart, _ := strings.Cut(s, ":")

	modes := model.ModeSet{}
	for _, m := range splitNonEmpty(modesPart, ",") {
		modes[model.Mode(m)] = true
	}
	return modes, splitNonEmpty(networksPart, ";")
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
