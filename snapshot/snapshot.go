// Package snapshot loads a city's raw OSM element snapshot: the JSON
// dump of nodes/ways/relations (in Overpass API's out:json shape) that
// a city's catalogue entry points at.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/transitmap/topology/model"
)

// rawElement mirrors the fields Overpass emits for a node/way/relation
// in out:json.
type rawElement struct {
	Type    string            `json:"type"`
	ID      int64             `json:"id"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Tags    map[string]string `json:"tags"`
	Nodes   []int64           `json:"nodes"`
	Members []rawMember       `json:"members"`
	Center  *rawCenter        `json:"center"`
}

type rawMember struct {
	Type string `json:"type"`
	Ref  int64  `json:"ref"`
	Role string `json:"role"`
}

type rawCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type document struct {
	Elements []rawElement `json:"elements"`
}

// Load parses a snapshot document into Elements, assigning each one a
// composite id derived from its OSM type and numeric id.
func Load(r io.Reader) ([]*model.Element, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot json")
	}

	elements := make([]*model.Element, 0, len(doc.Elements))
	for _, re := range doc.Elements {
		kind, err := kindOf(re.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", re.ID)
		}

		e := &model.Element{
			ID:   model.ID{Kind: kind, Num: re.ID},
			Tags: re.Tags,
			Lon:  re.Lon,
			Lat:  re.Lat,
			Nodes: re.Nodes,
		}
		if re.Center != nil {
			e.Center = &model.Point{Lon: re.Center.Lon, Lat: re.Center.Lat}
		}
		for _, m := range re.Members {
			mkind, err := kindOf(m.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "member of element %d", re.ID)
			}
			e.Members = append(e.Members, model.Member{
				Role: m.Role,
				Ref:  model.ID{Kind: mkind, Num: m.Ref},
			})
		}

		elements = append(elements, e)
	}

	return elements, nil
}

func kindOf(t string) (model.ElementKind, error) {
	switch t {
	case "node":
		return model.KindNode, nil
	case "way":
		return model.KindWay, nil
	case "relation":
		return model.KindRelation, nil
	default:
		return 0, fmt.Errorf("unknown element type %q", t)
	}
}
