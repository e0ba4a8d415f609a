package elementstore

import "github.com/transitmap/topology/model"

// ComputeCentres computes way centroids in one pass over the ways, then
// relation centroids in a fixed-point loop over the relations, so the
// order of elements in the snapshot does not matter. A way's centre is
// the arithmetic mean of its present member nodes; a relation's centre
// is the mean of present member centres. When a pass of the loop adds
// no new centres, the remaining relations are reported (not fatal) via
// the returned unresolved slice.
func (s *Store) ComputeCentres() (unresolved []model.ID) {
	for _, e := range s.byID {
		if e.ID.Kind != model.KindWay {
			continue
		}
		if e.Center != nil {
			continue
		}
		if c, ok := wayCentre(s, e); ok {
			e.Center = &c
		}
	}

	var pending []*model.Element
	for _, e := range s.byID {
		if e.ID.Kind == model.KindRelation && e.Center == nil {
			pending = append(pending, e)
		}
	}

	for len(pending) > 0 {
		var stillPending []*model.Element
		progress := false

		for _, e := range pending {
			if c, ok := relationCentre(s, e); ok {
				e.Center = &c
				progress = true
			} else {
				stillPending = append(stillPending, e)
			}
		}

		if !progress {
			for _, e := range stillPending {
				unresolved = append(unresolved, e.ID)
			}
			break
		}
		pending = stillPending
	}

	return unresolved
}

func wayCentre(s *Store, way *model.Element) (model.Point, bool) {
	var sumLon, sumLat float64
	n := 0
	for _, nodeID := range way.Nodes {
		node := s.Get(model.ID{Kind: model.KindNode, Num: nodeID})
		if node == nil {
			continue
		}
		sumLon += node.Lon
		sumLat += node.Lat
		n++
	}
	if n == 0 {
		return model.Point{}, false
	}
	return model.Point{Lon: sumLon / float64(n), Lat: sumLat / float64(n)}, true
}

func relationCentre(s *Store, rel *model.Element) (model.Point, bool) {
	var sumLon, sumLat float64
	n := 0
	for _, m := range rel.Members {
		c, ok := s.Center(m.Ref)
		if !ok {
			continue
		}
		sumLon += c.Lon
		sumLat += c.Lat
		n++
	}
	if n == 0 {
		return model.Point{}, false
	}
	return model.Point{Lon: sumLon / float64(n), Lat: sumLat / float64(n)}, true
}
