// Package elementstore indexes raw elements by composite id and
// computes way/relation centroids.
package elementstore

import (
	"github.com/transitmap/topology/model"
)

// Store indexes a snapshot of elements by composite id. It is read-only
// once built; the only write phase is construction + ComputeCentres.
type Store struct {
	byID map[model.ID]*model.Element
}

// New builds a Store from a flat element slice. Order does not matter,
// neither for indexing nor for ComputeCentres.
func New(elements []model.Element) *Store {
	s := &Store{byID: make(map[model.ID]*model.Element, len(elements))}
	for i := range elements {
		e := &elements[i]
		s.byID[e.ID] = e
	}
	return s
}

// Get returns the element with the given composite id, or nil.
func (s *Store) Get(id model.ID) *model.Element {
	return s.byID[id]
}

// All returns every indexed element. Callers must not mutate the slice
// returned; it is provided for city-subset partitioning.
func (s *Store) All() []*model.Element {
	out := make([]*model.Element, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, e)
	}
	return out
}

// Len returns the number of indexed elements.
func (s *Store) Len() int { return len(s.byID) }

// Center returns the element's centre point: a node's own
// point, or an already-computed centre for a way/relation, or ok=false
// when unavailable (notably, route-masters and stop-area-groups
// intentionally have no centre).
func (s *Store) Center(id model.ID) (model.Point, bool) {
	e := s.byID[id]
	if e == nil {
		return model.Point{}, false
	}
	return Center(e)
}

// WayNodes resolves an element's constituent node coordinates: a way's
// own member nodes in order, a relation's member ways concatenated, or
// a single-entry list for a bare node. Missing members are skipped.
func (s *Store) WayNodes(e *model.Element) []model.PlatformNode {
	if e == nil {
		return nil
	}
	switch e.ID.Kind {
	case model.KindNode:
		return []model.PlatformNode{{ID: e.ID.Num, Point: model.Point{Lon: e.Lon, Lat: e.Lat}}}
	case model.KindWay:
		out := make([]model.PlatformNode, 0, len(e.Nodes))
		for _, nodeID := range e.Nodes {
			node := s.Get(model.ID{Kind: model.KindNode, Num: nodeID})
			if node == nil {
				continue
			}
			out = append(out, model.PlatformNode{ID: node.ID.Num, Point: model.Point{Lon: node.Lon, Lat: node.Lat}})
		}
		return out
	case model.KindRelation:
		var out []model.PlatformNode
		for _, m := range e.Members {
			member := s.Get(m.Ref)
			if member == nil || member.ID.Kind != model.KindWay {
				continue
			}
			out = append(out, s.WayNodes(member)...)
		}
		return out
	default:
		return nil
	}
}

// Center is the element-local form of Store.Center, usable once an
// *model.Element is already in hand.
func Center(e *model.Element) (model.Point, bool) {
	if e == nil {
		return model.Point{}, false
	}
	switch e.ID.Kind {
	case model.KindNode:
		return model.Point{Lon: e.Lon, Lat: e.Lat}, true
	default:
		if e.Center != nil {
			return *e.Center, true
		}
		return model.Point{}, false
	}
}
