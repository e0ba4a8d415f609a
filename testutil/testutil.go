// Package testutil holds fixture builders shared by this module's
// tests: small builder functions backed by testify/require rather than
// hand-rolled assertions.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/model"
)

// Node builds a node Element with the given tags.
func Node(t testing.TB, id int64, lon, lat float64, tags map[string]string) *model.Element {
	require.GreaterOrEqual(t, id, int64(0), "node id must be non-negative")
	return &model.Element{
		ID:   model.ID{Kind: model.KindNode, Num: id},
		Lon:  lon,
		Lat:  lat,
		Tags: tags,
	}
}

// Way builds a way Element referencing the given node ids, in order.
func Way(t testing.TB, id int64, nodes []int64, tags map[string]string) *model.Element {
	require.NotEmpty(t, nodes, "way %d must reference at least one node", id)
	return &model.Element{
		ID:    model.ID{Kind: model.KindWay, Num: id},
		Nodes: nodes,
		Tags:  tags,
	}
}

// Relation builds a relation Element with the given ordered members.
func Relation(t testing.TB, id int64, members []model.Member, tags map[string]string) *model.Element {
	return &model.Element{
		ID:      model.ID{Kind: model.KindRelation, Num: id},
		Members: members,
		Tags:    tags,
	}
}

// Member builds a relation Member referencing an element of the given
// kind.
func Member(role string, kind model.ElementKind, ref int64) model.Member {
	return model.Member{Role: role, Ref: model.ID{Kind: kind, Num: ref}}
}
