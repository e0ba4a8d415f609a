package topology

import (
	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/model"
)

// StitchTracks iterates a route relation's members in order, keeps
// only track ways, and stitches them into one longest contiguous chain
// of node ids, with duplicates collapsed.
func StitchTracks(rel *model.Element, store *elementstore.Store) ([]int64, []model.Diagnostic) {
	var diags []model.Diagnostic

	type wayNodes struct {
		nodes []int64
	}
	var ways []wayNodes

	for _, m := range rel.Members {
		el := store.Get(m.Ref)
		if el == nil || !IsTrack(el) {
			continue
		}
		nodes := append([]int64(nil), el.Nodes...)
		if m.Role == "backward" {
			reverse(nodes)
		}
		ways = append(ways, wayNodes{nodes: nodes})
	}

	if len(ways) == 0 {
		return nil, diags
	}

	var chain []int64
	var longest []int64
	chain = append(chain, ways[0].nodes...)
	firstJoinAttempted := false

	flushIfLonger := func() {
		if len(chain) > len(longest) {
			longest = chain
		}
	}

	for i := 1; i < len(ways); i++ {
		next := ways[i].nodes
		if len(next) == 0 {
			continue
		}
		if len(chain) == 0 {
			chain = append(chain, next...)
			continue
		}

		last := chain[len(chain)-1]
		switch {
		case next[0] == last:
			chain = append(chain, next[1:]...)
		case next[len(next)-1] == last:
			rev := append([]int64(nil), next...)
			reverse(rev)
			chain = append(chain, rev[1:]...)
		case !firstJoinAttempted && chain[0] == next[0]:
			reverse(chain)
			chain = append(chain, next[1:]...)
		case !firstJoinAttempted && chain[0] == next[len(next)-1]:
			reverse(chain)
			rev := append([]int64(nil), next...)
			reverse(rev)
			chain = append(chain, rev[1:]...)
		default:
			holeNode := last
			diags = append(diags, model.NewWarning(refOf(rel), "hole in route rails near node %d", holeNode))
			flushIfLonger()
			chain = append([]int64(nil), next...)
		}
		firstJoinAttempted = true
	}
	flushIfLonger()

	return collapseDuplicateRuns(longest), diags
}

func reverse(nodes []int64) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

// collapseDuplicateRuns removes consecutive duplicate node ids, which
// can appear at stitch joins.
func collapseDuplicateRuns(nodes []int64) []int64 {
	if len(nodes) == 0 {
		return nodes
	}
	out := make([]int64, 0, len(nodes))
	out = append(out, nodes[0])
	for _, n := range nodes[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}

// PolylineFromNodes resolves a node-id chain into coordinates, skipping
// (and not erroring on) any node missing from the store.
func PolylineFromNodes(nodes []int64, store *elementstore.Store) []model.Point {
	out := make([]model.Point, 0, len(nodes))
	for _, n := range nodes {
		node := store.Get(model.ID{Kind: model.KindNode, Num: n})
		if node == nil {
			continue
		}
		out = append(out, model.Point{Lon: node.Lon, Lat: node.Lat})
	}
	return out
}
