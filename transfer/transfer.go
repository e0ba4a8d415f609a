// Package transfer resolves stop-area-group relations that tie
// together StopAreas across city borders (an interchange whose
// platforms are assigned to two neighbouring cities), filtered down to
// only the stop areas actually used by a route.
package transfer

import (
	"github.com/transitmap/topology/model"
)

// GroupInput is one cross-city stop_area_group relation together with
// the StopAreas it was resolved to across every city being processed.
type GroupInput struct {
	GroupID   model.ID
	StopAreas []*model.StopArea
}

// Resolve builds a model.Transfer per group, dropping any StopArea in
// the group that no route actually stops at (a group can list
// entrances/platforms belonging to a station that, in this extract,
// turned out to have no service) and dropping groups left with fewer
// than two StopAreas, since a transfer needs two sides.
func Resolve(groups []GroupInput, usedStopAreas map[*model.StopArea]bool) []*model.Transfer {
	var transfers []*model.Transfer

	for _, g := range groups {
		var used []*model.StopArea
		for _, sa := range g.StopAreas {
			if usedStopAreas[sa] {
				used = append(used, sa)
			}
		}
		if len(used) < 2 {
			continue
		}
		for _, sa := range used {
			id := g.GroupID
			sa.TransferGroup = &id
		}
		transfers = append(transfers, &model.Transfer{
			ID:        g.GroupID,
			StopAreas: used,
		})
	}

	return transfers
}

// UsedStopAreas collects every StopArea actually referenced by a
// route stop, across all of a city's route masters.
func UsedStopAreas(city *model.City) map[*model.StopArea]bool {
	used := map[*model.StopArea]bool{}
	for _, rm := range city.RouteMasters {
		for _, v := range rm.Variants {
			for _, rs := range v.Stops {
				used[rs.StopArea] = true
			}
		}
	}
	return used
}
