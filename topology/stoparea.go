package topology

import (
	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/geo"
	"github.com/transitmap/topology/model"
)

// AssembleStopArea builds a StopArea for a station, consuming the
// station's containing stop-area relation if one was found by the
// caller.
//
// When stopAreaRel is nil, entrances/exits are instead auto-attached by
// scanning cityElements for nearby subway-entrance nodes (stops and
// platforms are never auto-attached in that fallback).
func AssembleStopArea(
	station *model.Station,
	stopAreaRel *model.Element,
	store *elementstore.Store,
	cityElements []*model.Element,
	tunables config.Tunables,
) (*model.StopArea, []model.Diagnostic) {
	var diags []model.Diagnostic

	id := station.ID
	if stopAreaRel != nil {
		id = stopAreaRel.ID
	}
	sa := model.NewStopArea(id, station)

	if stopAreaRel != nil {
		diags = append(diags, assembleFromRelation(sa, station, stopAreaRel, store)...)
	} else {
		diags = append(diags, attachNearbyEntrances(sa, station, cityElements, tunables)...)
	}

	validateEntranceExitSymmetry(sa, &diags)
	sa.RecomputeCenter()

	return sa, diags
}

func assembleFromRelation(sa *model.StopArea, station *model.Station, rel *model.Element, store *elementstore.Store) []model.Diagnostic {
	var diags []model.Diagnostic
	sawAnotherStation := false

	for _, m := range rel.Members {
		el := store.Get(m.Ref)
		if el == nil {
			continue
		}

		switch {
		case el.ID == station.ID:
			// the station itself
			continue

		case IsTrack(el):
			diags = append(diags, model.NewError(refOf(rel), "track way %s in stop area", el.ID))

		case IsStationTag(el, true) && el.ID != station.ID:
			if sawAnotherStation {
				diags = append(diags, model.NewError(refOf(rel), "stop area references more than one station"))
			}
			sawAnotherStation = true

		case IsStopPosition(el):
			sa.StopPositions[el.ID.Num] = true
			recordCenter(sa, store, el)

		case IsPlatform(el):
			sa.Platforms[el.ID.Num] = true
			recordCenter(sa, store, el)
			if nodes := store.WayNodes(el); len(nodes) > 0 {
				sa.PlatformNodes[el.ID.Num] = nodes
			}

		case IsSubwayEntrance(el):
			recordCenter(sa, store, el)
			classifyEntranceExit(sa, el, RoleQualifier(m.Role))
		}
	}

	return diags
}

func recordCenter(sa *model.StopArea, store *elementstore.Store, el *model.Element) {
	if c, ok := store.Center(el.ID); ok {
		sa.ElementCenters[el.ID.Num] = c
	}
}

// classifyEntranceExit files a subway-entrance node into the entrance
// and/or exit set role/tag handling.
func classifyEntranceExit(sa *model.StopArea, el *model.Element, qualifier string) {
	entranceTag := el.Tag("entrance")
	switch {
	case entranceTag == "exit" || qualifier == "exit_only":
		sa.Exits[el.ID.Num] = true
	case entranceTag == "entrance" || qualifier == "entry_only":
		sa.Entrances[el.ID.Num] = true
	default:
		sa.Entrances[el.ID.Num] = true
		sa.Exits[el.ID.Num] = true
	}
}

// attachNearbyEntrances is the fallback for when no stop area relation
// wraps the station: scan the city's elements for subway-entrance
// nodes within the entrance-proximity threshold.
func attachNearbyEntrances(sa *model.StopArea, station *model.Station, cityElements []*model.Element, tunables config.Tunables) []model.Diagnostic {
	for _, el := range cityElements {
		if !IsSubwayEntrance(el) {
			continue
		}
		center, ok := elementstore.Center(el)
		if !ok {
			continue
		}
		d := geo.Distance(geo.Point(station.Center), geo.Point(center))
		if d <= tunables.EntranceProximityM {
			sa.ElementCenters[el.ID.Num] = center
			classifyEntranceExit(sa, el, "")
		}
	}
	return nil
}

// validateEntranceExitSymmetry enforces that if entrances exist then
// exits must exist, and vice versa.
func validateEntranceExitSymmetry(sa *model.StopArea, diags *[]model.Diagnostic) {
	if len(sa.Entrances) > 0 && len(sa.Exits) == 0 {
		*diags = append(*diags, model.NewError(model.ElementRef{Kind: sa.ID.Kind, ID: sa.ID.Num, Name: sa.Name}, "stop area has entrances but no exits"))
	}
	if len(sa.Exits) > 0 && len(sa.Entrances) == 0 {
		*diags = append(*diags, model.NewError(model.ElementRef{Kind: sa.ID.Kind, ID: sa.ID.Num, Name: sa.Name}, "stop area has exits but no entrances"))
	}
}
