// Package validate is the per-city orchestrator that classifies
// stations, assembles stop areas, builds every route variant and
// groups them into route masters, collecting errors and warnings
// along the way and comparing the result against the city's expected
// counts.
package validate

import (
	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/model"
	"github.com/transitmap/topology/topology"
)

// CityInput holds everything needed to validate one city: its
// metadata, the raw elements belonging to it, and the tunables to
// build it with.
type CityInput struct {
	Meta     model.CityMeta
	Elements []*model.Element
	Tunables config.Tunables

	// Recovery holds prior-run stop itineraries, consulted when a route's
	// stop order can't be resolved from geometry alone. May be nil.
	Recovery *model.RecoveryData
}

// BuildCity runs the full reconstruction pipeline for one city and
// returns the resulting City, never an error: per-route failures are
// contained as model.CriticalError and recorded as diagnostics rather
// than aborting the whole city.
func BuildCity(in CityInput) *model.City {
	city := model.NewCity(in.Meta)
	city.Recovery = in.Recovery
	store := elementstore.New(derefAll(in.Elements))

	if unresolved := store.ComputeCentres(); len(unresolved) > 0 {
		for _, id := range unresolved {
			city.AddWarning(model.ElementRef{Kind: id.Kind, ID: id.Num}, "could not compute a centre for this element")
		}
	}

	stations, stationDiags := classifyStations(in.Elements, store, in.Meta.Modes)
	applyDiagnostics(city, stationDiags)

	stopAreas, byElement, saDiags := assembleStopAreas(stations, in.Elements, store, in.Tunables)
	applyDiagnostics(city, saDiags)
	city.StationIndex = stopAreas

	attached := map[int64]bool{}
	for _, sas := range stopAreas {
		for _, sa := range sas {
			for _, set := range []map[int64]bool{sa.Entrances, sa.Exits} {
				for id := range set {
					attached[id] = true
				}
			}
		}
	}
	for _, e := range in.Elements {
		if e.ID.Kind == model.KindNode && topology.IsSubwayEntrance(e) && !attached[e.ID.Num] {
			city.UnusedEntranceCount++
		}
	}

	routes, routeDiags := buildRoutes(in.Elements, store, byElement, in.Tunables, in.Recovery)
	applyDiagnostics(city, routeDiags)

	masterOf := masterRelationLookup(in.Elements)
	groups := topology.GroupRoutesByMaster(routes, masterOf)

	for key, variants := range groups {
		rm, diags := topology.AssembleRouteMaster(key, variants)
		applyDiagnostics(city, diags)
		if rm == nil {
			continue
		}
		mapKey := rm.Ref
		if key.HasID {
			mapKey = key.MasterID.String()
		}
		city.RouteMasters[mapKey] = rm
	}

	checkExpectedCounts(city, in.Tunables)

	return city
}

func derefAll(elements []*model.Element) []model.Element {
	out := make([]model.Element, len(elements))
	for i, e := range elements {
		out[i] = *e
	}
	return out
}

func applyDiagnostics(city *model.City, diags []model.Diagnostic) {
	for _, d := range diags {
		if d.Severity == model.SeverityError {
			city.Errors = append(city.Errors, d)
		} else {
			city.Warnings = append(city.Warnings, d)
		}
	}
}

func classifyStations(elements []*model.Element, store *elementstore.Store, activeModes model.ModeSet) ([]*model.Station, []model.Diagnostic) {
	var stations []*model.Station
	var diags []model.Diagnostic
	for _, e := range elements {
		st, d, ok := topology.ClassifyStation(e, store, activeModes)
		diags = append(diags, d...)
		if ok {
			stations = append(stations, st)
		}
	}
	return stations, diags
}

// assembleStopAreas builds one StopArea per station, preferring a
// stop_area relation that contains the station when one exists.
// Returns the StopArea set indexed by station id, and a lookup from
// any member element's numeric id to its StopArea, used to resolve
// route-relation stop/platform members.
func assembleStopAreas(stations []*model.Station, elements []*model.Element, store *elementstore.Store, tunables config.Tunables) (map[model.ID][]*model.StopArea, map[int64]*model.StopArea, []model.Diagnostic) {
	var diags []model.Diagnostic
	stopAreas := map[model.ID][]*model.StopArea{}
	byElement := map[int64]*model.StopArea{}

	stopAreaOf := map[model.ID]*model.Element{}
	for _, e := range elements {
		if e.ID.Kind != model.KindRelation || e.Tag("public_transport") != "stop_area" {
			continue
		}
		for _, m := range e.Members {
			stopAreaOf[m.Ref] = e
		}
	}

	for _, st := range stations {
		rel := stopAreaOf[st.ID]
		sa, d := topology.AssembleStopArea(st, rel, store, elements, tunables)
		diags = append(diags, d...)

		stopAreas[st.ID] = append(stopAreas[st.ID], sa)
		byElement[st.ID.Num] = sa
		for id := range sa.StopPositions {
			byElement[id] = sa
		}
		for id := range sa.Platforms {
			byElement[id] = sa
		}
	}

	return stopAreas, byElement, diags
}

func buildRoutes(elements []*model.Element, store *elementstore.Store, byElement map[int64]*model.StopArea, tunables config.Tunables, recovery *model.RecoveryData) ([]*model.Route, []model.Diagnostic) {
	var routes []*model.Route
	var diags []model.Diagnostic

	for _, e := range elements {
		if e.ID.Kind != model.KindRelation || e.Tag("type") != "route" {
			continue
		}
		if !isRailRoute(e) {
			continue
		}

		route, d, err := topology.BuildRoute(e, store, byElement, tunables, recovery)
		diags = append(diags, d...)
		if err != nil {
			if ce, ok := err.(*model.CriticalError); ok {
				diags = append(diags, model.Diagnostic{
					Severity: model.SeverityError,
					Message:  ce.Message,
					Element:  ce.Element,
				})
				continue
			}
			diags = append(diags, model.NewError(model.ElementRef{ID: e.ID.Num}, "%s", err))
			continue
		}
		routes = append(routes, route)
	}

	return routes, diags
}

func isRailRoute(e *model.Element) bool {
	switch e.Tag("route") {
	case "subway", "light_rail", "tram", "train", "monorail", "funicular":
		return true
	default:
		return false
	}
}

func masterRelationLookup(elements []*model.Element) map[int64]model.ID {
	out := map[int64]model.ID{}
	for _, e := range elements {
		if e.ID.Kind != model.KindRelation || e.Tag("type") != "route_master" {
			continue
		}
		for _, m := range e.Members {
			if m.Ref.Kind == model.KindRelation {
				out[m.Ref.Num] = e.ID
			}
		}
	}
	return out
}

// checkExpectedCounts compares the assembled city against its
// metadata's expected station/interchange counts within the allowed
// mismatch tolerances, emitting warnings (not errors) on overrun.
func checkExpectedCounts(city *model.City, tunables config.Tunables) {
	stats := city.Statistics()

	if city.Meta.NumStations > 0 {
		mismatch := relativeMismatch(stats.Stations, city.Meta.NumStations)
		if mismatch > tunables.AllowedStationMismatch {
			city.AddWarning(model.ElementRef{}, "station count %d differs from expected %d by more than %.0f%%", stats.Stations, city.Meta.NumStations, tunables.AllowedStationMismatch*100)
		}
	}

	if city.Meta.NumInterchanges > 0 {
		mismatch := relativeMismatch(stats.Interchanges, city.Meta.NumInterchanges)
		if mismatch > tunables.AllowedTransferMismatch {
			city.AddWarning(model.ElementRef{}, "interchange count %d differs from expected %d by more than %.0f%%", stats.Interchanges, city.Meta.NumInterchanges, tunables.AllowedTransferMismatch*100)
		}
	}
}

func relativeMismatch(got, expected int) float64 {
	if expected == 0 {
		return 0
	}
	diff := got - expected
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(expected)
}
