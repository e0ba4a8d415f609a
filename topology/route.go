package topology

import (
	"github.com/transitmap/topology/colour"
	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/geo"
	"github.com/transitmap/topology/model"
)

// BuildRoute orchestrates building a single route variant: stitch the
// route relation's track, extract and resolve its stops against the
// station index, project and order the stops on the track, and
// compute along-line distances. A route with fewer than two resolved
// stops is reported as a model.CriticalError so the caller can drop
// just this variant and continue with the rest of the route master.
func BuildRoute(rel *model.Element, store *elementstore.Store, byElement map[int64]*model.StopArea, tunables config.Tunables, recovery *model.RecoveryData) (*model.Route, []model.Diagnostic, error) {
	var diags []model.Diagnostic

	mode := model.Mode(rel.Tag("route"))
	if mode == "" {
		mode = model.Mode(rel.Tag("railway"))
	}

	colourStr, ok := normaliseRouteColour(rel)
	if !ok && rel.Tag("colour") != "" {
		diags = append(diags, model.NewWarning(refOf(rel), "unparseable route colour %q", rel.Tag("colour")))
	}
	ref := rel.Tag("ref")

	nodes, trackDiags := StitchTracks(rel, store)
	diags = append(diags, trackDiags...)
	track := PolylineFromNodes(nodes, store)

	stops, stopDiags, circular := ExtractStops(rel, store, byElement)
	diags = append(diags, stopDiags...)

	if len(stops) < 2 {
		return nil, diags, model.NewCriticalError(refOf(rel), "route has fewer than two resolved stops")
	}

	projDiags := ProjectStops(stops, track, tunables)
	diags = append(diags, projDiags...)

	fromTag, toTag := rel.Tag("from"), rel.Tag("to")
	recoveryItin := selectRecoveryItinerary(recovery, colourStr, ref, fromTag, toTag, stops, tunables)
	orderedTrack, orderDiags := OrderStops(stops, track, circular, tunables, recoveryItin)
	diags = append(diags, orderDiags...)

	ComputeAlongLineDistances(stops, orderedTrack)

	route := &model.Route{
		ID:         rel.ID,
		Ref:        rel.Tag("ref"),
		Name:       rel.Tag("name"),
		Mode:       mode,
		Network:    rel.Tag("network"),
		Colour:     colourStr,
		Infill:     rel.Tag("colour:infill"),
		From:       fromTag,
		To:         toTag,
		Stops:      stops,
		Track:      orderedTrack,
		IsCircular: circular,
	}
	return route, diags, nil
}

func normaliseRouteColour(rel *model.Element) (string, bool) {
	return colour.Normalise(rel.Tag("colour"))
}

// selectRecoveryItinerary picks the prior-run itinerary, among those
// recorded for (colour, ref), whose station name multiset exactly
// matches this variant's and whose per-station displacement from the
// current stop is below the configured tolerance. When more than one
// itinerary qualifies, the relation's from/to tags disambiguate; if
// that still leaves more than one candidate, recovery fails (nil).
func selectRecoveryItinerary(recovery *model.RecoveryData, colourStr, ref, fromTag, toTag string, stops []*model.RouteStop, tunables config.Tunables) *model.RecoveryItinerary {
	if recovery == nil {
		return nil
	}
	itins, ok := recovery.ByKey[model.RecoveryKey{Colour: colourStr, Ref: ref}]
	if !ok || len(itins) == 0 {
		return nil
	}

	var candidates []*model.RecoveryItinerary
	for i := range itins {
		if itineraryMatchesStops(&itins[i], stops, tunables) {
			candidates = append(candidates, &itins[i])
		}
	}

	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}

	var disambiguated []*model.RecoveryItinerary
	for _, c := range candidates {
		if c.From == fromTag && c.To == toTag {
			disambiguated = append(disambiguated, c)
		}
	}
	if len(disambiguated) == 1 {
		return disambiguated[0]
	}
	return nil
}

// itineraryMatchesStops reports whether itin's stations are, as a
// multiset by name, exactly the current stops' station names, with
// every pairing also satisfying the displacement tolerance. Matching
// consumes each recorded station at most once so repeated station
// names don't cross-match indiscriminately.
func itineraryMatchesStops(itin *model.RecoveryItinerary, stops []*model.RouteStop, tunables config.Tunables) bool {
	if len(itin.Stations) != len(stops) {
		return false
	}
	remaining := make([]model.RecoveryStation, len(itin.Stations))
	copy(remaining, itin.Stations)

	for _, rs := range stops {
		if rs.StopArea == nil {
			return false
		}
		matched := -1
		for i, st := range remaining {
			if st.Name != rs.StopArea.Name {
				continue
			}
			if geo.Distance(geo.Point(rs.StopArea.Center), geo.Point(st.Center)) > tunables.DisplacementToleranceM {
				continue
			}
			matched = i
			break
		}
		if matched == -1 {
			return false
		}
		remaining = append(remaining[:matched], remaining[matched+1:]...)
	}
	return len(remaining) == 0
}

// HasReturnTrack reports whether the route's track, walked from start
// to end, comes back within tolerance of its own starting point
// without being declared circular. Route-master assembly does not call
// it; return variants are detected there by HasAnyReturn.
func HasReturnTrack(route *model.Route, tolerance float64) bool {
	if route.IsCircular || len(route.Track) < 2 {
		return false
	}
	start := route.Track[0]
	end := route.Track[len(route.Track)-1]
	return geo.Distance(geo.Point(start), geo.Point(end)) <= tolerance
}
