// Package export turns a validated City (plus its cross-city
// transfers) into the final Export record, synthesising entrance/exit
// travel-time costs and substituting a cached good export when the
// current run produced a worse one.
package export

import (
	"sort"

	"github.com/transitmap/topology/cache"
	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/geo"
	"github.com/transitmap/topology/model"
)

// BuildCity converts one validated city into its Export fragment. The
// caller is responsible for merging per-city fragments into a single
// Export and resolving cross-city transfers separately.
func BuildCity(city *model.City, tunables config.Tunables) model.Export {
	var out model.Export

	emittedStop := map[int64]bool{}
	for _, areas := range city.StationIndex {
		for _, sa := range areas {
			if emittedStop[sa.ID.Uid()] {
				continue
			}
			emittedStop[sa.ID.Uid()] = true
			out.Stops = append(out.Stops, buildStop(sa, tunables))
		}
	}

	networks := map[string]*model.ExportNetwork{}
	for _, rm := range city.RouteMasters {
		if len(rm.Variants) == 0 {
			continue
		}
		route := buildRoute(rm, tunables)

		net, ok := networks[rm.Network]
		if !ok {
			net = &model.ExportNetwork{Network: rm.Network}
			networks[rm.Network] = net
		}
		net.Routes = append(net.Routes, route)
	}
	for _, net := range networks {
		out.Networks = append(out.Networks, *net)
	}

	return out
}

func buildStop(sa *model.StopArea, tunables config.Tunables) model.ExportStop {
	stop := model.ExportStop{
		UID:     sa.ID.Uid(),
		Name:    sa.Name,
		IntName: sa.IntName,
		Lon:     sa.Center.Lon,
		Lat:     sa.Center.Lat,
		OSMType: sa.ID.Kind.String(),
		OSMID:   sa.ID.Num,
	}

	for num := range sa.Entrances {
		stop.Entrances = append(stop.Entrances, buildEntrance(sa, num, tunables))
	}
	for num := range sa.Exits {
		stop.Exits = append(stop.Exits, buildEntrance(sa, num, tunables))
	}

	if len(stop.Entrances) == 0 && len(stop.Exits) == 0 {
		if sampled := samplePlatformEntrances(sa, tunables); len(sampled) > 0 {
			stop.Entrances = sampled
			stop.Exits = sampled
		} else {
			synth := synthesiseEntrance(sa, tunables)
			stop.Entrances = []model.ExportEntrance{synth}
			stop.Exits = []model.ExportEntrance{synth}
		}
	}

	return stop
}

// samplePlatformEntrances picks candidate exit nodes from a station's
// platform ways, applying a minimum inter-candidate distance: the
// first candidate's distance from the station centre, two-thirds of
// it, becomes the floor every subsequent candidate must clear both
// from the centre and from every already-accepted candidate.
func samplePlatformEntrances(sa *model.StopArea, tunables config.Tunables) []model.ExportEntrance {
	platformIDs := make([]int64, 0, len(sa.Platforms))
	for id := range sa.Platforms {
		platformIDs = append(platformIDs, id)
	}
	sort.Slice(platformIDs, func(i, j int) bool { return platformIDs[i] < platformIDs[j] })

	var candidates []model.PlatformNode
	for _, id := range platformIDs {
		candidates = append(candidates, sa.PlatformNodes[id]...)
	}
	if len(candidates) == 0 {
		return nil
	}

	var accepted []model.PlatformNode
	var minDist float64
	haveMinDist := false
	for _, n := range candidates {
		d := geo.Distance(geo.Point(sa.Center), geo.Point(n.Point))
		if !haveMinDist {
			minDist = d * 2 / 3
			haveMinDist = true
		} else if d < minDist {
			continue
		}

		tooClose := false
		for _, a := range accepted {
			if geo.Distance(geo.Point(a.Point), geo.Point(n.Point)) < minDist {
				tooClose = true
				break
			}
		}
		if !tooClose {
			accepted = append(accepted, n)
		}
	}

	out := make([]model.ExportEntrance, 0, len(accepted))
	for _, n := range accepted {
		out = append(out, entranceCost(sa, "node", n.ID, n.Point, tunables))
	}
	return out
}

// entranceCost computes the walking cost from a point to the station
// centre, shared by mapped entrances/exits and sampled platform nodes.
func entranceCost(sa *model.StopArea, osmType string, osmID int64, point model.Point, tunables config.Tunables) model.ExportEntrance {
	dist := geo.Distance(geo.Point(sa.Center), geo.Point(point))
	seconds := int(dist/config.SpeedMetersPerSecond(tunables.SpeedToEntranceKMH)) + tunables.EntrancePenaltyS
	return model.ExportEntrance{
		OSMType: osmType,
		OSMID:   osmID,
		Lon:     point.Lon,
		Lat:     point.Lat,
		Cost:    seconds,
	}
}

// buildEntrance computes the walking cost from an entrance/exit node
// to the station centre.
func buildEntrance(sa *model.StopArea, num int64, tunables config.Tunables) model.ExportEntrance {
	center, ok := sa.ElementCenters[num]
	if !ok {
		center = sa.Center
	}
	return entranceCost(sa, "node", num, center, tunables)
}

// synthesiseEntrance fabricates a single virtual entrance/exit at the
// station's own centre, a flat-cost fallback for stations with
// neither mapped entrances nor platforms to sample.
func synthesiseEntrance(sa *model.StopArea, tunables config.Tunables) model.ExportEntrance {
	return model.ExportEntrance{
		OSMType: sa.Station.ID.Kind.String(),
		OSMID:   sa.Station.ID.Num,
		Lon:     sa.Center.Lon,
		Lat:     sa.Center.Lat,
		Cost:    tunables.EntrancePenaltyS,
	}
}

// buildRoute emits one itinerary per variant of the route master (e.g.
// inbound and outbound directions), not just the canonical variant.
func buildRoute(rm *model.RouteMaster, tunables config.Tunables) model.ExportRoute {
	itineraries := make([]model.ExportItinerary, 0, len(rm.Variants))
	for _, variant := range rm.Variants {
		itineraries = append(itineraries, buildItinerary(rm, variant, tunables))
	}

	return model.ExportRoute{
		Type:        rm.Mode,
		Ref:         rm.Ref,
		Name:        rm.Name,
		Colour:      rm.Colour,
		RouteUID:    rm.ID.Uid(),
		Itineraries: itineraries,
	}
}

func buildItinerary(rm *model.RouteMaster, variant *model.Route, tunables config.Tunables) model.ExportItinerary {
	itin := model.ExportItinerary{
		Interval: int(tunables.DefaultIntervalMin * 60),
	}
	if rm.Interval > 0 {
		itin.Interval = int(rm.Interval * 60)
	}

	cumulative := 0
	for i, rs := range variant.Stops {
		if i > 0 {
			cumulative += travelSeconds(rs.AlongLineDist, tunables)
		}
		itin.Stops = append(itin.Stops, model.ExportItineraryStop{
			UID:            rs.StopArea.ID.Uid(),
			CumulativeSecs: cumulative,
		})
	}
	return itin
}

// travelSeconds converts an along-line distance to a travel time using
// the configured on-line speed.
func travelSeconds(meters float64, tunables config.Tunables) int {
	return int(meters / config.SpeedMetersPerSecond(tunables.SpeedOnLineKMH))
}

// BuildTransfers converts resolved cross-city transfers into export
// records, using the on-transfer speed plus transfer penalty and the
// uid1 < uid2 canonical ordering.
func BuildTransfers(transfers []*model.Transfer, tunables config.Tunables) []model.ExportTransfer {
	var out []model.ExportTransfer
	for _, t := range transfers {
		for i := 0; i < len(t.StopAreas); i++ {
			for j := i + 1; j < len(t.StopAreas); j++ {
				a, b := t.StopAreas[i], t.StopAreas[j]
				uid1, uid2 := a.ID.Uid(), b.ID.Uid()
				if uid1 > uid2 {
					uid1, uid2 = uid2, uid1
				}
				dist := geo.Distance(geo.Point(a.Center), geo.Point(b.Center))
				seconds := int(dist/config.SpeedMetersPerSecond(tunables.SpeedOnTransferKMH)) + tunables.TransferPenaltyS
				out = append(out, model.ExportTransfer{UID1: uid1, UID2: uid2, Seconds: seconds})
			}
		}
	}
	return out
}

// SubstituteCached applies the cache substitution rule: if the current
// city has errors and a cached good export exists for it, the cached
// export is used instead. Under the strict policy the cached entry is
// used only when its source hash equals sourceHash; under the lenient
// policy it is used as is. Cached stations and entrances are not
// checked against the current element set.
func SubstituteCached(city *model.City, current model.Export, store cache.Store, sourceHash string, tunables config.Tunables) (model.Export, error) {
	if city.Good() {
		return current, store.Put(&cache.Entry{
			CityID:     city.Meta.ID,
			SourceHash: sourceHash,
			GoodExport: &current,
		})
	}

	entry, ok, err := store.Get(city.Meta.ID)
	if err != nil || !ok || entry.GoodExport == nil {
		return current, err
	}

	if tunables.EntranceVerification == config.EntranceVerificationStrict && entry.SourceHash != sourceHash {
		return current, nil
	}

	return *entry.GoodExport, nil
}
