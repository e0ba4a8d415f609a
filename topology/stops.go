package topology

import (
	"github.com/transitmap/topology/elementstore"
	"github.com/transitmap/topology/model"
)

// ExtractStops walks a route relation's members in order, classifies
// stop/platform roles, and resolves each to the
// StopArea it belongs to, merging a stop-position and a platform
// member that both resolve to the same StopArea into a single
// RouteStop.
//
// byElement maps an OSM element's numeric id to the StopArea that
// contains it (built by the caller from the city's station index).
// circular reports whether the first and last resolved stop share a
// StopArea, in which case the duplicated trailing stop is dropped.
func ExtractStops(rel *model.Element, store *elementstore.Store, byElement map[int64]*model.StopArea) (stops []*model.RouteStop, diags []model.Diagnostic, circular bool) {
	for _, m := range rel.Members {
		base := RoleBase(m.Role)
		qualifier := RoleQualifier(m.Role)

		var isStop, isPlatform bool
		switch base {
		case "stop":
			isStop = true
		case "platform":
			isPlatform = true
		default:
			continue
		}

		el := store.Get(m.Ref)
		if el == nil {
			continue
		}

		sa := byElement[m.Ref.Num]
		if sa == nil {
			diags = append(diags, model.NewWarning(refOf(rel), "route stop %s is not part of any known stop area", el.ID))
			continue
		}

		point, hasPoint := elementPoint(el, store)

		var rs *model.RouteStop
		if len(stops) > 0 && stops[len(stops)-1].StopArea == sa {
			rs = stops[len(stops)-1]
		} else {
			rs = &model.RouteStop{StopArea: sa, CanEnter: true, CanExit: true}
			stops = append(stops, rs)
		}

		canEnter, canExit := rolePermissions(qualifier)

		if isStop {
			rs.SeenStop = true
			rs.CanEnter = rs.CanEnter && canEnter
			rs.CanExit = rs.CanExit && canExit
			if hasPoint {
				rs.StopPoint = point
			}
		}
		if isPlatform {
			switch qualifier {
			case "exit_only":
				rs.SeenPlatformExit = true
				rs.PlatformExitID = el.ID.Num
			case "entry_only":
				rs.SeenPlatformEntry = true
				rs.PlatformEntryID = el.ID.Num
			default:
				rs.SeenPlatformEntry = true
				rs.SeenPlatformExit = true
				rs.PlatformEntryID = el.ID.Num
				rs.PlatformExitID = el.ID.Num
			}
			if !rs.SeenStop && hasPoint {
				rs.StopPoint = point
			}
		}
	}

	if len(stops) >= 2 && stops[0].StopArea == stops[len(stops)-1].StopArea {
		stops = stops[:len(stops)-1]
		circular = true
	}

	if replay := detectReplay(stops); replay > 0 {
		stops = stops[:replay]
	}

	return stops, diags, circular
}

// rolePermissions maps an entry/exit qualifier to the enter/exit
// capability of the stop it annotates.
func rolePermissions(qualifier string) (canEnter, canExit bool) {
	switch qualifier {
	case "exit_only":
		return false, true
	case "entry_only":
		return true, false
	default:
		return true, true
	}
}

// detectReplay recognises a route relation that lists its stops twice
// (an out-and-back "replay" encoded as one relation instead of two),
// by checking whether the second half of the sequence mirrors the
// first half's StopAreas in reverse. Returns the index at which to
// truncate, or 0 if no replay is detected.
func detectReplay(stops []*model.RouteStop) int {
	n := len(stops)
	if n < 4 || n%2 != 0 {
		return 0
	}
	half := n / 2
	for i := 0; i < half; i++ {
		if stops[i].StopArea != stops[n-1-i].StopArea {
			return 0
		}
	}
	return half
}

func elementPoint(el *model.Element, store *elementstore.Store) (model.Point, bool) {
	if el.ID.Kind == model.KindNode {
		return model.Point{Lon: el.Lon, Lat: el.Lat}, true
	}
	return store.Center(el.ID)
}
