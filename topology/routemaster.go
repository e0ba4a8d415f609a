package topology

import (
	"github.com/transitmap/topology/model"
)

// GroupKey identifies the route master a variant belongs to: its
// master relation's id when one references it, or a (colour, ref)
// fallback pair otherwise
type GroupKey struct {
	MasterID model.ID
	HasID    bool
	Colour   string
	Ref      string
}

// AssembleRouteMaster groups a set of already-built route variants
// that share a GroupKey into one RouteMaster, checks for colour/ref
// mismatches across variants, and picks the canonical "best" variant.
func AssembleRouteMaster(key GroupKey, variants []*model.Route) (*model.RouteMaster, []model.Diagnostic) {
	var diags []model.Diagnostic
	if len(variants) == 0 {
		return nil, diags
	}

	rm := &model.RouteMaster{
		ID:     key.MasterID,
		HasID:  key.HasID,
		Ref:    variants[0].Ref,
		Colour: variants[0].Colour,
		Infill: variants[0].Infill,
		Mode:   variants[0].Mode,
		Network: variants[0].Network,
		Variants: variants,
	}
	if !key.HasID {
		rm.ID = variants[0].ID
		for _, v := range variants[1:] {
			if v.ID.Num < rm.ID.Num {
				rm.ID = v.ID
			}
		}
	}

	for _, v := range variants[1:] {
		if v.Colour != rm.Colour {
			diags = append(diags, model.NewWarning(model.ElementRef{Name: rm.Ref}, "route master variants disagree on colour: %q vs %q", rm.Colour, v.Colour))
		}
		if v.Ref != rm.Ref {
			diags = append(diags, model.NewError(model.ElementRef{Name: rm.Ref}, "route master variants disagree on ref: %q vs %q", rm.Ref, v.Ref))
		}
	}

	name := longestName(variants)
	rm.Name = name

	rm.Canonical = rm.BestVariant()

	if !HasAnyReturn(variants) && len(variants) == 1 && !variants[0].IsCircular {
		diags = append(diags, model.NewWarning(model.ElementRef{Name: rm.Ref}, "route %s has no return variant and is not circular", rm.Ref))
	}

	return rm, diags
}

// HasAnyReturn reports whether any pair of variants in the set forms
// an out-and-back pair (one variant's start area matches another's end
// area and vice versa), or any single variant is circular.
func HasAnyReturn(variants []*model.Route) bool {
	for _, v := range variants {
		if v.IsCircular {
			return true
		}
	}
	for i := range variants {
		for j := range variants {
			if i == j {
				continue
			}
			a, b := variants[i], variants[j]
			if len(a.Stops) == 0 || len(b.Stops) == 0 {
				continue
			}
			if a.Stops[0].StopArea == b.Stops[len(b.Stops)-1].StopArea &&
				a.Stops[len(a.Stops)-1].StopArea == b.Stops[0].StopArea {
				return true
			}
		}
	}
	return false
}

func longestName(variants []*model.Route) string {
	best := ""
	for _, v := range variants {
		if len(v.Name) > len(best) {
			best = v.Name
		}
	}
	return best
}

// GroupRoutesByMaster groups route variants: variants referenced by
// the same route_master relation are grouped by its id;
// variants with no master fall back to grouping by (colour, ref).
// masterOf maps a route relation's numeric id to its master relation,
// when one exists.
func GroupRoutesByMaster(routes []*model.Route, masterOf map[int64]model.ID) map[GroupKey][]*model.Route {
	groups := map[GroupKey][]*model.Route{}
	for _, r := range routes {
		var key GroupKey
		if masterID, ok := masterOf[r.ID.Num]; ok {
			key = GroupKey{MasterID: masterID, HasID: true}
		} else {
			key = GroupKey{Colour: r.Colour, Ref: r.Ref}
		}
		groups[key] = append(groups[key], r)
	}
	return groups
}
