package topology

import (
	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/geo"
	"github.com/transitmap/topology/model"
)

// ProjectStops projects every stop's point onto the route's stitched
// track, first at the tight
// tolerance and falling back to the loose tolerance, recording every
// fractional position tied for closest (a stop can sit on more than
// one point of a looping or revisited track).
func ProjectStops(stops []*model.RouteStop, track []model.Point, tunables config.Tunables) []model.Diagnostic {
	var diags []model.Diagnostic
	if len(track) == 0 {
		for _, rs := range stops {
			diags = append(diags, model.NewWarning(model.ElementRef{Name: rs.StopArea.Name}, "no track to project stop onto"))
		}
		return diags
	}

	geoTrack := toGeoPoints(track)

	for _, rs := range stops {
		p := geo.Point(rs.StopPoint)
		proj := geo.ProjectOnLine(p, geoTrack, tunables.StopToLineToleranceM)
		if proj.Distance > tunables.StopToLineToleranceM {
			proj = geo.ProjectOnLine(p, geoTrack, tunables.StopToLineLooseM)
			if proj.Distance > tunables.StopToLineLooseM {
				diags = append(diags, model.NewWarning(model.ElementRef{Name: rs.StopArea.Name}, "stop %.0fm from nearest rail, exceeds loose tolerance", proj.Distance))
			}
		}
		rs.Projected = model.Point(proj.Point)
		rs.HasProjection = true
		rs.PositionsOnRails = proj.Positions
		if len(proj.Positions) > 0 {
			rs.ChosenPosition = proj.Positions[0]
		}
	}
	return diags
}

// OrderStops runs the two independent order checks: an angle test over
// every interior stop, always run; and a position-on-rails test that
// walks the stops choosing each one's smallest candidate position at
// or past the previous stop's, tolerating one violation for circular
// routes. When the forward walk fails outright, a reverse walk is
// tried against mirrored positions; if that succeeds, the track is
// reported reversed. When both directions fail, and the city carries a
// matching recovery itinerary, the stops are reordered to match it and
// the violations are downgraded to warnings; otherwise they stand as
// errors.
func OrderStops(stops []*model.RouteStop, track []model.Point, circular bool, tunables config.Tunables, recoveryItin *model.RecoveryItinerary) (reversedTrack []model.Point, diags []model.Diagnostic) {
	if len(stops) == 0 || len(track) == 0 {
		return track, diags
	}

	diags = append(diags, angleTest(stops, tunables)...)

	maxViolations := 0
	if circular {
		maxViolations = 1
	}

	chosen := make([]float64, len(stops))
	violations := walkPositions(len(stops), circular, func(i int) []float64 { return stops[i].PositionsOnRails }, chosen)
	if len(violations) <= maxViolations {
		applyChosen(stops, chosen)
		return track, diags
	}

	total := float64(len(track) - 1)
	mirroredChosen := make([]float64, len(stops))
	mirroredViolations := walkPositions(len(stops), circular, func(i int) []float64 {
		return mirrorPositions(stops[i].PositionsOnRails, total)
	}, mirroredChosen)
	if len(mirroredViolations) <= maxViolations {
		applyChosen(stops, mirroredChosen)
		diags = append(diags, model.NewWarning(model.ElementRef{}, "track direction reversed relative to stop order"))
		return reverseTrack(track), diags
	}

	applyChosen(stops, chosen)
	orderErrors := orderViolationDiagnostics(stops, violations)
	if reorderToRecovery(stops, recoveryItin) {
		diags = append(diags, downgradeToRecoveryWarnings(orderErrors)...)
	} else {
		diags = append(diags, orderErrors...)
	}
	return track, diags
}

// angleTest checks the angle formed at every interior stop by its two
// neighbours' projected positions: below the hard threshold is an
// error, below the soft threshold a warning. It runs regardless of
// what the position-on-rails test finds.
func angleTest(stops []*model.RouteStop, tolerance config.Tunables) []model.Diagnostic {
	var diags []model.Diagnostic
	for i := 1; i < len(stops)-1; i++ {
		prev, cur, next := stops[i-1], stops[i], stops[i+1]
		if !prev.HasProjection || !cur.HasProjection || !next.HasProjection {
			continue
		}
		angle := geo.AngleBetween(geo.Point(prev.Projected), geo.Point(cur.Projected), geo.Point(next.Projected))
		ref := model.ElementRef{Name: cur.StopArea.Name}
		switch {
		case angle < tolerance.MinAngleHard:
			diags = append(diags, model.NewError(ref, "angle between stops around %q is too narrow, %.0f degrees", cur.StopArea.Name, angle))
		case angle < tolerance.MinAngleOK:
			diags = append(diags, model.NewWarning(ref, "angle between stops around %q is narrow, %.0f degrees", cur.StopArea.Name, angle))
		}
	}
	return diags
}

// walkPositions performs the sequential position-on-rails walk:
// stop 0 takes its smallest candidate as a baseline, then each
// following stop takes the smallest candidate at or past the previous
// stop's chosen position. A stop with no such candidate is recorded as
// a violation and "reset" to its own smallest candidate so the walk
// can continue. For circular routes the wrap-around pair (last stop
// back to the first) is checked as one further step. chosen is filled
// in with the position picked for every stop.
func walkPositions(n int, circular bool, positionsAt func(i int) []float64, chosen []float64) []int {
	if n == 0 {
		return nil
	}
	var violations []int
	chosen[0] = smallest(positionsAt(0))
	for i := 1; i < n; i++ {
		pos, ok := smallestAtLeast(positionsAt(i), chosen[i-1])
		if !ok {
			violations = append(violations, i)
			pos = smallest(positionsAt(i))
		}
		chosen[i] = pos
	}
	if circular {
		if _, ok := smallestAtLeast(positionsAt(0), chosen[n-1]); !ok {
			violations = append(violations, 0)
		}
	}
	return violations
}

// mirrorPositions reflects every candidate position about the track's
// midpoint, used to test whether the track runs opposite to the
// stops' order without physically reversing it first.
func mirrorPositions(positions []float64, total float64) []float64 {
	out := make([]float64, len(positions))
	for i, p := range positions {
		out[i] = total - p
	}
	return out
}

// smallest returns the least candidate position, or 0 for an empty
// list (a stop that failed to project at all).
func smallest(positions []float64) float64 {
	if len(positions) == 0 {
		return 0
	}
	best := positions[0]
	for _, p := range positions[1:] {
		if p < best {
			best = p
		}
	}
	return best
}

// smallestAtLeast returns the least candidate position that is >=
// floor, or ok=false if none qualifies.
func smallestAtLeast(positions []float64, floor float64) (float64, bool) {
	found := false
	var best float64
	for _, p := range positions {
		if p < floor {
			continue
		}
		if !found || p < best {
			best = p
			found = true
		}
	}
	return best, found
}

func applyChosen(stops []*model.RouteStop, chosen []float64) {
	for i, rs := range stops {
		rs.ChosenPosition = chosen[i]
	}
}

func reverseTrack(track []model.Point) []model.Point {
	out := make([]model.Point, len(track))
	for i, p := range track {
		out[len(track)-1-i] = p
	}
	return out
}

// orderViolationDiagnostics reports one error per violating stop. A
// violation index of 0 denotes the circular wrap-around pair rather
// than the first stop, since the forward walk never flags index 0
// itself.
func orderViolationDiagnostics(stops []*model.RouteStop, violations []int) []model.Diagnostic {
	diags := make([]model.Diagnostic, 0, len(violations))
	for _, i := range violations {
		diags = append(diags, model.NewError(model.ElementRef{Name: stops[i].StopArea.Name}, "stop order violation (forward and reverse both fail)"))
	}
	return diags
}

// downgradeToRecoveryWarnings turns order-violation errors into
// warnings tagged as resolved by recovery data.
func downgradeToRecoveryWarnings(errs []model.Diagnostic) []model.Diagnostic {
	out := make([]model.Diagnostic, 0, len(errs))
	for _, d := range errs {
		out = append(out, model.NewWarning(d.Element, "%s (Fixed with recovery data)", d.Message))
	}
	return out
}

// reorderToRecovery, given a matching recovery itinerary, permutes
// stops in place to the recorded station order. Returns false (leaving
// stops untouched) when itin is nil or its station set doesn't
// correspond exactly to the current stops.
func reorderToRecovery(stops []*model.RouteStop, itin *model.RecoveryItinerary) bool {
	if itin == nil || len(itin.Stations) != len(stops) {
		return false
	}

	used := make([]bool, len(stops))
	ordered := make([]*model.RouteStop, 0, len(stops))
	for _, st := range itin.Stations {
		idx := -1
		for i, rs := range stops {
			if used[i] || rs.StopArea == nil || rs.StopArea.Station == nil {
				continue
			}
			if rs.StopArea.Station.ID.Num == st.OSMID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return false
		}
		used[idx] = true
		ordered = append(ordered, stops[idx])
	}

	copy(stops, ordered)
	return true
}

// ComputeAlongLineDistances sets the distance from one stop to the
// next to the along-rail distance between their chosen
// positions when both projected successfully, falling back to the
// direct great-circle distance between stop points otherwise.
func ComputeAlongLineDistances(stops []*model.RouteStop, track []model.Point) {
	if len(stops) == 0 {
		return
	}
	cum := cumulativeLength(track)

	stops[0].AlongLineDist = 0
	for i := 1; i < len(stops); i++ {
		prev, cur := stops[i-1], stops[i]
		if prev.HasProjection && cur.HasProjection && len(cum) > 0 {
			cur.AlongLineDist = alongLineBetween(cum, track, prev.ChosenPosition, cur.ChosenPosition)
		} else {
			cur.AlongLineDist = geo.Distance(geo.Point(prev.StopPoint), geo.Point(cur.StopPoint))
		}
	}
}

// cumulativeLength returns, for a polyline of n points, the cumulative
// distance from point 0 to point i at index i.
func cumulativeLength(track []model.Point) []float64 {
	if len(track) == 0 {
		return nil
	}
	cum := make([]float64, len(track))
	for i := 1; i < len(track); i++ {
		cum[i] = cum[i-1] + geo.Distance(geo.Point(track[i-1]), geo.Point(track[i]))
	}
	return cum
}

// alongLineBetween interpolates cumulative distance at fractional
// positions a and b (vertex index + fraction to next vertex) along the
// polyline whose cumulative lengths are given by cum.
func alongLineBetween(cum []float64, track []model.Point, a, b float64) float64 {
	da := interpolateCumulative(cum, track, a)
	db := interpolateCumulative(cum, track, b)
	d := db - da
	if d < 0 {
		d = -d
	}
	return d
}

func interpolateCumulative(cum []float64, track []model.Point, pos float64) float64 {
	idx := int(pos)
	if idx >= len(track)-1 {
		return cum[len(cum)-1]
	}
	if idx < 0 {
		return cum[0]
	}
	frac := pos - float64(idx)
	segLen := geo.Distance(geo.Point(track[idx]), geo.Point(track[idx+1]))
	return cum[idx] + frac*segLen
}

func toGeoPoints(pts []model.Point) []geo.Point {
	out := make([]geo.Point, len(pts))
	for i, p := range pts {
		out[i] = geo.Point(p)
	}
	return out
}
