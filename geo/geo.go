// Package geo provides the geometry primitives the topology pipeline
// needs: great-circle distance, polyline projection and angle
// computation, all on a WGS84 sphere approximation.
package geo

import "math"

// EarthRadiusMeters is the WGS84 sphere radius used for the
// equirectangular approximation.
const EarthRadiusMeters = 6378137.0

// Point is a local alias kept distinct from model.Point so this package
// has no dependency on model; callers convert at the boundary.
type Point struct {
	Lon float64
	Lat float64
}

// Distance computes the equirectangular-approximation great-circle
// distance between two points, adequate at the city scales this
// pipeline operates at.
func Distance(p1, p2 Point) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	avgLat := (lat1 + lat2) / 2
	dLon := (p2.Lon - p1.Lon) * math.Pi / 180
	dLat := lat2 - lat1

	x := dLon * math.Cos(avgLat)
	y := dLat
	return math.Sqrt(x*x+y*y) * EarthRadiusMeters
}

// AngleBetween returns the angle in [0, 180] degrees at vertex c, formed
// by rays c->p1 and c->p2.
func AngleBetween(p1, c, p2 Point) float64 {
	// Work in a local equirectangular projection centred on c so the
	// angle is meaningful at the scales involved.
	project := func(p Point) (float64, float64) {
		latc := c.Lat * math.Pi / 180
		x := (p.Lon - c.Lon) * math.Cos(latc)
		y := p.Lat - c.Lat
		return x, y
	}
	x1, y1 := project(p1)
	x2, y2 := project(p2)

	dot := x1*x2 + y1*y2
	mag1 := math.Hypot(x1, y1)
	mag2 := math.Hypot(x2, y2)
	if mag1 == 0 || mag2 == 0 {
		return 180
	}
	cosTheta := dot / (mag1 * mag2)
	if cosTheta > 1 {
		cosTheta = 1
	}
	if cosTheta < -1 {
		cosTheta = -1
	}
	return math.Acos(cosTheta) * 180 / math.Pi
}

// Projection is the result of projecting a point onto a polyline.
type Projection struct {
	// Point is the closest point on the polyline.
	Point Point

	// Distance is the distance from the original point to Point.
	Distance float64

	// Positions are the fractional vertex indices where the closest
	// point occurs; more than one entry when the polyline revisits the
	// same vertex/segment (loop services)
	Positions []float64
}

// ProjectOnLine returns the closest point on polyline to p, along with
// every fractional position where that closest distance occurs. slack
// widens the segment bounding-box prefilter (normally the
// stop-to-line-tolerance) so near-miss segments aren't skipped outright.
func ProjectOnLine(p Point, polyline []Point, slackMeters float64) Projection {
	if len(polyline) == 0 {
		return Projection{}
	}
	if len(polyline) == 1 {
		return Projection{Point: polyline[0], Distance: Distance(p, polyline[0]), Positions: []float64{0}}
	}

	// Degrees-per-meter approximation for the bounding box slack, good
	// enough at the scales involved.
	slackDeg := slackMeters / 111000.0

	best := Projection{Distance: math.Inf(1)}
	const eps = 1e-9

	for i := 0; i < len(polyline)-1; i++ {
		a, b := polyline[i], polyline[i+1]

		minLon, maxLon := math.Min(a.Lon, b.Lon)-slackDeg, math.Max(a.Lon, b.Lon)+slackDeg
		minLat, maxLat := math.Min(a.Lat, b.Lat)-slackDeg, math.Max(a.Lat, b.Lat)+slackDeg
		if p.Lon < minLon || p.Lon > maxLon || p.Lat < minLat || p.Lat > maxLat {
			continue
		}

		cp, frac := closestOnSegment(p, a, b)
		d := Distance(p, cp)
		pos := float64(i) + frac

		if d < best.Distance-eps {
			best = Projection{Point: cp, Distance: d, Positions: []float64{pos}}
		} else if d < best.Distance+eps {
			best.Positions = append(best.Positions, pos)
			if d < best.Distance {
				best.Distance = d
				best.Point = cp
			}
		}
	}

	if math.IsInf(best.Distance, 1) {
		// No segment passed the prefilter; fall back to the nearest
		// vertex so callers always get a usable (if poor) projection.
		bestIdx := 0
		bestDist := math.Inf(1)
		for i, v := range polyline {
			d := Distance(p, v)
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		return Projection{Point: polyline[bestIdx], Distance: bestDist, Positions: []float64{float64(bestIdx)}}
	}

	return best
}

// closestOnSegment returns the closest point on segment a-b to p, along
// with the fractional position in [0,1] along the segment.
func closestOnSegment(p, a, b Point) (Point, float64) {
	// Local equirectangular projection around a, flattening lon/lat
	// into a locally-planar x/y so ordinary vector projection applies.
	latc := a.Lat * math.Pi / 180
	toXY := func(q Point) (float64, float64) {
		return (q.Lon - a.Lon) * math.Cos(latc), q.Lat - a.Lat
	}
	ax, ay := 0.0, 0.0
	bx, by := toXY(b)
	px, py := toXY(p)

	dx, dy := bx-ax, by-ay
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return a, 0
	}

	t := ((px-ax)*dx + (py-ay)*dy) / segLenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	cx := ax + t*dx
	cy := ay + t*dy

	// back to lon/lat
	lon := a.Lon + cx/math.Cos(latc)
	lat := a.Lat + cy
	return Point{Lon: lon, Lat: lat}, t
}
