package game

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointInPolygon is a ray-casting parity test. Polygons with fewer than
// three vertices contain nothing.
func PointInPolygon(p Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

func orient(p, q, r Point) float64 {
	return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
}

// onSegment reports whether r lies inside the bounding box of p-q.
// Only meaningful when p, q, r are colinear.
func onSegment(p, q, r Point) bool {
	return math.Min(p.X, q.X) <= r.X && r.X <= math.Max(p.X, q.X) &&
		math.Min(p.Y, q.Y) <= r.Y && r.Y <= math.Max(p.Y, q.Y)
}

// SegmentsIntersect reports whether a1-a2 and b1-b2 share a point.
// Touching endpoints and colinear overlap count as intersecting.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	o1 := orient(a1, a2, b1)
	o2 := orient(a1, a2, b2)
	o3 := orient(b1, b2, a1)
	o4 := orient(b1, b2, a2)

	if o1 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if o2 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	if o3 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if o4 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	return (o1 > 0) != (o2 > 0) && (o3 > 0) != (o4 > 0)
}

// PointToSegmentDistance returns the distance from p to the closest point of
// the finite segment a-b.
func PointToSegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / len2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// PolygonArea is the absolute shoelace area.
func PolygonArea(poly []Point) float64 {
	if len(poly) < 3 {
		return 0
	}
	a := 0.0
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a += poly[j].X*poly[i].Y - poly[i].X*poly[j].Y
	}
	return math.Abs(a) / 2
}

// SimplifyPolygon runs Douglas-Peucker with tolerance eps. Endpoints are
// always kept. If the simplified result would have fewer than three points
// the input is returned unchanged.
//
// Uses an explicit stack instead of recursion.
func SimplifyPolygon(poly []Point, eps float64) []Point {
	if len(poly) < 3 {
		return poly
	}

	keep := make([]bool, len(poly))
	keep[0] = true
	keep[len(poly)-1] = true

	type span struct{ lo, hi int }
	stack := []span{{0, len(poly) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}
		maxDist, maxIdx := 0.0, 0
		for i := s.lo + 1; i < s.hi; i++ {
			d := PointToSegmentDistance(poly[i], poly[s.lo], poly[s.hi])
			if d > maxDist {
				maxDist, maxIdx = d, i
			}
		}
		if maxDist > eps {
			keep[maxIdx] = true
			stack = append(stack, span{s.lo, maxIdx}, span{maxIdx, s.hi})
		}
	}

	out := make([]Point, 0, len(poly))
	for i, k := range keep {
		if k {
			out = append(out, poly[i])
		}
	}
	if len(out) < 3 {
		return poly
	}
	return out
}
