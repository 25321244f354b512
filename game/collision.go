package game

import "math"

// Rival is a read-only view of another player's trail, taken either from the
// live state or from a received snapshot.
type Rival struct {
	ID     string
	Radius float64
	Trail  []Point // oldest first
	Active bool
}

// collisionArmed reports whether a trail is long enough for collisions to count.
func collisionArmed(trailLen int) bool {
	return trailLen > MinTrailCollisionLen
}

// SelfCollision tests the latest movement segment, from the second newest
// trail point to pos, against the older part of the same trail. Only the
// last SelfCollisionWindow points are considered and the newest
// SelfCollisionSkip are excluded.
func SelfCollision(trail []Point, pos Point) bool {
	n := len(trail)
	if !collisionArmed(n) {
		return false
	}
	a := trail[n-2]
	start := max(0, n-SelfCollisionWindow)
	for i := start; i < n-SelfCollisionSkip; i++ {
		if SegmentsIntersect(a, pos, trail[i], trail[i+1]) {
			return true
		}
	}
	return false
}

// CrossCollision reports the first rival whose recent trail passes within
// radius + rival radius + CrossCollisionMargin of pos.
func CrossCollision(pos Point, radius float64, rivals []Rival) (string, bool) {
	for _, r := range rivals {
		if !r.Active || len(r.Trail) == 0 {
			continue
		}
		pts := r.Trail
		if len(pts) > CrossCollisionWindow {
			pts = pts[len(pts)-CrossCollisionWindow:]
		}
		reach := radius + r.Radius + CrossCollisionMargin
		if !boundsNear(pts, pos, reach) {
			continue
		}
		if minTrailDistance(pts, pos) < reach {
			return r.ID, true
		}
	}
	return "", false
}

// boundsNear is the axis-aligned rejection test: pos against the bounding
// box of pts grown by reach.
func boundsNear(pts []Point, pos Point, reach float64) bool {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return pos.X >= minX-reach && pos.X <= maxX+reach &&
		pos.Y >= minY-reach && pos.Y <= maxY+reach
}

func minTrailDistance(pts []Point, pos Point) float64 {
	if len(pts) == 1 {
		return math.Hypot(pos.X-pts[0].X, pos.Y-pts[0].Y)
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		best = math.Min(best, PointToSegmentDistance(pos, pts[i], pts[i+1]))
	}
	return best
}
