package game

import "math"

// CaptureResult describes one trail closure.
type CaptureResult struct {
	Cells    []Cell  // newly claimed, in scan order
	Area     float64 // area of the captured polygon, diagnostics only
	Consumed int     // trail points consumed; this is what the score grows by
}

// CapturePolygon closes a trail into the polygon the resolver scans:
// the exit point (trail[0]), the trail itself, then the re-entry point.
func CapturePolygon(trail []Point, reentry Point) []Point {
	if len(trail) == 0 {
		return nil
	}
	poly := make([]Point, 0, len(trail)+2)
	poly = append(poly, trail[0])
	poly = append(poly, trail...)
	poly = append(poly, reentry)
	return poly
}

// Capture claims for owner every unclaimed cell whose center lies inside the
// polygon closed by trail and reentry. Trails of two points or fewer capture
// nothing. Self-intersecting polygons are scanned as-is.
func Capture(g *Grid, owner string, trail []Point, reentry Point) CaptureResult {
	if len(trail) <= 2 {
		return CaptureResult{}
	}
	poly := CapturePolygon(trail, reentry)
	res := CaptureResult{
		Area:     PolygonArea(poly),
		Consumed: len(trail),
	}

	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, p := range poly {
		c := CellAt(p.X, p.Y)
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
		minY = min(minY, c.Y)
		maxY = max(maxY, c.Y)
	}

	for x := minX - 1; x <= maxX+1; x++ {
		for y := minY - 1; y <= maxY+1; y++ {
			c := Cell{x, y}
			if g.Claimed(c) {
				continue
			}
			if PointInPolygon(c.Center(), poly) && g.Claim(c, owner) {
				res.Cells = append(res.Cells, c)
			}
		}
	}
	return res
}
