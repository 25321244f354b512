package game

// Trail records positions while a player is outside its territory.
// Points are only present while the trail is active.
type Trail struct {
	points []Point
	active bool
	max    int
}

func NewTrail(limit int) *Trail {
	if limit <= 0 {
		limit = MaxTrailLength
	}
	return &Trail{max: limit}
}

// Start resets the trail and records the first point.
func (t *Trail) Start(p Point) {
	t.active = true
	t.points = t.points[:0]
	t.points = append(t.points, p)
}

// Append records p, evicting the oldest points once the cap is exceeded.
// Appending to an inactive trail starts it.
func (t *Trail) Append(p Point) {
	if !t.active {
		t.Start(p)
		return
	}
	t.points = append(t.points, p)
	if over := len(t.points) - t.Cap(); over > 0 {
		n := copy(t.points, t.points[over:])
		t.points = t.points[:n]
	}
}

// Clear drops all points and deactivates the trail.
func (t *Trail) Clear() {
	t.active = false
	t.points = t.points[:0]
}

// Restore overwrites the trail wholesale, e.g. from a relayed client
// update. The cap still applies and keeps the newest points.
func (t *Trail) Restore(pts []Point, active bool) {
	t.points = t.points[:0]
	if len(pts) > t.Cap() {
		pts = pts[len(pts)-t.Cap():]
	}
	t.points = append(t.points, pts...)
	t.active = active && len(t.points) > 0
	if !t.active {
		t.points = t.points[:0]
	}
}

func (t *Trail) Active() bool { return t.active }
func (t *Trail) Len() int      { return len(t.points) }

// Cap is the point limit; the zero Trail uses MaxTrailLength.
func (t *Trail) Cap() int {
	if t.max <= 0 {
		return MaxTrailLength
	}
	return t.max
}

// Last returns the most recent point.
func (t *Trail) Last() (Point, bool) {
	if len(t.points) == 0 {
		return Point{}, false
	}
	return t.points[len(t.points)-1], true
}

// Points returns a copy of the recorded points, oldest first.
func (t *Trail) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Recent returns a copy of at most the n newest points.
func (t *Trail) Recent(n int) []Point {
	pts := t.view(n)
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}

// view aliases the n newest points; callers must not retain it.
func (t *Trail) view(n int) []Point {
	if n <= 0 || n >= len(t.points) {
		return t.points
	}
	return t.points[len(t.points)-n:]
}
