package game

import "testing"

// crossingTrail returns a trail of n points whose newest segment, ending at
// (20, -5), crosses its own earliest stretch along y=0 near x=20.
func crossingTrail(n int) []Point {
	tail := []Point{
		{0, 0}, {10, 0}, {20, 0}, {30, 0}, {40, 0}, {50, 0},
		{50, 10}, {50, 20}, {50, 30},
		{40, 30}, {30, 30}, {20, 30},
		{20, 20}, {20, 10}, {20, -5},
	}
	var head []Point
	for i := n - len(tail); i > 0; i-- {
		head = append(head, Point{-10 * float64(i), 0})
	}
	return append(head, tail...)
}

func TestSelfCollisionNotArmedAtThreshold(t *testing.T) {
	trail := crossingTrail(MinTrailCollisionLen)
	if len(trail) != MinTrailCollisionLen {
		t.Fatalf("fixture len %d", len(trail))
	}
	if SelfCollision(trail, trail[len(trail)-1]) {
		t.Fatalf("self-collision fired at exactly %d points", MinTrailCollisionLen)
	}
}

func TestSelfCollisionFiresPastThreshold(t *testing.T) {
	trail := crossingTrail(MinTrailCollisionLen + 1)
	if !SelfCollision(trail, trail[len(trail)-1]) {
		t.Fatalf("expected self-collision with %d points", len(trail))
	}
}

func TestSelfCollisionIgnoresRecentPoints(t *testing.T) {
	// A sharp hook back across the line, but only over the newest points.
	var trail []Point
	for i := 0; i < 30; i++ {
		trail = append(trail, Point{float64(i), 0})
	}
	trail = append(trail, Point{28, 1}, Point{27.5, -1})
	if SelfCollision(trail, trail[len(trail)-1]) {
		t.Fatalf("crossing within the newest %d points should not kill", SelfCollisionSkip)
	}
}

func TestSelfCollisionIgnoresHistoryOutsideWindow(t *testing.T) {
	// Crossing point sits more than SelfCollisionWindow points back.
	trail := crossingTrail(MinTrailCollisionLen + 1)
	crossing := trail[len(trail)-2:]
	prefix := trail[:len(trail)-2]
	// Pad with a long detour far away so the crossing falls out of the window.
	var detour []Point
	for i := 0; i < SelfCollisionWindow; i++ {
		detour = append(detour, Point{1000 + float64(i), 1000})
	}
	detour = append(detour, crossing[0])
	full := append(append(append([]Point{}, prefix...), detour...), crossing[1])
	if SelfCollision(full, full[len(full)-1]) {
		t.Fatalf("crossing older than the window should be ignored")
	}
}

func TestCrossCollisionHitsNearbyTrail(t *testing.T) {
	rivals := []Rival{{
		ID:     "b",
		Radius: PlayerRadius,
		Trail:  []Point{{0, 0}, {100, 0}},
		Active: true,
	}}
	id, hit := CrossCollision(Point{50, 10}, PlayerRadius, rivals)
	if !hit || id != "b" {
		t.Fatalf("expected hit on b, got %q %v", id, hit)
	}
	if _, hit := CrossCollision(Point{50, 2*PlayerRadius + CrossCollisionMargin + 0.5}, PlayerRadius, rivals); hit {
		t.Fatalf("just outside reach should not hit")
	}
}

func TestCrossCollisionSkipsInactiveAndEmpty(t *testing.T) {
	rivals := []Rival{
		{ID: "idle", Radius: PlayerRadius, Trail: []Point{{0, 0}, {100, 0}}},
		{ID: "empty", Radius: PlayerRadius, Active: true},
	}
	if _, hit := CrossCollision(Point{50, 0}, PlayerRadius, rivals); hit {
		t.Fatalf("inactive or empty trails must not collide")
	}
}

func TestCrossCollisionDisjointTrails(t *testing.T) {
	rivals := []Rival{{
		ID:     "b",
		Radius: PlayerRadius,
		Trail:  []Point{{0, 0}, {10, 10}, {20, 0}},
		Active: true,
	}}
	reach := 2*PlayerRadius + CrossCollisionMargin
	for _, p := range []Point{
		{20 + reach + 0.1, 0},
		{-reach - 0.1, 5},
		{10, 10 + reach + 0.1},
		{300, 300},
	} {
		if _, hit := CrossCollision(p, PlayerRadius, rivals); hit {
			t.Fatalf("position %v outside bounds collided", p)
		}
	}
}

func TestCrossCollisionWindowed(t *testing.T) {
	// Only the oldest point is near; it falls outside the recent window.
	trail := []Point{{0, 0}}
	for i := 1; i <= CrossCollisionWindow; i++ {
		trail = append(trail, Point{500, float64(i * 10)})
	}
	rivals := []Rival{{ID: "b", Radius: PlayerRadius, Trail: trail, Active: true}}
	if _, hit := CrossCollision(Point{0, 0}, PlayerRadius, rivals); hit {
		t.Fatalf("collision against a point outside the window")
	}
}
