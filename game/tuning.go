package game

import "math"

const (
	MapScale     = 1.5 * math.Sqrt2
	MapCenterX   = 640.0
	MapCenterY   = 360.0
	ViewportMin  = 720.0 // min(1280, 720) of the reference viewport
	MapMargin    = 60.0
	PlayerSpeed  = 1.4 * 1.2
	PlayerRadius = 6.0

	CellSize       = 20.0 // world units per territory cell
	StartBlockHalf = 4    // 9x9 starting block: spawn cell ±4

	PointerSmoothing = 0.08 // fraction of the velocity gap closed per frame

	MaxTrailLength       = 2000 // oldest points evicted beyond this
	MinTrailCollisionLen = 20   // trail must be longer than this before collisions count
	SelfCollisionWindow  = 60
	SelfCollisionSkip    = 6 // most recent points never tested against
	CrossCollisionWindow = 100
	CrossCollisionMargin = 2.0

	FrameMillis    = 16.67 // one reference frame
	MaxFrameMillis = 32.0
)

// DefaultArena is the arena laid out for a 1280x720 reference view.
func DefaultArena() Arena {
	return Arena{
		CX: MapCenterX,
		CY: MapCenterY,
		R:  ViewportMin/2*MapScale - MapMargin,
	}
}
