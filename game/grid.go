package game

import "math"

// Cell is an integer lattice coordinate; cell (x, y) covers
// [x*CellSize, (x+1)*CellSize) on each axis.
type Cell struct {
	X, Y int
}

// Center returns the world-space center of the cell.
func (c Cell) Center() Point {
	return Point{
		X: (float64(c.X) + 0.5) * CellSize,
		Y: (float64(c.Y) + 0.5) * CellSize,
	}
}

// CellAt floor-divides a world position into its cell.
func CellAt(x, y float64) Cell {
	return Cell{
		X: int(math.Floor(x / CellSize)),
		Y: int(math.Floor(y / CellSize)),
	}
}

// Grid is the sparse territory map. A cell has at most one owner and keeps
// it for the rest of the session.
type Grid struct {
	cells  map[Cell]string
	counts map[string]int
}

func NewGrid() *Grid {
	return &Grid{
		cells:  make(map[Cell]string),
		counts: make(map[string]int),
	}
}

// Claim marks c as owned by owner if it is unclaimed. It returns true only
// when the cell changed hands; claiming an owned cell is a no-op.
func (g *Grid) Claim(c Cell, owner string) bool {
	if owner == "" {
		return false
	}
	if _, taken := g.cells[c]; taken {
		return false
	}
	g.cells[c] = owner
	g.counts[owner]++
	return true
}

func (g *Grid) IsOwnedBy(c Cell, owner string) bool {
	o, ok := g.cells[c]
	return ok && o == owner
}

// Owner returns the owner tag of c, or "" when unclaimed.
func (g *Grid) Owner(c Cell) string {
	return g.cells[c]
}

func (g *Grid) Claimed(c Cell) bool {
	_, ok := g.cells[c]
	return ok
}

func (g *Grid) CellCount(owner string) int {
	return g.counts[owner]
}

// OwnedArea is the world-space area held by owner.
func (g *Grid) OwnedArea(owner string) float64 {
	return float64(g.counts[owner]) * CellSize * CellSize
}

// CapturedPercent is the owner's area relative to the arena disc, capped at 100.
func (g *Grid) CapturedPercent(owner string, a Arena) float64 {
	area := a.Area()
	if area <= 0 {
		return 0
	}
	return math.Min(100, g.OwnedArea(owner)/area*100)
}

// SeedBlock claims the (2*half+1)^2 block centred on c and returns how many
// cells were newly claimed.
func (g *Grid) SeedBlock(c Cell, half int, owner string) int {
	n := 0
	for x := c.X - half; x <= c.X+half; x++ {
		for y := c.Y - half; y <= c.Y+half; y++ {
			if g.Claim(Cell{x, y}, owner) {
				n++
			}
		}
	}
	return n
}

// BlockFree reports whether no cell of the (2*half+1)^2 block centred on c
// is claimed yet.
func (g *Grid) BlockFree(c Cell, half int) bool {
	for x := c.X - half; x <= c.X+half; x++ {
		for y := c.Y - half; y <= c.Y+half; y++ {
			if g.Claimed(Cell{x, y}) {
				return false
			}
		}
	}
	return true
}

// All returns a copy of every claimed cell and its owner.
func (g *Grid) All() map[Cell]string {
	out := make(map[Cell]string, len(g.cells))
	for c, o := range g.cells {
		out[c] = o
	}
	return out
}

func (g *Grid) Len() int {
	return len(g.cells)
}
