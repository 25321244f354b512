package game

import (
	"math"
	"sort"
)

// Internal truth: one arena session. The room (or a participant) owns it and
// threads it through every step; nothing here is global.

type State struct {
	Tick       int
	Arena      Arena
	Grid       *Grid
	Players    map[string]*Player
	Eliminated []EliminatedEntry
}

type EliminatedEntry struct {
	ID    string
	Name  string
	Score int
	Cause DeathCause
}

type Player struct {
	ID, Name, Color string

	X, Y, VX, VY float64
	Speed        float64
	Radius       float64

	// Pointer-follow target, kept between inputs.
	TargetX, TargetY float64

	Trail Trail
	Score int
	Alive bool
}

// Pos returns the player's position as a Point.
func (p *Player) Pos() Point { return Point{p.X, p.Y} }

// Input is one frame of steering. A non-zero Ax/Ay (discrete -1/0/1 axes)
// overrides the pointer; Pointer marks PointerX/PointerY as a fresh target.
type Input struct {
	Ax, Ay             float64
	PointerX, PointerY float64
	Pointer            bool
}

// Arena is the circular playfield.
type Arena struct {
	CX, CY, R float64
}

func (a Arena) Center() Point { return Point{a.CX, a.CY} }

func (a Arena) Area() float64 { return math.Pi * a.R * a.R }

func NewState(a Arena) *State {
	return &State{
		Arena:   a,
		Grid:    NewGrid(),
		Players: make(map[string]*Player),
	}
}

// AddPlayer places a new player at spawn and seeds its starting block.
// Cells already owned by someone else stay theirs.
func (s *State) AddPlayer(id, name, color string, spawn Point) *Player {
	p := &Player{
		ID:      id,
		Name:    name,
		Color:   color,
		X:       spawn.X,
		Y:       spawn.Y,
		Speed:   PlayerSpeed,
		Radius:  PlayerRadius,
		TargetX: spawn.X,
		TargetY: spawn.Y,
		Alive:   true,
	}
	s.Players[id] = p
	s.Grid.SeedBlock(CellAt(spawn.X, spawn.Y), StartBlockHalf, id)
	return p
}

// RemovePlayer drops a player from the roster. Its territory stays claimed.
func (s *State) RemovePlayer(id string) {
	delete(s.Players, id)
}

// Kill marks p dead. Territory is left alone; the trail is dropped.
func (s *State) Kill(p *Player, cause DeathCause) {
	if !p.Alive {
		return
	}
	p.Alive = false
	p.VX, p.VY = 0, 0
	p.Trail.Clear()
	s.Eliminated = append(s.Eliminated, EliminatedEntry{ID: p.ID, Name: p.Name, Score: p.Score, Cause: cause})
}

// SortedIDs returns roster IDs in a stable order so that captures resolve
// deterministically.
func (s *State) SortedIDs() []string {
	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rivals returns trail views of every player except self. The trails alias
// live state and are only valid until the next mutation.
func (s *State) Rivals(self string) []Rival {
	out := make([]Rival, 0, len(s.Players))
	for _, id := range s.SortedIDs() {
		if id == self {
			continue
		}
		p := s.Players[id]
		if !p.Alive || !p.Trail.Active() {
			continue
		}
		out = append(out, Rival{
			ID:     id,
			Radius: p.Radius,
			Trail:  p.Trail.view(CrossCollisionWindow),
			Active: true,
		})
	}
	return out
}

// Spawn layout: a sunflower spiral of spawnSlots points, kept far enough in
// that a whole starting block fits inside the arena.
const (
	spawnSlots    = 24
	spawnTries    = spawnSlots
	spawnBlockGap = (StartBlockHalf + 1) * CellSize * math.Sqrt2
)

// SpawnPoint returns the index-th spawn candidate. Index 0 is the center;
// later indices walk outward, golden-angle spaced, and wrap after
// spawnSlots. Neighbouring candidates can still share cells; FreeSpawn
// skips those.
func SpawnPoint(a Arena, index int) Point {
	i := index % spawnSlots
	if i <= 0 {
		return a.Center()
	}
	const golden = 2.399963229728653 // pi * (3 - sqrt(5))
	angle := float64(i) * golden
	d := math.Max(0, a.R-spawnBlockGap) * math.Sqrt(float64(i)/spawnSlots)
	return Point{a.CX + math.Cos(angle)*d, a.CY + math.Sin(angle)*d}
}

// FreeSpawn picks the first candidate from index on whose starting block is
// wholly unclaimed, and returns it with the index used. When the arena is
// too crowded it falls back to SpawnPoint(a, index) and a partial block.
func (s *State) FreeSpawn(index int) (Point, int) {
	for i := index; i < index+spawnTries; i++ {
		p := SpawnPoint(s.Arena, i)
		if s.Grid.BlockFree(CellAt(p.X, p.Y), StartBlockHalf) {
			return p, i
		}
	}
	return SpawnPoint(s.Arena, index), index
}
