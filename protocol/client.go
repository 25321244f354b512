package protocol

import (
	"encoding/json"
	"math"
)

// Messages coming in from the client.

type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional name
}

type Input struct {
	Ax      float32 `json:"ax"`                // -1, 0, 1 keyboard axis X
	Ay      float32 `json:"ay"`                // -1, 0, 1 keyboard axis Y
	Px      float64 `json:"px,omitempty"`      // pointer target, world space
	Py      float64 `json:"py,omitempty"`
	Pointer bool    `json:"pointer,omitempty"` // px/py carry a fresh sample
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerUpdate is a client-reported snapshot of its own player. A nil field
// was missing or malformed and must leave the server's value alone.
type PlayerUpdate struct {
	X, Y        *float64
	VX, VY      *float64
	Trail       []Point
	HasTrail    bool
	TrailActive *bool
	Score       *int
	Territory   [][2]int // cells newly captured since the last update
}

// playerUpdateWire is what a well-behaved client sends.
type playerUpdateWire struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	VX          float64  `json:"vx"`
	VY          float64  `json:"vy"`
	Trail       []Point  `json:"trail"`
	TrailActive bool     `json:"trailActive"`
	Score       int      `json:"score"`
	Territory   [][2]int `json:"territory,omitempty"`
}

// NewPlayerUpdate builds the outbound payload for a playerUpdate.
// territory lists cells captured since the previous update and may be nil.
func NewPlayerUpdate(x, y, vx, vy float64, trail []Point, active bool, score int, territory [][2]int) any {
	if trail == nil {
		trail = []Point{}
	}
	return playerUpdateWire{X: x, Y: y, VX: vx, VY: vy, Trail: trail, TrailActive: active, Score: score, Territory: territory}
}

// DecodePlayerUpdate reads a playerUpdate payload field by field. Fields
// that are missing, mistyped or non-finite are left nil; nothing here fails.
func DecodePlayerUpdate(raw json.RawMessage) PlayerUpdate {
	var u PlayerUpdate
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return u
	}
	u.X = number(fields["x"])
	u.Y = number(fields["y"])
	u.VX = number(fields["vx"])
	u.VY = number(fields["vy"])
	if s := number(fields["score"]); s != nil {
		n := int(math.Round(*s))
		u.Score = &n
	}
	if b := fields["trailActive"]; !isNull(b) {
		var v bool
		if json.Unmarshal(b, &v) == nil {
			u.TrailActive = &v
		}
	}
	if b := fields["trail"]; !isNull(b) {
		var pts []Point
		if json.Unmarshal(b, &pts) == nil && finitePoints(pts) {
			u.Trail = pts
			u.HasTrail = true
		}
	}
	u.Territory = cellList(fields["territory"])
	return u
}

// cellList keeps the well-formed [x, y] integer pairs and drops the rest.
func cellList(b json.RawMessage) [][2]int {
	if isNull(b) {
		return nil
	}
	var raw []json.RawMessage
	if json.Unmarshal(b, &raw) != nil {
		return nil
	}
	var out [][2]int
	for _, r := range raw {
		var c [2]int
		var parts []json.RawMessage
		if json.Unmarshal(r, &parts) != nil || len(parts) != 2 {
			continue
		}
		if json.Unmarshal(r, &c) != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isNull(b json.RawMessage) bool {
	return len(b) == 0 || string(b) == "null"
}

func number(b json.RawMessage) *float64 {
	if isNull(b) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finitePoints(pts []Point) bool {
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}
