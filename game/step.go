package game

import (
	"math"
	"time"
)

type DeathCause uint8

const (
	DeathNone DeathCause = iota
	DeathSelf
	DeathRival
	DeathReported // client said so (relay mode)
)

func (c DeathCause) String() string {
	switch c {
	case DeathSelf:
		return "self"
	case DeathRival:
		return "rival"
	case DeathReported:
		return "reported"
	default:
		return "none"
	}
}

// Outcome is what happened to one player during one step.
type Outcome struct {
	Capture  *CaptureResult
	Death    DeathCause
	KilledBy string // rival ID when Death == DeathRival
}

type EventKind uint8

const (
	EventCapture EventKind = iota
	EventDeath
)

type Event struct {
	Kind     EventKind
	PlayerID string
	Outcome  Outcome
}

// FrameScale turns a wall-clock frame delta into the step scale: elapsed is
// capped at MaxFrameMillis and measured in reference frames.
func FrameScale(elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	if ms <= 0 {
		return 0
	}
	return math.Min(ms, MaxFrameMillis) / FrameMillis
}

// Step advances the tick and moves every living player once, in ID order.
func Step(s *State, inputs map[string]Input, dt float64) []Event {
	s.Tick++

	var events []Event
	for _, id := range s.SortedIDs() {
		p := s.Players[id]
		if !p.Alive {
			continue
		}
		out := StepPlayer(s, p, inputs[id], dt, s.Rivals(id))
		if out.Capture != nil {
			events = append(events, Event{Kind: EventCapture, PlayerID: id, Outcome: out})
		}
		if out.Death != DeathNone {
			events = append(events, Event{Kind: EventDeath, PlayerID: id, Outcome: out})
		}
	}
	return events
}

// StepPlayer runs one tick for p. The order is fixed: steer, integrate,
// territory lookup, boundary clamp, trail/capture, then collisions.
func StepPlayer(s *State, p *Player, in Input, dt float64, rivals []Rival) Outcome {
	var out Outcome
	if !p.Alive {
		return out
	}

	steer(p, in)

	p.X += p.VX * dt
	p.Y += p.VY * dt

	inside := s.Grid.IsOwnedBy(CellAt(p.X, p.Y), p.ID)

	s.Arena.Clamp(p)

	pos := p.Pos()
	if !inside {
		p.Trail.Append(pos)
	} else if p.Trail.Active() {
		if p.Trail.Len() > 2 {
			res := Capture(s.Grid, p.ID, p.Trail.view(0), pos)
			p.Score += res.Consumed
			out.Capture = &res
		}
		p.Trail.Clear()
	}

	if !p.Trail.Active() {
		return out
	}
	if SelfCollision(p.Trail.view(0), pos) {
		out.Death = DeathSelf
		s.Kill(p, DeathSelf)
		return out
	}
	if collisionArmed(p.Trail.Len()) {
		if id, hit := CrossCollision(pos, p.Radius, rivals); hit {
			out.Death = DeathRival
			out.KilledBy = id
			s.Kill(p, DeathRival)
		}
	}
	return out
}

// steer derives velocity from input. Keyboard axes set velocity directly;
// otherwise velocity eases toward the pointer target.
func steer(p *Player, in Input) {
	if in.Pointer {
		p.TargetX, p.TargetY = in.PointerX, in.PointerY
	}
	if in.Ax != 0 || in.Ay != 0 {
		l := math.Hypot(in.Ax, in.Ay)
		p.VX = in.Ax / l * p.Speed
		p.VY = in.Ay / l * p.Speed
		return
	}
	dx, dy := p.TargetX-p.X, p.TargetY-p.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		l = 1
	}
	p.VX += (dx/l*p.Speed - p.VX) * PointerSmoothing
	p.VY += (dy/l*p.Speed - p.VY) * PointerSmoothing
}

// Clamp pulls p back onto the allowed disc (R - player radius) and removes
// the radial part of its velocity, leaving the tangential part.
func (a Arena) Clamp(p *Player) bool {
	limit := a.R - p.Radius
	dx, dy := p.X-a.CX, p.Y-a.CY
	d := math.Hypot(dx, dy)
	if d <= limit || d == 0 {
		return false
	}
	nx, ny := dx/d, dy/d
	p.X = a.CX + nx*limit
	p.Y = a.CY + ny*limit
	vdot := p.VX*nx + p.VY*ny
	p.VX -= vdot * nx
	p.VY -= vdot * ny
	return true
}
