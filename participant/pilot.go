package participant

import "snatch/game"

// Pilot produces the steering input for one frame. It is called from the
// frame loop only.
type Pilot interface {
	Steer(self *game.Player, frame int) game.Input
}

// PilotFunc adapts a plain function to Pilot.
type PilotFunc func(self *game.Player, frame int) game.Input

func (f PilotFunc) Steer(self *game.Player, frame int) game.Input { return f(self, frame) }

// Looper flies a square: right, down, left, up, Leg frames each. Started
// from home territory it leaves, swings round and re-enters, closing a loop
// every 4*Leg frames.
type Looper struct {
	Leg int
}

var loopAxes = [4][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

func (l Looper) Steer(_ *game.Player, frame int) game.Input {
	leg := l.Leg
	if leg <= 0 {
		leg = 60
	}
	a := loopAxes[(frame/leg)%len(loopAxes)]
	return game.Input{Ax: a[0], Ay: a[1]}
}

// Idle never steers; the player drifts to a stop on its spawn.
var Idle = PilotFunc(func(*game.Player, int) game.Input { return game.Input{} })
