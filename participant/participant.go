package participant

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"snatch/game"
	"snatch/protocol"
)

const (
	defaultBackoff = 2 * time.Second
	outboxSize     = 32
	eventsSize     = 64
)

type Options struct {
	URL      string // ws://host:port/ws
	Name     string
	Pilot    Pilot
	Frame    time.Duration // frame clock period
	Step     float64       // fixed step scale; 0 measures wall-clock frame time
	UpdateHz int
	Backoff  time.Duration
	Dialer   *websocket.Dialer
}

// View is a read-only copy of the local player, republished every frame.
type View struct {
	ID       string
	Mode     string
	X, Y     float64
	Score    int
	Alive    bool
	TrailLen int
	Cells    int
	Frame    int
}

// Participant is one headless player. Run owns the local session; the
// transport goroutine only publishes roster snapshots and forwards init and
// capture messages.
type Participant struct {
	opts Options

	// frame loop only
	state       *game.State
	self        *game.Player
	mode        string
	frame       int
	updateEvery int
	lastRoster  *protocol.State
	rivals      []game.Rival
	pending     [][2]int // captured cells not yet reported

	roster atomic.Pointer[protocol.State]
	view   atomic.Pointer[View]
	events chan any
	outbox chan []byte
}

func New(opts Options) *Participant {
	if opts.Pilot == nil {
		opts.Pilot = Looper{}
	}
	if opts.Frame <= 0 {
		opts.Frame = time.Second / protocol.SimTickHz
	}
	if opts.UpdateHz <= 0 {
		opts.UpdateHz = protocol.ClientUpdateHz
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	every := int(time.Second / opts.Frame / time.Duration(opts.UpdateHz))
	if every <= 0 {
		every = 1
	}
	return &Participant{
		opts:        opts,
		updateEvery: every,
		events:      make(chan any, eventsSize),
		outbox:      make(chan []byte, outboxSize),
	}
}

// View returns the latest published view, or false before the first init.
func (p *Participant) View() (View, bool) {
	v := p.view.Load()
	if v == nil {
		return View{}, false
	}
	return *v, true
}

// Roster returns the latest gameState received from the server.
func (p *Participant) Roster() *protocol.State {
	return p.roster.Load()
}

// Run drives the frame loop until ctx is cancelled. The transport runs
// alongside and reconnects on its own.
func (p *Participant) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.transport(ctx)
	}()
	defer wg.Wait()

	ticker := time.NewTicker(p.opts.Frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := p.opts.Step
			if dt <= 0 {
				dt = game.FrameScale(now.Sub(last))
			}
			last = now
			p.tick(dt)
		}
	}
}

func (p *Participant) tick(dt float64) {
	p.drainEvents()
	if p.self == nil {
		return
	}
	p.frame++

	if p.mode == protocol.ModeServer {
		p.followServer()
	} else {
		p.simulate(dt)
	}
	p.publish()
}

// simulate runs the local step; the server only relays what we report.
func (p *Participant) simulate(dt float64) {
	if !p.self.Alive {
		return
	}
	in := p.opts.Pilot.Steer(p.self, p.frame)
	out := game.StepPlayer(p.state, p.self, in, dt, p.currentRivals())

	if out.Capture != nil && len(out.Capture.Cells) > 0 {
		log.Printf("captured %d cells, score %d", len(out.Capture.Cells), p.self.Score)
		for _, c := range out.Capture.Cells {
			p.pending = append(p.pending, [2]int{c.X, c.Y})
		}
	}
	switch out.Death {
	case game.DeathSelf:
		log.Printf("crossed own trail at score %d", p.self.Score)
		p.signal(protocol.MsgPlayerDeath)
		return
	case game.DeathRival:
		log.Printf("hit %s's trail at score %d", out.KilledBy, p.self.Score)
		p.signal(protocol.MsgTrailCollision)
		return
	}
	if p.frame%p.updateEvery == 0 {
		p.sendUpdate()
	}
}

// followServer mirrors the authoritative roster and sends steering input.
func (p *Participant) followServer() {
	if snap := p.roster.Load(); snap != nil {
		for _, ps := range snap.Players {
			if ps.ID != p.self.ID {
				continue
			}
			p.self.X, p.self.Y = ps.X, ps.Y
			p.self.VX, p.self.VY = ps.VX, ps.VY
			p.self.Score = ps.Score
			p.self.Alive = ps.Alive
			p.self.Trail.Restore(toPoints(ps.Trail), ps.TrailActive)
		}
	}
	if !p.self.Alive || p.frame%p.updateEvery != 0 {
		return
	}
	in := p.opts.Pilot.Steer(p.self, p.frame)
	p.send(protocol.MsgInput, protocol.Input{
		Ax:      float32(in.Ax),
		Ay:      float32(in.Ay),
		Px:      in.PointerX,
		Py:      in.PointerY,
		Pointer: in.Pointer,
	})
}

func (p *Participant) drainEvents() {
	for {
		select {
		case ev := <-p.events:
			switch e := ev.(type) {
			case protocol.Init:
				p.reset(e)
			case protocol.Capture:
				p.applyCapture(e)
			}
		default:
			return
		}
	}
}

// reset starts a fresh local session from an init message. Each connection
// is a new player on the server side.
func (p *Participant) reset(msg protocol.Init) {
	arena := game.Arena{CX: msg.Map.CX, CY: msg.Map.CY, R: msg.Map.R}
	p.state = game.NewState(arena)
	for _, c := range msg.Territory {
		p.state.Grid.Claim(game.Cell{X: c.X, Y: c.Y}, c.Owner)
	}
	p.self = p.state.AddPlayer(msg.PlayerID, msg.PlayerName, msg.Color, game.Point{X: msg.X, Y: msg.Y})
	p.mode = msg.Mode
	p.frame = 0
	p.lastRoster, p.rivals = nil, nil
	p.pending = nil
	log.Printf("joined as %s (%s), %s mode", msg.PlayerName, msg.PlayerID, msg.Mode)
}

func (p *Participant) applyCapture(c protocol.Capture) {
	if p.state == nil {
		return
	}
	for _, xy := range c.Cells {
		p.state.Grid.Claim(game.Cell{X: xy[0], Y: xy[1]}, c.PlayerID)
	}
}

// currentRivals rebuilds the rival views only when a new roster has landed.
func (p *Participant) currentRivals() []game.Rival {
	snap := p.roster.Load()
	if snap != p.lastRoster {
		p.lastRoster = snap
		p.rivals = rivalsFrom(snap, p.self.ID)
	}
	return p.rivals
}

func rivalsFrom(snap *protocol.State, self string) []game.Rival {
	if snap == nil {
		return nil
	}
	var out []game.Rival
	for _, ps := range snap.Players {
		if ps.ID == self || !ps.Alive || !ps.TrailActive || len(ps.Trail) == 0 {
			continue
		}
		out = append(out, game.Rival{
			ID:     ps.ID,
			Radius: ps.Radius,
			Trail:  toPoints(ps.Trail),
			Active: true,
		})
	}
	return out
}

func toPoints(in []protocol.Point) []game.Point {
	out := make([]game.Point, len(in))
	for i, q := range in {
		out[i] = game.Point{X: q.X, Y: q.Y}
	}
	return out
}

func (p *Participant) sendUpdate() {
	pts := p.self.Trail.Recent(protocol.TrailUpdateLen)
	trail := make([]protocol.Point, len(pts))
	for i, q := range pts {
		trail[i] = protocol.Point{X: q.X, Y: q.Y}
	}
	s := p.self
	update := protocol.NewPlayerUpdate(s.X, s.Y, s.VX, s.VY, trail, s.Trail.Active(), s.Score, p.pending)
	if p.send(protocol.MsgPlayerUpdate, update) {
		p.pending = nil
	}
}

func (p *Participant) send(t string, payload any) bool {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("encode %s: %v", t, err)
		return false
	}
	return p.enqueue(b)
}

func (p *Participant) signal(t string) {
	b, err := protocol.EncodeSignal(t)
	if err != nil {
		log.Printf("encode %s: %v", t, err)
		return
	}
	p.enqueue(b)
}

// enqueue never blocks the frame loop; when the transport is behind or
// disconnected the message is dropped and enqueue reports false.
func (p *Participant) enqueue(b []byte) bool {
	select {
	case p.outbox <- b:
		return true
	default:
		return false
	}
}

func (p *Participant) publish() {
	s := p.self
	p.view.Store(&View{
		ID:       s.ID,
		Mode:     p.mode,
		X:        s.X,
		Y:        s.Y,
		Score:    s.Score,
		Alive:    s.Alive,
		TrailLen: s.Trail.Len(),
		Cells:    p.state.Grid.CellCount(s.ID),
		Frame:    p.frame,
	})
}
