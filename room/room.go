package room

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"snatch/game"
	"snatch/protocol"
)

type Options struct {
	TickHz      int
	BroadcastHz int
	Mode        string
	Arena       game.Arena
}

func DefaultOptions() Options {
	return Options{
		TickHz:      protocol.SimTickHz,
		BroadcastHz: protocol.BroadcastHz,
		Mode:        protocol.ModeServer,
		Arena:       game.DefaultArena(),
	}
}

// Room is the arena. Run owns every field below Inbox; everything else
// talks to it through Inbox.
type Room struct {
	Inbox          chan any
	tickHz         int
	broadcastEvery int
	dt             float64
	mode           string
	state          *game.State
	clients        map[string]Conn
	latestInputs   map[string]game.Input
	joined         int
	quit           chan struct{}
}

func New(opts Options) *Room {
	if opts.TickHz <= 0 {
		opts.TickHz = protocol.SimTickHz
	}
	if opts.BroadcastHz <= 0 {
		opts.BroadcastHz = protocol.BroadcastHz
	}
	if opts.Mode == "" {
		opts.Mode = protocol.ModeServer
	}
	if opts.Arena.R <= 0 {
		opts.Arena = game.DefaultArena()
	}
	broadcastEvery := opts.TickHz / opts.BroadcastHz
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	return &Room{
		Inbox:          make(chan any, 256),
		tickHz:         opts.TickHz,
		broadcastEvery: broadcastEvery,
		dt:             game.FrameScale(time.Second / time.Duration(opts.TickHz)),
		mode:           opts.Mode,
		state:          game.NewState(opts.Arena),
		clients:        make(map[string]Conn),
		latestInputs:   make(map[string]game.Input),
		quit:           make(chan struct{}),
	}
}

func (r *Room) Stop() {
	close(r.quit)
}

func (r *Room) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Room) tick() {
	if r.mode == protocol.ModeRelay {
		r.state.Tick++
	} else {
		for _, ev := range game.Step(r.state, r.latestInputs, r.dt) {
			r.handleEvent(ev)
		}
	}
	if r.state.Tick%r.broadcastEvery == 0 {
		r.broadcastState()
	}
}

func (r *Room) handleEvent(ev game.Event) {
	p := r.state.Players[ev.PlayerID]
	if p == nil {
		return
	}
	switch ev.Kind {
	case game.EventCapture:
		res := ev.Outcome.Capture
		log.Printf("capture: %s +%d cells (poly area %.0f), score %d", p.Name, len(res.Cells), res.Area, p.Score)
		r.broadcastCapture(p, res.Cells)
	case game.EventDeath:
		if ev.Outcome.KilledBy != "" {
			log.Printf("✗ Player died: %s (%s, %s)", p.Name, ev.Outcome.Death, ev.Outcome.KilledBy)
		} else {
			log.Printf("✗ Player died: %s (%s)", p.Name, ev.Outcome.Death)
		}
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		c.Reply <- JoinResult{PlayerID: r.handleJoin(c)}
	case Input:
		if _, ok := r.clients[c.PlayerID]; !ok || r.mode != protocol.ModeServer {
			return
		}
		r.latestInputs[c.PlayerID] = c.Input
	case Update:
		if r.mode != protocol.ModeRelay {
			return
		}
		if p, ok := r.state.Players[c.PlayerID]; ok {
			claimed := applyUpdate(r.state.Grid, p, c.Update)
			r.broadcastCapture(p, claimed)
		}
	case Death:
		if r.mode != protocol.ModeRelay {
			return
		}
		if p, ok := r.state.Players[c.PlayerID]; ok && p.Alive {
			r.state.Kill(p, game.DeathReported)
			log.Printf("✗ Player died: %s", p.Name)
		}
	case Rename:
		if p, ok := r.state.Players[c.PlayerID]; ok {
			if name := cleanName(c.Name); name != "" {
				p.Name = name
			}
		}
	case Leave:
		r.handleLeave(c.PlayerID)
	case Info:
		c.Reply <- r.info()
	}
}

func (r *Room) handleJoin(c Join) string {
	playerID := uuid.New().String()
	name := cleanName(c.Name)
	if name == "" {
		name = fmt.Sprintf("Player%d", rand.IntN(10000))
	}
	color := fmt.Sprintf("hsl(%d, 60%%, 50%%)", rand.IntN(360))

	spawn, used := r.state.FreeSpawn(r.joined)
	r.joined = used + 1

	p := r.state.AddPlayer(playerID, name, color, spawn)
	r.clients[playerID] = c.Conn
	r.latestInputs[playerID] = game.Input{}
	log.Printf("✓ Player connected: %s (%s)", name, playerID)

	if b, err := protocol.Encode(protocol.MsgInit, r.buildInit(p)); err == nil {
		if err := c.Conn.Send(b); err != nil {
			r.removePlayer(playerID)
			return playerID
		}
	}
	r.broadcastState()
	return playerID
}

// applyUpdate copies every field the client supplied and claims the
// reported cells that are still free. Nothing else is checked; relay mode
// trusts clients. It returns the cells that changed hands.
func applyUpdate(g *game.Grid, p *game.Player, u protocol.PlayerUpdate) []game.Cell {
	var claimed []game.Cell
	for _, xy := range u.Territory {
		if c := (game.Cell{X: xy[0], Y: xy[1]}); g.Claim(c, p.ID) {
			claimed = append(claimed, c)
		}
	}
	if u.X != nil {
		p.X = *u.X
	}
	if u.Y != nil {
		p.Y = *u.Y
	}
	if u.VX != nil {
		p.VX = *u.VX
	}
	if u.VY != nil {
		p.VY = *u.VY
	}
	if u.Score != nil {
		p.Score = *u.Score
	}
	if !u.HasTrail && u.TrailActive == nil {
		return claimed
	}
	active := p.Trail.Active()
	if u.TrailActive != nil {
		active = *u.TrailActive
	}
	pts := p.Trail.Points()
	if u.HasTrail {
		pts = make([]game.Point, len(u.Trail))
		for i, q := range u.Trail {
			pts[i] = game.Point{X: q.X, Y: q.Y}
		}
	}
	p.Trail.Restore(pts, active)
	return claimed
}

const maxNameLen = 24

// cleanName trims a client-chosen name and caps its length.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if rs := []rune(name); len(rs) > maxNameLen {
		name = string(rs[:maxNameLen])
	}
	return name
}

func (r *Room) handleLeave(playerID string) {
	c, ok := r.clients[playerID]
	delete(r.latestInputs, playerID)
	if p, ok := r.state.Players[playerID]; ok {
		log.Printf("✗ Player disconnected: %s (%s)", p.Name, playerID)
	}
	r.state.RemovePlayer(playerID)
	if ok {
		_ = c.Close()
		delete(r.clients, playerID)
	}
}

func (r *Room) removePlayer(playerID string) {
	if c, ok := r.clients[playerID]; ok {
		_ = c.Close()
	}
	delete(r.clients, playerID)
	delete(r.latestInputs, playerID)
	r.state.RemovePlayer(playerID)
}

// broadcastCapture tells every client which cells p just took.
func (r *Room) broadcastCapture(p *game.Player, cells []game.Cell) {
	if len(cells) == 0 {
		return
	}
	msg := protocol.Capture{
		PlayerID: p.ID,
		Cells:    make([][2]int, 0, len(cells)),
		Score:    p.Score,
	}
	for _, c := range cells {
		msg.Cells = append(msg.Cells, [2]int{c.X, c.Y})
	}
	r.broadcast(protocol.MsgCapture, msg)
}

func (r *Room) broadcastState() {
	r.broadcast(protocol.MsgGameState, r.buildSnapshot())
}

func (r *Room) broadcast(t string, payload any) {
	if len(r.clients) == 0 {
		return
	}
	b, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("encode %s: %v", t, err)
		return
	}

	var failed []string
	for id, c := range r.clients {
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.removePlayer(id)
	}
}

func (r *Room) buildInit(p *game.Player) protocol.Init {
	a := r.state.Arena
	msg := protocol.Init{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Color:      p.Color,
		X:          p.X,
		Y:          p.Y,
		Map:        protocol.Map{CX: a.CX, CY: a.CY, R: a.R},
		CellSize:   game.CellSize,
		TickHz:     r.tickHz,
		Mode:       r.mode,
		Territory:  make([]protocol.CellSnapshot, 0, r.state.Grid.Len()),
	}
	for c, owner := range r.state.Grid.All() {
		msg.Territory = append(msg.Territory, protocol.CellSnapshot{X: c.X, Y: c.Y, Owner: owner})
	}
	return msg
}

func (r *Room) buildSnapshot() protocol.State {
	snapshot := protocol.State{
		Tick:       r.state.Tick,
		Players:    make([]protocol.PlayerSnapshot, 0, len(r.state.Players)),
		Eliminated: make([]protocol.EliminatedSnapshot, 0, len(r.state.Eliminated)),
	}
	for _, id := range r.state.SortedIDs() {
		p := r.state.Players[id]
		snapshot.Players = append(snapshot.Players, protocol.PlayerSnapshot{
			ID:          id,
			Name:        p.Name,
			X:           p.X,
			Y:           p.Y,
			VX:          p.VX,
			VY:          p.VY,
			Radius:      p.Radius,
			Color:       p.Color,
			Trail:       snapshotTrail(&p.Trail),
			TrailActive: p.Trail.Active(),
			Score:       p.Score,
			Alive:       p.Alive,
			Percent:     r.state.Grid.CapturedPercent(id, r.state.Arena),
		})
	}
	for _, e := range r.state.Eliminated {
		snapshot.Eliminated = append(snapshot.Eliminated, protocol.EliminatedSnapshot{
			ID:    e.ID,
			Name:  e.Name,
			Score: e.Score,
			Cause: e.Cause.String(),
		})
	}
	return snapshot
}

// snapshotTrail keeps the newest points and thins them out.
func snapshotTrail(t *game.Trail) []protocol.Point {
	pts := game.SimplifyPolygon(t.Recent(protocol.TrailSnapshotLen), protocol.TrailSnapshotEpsilon)
	out := make([]protocol.Point, len(pts))
	for i, p := range pts {
		out[i] = protocol.Point{X: p.X, Y: p.Y}
	}
	return out
}

func (r *Room) info() protocol.ArenaInfo {
	a := r.state.Arena
	info := protocol.ArenaInfo{
		Map:     protocol.Map{CX: a.CX, CY: a.CY, R: a.R},
		Mode:    r.mode,
		Players: len(r.state.Players),
		Tick:    r.state.Tick,
	}
	for _, p := range r.state.Players {
		if p.Alive {
			info.Alive++
		}
	}
	return info
}
