package protocol

import (
	"encoding/json"
)

const (
	MsgHello          = "hello"
	MsgInput          = "input"
	MsgPlayerUpdate   = "playerUpdate"
	MsgPlayerDeath    = "playerDeath"
	MsgTrailCollision = "trailCollision"

	MsgInit      = "init"
	MsgGameState = "gameState"
	MsgCapture   = "capture"
)

const (
	SimTickHz      = 60
	ClientUpdateHz = 20
	BroadcastHz    = 20
)

const (
	TrailSnapshotLen     = 200 // newest trail points carried per player
	TrailSnapshotEpsilon = 1.0 // simplification tolerance, well under a player radius
	TrailUpdateLen       = 100 // trail points a client reports per playerUpdate
)

// Arena modes.
const (
	ModeServer = "server" // room simulates from input
	ModeRelay  = "relay"  // room trusts playerUpdate verbatim
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}
