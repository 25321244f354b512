package room

import (
	"snatch/game"
	"snatch/protocol"
)

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once per connection
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	PlayerID string
}

// Rename: display name from a hello message
type Rename struct {
	PlayerID string
	Name     string
}

// Input: latest steering for a player (server mode)
type Input struct {
	PlayerID string
	Input    game.Input
}

// Update: client-reported player state (relay mode)
type Update struct {
	PlayerID string
	Update   protocol.PlayerUpdate
}

// Death: client-reported death or trail collision (relay mode)
type Death struct {
	PlayerID string
}

// Leave: issued on disconnect
type Leave struct {
	PlayerID string
}

// Info: status query answered from inside the loop
type Info struct {
	Reply chan<- protocol.ArenaInfo
}
