package protocol

// Messages going out to clients.

type Map struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

type Init struct {
	PlayerID   string         `json:"playerId"`
	PlayerName string         `json:"playerName"`
	Color      string         `json:"color"`
	X          float64        `json:"x"` // spawn position
	Y          float64        `json:"y"`
	Map        Map            `json:"map"`
	CellSize   float64        `json:"cellSize"`
	TickHz     int            `json:"tickHz"`
	Mode       string         `json:"mode"`
	Territory  []CellSnapshot `json:"territory"`
}

type CellSnapshot struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Owner string `json:"o"`
}

type State struct {
	Tick       int                  `json:"tick"`
	Players    []PlayerSnapshot     `json:"players"`
	Eliminated []EliminatedSnapshot `json:"eliminated,omitempty"`
}

type PlayerSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	Trail       []Point `json:"trail"`
	TrailActive bool    `json:"trailActive"`
	Score       int     `json:"score"`
	Alive       bool    `json:"alive"`
	Percent     float64 `json:"percent"`
}

type EliminatedSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Cause string `json:"cause,omitempty"`
}

// Capture announces cells newly claimed by one player.
type Capture struct {
	PlayerID string   `json:"playerId"`
	Cells    [][2]int `json:"cells"`
	Score    int      `json:"score"`
}

// ArenaInfo is served by the status endpoint.
type ArenaInfo struct {
	Map     Map    `json:"map"`
	Mode    string `json:"mode"`
	Players int    `json:"players"`
	Alive   int    `json:"alive"`
	Tick    int    `json:"tick"`
}
