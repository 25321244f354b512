package protocol

import "testing"

func TestMessageConstants(t *testing.T) {
	cases := map[string]string{
		MsgHello:          "hello",
		MsgInput:          "input",
		MsgPlayerUpdate:   "playerUpdate",
		MsgPlayerDeath:    "playerDeath",
		MsgTrailCollision: "trailCollision",
		MsgInit:           "init",
		MsgGameState:      "gameState",
		MsgCapture:        "capture",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("message constant = %q, want %q", got, want)
		}
	}
}

func TestTimingSanity(t *testing.T) {
	if SimTickHz <= 0 || ClientUpdateHz <= 0 || BroadcastHz <= 0 {
		t.Fatalf("timing constants must be > 0")
	}
	if SimTickHz%BroadcastHz != 0 {
		t.Fatalf("SimTickHz %% BroadcastHz != 0 (%d %% %d)", SimTickHz, BroadcastHz)
	}
	if ClientUpdateHz > SimTickHz {
		t.Fatalf("client updates faster than the sim: %d > %d", ClientUpdateHz, SimTickHz)
	}
}
