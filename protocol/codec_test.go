package protocol

import (
	"encoding/json"
	"testing"
)

func TestEncodeDecodeEnvelope(t *testing.T) {
	b, err := Encode(MsgHello, Hello{V: 1, Name: "ann"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.T != MsgHello {
		t.Fatalf("type = %q", env.T)
	}
	h, err := DecodePayload[Hello](env)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if h.Name != "ann" || h.V != 1 {
		t.Fatalf("hello = %+v", h)
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode("", Hello{}); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if _, err := Encode(MsgHello, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Fatalf("expected error for empty bytes")
	}
	if _, err := DecodeEnvelope([]byte(`{"p":{}}`)); err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestEncodeSignalHasNoPayload(t *testing.T) {
	b, err := EncodeSignal(MsgPlayerDeath)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `{"t":"playerDeath"}` {
		t.Fatalf("signal = %s", b)
	}
	env, err := DecodeEnvelope(b)
	if err != nil || env.T != MsgPlayerDeath {
		t.Fatalf("decode signal: %+v %v", env, err)
	}
	if _, err := DecodePayload[Hello](env); err == nil {
		t.Fatalf("expected empty payload error")
	}
}

func TestDecodePlayerUpdateFull(t *testing.T) {
	b, err := json.Marshal(NewPlayerUpdate(1, 2, 3, 4, []Point{{5, 6}}, true, 7, [][2]int{{8, 9}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	u := DecodePlayerUpdate(b)
	if u.X == nil || *u.X != 1 || u.Y == nil || *u.Y != 2 {
		t.Fatalf("position = %v %v", u.X, u.Y)
	}
	if u.VX == nil || *u.VX != 3 || u.VY == nil || *u.VY != 4 {
		t.Fatalf("velocity = %v %v", u.VX, u.VY)
	}
	if !u.HasTrail || len(u.Trail) != 1 || u.Trail[0] != (Point{5, 6}) {
		t.Fatalf("trail = %+v", u.Trail)
	}
	if u.TrailActive == nil || !*u.TrailActive {
		t.Fatalf("trailActive = %v", u.TrailActive)
	}
	if u.Score == nil || *u.Score != 7 {
		t.Fatalf("score = %v", u.Score)
	}
	if len(u.Territory) != 1 || u.Territory[0] != [2]int{8, 9} {
		t.Fatalf("territory = %v", u.Territory)
	}
}

func TestDecodePlayerUpdateTerritoryKeepsWellFormedCells(t *testing.T) {
	raw := json.RawMessage(`{"territory":[[1,2],[3],"x",[4.5,1],[5,6,7],[-2,8]]}`)
	u := DecodePlayerUpdate(raw)
	want := [][2]int{{1, 2}, {-2, 8}}
	if len(u.Territory) != len(want) {
		t.Fatalf("territory = %v, want %v", u.Territory, want)
	}
	for i := range want {
		if u.Territory[i] != want[i] {
			t.Fatalf("territory = %v, want %v", u.Territory, want)
		}
	}
	if u := DecodePlayerUpdate(json.RawMessage(`{"territory":{"a":1}}`)); u.Territory != nil {
		t.Fatalf("non-list territory should be dropped: %v", u.Territory)
	}
}

func TestDecodePlayerUpdateTolerant(t *testing.T) {
	raw := json.RawMessage(`{"x":"left","y":12.5,"vx":null,"trail":[{"x":"a"}],"trailActive":1,"score":3.6}`)
	u := DecodePlayerUpdate(raw)
	if u.X != nil {
		t.Fatalf("malformed x should be dropped, got %v", *u.X)
	}
	if u.Y == nil || *u.Y != 12.5 {
		t.Fatalf("y = %v", u.Y)
	}
	if u.VX != nil || u.VY != nil {
		t.Fatalf("null/missing velocity should be dropped")
	}
	if u.HasTrail {
		t.Fatalf("malformed trail should be dropped")
	}
	if u.TrailActive != nil {
		t.Fatalf("non-bool trailActive should be dropped")
	}
	if u.Score == nil || *u.Score != 4 {
		t.Fatalf("score = %v, want rounded 4", u.Score)
	}
}

func TestDecodePlayerUpdateGarbage(t *testing.T) {
	u := DecodePlayerUpdate(json.RawMessage(`[1,2,3]`))
	if u.X != nil || u.Score != nil || u.HasTrail {
		t.Fatalf("garbage should decode to an empty update: %+v", u)
	}
	u = DecodePlayerUpdate(nil)
	if u.X != nil {
		t.Fatalf("nil payload should decode to an empty update")
	}
}
