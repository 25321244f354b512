package config

import (
	"testing"

	"snatch/protocol"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ARENA_MODE", "TICK_HZ", "BROADCAST_HZ", "MAX_CONNECTIONS", "UPDATE_RATE", "UPDATE_BURST", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "8080" || c.Mode != protocol.ModeServer {
		t.Fatalf("defaults = %+v", c)
	}
	if c.TickHz != protocol.SimTickHz || c.BroadcastHz != protocol.BroadcastHz {
		t.Fatalf("rates = %d/%d", c.TickHz, c.BroadcastHz)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("ARENA_MODE", "Relay")
	t.Setenv("TICK_HZ", "30")
	t.Setenv("BROADCAST_HZ", "10")
	t.Setenv("UPDATE_RATE", "12.5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "9000" {
		t.Fatalf("port = %q", c.Port)
	}
	if c.Mode != protocol.ModeRelay {
		t.Fatalf("mode = %q", c.Mode)
	}
	if c.TickHz != 30 || c.BroadcastHz != 10 || c.UpdateRate != 12.5 {
		t.Fatalf("numbers = %+v", c)
	}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %q", c.AllowedOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TICK_HZ", "fast")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric TICK_HZ")
	}
	t.Setenv("TICK_HZ", "")
	t.Setenv("ARENA_MODE", "p2p")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	t.Setenv("ARENA_MODE", "")
	t.Setenv("TICK_HZ", "10")
	t.Setenv("BROADCAST_HZ", "20")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when broadcasting faster than ticking")
	}
}

func TestGetEnvVariable(t *testing.T) {
	if _, err := GetEnvVariable(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
	t.Setenv("SNATCH_TEST_VAR", "x")
	if v, err := GetEnvVariable("SNATCH_TEST_VAR"); err != nil || v != "x" {
		t.Fatalf("got %q %v", v, err)
	}
}
