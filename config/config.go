package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"snatch/protocol"
)

type Config struct {
	Port           string
	Mode           string // protocol.ModeServer or protocol.ModeRelay
	TickHz         int
	BroadcastHz    int
	MaxConnections int
	UpdateRate     float64 // inbound messages per second per connection
	UpdateBurst    int
	AllowedOrigins []string
}

func Default() Config {
	return Config{
		Port:           "8080",
		Mode:           protocol.ModeServer,
		TickHz:         protocol.SimTickHz,
		BroadcastHz:    protocol.BroadcastHz,
		MaxConnections: 128,
		UpdateRate:     2 * protocol.SimTickHz,
		UpdateBurst:    protocol.SimTickHz,
	}
}

// InitConfig loads a .env file if there is one. A missing file is fine;
// the process environment still applies.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using process environment")
		return
	}

	log.Println("Successfully loaded environment variables")
}

// Load reads configuration from the environment on top of Default.
func Load() (Config, error) {
	InitConfig()

	c := Default()
	if v, err := GetEnvVariable("PORT"); err == nil {
		c.Port = strings.TrimPrefix(strings.TrimSpace(v), ":")
	}
	if v, err := GetEnvVariable("ARENA_MODE"); err == nil {
		c.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	var err error
	if c.TickHz, err = envInt("TICK_HZ", c.TickHz); err != nil {
		return c, err
	}
	if c.BroadcastHz, err = envInt("BROADCAST_HZ", c.BroadcastHz); err != nil {
		return c, err
	}
	if c.MaxConnections, err = envInt("MAX_CONNECTIONS", c.MaxConnections); err != nil {
		return c, err
	}
	if c.UpdateBurst, err = envInt("UPDATE_BURST", c.UpdateBurst); err != nil {
		return c, err
	}
	if v, e := GetEnvVariable("UPDATE_RATE"); e == nil {
		f, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if perr != nil {
			return c, fmt.Errorf("UPDATE_RATE: %w", perr)
		}
		c.UpdateRate = f
	}
	if v, e := GetEnvVariable("ALLOWED_ORIGINS"); e == nil {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Mode != protocol.ModeServer && c.Mode != protocol.ModeRelay {
		return fmt.Errorf("ARENA_MODE must be %q or %q, got %q", protocol.ModeServer, protocol.ModeRelay, c.Mode)
	}
	if c.TickHz <= 0 || c.BroadcastHz <= 0 {
		return fmt.Errorf("tick and broadcast rates must be > 0 (tick=%d broadcast=%d)", c.TickHz, c.BroadcastHz)
	}
	if c.BroadcastHz > c.TickHz {
		return fmt.Errorf("BROADCAST_HZ %d exceeds TICK_HZ %d", c.BroadcastHz, c.TickHz)
	}
	if c.MaxConnections <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS must be > 0, got %d", c.MaxConnections)
	}
	if c.UpdateRate <= 0 || c.UpdateBurst <= 0 {
		return fmt.Errorf("UPDATE_RATE and UPDATE_BURST must be > 0")
	}
	return nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

func envInt(name string, def int) (int, error) {
	v, err := GetEnvVariable(name)
	if err != nil {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
