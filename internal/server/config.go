package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server  ServerSettings   `hcl:"server,block"`
	Table   TableSettings    `hcl:"table,block"`
	AI      *AISettings      `hcl:"ai,block"`
	Session *SessionSettings `hcl:"session,block"`
	Replay  *ReplaySettings  `hcl:"replay,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings defines the stakes and seating for new tables
type TableSettings struct {
	MaxSeats   int `hcl:"max_seats,optional"`
	SmallBlind int `hcl:"small_blind,optional"`
	BigBlind   int `hcl:"big_blind,optional"`
	StartChips int `hcl:"start_chips,optional"`
}

// AISettings configures the agents that play unclaimed seats
type AISettings struct {
	Strategy    string `hcl:"strategy,optional"`
	Seed        int64  `hcl:"seed,optional"`
	TurnDelayMs int    `hcl:"turn_delay_ms,optional"`
}

// SessionSettings configures idle-session expiry
type SessionSettings struct {
	TTLMinutes int `hcl:"ttl_minutes,optional"`
}

// ReplaySettings configures transition recording for training
type ReplaySettings struct {
	Enabled  bool   `hcl:"enabled,optional"`
	Capacity int    `hcl:"capacity,optional"`
	Path     string `hcl:"path,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			MaxSeats:   5,
			SmallBlind: 5,
			BigBlind:   10,
			StartChips: 1000,
		},
		AI: &AISettings{
			Strategy:    "random",
			TurnDelayMs: 0,
		},
		Session: &SessionSettings{
			TTLMinutes: 30,
		},
		Replay: &ReplaySettings{
			Enabled:  false,
			Capacity: 10000,
			Path:     "replay.jsonl",
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults. Environment variables override on top of the
// file so deployments can tweak without editing config.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	config := DefaultServerConfig()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		var parsed ServerConfig
		diags = gohcl.DecodeBody(file.Body, nil, &parsed)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		config.merge(&parsed)
	}

	config.applyEnv()
	return config, nil
}

// merge overlays non-zero values from a parsed file onto the defaults
func (c *ServerConfig) merge(parsed *ServerConfig) {
	if parsed.Server.Address != "" {
		c.Server.Address = parsed.Server.Address
	}
	if parsed.Server.Port != 0 {
		c.Server.Port = parsed.Server.Port
	}
	if parsed.Server.LogLevel != "" {
		c.Server.LogLevel = parsed.Server.LogLevel
	}
	if parsed.Table.MaxSeats != 0 {
		c.Table.MaxSeats = parsed.Table.MaxSeats
	}
	if parsed.Table.SmallBlind != 0 {
		c.Table.SmallBlind = parsed.Table.SmallBlind
	}
	if parsed.Table.BigBlind != 0 {
		c.Table.BigBlind = parsed.Table.BigBlind
	}
	if parsed.Table.StartChips != 0 {
		c.Table.StartChips = parsed.Table.StartChips
	}
	if parsed.AI != nil {
		if parsed.AI.Strategy != "" {
			c.AI.Strategy = parsed.AI.Strategy
		}
		if parsed.AI.Seed != 0 {
			c.AI.Seed = parsed.AI.Seed
		}
		if parsed.AI.TurnDelayMs != 0 {
			c.AI.TurnDelayMs = parsed.AI.TurnDelayMs
		}
	}
	if parsed.Session != nil && parsed.Session.TTLMinutes != 0 {
		c.Session.TTLMinutes = parsed.Session.TTLMinutes
	}
	if parsed.Replay != nil {
		c.Replay.Enabled = parsed.Replay.Enabled
		if parsed.Replay.Capacity != 0 {
			c.Replay.Capacity = parsed.Replay.Capacity
		}
		if parsed.Replay.Path != "" {
			c.Replay.Path = parsed.Replay.Path
		}
	}
}

// applyEnv overrides config values from the environment
func (c *ServerConfig) applyEnv() {
	if v := os.Getenv("HOLDEM_AI_STRATEGY"); v != "" {
		c.AI.Strategy = v
	}
	if v := os.Getenv("HOLDEM_AI_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.AI.Seed = seed
		}
	}
	if v := os.Getenv("HOLDEM_SESSION_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			c.Session.TTLMinutes = ttl
		}
	}
	if v := os.Getenv("HOLDEM_REPLAY_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Replay.Enabled = enabled
		}
	}
	if v := os.Getenv("HOLDEM_REPLAY_PATH"); v != "" {
		c.Replay.Path = v
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.MaxSeats < 2 || c.Table.MaxSeats > 5 {
		return fmt.Errorf("max seats must be between 2 and 5, got %d", c.Table.MaxSeats)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Table.StartChips < c.Table.BigBlind {
		return fmt.Errorf("start chips must cover at least the big blind")
	}

	validStrategies := map[string]bool{
		"random": true,
		"call":   true,
		"fold":   true,
	}
	if !validStrategies[c.AI.Strategy] {
		return fmt.Errorf("invalid AI strategy %q", c.AI.Strategy)
	}

	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.Replay.Enabled && c.Replay.Capacity <= 0 {
		return fmt.Errorf("replay capacity must be positive")
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
