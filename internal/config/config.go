// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/tictactoe-labs/tictactoe/internal/ledger"
)

// MemoryStore selects the in-process account store.
const MemoryStore = "memory"

// Config holds the settings shared by every subcommand.
type Config struct {
	// Store is "memory" or the path of a SQLite database file.
	Store     string `env:"TICTACTOE_STORE" envDefault:"memory"`
	GameSeed  string `env:"TICTACTOE_GAME_SEED" envDefault:"hello"`
	Debug     bool   `env:"TICTACTOE_DEBUG"`
	LogFormat string `env:"TICTACTOE_LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("TICTACTOE_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if len(c.GameSeed) > ledger.MaxSeedLen {
		return fmt.Errorf("TICTACTOE_GAME_SEED must be at most %d bytes", ledger.MaxSeedLen)
	}
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("TICTACTOE_STORE must not be empty")
	}
	return nil
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenStore opens the configured account store.
func (c Config) OpenStore() (ledger.Store, error) {
	if c.Store == MemoryStore {
		return ledger.NewMemoryStore(), nil
	}
	return ledger.OpenSQLite(c.Store)
}
