/*
Package config loads the planner's TOML configuration file.

PURPOSE:
  One small file controls the process-level knobs: where the HTTP
  server listens, which origins may call it, and where the SQLite
  database lives. Plan semantics (balances, accrual, carryover) are
  NOT configured here; they live in the store and are managed through
  the API and CLI.

FILE FORMAT (planner.toml):
  [server]
  addr = ":8080"
  cors_origins = ["http://localhost:5173"]

  [storage]
  path = "./data/planner.db"

A missing file is not an error: defaults apply.
*/
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "planner.toml"

// Config is the process configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Storage Storage `toml:"storage"`
}

type Server struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

type Storage struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: Server{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Storage: Storage{
			Path: "./data/planner.db",
		},
	}
}

// Load reads the TOML file at path, falling back to defaults for the
// file itself (when absent) and for any omitted field.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("[Config] %s not found, using defaults", path)
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = Default().Server.Addr
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = Default().Storage.Path
	}
	return cfg, nil
}
