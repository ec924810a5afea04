package config

import "time"

// Config holds runtime settings for the cvkeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the document store server.
//   - DatabasePath: path of the local SQLite file holding the draft slot.
//   - AutoSaveInterval: how often an unsaved draft is flushed to disk.
//
// Units: AutoSaveInterval is a time.Duration (e.g., 5*time.Second).
type Config struct {
	ServerURL        string
	DatabasePath     string
	AutoSaveInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "cvkeeper.db"
	c.AutoSaveInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
