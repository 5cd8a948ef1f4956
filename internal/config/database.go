package config

import (
	"fmt"

	"github.com/LeJamon/goPredictd/internal/storage/compression"
	"github.com/LeJamon/goPredictd/internal/storage/database"
	"github.com/LeJamon/goPredictd/internal/storage/eventdb"
)

// DatabaseConfig represents the [database] section
// Configures the key-value store that holds chain state
type DatabaseConfig struct {
	Backend      string `toml:"backend" mapstructure:"backend"`
	Path         string `toml:"path" mapstructure:"path"`
	CacheSize    int    `toml:"cache_size" mapstructure:"cache_size"` // megabytes
	CacheEntries int    `toml:"cache_entries" mapstructure:"cache_entries"`
	Compression  string `toml:"compression" mapstructure:"compression"`
}

// EventDBConfig represents the [eventdb] section
// Configures the relational event index
type EventDBConfig struct {
	Driver string `toml:"driver" mapstructure:"driver"`
	DSN    string `toml:"dsn" mapstructure:"dsn"`
}

// EventDBDisabled turns the event index off.
const EventDBDisabled = "none"

// Validate performs validation on the database configuration
func (d *DatabaseConfig) Validate() error {
	switch database.Backend(d.Backend) {
	case database.BackendPebble, database.BackendLevelDB, database.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (supported: pebble, leveldb, memory)", d.Backend)
	}
	if d.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", d.CacheSize)
	}
	if d.CacheEntries < 0 {
		return fmt.Errorf("cache_entries must not be negative, got %d", d.CacheEntries)
	}
	if _, err := compression.Get(d.Compression); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	return nil
}

// Enabled reports whether an event index is configured
func (e *EventDBConfig) Enabled() bool {
	return e.Driver != EventDBDisabled
}

// Validate performs validation on the event database configuration
func (e *EventDBConfig) Validate() error {
	switch e.Driver {
	case EventDBDisabled:
		return nil
	case eventdb.DriverSQLite, eventdb.DriverPostgres:
	default:
		return fmt.Errorf("unknown driver %q (supported: sqlite, postgres, none)", e.Driver)
	}
	if e.DSN == "" {
		return fmt.Errorf("dsn is required for driver %s", e.Driver)
	}
	return nil
}
