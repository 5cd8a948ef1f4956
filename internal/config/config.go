package config

import (
	"fmt"
	"path/filepath"

	"github.com/LeJamon/goPredictd/internal/core/ruler"
)

// Config represents the complete predictd configuration
type Config struct {
	// Server section: the rpc and websocket listener
	Server ServerConfig `toml:"server" mapstructure:"server"`

	// Node section: block production
	Node NodeConfig `toml:"node" mapstructure:"node"`

	// Database sections: state storage and the event index
	Database DatabaseConfig `toml:"database" mapstructure:"database"`
	EventDB  EventDBConfig  `toml:"eventdb" mapstructure:"eventdb"`

	// Log section
	Log LogConfig `toml:"log" mapstructure:"log"`

	// Ruler maps role names (platform_dividend, bridge_burn) to hex accounts
	Ruler map[string]string `toml:"ruler" mapstructure:"ruler"`

	// Genesis is only read when the state database is empty
	Genesis GenesisConfig `toml:"genesis" mapstructure:"genesis"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// ConfigPaths holds the paths to configuration files
type ConfigPaths struct {
	Main string // Path to main config file (predictd.toml)
}

// DefaultConfigPaths returns the default configuration file paths
func DefaultConfigPaths() ConfigPaths {
	return ConfigPaths{Main: "predictd.toml"}
}

// ConfigPathsFromDir returns configuration paths for a specific directory
func ConfigPathsFromDir(configDir string) ConfigPaths {
	return ConfigPaths{Main: filepath.Join(configDir, "predictd.toml")}
}

// GetConfigPath returns the path to the main configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// RulerDirectory builds the role table from the ruler section.
func (c *Config) RulerDirectory() (ruler.Static, error) {
	dir, err := ruler.NewStatic(c.Ruler)
	if err != nil {
		return nil, fmt.Errorf("ruler: %w", err)
	}
	return dir, nil
}

// DatabasePath returns the state database directory, defaulting to
// <data_dir>/db.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Node.DataDir, "db")
}
