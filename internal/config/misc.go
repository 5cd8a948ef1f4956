package config

import (
	"fmt"
	"time"
)

// NodeConfig represents the [node] section
type NodeConfig struct {
	// BlockInterval is how often the open block is closed
	BlockInterval time.Duration `toml:"block_interval" mapstructure:"block_interval"`

	DataDir string `toml:"data_dir" mapstructure:"data_dir"`

	// Standalone skips transaction signature checks. Never enable it on a
	// node that accepts transactions from untrusted clients.
	Standalone bool `toml:"standalone" mapstructure:"standalone"`
}

// Validate performs validation on the node configuration
func (n *NodeConfig) Validate() error {
	if n.BlockInterval < time.Second {
		return fmt.Errorf("block_interval must be at least 1s, got %s", n.BlockInterval)
	}
	if n.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}
