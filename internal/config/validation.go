package config

import "fmt"

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := config.Node.Validate(); err != nil {
		return fmt.Errorf("node config validation failed: %w", err)
	}
	if err := config.Database.Validate(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := config.EventDB.Validate(); err != nil {
		return fmt.Errorf("eventdb validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if _, err := config.RulerDirectory(); err != nil {
		return fmt.Errorf("ruler validation failed: %w", err)
	}
	if err := config.Genesis.Validate(); err != nil {
		return fmt.Errorf("genesis validation failed: %w", err)
	}
	return nil
}
