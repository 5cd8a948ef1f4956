package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ServerConfig represents the [server] section
type ServerConfig struct {
	IP     string `toml:"ip" mapstructure:"ip"`
	Port   int    `toml:"port" mapstructure:"port"`
	WSPath string `toml:"ws_path" mapstructure:"ws_path"`

	// ReadTimeout and WriteTimeout are in seconds
	ReadTimeout  int `toml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout int `toml:"write_timeout" mapstructure:"write_timeout"`

	// SendQueueLimit bounds the messages buffered per websocket client
	SendQueueLimit int `toml:"send_queue_limit" mapstructure:"send_queue_limit"`
}

// Address returns the listen address
func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// Validate performs validation on the server configuration
func (s *ServerConfig) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.IP != "" && net.ParseIP(s.IP) == nil {
		return fmt.Errorf("invalid ip: %s", s.IP)
	}
	if !strings.HasPrefix(s.WSPath, "/") {
		return fmt.Errorf("ws_path must start with '/', got %q", s.WSPath)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if s.SendQueueLimit <= 0 {
		return fmt.Errorf("send_queue_limit must be positive, got %d", s.SendQueueLimit)
	}
	return nil
}
