package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"syndeo/crypto"
)

// Telemetry controls the optional OTLP exporters.
type Telemetry struct {
	Endpoint string `toml:"Endpoint"`
	Insecure bool   `toml:"Insecure"`
	Metrics  bool   `toml:"Metrics"`
	Traces   bool   `toml:"Traces"`
}

// Config is the on-disk service configuration.
type Config struct {
	RPCAddress         string    `toml:"RPCAddress"`
	AdminAddress       string    `toml:"AdminAddress"`
	MaxPointsPerSender uint64    `toml:"MaxPointsPerSender"`
	EventBufferSize    int       `toml:"EventBufferSize"`
	Environment        string    `toml:"Environment"`
	JWTIssuer          string    `toml:"JWTIssuer"`
	JWTAudience        string    `toml:"JWTAudience"`
	Telemetry          Telemetry `toml:"Telemetry"`
}

const defaultRPCAddress = "127.0.0.1:8650"

// Load reads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.RPCAddress) == "" {
		c.RPCAddress = defaultRPCAddress
	}
}

// Validate reports configuration errors that prevent the service from
// starting. The admin address must be present and well-formed because the
// ledger registers it as the first member.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AdminAddress) == "" {
		return fmt.Errorf("config: AdminAddress is required")
	}
	if _, err := c.Admin(); err != nil {
		return fmt.Errorf("config: invalid AdminAddress: %w", err)
	}
	if c.EventBufferSize < 0 {
		return fmt.Errorf("config: EventBufferSize cannot be negative")
	}
	return nil
}

// Admin decodes the configured admin address.
func (c *Config) Admin() (crypto.Address, error) {
	return crypto.DecodeAddress(strings.TrimSpace(c.AdminAddress))
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}
	return cfg, nil
}
