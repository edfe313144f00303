// Package config loads the wallet's configuration from defaults, an
// optional TOML file and XRPLWALLET_ environment variables, in that
// priority order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEndpoint is the public testnet websocket endpoint.
const DefaultEndpoint = "wss://s.altnet.rippletest.net:51233"

// Config holds everything the CLI needs to assemble the wallet.
type Config struct {
	// Endpoint is the node's websocket URL.
	Endpoint string `mapstructure:"endpoint"`

	// KeystorePath is the pebble keystore directory.
	KeystorePath string `mapstructure:"keystore_path"`

	// Testnet selects the X-address network prefix.
	Testnet bool `mapstructure:"testnet"`

	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration. path may be empty, in which case only
// defaults and environment variables apply; a named file that does not
// exist is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("XRPLWALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("keystore_path", defaultKeystorePath())
	v.SetDefault("testnet", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

func defaultKeystorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xrplwallet/keys"
	}
	return filepath.Join(home, ".xrplwallet", "keys")
}

// Validate checks the loaded configuration.
func Validate(c *Config) error {
	if c.Endpoint == "" {
		return fmt.Errorf("config validation failed: endpoint is required")
	}
	if !strings.HasPrefix(c.Endpoint, "ws://") && !strings.HasPrefix(c.Endpoint, "wss://") {
		return fmt.Errorf("config validation failed: endpoint %q must be a ws:// or wss:// URL", c.Endpoint)
	}
	if c.KeystorePath == "" {
		return fmt.Errorf("config validation failed: keystore_path is required")
	}
	return nil
}
