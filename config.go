package equarium

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the persisted catalog configuration. It is read from and
// written back to a YAML file inside the configuration directory.
type Config struct {
	viper          *viper.Viper
	ConfigDir      string `mapstructure:"config_dir"`      // Current config dir.
	DefaultAddress string `mapstructure:"default_address"` // Address the HTTP server binds to.
	DefaultPort    string `mapstructure:"default_port"`    // Port the HTTP server binds to.
	DatabaseFile   string `mapstructure:"database_file"`   // SQLite database file name inside the config dir.
	RevealMillis   int    `mapstructure:"reveal_millis"`   // Cadence of the client-side log reveal, in milliseconds.
}

// SetListenAddress updates the configured listen address and port and
// persists the change to the configuration file.
func (cfg *Config) SetListenAddress(address string, port string) error {
	cfg.DefaultAddress = address
	cfg.DefaultPort = port
	cfg.viper.Set("default_address", address)
	cfg.viper.Set("default_port", port)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}

// SetRevealMillis updates the configured reveal cadence and persists the
// change to the configuration file.
func (cfg *Config) SetRevealMillis(millis int) error {
	if millis <= 0 {
		return fmt.Errorf("reveal cadence must be positive, got %d", millis)
	}
	cfg.RevealMillis = millis
	cfg.viper.Set("reveal_millis", millis)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}
