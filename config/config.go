package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bibtrack"))
		}

		// Check /etc
		v.AddConfigPath("/etc/bibtrack/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Watch defaults
	v.SetDefault("watch.interval", time.Hour)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if len(cfg.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}

	for i, acc := range cfg.Accounts {
		if acc.UserID == "" {
			return fmt.Errorf("accounts[%d].user_id is required", i)
		}
		if acc.Pincode == "" {
			return fmt.Errorf("accounts[%d].pincode is required", i)
		}
		if acc.Host == "" {
			return fmt.Errorf("accounts[%d].host is required", i)
		}
		if !strings.HasPrefix(acc.Host, "http://") && !strings.HasPrefix(acc.Host, "https://") {
			return fmt.Errorf("accounts[%d].host must be an http(s) URL", i)
		}
		if acc.Agency == "" {
			return fmt.Errorf("accounts[%d].agency is required", i)
		}
	}

	if cfg.Watch.Interval < time.Minute {
		return fmt.Errorf("watch.interval must be at least one minute")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
