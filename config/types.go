package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Accounts  []AccountConfig `mapstructure:"accounts"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AccountConfig holds one end-user's credentials and home portal
type AccountConfig struct {
	Name     string `mapstructure:"name"`
	UserID   string `mapstructure:"user_id"`
	Pincode  string `mapstructure:"pincode"`
	Host     string `mapstructure:"host"`
	Agency   string `mapstructure:"agency"`
	National bool   `mapstructure:"national"`
}

// EndpointsConfig overrides upstream base URLs; empty values keep the
// built-in defaults
type EndpointsConfig struct {
	Site        string `mapstructure:"site"`
	Circulation string `mapstructure:"circulation"`
	Hub         string `mapstructure:"hub"`
	Graph       string `mapstructure:"graph"`
	Details     string `mapstructure:"details"`
	Covers      string `mapstructure:"covers"`
	Fallback    string `mapstructure:"fallback"`
}

// WatchConfig contains the interval scheduler settings
type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
