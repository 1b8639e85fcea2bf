package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds client and development server configuration values.
type Config struct {
	RemoteURL      string        `mapstructure:"remote_url" yaml:"remote_url"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Nickname       string        `mapstructure:"nickname" yaml:"nickname"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	HistoryPath    string        `mapstructure:"history_path" yaml:"history_path"`
	UIAddr         string        `mapstructure:"ui_addr" yaml:"ui_addr"`
	SendRateLimit  int           `mapstructure:"send_rate_limit" yaml:"send_rate_limit"`

	ServeAddr         string        `mapstructure:"serve_addr" yaml:"serve_addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		RemoteURL:         "http://localhost:8080",
		PollInterval:      2 * time.Second,
		RequestTimeout:    1500 * time.Millisecond,
		LogLevel:          "info",
		ServeAddr:         ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.RemoteURL != "" {
		c.RemoteURL = other.RemoteURL
	}
	if other.PollInterval != 0 {
		c.PollInterval = other.PollInterval
	}
	if other.RequestTimeout != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.Nickname != "" {
		c.Nickname = other.Nickname
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.HistoryPath != "" {
		c.HistoryPath = other.HistoryPath
	}
	if other.UIAddr != "" {
		c.UIAddr = other.UIAddr
	}
	if other.SendRateLimit != 0 {
		c.SendRateLimit = other.SendRateLimit
	}
	if other.ServeAddr != "" {
		c.ServeAddr = other.ServeAddr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}

// Validate checks values the client cannot run without.
func (c Config) Validate() error {
	u, err := url.Parse(c.RemoteURL)
	if err != nil {
		return fmt.Errorf("invalid remote_url %q: %w", c.RemoteURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid remote_url %q: want http(s)://host[:port]", c.RemoteURL)
	}
	if c.PollInterval <= 0 {
		return errors.New("poll_interval must be positive")
	}
	if c.SendRateLimit < 0 {
		return errors.New("send_rate_limit must not be negative")
	}
	return nil
}

// EffectiveRequestTimeout returns the request timeout clamped below the poll interval.
func (c Config) EffectiveRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 || c.RequestTimeout >= c.PollInterval {
		return c.PollInterval * 3 / 4
	}
	return c.RequestTimeout
}
