// Package config loads sentinel's runtime settings from defaults, an optional
// config file, SENTINEL_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "sentinel"

// Config holds settings for the process around the monitor. Sampling
// constants are fixed in the services package and are not configurable.
type Config struct {
	Addr           string   `mapstructure:"addr" yaml:"addr"`
	LogFile        string   `mapstructure:"log_file" yaml:"log_file"`
	WebDir         string   `mapstructure:"web_dir" yaml:"web_dir"`
	LogLevel       string   `mapstructure:"log_level" yaml:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	RateLimit      float64  `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst      int      `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:5000")
	v.SetDefault("log_file", "alerts.log")
	v.SetDefault("web_dir", "./web")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("rate_limit", 100.0)
	v.SetDefault("rate_burst", 200)
}

// BindFlags maps command-line flags onto config keys. Dashes in flag names
// become underscores in keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range []string{"addr", "log-file", "web-dir", "log-level"} {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional config file and environment into a Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// A comma-separated env value arrives as a single element.
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.LogFile == "" {
		errs = append(errs, errors.New("log_file must not be empty"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit must be positive, got %v", c.RateLimit))
	}
	if c.RateBurst <= 0 {
		errs = append(errs, fmt.Errorf("rate_burst must be positive, got %d", c.RateBurst))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ParseLevel maps a log level name to slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", name)
	}
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
