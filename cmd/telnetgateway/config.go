package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the gateway's runtime settings, loaded via Viper with
// TELNETGATEWAY_-prefixed environment variable overrides.
type Config struct {
	Listen  ListenConfig  `mapstructure:"listen"`
	Logging LoggingConfig `mapstructure:"logging"`
	Codec   CodecConfig   `mapstructure:"codec"`
}

// ListenConfig holds the TCP acceptor settings.
type ListenConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
func (l ListenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CodecConfig holds the per-connection telnet.Decoder settings.
type CodecConfig struct {
	MaxLineLength int           `mapstructure:"max_line_length"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
}

// LoadConfig reads configuration from defaults, path (if non-empty), and
// environment variables, in that order of increasing precedence:
// environment variables override the file, and defaults lose to both. An
// empty path skips the file read and relies on
// environment and defaults alone, which is enough to run the gateway with
// zero configuration on disk.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("TELNETGATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen.host", "0.0.0.0")
	v.SetDefault("listen.port", 2323)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("codec.max_line_length", 4096)
	v.SetDefault("codec.idle_timeout", "10m")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Listen.Port <= 0 {
		return Config{}, fmt.Errorf("listen.port must be positive, got %d", cfg.Listen.Port)
	}
	if cfg.Codec.MaxLineLength <= 0 {
		return Config{}, fmt.Errorf("codec.max_line_length must be positive, got %d", cfg.Codec.MaxLineLength)
	}

	return cfg, nil
}
