// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Ring pipe configuration: defaults, then an optional TOML file, then
// RINGPIPE_* environment variables, then bound command-line flags.

package control

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/momentics/hioload-ringbuf/api"
	"github.com/momentics/hioload-ringbuf/internal/ringbuf"
)

// Config keys.
const (
	KeyCapacity = "capacity"
	KeyChunk    = "chunk"
	KeyLogLevel = "log_level"
	KeyStats    = "stats"
	KeyOutput   = "output"
)

// Config describes one ring pipe run. Chunk caps the bytes requested per
// read or write call; Output "" or "-" means stdout; Stats logs ring
// counters on exit.
type Config struct {
	Capacity int    `mapstructure:"capacity"`
	Chunk    int    `mapstructure:"chunk"`
	LogLevel string `mapstructure:"log_level"`
	Stats    bool   `mapstructure:"stats"`
	Output   string `mapstructure:"output"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Capacity: 64 * 1024,
		Chunk:    16 * 1024,
		LogLevel: "info",
	}
}

// NewViper returns a viper instance with defaults and env binding in place.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault(KeyCapacity, d.Capacity)
	v.SetDefault(KeyChunk, d.Chunk)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyStats, d.Stats)
	v.SetDefault(KeyOutput, d.Output)

	// allow env vars to override the config file
	v.SetEnvPrefix("ringpipe")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads file (if not empty) into v and decodes the result.
func LoadConfig(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges. A zero chunk means "one capacity per call".
func (c *Config) Validate() error {
	if c.Capacity <= 0 || c.Capacity > ringbuf.MaxCapacity {
		return api.NewError(api.ErrCodeInvalidArgument, "capacity out of range").
			WithContext(KeyCapacity, c.Capacity)
	}
	if c.Chunk < 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "chunk must not be negative").
			WithContext(KeyChunk, c.Chunk)
	}
	if c.Chunk == 0 || c.Chunk > c.Capacity {
		c.Chunk = c.Capacity
	}
	return nil
}
