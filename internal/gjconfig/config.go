// Package gjconfig loads gribjump's CLI/server configuration from
// environment variables and an optional config file, following the
// same defaults-then-env-then-file layering the rest of this codebase
// uses for configuration.
package gjconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable gribjump's CLI and extraction service
// need.
type Config struct {
	Log       LogConfig
	Cache     CacheConfig
	Remote    RemoteConfig
}

// LogConfig controls the zerolog setup in internal/gjlog.
type LogConfig struct {
	Level  string // trace, debug, info, warn, error
	Format string // console or json
}

// CacheConfig sizes the in-memory GribInfo cache.
type CacheConfig struct {
	InfoCacheCapacity int
}

// RemoteConfig tunes HTTPByteReader for remote GRIB sources.
type RemoteConfig struct {
	TimeoutSeconds int
}

// Load builds a Config from defaults, the GRIBJUMP_* environment, and
// an optional gribjump.toml found in the working directory, /etc/gribjump/
// or $HOME/.gribjump/.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GRIBJUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gribjump")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/gribjump/")
	v.AddConfigPath("$HOME/.gribjump/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("gjconfig: read config: %w", err)
		}
	}

	return &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Cache: CacheConfig{
			InfoCacheCapacity: v.GetInt("cache.info_cache_capacity"),
		},
		Remote: RemoteConfig{
			TimeoutSeconds: v.GetInt("remote.timeout_seconds"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("cache.info_cache_capacity", 256)
	v.SetDefault("remote.timeout_seconds", 60)
}
