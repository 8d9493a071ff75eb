package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "COBRABABEL"

// envKeys are the leaf keys overridable from the environment.  Viper only
// unmarshals env-sourced values for keys it knows about, so each deployable
// setting is bound here explicitly.
var envKeys = []string{
	"build.model_id", "build.model_name", "build.verbose",
	"sources.bigg.url", "sources.bigg.pause_count",
	"sources.metanetx.url", "sources.kegg.url", "sources.kegg.batch_size",
	"database.enabled", "database.host", "database.port", "database.user",
	"database.password", "database.db_name", "database.ssl_mode",
	"redis.enabled", "redis.addr", "redis.password", "redis.db",
	"minio.enabled", "minio.endpoint", "minio.access_key",
	"minio.secret_key", "minio.bucket", "minio.use_ssl",
	"server.port", "server.mode",
	"log.level", "log.format",
}

// newViper builds a pre-configured Viper instance: YAML file type,
// COBRABABEL_ env prefix, automatic env binding, and a key replacer mapping
// "." to "_" so nested keys like "database.host" resolve to
// COBRABABEL_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges COBRABABEL_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from COBRABABEL_* environment
// variables, with no config file required.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  Intended for
// hot-reloading settings such as log level and source URLs; callers decide
// which subset is safe to apply at runtime.
//
// Watch is non-blocking; viper manages the background goroutine.  A changed
// file that fails to parse or validate does not trigger onChange.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load already.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on any error.  For use in main() where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
