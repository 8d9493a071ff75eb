// Package config defines all configuration structures for cobrababel.  No I/O
// or parsing logic lives in this file — only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/mmundy42/cobrababel/internal/domain/normalize"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

// BuildConfig holds universal-model construction options.
type BuildConfig struct {
	// ModelID and ModelName identify the produced universal model.
	ModelID   string `mapstructure:"model_id"`
	ModelName string `mapstructure:"model_name"`

	// Verbose surfaces merge conflicts and per-record rejections as warnings
	// instead of silently dropping them.
	Verbose bool `mapstructure:"verbose"`

	// Sources is the ordered list of source tags to process.  Order matters:
	// the first-seen-wins merge policy is deterministic only for a fixed
	// processing order.
	Sources []string `mapstructure:"sources"`
}

// BiGGConfig holds BiGG data API client parameters.
type BiGGConfig struct {
	URL string `mapstructure:"url"`

	// PauseCount is the number of requests between rate-limit pauses.
	PauseCount int `mapstructure:"pause_count"`
	// PauseDuration is how long to sleep at each pause.
	PauseDuration time.Duration `mapstructure:"pause_duration"`

	Timeout time.Duration `mapstructure:"timeout"`
}

// MetaNetXConfig holds MetaNetX download parameters.
type MetaNetXConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// KEGGConfig holds KEGG REST client parameters.
type KEGGConfig struct {
	URL string `mapstructure:"url"`

	// BatchSize is the number of IDs per get request; the KEGG web service
	// caps this at 10.
	BatchSize int `mapstructure:"batch_size"`

	Timeout time.Duration `mapstructure:"timeout"`
}

// SourcesConfig groups the per-source retrieval client settings.
type SourcesConfig struct {
	BiGG     BiGGConfig     `mapstructure:"bigg"`
	MetaNetX MetaNetXConfig `mapstructure:"metanetx"`
	KEGG     KEGGConfig     `mapstructure:"kegg"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the optional
// model store.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis parameters for the source-response cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds S3-compatible object-storage parameters for exported
// model uploads.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// ServerConfig holds browse-API server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Config is the root configuration object.
type Config struct {
	Build    BuildConfig    `mapstructure:"build"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      logging.Config `mapstructure:"log"`

	// Normalize maps a source tag to its declarative field-mapping rules.
	// Built-in rules for bigg, metanetx, and kegg are applied as defaults and
	// can be overridden per deployment.
	Normalize map[string]normalize.Rules `mapstructure:"normalize"`
}

// RulesFor returns the normalization rules for a source tag.
func (c *Config) RulesFor(source string) (normalize.Rules, bool) {
	r, ok := c.Normalize[source]
	return r, ok
}

// Validate checks cross-field consistency.  Defaults must be applied first.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release, or test", c.Server.Mode)
	}
	if c.Database.Enabled {
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("database enabled but host or db_name unset")
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis enabled but addr unset")
	}
	if c.MinIO.Enabled && (c.MinIO.Endpoint == "" || c.MinIO.Bucket == "") {
		return fmt.Errorf("minio enabled but endpoint or bucket unset")
	}
	if c.Sources.KEGG.BatchSize > 10 {
		return fmt.Errorf("sources.kegg.batch_size %d exceeds the KEGG limit of 10", c.Sources.KEGG.BatchSize)
	}
	for _, tag := range c.Build.Sources {
		if _, ok := c.Normalize[tag]; !ok {
			return fmt.Errorf("build.sources lists %q but no normalize rules exist for it", tag)
		}
	}
	return nil
}
