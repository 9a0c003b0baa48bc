package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceFS  = "fs"
	SourceGCS = "gcs"

	CodecHash    = "hash"
	CodecCompact = "compact"

	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQL    = "sql"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvPrefix = "AVATAR"

	minKeyLength = 8
	maxKeyLength = 64
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("http.idle_timeout", 2*time.Minute)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("http.request_timeout", 10*time.Second)
	v.SetDefault("http.max_request_bytes", int64(64<<10))
	v.SetDefault("http.allow_origins", []string{"*"})

	v.SetDefault("catalog.source", SourceFS)
	v.SetDefault("catalog.dir", "Separate Atoms")
	v.SetDefault("catalog.bucket", "")
	v.SetDefault("catalog.prefix", "")
	v.SetDefault("catalog.pattern", "*.svg")

	v.SetDefault("registry.codec", CodecHash)
	v.SetDefault("registry.key_length", minKeyLength)
	v.SetDefault("registry.store", StoreMemory)
	v.SetDefault("registry.ttl", time.Duration(0))
	v.SetDefault("registry.cache_ttl", time.Duration(0))
	v.SetDefault("registry.redis.addr", "localhost:6379")
	v.SetDefault("registry.redis.password", "")
	v.SetDefault("registry.redis.db", 0)
	v.SetDefault("registry.redis.prefix", "avatar:key:")
	v.SetDefault("registry.sql.driver", DriverPostgres)
	v.SetDefault("registry.sql.dsn", "")

	v.SetDefault("telemetry.service_name", "avatar-backend")
	v.SetDefault("telemetry.version", "1.0.0")
	v.SetDefault("telemetry.tracing.enabled", false)
	v.SetDefault("telemetry.tracing.endpoint", "")
	v.SetDefault("telemetry.tracing.insecure", false)
	v.SetDefault("telemetry.tracing.sample_ratio", 0.1)
	v.SetDefault("telemetry.metrics.enabled", false)
	v.SetDefault("telemetry.metrics.path", "/metrics")
}

// Load resolves configuration from defaults, an optional config file and
// AVATAR_* environment variables, in increasing precedence. An empty path
// falls back to AVATAR_CONFIG_PATH, then ./config/config.{json,yaml}.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG_PATH"))
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Env = strings.TrimSpace(c.Env)
	if c.Env == "" {
		c.Env = "development"
	}

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = ":8000"
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = 64 << 10
	}
	if c.HTTP.RequestTimeout < 0 {
		return errors.New("http.request_timeout must not be negative")
	}
	origins := make([]string, 0, len(c.HTTP.AllowOrigins))
	for _, o := range c.HTTP.AllowOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.HTTP.AllowOrigins = origins

	c.Catalog.Source = strings.ToLower(strings.TrimSpace(c.Catalog.Source))
	if strings.TrimSpace(c.Catalog.Pattern) == "" {
		c.Catalog.Pattern = "*.svg"
	}
	switch c.Catalog.Source {
	case "", SourceFS:
		c.Catalog.Source = SourceFS
		if strings.TrimSpace(c.Catalog.Dir) == "" {
			return errors.New("catalog.dir is required for the fs source")
		}
	case SourceGCS:
		if strings.TrimSpace(c.Catalog.Bucket) == "" {
			return errors.New("catalog.bucket is required for the gcs source")
		}
		c.Catalog.Prefix = strings.Trim(strings.TrimSpace(c.Catalog.Prefix), "/")
	default:
		return fmt.Errorf("invalid catalog.source=%q", c.Catalog.Source)
	}

	r := &c.Registry
	r.Codec = strings.ToLower(strings.TrimSpace(r.Codec))
	switch r.Codec {
	case "":
		r.Codec = CodecHash
	case CodecHash, CodecCompact:
	default:
		return fmt.Errorf("invalid registry.codec=%q", r.Codec)
	}
	if r.KeyLength == 0 {
		r.KeyLength = minKeyLength
	}
	if r.KeyLength < minKeyLength || r.KeyLength > maxKeyLength {
		return fmt.Errorf("registry.key_length must be between %d and %d", minKeyLength, maxKeyLength)
	}
	if r.TTL < 0 || r.CacheTTL < 0 {
		return errors.New("registry ttl values must not be negative")
	}
	r.Store = strings.ToLower(strings.TrimSpace(r.Store))
	switch r.Store {
	case "":
		r.Store = StoreMemory
	case StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(r.Redis.Addr) == "" {
			return errors.New("registry.redis.addr is required for the redis store")
		}
	case StoreSQL:
		r.SQL.Driver = strings.ToLower(strings.TrimSpace(r.SQL.Driver))
		switch r.SQL.Driver {
		case DriverPostgres, DriverSQLite:
		default:
			return fmt.Errorf("invalid registry.sql.driver=%q", r.SQL.Driver)
		}
		if strings.TrimSpace(r.SQL.DSN) == "" {
			return errors.New("registry.sql.dsn is required for the sql store")
		}
	default:
		return fmt.Errorf("invalid registry.store=%q", r.Store)
	}

	t := &c.Telemetry
	if strings.TrimSpace(t.ServiceName) == "" {
		t.ServiceName = "avatar-backend"
	}
	if t.Tracing.SampleRatio < 0 {
		t.Tracing.SampleRatio = 0
	}
	if t.Tracing.SampleRatio > 1 {
		t.Tracing.SampleRatio = 1
	}
	if strings.TrimSpace(t.Metrics.Path) == "" {
		t.Metrics.Path = "/metrics"
	}
	return nil
}
