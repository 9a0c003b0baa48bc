package config

import "time"

type HTTPConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	// RequestTimeout bounds each request's context. Zero disables it.
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxRequestBytes int64         `mapstructure:"max_request_bytes"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

type CatalogConfig struct {
	// Source is "fs" (Dir) or "gcs" (Bucket + Prefix).
	Source  string `mapstructure:"source"`
	Dir     string `mapstructure:"dir"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Pattern string `mapstructure:"pattern"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type SQLConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RegistryConfig struct {
	// Codec is "hash" (store-backed, truncated SHA-256) or "compact"
	// (self-describing, no store).
	Codec     string `mapstructure:"codec"`
	KeyLength int    `mapstructure:"key_length"`
	// Store is "memory", "redis" or "sql". Ignored by the compact codec.
	Store string `mapstructure:"store"`
	// TTL evicts keys that have not been re-encoded within the window. Zero keeps them forever.
	TTL time.Duration `mapstructure:"ttl"`
	// CacheTTL fronts remote stores with an in-process read cache. Zero disables it.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Redis    RedisConfig   `mapstructure:"redis"`
	SQL      SQLConfig     `mapstructure:"sql"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type TelemetryConfig struct {
	ServiceName string        `mapstructure:"service_name"`
	Version     string        `mapstructure:"version"`
	Tracing     TracingConfig `mapstructure:"tracing"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
}

type Config struct {
	Env       string          `mapstructure:"env"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}
