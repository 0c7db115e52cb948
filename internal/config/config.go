// Package config resolves process configuration once at start up. Nothing
// below cmd/server reads the environment; components receive the sub-struct
// they need by value.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// Backend names
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// EncryptionKeySize is the decoded length of STORAGE_ENCRYPTION_KEY.
const EncryptionKeySize = 32

// Config is the immutable process configuration
type Config struct {
	Storage  Storage `envPrefix:"STORAGE_"`
	Content  Content `envPrefix:"CONTENT_"`
	LogLevel string  `env:"LOG_LEVEL" envDefault:"info"`
	// AdminGRPCPort enables the health/reflection listener when non-zero
	AdminGRPCPort int `env:"ADMIN_GRPC_PORT" envDefault:"0"`
}

// Storage selects and parameterizes the campaign store
type Storage struct {
	Backend         string        `env:"BACKEND" envDefault:"memory"`
	DiskDirectory   string        `env:"DISK_DIRECTORY" envDefault:"./save_data"`
	Redis           Redis         `envPrefix:"REDIS_"`
	EncryptionKey   string        `env:"ENCRYPTION_KEY"`
	NamespacePrefix string        `env:"NAMESPACE_PREFIX" envDefault:"5e_mcp"`
	DefaultTTL      time.Duration `env:"DEFAULT_TTL" envDefault:"0s"`
}

// Redis holds connection parameters for the distributed backend
type Redis struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	PoolSize int    `env:"POOL_SIZE" envDefault:"10"`
}

// Content configures the SRD content client
type Content struct {
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"https://www.dnd5eapi.co/api/2014/"`
	APIEnabled  bool          `env:"API_ENABLED" envDefault:"true"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
}

// Load parses the process environment into a validated Config.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.InvalidArgumentf("parse env: %v", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("STORAGE_BACKEND", c.Storage.Backend,
		[]string{BackendMemory, BackendDisk, BackendSQLite, BackendRedis}, vb)
	errors.ValidateRequired("STORAGE_NAMESPACE_PREFIX", c.Storage.NamespacePrefix, vb)

	if c.Storage.DefaultTTL < 0 {
		vb.Field("STORAGE_DEFAULT_TTL", "must not be negative")
	}

	switch c.Storage.Backend {
	case BackendDisk, BackendSQLite:
		errors.ValidateRequired("STORAGE_DISK_DIRECTORY", c.Storage.DiskDirectory, vb)
	case BackendRedis:
		errors.ValidateRequired("STORAGE_REDIS_HOST", c.Storage.Redis.Host, vb)
		errors.ValidateRange("STORAGE_REDIS_PORT", c.Storage.Redis.Port, 1, 65535, vb)
		errors.ValidateNonNegative("STORAGE_REDIS_DB", c.Storage.Redis.DB, vb)
		errors.ValidatePositive("STORAGE_REDIS_POOL_SIZE", c.Storage.Redis.PoolSize, vb)
	}

	if c.Storage.EncryptionKey != "" {
		if _, err := c.Storage.DecodedEncryptionKey(); err != nil {
			vb.InvalidField("STORAGE_ENCRYPTION_KEY", err.Error())
		}
	}

	if c.Content.APIEnabled {
		if _, err := url.ParseRequestURI(c.Content.APIBaseURL); err != nil {
			vb.InvalidField("CONTENT_API_BASE_URL", err.Error())
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		vb.InvalidField("LOG_LEVEL", err.Error())
	}
	errors.ValidateRange("ADMIN_GRPC_PORT", c.AdminGRPCPort, 0, 65535, vb)

	return vb.Build()
}

// SlogLevel converts LOG_LEVEL into a slog.Level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// Distributed reports whether the backend is shared between processes.
func (s Storage) Distributed() bool {
	return s.Backend == BackendRedis
}

// DecodedEncryptionKey returns the raw AES key, or nil when encryption is off.
func (s Storage) DecodedEncryptionKey() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	if len(key) != EncryptionKeySize {
		return nil, fmt.Errorf("decoded key is %d bytes, want %d", len(key), EncryptionKeySize)
	}
	return key, nil
}

// Addr returns host:port for the redis backend
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
