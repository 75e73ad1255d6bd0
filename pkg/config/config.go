package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Cache    CacheConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"THETROIS_APP_ENV" required:"true"`
	Port         string `envconfig:"THETROIS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"THETROIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"THETROIS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the commerce API this gateway fronts.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"THETROIS_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"THETROIS_UPSTREAM_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"THETROIS_REDIS_URL"`
	Address      string        `envconfig:"THETROIS_REDIS_ADDR"`
	Password     string        `envconfig:"THETROIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"THETROIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THETROIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THETROIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THETROIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THETROIS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THETROIS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StorageConfig selects the key/value backend used for order-list caching.
type StorageConfig struct {
	Driver     string `envconfig:"THETROIS_STORAGE_DRIVER" default:"memory"`
	SQLitePath string `envconfig:"THETROIS_STORAGE_SQLITE_PATH" default:"thetrois-cache.db"`
}

type CacheConfig struct {
	OrdersTTL time.Duration `envconfig:"THETROIS_CACHE_ORDERS_TTL" default:"24h"`
}

func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

func (s *StorageConfig) validate() error {
	switch s.NormalizedDriver() {
	case StorageDriverMemory, StorageDriverRedis, StorageDriverSQLite:
		return nil
	}
	return fmt.Errorf("unknown storage driver %q", s.Driver)
}
