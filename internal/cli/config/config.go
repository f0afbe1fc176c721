package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"ojadmin/internal/admin/session"
	"ojadmin/internal/common/cache"
	"ojadmin/pkg/utils/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "https://onlinejudge.duckdns.org/api"
	DefaultSessionPath = "configs/ojadmin_session.json"
	DefaultHistoryFile = ".ojadmin_history"
	DefaultEnvironment = EnvDevelopment

	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Environment variables that override the config file.
const (
	EnvBaseURL        = "OJADMIN_BASE_URL"
	EnvEnvironment    = "OJADMIN_ENV"
	EnvTimeout        = "OJADMIN_TIMEOUT"
	EnvSessionBackend = "OJADMIN_SESSION_BACKEND"
	EnvSessionPath    = "OJADMIN_SESSION_PATH"
	EnvRedisAddr      = "OJADMIN_REDIS_ADDR"
	EnvRedisPassword  = "OJADMIN_REDIS_PASSWORD"
	EnvLogLevel       = "OJADMIN_LOG_LEVEL"
)

// Config holds console configuration.
type Config struct {
	BaseURL     string        `yaml:"baseURL"`
	Timeout     time.Duration `yaml:"timeout"`
	Environment string        `yaml:"environment"`
	Location    string        `yaml:"location"`
	HistoryFile string        `yaml:"historyFile"`
	Session     SessionConfig `yaml:"session"`
	Logger      logger.Config `yaml:"logger"`
}

type SessionConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	cache.RedisConfig `yaml:",inline"`
	Key               string `yaml:"key"`
}

// Load reads path, then applies the environment and defaults. A missing
// file is not an error when path is empty.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file failed: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file failed: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotenv loads a .env file into the process environment. Variables
// already set win.
func LoadDotenv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func applyEnv(cfg *Config) error {
	setString(&cfg.BaseURL, EnvBaseURL)
	setString(&cfg.Environment, EnvEnvironment)
	setString(&cfg.Session.Backend, EnvSessionBackend)
	setString(&cfg.Session.Path, EnvSessionPath)
	setString(&cfg.Session.Redis.Addr, EnvRedisAddr)
	setString(&cfg.Session.Redis.Password, EnvRedisPassword)
	setString(&cfg.Logger.Level, EnvLogLevel)
	if raw, ok := os.LookupEnv(EnvTimeout); ok && raw != "" {
		d, err := parseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse %s failed: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}

// parseDuration accepts Go durations and bare seconds.
func parseDuration(raw string) (time.Duration, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = DefaultHistoryFile
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = BackendFile
	}
	if cfg.Session.Path == "" {
		cfg.Session.Path = DefaultSessionPath
	}
	if cfg.Session.Redis.Key == "" {
		cfg.Session.Redis.Key = session.DefaultRedisKey
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "warn"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "console"
	}
	if cfg.Logger.OutputPath == "" {
		cfg.Logger.OutputPath = "stderr"
	}
}

func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	switch c.Session.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Session.Redis.Addr == "" {
			return fmt.Errorf("session.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// SecureCookies is true in production.
func (c Config) SecureCookies() bool {
	return c.Environment == EnvProduction
}

// TimeLocation is the zone operator-entered times are read in.
func (c Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("load location %q failed: %w", c.Location, err)
	}
	return loc, nil
}

// OpenStore builds the configured credential store. The returned close
// func releases backend connections.
func (c SessionConfig) OpenStore() (session.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Backend {
	case BackendMemory:
		return session.NewMemoryStore(), noop, nil
	case BackendRedis:
		rc := cache.DefaultRedisConfig()
		rc.Addr = c.Redis.Addr
		rc.Password = c.Redis.Password
		rc.DB = c.Redis.DB
		if c.Redis.PoolSize > 0 {
			rc.PoolSize = c.Redis.PoolSize
		}
		kv, err := cache.NewRedisCacheWithConfig(rc)
		if err != nil {
			return nil, noop, fmt.Errorf("open redis session store failed: %w", err)
		}
		return session.NewRedisStore(kv, c.Redis.Key), kv.Close, nil
	default:
		return session.NewFileStore(c.Path), noop, nil
	}
}
