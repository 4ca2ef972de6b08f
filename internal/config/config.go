package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported session stores
const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

type Config struct {
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBPath     string `mapstructure:"db_path"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`
	DBLogLevel string `mapstructure:"db_log_level"`

	RedisHost string `mapstructure:"redis_host"`
	RedisPort string `mapstructure:"redis_port"`

	SessionStore           string        `mapstructure:"session_store"`
	SessionSecret          string        `mapstructure:"session_secret"`
	SessionTTL             time.Duration `mapstructure:"session_ttl"`
	SessionCleanupInterval time.Duration `mapstructure:"session_cleanup_interval"`

	GinMode         string        `mapstructure:"gin_mode"`
	ServerAddr      string        `mapstructure:"server_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`
}

var defaults = map[string]any{
	"db_driver":    DriverMySQL,
	"db_host":      "localhost",
	"db_port":      "3306",
	"db_user":      "taskuser",
	"db_password":  "taskpassword",
	"db_name":      "projectflow",
	"db_path":      "projectflow.db",
	"db_ssl_mode":  "disable",
	"db_log_level": "warn",

	"redis_host": "localhost",
	"redis_port": "6379",

	"session_store":            SessionStoreCookie,
	"session_secret":           "default-secret-key-change-me",
	"session_ttl":              7 * 24 * time.Hour,
	"session_cleanup_interval": time.Hour,

	"gin_mode":         "debug",
	"server_addr":      ":8080",
	"shutdown_timeout": 10 * time.Second,

	"log_level": "info",
	"log_file":  "",

	"openai_api_key": "",
}

// Load reads configuration from the environment, falling back to a local .env file
// for variables that are not already set.
func Load() (*Config, error) {
	// A missing .env is fine; Load never overrides variables already set.
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate ensures the configuration can be used to start the server.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
		if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
			return errors.New("db_host, db_name and db_user are required")
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("db_path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}

	switch c.SessionStore {
	case SessionStoreCookie:
	case SessionStoreRedis:
		if c.RedisHost == "" {
			return errors.New("redis_host is required for the redis session store")
		}
	default:
		return fmt.Errorf("unsupported session_store %q", c.SessionStore)
	}

	if c.SessionSecret == "" {
		return errors.New("session_secret is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c Config) IsProduction() bool {
	return c.GinMode == "release"
}

// RedisAddr returns host:port of the session redis.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
