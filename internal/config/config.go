package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"linkcook-go/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	LiveEnabled bool
	DB          DBConfig
	Auth        AuthConfig
	Cache       CacheConfig
	Activity    ActivityConfig
}

type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	Domain        string
	Audience      string
	SkipAuth      bool
	MockUserID    string
	MockUserName  string
	MockUserEmail string
}

type CacheConfig struct {
	Backend       string
	TTL           time.Duration
	RedisURL      string
	RedisPassword string
	RedisDB       int
}

// ActivityConfig tunes the per-user activity summary. A zero CacheTTL
// recomputes it on every request.
type ActivityConfig struct {
	CacheTTL time.Duration
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "4000"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		LiveEnabled: getEnvBool("LIVE_ENABLED", true),
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "linkcook"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "./data/linkcook.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			Domain:        getEnv("AUTH0_DOMAIN", ""),
			Audience:      getEnv("AUTH0_AUDIENCE", ""),
			SkipAuth:      getEnvBool("AUTH_SKIP", false),
			MockUserID:    getEnv("AUTH_MOCK_USER_ID", "auth0|local-dev"),
			MockUserName:  getEnv("AUTH_MOCK_USER_NAME", "local"),
			MockUserEmail: getEnv("AUTH_MOCK_USER_EMAIL", ""),
		},
		Cache: CacheConfig{
			Backend:       getEnv("CACHE_BACKEND", CacheMemory),
			TTL:           getEnvDuration("CACHE_TTL", 30*time.Second),
			RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Activity: ActivityConfig{
			CacheTTL: getEnvDuration("ACTIVITY_CACHE_TTL", 30*time.Second),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

// Issuer is the token issuer Auth0 stamps into access tokens.
func (c AuthConfig) Issuer() string {
	domain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(c.Domain), "https://"), "/")
	if domain == "" {
		return ""
	}
	return "https://" + domain + "/"
}

func (c AuthConfig) JWKSURL() string {
	issuer := c.Issuer()
	if issuer == "" {
		return ""
	}
	return issuer + ".well-known/jwks.json"
}
