package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"agritrack-api/pkg/database"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Audit    AuditConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	AppEnv      string
	Port        string
	BodyLimitMB int
	UploadDir   string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret  string
	Expires time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

type AuditConfig struct {
	QueueSize int
}

// SeedConfig creates an initial admin account on start-up when Email is set.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

const defaultDevSecret = "agritrack-dev-secret-change-me"

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "5000"),
			BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 10),
			UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			DSN:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "agritrack"),
			Password:        getEnv("DB_PASSWORD", "agritrack"),
			DBName:          getEnv("DB_NAME", "agritrack"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "Asia/Manila"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 60)) * time.Minute,
		},
		JWT: JWTConfig{
			Secret:  getEnv("JWT_SECRET", ""),
			Expires: time.Duration(getEnvInt("JWT_EXPIRES_HOURS", 24)) * time.Hour,
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Audit: AuditConfig{
			QueueSize: getEnvInt("AUDIT_QUEUE_SIZE", 256),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			AdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.AppEnv, "production")
}

// EnsureSecret fills in the development secret when JWT_SECRET is unset.
// It reports false when running in production without a secret.
func (c *Config) EnsureSecret() bool {
	if c.JWT.Secret != "" {
		return true
	}
	if c.IsProduction() {
		return false
	}
	c.JWT.Secret = defaultDevSecret
	return true
}

func (c *Config) Database() database.Config {
	p := c.Postgres
	return database.Config{
		DSN:             p.DSN,
		Host:            p.Host,
		Port:            p.Port,
		User:            p.User,
		Password:        p.Password,
		DBName:          p.DBName,
		SSLMode:         p.SSLMode,
		TimeZone:        p.TimeZone,
		MaxOpenConns:    p.MaxOpenConns,
		MaxIdleConns:    p.MaxIdleConns,
		ConnMaxLifetime: p.ConnMaxLifetime,
		Debug:           !c.IsProduction(),
	}
}

func (c *Config) BodyLimitBytes() int {
	return c.Server.BodyLimitMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
