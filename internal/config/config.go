package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevJWTSecret is only accepted outside production.
const DevJWTSecret = "dev-secret-change-in-production-32chars!"

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout int
	Timeout     int
	Prefix      string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	Prefix          string
}

type ExportConfig struct {
	Storage      string // "local" or "s3"
	Dir          string
	PublicPrefix string
	FileTTL      time.Duration
}

type AdminConfig struct {
	User        string
	Pass        string
	JWTSecret   string
	SessionTTL  time.Duration
	LoginBurst  int
	LoginWindow time.Duration
}

type AppConfig struct {
	Port          string
	Env           string
	LogLevel      string
	ExternalURL   string
	CORSOrigins   []string
	FreeDebtLimit int

	Postgres PostgresConfig
	Redis    RedisConfig
	S3       S3Config
	Export   ExportConfig
	Admin    AdminConfig
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

func mustBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("invalid bool value %q: %v", s, err)
	}
	return b
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration value %q: %v", s, err)
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func Load() AppConfig {
	env := getenv("APP_ENV", "development")

	jwtSecret := os.Getenv("ADMIN_JWT_SECRET")
	if jwtSecret == "" && env != "production" {
		jwtSecret = DevJWTSecret
	}

	// production only answers cross-origin requests for listed origins
	corsDefault := "http://localhost:3000"
	if env == "production" {
		corsDefault = ""
	}

	storage := getenv("EXPORT_STORAGE", "")
	if storage == "" {
		storage = "local"
		if os.Getenv("S3_ENDPOINT") != "" {
			storage = "s3"
		}
	}

	return AppConfig{
		Port:          getenv("APP_PORT", "8010"),
		Env:           env,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		ExternalURL:   getenv("EXTERNAL_URL", ""),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", corsDefault)),
		FreeDebtLimit: mustAtoi(getenv("FREE_DEBT_LIMIT", "5")),
		Postgres: PostgresConfig{
			Host:     getenv("PG_HOST", "127.0.0.1"),
			Port:     mustAtoi(getenv("PG_PORT", "5432")),
			User:     getenv("PG_USER", "postgres"),
			Password: getenv("PG_PASSWORD", "postgres"),
			DBName:   getenv("PG_DB", "schuldenfrei"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:        getenv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    getenv("REDIS_PASSWORD", ""),
			DB:          mustAtoi(getenv("REDIS_DB", "0")),
			MaxRetries:  mustAtoi(getenv("REDIS_MAX_RETRIES", "5")),
			DialTimeout: mustAtoi(getenv("REDIS_DIAL_TIMEOUT", "10")),
			Timeout:     mustAtoi(getenv("REDIS_TIMEOUT", "5")),
			Prefix:      getenv("REDIS_PREFIX", "schuldenfrei_"),
		},
		S3: S3Config{
			Endpoint:        getenv("S3_ENDPOINT", ""),
			AccessKeyID:     getenv("S3_ACCESS_KEY", "minio"),
			SecretAccessKey: getenv("S3_SECRET_KEY", "minio123"),
			Bucket:          getenv("S3_BUCKET", "exports"),
			Region:          getenv("S3_REGION", "eu-central-1"),
			UseSSL:          mustBool(getenv("S3_USE_SSL", "false")),
			Prefix:          getenv("S3_PREFIX", ""),
		},
		Export: ExportConfig{
			Storage:      storage,
			Dir:          getenv("EXPORT_DIR", "./exports"),
			PublicPrefix: getenv("FILES_PUBLIC_PREFIX", "/files"),
			FileTTL:      mustDuration(getenv("EXPORT_FILE_TTL", "30m")),
		},
		Admin: AdminConfig{
			User:        os.Getenv("ADMIN_USER"),
			Pass:        os.Getenv("ADMIN_PASS"),
			JWTSecret:   jwtSecret,
			SessionTTL:  mustDuration(getenv("ADMIN_SESSION_TTL", "8h")),
			LoginBurst:  mustAtoi(getenv("ADMIN_LOGIN_BURST", "5")),
			LoginWindow: mustDuration(getenv("ADMIN_LOGIN_WINDOW", "1m")),
		},
	}
}

// Validate reports every problem at once.
func (c AppConfig) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.FreeDebtLimit < 1 {
		errs = append(errs, fmt.Errorf("FREE_DEBT_LIMIT must be positive, got %d", c.FreeDebtLimit))
	}

	switch c.Export.Storage {
	case "local":
	case "s3":
		if c.S3.Endpoint == "" {
			errs = append(errs, errors.New("S3_ENDPOINT is required for s3 export storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EXPORT_STORAGE %q", c.Export.Storage))
	}

	for _, o := range c.CORSOrigins {
		if o == "*" {
			errs = append(errs, errors.New("CORS_ORIGINS must list explicit origins, not *"))
		}
	}

	if c.Admin.JWTSecret == "" {
		errs = append(errs, errors.New("ADMIN_JWT_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Admin.User == "" || c.Admin.Pass == "" {
			errs = append(errs, errors.New("ADMIN_USER and ADMIN_PASS are required in production"))
		}
		if c.Admin.JWTSecret == DevJWTSecret {
			errs = append(errs, errors.New("ADMIN_JWT_SECRET must not be the development default in production"))
		}
	}

	return errors.Join(errs...)
}
