package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel  int      `env:"LOG_LEVEL" envDefault:"0"`
	LogFormat string   `env:"LOG_FORMAT" envDefault:"text"`
	HTTP      HTTP     `envPrefix:"HTTP_"`
	GRPC      GRPC     `envPrefix:"GRPC_"`
	TLS       TLS      `envPrefix:"TLS_"`
	Database  Database `envPrefix:"DATABASE_"`
	JWT       JWT      `envPrefix:"JWT_"`
	Hash      Hash     `envPrefix:"HASH_"`
	Auth      Auth     `envPrefix:"AUTH_"`
	CORS      CORS     `envPrefix:"CORS_"`
	Metrics   Metrics  `envPrefix:"METRICS_"`
}

// HTTP contains public API server parameters.
type HTTP struct {
	Port string `env:"PORT" envDefault:"8000"`
}

// GRPC contains internal gate server parameters.
type GRPC struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Port    string `env:"PORT" envDefault:"50051"`
}

// TLS contains transport security parameters shared by both listeners.
type TLS struct {
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters.
// An empty DSN selects the in-memory user repository.
type Database struct {
	DSN string `env:"DSN"`
}

// JWT contains token signing parameters.
type JWT struct {
	AccessSecret   string `env:"ACCESS_SECRET"`
	RefreshSecret  string `env:"REFRESH_SECRET"`
	AccessTTLMin   int    `env:"ACCESS_TTL_MINUTES" envDefault:"30"`
	RefreshTTLDays int    `env:"REFRESH_TTL_DAYS" envDefault:"7"`
	RotateRefresh  bool   `env:"ROTATE_REFRESH" envDefault:"false"`
}

// AccessTTL returns the access token lifetime.
func (j JWT) AccessTTL() time.Duration {
	return time.Duration(j.AccessTTLMin) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (j JWT) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTTLDays) * 24 * time.Hour
}

// Hash contains password hashing parameters.
type Hash struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Auth contains account policy parameters.
type Auth struct {
	EmailCaseInsensitive bool `env:"EMAIL_CASE_INSENSITIVE" envDefault:"false"`
	MinPasswordLength    int  `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`
}

// CORS contains cross-origin parameters for the public API.
type CORS struct {
	AllowedOrigins   []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	AllowCredentials bool     `env:"ALLOW_CREDENTIALS" envDefault:"false"`
}

// Metrics toggles the Prometheus endpoint and collectors.
type Metrics struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

// NewConfig loads configuration from a .env file, if present, and environment variables.
// Variables already set in the environment take precedence over the file.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: expected text or json", c.LogFormat)
	}
	if c.JWT.AccessTTLMin <= 0 {
		return errors.New("JWT_ACCESS_TTL_MINUTES must be positive")
	}
	if c.JWT.RefreshTTLDays <= 0 {
		return errors.New("JWT_REFRESH_TTL_DAYS must be positive")
	}
	if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.Auth.MinPasswordLength < 1 {
		return errors.New("AUTH_MIN_PASSWORD_LENGTH must be positive")
	}
	return nil
}
