package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Session       SessionConfig
	Platform      PlatformConfig
	Bootstrap     BootstrapConfig
	Observability ObservabilityConfig
	Security      SecurityConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	StaticDir    string        `envconfig:"SERVER_STATIC_DIR" default:"./web/dist"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"campusgate"`
	Password        string        `envconfig:"DB_PASSWORD" required:"true"`
	Database        string        `envconfig:"DB_NAME" default:"campusgate"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// RedisConfig holds the shared limiter backend configuration
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SessionConfig holds session management configuration
type SessionConfig struct {
	CookieName     string        `envconfig:"SESSION_COOKIE_NAME" default:"campusgate_session"`
	CookieDomain   string        `envconfig:"SESSION_COOKIE_DOMAIN" default:""`
	CookiePath     string        `envconfig:"SESSION_COOKIE_PATH" default:"/"`
	CookieSecure   bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
	CookieHTTPOnly bool          `envconfig:"SESSION_COOKIE_HTTP_ONLY" default:"true"`
	CookieSameSite string        `envconfig:"SESSION_COOKIE_SAME_SITE" default:"Lax"`
	Lifetime       time.Duration `envconfig:"SESSION_LIFETIME" default:"24h"`
	IdleTimeout    time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
}

// PlatformConfig holds the upstream platform API configuration
type PlatformConfig struct {
	BaseURL     string        `envconfig:"PLATFORM_BASE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"PLATFORM_TIMEOUT" default:"10s"`
	TokenSecret string        `envconfig:"PLATFORM_TOKEN_SECRET" required:"true"`
	TokenIssuer string        `envconfig:"PLATFORM_TOKEN_ISSUER" default:"platform"`
}

// BootstrapConfig holds the break-glass superadmin configuration. Both
// fields empty disables the bootstrap path entirely.
type BootstrapConfig struct {
	Email        string `envconfig:"BOOTSTRAP_EMAIL" default:""`
	PasswordHash string `envconfig:"BOOTSTRAP_PASSWORD_HASH" default:""`
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"json"`
	OTELEnabled    bool   `envconfig:"OTEL_ENABLED" default:"false"`
	ServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"campusgate"`
	ServiceVersion string `envconfig:"OTEL_SERVICE_VERSION" default:"0.1.0"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	Argon2Memory      uint32 `envconfig:"ARGON2_MEMORY" default:"65536"`
	Argon2Iterations  uint32 `envconfig:"ARGON2_ITERATIONS" default:"3"`
	Argon2Parallelism uint8  `envconfig:"ARGON2_PARALLELISM" default:"4"`
	Argon2SaltLength  uint32 `envconfig:"ARGON2_SALT_LENGTH" default:"16"`
	Argon2KeyLength   uint32 `envconfig:"ARGON2_KEY_LENGTH" default:"32"`
	SSLRedirect       bool   `envconfig:"SECURITY_SSL_REDIRECT" default:"false"`
	ContentSecurity   string `envconfig:"SECURITY_CSP" default:"default-src 'self'"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"RATELIMIT_RPS" default:"10"`
	Burst             int           `envconfig:"RATELIMIT_BURST" default:"20"`
	LoginAttempts     int           `envconfig:"RATELIMIT_LOGIN_ATTEMPTS" default:"5"`
	LoginWindow       time.Duration `envconfig:"RATELIMIT_LOGIN_WINDOW" default:"15m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	if (c.Bootstrap.Email == "") != (c.Bootstrap.PasswordHash == "") {
		return fmt.Errorf("BOOTSTRAP_EMAIL and BOOTSTRAP_PASSWORD_HASH must be set together")
	}
	if len(c.Platform.TokenSecret) < 32 {
		return fmt.Errorf("PLATFORM_TOKEN_SECRET must be at least 32 bytes")
	}
	return nil
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}
