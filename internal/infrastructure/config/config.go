package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// placeholderSecret is shipped in the sample env file and must be replaced.
const placeholderSecret = "change-me-jwt-secret"

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Bcrypt   BcryptConfig   `mapstructure:"bcrypt"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// RedisConfig holds the real-time notification channel configuration.
// When Enabled is false notifications are stored but not pushed.
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

// BcryptConfig holds password hashing configuration
type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from defaults, an optional .env file and the
// process environment, in increasing order of precedence.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "TaskHub")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "taskhub")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "30s")
	v.SetDefault("database.migrations_path", "migrations")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel_prefix", "notifications")

	// JWT defaults
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", "3600s")
	v.SetDefault("jwt.issuer", "taskhub-api")

	v.SetDefault("bcrypt.cost", 10)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "*")
	v.SetDefault("security.rate_limit_requests", 100)
	v.SetDefault("security.rate_limit_window", "1m")

	v.SetDefault("metrics.enabled", true)
}

var envBindings = map[string]string{
	// App
	"app.name":        "APP_NAME",
	"app.version":     "APP_VERSION",
	"app.environment": "APP_ENVIRONMENT",
	"app.debug":       "APP_DEBUG",

	// Server
	"server.port":            "SERVER_PORT",
	"server.host":            "SERVER_HOST",
	"server.read_timeout":    "SERVER_READ_TIMEOUT",
	"server.write_timeout":   "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":    "SERVER_IDLE_TIMEOUT",
	"server.request_timeout": "SERVER_REQUEST_TIMEOUT",

	// Database
	"database.host":               "DB_HOST",
	"database.port":               "DB_PORT",
	"database.name":               "DB_NAME",
	"database.user":               "DB_USER",
	"database.password":           "DB_PASSWORD",
	"database.ssl_mode":           "DB_SSL_MODE",
	"database.max_open_conns":     "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns":     "DB_MAX_IDLE_CONNS",
	"database.conn_max_lifetime":  "DB_CONN_MAX_LIFETIME",
	"database.conn_max_idle_time": "DB_CONN_MAX_IDLE_TIME",
	"database.migrations_path":    "DB_MIGRATIONS_PATH",

	// Redis
	"redis.enabled":        "REDIS_ENABLED",
	"redis.host":           "REDIS_HOST",
	"redis.port":           "REDIS_PORT",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"redis.channel_prefix": "REDIS_CHANNEL_PREFIX",

	// JWT
	"jwt.secret":     "JWT_SECRET",
	"jwt.expires_in": "JWT_EXPIRES_IN",
	"jwt.issuer":     "JWT_ISSUER",

	"bcrypt.cost": "BCRYPT_COST",

	// Logger
	"logger.level":    "LOG_LEVEL",
	"logger.format":   "LOG_FORMAT",
	"logger.output":   "LOG_OUTPUT",
	"logger.filename": "LOG_FILENAME",

	// Security
	"security.cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
	"security.rate_limit_requests":  "RATE_LIMIT_REQUESTS",
	"security.rate_limit_window":    "RATE_LIMIT_WINDOW",

	"metrics.enabled": "ENABLE_METRICS",
}

func bindEnvVars(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == placeholderSecret {
		return fmt.Errorf("JWT secret must be set and should not use default value")
	}

	if cfg.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("JWT expiry must be positive")
	}

	if cfg.Bcrypt.Cost < bcrypt.MinCost || cfg.Bcrypt.Cost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Redis.Enabled && cfg.Redis.ChannelPrefix == "" {
		return fmt.Errorf("redis channel prefix is required when redis is enabled")
	}

	return nil
}

// GetDSN returns the database connection string
func (cfg *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// GetAddr returns the Redis address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}

// Warnings lists settings that load fine but are unsafe in production.
func (cfg *Config) Warnings() []string {
	if !cfg.App.IsProduction() {
		return nil
	}

	var warnings []string
	if cfg.Security.CORSAllowedOrigins == "*" {
		warnings = append(warnings, "CORS allows every origin")
	}
	if cfg.Database.SSLMode == "disable" {
		warnings = append(warnings, "database connection is not encrypted")
	}
	if cfg.Security.RateLimitRequests == 0 {
		warnings = append(warnings, "rate limiting is disabled")
	}
	return warnings
}
