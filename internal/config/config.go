package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Articles ArticlesConfig `mapstructure:"articles" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig contains all database-related configuration settings.
// URL is only required for the postgres driver.
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL                    string `mapstructure:"url" validate:"required_if=Driver postgres,omitempty,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
	BreakerEnabled         bool   `mapstructure:"breaker_enabled"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// ArticlesConfig contains article endpoint settings. AuthMode takes the
// values of article.AuthMode: "required" needs a bearer token for writes and
// restricts updates to the author, "disabled" serves every article route
// anonymously.
type ArticlesConfig struct {
	AuthMode string `mapstructure:"auth_mode" validate:"required,oneof=required disabled"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
