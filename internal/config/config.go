package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	AppEnv     string
	Server     ServerConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Geocoding  GeocodingConfig
	Routing    RoutingConfig
	Navigation NavigationConfig
	Device     DeviceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int `validate:"gt=0"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// PostgresConfig holds the destination-store connection settings.
type PostgresConfig struct {
	Host     string
	Port     int `validate:"gt=0"`
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

// RedisConfig holds geocode-cache connection settings.
type RedisConfig struct {
	Host     string
	Port     int `validate:"gt=0"`
	Password string
	DB       int
}

// GeocodingConfig holds both geocoding collaborators.
type GeocodingConfig struct {
	PrimaryBaseURL  string `validate:"required,url"`
	PrimaryAPIKey   string
	FallbackBaseURL string `validate:"required,url"`
	UserAgent       string
	CacheTTL        time.Duration
}

// RoutingConfig holds the routing collaborator settings.
type RoutingConfig struct {
	BaseURL string        `validate:"required,url"`
	APIKey  string
	Timeout time.Duration `validate:"gt=0"`
}

// NavigationConfig holds engine timing parameters.
type NavigationConfig struct {
	TrafficInterval  time.Duration `validate:"gt=0"`
	ManualFixTimeout time.Duration `validate:"gt=0"`
	WatchFixTimeout  time.Duration `validate:"gt=0"`
	ReverseTimeout   time.Duration `validate:"gt=0"`
}

// DeviceConfig selects the device-locator adapter.
type DeviceConfig struct {
	ReplayPath     string
	ReplayInterval time.Duration
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and an optional .env
// file, applies defaults, and validates the result.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", "local")

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "60s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "travelnav")
	viper.SetDefault("POSTGRES_PASSWORD", "travelnav_secret")
	viper.SetDefault("POSTGRES_DB", "travelnav_db")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 10)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("GEOCODE_PRIMARY_BASE_URL", "https://maps.googleapis.com/maps/api")
	viper.SetDefault("GEOCODE_FALLBACK_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODE_USER_AGENT", "travel-nav-service/1.0")
	viper.SetDefault("GEOCODE_CACHE_TTL", "24h")

	viper.SetDefault("ROUTING_BASE_URL", "https://maps.googleapis.com/maps/api")
	viper.SetDefault("ROUTING_TIMEOUT", "15s")

	viper.SetDefault("TRAFFIC_INTERVAL", "180s")
	viper.SetDefault("MANUAL_FIX_TIMEOUT", "10s")
	viper.SetDefault("WATCH_FIX_TIMEOUT", "15s")
	viper.SetDefault("REVERSE_GEOCODE_TIMEOUT", "3s")

	viper.SetDefault("DEVICE_REPLAY_PATH", "")
	viper.SetDefault("DEVICE_REPLAY_INTERVAL", "2s")

	// Missing .env is fine; env vars injected by the runtime are used.
	_ = viper.ReadInConfig()

	cfg := &Config{
		AppEnv: viper.GetString("APP_ENV"),
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			MaxConns: viper.GetInt32("POSTGRES_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Geocoding: GeocodingConfig{
			PrimaryBaseURL:  viper.GetString("GEOCODE_PRIMARY_BASE_URL"),
			PrimaryAPIKey:   viper.GetString("GEOCODE_PRIMARY_API_KEY"),
			FallbackBaseURL: viper.GetString("GEOCODE_FALLBACK_BASE_URL"),
			UserAgent:       viper.GetString("GEOCODE_USER_AGENT"),
			CacheTTL:        viper.GetDuration("GEOCODE_CACHE_TTL"),
		},
		Routing: RoutingConfig{
			BaseURL: viper.GetString("ROUTING_BASE_URL"),
			APIKey:  viper.GetString("ROUTING_API_KEY"),
			Timeout: viper.GetDuration("ROUTING_TIMEOUT"),
		},
		Navigation: NavigationConfig{
			TrafficInterval:  viper.GetDuration("TRAFFIC_INTERVAL"),
			ManualFixTimeout: viper.GetDuration("MANUAL_FIX_TIMEOUT"),
			WatchFixTimeout:  viper.GetDuration("WATCH_FIX_TIMEOUT"),
			ReverseTimeout:   viper.GetDuration("REVERSE_GEOCODE_TIMEOUT"),
		},
		Device: DeviceConfig{
			ReplayPath:     viper.GetString("DEVICE_REPLAY_PATH"),
			ReplayInterval: viper.GetDuration("DEVICE_REPLAY_INTERVAL"),
		},
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}
