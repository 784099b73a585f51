package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageTypePostgres = "postgres"
	StorageTypeMemory   = "memory"

	CacheTypeRedis  = "redis"
	CacheTypeMemory = "memory"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Proximity ProximityConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret string
}

type StorageConfig struct {
	Type string
}

type CacheConfig struct {
	Type string
}

type LoggingConfig struct {
	Level string
}

// ProximityConfig holds the location pipeline tunables.
type ProximityConfig struct {
	LocationMinInterval time.Duration
	LocationTTL         time.Duration
	LocationCacheTTL    time.Duration
	CrossingWindow      time.Duration
	CrossedPathTTL      time.Duration
	MapCardCacheTTL     time.Duration
	NoiseDegrees        float64
	RoundDecimals       int
	LedgerPrecision     int
	MapPrecision        int
	AreaMaxDistanceKm   float64
	DetectionTimeout    time.Duration
}

// DefaultProximity returns the tunables used when nothing is configured.
func DefaultProximity() ProximityConfig {
	v := viper.New()
	setDefaults(v)
	return fromViper(v).Proximity
}

type RetentionConfig struct {
	Interval  time.Duration
	BatchSize int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_TYPE", StorageTypePostgres)
	v.SetDefault("CACHE_TYPE", CacheTypeRedis)

	v.SetDefault("LOCATION_MIN_INTERVAL", 30*time.Minute)
	v.SetDefault("LOCATION_TTL", 48*time.Hour)
	v.SetDefault("LOCATION_CACHE_TTL", time.Hour)
	v.SetDefault("CROSSING_WINDOW", 30*time.Minute)
	v.SetDefault("CROSSED_PATH_TTL", 7*24*time.Hour)
	v.SetDefault("MAP_CARD_CACHE_TTL", 5*time.Minute)
	v.SetDefault("NOISE_DEGREES", 0.002)
	v.SetDefault("ROUND_DECIMALS", 3)
	v.SetDefault("LEDGER_PRECISION", 6)
	v.SetDefault("MAP_PRECISION", 5)
	v.SetDefault("AREA_MAX_DISTANCE_KM", 50.0)
	v.SetDefault("PROXIMITY_TIMEOUT", 10*time.Second)

	v.SetDefault("RETENTION_INTERVAL", 15*time.Minute)
	v.SetDefault("RETENTION_BATCH_SIZE", 1000)
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := fromViper(v)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Storage: StorageConfig{
			Type: strings.ToLower(v.GetString("STORAGE_TYPE")),
		},
		Cache: CacheConfig{
			Type: strings.ToLower(v.GetString("CACHE_TYPE")),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Proximity: ProximityConfig{
			LocationMinInterval: v.GetDuration("LOCATION_MIN_INTERVAL"),
			LocationTTL:         v.GetDuration("LOCATION_TTL"),
			LocationCacheTTL:    v.GetDuration("LOCATION_CACHE_TTL"),
			CrossingWindow:      v.GetDuration("CROSSING_WINDOW"),
			CrossedPathTTL:      v.GetDuration("CROSSED_PATH_TTL"),
			MapCardCacheTTL:     v.GetDuration("MAP_CARD_CACHE_TTL"),
			NoiseDegrees:        v.GetFloat64("NOISE_DEGREES"),
			RoundDecimals:       v.GetInt("ROUND_DECIMALS"),
			LedgerPrecision:     v.GetInt("LEDGER_PRECISION"),
			MapPrecision:        v.GetInt("MAP_PRECISION"),
			AreaMaxDistanceKm:   v.GetFloat64("AREA_MAX_DISTANCE_KM"),
			DetectionTimeout:    v.GetDuration("PROXIMITY_TIMEOUT"),
		},
		Retention: RetentionConfig{
			Interval:  v.GetDuration("RETENTION_INTERVAL"),
			BatchSize: v.GetInt("RETENTION_BATCH_SIZE"),
		},
	}
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageTypePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case StorageTypeMemory:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	switch c.Cache.Type {
	case CacheTypeRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required")
		}
	case CacheTypeMemory:
	default:
		return fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}

	p := c.Proximity
	if p.LocationMinInterval <= 0 || p.LocationTTL <= 0 || p.CrossingWindow <= 0 || p.CrossedPathTTL <= 0 {
		return fmt.Errorf("proximity intervals must be positive")
	}
	if p.LedgerPrecision < 4 || p.LedgerPrecision > 12 {
		return fmt.Errorf("ledger precision must be between 4 and 12")
	}
	if p.MapPrecision < 1 || p.MapPrecision > p.LedgerPrecision {
		return fmt.Errorf("map precision must be between 1 and the ledger precision")
	}
	if p.NoiseDegrees <= 0 {
		return fmt.Errorf("noise degrees must be positive")
	}
	if c.Retention.Interval <= 0 {
		return fmt.Errorf("retention interval must be positive")
	}
	return nil
}

// IsProduction reports whether ENV selects production mode.
func (c *ServerConfig) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
