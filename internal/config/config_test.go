package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_HOST", "localhost")
	v.Set("DB_USER", "app")
	v.Set("DB_NAME", "proximity")
	v.Set("JWT_ACCESS_SECRET", strings.Repeat("s", 32))
	return fromViper(v)
}

func TestDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	p := cfg.Proximity
	assert.Equal(t, 30*time.Minute, p.LocationMinInterval)
	assert.Equal(t, 48*time.Hour, p.LocationTTL)
	assert.Equal(t, time.Hour, p.LocationCacheTTL)
	assert.Equal(t, 30*time.Minute, p.CrossingWindow)
	assert.Equal(t, 168*time.Hour, p.CrossedPathTTL)
	assert.Equal(t, 5*time.Minute, p.MapCardCacheTTL)
	assert.InDelta(t, 0.002, p.NoiseDegrees, 1e-12)
	assert.Equal(t, 3, p.RoundDecimals)
	assert.Equal(t, 6, p.LedgerPrecision)
	assert.Equal(t, 5, p.MapPrecision)
	assert.Equal(t, 15*time.Minute, cfg.Retention.Interval)
	assert.Equal(t, 1000, cfg.Retention.BatchSize)
	assert.Equal(t, StorageTypePostgres, cfg.Storage.Type)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"short secret", func(c *Config) { c.JWT.AccessSecret = "short" }, "at least 32"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "database host"},
		{"memory storage skips db", func(c *Config) { c.Database.Host = ""; c.Storage.Type = StorageTypeMemory }, ""},
		{"unknown storage", func(c *Config) { c.Storage.Type = "sqlite" }, "unknown storage"},
		{"unknown cache", func(c *Config) { c.Cache.Type = "memcached" }, "unknown cache"},
		{"map finer than ledger", func(c *Config) { c.Proximity.MapPrecision = 7 }, "map precision"},
		{"ledger too coarse", func(c *Config) { c.Proximity.LedgerPrecision = 3 }, "ledger precision"},
		{"zero noise", func(c *Config) { c.Proximity.NoiseDegrees = 0 }, "noise degrees"},
		{"negative noise", func(c *Config) { c.Proximity.NoiseDegrees = -0.001 }, "noise degrees"},
		{"zero interval", func(c *Config) { c.Proximity.LocationMinInterval = 0 }, "intervals"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "proximity")
	t.Setenv("JWT_ACCESS_SECRET", strings.Repeat("k", 40))
	t.Setenv("LOCATION_MIN_INTERVAL", "45m")
	t.Setenv("LEDGER_PRECISION", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.Proximity.LocationMinInterval)
	assert.Equal(t, 7, cfg.Proximity.LedgerPrecision)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddr())
}

func TestDefaultProximity(t *testing.T) {
	p := DefaultProximity()
	assert.Equal(t, 30*time.Minute, p.LocationMinInterval)
	assert.Equal(t, 10*time.Second, p.DetectionTimeout)
	assert.InDelta(t, 50.0, p.AreaMaxDistanceKm, 1e-9)
}
