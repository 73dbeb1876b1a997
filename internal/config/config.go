// Package config handles configuration loading for FinForecast.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spy799/finforecast-ai/internal/provider"
)

// Config represents the complete application configuration.
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Cache     CacheConfig     `mapstructure:"cache"     yaml:"cache"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ProvidersConfig holds per-provider credentials and the chain order.
// Every credential is optional; a missing one silently disables its
// provider rather than erroring.
type ProvidersConfig struct {
	Order   []string      `mapstructure:"order"   yaml:"order"` // priority order, e.g. ["fmp","sahmk","edgar","polygon","yfinance"]
	FMP     FMPConfig     `mapstructure:"fmp"     yaml:"fmp"`
	Sahmk   SahmkConfig   `mapstructure:"sahmk"   yaml:"sahmk"`
	Polygon PolygonConfig `mapstructure:"polygon" yaml:"polygon"`
	Edgar   EdgarConfig   `mapstructure:"edgar"   yaml:"edgar"`
}

// FMPConfig holds Financial Modeling Prep credentials.
type FMPConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// SahmkConfig holds SAHMK (Saudi Tadawul) credentials.
type SahmkConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// PolygonConfig holds Polygon.io credentials.
type PolygonConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// EdgarConfig holds the SEC EDGAR contact identity.
type EdgarConfig struct {
	Email string `mapstructure:"email" yaml:"email"`
}

// CacheConfig holds result-cache settings.
type CacheConfig struct {
	TTL int `mapstructure:"ttl" yaml:"ttl"` // seconds
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// Credentials converts the provider configuration to the credential bag
// consumed by the provider chain.
func (c *Config) Credentials() provider.Credentials {
	return provider.Credentials{
		FMPKey:     c.Providers.FMP.APIKey,
		SahmkKey:   c.Providers.Sahmk.APIKey,
		PolygonKey: c.Providers.Polygon.APIKey,
		EdgarEmail: c.Providers.Edgar.Email,
	}
}

// CacheTTL returns the configured result freshness window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finforecast/config.yaml (home directory)
//  3. /etc/finforecast/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINFORECAST_<SECTION>_<KEY>, e.g., FINFORECAST_PROVIDERS_FMP_API_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finforecast"))
	v.AddConfigPath("/etc/finforecast")

	v.SetEnvPrefix("FINFORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINFORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Provider defaults: full chain in priority order.
	v.SetDefault("providers.order", []string{"fmp", "sahmk", "edgar", "polygon", "yfinance"})

	// Cache defaults: two-hour freshness window.
	v.SetDefault("cache.ttl", 7200)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FINFORECAST_PROVIDERS_FMP_API_KEY"); key != "" {
		cfg.Providers.FMP.APIKey = key
	}
	if key := os.Getenv("FINFORECAST_PROVIDERS_SAHMK_API_KEY"); key != "" {
		cfg.Providers.Sahmk.APIKey = key
	}
	if key := os.Getenv("FINFORECAST_PROVIDERS_POLYGON_API_KEY"); key != "" {
		cfg.Providers.Polygon.APIKey = key
	}
	if email := os.Getenv("FINFORECAST_PROVIDERS_EDGAR_EMAIL"); email != "" {
		cfg.Providers.Edgar.Email = email
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
