package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	SerpAPIKey       string   `mapstructure:"SERPAPI_KEY"`
	SerpAPIBaseURL   string   `mapstructure:"SERPAPI_BASE_URL"`
	SerpAPIEngine    string   `mapstructure:"SERPAPI_ENGINE"`
	SerpAPILocation  string   `mapstructure:"SERPAPI_LOCATION"`
	SerpAPIHL        string   `mapstructure:"SERPAPI_HL"`
	SerpAPIGL        string   `mapstructure:"SERPAPI_GL"`
	RequestTimeout   int      `mapstructure:"REQUEST_TIMEOUT"` // in seconds
	PacingDelayMS    int      `mapstructure:"PACING_DELAY"`    // in milliseconds
	PayloadDir       string   `mapstructure:"PAYLOAD_DIR"`
	RedisAddr        string   `mapstructure:"REDIS_ADDR"`
	RedisPassword    string   `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int      `mapstructure:"REDIS_DB"`
	CacheTTLHours    int      `mapstructure:"CACHE_TTL_HOURS"`
	ServerPort       string   `mapstructure:"SERVER_PORT"`
	LogLevel         string   `mapstructure:"LOG_LEVEL"`
	LogFormat        string   `mapstructure:"LOG_FORMAT"`
	ExcludedFeatures []string `mapstructure:"EXCLUDED_FEATURES"`
}

var ErrNoSource = errors.New("either SERPAPI_KEY or PAYLOAD_DIR must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERPAPI_KEY", "")
	v.SetDefault("SERPAPI_BASE_URL", "https://serpapi.com/")
	v.SetDefault("SERPAPI_ENGINE", "google")
	v.SetDefault("SERPAPI_LOCATION", "")
	v.SetDefault("SERPAPI_HL", "")
	v.SetDefault("SERPAPI_GL", "")
	v.SetDefault("REQUEST_TIMEOUT", 30)
	v.SetDefault("PACING_DELAY", 1500)
	v.SetDefault("PAYLOAD_DIR", "")
	v.SetDefault("REDIS_ADDR", "") // empty disables the payload cache
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_HOURS", 24)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	// Sections that echo the query back rather than showing results.
	v.SetDefault("EXCLUDED_FEATURES", []string{"search_metadata", "search_parameters", "search_information", "pagination", "serpapi_pagination"})
}

// Load reads configuration from the .env file, environment variables and any flags
// bound to v. Pass nil to use the global viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = v.ReadInConfig()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ExcludedFeatures = trimAll(cfg.ExcludedFeatures)
	if len(cfg.ExcludedFeatures) == 1 && strings.EqualFold(cfg.ExcludedFeatures[0], excludeNothing) {
		cfg.ExcludedFeatures = nil
	}
	return &cfg, nil
}

// Validate checks the settings needed to run a scan.
func (c *Config) Validate() error {
	if c.SerpAPIKey == "" && c.PayloadDir == "" {
		return ErrNoSource
	}
	if c.RequestTimeout < 0 || c.PacingDelayMS < 0 || c.CacheTTLHours < 0 {
		return errors.New("REQUEST_TIMEOUT, PACING_DELAY and CACHE_TTL_HOURS must not be negative")
	}
	return nil
}

func (c *Config) Timeout() time.Duration     { return time.Duration(c.RequestTimeout) * time.Second }
func (c *Config) PacingDelay() time.Duration { return time.Duration(c.PacingDelayMS) * time.Millisecond }
func (c *Config) CacheTTL() time.Duration    { return time.Duration(c.CacheTTLHours) * time.Hour }

// CacheNamespace separates cached payloads of different engines and locales.
func (c *Config) CacheNamespace() string {
	return strings.Join([]string{c.SerpAPIEngine, c.SerpAPILocation, c.SerpAPIHL, c.SerpAPIGL}, "/")
}

// excludeNothing as EXCLUDED_FEATURES reports every section, echo sections included.
const excludeNothing = "none"

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
