// Package config loads the engine configuration: YAML file first, then a
// .env overlay, then process environment variables. API keys never live in
// the YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/beartech/tokenscope/internal/chain"
)

// Environment variable names for secrets.
const (
	EnvGoPlusKey    = "GOPLUS_API_KEY"
	EnvEtherscanKey = "ETHERSCAN_API_KEY"
	EnvRedisURL     = "REDIS_URL"
)

// ProviderTimeouts bound each adapter call before retries.
type ProviderTimeouts struct {
	Security time.Duration `yaml:"security"`
	Market   time.Duration `yaml:"market"`
	Explorer time.Duration `yaml:"explorer"`
	RPC      time.Duration `yaml:"rpc"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	RedisURL   string        `yaml:"redis_url"`
}

// HTTPConfig tunes the shared outbound HTTP client.
type HTTPConfig struct {
	RPS       float64 `yaml:"rps"`
	Burst     int     `yaml:"burst"`
	UserAgent string  `yaml:"user_agent"`
}

// Config is the full engine configuration.
type Config struct {
	Listen         string           `yaml:"listen"`
	LogLevel       string           `yaml:"log_level"`
	GlobalDeadline time.Duration    `yaml:"global_deadline"`
	Retries        int              `yaml:"retries"`
	RetryBackoff   time.Duration    `yaml:"retry_backoff"`
	Timeouts       ProviderTimeouts `yaml:"provider_timeouts"`
	Cache          CacheConfig      `yaml:"cache"`
	HTTP           HTTPConfig       `yaml:"http"`
	Chains         []chain.Chain    `yaml:"chains"`

	SecurityBaseURL string `yaml:"security_base_url"`
	MarketBaseURL   string `yaml:"market_base_url"`

	// Secrets, environment-only.
	GoPlusAPIKey    string `yaml:"-"`
	EtherscanAPIKey string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:         ":8080",
		LogLevel:       "info",
		GlobalDeadline: 30 * time.Second,
		Retries:        2,
		RetryBackoff:   time.Second,
		Timeouts: ProviderTimeouts{
			Security: 8 * time.Second,
			Market:   10 * time.Second,
			Explorer: 12 * time.Second,
			RPC:      10 * time.Second,
		},
		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
		HTTP: HTTPConfig{
			RPS:       5,
			Burst:     10,
			UserAgent: "tokenscope/1.0",
		},
	}
}

// Load reads path (optional), overlays .env, then applies environment
// variables. A missing config file falls back to the defaults; a missing
// .env is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
			log.Debug().Str("path", path).Msg("config file not found, using defaults")
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("no .env overlay loaded")
	}

	cfg.GoPlusAPIKey = os.Getenv(EnvGoPlusKey)
	cfg.EtherscanAPIKey = os.Getenv(EnvEtherscanKey)
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Cache.RedisURL = v
	}

	// The explorer key is per-deployment, not per-chain, so it is stamped
	// onto every chain that did not configure its own.
	for i := range cfg.Chains {
		if cfg.Chains[i].ExplorerAPI.APIKey == "" {
			cfg.Chains[i].ExplorerAPI.APIKey = cfg.EtherscanAPIKey
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Registry builds the chain registry from the configured chains (or the
// built-in defaults), with the explorer key applied.
func (c Config) Registry() *chain.Registry {
	if len(c.Chains) > 0 {
		return chain.NewRegistryFrom(c.Chains)
	}
	reg := chain.NewRegistry()
	chains := reg.All()
	for i := range chains {
		chains[i].ExplorerAPI.APIKey = c.EtherscanAPIKey
	}
	return chain.NewRegistryFrom(chains)
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.GlobalDeadline <= 0 {
		return fmt.Errorf("global_deadline must be positive, got %s", c.GlobalDeadline)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be non-negative, got %d", c.Retries)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry_backoff must be non-negative, got %s", c.RetryBackoff)
	}
	for name, d := range map[string]time.Duration{
		"security": c.Timeouts.Security,
		"market":   c.Timeouts.Market,
		"explorer": c.Timeouts.Explorer,
		"rpc":      c.Timeouts.RPC,
	} {
		if d <= 0 {
			return fmt.Errorf("provider timeout %s must be positive, got %s", name, d)
		}
		if d > c.GlobalDeadline {
			return fmt.Errorf("provider timeout %s (%s) exceeds global deadline (%s)", name, d, c.GlobalDeadline)
		}
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be non-negative, got %s", c.Cache.TTL)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	return nil
}
