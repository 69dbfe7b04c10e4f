package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beartech/tokenscope/internal/chain"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.GlobalDeadline)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, 8*time.Second, cfg.Timeouts.Security)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9999"
global_deadline: 45s
retries: 1
provider_timeouts:
  security: 5s
  market: 5s
  explorer: 5s
  rpc: 5s
cache:
  ttl: 10m
  max_entries: 50
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, 45*time.Second, cfg.GlobalDeadline)
	assert.Equal(t, 1, cfg.Retries)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Market)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
}

func TestLoadEnvSecrets(t *testing.T) {
	t.Setenv(EnvGoPlusKey, "gp-key")
	t.Setenv(EnvEtherscanKey, "es-key")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gp-key", cfg.GoPlusAPIKey)
	assert.Equal(t, "es-key", cfg.EtherscanAPIKey)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)

	reg := cfg.Registry()
	for _, ch := range reg.All() {
		assert.Equal(t, "es-key", ch.ExplorerAPI.APIKey, "chain %s", ch.Key)
	}
}

func TestLoadStampsExplorerKeyOnConfiguredChains(t *testing.T) {
	t.Setenv(EnvEtherscanKey, "stamped")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chains:
  - key: ethereum
    name: Ethereum
    id: 1
    explorer_api:
      name: Etherscan
      base_url: https://api.etherscan.io/api
  - key: base
    name: Base
    id: 8453
    explorer_api:
      name: Etherscan Multichain
      base_url: https://api.etherscan.io/v2/api
      api_key: own-key
      multichain: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Chains, 2)
	assert.Equal(t, "stamped", cfg.Chains[0].ExplorerAPI.APIKey)
	assert.Equal(t, "own-key", cfg.Chains[1].ExplorerAPI.APIKey, "explicit key kept")

	reg := cfg.Registry()
	ch, err := reg.ByKey(chain.KeyBase)
	require.NoError(t, err)
	assert.True(t, ch.ExplorerAPI.Multichain)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero deadline", func(c *Config) { c.GlobalDeadline = 0 }},
		{"negative retries", func(c *Config) { c.Retries = -1 }},
		{"zero provider timeout", func(c *Config) { c.Timeouts.RPC = 0 }},
		{"timeout beyond deadline", func(c *Config) { c.Timeouts.Explorer = time.Minute }},
		{"zero cache size", func(c *Config) { c.Cache.MaxEntries = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
