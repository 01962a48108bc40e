package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quipbridge "github.com/opengovern/quip-bridge"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://platform.quip.com:443/1", cfg.BaseURL)
	assert.Equal(t, time.Second, cfg.Retry.BaseWait)
	assert.Equal(t, 10, cfg.Retry.RateLimit)
	assert.Equal(t, 10, cfg.Retry.Unavailable)
	assert.Equal(t, 1024, cfg.Retry.CounterCapacity)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Rate.RespectQuota)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quip:
  token: from-file
  baseurl: https://quip.example.com/1
  retry:
    basewait: 250ms
    ratelimit: 3
  rate:
    rps: 5
    burst: 2
  log:
    level: debug
`), 0o600))

	t.Setenv("QUIP_TOKEN", "from-env")
	t.Setenv("QUIP_RETRY_UNAVAILABLE", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, "https://quip.example.com/1", cfg.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseWait)
	assert.Equal(t, 3, cfg.Retry.RateLimit)
	assert.Equal(t, 4, cfg.Retry.Unavailable)
	assert.Equal(t, 5.0, cfg.Rate.RPS)
	assert.Equal(t, 2, cfg.Rate.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsAllProblems(t *testing.T) {
	err := Validate(&Config{
		BaseURL: "ftp://quip",
		Retry:   RetryConfig{BaseWait: 0, RateLimit: 0, Unavailable: 1, CounterCapacity: 1},
		Rate:    RateConfig{RPS: -1, Burst: 1},
	})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "baseurl")
	assert.Contains(t, msg, "retry.basewait")
	assert.Contains(t, msg, "retry.ratelimit")
	assert.Contains(t, msg, "rate.rps")
	assert.NotContains(t, msg, "retry.unavailable")
}

func TestProviderConfig(t *testing.T) {
	cfg := &Config{
		Retry: RetryConfig{BaseWait: 2 * time.Second, RateLimit: 5, Unavailable: 6, CounterCapacity: 64},
		Rate:  RateConfig{RespectQuota: true},
	}
	assert.Equal(t, quipbridge.ProviderConfig{
		UseProviderLimits:            true,
		MaxServiceUnavailableRetries: 6,
		MaxRateLimitRetries:          5,
		BaseWait:                     2 * time.Second,
		CounterCapacity:              64,
	}, cfg.ProviderConfig())
}
