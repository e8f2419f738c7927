package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/arkswap/internal/types/environments"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SWAP_API_URL", "http://swap.local")
	t.Setenv("SWAP_API_TIMEOUT_SECONDS", "")
	t.Setenv("DB_DRIVER", "")

	cfg := New()

	assert.Equal(t, environments.Test, cfg.Environment)
	assert.Equal(t, "http://swap.local", cfg.SwapAPI.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.SwapAPI.Timeout)
	assert.Equal(t, 3, cfg.SwapAPI.MaxRetries)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "@every 2m", cfg.Jobs.SyncPeriod)
	assert.Equal(t, "@every 30s", cfg.Jobs.RefreshPeriod)
	assert.Equal(t, 300*time.Second, cfg.Funding.WaitTimeout)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("SWAP_API_TIMEOUT_SECONDS", "5")
	t.Setenv("FUNDING_WAIT_TIMEOUT_SECONDS", "30")
	t.Setenv("BTC_NETWORK", "signet")

	cfg := New()

	assert.Equal(t, environments.Production, cfg.Environment)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.SwapAPI.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Funding.WaitTimeout)
	assert.Equal(t, "signet", cfg.Bitcoin.Network)
}

func TestEnvVarAtoiOrDefault_PanicsOnGarbage(t *testing.T) {
	t.Setenv("SWAP_API_MAX_RETRIES", "three")

	assert.Panics(t, func() {
		envVarAtoiOrDefault("SWAP_API_MAX_RETRIES", 3)
	})
}
