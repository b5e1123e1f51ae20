package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/olympus/internal/constants"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, Validate(nil), olyerrors.ErrConfigNil)
}

func TestValidate_DefaultConfig(t *testing.T) {
	t.Parallel()
	require.NoError(t, Validate(DefaultConfig()))
}

func TestDefaultConfig_Values(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	assert.Equal(t, constants.DefaultRedisPrefix, cfg.Storage.RedisPrefix)
	assert.Equal(t, constants.DefaultMaxTokens, cfg.LLM.MaxTokens)
	assert.Equal(t, constants.DefaultHistoryLimit, cfg.Evolution.HistoryLimit)
	assert.Equal(t, constants.DefaultTopMembers, cfg.Evolution.TopMembers)
	assert.Equal(t, constants.DefaultAgentType, cfg.Hub.DefaultAgentType)
	assert.Equal(t, constants.DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Adaptive.Strategies)
}

func TestValidate_Rules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"sqlite backend", func(c *Config) { c.Storage.Backend = BackendSQLite }, nil},
		{"redis with addr", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.RedisAddr = "localhost:6379"
		}, nil},
		{"mining disabled", func(c *Config) { c.Evolution.MiningInterval = 0 }, nil},
		{"empty backend", func(c *Config) { c.Storage.Backend = "" }, olyerrors.ErrConfigInvalidStorage},
		{"zero llm timeout", func(c *Config) { c.LLM.Timeout = 0 }, olyerrors.ErrConfigInvalidLLM},
		{"zero max tokens", func(c *Config) { c.LLM.MaxTokens = 0 }, olyerrors.ErrConfigInvalidLLM},
		{"zero min successes", func(c *Config) { c.Evolution.MinSuccesses = 0 }, olyerrors.ErrConfigInvalidEvolution},
		{"history too long", func(c *Config) { c.Evolution.HistoryLimit = maxHistoryLimit + 1 }, olyerrors.ErrConfigInvalidEvolution},
		{"zero top members", func(c *Config) { c.Evolution.TopMembers = 0 }, olyerrors.ErrConfigInvalidEvolution},
		{"probability above one", func(c *Config) {
			c.Adaptive.Strategies = map[string]StrategyConfig{"hub_mediation": {SuccessProbability: 1.5}}
		}, olyerrors.ErrConfigInvalidAdaptive},
		{"negative minutes", func(c *Config) {
			c.Adaptive.Strategies = map[string]StrategyConfig{"reassign_agent": {SuccessProbability: 0.5, EstimatedMinutes: -1}}
		}, olyerrors.ErrConfigInvalidAdaptive},
		{"empty agent type", func(c *Config) { c.Hub.DefaultAgentType = "" }, olyerrors.ErrConfigInvalidHub},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, olyerrors.ErrConfigInvalidServer},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, olyerrors.ErrConfigInvalidServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}
