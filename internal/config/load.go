package config

import (
	"context"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/olympus/internal/errors"
)

// newViperInstance creates a new Viper instance with the standard Olympus
// environment prefix (OLYMPUS_), key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("OLYMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// layer is one config file merged over the layers before it.
type layer struct {
	name string
	path string
}

// Load reads configuration with precedence env > project > global > defaults.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	global, err := GlobalConfigPath()
	if err != nil {
		global = ""
	}
	return load(ctx, layer{"global", global}, layer{"project", ProjectConfigPath()})
}

// LoadFromPaths loads configuration from specific file paths. Either path
// can be empty or missing to skip that level.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	return load(ctx, layer{"global", globalConfigPath}, layer{"project", projectConfigPath})
}

func load(ctx context.Context, layers ...layer) (*Config, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	v := newViperInstance()

	for _, l := range layers {
		if l.path == "" || !fileExists(l.path) {
			continue
		}
		v.SetConfigFile(l.path)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read %s config: %s", l.name, l.path)
		}
		logger.Debug().Str("layer", l.name).Str("path", l.path).Msg("merged config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	logger.Debug().
		Str("storage.backend", cfg.Storage.Backend).
		Str("llm.provider", cfg.LLM.Provider).
		Dur("llm.timeout", cfg.LLM.Timeout).
		Int("evolution.mining_interval", cfg.Evolution.MiningInterval).
		Msg("configuration loaded")
	return &cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("storage.redis_prefix", d.Storage.RedisPrefix)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key_env_var", d.LLM.APIKeyEnvVar)
	v.SetDefault("llm.timeout", d.LLM.Timeout.String())
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	v.SetDefault("evolution.mining_interval", d.Evolution.MiningInterval)
	v.SetDefault("evolution.min_successes", d.Evolution.MinSuccesses)
	v.SetDefault("evolution.history_limit", d.Evolution.HistoryLimit)
	v.SetDefault("evolution.top_members", d.Evolution.TopMembers)

	v.SetDefault("adaptive.strategies", map[string]any{})

	v.SetDefault("hub.failure_keyword", d.Hub.FailureKeyword)
	v.SetDefault("hub.default_agent_type", d.Hub.DefaultAgentType)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout.String())

	v.SetDefault("roster.file", "")
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
