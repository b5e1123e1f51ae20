package cli

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/adaptive"
	"github.com/mrz1836/olympus/internal/ai"
	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/config"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/eventlog"
	"github.com/mrz1836/olympus/internal/evolution"
	"github.com/mrz1836/olympus/internal/hub"
	"github.com/mrz1836/olympus/internal/logging"
	"github.com/mrz1836/olympus/internal/memory"
	"github.com/mrz1836/olympus/internal/roster"
	"github.com/mrz1836/olympus/internal/store"
)

// app is one fully wired hub with its persistence.
type app struct {
	cfg     *config.Config
	backend store.Backend
	hub     *hub.Hub
	logger  zerolog.Logger
}

// loadConfig reads the layered configuration. An explicit --config file
// takes the place of the global file; the project file still merges on top.
func loadConfig(ctx context.Context, flags *GlobalFlags, logger zerolog.Logger) (*config.Config, error) {
	ctx = logger.WithContext(ctx)
	if flags.ConfigFile == "" {
		return config.Load(ctx)
	}
	return config.LoadFromPaths(ctx, config.ProjectConfigPath(), flags.ConfigFile)
}

// newApp opens storage, seeds the roster and builds the hub with both
// engines attached.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		return nil, err
	}

	backend, err := store.Open(ctx, store.Options{
		Backend:     cfg.Storage.Backend,
		Dir:         filepath.Join(dataDir, constants.MemoryDir),
		SQLitePath:  cfg.Storage.SQLitePath,
		RedisAddr:   cfg.Storage.RedisAddr,
		RedisPrefix: cfg.Storage.RedisPrefix,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open storage")
	}

	a, err := wire(ctx, cfg, dataDir, backend, logger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return a, nil
}

func wire(ctx context.Context, cfg *config.Config, dataDir string, backend store.Backend, logger zerolog.Logger) (*app, error) {
	clk := clock.RealClock{}
	mem := memory.NewSystem(backend, logging.Component(logger, "memory"), clk)

	r, err := roster.Load(cfg.Roster.File)
	if err != nil {
		return nil, err
	}
	if _, err := roster.Seed(ctx, mem.Semantic, r, logging.Component(logger, "roster")); err != nil {
		return nil, errors.Wrap(err, "failed to seed roster")
	}

	collab, err := ai.New(ai.Options{
		Provider:     cfg.LLM.Provider,
		Model:        cfg.LLM.Model,
		APIKeyEnvVar: cfg.LLM.APIKeyEnvVar,
		Timeout:      cfg.LLM.Timeout,
		MaxTokens:    cfg.LLM.MaxTokens,
	}, logging.Component(logger, "ai"))
	if err != nil {
		return nil, err
	}

	strategies, err := adaptive.MergeStrategies(strategyOverrides(cfg.Adaptive))
	if err != nil {
		return nil, err
	}

	events := eventlog.NewTaskLog(filepath.Join(dataDir, constants.LogsDir, constants.TaskLogsDir), clk, logging.Component(logger, "eventlog"))
	evoLog := eventlog.NewEvolutionLog(filepath.Join(dataDir, constants.EvolutionDir, constants.EvolutionLogFileName), logging.Component(logger, "eventlog"))

	adapt := adaptive.New(adaptive.Deps{
		Matcher:    mem.Semantic,
		Working:    mem.Working,
		Decomposer: collab,
		Decisions:  events,
		Clock:      clk,
	}, strategies, logging.Component(logger, "adaptive"))

	evo := evolution.New(mem.Semantic, mem.Episodic, evoLog, clk, evolution.Options{
		HistoryLimit: cfg.Evolution.HistoryLimit,
		MinSuccesses: cfg.Evolution.MinSuccesses,
		TopMembers:   cfg.Evolution.TopMembers,
	}, logging.Component(logger, "evolution"))

	h, err := hub.New(hub.Deps{
		Memory:       mem,
		Collaborator: collab,
		Adaptive:     adapt,
		Evolution:    evo,
		Events:       events,
		Clock:        clk,
	}, hubOptions(cfg), logging.Component(logger, "hub"))
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, backend: backend, hub: h, logger: logger}, nil
}

// hubOptions maps configuration onto the hub. A mining interval of zero
// means disabled in the config file but "use the default" in the hub.
func hubOptions(cfg *config.Config) hub.Options {
	interval := cfg.Evolution.MiningInterval
	if interval == 0 {
		interval = -1
	}
	return hub.Options{
		FailureKeyword:   cfg.Hub.FailureKeyword,
		DefaultAgentType: cfg.Hub.DefaultAgentType,
		MiningInterval:   interval,
	}
}

func strategyOverrides(cfg config.AdaptiveConfig) map[string]adaptive.StrategyParams {
	out := make(map[string]adaptive.StrategyParams, len(cfg.Strategies))
	for name, s := range cfg.Strategies {
		out[name] = adaptive.StrategyParams{
			SuccessProbability: s.SuccessProbability,
			EstimatedMinutes:   s.EstimatedMinutes,
		}
	}
	return out
}

// Close releases the storage backend.
func (a *app) Close() error {
	return a.backend.Close()
}

// withApp loads configuration, builds the app, runs fn and closes the app.
func withApp(ctx context.Context, flags *GlobalFlags, fn func(context.Context, *app) error) error {
	logger := GetLogger()
	cfg, err := loadConfig(ctx, flags, logger)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close storage")
		}
	}()
	return fn(ctx, a)
}
