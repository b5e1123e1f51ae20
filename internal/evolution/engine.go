// Package evolution updates agent profiles after each task and mines the
// episodic archive for reusable patterns and rule changes.
package evolution

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/memory"
)

// Recorder is the evolution log sink.
type Recorder interface {
	Append(ctx context.Context, entry domain.EvolutionEntry) error
	History(ctx context.Context, limit int) ([]domain.EvolutionEntry, error)
}

// Options tunes the engine. Zero values take the package defaults.
type Options struct {
	HistoryLimit int
	MinSuccesses int
	TopMembers   int
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = constants.DefaultHistoryLimit
	}
	if o.MinSuccesses <= 0 {
		o.MinSuccesses = constants.DefaultMinSuccesses
	}
	if o.TopMembers <= 0 {
		o.TopMembers = constants.DefaultTopMembers
	}
	return o
}

// Engine drives individual and population evolution.
type Engine struct {
	semantic *memory.Semantic
	episodic *memory.Episodic
	log      Recorder
	clk      clock.Clock
	opts     Options
	logger   zerolog.Logger
}

// New creates an Engine.
func New(semantic *memory.Semantic, episodic *memory.Episodic, log Recorder, clk clock.Clock, opts Options, logger zerolog.Logger) *Engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Engine{
		semantic: semantic,
		episodic: episodic,
		log:      log,
		clk:      clk,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// MinSuccesses returns the configured mining threshold.
func (e *Engine) MinSuccesses() int {
	return e.opts.MinSuccesses
}

// EvolveAgent folds one task outcome into the agent's profile. An unknown
// agent is skipped with a warning and yields a nil profile.
func (e *Engine) EvolveAgent(ctx context.Context, agentID string, result domain.TaskResult) (*domain.AgentProfile, error) {
	now := e.clk.Now()
	var added []string

	profile, err := e.semantic.UpdateAgent(ctx, agentID, func(p *domain.AgentProfile) error {
		p.Stats.TotalTasks++
		if result.Success {
			p.Stats.SuccessCount++
		}
		if result.ExecutionTime > 0 {
			p.Stats.TotalTime += result.ExecutionTime
		}

		p.History = append(p.History, domain.HistoryEntry{
			TaskID:        result.TaskID,
			Success:       result.Success,
			ExecutionTime: result.ExecutionTime,
			Timestamp:     now,
		})
		if over := len(p.History) - e.opts.HistoryLimit; over > 0 {
			p.History = append([]domain.HistoryEntry(nil), p.History[over:]...)
		}

		memory.RecomputeRates(&p.Stats)

		before := len(p.Skills)
		p.Skills = domain.MergeUnique(p.Skills, result.NewSkills)
		added = append(added, p.Skills[before:]...)

		partners := make([]string, 0, len(result.Collaborators))
		for _, c := range result.Collaborators {
			if c != p.ID {
				partners = append(partners, c)
			}
		}
		p.PreferredPartners = domain.MergeUnique(p.PreferredPartners, partners)
		return nil
	})
	if errors.Is(err, olyerrors.ErrAgentNotFound) {
		e.logger.Warn().Str("agent_id", agentID).Msg("agent not registered, skipping evolution")
		return nil, nil //nolint:nilnil // unknown agents are skipped, not failed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to evolve agent %s: %w", agentID, err)
	}

	for _, s := range added {
		e.logger.Info().Str("agent_id", agentID).Str("skill", s).Msg("new skill acquired")
	}

	e.record(ctx, domain.EvolutionEntry{
		Timestamp: now,
		Event:     constants.EvolutionAgent,
		AgentID:   agentID,
		Details: map[string]any{
			"task_id":      result.TaskID,
			"success_rate": profile.Stats.SuccessRate,
			"avg_time":     profile.Stats.AvgTime,
			"total_tasks":  profile.Stats.TotalTasks,
			"new_skills":   added,
		},
	})

	e.logger.Debug().
		Str("agent_id", agentID).
		Float64("success_rate", profile.Stats.SuccessRate).
		Float64("avg_time", profile.Stats.AvgTime).
		Msg("agent evolved")
	return profile, nil
}

// History returns the newest limit evolution log entries.
func (e *Engine) History(ctx context.Context, limit int) ([]domain.EvolutionEntry, error) {
	if e.log == nil {
		return []domain.EvolutionEntry{}, nil
	}
	return e.log.History(ctx, limit)
}

// record appends to the evolution log. Log failures are reported, not
// returned: the profile or pattern is already persisted.
func (e *Engine) record(ctx context.Context, entry domain.EvolutionEntry) {
	if e.log == nil {
		return
	}
	if err := e.log.Append(ctx, entry); err != nil {
		e.logger.Error().Err(err).Str("event", string(entry.Event)).Msg("failed to append evolution log")
	}
}
