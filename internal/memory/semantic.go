package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/store"
)

// Semantic is the durable knowledge base: agent profiles, task patterns
// and collaboration rules, each in its own namespace.
type Semantic struct {
	agents   *store.Namespace
	patterns *store.Namespace
	rules    *store.Namespace
	clock    clock.Clock
	logger   zerolog.Logger

	locksMu    sync.Mutex
	agentLocks map[string]*sync.Mutex
}

// NewSemantic binds semantic memory to backend.
func NewSemantic(backend store.Backend, logger zerolog.Logger, clk clock.Clock) *Semantic {
	return &Semantic{
		agents:     store.NewNamespace(backend, constants.NamespaceAgents),
		patterns:   store.NewNamespace(backend, constants.NamespacePatterns),
		rules:      store.NewNamespace(backend, constants.NamespaceRules),
		clock:      clk,
		logger:     logger,
		agentLocks: make(map[string]*sync.Mutex),
	}
}

// agentLock returns the writer lock for one agent id.
func (s *Semantic) agentLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.agentLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.agentLocks[id] = l
	}
	return l
}

// RegisterAgent upserts the profile under id and stamps its update time.
func (s *Semantic) RegisterAgent(ctx context.Context, id string, profile domain.AgentProfile) error {
	l := s.agentLock(id)
	l.Lock()
	defer l.Unlock()
	return s.writeAgent(ctx, id, &profile)
}

func (s *Semantic) writeAgent(ctx context.Context, id string, profile *domain.AgentProfile) error {
	profile.ID = id
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("failed to register agent: %w", err)
	}

	now := s.clock.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := s.agents.Save(ctx, id, profile); err != nil {
		return fmt.Errorf("failed to save agent %s: %w", id, err)
	}
	return nil
}

// GetAgentProfile loads one profile. A missing profile is ErrAgentNotFound.
func (s *Semantic) GetAgentProfile(ctx context.Context, id string) (*domain.AgentProfile, error) {
	var p domain.AgentProfile
	if err := s.agents.Load(ctx, id, &p); err != nil {
		if errors.Is(err, olyerrors.ErrRecordNotFound) {
			return nil, fmt.Errorf("agent %s: %w", id, olyerrors.ErrAgentNotFound)
		}
		return nil, err
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateAgent runs a read-modify-write on one profile while holding that
// agent's writer lock, so concurrent deliveries never lose counter updates.
func (s *Semantic) UpdateAgent(ctx context.Context, id string, fn func(*domain.AgentProfile) error) (*domain.AgentProfile, error) {
	l := s.agentLock(id)
	l.Lock()
	defer l.Unlock()

	p, err := s.GetAgentProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.writeAgent(ctx, id, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateAgentStats records one task outcome in the profile counters.
func (s *Semantic) UpdateAgentStats(ctx context.Context, id string, success bool, minutes float64) (*domain.AgentProfile, error) {
	return s.UpdateAgent(ctx, id, func(p *domain.AgentProfile) error {
		p.Stats.TotalTasks++
		if success {
			p.Stats.SuccessCount++
		}
		p.Stats.TotalTime += minutes
		RecomputeRates(&p.Stats)
		return nil
	})
}

// ListAgents returns every readable profile in registration order.
// Corrupt or invalid profiles are skipped with a warning.
func (s *Semantic) ListAgents(ctx context.Context) ([]*domain.AgentProfile, error) {
	ids, err := s.agents.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	out := make([]*domain.AgentProfile, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetAgentProfile(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.warnSkip(constants.NamespaceAgents, id, err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// SavePattern upserts a pattern under its id.
func (s *Semantic) SavePattern(ctx context.Context, p *domain.Pattern) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("failed to save pattern: id %w", olyerrors.ErrEmptyValue)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock.Now()
	}
	if err := s.patterns.Save(ctx, p.ID, p); err != nil {
		return fmt.Errorf("failed to save pattern %s: %w", p.ID, err)
	}
	return nil
}

// GetPattern loads one pattern. A missing pattern is ErrPatternNotFound.
func (s *Semantic) GetPattern(ctx context.Context, id string) (*domain.Pattern, error) {
	var p domain.Pattern
	if err := s.patterns.Load(ctx, id, &p); err != nil {
		if errors.Is(err, olyerrors.ErrRecordNotFound) {
			return nil, fmt.Errorf("pattern %s: %w", id, olyerrors.ErrPatternNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// ListPatterns returns every readable pattern in index order.
func (s *Semantic) ListPatterns(ctx context.Context) ([]*domain.Pattern, error) {
	ids, err := s.patterns.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	out := make([]*domain.Pattern, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetPattern(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.warnSkip(constants.NamespacePatterns, id, err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// MatchPattern returns at most one pattern for description: the first
// stored pattern whose category equals the description's category.
func (s *Semantic) MatchPattern(ctx context.Context, description string) (*domain.Pattern, bool, error) {
	patterns, err := s.ListPatterns(ctx)
	if err != nil {
		return nil, false, err
	}
	want := Categorize(description)
	for _, p := range patterns {
		if p.Category == want {
			return p, true, nil
		}
	}
	return nil, false, nil
}

// SaveRule upserts a rule under its id.
func (s *Semantic) SaveRule(ctx context.Context, r *domain.Rule) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("failed to save rule: id %w", olyerrors.ErrEmptyValue)
	}
	now := s.clock.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if err := s.rules.Save(ctx, r.ID, r); err != nil {
		return fmt.Errorf("failed to save rule %s: %w", r.ID, err)
	}
	return nil
}

// GetRule loads one rule. A missing rule is ErrRuleNotFound.
func (s *Semantic) GetRule(ctx context.Context, id string) (*domain.Rule, error) {
	var r domain.Rule
	if err := s.rules.Load(ctx, id, &r); err != nil {
		if errors.Is(err, olyerrors.ErrRecordNotFound) {
			return nil, fmt.Errorf("rule %s: %w", id, olyerrors.ErrRuleNotFound)
		}
		return nil, err
	}
	return &r, nil
}

// GetAllRules returns every readable rule in index order.
func (s *Semantic) GetAllRules(ctx context.Context) ([]*domain.Rule, error) {
	ids, err := s.rules.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	out := make([]*domain.Rule, 0, len(ids))
	for _, id := range ids {
		r, err := s.GetRule(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.warnSkip(constants.NamespaceRules, id, err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Semantic) warnSkip(namespace, key string, err error) {
	s.logger.Warn().Err(err).
		Str("namespace", namespace).
		Str("key", key).
		Msg("skipping unreadable record")
}
