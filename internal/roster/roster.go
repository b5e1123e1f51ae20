// Package roster supplies the static agent roster and default collaboration
// rules that seed semantic memory at startup.
package roster

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/memory"
)

//go:embed roster.yaml
var defaultRoster []byte

// Roster is the decoded roster document.
type Roster struct {
	Agents []domain.AgentProfile `yaml:"agents"`
	Rules  []domain.Rule         `yaml:"rules"`
}

// Parse decodes a roster document and checks every entry has an id.
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	seen := make(map[string]struct{}, len(r.Agents))
	for i, a := range r.Agents {
		if a.ID == "" {
			return nil, fmt.Errorf("roster agent #%d: id %w", i, olyerrors.ErrEmptyValue)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("roster agent %s: duplicate id: %w", a.ID, olyerrors.ErrInvalidKey)
		}
		seen[a.ID] = struct{}{}
	}
	for i, rule := range r.Rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("roster rule #%d: id %w", i, olyerrors.ErrEmptyValue)
		}
	}
	return &r, nil
}

// Default returns the embedded roster.
func Default() (*Roster, error) {
	return Parse(defaultRoster)
}

// Load returns the roster at path, or the embedded one when path is empty.
func Load(path string) (*Roster, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	return Parse(data)
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	AgentsRegistered int
	RulesSaved       int
}

// Seed registers roster agents and rules that are not stored yet. Existing
// profiles are left alone so evolved stats are never reset.
func Seed(ctx context.Context, sem *memory.Semantic, r *Roster, logger zerolog.Logger) (SeedResult, error) {
	var res SeedResult

	for _, a := range r.Agents {
		_, err := sem.GetAgentProfile(ctx, a.ID)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, olyerrors.ErrAgentNotFound):
			logger.Warn().Err(err).Str("agent_id", a.ID).Msg("stored profile unreadable, re-registering from roster")
		}
		if err := sem.RegisterAgent(ctx, a.ID, a); err != nil {
			return res, fmt.Errorf("failed to seed agent %s: %w", a.ID, err)
		}
		res.AgentsRegistered++
	}

	for _, rule := range r.Rules {
		_, err := sem.GetRule(ctx, rule.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, olyerrors.ErrRuleNotFound) {
			logger.Warn().Err(err).Str("rule_id", rule.ID).Msg("stored rule unreadable, re-saving from roster")
		}
		if err := sem.SaveRule(ctx, &rule); err != nil {
			return res, fmt.Errorf("failed to seed rule %s: %w", rule.ID, err)
		}
		res.RulesSaved++
	}

	logger.Info().
		Int("agents_registered", res.AgentsRegistered).
		Int("rules_saved", res.RulesSaved).
		Msg("roster seeded")
	return res, nil
}
