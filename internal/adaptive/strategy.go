package adaptive

import (
	"fmt"

	"github.com/mrz1836/olympus/internal/constants"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// StrategyParams are the tunable estimates attached to a recovery plan.
type StrategyParams struct {
	SuccessProbability float64 `yaml:"success_probability" mapstructure:"success_probability"`
	EstimatedMinutes   int     `yaml:"estimated_minutes" mapstructure:"estimated_minutes"`
}

// Strategies maps each recovery strategy to its estimates.
type Strategies map[constants.RecoveryStrategy]StrategyParams

// DefaultStrategies returns the built-in estimates.
func DefaultStrategies() Strategies {
	return Strategies{
		constants.StrategyFindAlternativeAgent: {SuccessProbability: 0.8, EstimatedMinutes: 15},
		constants.StrategyDecomposeFurther:     {SuccessProbability: 0.7, EstimatedMinutes: 30},
		constants.StrategyReassignAgent:        {SuccessProbability: 0.75, EstimatedMinutes: 10},
		constants.StrategyHubMediation:         {SuccessProbability: 0.85, EstimatedMinutes: 20},
		constants.StrategyRequestHumanHelp:     {SuccessProbability: 0.95, EstimatedMinutes: 0},
	}
}

// KnownStrategy reports whether name is a recovery strategy.
func KnownStrategy(name string) bool {
	_, ok := DefaultStrategies()[constants.RecoveryStrategy(name)]
	return ok
}

// MergeStrategies overlays overrides, keyed by strategy name, onto the
// defaults. Unknown names and out-of-range values are rejected.
func MergeStrategies(overrides map[string]StrategyParams) (Strategies, error) {
	out := DefaultStrategies()
	for name, p := range overrides {
		if !KnownStrategy(name) {
			return nil, fmt.Errorf("%w: unknown strategy %q", olyerrors.ErrConfigInvalidAdaptive, name)
		}
		if p.SuccessProbability < 0 || p.SuccessProbability > 1 {
			return nil, fmt.Errorf("%w: %s success_probability must be within [0,1]", olyerrors.ErrConfigInvalidAdaptive, name)
		}
		if p.EstimatedMinutes < 0 {
			return nil, fmt.Errorf("%w: %s estimated_minutes must not be negative", olyerrors.ErrConfigInvalidAdaptive, name)
		}
		out[constants.RecoveryStrategy(name)] = p
	}
	return out, nil
}
