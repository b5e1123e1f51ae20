// Package adaptive classifies subtask failures and turns them into
// recovery plans.
package adaptive

import (
	"strings"

	"github.com/mrz1836/olympus/internal/constants"
)

// classificationRule maps any of its lowercase keywords to a failure type.
type classificationRule struct {
	keywords []string
	failure  constants.FailureType
}

// classificationRules are evaluated in order; the first hit wins.
//
//nolint:gochecknoglobals // static classification table
var classificationRules = []classificationRule{
	{[]string{"unavailable", "not found"}, constants.FailureAgentUnavailable},
	{[]string{"too complex", "timeout"}, constants.FailureTaskTooComplex},
	{[]string{"skill", "cannot"}, constants.FailureSkillMismatch},
	{[]string{"conflict", "disagree"}, constants.FailureConflict},
}

// Classify returns the failure type for an error text.
func Classify(errText string) constants.FailureType {
	lower := strings.ToLower(errText)
	for _, r := range classificationRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.failure
			}
		}
	}
	return constants.FailureUnknown
}

// StrategyFor returns the recovery strategy assigned to a failure type.
func StrategyFor(f constants.FailureType) constants.RecoveryStrategy {
	switch f {
	case constants.FailureAgentUnavailable:
		return constants.StrategyFindAlternativeAgent
	case constants.FailureTaskTooComplex:
		return constants.StrategyDecomposeFurther
	case constants.FailureSkillMismatch:
		return constants.StrategyReassignAgent
	case constants.FailureConflict:
		return constants.StrategyHubMediation
	case constants.FailureUnknown:
		return constants.StrategyRequestHumanHelp
	}
	return constants.StrategyRequestHumanHelp
}
