package evolution

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
)

// CommunicationRuleID is the rule written when exceptions point at
// communication problems.
const CommunicationRuleID = "communication_enhancement"

const (
	exceptionPrefix  = "异常"
	errorKeyword     = "错误"
	communicationKey = "沟通"
)

func communicationRule() *domain.Rule {
	return &domain.Rule{
		ID:          CommunicationRuleID,
		Name:        "沟通增强规则",
		Description: "加强 Agent 间沟通，减少信息不对称",
		Directives: []string{
			"1. 任务开始前明确期望输出",
			"2. 执行中每 30 分钟同步进度",
			"3. 遇到障碍立即上报，不超过 10 分钟",
			"4. 任务完成后提交详细报告",
		},
	}
}

// isException reports whether a message signals an exception or error.
func isException(msg domain.Message) bool {
	return strings.HasPrefix(msg.Content, exceptionPrefix) || strings.Contains(msg.Content, errorKeyword)
}

// mentionsCommunication checks the content and metadata of a message.
func mentionsCommunication(msg domain.Message) bool {
	if strings.Contains(msg.Content, communicationKey) {
		return true
	}
	for _, v := range msg.Metadata {
		if strings.Contains(fmt.Sprint(v), communicationKey) {
			return true
		}
	}
	return false
}

// OptimizeRules scans archived message logs for exceptions. When any of them
// concern communication the communication_enhancement rule is saved.
func (e *Engine) OptimizeRules(ctx context.Context) ([]*domain.Rule, error) {
	records, err := e.episodic.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodic records: %w", err)
	}

	exceptions, communication := 0, 0
	for _, rec := range records {
		for _, msg := range rec.Messages {
			if !isException(msg) {
				continue
			}
			exceptions++
			if mentionsCommunication(msg) {
				communication++
			}
		}
	}

	updates := make([]*domain.Rule, 0, 1)
	if communication > 0 {
		r := communicationRule()
		if err := e.semantic.SaveRule(ctx, r); err != nil {
			return nil, err
		}
		updates = append(updates, r)
		e.logger.Info().Str("rule_id", r.ID).Msg("rule added")
	}

	if exceptions == 0 {
		e.logger.Info().Msg("no exceptions found, rules unchanged")
	} else {
		e.logger.Info().
			Int("exceptions", exceptions).
			Int("communication_related", communication).
			Int("rules_added", len(updates)).
			Msg("rule optimization finished")
	}

	e.record(ctx, domain.EvolutionEntry{
		Timestamp: e.clk.Now(),
		Event:     constants.EvolutionRuleOptimization,
		Details: map[string]any{
			"exceptions_analyzed": exceptions,
			"rules_added":         len(updates),
		},
	})
	return updates, nil
}
