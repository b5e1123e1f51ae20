package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

const (
	defaultDraftSkill = "general"
	defaultDraftAgent = "hephaestus"
	defaultDraftDesc  = "未命名任务"
)

// ExtractJSON returns the JSON payload inside an LLM reply. Fenced blocks
// are preferred; otherwise the outermost array or object is taken.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)

	if i := strings.Index(text, "```"); i >= 0 {
		body := text[i+3:]
		body = strings.TrimPrefix(body, "json")
		if j := strings.Index(body, "```"); j >= 0 {
			return strings.TrimSpace(body[:j]), nil
		}
	}

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return "", fmt.Errorf("%w: no json found", olyerrors.ErrMalformedResponse)
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end < start {
		return "", fmt.Errorf("%w: unterminated json", olyerrors.ErrMalformedResponse)
	}
	return text[start : end+1], nil
}

// subtaskDraft accepts both the short and long description keys models emit.
type subtaskDraft struct {
	Desc           string   `json:"desc"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	AgentType      string   `json:"agent_type"`
	EstimatedTime  *int     `json:"estimated_time"`
}

// ParseSubtasks decodes an LLM decomposition reply and fills defaults.
func ParseSubtasks(reply string, newID func() string) ([]domain.Subtask, error) {
	payload, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var drafts []subtaskDraft
	if strings.HasPrefix(payload, "{") {
		var wrapped struct {
			Subtasks []subtaskDraft `json:"subtasks"`
		}
		if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", olyerrors.ErrMalformedResponse, err)
		}
		drafts = wrapped.Subtasks
	} else if err := json.Unmarshal([]byte(payload), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %w", olyerrors.ErrMalformedResponse, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: empty decomposition", olyerrors.ErrMalformedResponse)
	}

	out := make([]domain.Subtask, 0, len(drafts))
	for _, d := range drafts {
		st := domain.Subtask{
			ID:               newID(),
			Description:      firstNonEmpty(d.Desc, d.Description, defaultDraftDesc),
			RequiredSkills:   d.RequiredSkills,
			AgentType:        firstNonEmpty(d.AgentType, defaultDraftAgent),
			EstimatedMinutes: constants.DefaultEstimatedMinutes,
			Status:           constants.SubtaskStatusPending,
			LLMGenerated:     true,
		}
		if len(st.RequiredSkills) == 0 {
			st.RequiredSkills = []string{defaultDraftSkill}
		}
		if d.EstimatedTime != nil && *d.EstimatedTime > 0 {
			st.EstimatedMinutes = *d.EstimatedTime
		}
		out = append(out, st)
	}
	return out, nil
}

type resultDraft struct {
	Success       *bool    `json:"success"`
	Output        string   `json:"output"`
	ExecutionTime *float64 `json:"execution_time"`
	Artifacts     []string `json:"artifacts"`
	Logs          []string `json:"logs"`
	Confidence    *float64 `json:"confidence"`
}

// ParseExecutionResult decodes an LLM execution reply and fills defaults.
func ParseExecutionResult(reply, agentType, description string) (*domain.ExecutionResult, error) {
	payload, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}
	var d resultDraft
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, fmt.Errorf("%w: %w", olyerrors.ErrMalformedResponse, err)
	}

	res := &domain.ExecutionResult{
		Success:       true,
		Output:        d.Output,
		ExecutionTime: constants.DefaultExecutionMinutes,
		Artifacts:     d.Artifacts,
		Logs:          d.Logs,
		Confidence:    constants.DefaultConfidence,
		Agent:         agentType,
	}
	if d.Success != nil {
		res.Success = *d.Success
	}
	if res.Output == "" {
		res.Output = fmt.Sprintf("[%s] 完成任务：%s", agentType, truncate(description, 50))
	}
	if d.ExecutionTime != nil {
		res.ExecutionTime = *d.ExecutionTime
	}
	if res.Artifacts == nil {
		res.Artifacts = []string{}
	}
	if len(res.Logs) == 0 {
		res.Logs = []string{fmt.Sprintf("执行 %s...", truncate(description, 30))}
	}
	if d.Confidence != nil {
		res.Confidence = *d.Confidence
	}
	return res, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
