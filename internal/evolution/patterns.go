package evolution

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	"github.com/mrz1836/olympus/internal/memory"
)

// PatternIDPrefix prefixes every mined pattern id.
const PatternIDPrefix = "auto_"

//nolint:gochecknoglobals // fixed advice attached to every mined pattern
var bestPractices = []string{
	"任务执行前明确目标和成功标准",
	"定期同步进度，及时沟通障碍",
	"完成后进行复盘，记录经验教训",
}

type cluster struct {
	category string
	records  []*domain.EpisodicRecord
}

// DiscoverPatterns mines successful episodic records. With fewer than
// minSuccesses successes it does nothing. Otherwise every keyword cluster of
// at least minSuccesses records becomes one pattern saved as auto_<category>.
// A minSuccesses of zero or less uses the configured threshold.
func (e *Engine) DiscoverPatterns(ctx context.Context, minSuccesses int) ([]*domain.Pattern, error) {
	if minSuccesses <= 0 {
		minSuccesses = e.opts.MinSuccesses
	}

	records, err := e.episodic.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodic records: %w", err)
	}

	successful := make([]*domain.EpisodicRecord, 0, len(records))
	for _, rec := range records {
		if rec.Succeeded() {
			successful = append(successful, rec)
		}
	}

	if len(successful) < minSuccesses {
		e.logger.Info().
			Int("successful_tasks", len(successful)).
			Int("min_successes", minSuccesses).
			Msg("not enough successful tasks, skipping pattern discovery")
		return []*domain.Pattern{}, nil
	}

	found := make([]*domain.Pattern, 0)
	for _, c := range clusterByCategory(successful) {
		if len(c.records) < minSuccesses {
			continue
		}
		p := e.extractPattern(c)
		if p == nil {
			continue
		}
		if err := e.semantic.SavePattern(ctx, p); err != nil {
			return found, err
		}
		found = append(found, p)
		e.logger.Info().
			Str("pattern_id", p.ID).
			Int("sample_size", p.SampleSize).
			Msg("pattern discovered")
	}

	names := make([]string, 0, len(found))
	for _, p := range found {
		names = append(names, p.Name)
	}
	e.record(ctx, domain.EvolutionEntry{
		Timestamp: e.clk.Now(),
		Event:     constants.EvolutionPatternDiscovery,
		Details: map[string]any{
			"total_tasks":    len(successful),
			"patterns_found": len(found),
			"patterns":       names,
		},
	})
	return found, nil
}

// clusterByCategory buckets records by description category, keeping the
// order in which categories first appear.
func clusterByCategory(records []*domain.EpisodicRecord) []*cluster {
	var out []*cluster
	index := make(map[string]*cluster)
	for _, rec := range records {
		cat := memory.Categorize(rec.Description())
		c, ok := index[cat]
		if !ok {
			c = &cluster{category: cat}
			index[cat] = c
			out = append(out, c)
		}
		c.records = append(c.records, rec)
	}
	return out
}

func (e *Engine) extractPattern(c *cluster) *domain.Pattern {
	var template []domain.Subtask
	for _, rec := range c.records {
		subtasks, err := memory.DecodeSubtasks(rec)
		if err != nil {
			e.logger.Warn().Err(err).
				Str("namespace", constants.NamespaceEpisodic).
				Str("key", rec.TaskID).
				Msg("skipping undecodable subtasks")
			continue
		}
		if len(subtasks) > 0 {
			template = subtasks
			break
		}
	}
	if len(template) == 0 {
		return nil
	}

	total := 0
	for i := range template {
		st := &template[i]
		if st.EstimatedMinutes <= 0 {
			st.EstimatedMinutes = constants.DefaultEstimatedMinutes
		}
		total += st.EstimatedMinutes
		st.Status = constants.SubtaskStatusPending
		st.Result = nil
		st.Error = ""
		st.Recovery = nil
	}

	n := len(c.records)
	return &domain.Pattern{
		ID:          PatternIDPrefix + c.category,
		Name:        patternName(c.category),
		Description: fmt.Sprintf("从 %d 个成功任务中提取的通用模式", n),
		Category:    c.category,
		Subtasks:    template,
		RecommendedClaw: domain.RecommendedClaw{
			Members:   e.topMembers(c.records),
			Rationale: fmt.Sprintf("基于 %d 次成功协作历史", n),
		},
		BestPractices:      append([]string(nil), bestPractices...),
		EstimatedTotalTime: total,
		SuccessRate:        1.0,
		SampleSize:         n,
	}
}

// topMembers returns the most frequent team members across records. Ties
// keep first-seen order.
func (e *Engine) topMembers(records []*domain.EpisodicRecord) []string {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		team, err := memory.DecodeTeam(rec)
		if err != nil {
			e.logger.Warn().Err(err).
				Str("namespace", constants.NamespaceEpisodic).
				Str("key", rec.TaskID).
				Msg("skipping undecodable team")
			continue
		}
		if team == nil {
			continue
		}
		for _, id := range team.MemberIDs() {
			if _, seen := counts[id]; !seen {
				order = append(order, id)
			}
			counts[id]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > e.opts.TopMembers {
		order = order[:e.opts.TopMembers]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

// patternName turns a category such as social_media into "Social Media Pattern".
func patternName(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "_", " ")) + " Pattern"
}
