package memory

import (
	"context"
	"math"
	"slices"
	"sort"

	"github.com/mrz1836/olympus/internal/domain"
)

// Match is one agent ranked by the capability matcher.
type Match struct {
	Profile *domain.AgentProfile `json:"profile"`
	Score   float64              `json:"score"`
}

// Score returns |required ∩ skills| / |required| over the distinct required
// skills. It is 0 when required is empty.
func Score(required, skills []string) float64 {
	distinct := dedupe(required)
	if len(distinct) == 0 {
		return 0
	}
	hit := 0
	for _, s := range distinct {
		if slices.Contains(skills, s) {
			hit++
		}
	}
	return float64(hit) / float64(len(distinct))
}

func dedupe(in []string) []string {
	return domain.MergeUnique(make([]string, 0, len(in)), in)
}

// MatchAgents scores every registered profile against required, drops
// zero scores and returns the rest highest first. Ties keep registration order.
func (s *Semantic) MatchAgents(ctx context.Context, required []string) ([]Match, error) {
	profiles, err := s.ListAgents(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(profiles))
	for _, p := range profiles {
		score := Score(required, p.Skills)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Profile: p, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// RecomputeRates derives success rate (2 decimals) and average time
// (1 decimal) from the counters. Both are 0 when no task was recorded.
func RecomputeRates(stats *domain.AgentStats) {
	if stats.TotalTasks == 0 {
		stats.SuccessRate = 0
		stats.AvgTime = 0
		return
	}
	total := float64(stats.TotalTasks)
	stats.SuccessRate = Round(float64(stats.SuccessCount)/total, 2)
	stats.AvgTime = Round(stats.TotalTime/total, 1)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
