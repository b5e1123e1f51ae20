package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	"github.com/mrz1836/olympus/internal/hub"
	"github.com/mrz1836/olympus/internal/tui"
)

//nolint:gochecknoglobals // display order
var taskStatusOrder = []constants.TaskStatus{
	constants.TaskStatusReceived,
	constants.TaskStatusParsed,
	constants.TaskStatusReady,
	constants.TaskStatusExecuting,
	constants.TaskStatusCompleted,
	constants.TaskStatusDelivered,
}

// render writes v as JSON when the output is machine-readable and calls
// text otherwise.
func render(out tui.Output, format string, v any, text func()) error {
	if format == tui.FormatJSON {
		return out.JSON(v)
	}
	text()
	return nil
}

func renderTeam(out tui.Output, team *domain.Team) {
	if team == nil {
		return
	}
	out.Info(fmt.Sprintf("Claw %s (lead %s, %s)", team.ID, team.Lead, team.Status))
	tbl := out.Table([]tui.TableColumn{
		{Name: "AGENT", Width: 20},
		{Name: "NAME", Width: 14},
		{Name: "ROLE", Width: 20},
		{Name: "SCORE", Width: 5, Align: tui.AlignRight},
	})
	tbl.WriteHeader()
	for _, m := range team.Members {
		tbl.WriteRow(m.AgentID, m.Name, m.Role, strconv.FormatFloat(m.MatchScore, 'f', 2, 64))
	}
}

func renderSubtasks(out tui.Output, subtasks []*domain.Subtask) {
	tbl := out.Table([]tui.TableColumn{
		{Name: "", Width: 1},
		{Name: "ID", Width: 8},
		{Name: "DESCRIPTION", Width: 32},
		{Name: "AGENT", Width: 16},
		{Name: "SKILLS", Width: 30},
	})
	tbl.WriteHeader()
	for _, st := range subtasks {
		tbl.WriteStyledRow([]string{
			tui.SubtaskStatusIcon(st.Status),
			st.ID,
			st.Description,
			st.AgentType,
			strings.Join(st.RequiredSkills, ","),
		}, 0, tui.SubtaskStatusColor(st.Status))
	}
	for _, st := range subtasks {
		if st.Recovery != nil {
			out.Warning(fmt.Sprintf("%s failed: %s; recovery %s (p=%.2f)", st.ID, st.Error, st.Recovery.Strategy, st.Recovery.SuccessProbability))
		}
	}
}

func renderTask(out tui.Output, task *domain.Task, team *domain.Team) {
	out.Info(fmt.Sprintf("%s Task %s [%s, %s]", tui.TaskStatusIcon(task.Status), task.ID, task.Status, task.Priority))
	out.Info(task.Description)
	if task.PatternID != "" {
		out.Info("pattern: " + task.PatternID)
	}
	renderTeam(out, team)
	if len(task.Subtasks) > 0 {
		renderSubtasks(out, task.Subtasks)
	}
	if task.FinalResult != "" {
		out.Info(task.FinalResult)
	}
}

func renderRun(out tui.Output, res *hub.RunResult) {
	renderTask(out, res.Task, res.Claw.Team)
	switch {
	case res.Claw.Error != "":
		out.Warning(fmt.Sprintf("no agent matches skills %s", strings.Join(res.Claw.RequiredSkills, ",")))
	case res.Task.Success:
		out.Success("task delivered")
	default:
		out.Warning("task delivered with failure feedback")
	}
}

func renderHubStatus(out tui.Output, st domain.HubStatus) {
	out.Info(fmt.Sprintf("active tasks %d, active claws %d, delivered %d", st.ActiveTasks, st.ActiveClaws, st.DeliveredTotal))
	tbl := out.Table([]tui.TableColumn{
		{Name: "STATUS", Width: 12},
		{Name: "TASKS", Width: 60},
	})
	tbl.WriteHeader()
	for _, status := range taskStatusOrder {
		if ids := st.TasksByStatus[status]; len(ids) > 0 {
			tbl.WriteRow(string(status), strings.Join(ids, ","))
		}
	}
}

func renderAgents(out tui.Output, agents []*domain.AgentProfile) {
	tbl := out.Table([]tui.TableColumn{
		{Name: "ID", Width: 20},
		{Name: "NAME", Width: 14},
		{Name: "TASKS", Width: 5, Align: tui.AlignRight},
		{Name: "RATE", Width: 5, Align: tui.AlignRight},
		{Name: "SKILLS", Width: 48},
	})
	tbl.WriteHeader()
	for _, a := range agents {
		tbl.WriteRow(a.ID, a.Name,
			strconv.Itoa(a.Stats.TotalTasks),
			strconv.FormatFloat(a.Stats.SuccessRate, 'f', 2, 64),
			strings.Join(a.Skills, ","))
	}
}

func renderAgent(out tui.Output, a *domain.AgentProfile) {
	out.Info(fmt.Sprintf("%s (%s) - %s", a.Name, a.ID, a.Role))
	if a.Description != "" {
		out.Info(a.Description)
	}
	out.Info("skills: " + strings.Join(a.Skills, ", "))
	out.Info(fmt.Sprintf("tasks %d, successes %d, rate %.2f, avg %.1f min",
		a.Stats.TotalTasks, a.Stats.SuccessCount, a.Stats.SuccessRate, a.Stats.AvgTime))
	if len(a.PreferredPartners) > 0 {
		out.Info("partners: " + strings.Join(a.PreferredPartners, ", "))
	}
}

func renderPatterns(out tui.Output, patterns []*domain.Pattern) {
	if len(patterns) == 0 {
		out.Info("no patterns")
		return
	}
	tbl := out.Table([]tui.TableColumn{
		{Name: "ID", Width: 24},
		{Name: "CATEGORY", Width: 14},
		{Name: "SAMPLES", Width: 7, Align: tui.AlignRight},
		{Name: "MINUTES", Width: 7, Align: tui.AlignRight},
		{Name: "MEMBERS", Width: 48},
	})
	tbl.WriteHeader()
	for _, p := range patterns {
		tbl.WriteRow(p.ID, p.Category,
			strconv.Itoa(p.SampleSize),
			strconv.Itoa(p.EstimatedTotalTime),
			strings.Join(p.RecommendedClaw.Members, ","))
	}
}

func renderRules(out tui.Output, rules []*domain.Rule) {
	if len(rules) == 0 {
		out.Info("no rules")
		return
	}
	for _, r := range rules {
		out.Info(fmt.Sprintf("%s (%s)", r.Name, r.ID))
		for _, d := range r.Directives {
			out.Info("  - " + d)
		}
	}
}

func renderHistory(out tui.Output, entries []domain.EvolutionEntry) {
	if len(entries) == 0 {
		out.Info("no evolution history")
		return
	}
	tbl := out.Table([]tui.TableColumn{
		{Name: "TIME", Width: 20},
		{Name: "EVENT", Width: 18},
		{Name: "AGENT", Width: 20},
	})
	tbl.WriteHeader()
	for _, e := range entries {
		tbl.WriteRow(e.Timestamp.Format("2006-01-02 15:04:05"), string(e.Event), e.AgentID)
	}
}
