package eventlog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/olympus/internal/clock"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

func testClock() clock.Clock {
	return clock.NewStepClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), time.Second)
}

func TestTaskLog(t *testing.T) {
	ctx := context.Background()

	for name, dir := range map[string]string{"file": t.TempDir(), "memory": ""} {
		t.Run(name, func(t *testing.T) {
			l := NewTaskLog(dir, testClock(), zerolog.Nop())
			st := &domain.Subtask{ID: "ab12cd34", Description: "调研"}

			require.NoError(t, l.TaskStart(ctx, "t1", "desc", map[string]any{"claw_id": "claw_t1"}))
			require.NoError(t, l.SubtaskStart(ctx, "t1", st, "athena"))
			require.NoError(t, l.SubtaskComplete(ctx, "t1", st.ID, &domain.ExecutionResult{Success: true, Output: "ok"}))
			require.NoError(t, l.Decision(ctx, "t1", "recovery", "reassign_agent", "skill mismatch"))
			require.NoError(t, l.Exception(ctx, "t1", "boom", ""))
			require.NoError(t, l.TaskComplete(ctx, "t1", map[string]any{"success": true}, "很好"))
			require.NoError(t, l.TaskStart(ctx, "t2", "other", nil))

			events, err := l.TaskLogs(ctx, "t1")
			require.NoError(t, err)
			require.Len(t, events, 6)

			types := make([]constants.EventType, 0, len(events))
			for _, ev := range events {
				types = append(types, ev.Type)
				assert.Equal(t, "t1", ev.TaskID)
			}
			assert.Equal(t, []constants.EventType{
				constants.EventTaskStart,
				constants.EventSubtaskStart,
				constants.EventSubtaskComplete,
				constants.EventDecision,
				constants.EventException,
				constants.EventTaskComplete,
			}, types)
			assert.True(t, events[0].Timestamp.Before(events[5].Timestamp))
			assert.Equal(t, "athena", events[1].Data["agent_id"])
			assert.Equal(t, "reassign_agent", events[3].Data["decision"])
			assert.NotContains(t, events[4].Data, "resolution")
			assert.Equal(t, "很好", events[5].Data["feedback"])

			none, err := l.TaskLogs(ctx, "unknown")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestTaskLog_FileLayout(t *testing.T) {
	dir := t.TempDir()
	l := NewTaskLog(dir, testClock(), zerolog.Nop())
	require.NoError(t, l.Exception(context.Background(), "t9", "boom", "retry"))

	data, err := os.ReadFile(filepath.Join(dir, "t9.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"exception"`)
	assert.Contains(t, string(data), `"resolution":"retry"`)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	require.NoError(t, l.TaskStart(context.Background(), "t9", "again", nil))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one file per task, no lock sidecars")
	assert.Equal(t, "t9.jsonl", entries[0].Name())
}

func TestTaskLog_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l := NewTaskLog(dir, testClock(), zerolog.New(&buf))

	require.NoError(t, l.Decision(context.Background(), "t1", "path", "template", "no pattern"))
	f, err := os.OpenFile(filepath.Join(dir, "t1.jsonl"), os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events, err := l.TaskLogs(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Contains(t, buf.String(), "skipping malformed log line")
}

func TestTaskLog_RejectsBadIDs(t *testing.T) {
	l := NewTaskLog(t.TempDir(), nil, zerolog.Nop())
	err := l.Exception(context.Background(), "../escape", "x", "")
	require.ErrorIs(t, err, olyerrors.ErrInvalidKey)

	_, err = l.TaskLogs(context.Background(), "")
	require.Error(t, err)
}

func TestEvolutionLog(t *testing.T) {
	ctx := context.Background()

	for name, path := range map[string]string{
		"file":   filepath.Join(t.TempDir(), "evolution", "evolution_log.jsonl"),
		"memory": "",
	} {
		t.Run(name, func(t *testing.T) {
			e := NewEvolutionLog(path, zerolog.Nop())

			empty, err := e.History(ctx, 10)
			require.NoError(t, err)
			assert.Empty(t, empty)

			for _, id := range []string{"a", "b", "c"} {
				require.NoError(t, e.Append(ctx, domain.EvolutionEntry{
					Event:   constants.EvolutionAgent,
					AgentID: id,
				}))
			}

			all, err := e.History(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)

			last, err := e.History(ctx, 2)
			require.NoError(t, err)
			require.Len(t, last, 2)
			assert.Equal(t, "b", last[0].AgentID)
			assert.Equal(t, "c", last[1].AgentID)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewTaskLog("", nil, zerolog.Nop())
	require.ErrorIs(t, l.Exception(ctx, "t1", "x", ""), context.Canceled)

	e := NewEvolutionLog("", zerolog.Nop())
	require.ErrorIs(t, e.Append(ctx, domain.EvolutionEntry{}), context.Canceled)
	_, err := e.History(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}
