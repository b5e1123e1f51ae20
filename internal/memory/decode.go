package memory

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// Archived contexts come back from the store as generic JSON maps. These
// helpers turn the well-known entries back into domain types.

func decodeInto(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// DecodeSubtasks reads the subtask list stored under ContextSubtasks.
func DecodeSubtasks(rec *domain.EpisodicRecord) ([]domain.Subtask, error) {
	raw, ok := rec.Context[domain.ContextSubtasks]
	if !ok || raw == nil {
		return []domain.Subtask{}, nil
	}
	var out []domain.Subtask
	if err := decodeInto(raw, &out); err != nil {
		return nil, fmt.Errorf("task %s subtasks: %w: %w", rec.TaskID, olyerrors.ErrRecordCorrupted, err)
	}
	return out, nil
}

// DecodeTeam reads the claw stored under ContextClaw, or nil when absent.
func DecodeTeam(rec *domain.EpisodicRecord) (*domain.Team, error) {
	raw, ok := rec.Context[domain.ContextClaw]
	if !ok || raw == nil {
		return nil, nil //nolint:nilnil // absent team is not an error
	}
	var team domain.Team
	if err := decodeInto(raw, &team); err != nil {
		return nil, fmt.Errorf("task %s claw: %w: %w", rec.TaskID, olyerrors.ErrRecordCorrupted, err)
	}
	return &team, nil
}
