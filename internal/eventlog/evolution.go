package eventlog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/olympus/internal/ctxutil"
	"github.com/mrz1836/olympus/internal/domain"
)

// EvolutionLog is the append-only record of agent evolution, pattern
// discovery and rule optimization. With an empty path it is kept in memory.
type EvolutionLog struct {
	path   string
	logger zerolog.Logger

	mu  sync.Mutex
	mem []domain.EvolutionEntry
}

// NewEvolutionLog creates an EvolutionLog writing to path.
func NewEvolutionLog(path string, logger zerolog.Logger) *EvolutionLog {
	return &EvolutionLog{path: path, logger: logger}
}

// Append adds entry to the log.
func (e *EvolutionLog) Append(ctx context.Context, entry domain.EvolutionEntry) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if e.path == "" {
		e.mu.Lock()
		e.mem = append(e.mem, entry)
		e.mu.Unlock()
		return nil
	}
	return appendLine(ctx, e.path, entry)
}

// History returns the newest limit entries, oldest first. A limit of zero
// or less returns everything.
func (e *EvolutionLog) History(ctx context.Context, limit int) ([]domain.EvolutionEntry, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	var all []domain.EvolutionEntry
	if e.path == "" {
		e.mu.Lock()
		all = append(all, e.mem...)
		e.mu.Unlock()
	} else {
		var err error
		all, err = readLines[domain.EvolutionEntry](e.path, e.logger)
		if err != nil {
			return nil, err
		}
	}

	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}
