package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/domain"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/store"
)

// loadConcurrency bounds parallel record reads during a full scan.
const loadConcurrency = 8

// Episodic is the permanent archive of delivered tasks. It is never cleared.
type Episodic struct {
	ns     *store.Namespace
	logger zerolog.Logger
}

// NewEpisodic binds episodic memory to backend.
func NewEpisodic(backend store.Backend, logger zerolog.Logger) *Episodic {
	return &Episodic{
		ns:     store.NewNamespace(backend, constants.NamespaceEpisodic),
		logger: logger,
	}
}

// Save writes rec under its task id.
func (e *Episodic) Save(ctx context.Context, rec *domain.EpisodicRecord) error {
	if rec == nil || rec.TaskID == "" {
		return fmt.Errorf("failed to save episodic record: task id %w", olyerrors.ErrEmptyValue)
	}
	if err := e.ns.Save(ctx, rec.TaskID, rec); err != nil {
		return fmt.Errorf("failed to save episodic record %s: %w", rec.TaskID, err)
	}
	return nil
}

// Load reads the record for taskID.
func (e *Episodic) Load(ctx context.Context, taskID string) (*domain.EpisodicRecord, error) {
	var rec domain.EpisodicRecord
	if err := e.ns.Load(ctx, taskID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListTasks returns archived task ids in archive order.
func (e *Episodic) ListTasks(ctx context.Context) ([]string, error) {
	return e.ns.Keys(ctx)
}

// LoadAll reads every archived record in archive order. Unreadable records
// are skipped with a warning.
func (e *Episodic) LoadAll(ctx context.Context) ([]*domain.EpisodicRecord, error) {
	ids, err := e.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodic records: %w", err)
	}

	results := make([]*domain.EpisodicRecord, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := e.Load(gctx, id)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				e.logger.Warn().Err(err).
					Str("namespace", constants.NamespaceEpisodic).
					Str("key", id).
					Msg("skipping unreadable episodic record")
				return nil
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*domain.EpisodicRecord, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// GetSimilarTasks returns at most limit records. Records in the same
// category as description come first, the rest follow in archive order.
func (e *Episodic) GetSimilarTasks(ctx context.Context, description string, limit int) ([]*domain.EpisodicRecord, error) {
	if limit <= 0 {
		return []*domain.EpisodicRecord{}, nil
	}

	all, err := e.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	want := Categorize(description)
	same := make([]*domain.EpisodicRecord, 0, len(all))
	other := make([]*domain.EpisodicRecord, 0, len(all))
	for _, rec := range all {
		if Categorize(rec.Description()) == want {
			same = append(same, rec)
		} else {
			other = append(other, rec)
		}
	}

	out := append(same, other...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
