package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type rejectedPruner interface {
	PruneRejected(ctx context.Context, before time.Time) (int64, error)
}

// PruneRejected deletes rejected connection requests decided before the
// retention window. Pending and accepted edges are never touched.
type PruneRejected struct {
	log       *slog.Logger
	store     rejectedPruner
	retention time.Duration
	now       func() time.Time
}

// NewPruneRejected creates the prune job.
func NewPruneRejected(log *slog.Logger, store rejectedPruner, retention time.Duration) *PruneRejected {
	return &PruneRejected{
		log:       log.With("job", "prune_rejected"),
		store:     store,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run prunes once and returns the number of deleted rows.
func (j *PruneRejected) Run(ctx context.Context) (int64, error) {
	before := j.now().Add(-j.retention)

	n, err := j.store.PruneRejected(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("prune rejected connections: %w", err)
	}

	j.log.InfoContext(ctx, "rejected connections pruned",
		slog.Int64("deleted", n),
		slog.Time("before", before),
	)
	return n, nil
}
