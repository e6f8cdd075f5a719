package worker

import (
	"context"
	"fmt"

	"github.com/vytor/studydeck/internal/jobs"
	"github.com/vytor/studydeck/internal/repository"
)

// StatsRefreshJob recomputes the cached aggregates for one deck.
type StatsRefreshJob struct {
	DeckID int64
	Stats  repository.StatsRepository
}

func (j *StatsRefreshJob) Name() string {
	return fmt.Sprintf("stats-refresh deck=%d", j.DeckID)
}

func (j *StatsRefreshJob) Run(ctx context.Context) error {
	return j.Stats.Refresh(ctx, j.DeckID)
}

// StatsQueue implements jobs.Queue on top of a Pool. Enqueueing is
// best-effort: a full queue drops the refresh, the cache catches up on the
// next study result.
type StatsQueue struct {
	pool  *Pool
	stats repository.StatsRepository
}

func NewStatsQueue(pool *Pool, stats repository.StatsRepository) jobs.Queue {
	return &StatsQueue{pool: pool, stats: stats}
}

func (q *StatsQueue) EnqueueStatsRefresh(deckID int64) error {
	return q.pool.TrySubmit(&StatsRefreshJob{DeckID: deckID, Stats: q.stats})
}
