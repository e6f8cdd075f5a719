package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studydeck/internal/testutil/mocks"
	"github.com/vytor/studydeck/internal/worker"
)

type countingJob struct {
	mu    sync.Mutex
	runs  int
	done  chan struct{}
	block chan struct{}
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	if j.block != nil {
		<-j.block
	}
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	if j.done != nil {
		j.done <- struct{}{}
	}
	return nil
}

func (j *countingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func TestPoolRunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())
	defer pool.Stop()

	job := &countingJob{done: make(chan struct{}, 3)}
	for i := 0; i < 3; i++ {
		pool.Submit(job)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-job.done:
		case <-time.After(time.Second):
			t.Fatal("job did not run in time")
		}
	}
	assert.Equal(t, 3, job.count())
}

func TestTrySubmitFullQueue(t *testing.T) {
	// Unstarted pool with a single slot: the second submit has no room.
	pool := worker.NewPool(1, 1)

	blocked := &countingJob{block: make(chan struct{})}
	require.NoError(t, pool.TrySubmit(blocked))
	assert.ErrorIs(t, pool.TrySubmit(blocked), worker.ErrQueueFull)
	assert.Equal(t, 1, pool.QueueSize())
}

func TestStopDrainsWorkers(t *testing.T) {
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())

	job := &countingJob{done: make(chan struct{}, 1)}
	pool.Submit(job)
	<-job.done

	pool.Stop()
	assert.Equal(t, 1, job.count())
}

func TestStatsQueueEnqueuesRefresh(t *testing.T) {
	stats := new(mocks.MockStatsRepository)
	stats.On("Refresh", mock.Anything, int64(7)).Return(nil)

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())

	queue := worker.NewStatsQueue(pool, stats)
	require.NoError(t, queue.EnqueueStatsRefresh(7))

	require.Eventually(t, func() bool {
		return pool.QueueSize() == 0
	}, time.Second, time.Millisecond)
	pool.Stop()

	stats.AssertExpectations(t)
}
