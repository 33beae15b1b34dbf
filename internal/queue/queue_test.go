package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/productPach/tutorio-backend-sub000/internal/queue"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*queue.Manager, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	manager := queue.NewManager(client, logger)

	cleanup := func() {
		mr.Close()
		client.Close()
		logger.Sync()
	}

	return manager, cleanup
}

func testJob(tutorID string, now time.Time) *queue.Job {
	return &queue.Job{
		TutorID:         tutorID,
		UserRating:      4.5,
		Responses:       4,
		Contracts:       1,
		MedianResponses: 4,
		MedianContracts: 2,
		WindowStart:     now.Add(-30 * 24 * time.Hour),
		EnqueuedAt:      now,
	}
}

func TestAddJobsBatch(t *testing.T) {
	t.Parallel()

	manager, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	jobs := []*queue.Job{testJob("t1", now), testJob("t2", now), testJob("t3", now)}
	require.NoError(t, manager.AddJobs(ctx, jobs))

	assert.Equal(t, 3, manager.PendingCount(ctx))
}

func TestClaimDueHidesClaimedJobs(t *testing.T) {
	t.Parallel()

	manager, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, manager.AddJobs(ctx, []*queue.Job{testJob("t1", now)}))

	claimed, err := manager.ClaimDue(ctx, now.Add(time.Second), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "t1", claimed[0].TutorID)

	// The claimed job stays in the queue but is no longer due.
	assert.Equal(t, 1, manager.PendingCount(ctx))

	again, err := manager.ClaimDue(ctx, now.Add(2*time.Second), 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	// Past the claim timeout it becomes due again on its own.
	resurfaced, err := manager.ClaimDue(ctx, now.Add(queue.DefaultClaimTimeout+time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, resurfaced, 1)
}

func TestCompleteRemovesJob(t *testing.T) {
	t.Parallel()

	manager, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, manager.AddJobs(ctx, []*queue.Job{testJob("t1", now)}))

	claimed, err := manager.ClaimDue(ctx, now.Add(time.Second), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, manager.Complete(ctx, claimed[0]))
	assert.Zero(t, manager.PendingCount(ctx))
}

func TestFailReschedulesWithBackoff(t *testing.T) {
	t.Parallel()

	manager, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, manager.AddJobs(ctx, []*queue.Job{testJob("t1", now)}))

	claimed, err := manager.ClaimDue(ctx, now.Add(time.Second), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, manager.Fail(ctx, claimed[0], errors.New("store timeout")))

	// Still queued, but not due before the backoff elapses.
	assert.Equal(t, 1, manager.PendingCount(ctx))

	soon, err := manager.ClaimDue(ctx, time.Now().Add(time.Second), 10)
	require.NoError(t, err)
	assert.Empty(t, soon)

	later, err := manager.ClaimDue(ctx, time.Now().Add(queue.DefaultInitialBackoff+time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, 1, later[0].Attempt)
}

func TestFailExhaustedMovesToDeadSet(t *testing.T) {
	t.Parallel()

	manager, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, manager.AddJobs(ctx, []*queue.Job{testJob("t1", now)}))

	// Drive the job through its whole attempt budget.
	claimAt := now.Add(time.Second)
	for attempt := 0; attempt < queue.DefaultMaxAttempts; attempt++ {
		claimed, err := manager.ClaimDue(ctx, claimAt, 10)
		require.NoError(t, err)
		require.Len(t, claimed, 1, "attempt %d", attempt)

		require.NoError(t, manager.Fail(ctx, claimed[0], errors.New("store down")))

		claimAt = claimAt.Add(queue.DefaultMaxBackoff + time.Minute)
	}

	assert.Zero(t, manager.PendingCount(ctx))
	assert.Equal(t, 1, manager.DeadCount(ctx))

	dead, err := manager.DeadJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "t1", dead[0].Job.TutorID)
	assert.Equal(t, "store down", dead[0].LastErr)
}

func TestClaimDueRespectsLimit(t *testing.T) {
	t.Parallel()

	manager, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	jobs := make([]*queue.Job, 0, 5)
	for _, id := range []string{"t1", "t2", "t3", "t4", "t5"} {
		jobs = append(jobs, testJob(id, now))
	}

	require.NoError(t, manager.AddJobs(ctx, jobs))

	claimed, err := manager.ClaimDue(ctx, now.Add(time.Second), 2)
	require.NoError(t, err)
	assert.Len(t, claimed, 2)
}
