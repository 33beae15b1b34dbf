// Package queue implements the reputation scoring job queue on Redis
// sorted sets. A job's score is the time it becomes due: enqueueing makes
// it due immediately, claiming pushes it into the future so a crashed
// worker's jobs resurface on their own, and failing reschedules it with
// exponential backoff until the attempt budget is exhausted and the job is
// parked in the dead set for operators.
package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// JobsKey is the sorted set holding pending and in-flight jobs.
	JobsKey = "reputation:jobs"
	// DeadKey is the sorted set holding jobs that exhausted their retries.
	DeadKey = "reputation:dead"

	// DefaultMaxAttempts bounds how often a failing job is retried.
	DefaultMaxAttempts = 5
	// DefaultInitialBackoff is the delay before the first retry.
	DefaultInitialBackoff = 30 * time.Second
	// DefaultMaxBackoff caps the exponential retry delay.
	DefaultMaxBackoff = 15 * time.Minute
	// DefaultClaimTimeout is how long a claimed job stays invisible before
	// it becomes due again if the worker never completed it.
	DefaultClaimTimeout = 10 * time.Minute
)

// Job carries everything a worker needs to score one tutor. Response and
// contract counters are prefetched by the orchestrator from the same
// aggregation that produced the medians, so workers issue no per-tutor
// aggregation reads.
type Job struct {
	TutorID         string    `json:"tutorId"`
	UserRating      float64   `json:"userRating"`
	Responses       int       `json:"responses"`
	Contracts       int       `json:"contracts"`
	MedianResponses float64   `json:"medianResponses"`
	MedianContracts float64   `json:"medianContracts"`
	WindowStart     time.Time `json:"windowStart"`
	Attempt         int       `json:"attempt"`
	EnqueuedAt      time.Time `json:"enqueuedAt"`
}

// DeadJob is a job that exhausted its retries, kept for operator review.
type DeadJob struct {
	Job      Job       `json:"job"`
	LastErr  string    `json:"lastError"`
	FailedAt time.Time `json:"failedAt"`
}

// Manager orchestrates queue operations. All scheduling state lives in
// Redis, so any number of processes can produce and consume concurrently.
type Manager struct {
	client         rueidis.Client
	logger         *zap.Logger
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	claimTimeout   time.Duration
}

// NewManager initializes a queue manager with the default retry policy.
func NewManager(client rueidis.Client, logger *zap.Logger) *Manager {
	return &Manager{
		client:         client,
		logger:         logger.Named("queue"),
		maxAttempts:    DefaultMaxAttempts,
		initialBackoff: DefaultInitialBackoff,
		maxBackoff:     DefaultMaxBackoff,
		claimTimeout:   DefaultClaimTimeout,
	}
}

// AddJobs enqueues a batch of jobs atomically with a single ZADD. Every job
// is due immediately.
func (m *Manager) AddJobs(ctx context.Context, jobs []*Job) error {
	if len(jobs) == 0 {
		return nil
	}

	builder := m.client.B().Zadd().Key(JobsKey).ScoreMember()

	for _, job := range jobs {
		payload, err := sonic.Marshal(job)
		if err != nil {
			return fmt.Errorf("failed to marshal job for tutor %s: %w", job.TutorID, err)
		}

		builder = builder.ScoreMember(float64(job.EnqueuedAt.Unix()), string(payload))
	}

	if err := m.client.Do(ctx, builder.Build()).Error(); err != nil {
		return fmt.Errorf("failed to enqueue jobs: %w", err)
	}

	m.logger.Debug("Enqueued jobs", zap.Int("count", len(jobs)))

	return nil
}

// ClaimDue fetches up to limit jobs that are due at now and pushes their
// due time past the claim timeout so other consumers skip them. A claimed
// job that is neither completed nor failed becomes due again by itself.
func (m *Manager) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Job, error) {
	members, err := m.client.Do(ctx,
		m.client.B().Zrangebyscore().Key(JobsKey).
			Min("-inf").Max(strconv.FormatInt(now.Unix(), 10)).
			Limit(0, int64(limit)).Build(),
	).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due jobs: %w", err)
	}

	if len(members) == 0 {
		return nil, nil
	}

	claimUntil := float64(now.Add(m.claimTimeout).Unix())
	jobs := make([]*Job, 0, len(members))

	for _, member := range members {
		var job Job
		if err := sonic.UnmarshalString(member, &job); err != nil {
			m.logger.Error("Failed to unmarshal queue job, dropping",
				zap.Error(err), zap.String("member", member))
			m.remove(ctx, JobsKey, member)

			continue
		}

		err := m.client.Do(ctx, m.client.B().Zadd().Key(JobsKey).Xx().
			ScoreMember().ScoreMember(claimUntil, member).Build()).Error()
		if err != nil {
			return nil, fmt.Errorf("failed to claim job: %w", err)
		}

		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// Complete removes a finished job from the queue.
func (m *Manager) Complete(ctx context.Context, job *Job) error {
	payload, err := sonic.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = m.client.Do(ctx, m.client.B().Zrem().Key(JobsKey).Member(string(payload)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to remove completed job: %w", err)
	}

	return nil
}

// Fail applies the retry policy to a failed job: reschedule with
// exponential backoff while attempts remain, otherwise move the job to the
// dead set. The worker itself never retries.
func (m *Manager) Fail(ctx context.Context, job *Job, cause error) error {
	payload, err := sonic.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := m.client.Do(ctx,
		m.client.B().Zrem().Key(JobsKey).Member(string(payload)).Build(),
	).Error(); err != nil {
		return fmt.Errorf("failed to remove failing job: %w", err)
	}

	if job.Attempt+1 >= m.maxAttempts {
		return m.bury(ctx, job, cause)
	}

	retry := *job
	retry.Attempt++

	retryPayload, err := sonic.Marshal(&retry)
	if err != nil {
		return fmt.Errorf("failed to marshal retry job: %w", err)
	}

	dueAt := time.Now().Add(m.backoff(retry.Attempt))

	err = m.client.Do(ctx, m.client.B().Zadd().Key(JobsKey).ScoreMember().
		ScoreMember(float64(dueAt.Unix()), string(retryPayload)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to reschedule job: %w", err)
	}

	m.logger.Warn("Job failed, rescheduled",
		zap.String("tutorID", job.TutorID),
		zap.Int("attempt", retry.Attempt),
		zap.Time("dueAt", dueAt),
		zap.Error(cause))

	return nil
}

// bury parks an exhausted job in the dead set so operators can inspect it.
func (m *Manager) bury(ctx context.Context, job *Job, cause error) error {
	dead := DeadJob{
		Job:      *job,
		FailedAt: time.Now(),
	}
	if cause != nil {
		dead.LastErr = cause.Error()
	}

	payload, err := sonic.Marshal(&dead)
	if err != nil {
		return fmt.Errorf("failed to marshal dead job: %w", err)
	}

	err = m.client.Do(ctx, m.client.B().Zadd().Key(DeadKey).ScoreMember().
		ScoreMember(float64(dead.FailedAt.Unix()), string(payload)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to bury job: %w", err)
	}

	m.logger.Error("Job exhausted retries",
		zap.String("tutorID", job.TutorID),
		zap.Int("attempts", job.Attempt+1),
		zap.Error(cause))

	return nil
}

// PendingCount returns the number of jobs in the queue, including claimed
// and backoff-delayed ones.
func (m *Manager) PendingCount(ctx context.Context) int {
	count, err := m.client.Do(ctx, m.client.B().Zcard().Key(JobsKey).Build()).ToInt64()
	if err != nil {
		m.logger.Error("Failed to get queue length", zap.Error(err))
		return 0
	}

	return int(count)
}

// DeadCount returns the number of jobs parked in the dead set.
func (m *Manager) DeadCount(ctx context.Context) int {
	count, err := m.client.Do(ctx, m.client.B().Zcard().Key(DeadKey).Build()).ToInt64()
	if err != nil {
		m.logger.Error("Failed to get dead set length", zap.Error(err))
		return 0
	}

	return int(count)
}

// DeadJobs returns up to limit dead jobs, oldest first.
func (m *Manager) DeadJobs(ctx context.Context, limit int) ([]*DeadJob, error) {
	members, err := m.client.Do(ctx,
		m.client.B().Zrange().Key(DeadKey).Min("0").Max(strconv.Itoa(limit-1)).Build(),
	).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dead jobs: %w", err)
	}

	dead := make([]*DeadJob, 0, len(members))

	for _, member := range members {
		var job DeadJob
		if err := sonic.UnmarshalString(member, &job); err != nil {
			m.logger.Error("Failed to unmarshal dead job",
				zap.Error(err), zap.String("member", member))

			continue
		}

		dead = append(dead, &job)
	}

	return dead, nil
}

// backoff returns the delay before the given attempt, doubling from the
// initial interval and capped at the maximum.
func (m *Manager) backoff(attempt int) time.Duration {
	delay := m.initialBackoff
	for i := 1; i < attempt && delay < m.maxBackoff; i++ {
		delay *= 2
	}

	if delay > m.maxBackoff {
		delay = m.maxBackoff
	}

	return delay
}

func (m *Manager) remove(ctx context.Context, key, member string) {
	if err := m.client.Do(ctx, m.client.B().Zrem().Key(key).Member(member).Build()).Error(); err != nil {
		m.logger.Error("Failed to remove queue member", zap.Error(err))
	}
}
