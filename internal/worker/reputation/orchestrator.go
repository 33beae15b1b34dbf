// Package reputation implements the reputation pipeline's producer and
// consumers: the orchestrator that turns the tutor population into scoring
// jobs, and the worker pool that processes them.
package reputation

import (
	"context"
	"fmt"
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/database"
	"github.com/productPach/tutorio-backend-sub000/internal/queue"
	"github.com/productPach/tutorio-backend-sub000/internal/scoring"
	"github.com/productPach/tutorio-backend-sub000/internal/setup"
	"go.uber.org/zap"
)

// Orchestrator enumerates the tutor population and enqueues one scoring job
// per tutor. Medians are computed exactly once per run so every tutor in
// the run is judged against the same population snapshot.
type Orchestrator struct {
	db         database.Client
	queue      *queue.Manager
	logger     *zap.Logger
	windowDays int
	batchSize  int
}

// NewOrchestrator creates a new reputation orchestrator.
func NewOrchestrator(app *setup.App, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		db:         app.DB,
		queue:      app.Queue,
		logger:     logger.Named("reputation_orchestrator"),
		windowDays: app.Config.Worker.Reputation.WindowDays,
		batchSize:  app.Config.Worker.Reputation.EnumerationBatch,
	}
}

// Run performs one orchestration pass and returns the number of enqueued
// jobs. A failure while aggregating the median anchors aborts the run
// before a single job is produced, since stale or zero medians would skew
// every tutor's normalization.
func (o *Orchestrator) Run(ctx context.Context) (int, error) {
	windowStart := time.Now().AddDate(0, 0, -o.windowDays)

	responseCounts, err := o.db.Model().Engagement().ResponseCountsSince(ctx, windowStart)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate response counts: %w", err)
	}

	contractCounts, err := o.db.Model().Engagement().ContractCountsSince(ctx, windowStart)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate contract counts: %w", err)
	}

	medianResponses := scoring.MedianOfCounts(responseCounts)
	medianContracts := scoring.MedianOfCounts(contractCounts)

	o.logger.Info("Computed population medians",
		zap.Float64("medianResponses", medianResponses),
		zap.Float64("medianContracts", medianContracts),
		zap.Int("respondingTutors", len(responseCounts)),
		zap.Int("contractedTutors", len(contractCounts)))

	var (
		enqueued        int
		cursorCreatedAt time.Time
		cursorID        string
	)

	for {
		snapshots, err := o.db.Model().Tutor().GetRatingSnapshots(ctx, cursorCreatedAt, cursorID, o.batchSize)
		if err != nil {
			return enqueued, fmt.Errorf("failed to enumerate tutors: %w", err)
		}

		if len(snapshots) == 0 {
			break
		}

		now := time.Now()
		jobs := make([]*queue.Job, 0, len(snapshots))

		for _, snapshot := range snapshots {
			jobs = append(jobs, &queue.Job{
				TutorID:         snapshot.ID,
				UserRating:      snapshot.UserRating,
				Responses:       responseCounts[snapshot.ID],
				Contracts:       contractCounts[snapshot.ID],
				MedianResponses: medianResponses,
				MedianContracts: medianContracts,
				WindowStart:     windowStart,
				EnqueuedAt:      now,
			})
		}

		// One atomic enqueue per enumeration batch.
		if err := o.queue.AddJobs(ctx, jobs); err != nil {
			return enqueued, fmt.Errorf("failed to enqueue batch: %w", err)
		}

		enqueued += len(jobs)

		last := snapshots[len(snapshots)-1]
		cursorCreatedAt = last.CreatedAt
		cursorID = last.ID
	}

	o.logger.Info("Orchestration run complete", zap.Int("enqueuedJobs", enqueued))

	return enqueued, nil
}
