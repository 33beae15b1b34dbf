package reputation

import (
	"context"
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/database"
	"github.com/productPach/tutorio-backend-sub000/internal/queue"
	"github.com/productPach/tutorio-backend-sub000/internal/scoring"
	"github.com/productPach/tutorio-backend-sub000/internal/setup"
	"github.com/productPach/tutorio-backend-sub000/internal/worker/core"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Worker consumes scoring jobs: assemble the tutor's raw inputs, run the
// score primitives, persist the two derived ratings. Retry on failure is
// the queue's responsibility, never the worker's.
type Worker struct {
	db          database.Client
	queue       *queue.Manager
	reporter    *core.StatusReporter
	logger      *zap.Logger
	batchSize   int
	concurrency int
	pollDelay   time.Duration
}

// New creates a new reputation worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	reporter := core.NewStatusReporter(app.StatusClient, "reputation", logger)

	return &Worker{
		db:          app.DB,
		queue:       app.Queue,
		reporter:    reporter,
		logger:      logger.Named("reputation_worker"),
		batchSize:   app.Config.Worker.Reputation.QueueBatch,
		concurrency: app.Config.Worker.Reputation.Concurrency,
		pollDelay:   time.Duration(app.Config.Worker.Reputation.PollInterval) * time.Second,
	}
}

// Start begins the worker's main loop:
// 1. Claims the next batch of due jobs
// 2. Processes jobs concurrently within the configured bound
// 3. Completes, skips or fails each job on the queue
// 4. Repeats until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Reputation worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)
	defer w.reporter.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reputation worker stopped")
			return
		default:
		}

		w.reporter.SetHealthy(true)
		w.reporter.UpdateStatus("Claiming jobs", 0)

		jobs, err := w.queue.ClaimDue(ctx, time.Now(), w.batchSize)
		if err != nil {
			w.logger.Error("Failed to claim jobs", zap.Error(err))
			w.reporter.SetHealthy(false)
			time.Sleep(w.pollDelay)

			continue
		}

		if len(jobs) == 0 {
			w.reporter.UpdateStatus("No jobs due, waiting", 0)
			time.Sleep(w.pollDelay)

			continue
		}

		w.processJobs(ctx, jobs)

		w.reporter.UpdateStatus("Batch complete", 100)
	}
}

// processJobs fans a claimed batch out over the worker's concurrency bound.
// Jobs are independent end-to-end; a slow or failing job never stalls the
// rest of the batch.
func (w *Worker) processJobs(ctx context.Context, jobs []*queue.Job) {
	w.reporter.UpdateStatus("Processing batch", 50)

	p := pool.New().WithMaxGoroutines(w.concurrency)

	for _, job := range jobs {
		p.Go(func() {
			w.processJob(ctx, job)
		})
	}

	p.Wait()

	w.logger.Info("Finished processing batch", zap.Int("jobs", len(jobs)))
}

// processJob scores one tutor. A vanished tutor completes the job as a
// no-op; any other failure is handed to the queue's retry policy.
func (w *Worker) processJob(ctx context.Context, job *queue.Job) {
	assembly, err := w.db.Service().Reputation().Assemble(ctx, job.TutorID, job.WindowStart)
	if err != nil {
		w.failJob(ctx, job, err)
		return
	}

	if assembly == nil {
		// Race with deletion: skip, not a failure.
		if err := w.queue.Complete(ctx, job); err != nil {
			w.logger.Error("Failed to complete skipped job",
				zap.String("tutorID", job.TutorID), zap.Error(err))
		}

		return
	}

	profile := scoring.ProfileScore(assembly.Profile)
	activity := scoring.ActivityScore(job.Responses, job.MedianResponses, assembly.MedianLatencyMinutes)
	performance := scoring.PerformanceScore(job.Contracts, job.MedianContracts, job.Responses)

	serviceRating := scoring.Round6(scoring.ServiceRating(profile, activity, performance))
	totalRating := scoring.Round6(scoring.TotalRating(job.UserRating, serviceRating))

	if err := w.db.Model().Tutor().UpdateRatings(ctx, job.TutorID, serviceRating, totalRating); err != nil {
		w.failJob(ctx, job, err)
		return
	}

	if err := w.queue.Complete(ctx, job); err != nil {
		w.logger.Error("Failed to complete job",
			zap.String("tutorID", job.TutorID), zap.Error(err))
	}
}

func (w *Worker) failJob(ctx context.Context, job *queue.Job, cause error) {
	w.reporter.SetHealthy(false)

	if err := w.queue.Fail(ctx, job, cause); err != nil {
		w.logger.Error("Failed to apply retry policy",
			zap.String("tutorID", job.TutorID), zap.Error(err))
	}
}
