package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/setup"
	"github.com/productPach/tutorio-backend-sub000/internal/setup/telemetry"
	"github.com/productPach/tutorio-backend-sub000/internal/worker/core"
	"github.com/productPach/tutorio-backend-sub000/internal/worker/reputation"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// WorkerLogDir specifies where worker log files are stored.
const WorkerLogDir = "logs/worker_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the tutorio background workers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of workers to start",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "reputation",
				Usage: "Reputation scoring pipeline",
				Commands: []*cli.Command{
					{
						Name:  "run",
						Usage: "Enumerate tutors and enqueue one scoring job per tutor",
						Action: func(ctx context.Context, _ *cli.Command) error {
							return runOrchestrator(ctx, false)
						},
					},
					{
						Name:  "loop",
						Usage: "Run the orchestrator repeatedly at the configured interval",
						Action: func(ctx context.Context, _ *cli.Command) error {
							return runOrchestrator(ctx, true)
						},
					},
					{
						Name:  "start",
						Usage: "Start workers consuming scoring jobs from the queue",
						Action: func(ctx context.Context, c *cli.Command) error {
							return runWorkers(ctx, int(c.Int("workers")))
						},
					},
				},
			},
			{
				Name:  "status",
				Usage: "Show the status of all known workers",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return showStatus(ctx)
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runOrchestrator performs one enumeration run, or keeps running at the
// configured interval when loop is set.
func runOrchestrator(ctx context.Context, loop bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir, "reputation", "orchestrator")
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	orchestrator := reputation.NewOrchestrator(app, app.Logger)

	for {
		enqueued, err := orchestrator.Run(ctx)
		if err != nil {
			if !loop {
				return err
			}

			app.Logger.Error("Orchestration run failed", zap.Error(err))
		} else {
			app.Logger.Info("Orchestration run finished", zap.Int("enqueued", enqueued))
		}

		if !loop {
			return nil
		}

		interval := time.Duration(app.Config.Worker.Reputation.RunInterval) * time.Minute

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// runWorkers starts count scoring workers that consume the queue until
// cancelled. Workers share one app but report heartbeats independently.
func runWorkers(ctx context.Context, count int) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir, "reputation", "")
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	if count < 1 {
		count = 1
	}

	var wg sync.WaitGroup

	for i := 0; i < count; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			reputation.New(app, app.Logger).Start(ctx)
		}()
	}

	wg.Wait()

	return nil
}

// showStatus prints the last reported heartbeat of every known worker.
func showStatus(ctx context.Context) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	monitor := core.NewMonitor(app.StatusClient, app.Logger)

	statuses, err := monitor.GetAllStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to get worker statuses: %w", err)
	}

	if len(statuses) == 0 {
		fmt.Println("No workers have reported status")
		return nil
	}

	now := time.Now()
	for _, status := range statuses {
		state := "healthy"
		if !status.IsHealthy {
			state = "unhealthy"
		}

		if now.Sub(status.LastSeen) > core.StaleThreshold {
			state = "offline"
		}

		fmt.Printf("%s %s  [%s]  %s (%d%%)  last seen %s\n",
			status.WorkerType, status.WorkerID, state,
			status.CurrentTask, status.Progress,
			status.LastSeen.Format(time.RFC3339))
	}

	return nil
}
