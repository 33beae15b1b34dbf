package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/productPach/tutorio-backend-sub000/internal/matching"
	"github.com/productPach/tutorio-backend-sub000/internal/setup"
	"github.com/productPach/tutorio-backend-sub000/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
)

// MatchLogDir specifies where match log files are stored.
const MatchLogDir = "logs/match_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "match",
		Usage: "Match an order projection against the tutor pool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "order",
				Usage: "Match a stored order by its identifier",
			},
			&cli.StringFlag{
				Name:  "subject",
				Usage: "Subject identifier of the order",
			},
			&cli.StringFlag{
				Name:  "goal",
				Usage: "Goal identifier of the order",
			},
			&cli.StringSliceFlag{
				Name:  "place",
				Usage: "Place descriptor (repeatable)",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "Region of the order",
			},
			&cli.StringSliceFlag{
				Name:  "trip-area",
				Usage: "Trip-area identifier of the order (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "home-location",
				Usage: "Home-location identifier of the order (repeatable)",
			},
			&cli.IntFlag{
				Name:  "tier",
				Usage: "Price tier ordinal (1-3)",
			},
			&cli.IntFlag{
				Name:  "page",
				Value: 1,
				Usage: "Result page (1-based)",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Value: matching.DefaultPageSize,
				Usage: "Number of tutors per page",
			},
		},
		Action: runMatch,
	}

	return app.Run(context.Background(), os.Args)
}

func runMatch(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceMatch, MatchLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	engine := matching.NewEngine(app.DB, app.Logger)

	var result *matching.Result

	if orderID := c.String("order"); orderID != "" {
		result, err = engine.MatchOrder(ctx, orderID, int(c.Int("page")), int(c.Int("page-size")))
	} else {
		result, err = engine.Match(ctx, &matching.Request{
			Subject:          c.String("subject"),
			GoalID:           c.String("goal"),
			PlaceDescriptors: c.StringSlice("place"),
			Region:           c.String("region"),
			TripAreaIDs:      c.StringSlice("trip-area"),
			HomeLocationIDs:  c.StringSlice("home-location"),
			PriceTier:        int(c.Int("tier")),
			Page:             int(c.Int("page")),
			PageSize:         int(c.Int("page-size")),
		})
	}

	if err != nil {
		return err
	}

	output, err := sonic.ConfigDefault.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	fmt.Println(string(output))

	return nil
}
