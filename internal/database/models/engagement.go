package models

import (
	"context"
	"fmt"
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/database/dbretry"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// EngagementModel handles database aggregation over chats and contracts,
// the raw activity and performance signal of the reputation pipeline. The
// pipeline never mutates these tables.
type EngagementModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewEngagement creates a new EngagementModel.
func NewEngagement(db *bun.DB, logger *zap.Logger) *EngagementModel {
	return &EngagementModel{
		db:     db,
		logger: logger.Named("db_engagement"),
	}
}

// ResponseCountsSince returns the number of chats opened per tutor since the
// cutoff. Tutors with no chats in the window are absent from the map, which
// is exactly the population the median anchor is taken over.
func (r *EngagementModel) ResponseCountsSince(ctx context.Context, since time.Time) (map[string]int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (map[string]int, error) {
		var rows []types.TutorCount

		err := r.db.NewSelect().
			Model((*types.Chat)(nil)).
			Column("tutor_id").
			ColumnExpr("COUNT(*) AS count").
			Where("created_at >= ?", since).
			Group("tutor_id").
			Scan(ctx, &rows)
		if err != nil {
			return nil, fmt.Errorf("failed to count responses: %w", err)
		}

		counts := make(map[string]int, len(rows))
		for _, row := range rows {
			counts[row.TutorID] = row.Count
		}

		return counts, nil
	})
}

// ContractCountsSince returns the number of confirmed contracts per tutor
// since the cutoff.
func (r *EngagementModel) ContractCountsSince(ctx context.Context, since time.Time) (map[string]int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (map[string]int, error) {
		var rows []types.TutorCount

		err := r.db.NewSelect().
			Model((*types.Contract)(nil)).
			Column("tutor_id").
			ColumnExpr("COUNT(*) AS count").
			Where("selected_at >= ?", since).
			Group("tutor_id").
			Scan(ctx, &rows)
		if err != nil {
			return nil, fmt.Errorf("failed to count contracts: %w", err)
		}

		counts := make(map[string]int, len(rows))
		for _, row := range rows {
			counts[row.TutorID] = row.Count
		}

		return counts, nil
	})
}

// FirstResponseDelaysSince returns, for each of the tutor's window chats,
// the delta in seconds between the order's publish time and the tutor's
// earliest message in that chat. Chats where the tutor never wrote are
// absent. Negative deltas from clock anomalies are returned as-is; the
// assembler discards them.
func (r *EngagementModel) FirstResponseDelaysSince(
	ctx context.Context, tutorID string, since time.Time,
) ([]types.ResponseDelay, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]types.ResponseDelay, error) {
		var delays []types.ResponseDelay

		err := r.db.NewRaw(`
			SELECT c.id AS chat_id,
			       EXTRACT(EPOCH FROM (MIN(m.sent_at) - o.published_at)) AS delay_seconds
			FROM chats c
			JOIN orders o ON o.id = c.order_id
			JOIN chat_messages m ON m.chat_id = c.id AND m.from_tutor
			WHERE c.tutor_id = ? AND c.created_at >= ?
			GROUP BY c.id, o.published_at`,
			tutorID, since,
		).Scan(ctx, &delays)
		if err != nil {
			return nil, fmt.Errorf("failed to get first-response delays: %w", err)
		}

		return delays, nil
	})
}
