package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/database/dbretry"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types/enum"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"
)

// TutorModel handles database operations for tutors.
type TutorModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTutor creates a new TutorModel.
func NewTutor(db *bun.DB, logger *zap.Logger) *TutorModel {
	return &TutorModel{
		db:     db,
		logger: logger.Named("db_tutor"),
	}
}

// GetRatingSnapshots enumerates tutors in creation order using a keyset
// cursor and returns the projection the orchestrator stamps into scoring
// jobs. Pass a zero cursor for the first page.
func (r *TutorModel) GetRatingSnapshots(
	ctx context.Context, cursorCreatedAt time.Time, cursorID string, limit int,
) ([]*types.TutorRatingSnapshot, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.TutorRatingSnapshot, error) {
		var snapshots []*types.TutorRatingSnapshot

		query := r.db.NewSelect().
			Model((*types.Tutor)(nil)).
			Column("id", "user_rating", "created_at").
			OrderExpr("created_at ASC, id ASC").
			Limit(limit)

		if cursorID != "" {
			query = query.Where("(created_at, id) > (?, ?)", cursorCreatedAt, cursorID)
		}

		if err := query.Scan(ctx, &snapshots); err != nil {
			return nil, fmt.Errorf("failed to enumerate tutors: %w", err)
		}

		return snapshots, nil
	})
}

// GetProfile retrieves a tutor with the relations scoring needs: goals,
// prices, subject comments, and education records. Returns
// types.ErrTutorNotFound when the tutor no longer exists.
func (r *TutorModel) GetProfile(ctx context.Context, tutorID string) (*types.Tutor, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Tutor, error) {
		var tutor types.Tutor

		err := r.db.NewSelect().
			Model(&tutor).
			Relation("Goals").
			Relation("Prices").
			Relation("Comments").
			Relation("Education").
			Where("t.id = ?", tutorID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrTutorNotFound
			}

			return nil, fmt.Errorf("failed to get tutor profile: %w", err)
		}

		return &tutor, nil
	})
}

// UpdateRatings persists the two derived rating fields in a single atomic
// update. This is the only write path for service_rating and total_rating.
func (r *TutorModel) UpdateRatings(ctx context.Context, tutorID string, serviceRating, totalRating float64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.Tutor)(nil)).
			Set("service_rating = ?", serviceRating).
			Set("total_rating = ?", totalRating).
			Set("scored_at = NOW()").
			Where("id = ?", tutorID).
			Exec(ctx)

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update tutor ratings: %w", err)
	}

	r.logger.Debug("Updated tutor ratings",
		zap.String("tutorID", tutorID),
		zap.Float64("serviceRating", serviceRating),
		zap.Float64("totalRating", totalRating))

	return nil
}

// CandidateFilter is the structured filter the matching engine builds from
// an order projection.
type CandidateFilter struct {
	SubjectID       string
	GoalID          string
	Region          string
	Online          bool
	Home            bool
	Travel          bool
	TripAreaIDs     []string
	HomeLocationIDs []string
}

// GetMatchCandidates queries tutors eligible for an order: active status,
// subject membership, a declared (subject, goal) pair, and the format and
// geography disjunction over the requested lesson formats. Region is not
// filtered when online is requested, since a remote tutor's physical region
// is irrelevant. Results carry the subject's price rows for the price-band
// refinement and arrive sorted by total rating descending, tutor ID
// ascending.
func (r *TutorModel) GetMatchCandidates(ctx context.Context, filter *CandidateFilter) ([]*types.Tutor, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Tutor, error) {
		var tutors []*types.Tutor

		query := r.db.NewSelect().
			Model(&tutors).
			Relation("Prices", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("subject_id = ?", filter.SubjectID)
			}).
			Where("t.status = ?", enum.TutorStatusActive).
			Where("? = ANY (t.subjects)", filter.SubjectID).
			Where("EXISTS (SELECT 1 FROM tutor_goals g WHERE g.tutor_id = t.id AND g.subject_id = ? AND g.goal_id = ?)",
				filter.SubjectID, filter.GoalID).
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				if filter.Online {
					q = q.WhereOr("t.remote_lessons")
				}

				if filter.Home {
					q = q.WhereOr("(t.lessons_at_tutor AND t.home_location_ids && ?)",
						pgdialect.Array(filter.TripAreaIDs))
				}

				if filter.Travel {
					q = q.WhereOr("(t.travels_to_student AND t.trip_area_ids && ?)",
						pgdialect.Array(filter.HomeLocationIDs))
				}

				return q
			}).
			OrderExpr("t.total_rating DESC, t.id ASC")

		if !filter.Online {
			query = query.Where("t.region = ?", filter.Region)
		}

		if err := query.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to get match candidates: %w", err)
		}

		return tutors, nil
	})
}
