// Package service contains business logic that spans multiple models.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/database/models"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/productPach/tutorio-backend-sub000/internal/scoring"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Assembly bundles the raw inputs one scoring job needs beyond the counters
// already stamped into the job payload.
type Assembly struct {
	Profile scoring.ProfileIndicators

	// MedianLatencyMinutes is the median first-response latency across the
	// tutor's window chats, in minutes. Nil when no chat produced a valid
	// delta, so the scorer can tell absent engagement from an instant reply.
	MedianLatencyMinutes *float64
}

// ReputationService assembles per-tutor scoring inputs.
type ReputationService struct {
	tutor      *models.TutorModel
	engagement *models.EngagementModel
	logger     *zap.Logger
}

// NewReputation creates a new ReputationService.
func NewReputation(tutor *models.TutorModel, engagement *models.EngagementModel, logger *zap.Logger) *ReputationService {
	return &ReputationService{
		tutor:      tutor,
		engagement: engagement,
		logger:     logger.Named("reputation_service"),
	}
}

// Assemble gathers the profile indicators and first-response latency for a
// tutor. Profile and latency reads run in parallel. Returns (nil, nil) when
// the tutor no longer exists so callers treat the job as a skip, not a
// failure.
func (s *ReputationService) Assemble(ctx context.Context, tutorID string, windowStart time.Time) (*Assembly, error) {
	var (
		mu       sync.Mutex
		assembly Assembly
		gone     bool
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		tutor, err := s.tutor.GetProfile(ctx, tutorID)
		if err != nil {
			if errors.Is(err, types.ErrTutorNotFound) {
				mu.Lock()
				gone = true
				mu.Unlock()

				return nil
			}

			return fmt.Errorf("failed to get tutor profile: %w", err)
		}

		mu.Lock()
		assembly.Profile = ProfileIndicators(tutor)
		mu.Unlock()

		return nil
	})

	p.Go(func(ctx context.Context) error {
		delays, err := s.engagement.FirstResponseDelaysSince(ctx, tutorID, windowStart)
		if err != nil {
			return fmt.Errorf("failed to get response delays: %w", err)
		}

		mu.Lock()
		assembly.MedianLatencyMinutes = MedianLatencyMinutes(delays)
		mu.Unlock()

		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	if gone {
		s.logger.Debug("Tutor vanished before scoring", zap.String("tutorID", tutorID))
		return nil, nil
	}

	return &assembly, nil
}

// ProfileIndicators derives the boolean completeness signals from a loaded
// tutor aggregate. Per-subject indicators require coverage of every
// declared subject; a tutor with no declared subjects has trivially
// complete per-subject coverage only when the sets are non-empty, so empty
// subject sets score those indicators as false.
func ProfileIndicators(tutor *types.Tutor) scoring.ProfileIndicators {
	goalSubjects := make(map[string]struct{}, len(tutor.Goals))
	for _, goal := range tutor.Goals {
		goalSubjects[goal.SubjectID] = struct{}{}
	}

	priceSubjects := make(map[string]struct{}, len(tutor.Prices))
	for _, price := range tutor.Prices {
		priceSubjects[price.SubjectID] = struct{}{}
	}

	commentSubjects := make(map[string]struct{}, len(tutor.Comments))
	for _, comment := range tutor.Comments {
		if comment.Comment != "" {
			commentSubjects[comment.SubjectID] = struct{}{}
		}
	}

	covered := func(set map[string]struct{}) bool {
		if len(tutor.Subjects) == 0 {
			return false
		}

		for _, subject := range tutor.Subjects {
			if _, ok := set[subject]; !ok {
				return false
			}
		}

		return true
	}

	hasDiploma := false
	for _, edu := range tutor.Education {
		if edu.HasDiploma {
			hasDiploma = true
			break
		}
	}

	return scoring.ProfileIndicators{
		HasBio:              tutor.Bio != "",
		HasAvatar:           tutor.HasAvatar,
		HasExperience:       tutor.ExperienceYears != nil,
		HasEducation:        len(tutor.Education) > 0,
		HasDiploma:          hasDiploma,
		AllSubjectsGoals:    covered(goalSubjects),
		AllSubjectsPrices:   covered(priceSubjects),
		AllSubjectsComments: covered(commentSubjects),
		VerifiedEmail:       tutor.VerifiedEmail,
		LinkedChannel:       tutor.HasTelegram,
		NotifyOrdersEmail:   tutor.NotifyOrdersEmail,
		NotifyOrdersSMS:     tutor.NotifyOrdersSMS,
		NotifyOrdersPush:    tutor.NotifyOrdersPush,
		NotifyChatEmail:     tutor.NotifyChatEmail,
		NotifyDigestEmail:   tutor.NotifyDigestEmail,
	}
}

// MedianLatencyMinutes reduces per-chat first-response deltas to a single
// latency anchor: negative deltas are data anomalies and are discarded, the
// median (not the mean) of the rest keeps abandoned-chat outliers from
// dominating. Returns nil when no valid delta remains, which is distinct
// from a genuine zero-minute median.
func MedianLatencyMinutes(delays []types.ResponseDelay) *float64 {
	minutes := make([]float64, 0, len(delays))

	for _, delay := range delays {
		if delay.DelaySeconds < 0 {
			continue
		}

		minutes = append(minutes, delay.DelaySeconds/60)
	}

	if len(minutes) == 0 {
		return nil
	}

	median := scoring.Median(minutes)

	return &median
}
