package service_test

import (
	"testing"

	"github.com/productPach/tutorio-backend-sub000/internal/database/service"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedianLatencyMinutes(t *testing.T) {
	t.Parallel()

	t.Run("median of deltas after discarding anomalies", func(t *testing.T) {
		t.Parallel()

		// 30s, 90s and 7200s with one negative anomaly: median is 90s = 1.5min.
		delays := []types.ResponseDelay{
			{ChatID: "c1", DelaySeconds: 30},
			{ChatID: "c2", DelaySeconds: 90},
			{ChatID: "c3", DelaySeconds: 7200},
			{ChatID: "c4", DelaySeconds: -15},
		}
		got := service.MedianLatencyMinutes(delays)
		require.NotNil(t, got)
		assert.InDelta(t, 1.5, *got, 1e-9)
	})

	t.Run("no responses yields no signal", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, service.MedianLatencyMinutes(nil))
	})

	t.Run("all anomalies yields no signal", func(t *testing.T) {
		t.Parallel()

		// Every delta discarded must read as absent engagement, not as an
		// instant zero-minute reply.
		delays := []types.ResponseDelay{{ChatID: "c1", DelaySeconds: -5}}
		assert.Nil(t, service.MedianLatencyMinutes(delays))
	})

	t.Run("instant reply is a genuine zero median", func(t *testing.T) {
		t.Parallel()

		got := service.MedianLatencyMinutes([]types.ResponseDelay{{ChatID: "c1", DelaySeconds: 0}})
		require.NotNil(t, got)
		assert.Zero(t, *got)
	})
}

func TestProfileIndicators(t *testing.T) {
	t.Parallel()

	experience := 7
	tutor := &types.Tutor{
		ID:              "t1",
		Subjects:        []string{"math", "physics"},
		Bio:             "hello",
		HasAvatar:       true,
		ExperienceYears: &experience,
		VerifiedEmail:   true,
		Goals: []*types.TutorGoal{
			{TutorID: "t1", SubjectID: "math", GoalID: "g1"},
			{TutorID: "t1", SubjectID: "physics", GoalID: "g2"},
		},
		Prices: []*types.TutorPrice{
			{TutorID: "t1", SubjectID: "math", Format: "online", Amount: intPtr(1200)},
		},
		Comments: []*types.TutorSubjectComment{
			{TutorID: "t1", SubjectID: "math", Comment: "..."},
			{TutorID: "t1", SubjectID: "physics", Comment: ""},
		},
		Education: []*types.TutorEducation{
			{ID: "e1", TutorID: "t1", Institution: "MSU", HasDiploma: false},
		},
	}

	got := service.ProfileIndicators(tutor)

	assert.True(t, got.HasBio)
	assert.True(t, got.HasAvatar)
	assert.True(t, got.HasExperience)
	assert.True(t, got.HasEducation)
	assert.False(t, got.HasDiploma)
	assert.True(t, got.AllSubjectsGoals)
	assert.False(t, got.AllSubjectsPrices, "physics has no price")
	assert.False(t, got.AllSubjectsComments, "empty comment does not count")
	assert.True(t, got.VerifiedEmail)
	assert.False(t, got.LinkedChannel)
}

func TestProfileIndicatorsEmptySubjects(t *testing.T) {
	t.Parallel()

	got := service.ProfileIndicators(&types.Tutor{ID: "t2"})

	assert.False(t, got.AllSubjectsGoals)
	assert.False(t, got.AllSubjectsPrices)
	assert.False(t, got.AllSubjectsComments)
}

func intPtr(v int) *int { return &v }
