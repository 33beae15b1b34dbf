package types

import (
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Tutor is the service-provider aggregate. The two derived rating fields are
// owned by the reputation worker; every other field belongs to the
// profile-edit flows.
type Tutor struct {
	bun.BaseModel `bun:"table:tutors,alias:t"`

	ID              string           `bun:",pk"                    json:"id"`
	Status          enum.TutorStatus `bun:",notnull"               json:"status"`
	Name            string           `bun:",notnull"               json:"name"`
	Region          string           `bun:",notnull"               json:"region"`
	Subjects        []string         `bun:",array"                 json:"subjects"`
	Bio             string           `bun:",notnull,default:''"    json:"bio"`
	HasAvatar       bool             `bun:",notnull,default:false" json:"hasAvatar"`
	ExperienceYears *int             `bun:"experience_years"       json:"experienceYears"`
	VerifiedEmail   bool             `bun:",notnull,default:false" json:"verifiedEmail"`
	HasTelegram     bool             `bun:",notnull,default:false" json:"hasTelegram"`

	// Notification preference flags.
	NotifyOrdersEmail bool `bun:",notnull,default:false" json:"notifyOrdersEmail"`
	NotifyOrdersSMS   bool `bun:",notnull,default:false" json:"notifyOrdersSms"`
	NotifyOrdersPush  bool `bun:",notnull,default:false" json:"notifyOrdersPush"`
	NotifyChatEmail   bool `bun:",notnull,default:false" json:"notifyChatEmail"`
	NotifyDigestEmail bool `bun:",notnull,default:false" json:"notifyDigestEmail"`

	// Lesson formats the tutor serves, with the serviceable geography for the
	// two in-person formats.
	RemoteLessons    bool     `bun:",notnull,default:false" json:"remoteLessons"`
	LessonsAtTutor   bool     `bun:",notnull,default:false" json:"lessonsAtTutor"`
	TravelsToStudent bool     `bun:",notnull,default:false" json:"travelsToStudent"`
	HomeLocationIDs  []string `bun:"home_location_ids,array" json:"homeLocationIds"`
	TripAreaIDs      []string `bun:"trip_area_ids,array" json:"tripAreaIds"`

	// UserRating is the review-derived reputation input on a 1-5 scale,
	// maintained by the review flow outside this core.
	UserRating float64 `bun:",notnull,default:0" json:"userRating"`

	// ServiceRating and TotalRating are written exclusively by
	// TutorModel.UpdateRatings on behalf of the reputation worker.
	ServiceRating float64   `bun:"service_rating,notnull,default:0" json:"serviceRating"`
	TotalRating   float64   `bun:"total_rating,notnull,default:0"   json:"totalRating"`
	ScoredAt      time.Time `bun:"scored_at,nullzero"               json:"scoredAt"`

	CreatedAt time.Time `bun:",notnull" json:"createdAt"`

	Goals     []*TutorGoal           `bun:"rel:has-many,join:id=tutor_id" json:"goals,omitempty"`
	Prices    []*TutorPrice          `bun:"rel:has-many,join:id=tutor_id" json:"prices,omitempty"`
	Comments  []*TutorSubjectComment `bun:"rel:has-many,join:id=tutor_id" json:"comments,omitempty"`
	Education []*TutorEducation      `bun:"rel:has-many,join:id=tutor_id" json:"education,omitempty"`
}

// TutorGoal is a declared (subject, goal) pair of a tutor.
type TutorGoal struct {
	bun.BaseModel `bun:"table:tutor_goals"`

	TutorID   string `bun:",pk"      json:"tutorId"`
	SubjectID string `bun:",pk"      json:"subjectId"`
	GoalID    string `bun:",pk"      json:"goalId"`
}

// TutorPrice is a declared price for a (subject, format) pair. Amount is a
// pointer so a declared price of 0 stays distinguishable from an absent row
// when prices are carried through projections.
type TutorPrice struct {
	bun.BaseModel `bun:"table:tutor_prices"`

	TutorID   string            `bun:",pk"      json:"tutorId"`
	SubjectID string            `bun:",pk"      json:"subjectId"`
	Format    enum.LessonFormat `bun:",pk"      json:"format"`
	Amount    *int              `bun:",notnull" json:"amount"`
}

// TutorSubjectComment maps a declared subject to the tutor's comment on it.
type TutorSubjectComment struct {
	bun.BaseModel `bun:"table:tutor_subject_comments"`

	TutorID   string `bun:",pk"      json:"tutorId"`
	SubjectID string `bun:",pk"      json:"subjectId"`
	Comment   string `bun:",notnull" json:"comment"`
}

// TutorEducation is one education record of a tutor.
type TutorEducation struct {
	bun.BaseModel `bun:"table:tutor_education"`

	ID             string `bun:",pk"                    json:"id"`
	TutorID        string `bun:",notnull"               json:"tutorId"`
	Institution    string `bun:",notnull"               json:"institution"`
	GraduationYear int    `bun:",notnull,default:0"     json:"graduationYear"`
	HasDiploma     bool   `bun:",notnull,default:false" json:"hasDiploma"`
}

// TutorRatingSnapshot is the projection the orchestrator enumerates: just
// enough to stamp a scoring job.
type TutorRatingSnapshot struct {
	ID         string    `bun:"id"`
	UserRating float64   `bun:"user_rating"`
	CreatedAt  time.Time `bun:"created_at"`
}
