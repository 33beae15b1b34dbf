// Package enum holds the closed value sets shared by the database types.
package enum

// TutorStatus describes the lifecycle state of a tutor profile.
type TutorStatus string

const (
	// TutorStatusActive tutors participate in matching and scoring.
	TutorStatusActive TutorStatus = "active"
	// TutorStatusPaused tutors keep their profile but receive no orders.
	TutorStatusPaused TutorStatus = "paused"
	// TutorStatusArchived tutors are hidden pending administrative deletion.
	TutorStatusArchived TutorStatus = "archived"
)

// LessonFormat is the canonical lesson delivery format.
type LessonFormat string

const (
	// FormatOnline is a remote lesson.
	FormatOnline LessonFormat = "online"
	// FormatHome is a lesson at the tutor's place.
	FormatHome LessonFormat = "home"
	// FormatTravel is a lesson at the student's place.
	FormatTravel LessonFormat = "travel"
)

// OrderStatus describes the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusOpen orders are visible to matching.
	OrderStatusOpen OrderStatus = "open"
	// OrderStatusClosed orders no longer accept responses.
	OrderStatusClosed OrderStatus = "closed"
)
