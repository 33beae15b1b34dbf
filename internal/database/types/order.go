package types

import (
	"time"

	"github.com/productPach/tutorio-backend-sub000/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Order is a service request. Matching reads it; only the external edit flow
// mutates it.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID        string           `bun:",pk"      json:"id"`
	StudentID string           `bun:",notnull" json:"studentId"`
	Status    enum.OrderStatus `bun:",notnull" json:"status"`
	SubjectID string           `bun:",notnull" json:"subjectId"`
	GoalID    string           `bun:",notnull" json:"goalId"`

	// Free-text place descriptors as entered by the student; canonicalized
	// into lesson formats by the matching engine.
	PlaceDescriptors []string `bun:"place_descriptors,array" json:"placeDescriptors"`

	Region          string   `bun:",notnull"                json:"region"`
	TripAreaIDs     []string `bun:"trip_area_ids,array"     json:"tripAreaIds"`
	HomeLocationIDs []string `bun:"home_location_ids,array" json:"homeLocationIds"`

	// PriceTier is the ordinal 1-3 cost band selector.
	PriceTier int `bun:",notnull" json:"priceTier"`

	PublishedAt time.Time `bun:",notnull" json:"publishedAt"`
	CreatedAt   time.Time `bun:",notnull" json:"createdAt"`
}
