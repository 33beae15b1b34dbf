package database

import (
	"github.com/productPach/tutorio-backend-sub000/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	tutor      *models.TutorModel
	order      *models.OrderModel
	engagement *models.EngagementModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		tutor:      models.NewTutor(db, logger),
		order:      models.NewOrder(db, logger),
		engagement: models.NewEngagement(db, logger),
	}
}

// Tutor returns the tutor model repository.
func (r *Repository) Tutor() *models.TutorModel {
	return r.tutor
}

// Order returns the order model repository.
func (r *Repository) Order() *models.OrderModel {
	return r.order
}

// Engagement returns the chat and contract model repository.
func (r *Repository) Engagement() *models.EngagementModel {
	return r.engagement
}
