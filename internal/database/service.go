package database

import (
	"github.com/productPach/tutorio-backend-sub000/internal/database/service"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	reputation *service.ReputationService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, logger *zap.Logger) *Service {
	return &Service{
		reputation: service.NewReputation(repository.Tutor(), repository.Engagement(), logger),
	}
}

// Reputation returns the reputation service.
func (s *Service) Reputation() *service.ReputationService {
	return s.reputation
}
