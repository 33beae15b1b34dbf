package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/productPach/tutorio-backend-sub000/internal/database/dbretry"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// OrderModel handles database operations for orders.
type OrderModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewOrder creates a new OrderModel.
func NewOrder(db *bun.DB, logger *zap.Logger) *OrderModel {
	return &OrderModel{
		db:     db,
		logger: logger.Named("db_order"),
	}
}

// GetByID retrieves an order. Returns types.ErrOrderNotFound when the order
// does not exist.
func (r *OrderModel) GetByID(ctx context.Context, orderID string) (*types.Order, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Order, error) {
		var order types.Order

		err := r.db.NewSelect().
			Model(&order).
			Where("id = ?", orderID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrOrderNotFound
			}

			return nil, fmt.Errorf("failed to get order: %w", err)
		}

		return &order, nil
	})
}
