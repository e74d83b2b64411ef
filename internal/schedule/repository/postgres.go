package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/routespark/forecast-service/internal/model"
)

type PGRepository struct {
	DB sqlx.ExtContext
}

func NewPGRepository(db sqlx.ExtContext) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindOrderCycles(ctx context.Context, routeNumber string) ([]model.OrderCycle, error) {
	var cycles []model.OrderCycle
	query := `
        SELECT id, route_number, schedule_key, order_day, load_day, delivery_day, is_active
        FROM user_schedules
        WHERE route_number = $1 AND is_active = TRUE
        ORDER BY order_day
    `
	err := sqlx.SelectContext(ctx, r.DB, &cycles, query, routeNumber)
	if err != nil {
		return nil, err
	}
	return cycles, nil
}
