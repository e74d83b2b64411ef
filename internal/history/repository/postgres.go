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

func (r *PGRepository) FindRecentLineItems(ctx context.Context, routeNumber, scheduleKey string, lookbackCycles int) ([]model.HistoricalOrderRecord, error) {
	var records []model.HistoricalOrderRecord
	query := `
        WITH recent_orders AS (
            SELECT order_id,
                   ROW_NUMBER() OVER (ORDER BY delivery_date DESC, order_id DESC) AS rn
            FROM orders_historical
            WHERE route_number = $1
              AND schedule_key = $2
              AND status = 'finalized'
        )
        SELECT oli.line_item_id, oli.order_id, oli.route_number, oli.schedule_key,
               oli.delivery_date, oli.store_id, oli.sap, oli.quantity
        FROM order_line_items oli
        JOIN recent_orders ro ON oli.order_id = ro.order_id
        WHERE ro.rn <= $3
        ORDER BY oli.delivery_date DESC, oli.store_id, oli.sap
    `
	err := sqlx.SelectContext(ctx, r.DB, &records, query, routeNumber, scheduleKey, lookbackCycles)
	if err != nil {
		return nil, err
	}
	return records, nil
}
