package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/routespark/forecast-service/internal/model"
)

type PGRepository struct {
	DB sqlx.ExtContext
}

func NewPGRepository(db sqlx.ExtContext) *PGRepository {
	return &PGRepository{DB: db}
}

type predictionRow struct {
	StoreID           string    `db:"store_id"`
	SAP               string    `db:"sap"`
	PredictedQuantity float64   `db:"predicted_quantity"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r *PGRepository) FindPredictions(ctx context.Context, routeNumber, scheduleKey string, deliveryDate time.Time) (model.DemandSet, error) {
	var rows []predictionRow
	// Latest prediction per (store, sap) wins when the model has been
	// re-run for the same cycle.
	query := `
        SELECT DISTINCT ON (store_id, sap)
               store_id, sap, predicted_quantity, created_at
        FROM prediction_log
        WHERE route_number = $1
          AND schedule_key = $2
          AND delivery_date = $3
          AND predicted_quantity IS NOT NULL
        ORDER BY store_id, sap, created_at DESC
    `
	err := sqlx.SelectContext(ctx, r.DB, &rows, query, routeNumber, scheduleKey, deliveryDate)
	if err != nil {
		return nil, err
	}

	demand := make(model.DemandSet)
	for _, row := range rows {
		byStore, ok := demand[row.SAP]
		if !ok {
			byStore = make(map[string]float64)
			demand[row.SAP] = byStore
		}
		byStore[row.StoreID] = row.PredictedQuantity
	}
	return demand, nil
}
