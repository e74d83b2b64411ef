package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/routespark/forecast-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) SaveRun(ctx context.Context, run *model.ForecastRun) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	batches := append([]*model.ForecastBatch{run.Primary}, run.Redirected...)
	for _, batch := range batches {
		if batch == nil {
			continue
		}
		if err := r.replaceBatch(ctx, tx, batch); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) replaceBatch(ctx context.Context, tx *sqlx.Tx, batch *model.ForecastBatch) error {
	// Scope the delete by origin so a redirected batch never wipes the
	// target cycle's own engine output.
	origin := ""
	if len(batch.Items) > 0 && batch.Items[0].OriginScheduleKey != nil {
		origin = *batch.Items[0].OriginScheduleKey
	}

	var err error
	if origin == "" {
		_, err = tx.ExecContext(ctx, `
            DELETE FROM forecast_line_items
            WHERE route_number = $1 AND schedule_key = $2 AND delivery_date = $3
              AND source = $4 AND origin_schedule_key IS NULL
        `, batch.RouteNumber, batch.ScheduleKey, batch.DeliveryDate, model.SourceEngine)
	} else {
		_, err = tx.ExecContext(ctx, `
            DELETE FROM forecast_line_items
            WHERE route_number = $1 AND schedule_key = $2 AND delivery_date = $3
              AND source = $4 AND origin_schedule_key = $5
        `, batch.RouteNumber, batch.ScheduleKey, batch.DeliveryDate, model.SourceEngine, origin)
	}
	if err != nil {
		return err
	}

	query := `
        INSERT INTO forecast_line_items (
            line_id, batch_id, route_number, schedule_key, delivery_date,
            store_id, store_name, sap, product_name,
            recommended_units, recommended_cases, source, origin_schedule_key,
            generated_at
        )
        VALUES (
            :line_id, :batch_id, :route_number, :schedule_key, :delivery_date,
            :store_id, :store_name, :sap, :product_name,
            :recommended_units, :recommended_cases, :source, :origin_schedule_key,
            :generated_at
        )
    `
	for i := range batch.Items {
		row := lineItemRow{
			ForecastLineItem: batch.Items[i],
			GeneratedAt:      batch.GeneratedAt,
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return err
		}
	}
	return nil
}

type lineItemRow struct {
	model.ForecastLineItem
	GeneratedAt time.Time `db:"generated_at"`
}

func (r *PGRepository) FindBatch(ctx context.Context, routeNumber, scheduleKey string, deliveryDate time.Time) (*model.ForecastBatch, error) {
	var rows []lineItemRow
	query := `
        SELECT line_id, batch_id, route_number, schedule_key, delivery_date,
               store_id, store_name, sap, product_name,
               recommended_units, recommended_cases, source, origin_schedule_key,
               generated_at
        FROM forecast_line_items
        WHERE route_number = $1 AND schedule_key = $2 AND delivery_date = $3
        ORDER BY store_id, sap
    `
	err := r.DB.SelectContext(ctx, &rows, query, routeNumber, scheduleKey, deliveryDate)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	batch := &model.ForecastBatch{
		ID:           rows[0].BatchID,
		RouteNumber:  routeNumber,
		ScheduleKey:  scheduleKey,
		DeliveryDate: deliveryDate,
		GeneratedAt:  rows[0].GeneratedAt,
		Items:        make([]model.ForecastLineItem, 0, len(rows)),
	}
	for _, row := range rows {
		batch.Items = append(batch.Items, row.ForecastLineItem)
	}
	return batch, nil
}
