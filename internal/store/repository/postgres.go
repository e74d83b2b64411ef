package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/routespark/forecast-service/internal/model"
)

type PGRepository struct {
	DB sqlx.ExtContext
}

func NewPGRepository(db sqlx.ExtContext) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindActiveStores(ctx context.Context, routeNumber string) ([]model.Store, error) {
	var stores []model.Store
	query := `
        SELECT store_id, route_number, store_name, delivery_days, is_active
        FROM stores
        WHERE route_number = $1 AND is_active = TRUE
        ORDER BY store_id
    `
	err := sqlx.SelectContext(ctx, r.DB, &stores, query, routeNumber)
	if err != nil {
		return nil, err
	}

	for i := range stores {
		stores[i].DeliveryDays = splitDeliveryDays(stores[i].RawDeliveryDays)
	}
	return stores, nil
}

func (r *PGRepository) FindActiveStoreItems(ctx context.Context, routeNumber string) ([]model.StoreItem, error) {
	var items []model.StoreItem
	query := `
        SELECT store_id, route_number, sap, is_active
        FROM store_items
        WHERE route_number = $1 AND is_active = TRUE
        ORDER BY store_id, sap
    `
	err := sqlx.SelectContext(ctx, r.DB, &items, query, routeNumber)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// delivery_days is stored as a comma-separated list of weekday names.
func splitDeliveryDays(raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	parts := strings.Split(*raw, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			days = append(days, p)
		}
	}
	return days
}
