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

func (r *PGRepository) FindActiveProducts(ctx context.Context, routeNumber string) ([]model.Product, error) {
	var products []model.Product
	query := `
        SELECT sap, route_number, full_name, short_name, case_pack, tray, is_active, updated_at
        FROM product_catalog
        WHERE route_number = $1 AND is_active = TRUE
        ORDER BY sap
    `
	err := sqlx.SelectContext(ctx, r.DB, &products, query, routeNumber)
	if err != nil {
		return nil, err
	}
	return products, nil
}
