package catalog

import (
	"context"

	"github.com/routespark/forecast-service/internal/model"
)

type Repository interface {
	// FindActiveProducts returns every active catalog product for a route.
	FindActiveProducts(ctx context.Context, routeNumber string) ([]model.Product, error)
}
