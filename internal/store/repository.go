package store

import (
	"context"

	"github.com/routespark/forecast-service/internal/model"
)

type Repository interface {
	// FindActiveStores returns the active stores on a route with their
	// delivery-day sets parsed.
	FindActiveStores(ctx context.Context, routeNumber string) ([]model.Store, error)

	// FindActiveStoreItems returns the active (store, sap) memberships for
	// a route.
	FindActiveStoreItems(ctx context.Context, routeNumber string) ([]model.StoreItem, error)
}
