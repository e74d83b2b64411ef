package schedule

import (
	"context"

	"github.com/routespark/forecast-service/internal/model"
)

type Repository interface {
	// FindOrderCycles returns the active order cycles configured for a
	// route, ordered by order day.
	FindOrderCycles(ctx context.Context, routeNumber string) ([]model.OrderCycle, error)
}
