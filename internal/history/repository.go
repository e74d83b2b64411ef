package history

import (
	"context"

	"github.com/routespark/forecast-service/internal/model"
)

type Repository interface {
	// FindRecentLineItems returns every line item from the most recent
	// lookbackCycles finalized orders for (route, schedule). The window is
	// bounded by order count, not by date, so share computation sees the
	// same number of cycles regardless of gaps in the calendar.
	FindRecentLineItems(ctx context.Context, routeNumber, scheduleKey string, lookbackCycles int) ([]model.HistoricalOrderRecord, error)
}
