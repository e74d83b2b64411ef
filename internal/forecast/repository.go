package forecast

import (
	"context"
	"time"

	"github.com/routespark/forecast-service/internal/model"
)

type Repository interface {
	// SaveRun persists every batch a run produced, replacing any earlier
	// engine output for the same batch scopes, in one transaction.
	SaveRun(ctx context.Context, run *model.ForecastRun) error

	// FindBatch loads the line items for one (route, schedule, delivery
	// date). Returns nil when no batch exists.
	FindBatch(ctx context.Context, routeNumber, scheduleKey string, deliveryDate time.Time) (*model.ForecastBatch, error)
}
