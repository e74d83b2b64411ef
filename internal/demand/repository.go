package demand

import (
	"context"
	"time"

	"github.com/routespark/forecast-service/internal/model"
)

type Repository interface {
	// FindPredictions returns the external model's raw per-store demand
	// for one (route, schedule, delivery date), keyed by SAP then store.
	// Values are opaque inputs; the engine clamps negatives to zero.
	FindPredictions(ctx context.Context, routeNumber, scheduleKey string, deliveryDate time.Time) (model.DemandSet, error)
}
