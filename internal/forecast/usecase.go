package forecast

import (
	"context"
	"time"

	"github.com/routespark/forecast-service/internal/forecast/dto"
	"github.com/routespark/forecast-service/internal/model"
)

type UseCase interface {
	// GenerateForecast runs the demand allocation engine for one order
	// cycle. Data anomalies skip individual products; upstream read
	// failures and invariant violations fail the whole run with no
	// partial output.
	GenerateForecast(ctx context.Context, input *dto.GenerateForecastInput) (*model.ForecastRun, error)

	// GetForecast returns the stored batch for one cycle, cache first.
	GetForecast(ctx context.Context, routeNumber, scheduleKey string, deliveryDate time.Time) (*model.ForecastBatch, error)
}
