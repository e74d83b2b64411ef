package listener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routespark/forecast-service/internal/forecast/dto"
	"github.com/routespark/forecast-service/internal/model"
	"github.com/routespark/forecast-service/pkg/logger"
)

type fakeUseCase struct {
	inputs []*dto.GenerateForecastInput
	err    error
}

func (u *fakeUseCase) GenerateForecast(_ context.Context, input *dto.GenerateForecastInput) (*model.ForecastRun, error) {
	u.inputs = append(u.inputs, input)
	if u.err != nil {
		return nil, u.err
	}
	return &model.ForecastRun{}, nil
}

func (u *fakeUseCase) GetForecast(_ context.Context, _, _ string, _ time.Time) (*model.ForecastBatch, error) {
	return nil, nil
}

func newTestListener(uc *fakeUseCase) *ForecastListener {
	return NewForecastListener(nil, uc, logger.NewNop())
}

func TestProcessMessage_DispatchesForecastRequest(t *testing.T) {
	uc := &fakeUseCase{}
	l := newTestListener(uc)

	l.processMessage(context.Background(), []byte(`{
		"event_id": "evt-1",
		"event_type": "ForecastRequested",
		"payload": {
			"route_number": "989262",
			"schedule_key": "tuesday",
			"delivery_date": "2026-01-05"
		}
	}`))

	require.Len(t, uc.inputs, 1)
	input := uc.inputs[0]
	assert.Equal(t, "989262", input.RouteNumber)
	assert.Equal(t, "tuesday", input.ScheduleKey)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), input.DeliveryDate)
}

func TestProcessMessage_DropsMalformedJSON(t *testing.T) {
	uc := &fakeUseCase{}
	l := newTestListener(uc)

	l.processMessage(context.Background(), []byte(`{not json`))

	assert.Empty(t, uc.inputs)
}

func TestProcessMessage_IgnoresOtherEventTypes(t *testing.T) {
	uc := &fakeUseCase{}
	l := newTestListener(uc)

	l.processMessage(context.Background(), []byte(`{
		"event_id": "evt-2",
		"event_type": "ProductUpdated",
		"payload": {
			"route_number": "989262",
			"delivery_date": "2026-01-05"
		}
	}`))

	assert.Empty(t, uc.inputs)
}

func TestProcessMessage_DropsInvalidDeliveryDate(t *testing.T) {
	uc := &fakeUseCase{}
	l := newTestListener(uc)

	l.processMessage(context.Background(), []byte(`{
		"event_id": "evt-3",
		"event_type": "ForecastRequested",
		"payload": {
			"route_number": "989262",
			"delivery_date": "05/01/2026"
		}
	}`))

	assert.Empty(t, uc.inputs)
}

func TestProcessMessage_EngineFailureIsLoggedNotFatal(t *testing.T) {
	uc := &fakeUseCase{err: errors.New("snapshot unavailable")}
	l := newTestListener(uc)

	l.processMessage(context.Background(), []byte(`{
		"event_id": "evt-4",
		"event_type": "ForecastRequested",
		"payload": {
			"route_number": "989262",
			"delivery_date": "2026-01-05"
		}
	}`))

	assert.Len(t, uc.inputs, 1)
}
