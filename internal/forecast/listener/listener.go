package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/routespark/forecast-service/internal/forecast"
	"github.com/routespark/forecast-service/internal/forecast/dto"
	"github.com/routespark/forecast-service/pkg/broker"
	"github.com/routespark/forecast-service/pkg/logger"
)

// ForecastListener consumes forecast requests from Kafka and runs the
// engine for each one. It is the queue-consumer host for the engine; the
// engine itself stays a synchronous call.
type ForecastListener struct {
	consumer *broker.KafkaConsumer
	uc       forecast.UseCase
	logger   logger.ZapLogger
}

func NewForecastListener(consumer *broker.KafkaConsumer, uc forecast.UseCase, logger logger.ZapLogger) *ForecastListener {
	return &ForecastListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *ForecastListener) Start(ctx context.Context) {
	l.logger.Info("Starting Forecast Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Forecast Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type ForecastRequestedEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   RequestPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type RequestPayload struct {
	RouteNumber  string `json:"route_number"`
	ScheduleKey  string `json:"schedule_key"`
	DeliveryDate string `json:"delivery_date"`
}

func (l *ForecastListener) processMessage(ctx context.Context, value []byte) {
	var event ForecastRequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "ForecastRequested" {
		return
	}

	deliveryDate, err := time.Parse("2006-01-02", event.Payload.DeliveryDate)
	if err != nil {
		l.logger.Error("Invalid delivery date in forecast request",
			zap.String("event_id", event.EventID),
			zap.String("delivery_date", event.Payload.DeliveryDate),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("Processing ForecastRequested event",
		zap.String("event_id", event.EventID),
		zap.String("route", event.Payload.RouteNumber),
		zap.String("schedule_key", event.Payload.ScheduleKey),
	)

	input := &dto.GenerateForecastInput{
		RouteNumber:  event.Payload.RouteNumber,
		ScheduleKey:  event.Payload.ScheduleKey,
		DeliveryDate: deliveryDate,
	}

	if _, err := l.uc.GenerateForecast(ctx, input); err != nil {
		l.logger.Error("Forecast run failed",
			zap.String("event_id", event.EventID),
			zap.String("route", event.Payload.RouteNumber),
			zap.Error(err),
		)
	}
}
