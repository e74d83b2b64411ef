package dto

import "time"

// GenerateForecastInput identifies the order cycle to forecast.
type GenerateForecastInput struct {
	RouteNumber string
	// ScheduleKey selects the cycle directly. When empty, the cycle is
	// resolved from the delivery date's weekday.
	ScheduleKey  string
	DeliveryDate time.Time
	// LookbackCycles overrides the configured share window when positive.
	LookbackCycles int
}
