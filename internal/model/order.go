package model

import "time"

// HistoricalOrderRecord is one store-level line item from a finalized
// order. Append-only; the engine only ever reads a bounded recent window.
type HistoricalOrderRecord struct {
	LineItemID   string    `db:"line_item_id"`
	OrderID      string    `db:"order_id"`
	RouteNumber  string    `db:"route_number"`
	ScheduleKey  string    `db:"schedule_key"`
	DeliveryDate time.Time `db:"delivery_date"`
	StoreID      string    `db:"store_id"`
	SAP          string    `db:"sap"`
	Quantity     int       `db:"quantity"`
}
