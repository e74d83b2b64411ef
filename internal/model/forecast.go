package model

import "time"

// SourceEngine tags line items produced by the allocation engine. The
// persistence layer only ever replaces rows with this tag, so rows written
// by other producers survive a regeneration.
const SourceEngine = "engine"

// ShareTable maps store id to that store's fraction of a product's recent
// order volume. Shares over stores with history sum to 1; an empty table
// means the product has no usable history.
type ShareTable map[string]float64

// DemandSet holds the raw per-store demand predictions for one run,
// keyed by SAP then store id.
type DemandSet map[string]map[string]float64

// Allocation maps store id to whole units for one product. Values are
// non-negative and sum to the case-rounded total.
type Allocation map[string]int

// ForecastLineItem is one recommended order line. Derived, never mutated
// after assembly.
type ForecastLineItem struct {
	ID               string    `db:"line_id"`
	BatchID          string    `db:"batch_id"`
	RouteNumber      string    `db:"route_number"`
	ScheduleKey      string    `db:"schedule_key"`
	DeliveryDate     time.Time `db:"delivery_date"`
	StoreID          string    `db:"store_id"`
	StoreName        string    `db:"store_name"`
	SAP              string    `db:"sap"`
	ProductName      string    `db:"product_name"`
	RecommendedUnits int       `db:"recommended_units"`
	RecommendedCases int       `db:"recommended_cases"`
	Source           string    `db:"source"`
	// OriginScheduleKey is set when the line was redirected from another
	// cycle by delivery-day routing.
	OriginScheduleKey *string `db:"origin_schedule_key"`
}

// ForecastBatch is the immutable output of one run for one
// (route, schedule, delivery date) triple.
type ForecastBatch struct {
	ID           string             `db:"batch_id"`
	RouteNumber  string             `db:"route_number"`
	ScheduleKey  string             `db:"schedule_key"`
	DeliveryDate time.Time          `db:"delivery_date"`
	GeneratedAt  time.Time          `db:"generated_at"`
	Items        []ForecastLineItem `db:"-"`
}

// ForecastRun is everything one engine invocation produced: the batch for
// the requested cycle plus any batches created by delivery-day redirects.
type ForecastRun struct {
	Primary    *ForecastBatch
	Redirected []*ForecastBatch

	// SkippedSAPs lists products dropped by the skip rules (zero demand,
	// no carrying store). Observable in logs, silent to the end user.
	SkippedSAPs []string
	// ExcludedStoreIDs lists stores with no eligible cycle for this run.
	ExcludedStoreIDs []string
}
