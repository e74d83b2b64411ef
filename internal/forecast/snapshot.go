package forecast

import (
	"context"

	"github.com/routespark/forecast-service/internal/catalog"
	"github.com/routespark/forecast-service/internal/demand"
	"github.com/routespark/forecast-service/internal/history"
	"github.com/routespark/forecast-service/internal/schedule"
	"github.com/routespark/forecast-service/internal/store"
)

// Snapshot is one consistent read view over all collaborator inputs.
// Every read a run performs must go through the same snapshot so share
// tables and demand data cannot disagree about history.
type Snapshot interface {
	Catalog() catalog.Repository
	Stores() store.Repository
	Schedules() schedule.Repository
	History() history.Repository
	Demand() demand.Repository
	Close() error
}

// SnapshotSource hands out snapshots; the engine acquires one per run and
// closes it before the pure compute phase begins.
type SnapshotSource interface {
	Acquire(ctx context.Context) (Snapshot, error)
}
