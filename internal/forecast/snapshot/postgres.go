package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/routespark/forecast-service/internal/catalog"
	catalogRepo "github.com/routespark/forecast-service/internal/catalog/repository"
	"github.com/routespark/forecast-service/internal/demand"
	demandRepo "github.com/routespark/forecast-service/internal/demand/repository"
	"github.com/routespark/forecast-service/internal/forecast"
	"github.com/routespark/forecast-service/internal/history"
	historyRepo "github.com/routespark/forecast-service/internal/history/repository"
	"github.com/routespark/forecast-service/internal/schedule"
	scheduleRepo "github.com/routespark/forecast-service/internal/schedule/repository"
	"github.com/routespark/forecast-service/internal/store"
	storeRepo "github.com/routespark/forecast-service/internal/store/repository"
)

// PGSource produces repeatable-read snapshots over one Postgres handle.
type PGSource struct {
	DB *sqlx.DB
}

func NewPGSource(db *sqlx.DB) *PGSource {
	return &PGSource{DB: db}
}

func (s *PGSource) Acquire(ctx context.Context) (forecast.Snapshot, error) {
	tx, err := s.DB.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot tx: %w", err)
	}
	return &pgSnapshot{tx: tx}, nil
}

type pgSnapshot struct {
	tx *sqlx.Tx
}

func (s *pgSnapshot) Catalog() catalog.Repository    { return catalogRepo.NewPGRepository(s.tx) }
func (s *pgSnapshot) Stores() store.Repository       { return storeRepo.NewPGRepository(s.tx) }
func (s *pgSnapshot) Schedules() schedule.Repository { return scheduleRepo.NewPGRepository(s.tx) }
func (s *pgSnapshot) History() history.Repository    { return historyRepo.NewPGRepository(s.tx) }
func (s *pgSnapshot) Demand() demand.Repository      { return demandRepo.NewPGRepository(s.tx) }

func (s *pgSnapshot) Close() error {
	// Read-only view; rollback releases it.
	return s.tx.Rollback()
}
