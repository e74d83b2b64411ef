package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/routespark/forecast-service/config"
	"github.com/routespark/forecast-service/internal/forecast"
	"github.com/routespark/forecast-service/internal/forecast/dto"
	forecastRepoPkg "github.com/routespark/forecast-service/internal/forecast/repository"
	forecastSnapshotPkg "github.com/routespark/forecast-service/internal/forecast/snapshot"
	forecastUCPkg "github.com/routespark/forecast-service/internal/forecast/usecase"
	"github.com/routespark/forecast-service/internal/model"
	"github.com/routespark/forecast-service/pkg/database/postgres"
	"github.com/routespark/forecast-service/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:   "forecastctl",
		Short: "One-shot demand allocation runs against the live database",
	}
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newShowCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		route        string
		scheduleKey  string
		deliveryDate string
		lookback     int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the forecast batch for one order cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", deliveryDate)
			if err != nil {
				return fmt.Errorf("invalid --delivery-date: %w", err)
			}

			uc, cleanup, err := buildUseCase()
			if err != nil {
				return err
			}
			defer cleanup()

			run, err := uc.GenerateForecast(cmd.Context(), &dto.GenerateForecastInput{
				RouteNumber:    route,
				ScheduleKey:    scheduleKey,
				DeliveryDate:   date,
				LookbackCycles: lookback,
			})
			if err != nil {
				return err
			}

			printBatch(run.Primary)
			for _, batch := range run.Redirected {
				fmt.Printf("\nredirected to %s (%s):\n", batch.ScheduleKey, batch.DeliveryDate.Format("2006-01-02"))
				printBatch(batch)
			}
			if len(run.SkippedSAPs) > 0 {
				fmt.Printf("\nskipped products: %v\n", run.SkippedSAPs)
			}
			if len(run.ExcludedStoreIDs) > 0 {
				fmt.Printf("excluded stores: %v\n", run.ExcludedStoreIDs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&route, "route", "", "route number (required)")
	cmd.Flags().StringVar(&scheduleKey, "schedule", "", "schedule key; resolved from the delivery date when omitted")
	cmd.Flags().StringVar(&deliveryDate, "delivery-date", "", "target delivery date YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "override the share lookback window (cycles)")
	_ = cmd.MarkFlagRequired("route")
	_ = cmd.MarkFlagRequired("delivery-date")
	return cmd
}

func newShowCmd() *cobra.Command {
	var (
		route        string
		scheduleKey  string
		deliveryDate string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a stored forecast batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", deliveryDate)
			if err != nil {
				return fmt.Errorf("invalid --delivery-date: %w", err)
			}

			uc, cleanup, err := buildUseCase()
			if err != nil {
				return err
			}
			defer cleanup()

			batch, err := uc.GetForecast(cmd.Context(), route, scheduleKey, date)
			if err != nil {
				return err
			}
			if batch == nil {
				fmt.Println("no forecast batch found")
				return nil
			}
			printBatch(batch)
			return nil
		},
	}

	cmd.Flags().StringVar(&route, "route", "", "route number (required)")
	cmd.Flags().StringVar(&scheduleKey, "schedule", "", "schedule key (required)")
	cmd.Flags().StringVar(&deliveryDate, "delivery-date", "", "delivery date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("route")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("delivery-date")
	return cmd
}

func buildUseCase() (forecast.UseCase, func(), error) {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment: true,
		Encoding:      "console",
		Level:         "warn",
	})

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}

	snapshots := forecastSnapshotPkg.NewPGSource(db)
	repo := forecastRepoPkg.NewPGRepository(db)
	// The CLI talks straight to Postgres; no Redis cache.
	uc := forecastUCPkg.NewForecastUseCase(snapshots, repo, nil, cfg.Forecast, appLogger)

	cleanup := func() {
		db.Close()
		_ = appLogger.Sync()
	}
	return uc, cleanup, nil
}

func printBatch(batch *model.ForecastBatch) {
	fmt.Printf("batch %s  route=%s schedule=%s delivery=%s items=%d\n",
		batch.ID, batch.RouteNumber, batch.ScheduleKey,
		batch.DeliveryDate.Format("2006-01-02"), len(batch.Items))
	for _, item := range batch.Items {
		tag := ""
		if item.OriginScheduleKey != nil {
			tag = fmt.Sprintf("  (from %s)", *item.OriginScheduleKey)
		}
		fmt.Printf("  %-12s %-8s units=%-5d cases=%-4d %s%s\n",
			item.StoreName, item.SAP, item.RecommendedUnits, item.RecommendedCases, item.Source, tag)
	}
}
