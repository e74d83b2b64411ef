package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/routespark/forecast-service/config"
	"github.com/routespark/forecast-service/internal/forecast"
	"github.com/routespark/forecast-service/internal/forecast/allocator"
	"github.com/routespark/forecast-service/internal/forecast/dto"
	"github.com/routespark/forecast-service/internal/forecast/router"
	"github.com/routespark/forecast-service/internal/forecast/shares"
	"github.com/routespark/forecast-service/internal/model"
	"github.com/routespark/forecast-service/internal/schedule"
	"github.com/routespark/forecast-service/pkg/logger"
)

type forecastUseCase struct {
	snapshots forecast.SnapshotSource
	repo      forecast.Repository
	cache     forecast.Cache
	cfg       config.ForecastConfig
	logger    logger.ZapLogger
}

func NewForecastUseCase(
	snapshots forecast.SnapshotSource,
	repo forecast.Repository,
	cache forecast.Cache,
	cfg config.ForecastConfig,
	log logger.ZapLogger,
) forecast.UseCase {
	return &forecastUseCase{
		snapshots: snapshots,
		repo:      repo,
		cache:     cache,
		cfg:       cfg,
		logger:    log,
	}
}

// snapshotData holds every collaborator read for one run. All reads happen
// against one snapshot before the pure compute phase starts.
type snapshotData struct {
	products []model.Product
	stores   []model.Store
	items    []model.StoreItem
	cycles   []model.OrderCycle
	history  []model.HistoricalOrderRecord
	demand   model.DemandSet
}

func (uc *forecastUseCase) GenerateForecast(ctx context.Context, input *dto.GenerateForecastInput) (*model.ForecastRun, error) {
	if input.RouteNumber == "" {
		return nil, errors.New("route number is required")
	}
	if input.DeliveryDate.IsZero() {
		return nil, errors.New("delivery date is required")
	}

	data, cycle, err := uc.loadSnapshot(ctx, input)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("starting forecast run",
		zap.String("route", input.RouteNumber),
		zap.String("schedule_key", cycle.ScheduleKey),
		zap.Time("delivery_date", input.DeliveryDate),
		zap.Int("products", len(data.products)),
		zap.Int("stores", len(data.stores)),
		zap.Int("demand_saps", len(data.demand)),
	)

	shareTables := shares.Calculate(data.history)

	results, skipped, err := uc.computeAllocations(ctx, data, shareTables)
	if err != nil {
		return nil, err
	}

	run := uc.assemble(input.RouteNumber, cycle, input.DeliveryDate, data, results, skipped)

	if err := uc.repo.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("persist forecast run: %w", err)
	}
	uc.cacheRun(ctx, run)

	uc.logger.Info("forecast run complete",
		zap.String("route", input.RouteNumber),
		zap.String("schedule_key", cycle.ScheduleKey),
		zap.Int("line_items", len(run.Primary.Items)),
		zap.Int("redirected_batches", len(run.Redirected)),
		zap.Int("skipped_products", len(run.SkippedSAPs)),
		zap.Int("excluded_stores", len(run.ExcludedStoreIDs)),
	)
	return run, nil
}

func (uc *forecastUseCase) loadSnapshot(ctx context.Context, input *dto.GenerateForecastInput) (*snapshotData, *model.OrderCycle, error) {
	snap, err := uc.snapshots.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire snapshot: %w", err)
	}
	defer snap.Close()

	cycles, err := snap.Schedules().FindOrderCycles(ctx, input.RouteNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("load order cycles: %w", err)
	}
	cycle, err := resolveCycle(cycles, input.ScheduleKey, input.DeliveryDate)
	if err != nil {
		return nil, nil, err
	}

	products, err := snap.Catalog().FindActiveProducts(ctx, input.RouteNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	stores, err := snap.Stores().FindActiveStores(ctx, input.RouteNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("load stores: %w", err)
	}
	items, err := snap.Stores().FindActiveStoreItems(ctx, input.RouteNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("load store items: %w", err)
	}

	lookback := input.LookbackCycles
	if lookback <= 0 {
		lookback = uc.cfg.LookbackCycles
	}
	history, err := snap.History().FindRecentLineItems(ctx, input.RouteNumber, cycle.ScheduleKey, lookback)
	if err != nil {
		return nil, nil, fmt.Errorf("load order history: %w", err)
	}

	demand, err := snap.Demand().FindPredictions(ctx, input.RouteNumber, cycle.ScheduleKey, input.DeliveryDate)
	if err != nil {
		return nil, nil, fmt.Errorf("load demand predictions: %w", err)
	}

	return &snapshotData{
		products: products,
		stores:   stores,
		items:    items,
		cycles:   cycles,
		history:  history,
		demand:   demand,
	}, cycle, nil
}

func resolveCycle(cycles []model.OrderCycle, scheduleKey string, deliveryDate time.Time) (*model.OrderCycle, error) {
	if len(cycles) == 0 {
		return nil, errors.New("no order cycles configured for route")
	}
	if scheduleKey != "" {
		for i := range cycles {
			if cycles[i].ScheduleKey == scheduleKey {
				return &cycles[i], nil
			}
		}
		return nil, fmt.Errorf("no order cycle with schedule key %q", scheduleKey)
	}

	day := schedule.WeekdayNum(deliveryDate)
	for i := range cycles {
		// Load-day match covers stores that ride the truck on load day.
		if cycles[i].DeliveryDay == day || cycles[i].LoadDay == day {
			return &cycles[i], nil
		}
	}
	return nil, fmt.Errorf("no order cycle delivers on %s", schedule.DayName(day))
}

// productResult is the per-product output of the pure compute phase.
type productResult struct {
	sap      string
	product  *model.Product
	casePack int
	alloc    model.Allocation
}

// computeAllocations runs aggregate → round → allocate per product.
// Products are independent; work is spread over a bounded worker set, each
// writing only its own slot.
func (uc *forecastUseCase) computeAllocations(
	ctx context.Context,
	data *snapshotData,
	shareTables map[string]model.ShareTable,
) ([]*productResult, []string, error) {
	saps := make([]string, 0, len(data.demand))
	for sap := range data.demand {
		saps = append(saps, sap)
	}
	sort.Strings(saps)

	productBySAP := make(map[string]*model.Product, len(data.products))
	for i := range data.products {
		productBySAP[data.products[i].SAP] = &data.products[i]
	}
	activeStores := make(map[string]bool, len(data.stores))
	for i := range data.stores {
		activeStores[data.stores[i].StoreID] = true
	}
	carrying := make(map[string]map[string]bool)
	for _, item := range data.items {
		if !activeStores[item.StoreID] {
			continue
		}
		byStore, ok := carrying[item.SAP]
		if !ok {
			byStore = make(map[string]bool)
			carrying[item.SAP] = byStore
		}
		byStore[item.StoreID] = true
	}

	results := make([]*productResult, len(saps))
	errs := make([]error, len(saps))

	workers := uc.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(saps) {
		workers = len(saps)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					errs[idx] = ctx.Err()
					continue
				}
				results[idx], errs[idx] = uc.computeProduct(
					saps[idx],
					data.demand[saps[idx]],
					productBySAP[saps[idx]],
					activeStores,
					carrying[saps[idx]],
					shareTables[saps[idx]],
				)
			}
		}()
	}
	for idx := range saps {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var skipped []string
	for idx, err := range errs {
		if err != nil {
			return nil, nil, err
		}
		if results[idx] == nil {
			skipped = append(skipped, saps[idx])
		}
	}
	return results, skipped, nil
}

// computeProduct returns (nil, nil) when the product is skipped by the
// data-anomaly rules; only invariant violations surface as errors.
func (uc *forecastUseCase) computeProduct(
	sap string,
	predictions map[string]float64,
	product *model.Product,
	activeStores map[string]bool,
	carriedBy map[string]bool,
	shareTable model.ShareTable,
) (*productResult, error) {
	total := allocator.TotalDemand(predictions)
	if total <= 0 {
		uc.logger.Debug("skipping product with zero demand", zap.String("sap", sap))
		return nil, nil
	}

	if product == nil {
		uc.logger.Warn("skipping product missing from catalog", zap.String("sap", sap))
		return nil, nil
	}

	casePack, ok := product.EffectiveCasePack()
	if !ok {
		uc.logger.Warn("invalid case pack, treating as 1",
			zap.String("sap", sap),
			zap.Int("case_pack", product.CasePack),
		)
	}

	candidates := make([]string, 0, len(carriedBy)+len(predictions))
	seen := make(map[string]bool)
	for storeID := range carriedBy {
		if !seen[storeID] {
			seen[storeID] = true
			candidates = append(candidates, storeID)
		}
	}
	for storeID, units := range predictions {
		if units > 0 && activeStores[storeID] && !seen[storeID] {
			seen[storeID] = true
			candidates = append(candidates, storeID)
		}
	}
	if len(candidates) == 0 {
		uc.logger.Warn("skipping product with demand but no carrying store", zap.String("sap", sap))
		return nil, nil
	}
	sort.Strings(candidates)

	_, units := allocator.RoundToCases(total, casePack)

	alloc, err := allocator.Allocate(units, candidates, shareTable)
	if err != nil {
		return nil, fmt.Errorf("allocate sap %s: %w", sap, err)
	}

	return &productResult{
		sap:      sap,
		product:  product,
		casePack: casePack,
		alloc:    alloc,
	}, nil
}

// assemble routes each store's allocation to its cycle and joins in
// catalog and store metadata. Zero-unit allocations produce no line items.
func (uc *forecastUseCase) assemble(
	routeNumber string,
	cycle *model.OrderCycle,
	deliveryDate time.Time,
	data *snapshotData,
	results []*productResult,
	skipped []string,
) *model.ForecastRun {
	now := time.Now().UTC()

	storeByID := make(map[string]*model.Store, len(data.stores))
	for i := range data.stores {
		storeByID[data.stores[i].StoreID] = &data.stores[i]
	}

	rt := router.New(data.cycles)
	decisions := make(map[string]router.Decision, len(data.stores))
	var excluded []string
	for i := range data.stores {
		st := &data.stores[i]
		decision := rt.Route(st, cycle, deliveryDate)
		decisions[st.StoreID] = decision
		switch decision.State {
		case router.Redirected:
			uc.logger.Info("store redirected to another cycle",
				zap.String("store_id", st.StoreID),
				zap.String("from_schedule", cycle.ScheduleKey),
				zap.String("to_schedule", decision.Cycle.ScheduleKey),
				zap.Time("to_delivery_date", decision.DeliveryDate),
			)
		case router.Excluded:
			excluded = append(excluded, st.StoreID)
			uc.logger.Warn("store has no eligible cycle, dropping its items",
				zap.String("store_id", st.StoreID),
				zap.Strings("delivery_days", st.DeliveryDays),
				zap.String("target_weekday", schedule.WeekdayKey(deliveryDate)),
			)
		}
	}

	primary := &model.ForecastBatch{
		ID:           uuid.New().String(),
		RouteNumber:  routeNumber,
		ScheduleKey:  cycle.ScheduleKey,
		DeliveryDate: deliveryDate,
		GeneratedAt:  now,
	}
	redirectBatches := make(map[string]*model.ForecastBatch)

	for _, res := range results {
		if res == nil {
			continue
		}
		storeIDs := make([]string, 0, len(res.alloc))
		for storeID := range res.alloc {
			storeIDs = append(storeIDs, storeID)
		}
		sort.Strings(storeIDs)

		for _, storeID := range storeIDs {
			units := res.alloc[storeID]
			if units <= 0 {
				continue
			}
			st := storeByID[storeID]
			if st == nil {
				continue
			}

			decision := decisions[storeID]
			switch decision.State {
			case router.Eligible:
				primary.Items = append(primary.Items, model.ForecastLineItem{
					ID:               uuid.New().String(),
					BatchID:          primary.ID,
					RouteNumber:      routeNumber,
					ScheduleKey:      primary.ScheduleKey,
					DeliveryDate:     primary.DeliveryDate,
					StoreID:          storeID,
					StoreName:        st.StoreName,
					SAP:              res.sap,
					ProductName:      res.product.FullName,
					RecommendedUnits: units,
					RecommendedCases: units / res.casePack,
					Source:           model.SourceEngine,
				})
			case router.Redirected:
				target := redirectBatches[decision.Cycle.ScheduleKey]
				if target == nil {
					target = &model.ForecastBatch{
						ID:           uuid.New().String(),
						RouteNumber:  routeNumber,
						ScheduleKey:  decision.Cycle.ScheduleKey,
						DeliveryDate: decision.DeliveryDate,
						GeneratedAt:  now,
					}
					redirectBatches[decision.Cycle.ScheduleKey] = target
				}
				origin := cycle.ScheduleKey
				target.Items = append(target.Items, model.ForecastLineItem{
					ID:                uuid.New().String(),
					BatchID:           target.ID,
					RouteNumber:       routeNumber,
					ScheduleKey:       target.ScheduleKey,
					DeliveryDate:      target.DeliveryDate,
					StoreID:           storeID,
					StoreName:         st.StoreName,
					SAP:               res.sap,
					ProductName:       res.product.FullName,
					RecommendedUnits:  units,
					RecommendedCases:  units / res.casePack,
					Source:            model.SourceEngine,
					OriginScheduleKey: &origin,
				})
			case router.Excluded:
				// Already logged at store level.
			}
		}
	}

	run := &model.ForecastRun{
		Primary:          primary,
		SkippedSAPs:      skipped,
		ExcludedStoreIDs: excluded,
	}
	redirectKeys := make([]string, 0, len(redirectBatches))
	for key := range redirectBatches {
		redirectKeys = append(redirectKeys, key)
	}
	sort.Strings(redirectKeys)
	for _, key := range redirectKeys {
		run.Redirected = append(run.Redirected, redirectBatches[key])
	}
	return run
}

// cacheRun refreshes the cache entry for every cycle the run touched. A
// cycle's stored batch is the union of its native items and items
// redirected into it by other runs, so the payload is re-read from the
// repository rather than built from this run's partial view; caching the
// run's own batches would clobber a redirect target's full batch.
func (uc *forecastUseCase) cacheRun(ctx context.Context, run *model.ForecastRun) {
	if uc.cache == nil {
		return
	}
	batches := append([]*model.ForecastBatch{run.Primary}, run.Redirected...)
	ttl := time.Duration(uc.cfg.CacheTTLSeconds) * time.Second
	for _, batch := range batches {
		key := batchCacheKey(batch.RouteNumber, batch.ScheduleKey, batch.DeliveryDate)

		merged, err := uc.repo.FindBatch(ctx, batch.RouteNumber, batch.ScheduleKey, batch.DeliveryDate)
		if err != nil || merged == nil {
			if delErr := uc.cache.Del(ctx, key); delErr != nil {
				uc.logger.Error("failed to invalidate forecast batch cache", zap.String("key", key), zap.Error(delErr))
			}
			continue
		}
		data, err := json.Marshal(merged)
		if err != nil {
			continue
		}
		if err := uc.cache.Set(ctx, key, data, ttl); err != nil {
			uc.logger.Error("failed to cache forecast batch", zap.String("key", key), zap.Error(err))
		}
	}
}

func (uc *forecastUseCase) GetForecast(ctx context.Context, routeNumber, scheduleKey string, deliveryDate time.Time) (*model.ForecastBatch, error) {
	key := batchCacheKey(routeNumber, scheduleKey, deliveryDate)
	if uc.cache != nil {
		if val, err := uc.cache.Get(ctx, key); err == nil {
			var batch model.ForecastBatch
			if err := json.Unmarshal([]byte(val), &batch); err == nil {
				return &batch, nil
			}
		}
	}

	batch, err := uc.repo.FindBatch(ctx, routeNumber, scheduleKey, deliveryDate)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}

	if uc.cache != nil {
		if data, err := json.Marshal(batch); err == nil {
			ttl := time.Duration(uc.cfg.CacheTTLSeconds) * time.Second
			if err := uc.cache.Set(ctx, key, data, ttl); err != nil {
				uc.logger.Error("failed to cache forecast batch", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return batch, nil
}

func batchCacheKey(routeNumber, scheduleKey string, deliveryDate time.Time) string {
	return fmt.Sprintf("forecast:%s:%s:%s", routeNumber, scheduleKey, deliveryDate.Format("2006-01-02"))
}
