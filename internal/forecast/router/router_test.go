package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routespark/forecast-service/internal/model"
)

func storeWithDays(days ...string) *model.Store {
	return &model.Store{
		StoreID:      "store-1",
		StoreName:    "Test Store",
		DeliveryDays: days,
		IsActive:     true,
	}
}

func cycle(key string, orderDay, loadDay, deliveryDay int) model.OrderCycle {
	return model.OrderCycle{
		RouteNumber: "989262",
		ScheduleKey: key,
		OrderDay:    orderDay,
		LoadDay:     loadDay,
		DeliveryDay: deliveryDay,
		IsActive:    true,
	}
}

// 2026-01-05 is a Monday.
var mondayTarget = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func TestRoute_EligibleOnTargetWeekday(t *testing.T) {
	current := cycle("tuesday", 2, 7, 1)
	r := New([]model.OrderCycle{current})

	d := r.Route(storeWithDays("monday", "thursday"), &current, mondayTarget)
	assert.Equal(t, Eligible, d.State)
}

// Same-day delivery stores take their product on the load day even when
// the cycle's delivery day is not one of their configured days.
func TestRoute_EligibleOnLoadDay(t *testing.T) {
	current := cycle("tuesday", 2, 3, 1)
	r := New([]model.OrderCycle{current})

	d := r.Route(storeWithDays("wednesday"), &current, mondayTarget)
	assert.Equal(t, Eligible, d.State)
}

// A Friday-only store allocated in a Monday-delivery run moves to the
// cycle that delivers Friday, four days out.
func TestRoute_RedirectsToNearestServingCycle(t *testing.T) {
	current := cycle("tuesday", 2, 7, 1)
	thursday := cycle("thursday", 4, 5, 5)
	r := New([]model.OrderCycle{current, thursday})

	d := r.Route(storeWithDays("friday"), &current, mondayTarget)
	require.Equal(t, Redirected, d.State)
	require.NotNil(t, d.Cycle)
	assert.Equal(t, "thursday", d.Cycle.ScheduleKey)
	assert.Equal(t, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), d.DeliveryDate)
}

func TestRoute_PrefersCloserCycle(t *testing.T) {
	current := cycle("monday", 1, 7, 1)
	wednesday := cycle("tuesday", 2, 3, 3)
	saturday := cycle("friday", 5, 6, 6)
	r := New([]model.OrderCycle{current, saturday, wednesday})

	d := r.Route(storeWithDays("wednesday", "saturday"), &current, mondayTarget)
	require.Equal(t, Redirected, d.State)
	assert.Equal(t, "tuesday", d.Cycle.ScheduleKey)
	assert.Equal(t, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), d.DeliveryDate)
}

func TestRoute_TieBreaksByScheduleKey(t *testing.T) {
	current := cycle("monday", 1, 7, 1)
	a := cycle("alpha", 2, 4, 5)
	b := cycle("bravo", 3, 4, 5)
	r := New([]model.OrderCycle{current, b, a})

	d := r.Route(storeWithDays("friday"), &current, mondayTarget)
	require.Equal(t, Redirected, d.State)
	assert.Equal(t, "alpha", d.Cycle.ScheduleKey)
}

// Another cycle delivering the same weekday as the target is a week out,
// never a same-day alternative.
func TestRoute_SameWeekdayCycleIsAWeekOut(t *testing.T) {
	current := cycle("monday", 1, 7, 4)
	other := cycle("wednesday", 3, 5, 4)
	r := New([]model.OrderCycle{current, other})

	// Target Thursday 2026-01-08; store only takes Thursdays but not via
	// the current cycle's load day.
	target := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	d := r.Route(&model.Store{StoreID: "s", DeliveryDays: nil}, &current, target)
	assert.Equal(t, Excluded, d.State)

	d = r.Route(storeWithDays("thursday"), &current, target)
	// Eligible on the target weekday itself; the other cycle never enters.
	assert.Equal(t, Eligible, d.State)
}

func TestRoute_ExcludedWhenNoCycleServesStore(t *testing.T) {
	current := cycle("monday", 1, 7, 1)
	thursday := cycle("thursday", 4, 5, 5)
	r := New([]model.OrderCycle{current, thursday})

	d := r.Route(storeWithDays("saturday"), &current, mondayTarget)
	assert.Equal(t, Excluded, d.State)
	assert.Nil(t, d.Cycle)
}

func TestRoute_RedirectViaTargetCycleLoadDay(t *testing.T) {
	current := cycle("monday", 1, 7, 1)
	thursday := cycle("wednesday", 3, 4, 5)
	r := New([]model.OrderCycle{current, thursday})

	// Store takes Thursday only; the wednesday cycle loads Thursday so it
	// serves the store even though it delivers Friday.
	d := r.Route(storeWithDays("thursday"), &current, mondayTarget)
	require.Equal(t, Redirected, d.State)
	assert.Equal(t, "wednesday", d.Cycle.ScheduleKey)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "eligible", Eligible.String())
	assert.Equal(t, "redirected", Redirected.String())
	assert.Equal(t, "excluded", Excluded.String())
	assert.Equal(t, "unknown", State(99).String())
}
