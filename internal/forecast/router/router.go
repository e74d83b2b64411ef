// Package router decides, per store, whether an allocation stays in the
// current order cycle, moves to another cycle, or is dropped, based on the
// store's configured delivery days. Routing runs after allocation so that
// a store's cycle membership never skews another cycle's share table.
package router

import (
	"sort"
	"time"

	"github.com/routespark/forecast-service/internal/model"
	"github.com/routespark/forecast-service/internal/schedule"
)

type State int

const (
	Eligible State = iota
	Redirected
	Excluded
)

func (s State) String() string {
	switch s {
	case Eligible:
		return "eligible"
	case Redirected:
		return "redirected"
	case Excluded:
		return "excluded"
	}
	return "unknown"
}

// Decision is the routing outcome for one store in one run.
type Decision struct {
	State State

	// Cycle and DeliveryDate are set when State is Redirected: the target
	// cycle and the concrete date its delivery lands on.
	Cycle        *model.OrderCycle
	DeliveryDate time.Time
}

type Router struct {
	cycles []model.OrderCycle
}

func New(cycles []model.OrderCycle) *Router {
	return &Router{cycles: cycles}
}

// Route resolves the state for one store against the target delivery date
// of the current cycle.
//
// A store is eligible when its delivery-day set contains the target
// weekday, or the current cycle's load day (same-day delivery stores ride
// the truck on load day). Otherwise the nearest forward cycle that serves
// one of the store's days wins; with no such cycle the store is excluded.
func (r *Router) Route(store *model.Store, current *model.OrderCycle, targetDate time.Time) Decision {
	targetDay := schedule.WeekdayNum(targetDate)

	if store.DeliversOn(schedule.DayName(targetDay)) {
		return Decision{State: Eligible}
	}
	if current != nil && store.DeliversOn(schedule.DayName(current.LoadDay)) {
		return Decision{State: Eligible}
	}

	type candidate struct {
		cycle model.OrderCycle
		days  int
	}
	var candidates []candidate
	for _, cycle := range r.cycles {
		if current != nil && cycle.ScheduleKey == current.ScheduleKey {
			continue
		}
		if !store.DeliversOn(schedule.DayName(cycle.DeliveryDay)) &&
			!store.DeliversOn(schedule.DayName(cycle.LoadDay)) {
			continue
		}
		days := schedule.DaysForward(targetDay, cycle.DeliveryDay)
		if days == 0 {
			// A different cycle delivering the same weekday lands a full
			// week out from this run's perspective.
			days = 7
		}
		candidates = append(candidates, candidate{cycle: cycle, days: days})
	}

	if len(candidates) == 0 {
		return Decision{State: Excluded}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].days != candidates[j].days {
			return candidates[i].days < candidates[j].days
		}
		return candidates[i].cycle.ScheduleKey < candidates[j].cycle.ScheduleKey
	})

	best := candidates[0]
	cycle := best.cycle
	return Decision{
		State:        Redirected,
		Cycle:        &cycle,
		DeliveryDate: targetDate.AddDate(0, 0, best.days),
	}
}
