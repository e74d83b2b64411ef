package model

// OrderCycle is one recurring order/load/delivery day triple for a route.
// Days are 1=Monday .. 7=Sunday. ScheduleKey is the lowercase name of the
// order day and identifies the cycle's history partition.
type OrderCycle struct {
	ID          string `db:"id"`
	RouteNumber string `db:"route_number"`
	ScheduleKey string `db:"schedule_key"`
	OrderDay    int    `db:"order_day"`
	LoadDay     int    `db:"load_day"`
	DeliveryDay int    `db:"delivery_day"`
	IsActive    bool   `db:"is_active"`
}
