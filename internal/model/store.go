package model

import "strings"

// Store is one delivery stop on a route. DeliveryDays holds lowercase
// weekday labels ("monday", ...) parsed from the stores table.
type Store struct {
	StoreID      string   `db:"store_id"`
	RouteNumber  string   `db:"route_number"`
	StoreName    string   `db:"store_name"`
	DeliveryDays []string `db:"-"`
	IsActive     bool     `db:"is_active"`

	// RawDeliveryDays is the comma-separated column value; split into
	// DeliveryDays by the repository.
	RawDeliveryDays *string `db:"delivery_days"`
}

// DeliversOn reports whether the store accepts deliveries on the given
// lowercase weekday label.
func (s *Store) DeliversOn(day string) bool {
	day = strings.ToLower(strings.TrimSpace(day))
	for _, d := range s.DeliveryDays {
		if strings.ToLower(strings.TrimSpace(d)) == day {
			return true
		}
	}
	return false
}

// StoreItem is the active-item membership of one SAP at one store.
type StoreItem struct {
	StoreID     string `db:"store_id"`
	RouteNumber string `db:"route_number"`
	SAP         string `db:"sap"`
	IsActive    bool   `db:"is_active"`
}
