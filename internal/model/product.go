package model

import "time"

// Product is one catalog entry for a route. Catalog data is owned by the
// upstream sync and read-only during a forecast run.
type Product struct {
	SAP         string     `db:"sap"`
	RouteNumber string     `db:"route_number"`
	FullName    string     `db:"full_name"`
	ShortName   *string    `db:"short_name"`
	CasePack    int        `db:"case_pack"`
	Tray        *int       `db:"tray"`
	IsActive    bool       `db:"is_active"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// EffectiveCasePack returns the case pack to use for rounding. A case pack
// of zero or less is treated as 1; ok reports whether the stored value was
// usable as-is.
func (p *Product) EffectiveCasePack() (casePack int, ok bool) {
	if p.CasePack <= 0 {
		return 1, false
	}
	return p.CasePack, true
}
