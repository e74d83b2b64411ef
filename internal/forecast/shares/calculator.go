// Package shares reduces a bounded window of historical order line items
// into per-product store share tables.
package shares

import "github.com/routespark/forecast-service/internal/model"

// Calculate builds one ShareTable per SAP from the history window. For
// each product, a store's share is its summed quantity divided by the
// summed quantity across all stores. Stores with zero volume are left out
// of the table; products with zero total volume get no table at all, which
// the allocator reads as "no history".
func Calculate(records []model.HistoricalOrderRecord) map[string]model.ShareTable {
	totalsBySAP := make(map[string]map[string]int)
	for _, rec := range records {
		if rec.Quantity <= 0 {
			continue
		}
		byStore, ok := totalsBySAP[rec.SAP]
		if !ok {
			byStore = make(map[string]int)
			totalsBySAP[rec.SAP] = byStore
		}
		byStore[rec.StoreID] += rec.Quantity
	}

	tables := make(map[string]model.ShareTable, len(totalsBySAP))
	for sap, byStore := range totalsBySAP {
		grandTotal := 0
		for _, qty := range byStore {
			grandTotal += qty
		}
		if grandTotal <= 0 {
			continue
		}
		table := make(model.ShareTable, len(byStore))
		for storeID, qty := range byStore {
			if qty <= 0 {
				continue
			}
			table[storeID] = float64(qty) / float64(grandTotal)
		}
		tables[sap] = table
	}
	return tables
}
