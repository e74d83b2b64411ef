// Package allocator turns raw per-store demand for a product into
// whole-case, per-store unit allocations using floor allocation plus
// largest-remainder distribution weighted by historical share.
package allocator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/routespark/forecast-service/internal/model"
)

var (
	// ErrNoCandidates means no store currently carries the product even
	// though it has demand. Callers skip the product and log.
	ErrNoCandidates = errors.New("allocator: no candidate stores")

	// ErrInvariant means the allocation failed to sum to the rounded
	// total. This indicates a bug, not bad data.
	ErrInvariant = errors.New("allocator: allocation does not sum to total")
)

// TotalDemand sums raw predictions, clamping negatives to zero.
func TotalDemand(predictions map[string]float64) float64 {
	var total float64
	for _, units := range predictions {
		if units > 0 {
			total += units
		}
	}
	return total
}

// RoundToCases rounds demand up to the nearest whole multiple of the case
// pack. A case pack of zero or less is treated as 1.
func RoundToCases(totalDemand float64, casePack int) (cases, units int) {
	if casePack <= 0 {
		casePack = 1
	}
	if totalDemand <= 0 {
		return 0, 0
	}
	cases = int(math.Ceil(totalDemand / float64(casePack)))
	return cases, cases * casePack
}

// Allocate distributes totalUnits across the candidate stores.
//
// Each candidate's effective share is its historical share if present,
// otherwise an equal split of 1/len(candidates) so a store without history
// is not starved. Effective shares are deliberately not renormalized; when
// a mix of historical and fallback shares makes the floor sum exceed
// totalUnits, the floors are clipped proportionally before remainder
// distribution so the exact-sum invariant holds.
//
// Remainder units go one at a time to stores ordered by fractional
// remainder descending, then effective share descending, then store id
// ascending. The store-id tiebreak makes the result deterministic.
func Allocate(totalUnits int, candidates []string, shares model.ShareTable) (model.Allocation, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if totalUnits < 0 {
		return nil, fmt.Errorf("%w: negative total %d", ErrInvariant, totalUnits)
	}

	equalShare := 1.0 / float64(len(candidates))

	effective := make(map[string]float64, len(candidates))
	for _, storeID := range candidates {
		if share, ok := shares[storeID]; ok {
			effective[storeID] = share
		} else {
			effective[storeID] = equalShare
		}
	}

	alloc := make(model.Allocation, len(candidates))
	frac := make(map[string]float64, len(candidates))
	floorSum := 0
	for _, storeID := range candidates {
		raw := effective[storeID] * float64(totalUnits)
		if raw < 0 {
			raw = 0
		}
		floor := int(math.Floor(raw))
		alloc[storeID] = floor
		frac[storeID] = raw - float64(floor)
		floorSum += floor
	}

	// Unnormalized shares can push the floor sum past the total; clip
	// proportionally, since remainder distribution only ever adds units.
	if floorSum > totalUnits {
		scale := float64(totalUnits) / float64(floorSum)
		floorSum = 0
		for _, storeID := range candidates {
			clipped := int(math.Floor(float64(alloc[storeID]) * scale))
			alloc[storeID] = clipped
			floorSum += clipped
		}
	}

	remainder := totalUnits - floorSum

	order := append([]string(nil), candidates...)
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if frac[a] != frac[b] {
			return frac[a] > frac[b]
		}
		if effective[a] != effective[b] {
			return effective[a] > effective[b]
		}
		return a < b
	})

	for remainder > 0 {
		for _, storeID := range order {
			if remainder <= 0 {
				break
			}
			alloc[storeID]++
			remainder--
		}
	}

	sum := 0
	for _, units := range alloc {
		if units < 0 {
			return nil, fmt.Errorf("%w: negative allocation", ErrInvariant)
		}
		sum += units
	}
	if sum != totalUnits {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvariant, sum, totalUnits)
	}

	return alloc, nil
}
