package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routespark/forecast-service/internal/model"
)

func TestTotalDemand_ClampsNegatives(t *testing.T) {
	total := TotalDemand(map[string]float64{
		"store-a": 8,
		"store-b": -3,
		"store-c": 4.5,
	})
	assert.Equal(t, 12.5, total)
}

func TestTotalDemand_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TotalDemand(nil))
}

func TestRoundToCases(t *testing.T) {
	cases, units := RoundToCases(15, 12)
	assert.Equal(t, 2, cases)
	assert.Equal(t, 24, units)

	cases, units = RoundToCases(24, 12)
	assert.Equal(t, 2, cases)
	assert.Equal(t, 24, units)

	cases, units = RoundToCases(0.5, 12)
	assert.Equal(t, 1, cases)
	assert.Equal(t, 12, units)
}

func TestRoundToCases_InvalidCasePackTreatedAsOne(t *testing.T) {
	cases, units := RoundToCases(7.2, 0)
	assert.Equal(t, 8, cases)
	assert.Equal(t, 8, units)

	cases, units = RoundToCases(3, -5)
	assert.Equal(t, 3, cases)
	assert.Equal(t, 3, units)
}

func TestRoundToCases_ZeroDemand(t *testing.T) {
	cases, units := RoundToCases(0, 12)
	assert.Equal(t, 0, cases)
	assert.Equal(t, 0, units)
}

// Case pack 12, demand {A:8 B:4 C:3} rounds to 24 units; shares
// .53/.27/.20 floor to 12/6/4 and the two remainder units go to C then A.
func TestAllocate_HistoricalShares(t *testing.T) {
	shares := model.ShareTable{
		"store-a": 0.53,
		"store-b": 0.27,
		"store-c": 0.20,
	}
	alloc, err := Allocate(24, []string{"store-a", "store-b", "store-c"}, shares)
	require.NoError(t, err)

	assert.Equal(t, model.Allocation{
		"store-a": 13,
		"store-b": 6,
		"store-c": 5,
	}, alloc)
}

func TestAllocate_SumsExactly(t *testing.T) {
	tests := []struct {
		name       string
		totalUnits int
		candidates []string
		shares     model.ShareTable
	}{
		{"no history equal split", 25, []string{"a", "b", "c"}, nil},
		{"partial history", 48, []string{"a", "b", "c", "d"}, model.ShareTable{"a": 0.6, "b": 0.4}},
		{"single store", 12, []string{"a"}, model.ShareTable{"a": 1.0}},
		{"skewed shares", 100, []string{"a", "b"}, model.ShareTable{"a": 0.999, "b": 0.001}},
		{"zero units", 0, []string{"a", "b"}, model.ShareTable{"a": 0.5, "b": 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc, err := Allocate(tt.totalUnits, tt.candidates, tt.shares)
			require.NoError(t, err)

			sum := 0
			for storeID, units := range alloc {
				assert.GreaterOrEqual(t, units, 0, "store %s", storeID)
				sum += units
			}
			assert.Equal(t, tt.totalUnits, sum)
		})
	}
}

// A store without history gets the equal-split fallback so it is not
// starved, even while other stores keep their historical shares.
func TestAllocate_FallbackShareForNewStore(t *testing.T) {
	shares := model.ShareTable{
		"store-a": 0.7,
		"store-b": 0.3,
	}
	alloc, err := Allocate(30, []string{"store-a", "store-b", "store-new"}, shares)
	require.NoError(t, err)

	sum := 0
	for _, units := range alloc {
		sum += units
	}
	assert.Equal(t, 30, sum)
	assert.Greater(t, alloc["store-new"], 0, "new store should receive units via fallback share")
}

// Unnormalized share mixes can make the floor sum exceed the total; the
// floors are clipped proportionally and the invariants still hold.
func TestAllocate_ClampsWhenFloorSumExceedsTotal(t *testing.T) {
	shares := model.ShareTable{
		"store-a": 0.9,
		"store-b": 0.9,
	}
	// store-c falls back to 1/3; effective shares sum to 2.13.
	alloc, err := Allocate(10, []string{"store-a", "store-b", "store-c"}, shares)
	require.NoError(t, err)

	sum := 0
	for storeID, units := range alloc {
		assert.GreaterOrEqual(t, units, 0, "store %s", storeID)
		sum += units
	}
	assert.Equal(t, 10, sum)
}

func TestAllocate_Deterministic(t *testing.T) {
	shares := model.ShareTable{
		"store-a": 0.4,
		"store-b": 0.35,
		"store-c": 0.25,
	}
	candidates := []string{"store-a", "store-b", "store-c"}

	first, err := Allocate(37, candidates, shares)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Allocate(37, candidates, shares)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// Exact tie on fraction and share: the lower store id wins the remainder
// unit.
func TestAllocate_TieBreakByStoreID(t *testing.T) {
	shares := model.ShareTable{
		"store-a": 0.5,
		"store-b": 0.5,
	}
	alloc, err := Allocate(3, []string{"store-b", "store-a"}, shares)
	require.NoError(t, err)

	assert.Equal(t, 2, alloc["store-a"])
	assert.Equal(t, 1, alloc["store-b"])
}

// A strictly larger share never yields a smaller floor allocation.
func TestAllocate_Monotonicity(t *testing.T) {
	shares := model.ShareTable{
		"store-a": 0.45,
		"store-b": 0.35,
		"store-c": 0.20,
	}
	alloc, err := Allocate(60, []string{"store-a", "store-b", "store-c"}, shares)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, alloc["store-a"], alloc["store-b"])
	assert.GreaterOrEqual(t, alloc["store-b"], alloc["store-c"])
}

func TestAllocate_NoCandidates(t *testing.T) {
	_, err := Allocate(12, nil, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestAllocate_NegativeTotal(t *testing.T) {
	_, err := Allocate(-1, []string{"a"}, nil)
	assert.ErrorIs(t, err, ErrInvariant)
}
