package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayNameAndNumRoundTrip(t *testing.T) {
	for num := 1; num <= 7; num++ {
		assert.Equal(t, num, DayNum(DayName(num)))
	}
	assert.Equal(t, "unknown", DayName(0))
	assert.Equal(t, "unknown", DayName(8))
	assert.Equal(t, 0, DayNum("someday"))
}

func TestDayNum_NormalizesInput(t *testing.T) {
	assert.Equal(t, 5, DayNum(" Friday "))
	assert.Equal(t, 1, DayNum("MONDAY"))
}

func TestWeekdayNum(t *testing.T) {
	// 2026-01-05 is a Monday, 2026-01-11 a Sunday.
	assert.Equal(t, 1, WeekdayNum(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, WeekdayNum(time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)))
}

func TestWeekdayKey(t *testing.T) {
	assert.Equal(t, "friday", WeekdayKey(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)))
}

func TestDaysForward(t *testing.T) {
	assert.Equal(t, 0, DaysForward(3, 3))
	assert.Equal(t, 4, DaysForward(1, 5))
	assert.Equal(t, 3, DaysForward(5, 1))
	assert.Equal(t, 6, DaysForward(2, 1))
	assert.Equal(t, 1, DaysForward(7, 1))
}
