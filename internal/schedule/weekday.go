package schedule

import (
	"strings"
	"time"
)

// Day numbering follows the user_schedules table: 1=Monday .. 7=Sunday.

var dayNumToName = map[int]string{
	1: "monday",
	2: "tuesday",
	3: "wednesday",
	4: "thursday",
	5: "friday",
	6: "saturday",
	7: "sunday",
}

var dayNameToNum = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

// DayName converts a day number to its lowercase name, or "unknown".
func DayName(num int) string {
	if name, ok := dayNumToName[num]; ok {
		return name
	}
	return "unknown"
}

// DayNum converts a day name to its number, or 0 if unrecognized.
func DayNum(name string) int {
	return dayNameToNum[strings.ToLower(strings.TrimSpace(name))]
}

// WeekdayNum returns the 1=Monday..7=Sunday number for a date.
func WeekdayNum(t time.Time) int {
	wd := int(t.Weekday()) // Sunday=0
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekdayKey returns the lowercase weekday name for a date.
func WeekdayKey(t time.Time) string {
	return DayName(WeekdayNum(t))
}

// DaysForward returns how many days after weekday `from` the weekday `to`
// next occurs, in 0..6. Same day counts as 0.
func DaysForward(from, to int) int {
	return ((to - from) % 7 + 7) % 7
}
