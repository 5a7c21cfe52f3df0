package service

import "time"

// DateOnly truncates a time to its calendar date. Streak arithmetic compares
// whole days in the clock's own location; two times on the same local day are
// the same study day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AdvanceStreak returns the consecutive-day counter after a study action on
// `today`, given the previous counter and last recorded study date.
//
//	no history         -> 1
//	same day           -> unchanged
//	previous day       -> +1
//	gap of 2+ days     -> reset to 1
//
// The result is a pure function of its inputs and idempotent for repeated
// calls on the same day.
func AdvanceStreak(current int, last *time.Time, today time.Time) int {
	t := DateOnly(today)
	if last == nil {
		return 1
	}

	l := DateOnly(*last)
	switch {
	case l.Equal(t):
		return current
	case l.AddDate(0, 0, 1).Equal(t):
		return current + 1
	default:
		return 1
	}
}
