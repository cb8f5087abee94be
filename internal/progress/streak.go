package progress

import (
	"math"
	"time"
)

// WeekStreak is the streak length that unlocks the week_streak badge.
const WeekStreak = 7

// NextStreak returns the streak after activity at now. Days are calendar
// days in now's location: the same day leaves the streak alone, the next
// day extends it, and a longer gap restarts it at 1. extended reports a
// one-day extension.
func NextStreak(current int, lastActive *time.Time, now time.Time) (next int, extended bool) {
	if lastActive == nil || current <= 0 {
		return 1, false
	}
	switch gap := daysBetween(*lastActive, now); {
	case gap <= 0:
		return current, false
	case gap == 1:
		return current + 1, true
	default:
		return 1, false
	}
}

func daysBetween(from, to time.Time) int {
	loc := to.Location()
	a := startOfDay(from.In(loc))
	b := startOfDay(to)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats t as the YYYY-MM-DD key used for daily goals.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
