package domain

import (
	"fmt"
	"time"
)

const DateFormat = "2006-01-02"

// MaxRangeDays caps every queried or booked date range, both ends included.
const MaxRangeDays = 366

// ParseDate parses a calendar date and returns it as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date", ErrBadRange, s)
	}
	return d, nil
}

// ParseRange parses an inclusive [from, to] date range.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	f, err := ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := ValidateRange(f, t); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return f, t, nil
}

func ValidateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: missing date", ErrBadRange)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: %s is after %s", ErrBadRange, from.Format(DateFormat), to.Format(DateFormat))
	}
	if n := DayCount(from, to); n > MaxRangeDays {
		return fmt.Errorf("%w: %d days exceeds the %d day limit", ErrBadRange, n, MaxRangeDays)
	}
	return nil
}

// Truncate drops the time-of-day, keeping the calendar date of t.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days enumerates every calendar day in [from, to].
func Days(from, to time.Time) []time.Time {
	from, to = Truncate(from), Truncate(to)
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// DayCount is the number of calendar days in [from, to], 0 when to precedes from.
func DayCount(from, to time.Time) int {
	from, to = Truncate(from), Truncate(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// RangesOverlap reports whether inclusive date ranges share at least one day.
func RangesOverlap(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}
