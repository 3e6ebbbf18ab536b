package domain

import (
	"fmt"
	"strings"
)

// Daypart is the coarse booking unit shared by availability slots and reservations.
type Daypart string

const (
	DaypartFull Daypart = "FULL"
	DaypartAM   Daypart = "AM"
	DaypartPM   Daypart = "PM"
)

// half-day bits: AM = 01, PM = 10, FULL = 11.
const (
	halfAM uint8 = 1 << iota
	halfPM
)

// ParseDaypart accepts the literal enum values, case-insensitively.
func ParseDaypart(s string) (Daypart, error) {
	p := Daypart(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDaypart, s)
	}
	return p, nil
}

func (p Daypart) Valid() bool {
	switch p {
	case DaypartFull, DaypartAM, DaypartPM:
		return true
	}
	return false
}

func (p Daypart) IsHalfDay() bool {
	return p == DaypartAM || p == DaypartPM
}

// halves returns the half-day bitmask covered by p.
func (p Daypart) halves() uint8 {
	switch p {
	case DaypartFull:
		return halfAM | halfPM
	case DaypartAM:
		return halfAM
	case DaypartPM:
		return halfPM
	}
	return 0
}

// Span is the [lo, hi) integer range stored in the daypart_span column.
// Overlapping spans are exactly the conflicting dayparts.
func (p Daypart) Span() (lo, hi int) {
	switch p {
	case DaypartAM:
		return 0, 1
	case DaypartPM:
		return 1, 2
	default:
		return 0, 2
	}
}

// Conflicts reports whether two dayparts on the same day compete for the resource.
// FULL conflicts with everything, AM and PM only with themselves.
func Conflicts(a, b Daypart) bool {
	return a.halves()&b.halves() != 0
}

// Displaced lists the dayparts that cannot coexist with p as slots on the same day.
// The identical daypart is not included: toggling handles it.
func Displaced(p Daypart) []Daypart {
	switch p {
	case DaypartFull:
		return []Daypart{DaypartAM, DaypartPM}
	case DaypartAM, DaypartPM:
		return []Daypart{DaypartFull}
	}
	return nil
}

// HalfSet is a set of half-days offered or consumed on a single date.
type HalfSet uint8

func (h HalfSet) Add(p Daypart) HalfSet    { return h | HalfSet(p.halves()) }
func (h HalfSet) Remove(p Daypart) HalfSet { return h &^ HalfSet(p.halves()) }
func (h HalfSet) Covers(p Daypart) bool    { return p.halves() != 0 && uint8(h)&p.halves() == p.halves() }
func (h HalfSet) Empty() bool              { return h == 0 }
