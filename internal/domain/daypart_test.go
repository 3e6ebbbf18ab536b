package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDaypart(t *testing.T) {
	p, err := ParseDaypart(" am ")
	require.NoError(t, err)
	assert.Equal(t, DaypartAM, p)

	_, err = ParseDaypart("EVENING")
	require.ErrorIs(t, err, ErrInvalidDaypart)
}

func TestConflicts(t *testing.T) {
	cases := []struct {
		a, b Daypart
		want bool
	}{
		{DaypartFull, DaypartFull, true},
		{DaypartFull, DaypartAM, true},
		{DaypartPM, DaypartFull, true},
		{DaypartAM, DaypartAM, true},
		{DaypartPM, DaypartPM, true},
		{DaypartAM, DaypartPM, false},
		{DaypartPM, DaypartAM, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Conflicts(c.a, c.b), "%s vs %s", c.a, c.b)
	}
}

func TestSpanOverlapMatchesConflicts(t *testing.T) {
	parts := []Daypart{DaypartFull, DaypartAM, DaypartPM}
	for _, a := range parts {
		for _, b := range parts {
			alo, ahi := a.Span()
			blo, bhi := b.Span()
			overlap := alo < bhi && blo < ahi
			assert.Equal(t, Conflicts(a, b), overlap, "%s vs %s", a, b)
		}
	}
}

func TestDisplaced(t *testing.T) {
	assert.ElementsMatch(t, []Daypart{DaypartAM, DaypartPM}, Displaced(DaypartFull))
	assert.Equal(t, []Daypart{DaypartFull}, Displaced(DaypartAM))
	assert.Equal(t, []Daypart{DaypartFull}, Displaced(DaypartPM))
}

func TestHalfSet(t *testing.T) {
	var h HalfSet
	assert.True(t, h.Empty())

	h = h.Add(DaypartAM)
	assert.True(t, h.Covers(DaypartAM))
	assert.False(t, h.Covers(DaypartPM))
	assert.False(t, h.Covers(DaypartFull))

	h = h.Add(DaypartPM)
	assert.True(t, h.Covers(DaypartFull))

	h = h.Remove(DaypartFull)
	assert.True(t, h.Empty())
}
