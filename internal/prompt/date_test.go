package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tinyj/pkg/types"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 500, time.UTC)

func clock() time.Time { return fixedNow }

func TestDateTokens(t *testing.T) {
	d := NewDate(true, false, clock)

	s := d.Accept("now")
	require.True(t, s.Done)
	assert.Equal(t, time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC), s.Value)

	s = d.Accept("LATER")
	require.True(t, s.Done)
	assert.True(t, types.IsUndecided(s.Value.(time.Time)))
}

func TestDateRejects(t *testing.T) {
	d := NewDate(false, false, clock)

	s := d.Accept("13/40/99")
	assertRejected(t, s, ErrFormat)
	assert.Contains(t, s.Rejection.Message, "MM/DD/YY")

	assertRejected(t, d.Accept(""), ErrNotSkippable)
	assert.True(t, NewDate(false, true, clock).Accept("").Skipped)
}

func TestDatePriority(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"01/02/03", time.Date(2003, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"1/2/2026", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"13/02/2026", time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)},
		{"2026/02/13", time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)},
		{"26/1/2", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"01/02/2026 3:04 pm", time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)},
		{"01/02/26 13:04", time.Date(2026, 1, 2, 13, 4, 0, 0, time.UTC)},
		{"  11/23/26   9:30  AM ", time.Date(2026, 11, 23, 9, 30, 0, 0, time.UTC)},
	}

	d := NewDate(true, false, clock)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s := d.Accept(tt.in)
			require.True(t, s.Done, "rejected: %v", s.Rejection)
			assert.Equal(t, tt.want, s.Value)
		})
	}
}

func TestDateRoundTripPerFamily(t *testing.T) {
	// Day and year are chosen so that no earlier family can claim the
	// formatted string.
	date := time.Date(2045, 11, 23, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2045, 11, 23, 15, 4, 0, 0, time.UTC)
	layouts := []struct {
		name   string
		layout string
		value  time.Time
	}{
		{"US two-digit year", "01/02/06", date},
		{"US two-digit year datetime", "01/02/06 03:04 PM", stamp},
		{"US four-digit year", "01/02/2006", date},
		{"US four-digit year 24h", "01/02/2006 15:04", stamp},
		{"EU four-digit year", "02/01/2006", date},
		{"EU two-digit year", "02/01/06", date},
		{"EU datetime", "02/01/2006 03:04 PM", stamp},
		{"ISO four-digit year", "2006/01/02", date},
		{"ISO two-digit year", "06/01/02", date},
		{"ISO datetime", "2006/01/02 15:04", stamp},
	}

	for _, tt := range layouts {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.value.Format(tt.layout), time.UTC)
			require.True(t, ok)
			assert.Equal(t, tt.value, got)
		})
	}
}
