package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want TimeOfDay
	}{
		{"1:30:15.5", TimeOfDay{Hour: 1, Minute: 30, Second: 15, Millisecond: 500, Unit: UnitHours}},
		{"12:30", TimeOfDay{Minute: 12, Second: 30, Unit: UnitMinutes}},
		{"8", TimeOfDay{Hour: 8, Unit: UnitHours}},
		{"2.5", TimeOfDay{Second: 2, Millisecond: 500, Unit: UnitSeconds}},
		{"0.250", TimeOfDay{Millisecond: 250, Unit: UnitMilliseconds}},
		{"30 min", TimeOfDay{Minute: 30, Unit: UnitMinutes}},
		{"1.5 hours", TimeOfDay{Hour: 1, Minute: 30, Unit: UnitHours}},
		{"250 ms", TimeOfDay{Millisecond: 250, Unit: UnitMilliseconds}},
		{"1:30 Hours", TimeOfDay{Hour: 1, Minute: 30, Unit: UnitHours}},
		{"90 minutes", TimeOfDay{Hour: 1, Minute: 30, Unit: UnitMinutes}},
		{"12.345", TimeOfDay{Second: 12, Millisecond: 345, Unit: UnitSeconds}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeOfDayErrors(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{"ab", ErrParse},
		{"5 fortnights", ErrParse},
		{"1-2", ErrParse},
		{"1:2:3:4", ErrFormat},
		{"1.2.3", ErrFormat},
		{"5.", ErrFormat},
		{"1::2", ErrFormat},
		{"25", ErrRange},
		{"1:75", ErrRange},
		{"23:59:60", ErrRange},
		{"2562048", ErrRange},
		{"9223372036854775 ms", ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseTimeOfDay(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTimeOfDayDuration(t *testing.T) {
	tod := TimeOfDay{Hour: 1, Minute: 2, Second: 3, Millisecond: 4}
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second+4*time.Millisecond, tod.Duration())
	assert.Equal(t, "01:02:03.004", tod.String())
}

func TestTimePrompter(t *testing.T) {
	p := NewTime(false)

	s := p.Accept("7:45:00")
	require.True(t, s.Done)
	assert.Equal(t, 7*time.Hour+45*time.Minute, s.Value.(TimeOfDay).Duration())

	assertRejected(t, p.Accept("soon"), ErrParse)
	assertRejected(t, p.Accept(""), ErrNotSkippable)
	assert.True(t, NewTime(true).Accept("").Skipped)
}
