package prompt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// TimeUnit is the leading unit of a time answer.
type TimeUnit int

const (
	UnitHours TimeUnit = iota
	UnitMinutes
	UnitSeconds
	UnitMilliseconds
)

var unitNames = []string{"hours", "minutes", "seconds", "milliseconds"}

func (u TimeUnit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("TimeUnit(%d)", int(u))
}

// unitSizes and unitLimits are indexed by TimeUnit.
var (
	unitSizes  = []time.Duration{time.Hour, time.Minute, time.Second, time.Millisecond}
	unitLimits = []int{24, 60, 60, 1000}
)

var unitWords = map[string]TimeUnit{
	"h":            UnitHours,
	"hr":           UnitHours,
	"hrs":          UnitHours,
	"hour":         UnitHours,
	"hours":        UnitHours,
	"min":          UnitMinutes,
	"mins":         UnitMinutes,
	"minute":       UnitMinutes,
	"minutes":      UnitMinutes,
	"s":            UnitSeconds,
	"sec":          UnitSeconds,
	"secs":         UnitSeconds,
	"second":       UnitSeconds,
	"seconds":      UnitSeconds,
	"ms":           UnitMilliseconds,
	"millisecond":  UnitMilliseconds,
	"milliseconds": UnitMilliseconds,
}

// TimeOfDay is a parsed time answer. Unit records the leading unit the
// answer was read in.
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
	Unit        TimeUnit
}

// Duration returns the time since midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Millisecond)*time.Millisecond
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Millisecond)
}

// ParseTimeOfDay reads a free-form time. The leading unit comes from a
// trailing unit word or, failing that, from the separators: two ':' is
// hours, one ':' is minutes, a lone '.' is seconds (milliseconds when the
// whole part is zero), and a bare number is hours. Groups then fill the
// following units left to right. Errors are *Rejection values.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	unit, explicit := UnitHours, false
	if i := strings.IndexFunc(s, unicode.IsLetter); i >= 0 {
		u, ok := unitWords[strings.TrimSpace(s[i:])]
		if !ok {
			return TimeOfDay{}, Rejectf(KindParse, "%q is not a time unit", strings.TrimSpace(s[i:]))
		}
		unit, explicit = u, true
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return TimeOfDay{}, Rejectf(KindParse, "%q has no time in it", raw)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ':' && r != '.' {
			return TimeOfDay{}, Rejectf(KindParse, "%q contains a non numerical character", raw)
		}
	}

	colons, dots := strings.Count(s, ":"), strings.Count(s, ".")
	whole, frac, hasFrac := strings.Cut(s, ".")
	if colons > 2 || dots > 1 || strings.Contains(frac, ":") || (hasFrac && frac == "") {
		return TimeOfDay{}, formatRejection(raw)
	}
	if whole == "" && colons == 0 {
		whole = "0"
	}
	if !explicit {
		switch {
		case colons == 2:
			unit = UnitHours
		case colons == 1:
			unit = UnitMinutes
		case hasFrac && strings.Trim(whole, "0") == "":
			unit = UnitMilliseconds
		case hasFrac:
			unit = UnitSeconds
		}
	}

	// An inferred millisecond answer such as "0.250" is written in seconds.
	lead := unit
	if unit == UnitMilliseconds && !explicit {
		lead = UnitSeconds
	}

	groups := strings.Split(whole, ":")
	if int(lead)+len(groups) > len(unitSizes) {
		return TimeOfDay{}, formatRejection(raw)
	}
	var total time.Duration
	for j, g := range groups {
		if g == "" {
			return TimeOfDay{}, formatRejection(raw)
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return TimeOfDay{}, Rejectf(KindParse, "%q is too large", g)
		}
		u := int(lead) + j
		if j > 0 && n >= unitLimits[u] {
			return TimeOfDay{}, Rejectf(KindRange, "%d is out of range for %s", n, TimeUnit(u))
		}
		if time.Duration(n) > 24*time.Hour/unitSizes[u] {
			return TimeOfDay{}, Rejectf(KindRange, "%q is past the end of the day", raw)
		}
		total += time.Duration(n) * unitSizes[u]
	}
	if hasFrac {
		f, err := strconv.ParseFloat("0."+frac, 64)
		if err != nil {
			return TimeOfDay{}, formatRejection(raw)
		}
		last := unitSizes[int(lead)+len(groups)-1]
		ms := math.Round(f * float64(last) / float64(time.Millisecond))
		total += time.Duration(ms) * time.Millisecond
	}
	if total >= 24*time.Hour {
		return TimeOfDay{}, Rejectf(KindRange, "%q is past the end of the day", raw)
	}

	total = total.Truncate(time.Millisecond)
	return TimeOfDay{
		Hour:        int(total / time.Hour),
		Minute:      int(total % time.Hour / time.Minute),
		Second:      int(total % time.Minute / time.Second),
		Millisecond: int(total % time.Second / time.Millisecond),
		Unit:        unit,
	}, nil
}

func formatRejection(raw string) *Rejection {
	return Rejectf(KindFormat, "%q is not a valid time, format must be H:MM:SS.mmm or a number with a unit", raw)
}

// Time accepts answers understood by ParseTimeOfDay.
type Time struct {
	skippable bool
}

var _ Prompter = (*Time)(nil)

// NewTime creates a time prompter.
func NewTime(skippable bool) *Time {
	return &Time{skippable: skippable}
}

// Hint implements Prompter.
func (t *Time) Hint() string { return "(H:MM:SS.mmm or 30 min)" }

// Render implements Prompter.
func (t *Time) Render(Styles) []string { return nil }

// Accept implements Prompter.
func (t *Time) Accept(line string) Step {
	s := strings.TrimSpace(line)
	if s == "" {
		return blank(t.skippable)
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		var r *Rejection
		if errors.As(err, &r) {
			return Rejected(r)
		}
		return Rejected(Rejectf(KindParse, "%s", err.Error()))
	}
	return Accepted(v, s)
}
