package prompt

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// DateFormat is one accepted date layout.
type DateFormat struct {
	Family  string
	Layout  string
	Pattern string
}

// Date families.
const (
	FamilyUS2 = "US two-digit year"
	FamilyUS4 = "US four-digit year"
	FamilyEU  = "EU"
	FamilyISO = "ISO"
)

// nowLayout is the layout "now" is rounded through.
const nowLayout = "01/02/06 03:04 PM"

// DateFormats lists the accepted layouts in priority order. Some strings
// parse under several layouts; the first match wins.
var DateFormats = []DateFormat{
	{FamilyUS2, "1/2/06", "MM/DD/YY"},
	{FamilyUS2, "1/2/06 3:04 PM", "MM/DD/YY HH:MM am/pm"},
	{FamilyUS2, "1/2/06 15:04", "MM/DD/YY HH:MM"},
	{FamilyUS4, "1/2/2006", "MM/DD/YYYY"},
	{FamilyUS4, "1/2/2006 3:04 PM", "MM/DD/YYYY HH:MM am/pm"},
	{FamilyUS4, "1/2/2006 15:04", "MM/DD/YYYY HH:MM"},
	{FamilyEU, "2/1/2006", "DD/MM/YYYY"},
	{FamilyEU, "2/1/2006 3:04 PM", "DD/MM/YYYY HH:MM am/pm"},
	{FamilyEU, "2/1/2006 15:04", "DD/MM/YYYY HH:MM"},
	{FamilyEU, "2/1/06", "DD/MM/YY"},
	{FamilyEU, "2/1/06 3:04 PM", "DD/MM/YY HH:MM am/pm"},
	{FamilyEU, "2/1/06 15:04", "DD/MM/YY HH:MM"},
	{FamilyISO, "2006/1/2", "YYYY/MM/DD"},
	{FamilyISO, "2006/1/2 3:04 PM", "YYYY/MM/DD HH:MM am/pm"},
	{FamilyISO, "2006/1/2 15:04", "YYYY/MM/DD HH:MM"},
	{FamilyISO, "06/1/2", "YY/MM/DD"},
	{FamilyISO, "06/1/2 3:04 PM", "YY/MM/DD HH:MM am/pm"},
	{FamilyISO, "06/1/2 15:04", "YY/MM/DD HH:MM"},
}

// Date accepts a date in any of DateFormats, or the tokens "now" and
// "later". Values come back as time.Time in the clock's location.
type Date struct {
	withTime  bool
	skippable bool
	now       func() time.Time
}

var _ Prompter = (*Date)(nil)

// NewDate creates a date prompter. A nil now uses time.Now.
func NewDate(withTime, skippable bool, now func() time.Time) *Date {
	if now == nil {
		now = time.Now
	}
	return &Date{withTime: withTime, skippable: skippable, now: now}
}

// Hint implements Prompter.
func (d *Date) Hint() string {
	return "(" + d.pattern() + ", now or later)"
}

func (d *Date) pattern() string {
	if d.withTime {
		return "MM/DD/YY HH:MM am/pm"
	}
	return "MM/DD/YY"
}

// Render implements Prompter.
func (d *Date) Render(Styles) []string { return nil }

// Accept implements Prompter.
func (d *Date) Accept(line string) Step {
	s := strings.Join(strings.Fields(line), " ")
	if s == "" {
		return blank(d.skippable)
	}
	switch strings.ToLower(s) {
	case "now":
		return Accepted(d.stamp(), s)
	case "later":
		return Accepted(types.Undecided, s)
	}
	if t, ok := ParseDate(s, d.now().Location()); ok {
		return Accepted(t, s)
	}
	return Rejected(Rejectf(KindFormat, "%q is not a valid date, format must be %s", s, d.pattern()))
}

// stamp returns the current time truncated to the minute by a round trip
// through nowLayout.
func (d *Date) stamp() time.Time {
	now := d.now()
	t, err := time.ParseInLocation(nowLayout, now.Format(nowLayout), now.Location())
	if err != nil {
		return now.Truncate(time.Minute)
	}
	return t
}

// ParseDate tries every layout in DateFormats in order.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))
	for _, f := range DateFormats {
		if t, err := time.ParseInLocation(f.Layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
