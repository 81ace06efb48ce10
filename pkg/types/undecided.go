package types

import "time"

// Undecided marks a date the user chose to fill in later. It is a real
// time value so it round-trips through JSON; compare with IsUndecided.
var Undecided = time.Date(1, time.January, 1, 1, 1, 1, 0, time.UTC)

// IsUndecided reports whether t is the Undecided sentinel.
func IsUndecided(t time.Time) bool {
	return t.Equal(Undecided)
}
