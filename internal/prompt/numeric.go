package prompt

import (
	"math"
	"strconv"
	"strings"
)

// NumericOptions configures a Numeric prompter. Nil bounds are open.
type NumericOptions struct {
	Min         *float64
	Max         *float64
	IntegerOnly bool
	Skippable   bool
}

// Numeric accepts integers or floats within inclusive bounds. Integers
// come back as int64, everything else as float64.
type Numeric struct {
	opts NumericOptions
}

var _ Prompter = (*Numeric)(nil)

// NewNumeric creates a numeric prompter.
// Returns ErrEqualBounds if min equals max, ErrInvertedBounds if min is
// greater than max.
func NewNumeric(opts NumericOptions) (*Numeric, error) {
	if opts.Min != nil && opts.Max != nil {
		switch {
		case *opts.Min == *opts.Max:
			return nil, ErrEqualBounds
		case *opts.Min > *opts.Max:
			return nil, ErrInvertedBounds
		}
	}
	return &Numeric{opts: opts}, nil
}

// Hint implements Prompter.
func (n *Numeric) Hint() string {
	lo, hi := n.opts.Min, n.opts.Max
	switch {
	case lo != nil && hi != nil:
		return "(" + formatNumber(*lo) + " - " + formatNumber(*hi) + ")"
	case lo != nil:
		return "(>= " + formatNumber(*lo) + ")"
	case hi != nil:
		return "(<= " + formatNumber(*hi) + ")"
	}
	return ""
}

// Render implements Prompter.
func (n *Numeric) Render(Styles) []string { return nil }

// Accept implements Prompter.
func (n *Numeric) Accept(line string) Step {
	s := strings.TrimSpace(line)
	if s == "" {
		return blank(n.opts.Skippable)
	}

	var value any
	var f float64
	integer := isInteger(s)
	i, err := strconv.ParseInt(s, 10, 64)
	if integer && err == nil {
		value, f = i, float64(i)
	} else {
		// Integers beyond int64 are read as floats.
		parsed, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return Rejected(Rejectf(KindParse, "%s is not a number", s))
		}
		if n.opts.IntegerOnly && !integer {
			return Rejected(Rejectf(KindParse, "%s is not a whole number", s))
		}
		value, f = parsed, parsed
	}

	if n.opts.Min != nil && f < *n.opts.Min {
		return Rejected(Rejectf(KindRange, "%s is too small, answer must be >= %s", s, formatNumber(*n.opts.Min)))
	}
	if n.opts.Max != nil && f > *n.opts.Max {
		return Rejected(Rejectf(KindRange, "%s is too large, answer must be <= %s", s, formatNumber(*n.opts.Max)))
	}
	if n.opts.IntegerOnly && integer && err != nil {
		return Rejected(Rejectf(KindRange, "%s is too large to be a whole number", s))
	}
	return Accepted(value, s)
}

// isInteger reports whether s is all digits with an optional leading '-'.
func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
