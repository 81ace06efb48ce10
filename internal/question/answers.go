package question

import (
	"time"

	"github.com/mesh-intelligence/tinyj/internal/prompt"
)

// Answers maps question names to parsed values. Accessors return the zero
// value when a name is missing or holds another type.
type Answers map[string]any

// Has reports whether name was answered.
func (a Answers) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns a text or select answer.
func (a Answers) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Bool returns a confirm answer.
func (a Answers) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Int returns a numeric answer truncated to an int.
func (a Answers) Int(name string) int {
	switch v := a[name].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Float returns a numeric answer as a float64.
func (a Answers) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Time returns a date answer.
func (a Answers) Time(name string) time.Time {
	t, _ := a[name].(time.Time)
	return t
}

// TimeOfDay returns a time answer.
func (a Answers) TimeOfDay(name string) prompt.TimeOfDay {
	t, _ := a[name].(prompt.TimeOfDay)
	return t
}

// Strings returns a multi-select answer.
func (a Answers) Strings(name string) []string {
	s, _ := a[name].([]string)
	return s
}
