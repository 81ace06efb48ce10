package question

import "github.com/mesh-intelligence/tinyj/internal/prompt"

// Question describes one step of a sequence. Only the fields relevant to
// Kind may be set; Run rejects the sequence otherwise.
type Question struct {
	// Name keys the answer. Unique within a sequence, followups included.
	Name   string
	Kind   Kind
	Prompt string

	// Validator checks the raw text of an accepted answer. msg is shown on
	// failure.
	Validator func(raw string) (ok bool, msg string)
	// SkipIf hides the question when it returns true.
	SkipIf func(Answers) bool
	// Refs names the earlier answers SkipIf reads.
	Refs     []string
	Followup *Followup

	Skippable bool

	// Select and MultiSelect.
	Choices       []string
	Lettered      bool
	ConfirmChoice bool
	MinChoices    int
	MaxChoices    int

	// Numeric.
	Min         *float64
	Max         *float64
	IntegerOnly bool

	// Date.
	WithTime bool

	// Confirm.
	ConfirmStyle prompt.ConfirmStyle

	PrefixNewlines int
	SuffixNewlines int
	// Preface is printed before the prompt.
	Preface string
	// Transform rewrites the parsed value before it is stored.
	Transform func(any) any
}

// Followup runs Question directly after its parent when When holds for
// the parent's stored value.
type Followup struct {
	When     func(any) bool
	Question *Question
}

// Bound returns a pointer to f, for Min and Max.
func Bound(f float64) *float64 { return &f }
