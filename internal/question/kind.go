package question

import "fmt"

// Kind selects the prompter used for a question.
type Kind int

const (
	Text Kind = iota
	Confirm
	Numeric
	Date
	Time
	Select
	MultiSelect
	Print
)

var kindNames = [...]string{
	Text:        "text",
	Confirm:     "confirm",
	Numeric:     "numeric",
	Date:        "date",
	Time:        "time",
	Select:      "select",
	MultiSelect: "multi_select",
	Print:       "print",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name back to its Kind.
// Returns ErrUnknownKind for names it does not recognize.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// hasChoices reports whether the kind presents a choice list.
func (k Kind) hasChoices() bool {
	return k == Select || k == MultiSelect
}
