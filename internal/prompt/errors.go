package prompt

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an answer was rejected.
type ErrorKind int

const (
	KindParse ErrorKind = iota + 1
	KindFormat
	KindRange
	KindValidation
	KindNotSkippable
	KindChoiceOutOfRange
	KindTooFewChoices
	KindTooManyChoices
)

var kindNames = map[ErrorKind]string{
	KindParse:            "ParseError",
	KindFormat:           "FormatError",
	KindRange:            "RangeError",
	KindValidation:       "ValidationError",
	KindNotSkippable:     "NotSkippableError",
	KindChoiceOutOfRange: "ChoiceOutOfRangeError",
	KindTooFewChoices:    "TooFewChoicesError",
	KindTooManyChoices:   "TooManyChoicesError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel errors matched by a Rejection of the same kind.
var (
	ErrParse            = errors.New("answer cannot be parsed")
	ErrFormat           = errors.New("answer matches no accepted format")
	ErrRange            = errors.New("answer is out of range")
	ErrValidation       = errors.New("answer failed validation")
	ErrNotSkippable     = errors.New("question is not skippable")
	ErrChoiceOutOfRange = errors.New("choice is out of range")
	ErrTooFewChoices    = errors.New("too few choices selected")
	ErrTooManyChoices   = errors.New("too many choices selected")
)

var kindErrors = map[ErrorKind]error{
	KindParse:            ErrParse,
	KindFormat:           ErrFormat,
	KindRange:            ErrRange,
	KindValidation:       ErrValidation,
	KindNotSkippable:     ErrNotSkippable,
	KindChoiceOutOfRange: ErrChoiceOutOfRange,
	KindTooFewChoices:    ErrTooFewChoices,
	KindTooManyChoices:   ErrTooManyChoices,
}

// Construction errors. These are caller mistakes found before any prompt
// is shown.
var (
	ErrEqualBounds    = errors.New("min and max must differ")
	ErrInvertedBounds = errors.New("min must not exceed max")
	ErrNoChoices      = errors.New("choices must not be empty")
	ErrChoiceLimit    = errors.New("more than 26 choices, use search instead")
)

// Rejection is the result of an answer that was not accepted. Retry is
// false only when asking again cannot help.
type Rejection struct {
	Kind    ErrorKind
	Message string
	Retry   bool
}

// Rejectf builds a retryable rejection.
func Rejectf(kind ErrorKind, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...), Retry: true}
}

func (r *Rejection) Error() string {
	return r.Kind.String() + ": " + r.Message
}

// Is lets errors.Is match a rejection against the sentinel of its kind.
func (r *Rejection) Is(target error) bool {
	return kindErrors[r.Kind] == target
}

// notSkippable is shared by every prompter for blank required answers.
func notSkippable() *Rejection {
	return Rejectf(KindNotSkippable, "this question is not skippable")
}
