package prompt

import "strings"

// ConfirmStyle selects the words shown in a confirm hint.
type ConfirmStyle int

const (
	YesNo ConfirmStyle = iota
	TrueFalse
)

var confirmWords = map[string]bool{
	"yes":   true,
	"y":     true,
	"true":  true,
	"t":     true,
	"no":    false,
	"n":     false,
	"false": false,
	"f":     false,
}

// Confirm accepts yes/no style answers.
type Confirm struct {
	style     ConfirmStyle
	skippable bool
}

var _ Prompter = (*Confirm)(nil)

// NewConfirm creates a confirm prompter.
func NewConfirm(style ConfirmStyle, skippable bool) *Confirm {
	return &Confirm{style: style, skippable: skippable}
}

// Hint implements Prompter.
func (c *Confirm) Hint() string {
	if c.style == TrueFalse {
		return "[(t)rue or (f)alse]"
	}
	return "[(y)es or (n)o]"
}

// Render implements Prompter.
func (c *Confirm) Render(Styles) []string { return nil }

// Accept implements Prompter.
func (c *Confirm) Accept(line string) Step {
	s := strings.ToLower(strings.TrimSpace(line))
	if s == "" {
		return blank(c.skippable)
	}
	v, ok := confirmWords[s]
	if !ok {
		return Rejected(Rejectf(KindParse, "%q is not a valid answer, expected %s", s, c.Hint()))
	}
	return Accepted(v, s)
}
