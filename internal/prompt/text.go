package prompt

import "strings"

// Text accepts any non-blank line.
type Text struct {
	skippable bool
}

var _ Prompter = (*Text)(nil)

// NewText creates a text prompter.
func NewText(skippable bool) *Text {
	return &Text{skippable: skippable}
}

// Hint implements Prompter.
func (t *Text) Hint() string {
	if t.skippable {
		return "(enter to skip)"
	}
	return ""
}

// Render implements Prompter.
func (t *Text) Render(Styles) []string { return nil }

// Accept implements Prompter.
func (t *Text) Accept(line string) Step {
	s := strings.TrimSpace(line)
	if s == "" {
		return blank(t.skippable)
	}
	return Accepted(s, s)
}

// blank resolves an empty answer.
func blank(skippable bool) Step {
	if skippable {
		return Skipped()
	}
	return Rejected(notSkippable())
}
