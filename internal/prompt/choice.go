package prompt

import (
	"sort"
	"strconv"
	"strings"
)

// MaxChoices is the most choices a select prompt can show.
const MaxChoices = 26

// QuitToken ends a select or multi-select prompt.
const QuitToken = "Q"

// ChoiceOptions configures Select and MultiSelect.
type ChoiceOptions struct {
	Lettered  bool
	Skippable bool
	// Confirm asks "is <choice> correct?" after a single selection.
	Confirm bool
	// MinChoices and MaxChoices bound a multi-select. Zero MaxChoices is
	// unbounded; a required multi-select needs at least one choice.
	MinChoices int
	MaxChoices int
}

// choices is shared by Select and MultiSelect.
type choices struct {
	items []string
	opts  ChoiceOptions
}

func newChoices(items []string, opts ChoiceOptions) (choices, error) {
	switch {
	case len(items) == 0:
		return choices{}, ErrNoChoices
	case len(items) > MaxChoices:
		return choices{}, ErrChoiceLimit
	}
	return choices{items: append([]string(nil), items...), opts: opts}, nil
}

// label returns the key shown for choice i.
func (c choices) label(i int) string {
	if c.opts.Lettered {
		return string(rune('a' + i))
	}
	return strconv.Itoa(i + 1)
}

// rangeText describes the valid keys.
func (c choices) rangeText() string {
	return c.label(0) + "-" + c.label(len(c.items)-1)
}

// index parses one key.
func (c choices) index(tok string) (int, *Rejection) {
	if c.opts.Lettered {
		r := []rune(strings.ToLower(tok))
		if len(r) != 1 || r[0] < 'a' || r[0] > 'z' {
			return 0, Rejectf(KindParse, "%q is not a letter", tok)
		}
		i := int(r[0] - 'a')
		if i >= len(c.items) {
			return 0, Rejectf(KindChoiceOutOfRange, "%s is an invalid choice, choose %s", tok, c.rangeText())
		}
		return i, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, Rejectf(KindParse, "%q is not a number", tok)
	}
	if n < 1 || n > len(c.items) {
		return 0, Rejectf(KindChoiceOutOfRange, "%s is an invalid choice, choose %s", tok, c.rangeText())
	}
	return n - 1, nil
}

func (c choices) render(st Styles, marked func(int) bool) []string {
	out := make([]string, len(c.items))
	for i, item := range c.items {
		mark, style := "", st.Choice
		if marked != nil {
			mark = "[ ] "
			if marked(i) {
				mark, style = "[x] ", st.Selected
			}
		}
		out[i] = "  " + style.Render(mark+c.label(i)+") "+item)
	}
	return out
}

// Select picks exactly one choice and returns it as a string.
type Select struct {
	choices
	pending int
}

var _ Prompter = (*Select)(nil)

// NewSelect creates a single-choice prompter.
// Returns ErrNoChoices or ErrChoiceLimit.
func NewSelect(items []string, opts ChoiceOptions) (*Select, error) {
	c, err := newChoices(items, opts)
	if err != nil {
		return nil, err
	}
	return &Select{choices: c, pending: -1}, nil
}

// Hint implements Prompter.
func (s *Select) Hint() string {
	if s.pending >= 0 {
		return "[(y)es or (n)o]"
	}
	return "(" + s.rangeText() + ", Q to quit)"
}

// Render implements Prompter.
func (s *Select) Render(st Styles) []string {
	if s.pending >= 0 {
		return nil
	}
	return s.render(st, nil)
}

// Accept implements Prompter.
func (s *Select) Accept(line string) Step {
	tok := strings.TrimSpace(line)
	if s.pending >= 0 {
		return s.confirm(tok)
	}
	if tok == QuitToken || tok == "" {
		return blank(s.opts.Skippable)
	}
	i, rej := s.index(tok)
	if rej != nil {
		return Rejected(rej)
	}
	if s.opts.Confirm {
		s.pending = i
		return Pending("is " + s.items[i] + " correct?")
	}
	return Accepted(s.items[i], tok)
}

func (s *Select) confirm(tok string) Step {
	v, ok := confirmWords[strings.ToLower(tok)]
	if !ok {
		return Rejected(Rejectf(KindParse, "%q is not a valid answer, expected [(y)es or (n)o]", tok))
	}
	i := s.pending
	s.pending = -1
	if !v {
		return Pending("choose again")
	}
	return Accepted(s.items[i], s.label(i))
}

// Selection is the set of chosen indices in a multi-select.
type Selection map[int]bool

// Toggle adds i if absent and removes it if present.
func (s Selection) Toggle(i int) {
	if s[i] {
		delete(s, i)
		return
	}
	s[i] = true
}

// Indices returns the chosen indices in ascending order.
func (s Selection) Indices() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// MultiSelect toggles choices until Q, then returns them as []string in
// choice order.
type MultiSelect struct {
	choices
	sel Selection
}

var _ Prompter = (*MultiSelect)(nil)

// NewMultiSelect creates a multi-choice prompter.
// Returns ErrNoChoices, ErrChoiceLimit or ErrInvertedBounds.
func NewMultiSelect(items []string, opts ChoiceOptions) (*MultiSelect, error) {
	c, err := newChoices(items, opts)
	if err != nil {
		return nil, err
	}
	if opts.MinChoices < 0 || opts.MaxChoices < 0 ||
		(opts.MaxChoices > 0 && opts.MinChoices > opts.MaxChoices) ||
		opts.MinChoices > len(items) {
		return nil, ErrInvertedBounds
	}
	return &MultiSelect{choices: c, sel: Selection{}}, nil
}

// Selection returns the current selection.
func (m *MultiSelect) Selection() Selection { return m.sel }

// Hint implements Prompter.
func (m *MultiSelect) Hint() string {
	return "(" + m.rangeText() + " to toggle, Q when done)"
}

// Render implements Prompter.
func (m *MultiSelect) Render(st Styles) []string {
	return m.render(st, func(i int) bool { return m.sel[i] })
}

// Accept implements Prompter. A line may toggle several keys separated by
// commas or spaces; an invalid key rejects the whole line.
func (m *MultiSelect) Accept(line string) Step {
	tok := strings.TrimSpace(line)
	switch {
	case tok == QuitToken:
		return m.finish()
	case tok == "":
		if len(m.sel) == 0 && m.opts.Skippable {
			return Skipped()
		}
		return Pending("enter a choice, or Q when done")
	}

	keys := strings.FieldsFunc(tok, func(r rune) bool { return r == ',' || r == ' ' })
	idx := make([]int, 0, len(keys))
	for _, k := range keys {
		i, rej := m.index(k)
		if rej != nil {
			return Rejected(rej)
		}
		idx = append(idx, i)
	}
	for _, i := range idx {
		m.sel.Toggle(i)
	}
	return Pending("selected: " + strings.Join(m.chosen(), ", "))
}

func (m *MultiSelect) finish() Step {
	n := len(m.sel)
	if n == 0 && m.opts.Skippable {
		return Skipped()
	}
	least := m.opts.MinChoices
	switch {
	case m.opts.Skippable:
		least = 0
	case least == 0:
		least = 1
	}
	if n < least {
		return Rejected(Rejectf(KindTooFewChoices, "%d selected, choose at least %d", n, least))
	}
	if m.opts.MaxChoices > 0 && n > m.opts.MaxChoices {
		return Rejected(Rejectf(KindTooManyChoices, "%d selected, choose at most %d", n, m.opts.MaxChoices))
	}
	keys := make([]string, 0, n)
	for _, i := range m.sel.Indices() {
		keys = append(keys, m.label(i))
	}
	return Accepted(m.chosen(), strings.Join(keys, ","))
}

func (m *MultiSelect) chosen() []string {
	out := make([]string, 0, len(m.sel))
	for _, i := range m.sel.Indices() {
		out = append(out, m.items[i])
	}
	return out
}
