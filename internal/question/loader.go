package question

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tinyj/internal/prompt"
)

// catalogFile is the YAML layout of a question catalog.
type catalogFile struct {
	Sequences map[string][]questionSpec `yaml:"sequences"`
}

type questionSpec struct {
	Name           string        `yaml:"name"`
	Kind           string        `yaml:"kind"`
	Prompt         string        `yaml:"prompt"`
	Preface        string        `yaml:"preface"`
	Skippable      bool          `yaml:"skippable"`
	Choices        []string      `yaml:"choices"`
	Lettered       bool          `yaml:"lettered"`
	ConfirmChoice  bool          `yaml:"confirm_choice"`
	MinChoices     int           `yaml:"min_choices"`
	MaxChoices     int           `yaml:"max_choices"`
	Min            *float64      `yaml:"min"`
	Max            *float64      `yaml:"max"`
	IntegerOnly    bool          `yaml:"integer_only"`
	WithTime       bool          `yaml:"with_time"`
	TrueFalse      bool          `yaml:"true_false"`
	Pattern        string        `yaml:"pattern"`
	PatternMessage string        `yaml:"pattern_message"`
	PrefixNewlines int           `yaml:"prefix_newlines"`
	SuffixNewlines int           `yaml:"suffix_newlines"`
	SkipIf         *condition    `yaml:"skip_if"`
	Followup       *followupSpec `yaml:"followup"`
}

type followupSpec struct {
	When     condition    `yaml:"when"`
	Question questionSpec `yaml:"question"`
}

// condition is either {answer: name, equals: v} or
// {answer: name, present: true}. In a followup the answer key is omitted
// and the parent's value is tested.
type condition struct {
	Answer  string `yaml:"answer"`
	Equals  any    `yaml:"equals"`
	Present *bool  `yaml:"present"`
}

// Catalog is a set of named sequences loaded from YAML.
type Catalog map[string][]Question

// Names returns the sequence names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadCatalogFile reads a catalog from path.
func LoadCatalogFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog decodes a YAML catalog. Every sequence is checked the same
// way Run checks it, so a loaded catalog never fails with
// ErrMalformedSequence at run time.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	cat := make(Catalog, len(file.Sequences))
	checker := &Engine{}
	for name, specs := range file.Sequences {
		seq := make([]Question, 0, len(specs))
		for _, s := range specs {
			q, err := s.build()
			if err != nil {
				return nil, fmt.Errorf("sequence %q: %w", name, err)
			}
			seq = append(seq, q)
		}
		if err := checker.Check(seq); err != nil {
			return nil, fmt.Errorf("sequence %q: %w", name, err)
		}
		cat[name] = seq
	}
	return cat, nil
}

func (s questionSpec) build() (Question, error) {
	kind, err := ParseKind(s.Kind)
	if err != nil {
		return Question{}, fmt.Errorf("%w: question %q: %w", ErrMalformedSequence, s.Name, err)
	}
	q := Question{
		Name:           s.Name,
		Kind:           kind,
		Prompt:         s.Prompt,
		Preface:        s.Preface,
		Skippable:      s.Skippable,
		Choices:        s.Choices,
		Lettered:       s.Lettered,
		ConfirmChoice:  s.ConfirmChoice,
		MinChoices:     s.MinChoices,
		MaxChoices:     s.MaxChoices,
		Min:            s.Min,
		Max:            s.Max,
		IntegerOnly:    s.IntegerOnly,
		WithTime:       s.WithTime,
		PrefixNewlines: s.PrefixNewlines,
		SuffixNewlines: s.SuffixNewlines,
	}
	if s.TrueFalse {
		q.ConfirmStyle = prompt.TrueFalse
	}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return Question{}, fmt.Errorf("%w: question %q: pattern: %w", ErrMalformedSequence, s.Name, err)
		}
		msg := s.PatternMessage
		q.Validator = func(raw string) (bool, string) {
			return re.MatchString(raw), msg
		}
	}
	if c := s.SkipIf; c != nil {
		if c.Answer == "" {
			return Question{}, fmt.Errorf("%w: question %q: skip_if needs an answer name", ErrMalformedSequence, s.Name)
		}
		test, err := c.test()
		if err != nil {
			return Question{}, fmt.Errorf("%w: question %q: %w", ErrMalformedSequence, s.Name, err)
		}
		answer := c.Answer
		q.SkipIf = func(a Answers) bool {
			v, ok := a[answer]
			return test(v, ok)
		}
		q.Refs = []string{answer}
	}
	if f := s.Followup; f != nil {
		if f.When.Answer != "" {
			return Question{}, fmt.Errorf("%w: question %q: followup tests its parent's answer, drop when.answer", ErrMalformedSequence, s.Name)
		}
		test, err := f.When.test()
		if err != nil {
			return Question{}, fmt.Errorf("%w: question %q: %w", ErrMalformedSequence, s.Name, err)
		}
		next, err := f.Question.build()
		if err != nil {
			return Question{}, err
		}
		q.Followup = &Followup{
			When:     func(v any) bool { return test(v, true) },
			Question: &next,
		}
	}
	return q, nil
}

// test compiles the condition into a predicate over an answer value and
// whether it is present.
func (c condition) test() (func(v any, ok bool) bool, error) {
	switch {
	case c.Present != nil && c.Equals != nil:
		return nil, fmt.Errorf("condition on %q sets both equals and present", c.Answer)
	case c.Present != nil:
		want := *c.Present
		return func(_ any, ok bool) bool { return ok == want }, nil
	case c.Equals != nil:
		want := fmt.Sprint(c.Equals)
		return func(v any, ok bool) bool { return ok && matches(v, want) }, nil
	}
	return nil, fmt.Errorf("condition on %q needs equals or present", c.Answer)
}

// matches compares an answer with a YAML scalar. Multi-select answers
// match when any chosen value does.
func matches(v any, want string) bool {
	switch v := v.(type) {
	case []string:
		for _, s := range v {
			if strings.EqualFold(s, want) {
				return true
			}
		}
		return false
	case string:
		return strings.EqualFold(v, want)
	case bool:
		return fmt.Sprint(v) == strings.ToLower(want)
	}
	return fmt.Sprint(v) == want
}
