package question

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mesh-intelligence/tinyj/internal/logging"
	"github.com/mesh-intelligence/tinyj/internal/prompt"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// Engine runs question sequences on a console.
type Engine struct {
	console  *prompt.Console
	log      *logging.Logger
	lettered bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLetteredChoices labels every select with letters instead of
// numbers.
func WithLetteredChoices(enabled bool) Option {
	return func(e *Engine) { e.lettered = enabled }
}

// NewEngine creates an engine that prompts on c.
func NewEngine(c *prompt.Console, opts ...Option) *Engine {
	e := &Engine{console: c, log: logging.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run asks every question in seq and returns the answers. The sequence
// is checked first; a bad sequence fails with ErrMalformedSequence before
// anything is shown. If input ends mid-run, Run returns ErrInputClosed and
// no answers.
func (e *Engine) Run(seq []Question) (Answers, error) {
	if err := e.Check(seq); err != nil {
		e.log.Error("rejected question sequence", "error", err)
		return nil, err
	}
	answers := Answers{}
	for i := range seq {
		if err := e.ask(&seq[i], answers); err != nil {
			return nil, err
		}
	}
	return answers, nil
}

// Check validates seq without asking anything.
func (e *Engine) Check(seq []Question) error {
	seen := make(map[string]bool)
	for i := range seq {
		if err := e.check(&seq[i], seen); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) check(q *Question, seen map[string]bool) error {
	malformed := func(reason string) error {
		return fmt.Errorf("%w: question %q: %s", ErrMalformedSequence, q.Name, reason)
	}
	switch {
	case q.Name == "":
		return malformed("empty name")
	case seen[q.Name]:
		return malformed("duplicate name")
	case !q.Kind.hasChoices() && len(q.Choices) > 0:
		return malformed("choices on a " + q.Kind.String() + " question")
	case q.Kind != Numeric && (q.Min != nil || q.Max != nil || q.IntegerOnly):
		return malformed("bounds on a " + q.Kind.String() + " question")
	case q.Kind != MultiSelect && (q.MinChoices != 0 || q.MaxChoices != 0):
		return malformed("choice bounds on a " + q.Kind.String() + " question")
	case !q.Kind.hasChoices() && q.Lettered:
		return malformed("lettered choices on a " + q.Kind.String() + " question")
	case q.Kind != Select && q.ConfirmChoice:
		return malformed("confirm_choice on a " + q.Kind.String() + " question")
	case q.Kind != Confirm && q.ConfirmStyle != prompt.YesNo:
		return malformed("confirm style on a " + q.Kind.String() + " question")
	case q.Kind != Date && q.WithTime:
		return malformed("with_time on a " + q.Kind.String() + " question")
	}
	for _, ref := range q.Refs {
		if ref != q.Name && !seen[ref] {
			return malformed("refers to " + ref + " before it is asked")
		}
	}
	if q.Kind != Print {
		if _, err := e.prompter(q); err != nil {
			return fmt.Errorf("%w: question %q: %w", ErrMalformedSequence, q.Name, err)
		}
	}
	seen[q.Name] = true

	if f := q.Followup; f != nil {
		if f.When == nil || f.Question == nil {
			return malformed("incomplete followup")
		}
		return e.check(f.Question, seen)
	}
	return nil
}

// prompter maps a question to a fresh prompter.
func (e *Engine) prompter(q *Question) (prompt.Prompter, error) {
	opts := prompt.ChoiceOptions{
		Lettered:   q.Lettered || e.lettered,
		Skippable:  q.Skippable,
		Confirm:    q.ConfirmChoice,
		MinChoices: q.MinChoices,
		MaxChoices: q.MaxChoices,
	}
	switch q.Kind {
	case Text:
		return prompt.NewText(q.Skippable), nil
	case Confirm:
		return prompt.NewConfirm(q.ConfirmStyle, q.Skippable), nil
	case Numeric:
		return prompt.NewNumeric(prompt.NumericOptions{
			Min:         q.Min,
			Max:         q.Max,
			IntegerOnly: q.IntegerOnly,
			Skippable:   q.Skippable,
		})
	case Date:
		now := time.Now
		if e.console != nil {
			now = e.console.Now
		}
		return prompt.NewDate(q.WithTime, q.Skippable, now), nil
	case Time:
		return prompt.NewTime(q.Skippable), nil
	case Select:
		return prompt.NewSelect(q.Choices, opts)
	case MultiSelect:
		return prompt.NewMultiSelect(q.Choices, opts)
	case Print:
		return nil, errors.New("print questions take no input")
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(q.Kind))
	}
}

func (e *Engine) ask(q *Question, answers Answers) error {
	if q.SkipIf != nil && q.SkipIf(answers) {
		e.log.Debug("skipped question", "question", q.Name)
		return nil
	}

	e.console.Blank(q.PrefixNewlines)
	if q.Preface != "" {
		e.console.Println(q.Preface)
	}
	if q.Kind == Print {
		e.console.Println(q.Prompt)
		e.console.Blank(q.SuffixNewlines)
		return nil
	}

	p, err := e.prompter(q)
	if err != nil {
		return fmt.Errorf("%w: question %q: %w", ErrMalformedSequence, q.Name, err)
	}
	value, ok, err := e.read(q, p)
	if err != nil {
		return err
	}
	e.console.Blank(q.SuffixNewlines)
	if !ok {
		e.log.Debug("question left blank", "question", q.Name)
		return nil
	}

	if q.Transform != nil {
		value = q.Transform(value)
	}
	answers[q.Name] = value
	e.console.Record(q.Prompt, Display(value))

	if f := q.Followup; f != nil && f.When(value) {
		e.log.Debug("following up", "question", q.Name, "followup", f.Question.Name)
		return e.ask(f.Question, answers)
	}
	return nil
}

// read loops until p accepts or skips. ok is false on skip.
func (e *Engine) read(q *Question, p prompt.Prompter) (any, bool, error) {
	for {
		e.console.Ask(q.Prompt, p.Hint(), p.Render(e.console.Styles()))
		line, err := e.console.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, false, ErrInputClosed
			}
			return nil, false, fmt.Errorf("reading answer to %q: %w", q.Name, err)
		}

		step := p.Accept(line)
		if step.Done && q.Validator != nil {
			if ok, msg := q.Validator(step.Raw); !ok {
				if msg == "" {
					msg = fmt.Sprintf("%q is an invalid answer", step.Raw)
				}
				step = prompt.Rejected(prompt.Rejectf(prompt.KindValidation, "%s", msg))
			}
		}

		switch {
		case step.Rejection != nil:
			e.log.Debug("rejected answer", "question", q.Name, "kind", step.Rejection.Kind.String(), "reason", step.Rejection.Message)
			e.console.Reject(step.Rejection)
			if !step.Rejection.Retry {
				return nil, false, step.Rejection
			}
		case step.Skipped:
			return nil, false, nil
		case step.Done:
			return step.Value, true, nil
		case step.Notice != "":
			e.console.Notice(step.Notice)
		}
	}
}

// Display renders an answer for the transcript.
func Display(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case time.Time:
		if types.IsUndecided(v) {
			return "later"
		}
		return v.Format("01/02/06 03:04 PM")
	case []string:
		return strings.Join(v, ", ")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
