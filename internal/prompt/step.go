package prompt

// Step is what a Prompter makes of one line of input.
type Step struct {
	// Value is the parsed answer when Done is set.
	Value any
	// Raw is the text the value came from, handed to validators.
	Raw string
	// Done ends the prompt with Value.
	Done bool
	// Skipped ends the prompt without a value.
	Skipped bool
	// Rejection asks for the line again.
	Rejection *Rejection
	// Notice is shown before the next read when the prompt needs more
	// input without having rejected anything.
	Notice string
}

// Accepted returns a finished step.
func Accepted(value any, raw string) Step {
	return Step{Value: value, Raw: raw, Done: true}
}

// Skipped returns a step that ends the prompt with no answer.
func Skipped() Step {
	return Step{Skipped: true}
}

// Rejected returns a step that asks again.
func Rejected(r *Rejection) Step {
	return Step{Rejection: r}
}

// Pending returns a step that reads another line after showing notice.
func Pending(notice string) Step {
	return Step{Notice: notice}
}

// Prompter is a per-question state machine. It starts awaiting input;
// each line moves it to done, skipped, rejected (back to awaiting) or
// pending (awaiting with extra state, as in multi-select).
type Prompter interface {
	// Hint is appended to the question text.
	Hint() string
	// Render returns extra lines shown before every read, styled with st.
	Render(st Styles) []string
	// Accept consumes one line.
	Accept(line string) Step
}
