package question

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tinyj/internal/prompt"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestEngine(input string, opts ...Option) (*Engine, *bytes.Buffer) {
	var out bytes.Buffer
	c := prompt.NewConsole(strings.NewReader(input), &out,
		prompt.WithClock(func() time.Time { return fixedNow }))
	return NewEngine(c, opts...), &out
}

func always(Answers) bool { return true }

func TestRunSkipIfHidesQuestion(t *testing.T) {
	e, out := newTestEngine("b answer\n")
	seq := []Question{
		{Name: "a", Kind: Text, Prompt: "Question A?", SkipIf: always},
		{Name: "b", Kind: Text, Prompt: "Question B?"},
	}

	got, err := e.Run(seq)
	require.NoError(t, err)

	assert.Equal(t, Answers{"b": "b answer"}, got)
	assert.NotContains(t, out.String(), "Question A?")
	assert.Contains(t, out.String(), "Question B?")
}

func TestRunRetriesUntilValid(t *testing.T) {
	e, out := newTestEngine("15\nabc\n\n20\n")
	seq := []Question{
		{Name: "minutes", Kind: Numeric, Prompt: "How long?", Min: Bound(20), Max: Bound(400)},
	}

	got, err := e.Run(seq)
	require.NoError(t, err)

	assert.Equal(t, int64(20), got["minutes"])
	assert.Equal(t, 3, strings.Count(out.String(), "ERROR:"))
	assert.Contains(t, out.String(), "answer must be >= 20")
	assert.Contains(t, out.String(), "not skippable")
}

func TestRunFollowup(t *testing.T) {
	seq := func() []Question {
		return []Question{
			{
				Name:   "parent",
				Kind:   Confirm,
				Prompt: "Has parent?",
				Followup: &Followup{
					When:     func(v any) bool { return v == true },
					Question: &Question{Name: "which", Kind: Text, Prompt: "Which?"},
				},
			},
			{Name: "last", Kind: Text, Prompt: "Last?"},
		}
	}

	e, _ := newTestEngine("y\nfitness\ndone\n")
	got, err := e.Run(seq())
	require.NoError(t, err)
	assert.Equal(t, Answers{"parent": true, "which": "fitness", "last": "done"}, got)

	e, out := newTestEngine("n\ndone\n")
	got, err = e.Run(seq())
	require.NoError(t, err)
	assert.Equal(t, Answers{"parent": false, "last": "done"}, got)
	assert.NotContains(t, out.String(), "Which?")
}

func TestRunSkippableBlankStoresNothing(t *testing.T) {
	e, _ := newTestEngine("\n\n")
	seq := []Question{
		{Name: "notes", Kind: Text, Prompt: "Notes?", Skippable: true},
		{Name: "due", Kind: Date, Prompt: "Due?", Skippable: true},
	}

	got, err := e.Run(seq)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, got.Has("notes"))
}

func TestRunInputClosed(t *testing.T) {
	e, _ := newTestEngine("first\n\n")
	seq := []Question{
		{Name: "a", Kind: Text, Prompt: "A?"},
		{Name: "b", Kind: Text, Prompt: "B?"},
	}

	got, err := e.Run(seq)
	assert.ErrorIs(t, err, ErrInputClosed)
	assert.Nil(t, got)
}

func TestRunValidatorAndTransform(t *testing.T) {
	e, out := newTestEngine("Bob\nbob\n")
	seq := []Question{
		{
			Name:   "name",
			Kind:   Text,
			Prompt: "Name?",
			Validator: func(raw string) (bool, string) {
				return raw == strings.ToLower(raw), "use lower case"
			},
			Transform: func(v any) any { return strings.ToUpper(v.(string)) },
		},
	}

	got, err := e.Run(seq)
	require.NoError(t, err)
	assert.Equal(t, "BOB", got.String("name"))
	assert.Contains(t, out.String(), "ERROR: use lower case")
}

func TestRunValidatorDefaultMessage(t *testing.T) {
	e, out := newTestEngine("x\ny\n")
	seq := []Question{
		{Name: "q", Kind: Text, Prompt: "Q?", Validator: func(raw string) (bool, string) { return raw == "y", "" }},
	}

	_, err := e.Run(seq)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"x" is an invalid answer`)
}

func TestRunPrintStoresNothing(t *testing.T) {
	e, out := newTestEngine("")
	seq := []Question{
		{Name: "intro", Kind: Print, Prompt: "Welcome", Preface: "--", PrefixNewlines: 1, SuffixNewlines: 1},
	}

	got, err := e.Run(seq)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "\n--\nWelcome\n\n", out.String())
}

func TestRunChoiceKinds(t *testing.T) {
	e, _ := newTestEngine("b\na\nc\na\nQ\nnow\n1:30\n", WithLetteredChoices(true))
	seq := []Question{
		{Name: "one", Kind: Select, Prompt: "One?", Choices: []string{"x", "y"}},
		{Name: "many", Kind: MultiSelect, Prompt: "Many?", Choices: []string{"p", "q", "r"}},
		{Name: "when", Kind: Date, Prompt: "When?", WithTime: true},
		{Name: "long", Kind: Time, Prompt: "How long?"},
	}

	got, err := e.Run(seq)
	require.NoError(t, err)

	assert.Equal(t, "y", got.String("one"))
	assert.Equal(t, []string{"r"}, got.Strings("many"))
	assert.Equal(t, time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC), got.Time("when"))
	assert.Equal(t, 90*time.Second, got.TimeOfDay("long").Duration())
}

func TestRunRecordsTranscript(t *testing.T) {
	var out bytes.Buffer
	c := prompt.NewConsole(strings.NewReader("y\nrun\n"), &out)
	e := NewEngine(c)

	_, err := e.Run([]Question{
		{Name: "ok", Kind: Confirm, Prompt: "Ready?"},
		{Name: "alias", Kind: Text, Prompt: "Alias?"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ready? yes", "Alias? run"}, c.Transcript())
}

func TestRunRejectsMalformedSequence(t *testing.T) {
	many := make([]string, 27)
	for i := range many {
		many[i] = fmt.Sprint(i)
	}

	tests := []struct {
		name string
		seq  []Question
	}{
		{name: "empty name", seq: []Question{{Kind: Text, Prompt: "?"}}},
		{name: "duplicate name", seq: []Question{{Name: "a", Kind: Text}, {Name: "a", Kind: Text}}},
		{name: "select without choices", seq: []Question{{Name: "a", Kind: Select}}},
		{name: "choices on text", seq: []Question{{Name: "a", Kind: Text, Choices: []string{"x"}}}},
		{name: "too many choices", seq: []Question{{Name: "a", Kind: Select, Choices: many}}},
		{name: "equal bounds", seq: []Question{{Name: "a", Kind: Numeric, Min: Bound(3), Max: Bound(3)}}},
		{name: "bounds on text", seq: []Question{{Name: "a", Kind: Text, Min: Bound(3)}}},
		{name: "choice bounds on select", seq: []Question{{Name: "a", Kind: Select, Choices: []string{"x"}, MaxChoices: 1}}},
		{name: "lettered text", seq: []Question{{Name: "a", Kind: Text, Lettered: true}}},
		{name: "confirm choice on multi-select", seq: []Question{{Name: "a", Kind: MultiSelect, Choices: []string{"x"}, ConfirmChoice: true}}},
		{name: "confirm style on numeric", seq: []Question{{Name: "a", Kind: Numeric, ConfirmStyle: prompt.TrueFalse}}},
		{name: "with time on text", seq: []Question{{Name: "a", Kind: Text, WithTime: true}}},
		{name: "forward reference", seq: []Question{
			{Name: "a", Kind: Text, Refs: []string{"b"}, SkipIf: always},
			{Name: "b", Kind: Text},
		}},
		{name: "incomplete followup", seq: []Question{{Name: "a", Kind: Text, Followup: &Followup{}}}},
		{name: "followup reuses name", seq: []Question{
			{Name: "a", Kind: Confirm, Followup: &Followup{
				When:     func(any) bool { return true },
				Question: &Question{Name: "a", Kind: Text},
			}},
		}},
		{name: "unknown kind", seq: []Question{{Name: "a", Kind: Kind(42)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, out := newTestEngine("anything\n")
			got, err := e.Run(tt.seq)
			assert.ErrorIs(t, err, ErrMalformedSequence)
			assert.Nil(t, got)
			assert.Empty(t, out.String(), "nothing may be prompted")
		})
	}
}

func TestCheckAllowsBackwardAndSelfReferences(t *testing.T) {
	e, _ := newTestEngine("")
	err := e.Check([]Question{
		{Name: "a", Kind: Text},
		{Name: "b", Kind: Text, Refs: []string{"a", "b"}, SkipIf: always},
	})
	assert.NoError(t, err)
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{true, "yes"},
		{false, "no"},
		{[]string{"a", "b"}, "a, b"},
		{int64(7), "7"},
		{prompt.TimeOfDay{Minute: 5}, "00:05:00.000"},
		{time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC), "01/02/26 03:04 PM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Display(tt.in))
	}
}
