// Shared helpers for tinyj commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/tinyj/internal/goals"
	"github.com/mesh-intelligence/tinyj/internal/prompt"
	"github.com/mesh-intelligence/tinyj/internal/question"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// kinds lists the entity kinds accepted on the command line.
var kinds = []string{types.KindGoal, types.KindHabit, types.KindTask}

// userErrors are failures caused by input rather than the environment.
var userErrors = []error{
	question.ErrInputClosed,
	question.ErrMalformedSequence,
	question.ErrUnknownSequence,
	goals.ErrUnknownAlias,
	goals.ErrHasChildren,
	goals.ErrNotParent,
	types.ErrNotFound,
	types.ErrInvalidKind,
	types.ErrInvalidName,
	types.ErrInvalidRank,
	types.ErrInvalidState,
	types.ErrInvalidCompletion,
	types.ErrInvalidData,
	types.ErrAlreadyComplete,
	types.ErrNoRepsLeft,
}

// classify tags err with the exit code of its cause.
func classify(err error) error {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return userError(err)
		}
	}
	return sysError(err)
}

// parseKind accepts a singular or plural entity kind.
func parseKind(s string) (string, error) {
	k := strings.TrimSuffix(strings.ToLower(s), "s")
	for _, valid := range kinds {
		if k == valid {
			return k, nil
		}
	}
	return "", userError(fmt.Errorf("unknown kind %q (valid: %s)", s, strings.Join(kinds, ", ")))
}

// console builds the prompt console for interactive commands. Live redraw
// needs both the config switch and a terminal.
func (a *app) console() *prompt.Console {
	live := a.cfg.GetBool(cfgKeyLiveRedraw) && prompt.IsTerminal(a.out)
	return prompt.NewConsole(a.in, a.out, prompt.WithLiveRedraw(live))
}

// engine builds a question engine over c.
func (a *app) engine(c *prompt.Console) *question.Engine {
	return question.NewEngine(c,
		question.WithLogger(a.log),
		question.WithLetteredChoices(a.cfg.GetBool(cfgKeyLetteredChoices)),
	)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// completion renders an entity's progress column.
func completion(e types.Entity) string {
	st := goals.StatusOf(e)
	if h, ok := e.(*types.Habit); ok {
		if h.CompleteToday {
			return "done"
		}
		return fmt.Sprintf("streak %d", h.Streak.CurrentCompletionStreak)
	}
	return fmt.Sprintf("%3.0f%%", st.Completion*100)
}

// shortID trims a UUID to its last block for tabular output.
func shortID(id string) string {
	if i := strings.LastIndexByte(id, '-'); i >= 0 {
		return id[i+1:]
	}
	return id
}
