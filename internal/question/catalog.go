package question

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/tinyj/internal/prompt"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// Answer names used by the built-in sequences.
const (
	FieldIntro         = "intro"
	FieldAlias         = "alias"
	FieldGoal          = "goal"
	FieldDescription   = "description"
	FieldGoalType      = "goal_type"
	FieldProgress      = "progress"
	FieldPriority      = "priority"
	FieldImportance    = "importance"
	FieldDifficulty    = "difficulty"
	FieldStart         = "start"
	FieldDue           = "due"
	FieldConfidence    = "deadline_confidence"
	FieldHasParent     = "has_parent"
	FieldParent        = "parent"
	FieldPrerequisites = "prerequisites"
	FieldTags          = "tags"
	FieldHasPlan       = "has_if_then"
	FieldPlan          = "if_then"
	FieldFrequency     = "frequency"
	FieldReps          = "reps"
	FieldHidden        = "hidden_entries"
)

// maxAliasLen bounds aliases so list output stays aligned.
const maxAliasLen = 32

// Existing carries the aliases a new entry may attach to.
type Existing struct {
	// Parents are goals and tasks that can take children.
	Parents []string
	// Nodes are every alias in the store, usable as prerequisites.
	Nodes []string
}

// Sequence returns the built-in sequence for target.
// Returns ErrUnknownSequence for anything but goal, task or habit.
func Sequence(target string, ex Existing) ([]Question, error) {
	switch target {
	case types.KindGoal:
		return GoalSequence(ex), nil
	case types.KindTask:
		return TaskSequence(ex), nil
	case types.KindHabit:
		return HabitSequence(ex), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSequence, target)
}

// GoalSequence asks for a new goal.
func GoalSequence(ex Existing) []Question {
	seq := []Question{
		{Name: FieldIntro, Kind: Print, Prompt: "New goal", SuffixNewlines: 1},
	}
	seq = append(seq, identity(ex, "What is the intent of this goal?")...)
	seq = append(seq,
		Question{
			Name:    FieldGoalType,
			Kind:    Select,
			Prompt:  "Is this goal done in one go, or worked towards over time?",
			Choices: []string{types.GoalTypeBinary, types.GoalTypeProgressive},
			Followup: &Followup{
				When: func(v any) bool { return v == types.GoalTypeProgressive },
				Question: &Question{
					Name:      FieldProgress,
					Kind:      Numeric,
					Prompt:    "How far along are you, in percent?",
					Min:       Bound(0),
					Max:       Bound(100),
					Skippable: true,
				},
			},
		},
		rank(FieldPriority, "How high a priority is this?"),
		rank(FieldImportance, "How important is this to you?"),
		rank(FieldDifficulty, "How difficult will this be?"),
	)
	seq = append(seq, schedule()...)
	seq = append(seq, placement(ex)...)
	seq = append(seq, extras()...)
	return seq
}

// TaskSequence asks for a new task: a goal done by repetition.
func TaskSequence(ex Existing) []Question {
	seq := []Question{
		{Name: FieldIntro, Kind: Print, Prompt: "New task", SuffixNewlines: 1},
	}
	seq = append(seq, identity(ex, "What needs doing?")...)
	seq = append(seq,
		Question{
			Name:        FieldReps,
			Kind:        Numeric,
			Prompt:      "How many times does it need doing?",
			Min:         Bound(1),
			IntegerOnly: true,
			Skippable:   true,
		},
		rank(FieldPriority, "How high a priority is this?"),
		rank(FieldImportance, "How important is this to you?"),
		rank(FieldDifficulty, "How difficult will this be?"),
	)
	seq = append(seq, schedule()...)
	seq = append(seq, placement(ex)...)
	seq = append(seq, extras()...)
	return seq
}

// HabitSequence asks for a new habit.
func HabitSequence(ex Existing) []Question {
	seq := []Question{
		{Name: FieldIntro, Kind: Print, Prompt: "New habit", SuffixNewlines: 1},
	}
	seq = append(seq, identity(ex, "What habit do you want to build?")...)
	seq = append(seq,
		Question{
			Name:     FieldFrequency,
			Kind:     Select,
			Prompt:   "How often?",
			Choices:  types.Frequencies,
			Lettered: true,
		},
		rank(FieldPriority, "How high a priority is this?"),
		rank(FieldDifficulty, "How difficult will this be?"),
	)
	seq = append(seq, placement(ex)...)
	return seq
}

func identity(ex Existing, intent string) []Question {
	return []Question{
		{
			Name:      FieldAlias,
			Kind:      Text,
			Prompt:    "Short name (no spaces):",
			Validator: aliasValidator(ex.Nodes),
		},
		{Name: FieldGoal, Kind: Text, Prompt: intent},
		{Name: FieldDescription, Kind: Text, Prompt: "Any description?", Skippable: true},
	}
}

func rank(name, text string) Question {
	return Question{
		Name:        name,
		Kind:        Numeric,
		Prompt:      text,
		Min:         Bound(types.MinRank),
		Max:         Bound(types.MaxRank),
		IntegerOnly: true,
	}
}

func schedule() []Question {
	return []Question{
		{Name: FieldStart, Kind: Date, Prompt: "When will this start?", WithTime: true, Skippable: true},
		{Name: FieldDue, Kind: Date, Prompt: "When will this be due?", WithTime: true, Skippable: true},
		{
			Name:    FieldConfidence,
			Kind:    Select,
			Prompt:  "How confident are you in that deadline?",
			Choices: types.Confidences,
			Refs:    []string{FieldDue},
			SkipIf: func(a Answers) bool {
				return !a.Has(FieldDue) || types.IsUndecided(a.Time(FieldDue))
			},
		},
	}
}

func placement(ex Existing) []Question {
	var seq []Question
	if hidden := len(ex.Nodes) - prompt.MaxChoices; hidden > 0 {
		seq = append(seq, Question{
			Name:   FieldHidden,
			Kind:   Print,
			Prompt: fmt.Sprintf("Only the %d most recent entries are listed, %d older ones are hidden.", prompt.MaxChoices, hidden),
		})
	}
	if parents := capChoices(ex.Parents); len(parents) > 0 {
		seq = append(seq, Question{
			Name:         FieldHasParent,
			Kind:         Confirm,
			Prompt:       "Is this part of an existing goal?",
			ConfirmStyle: prompt.YesNo,
			Followup: &Followup{
				When: func(v any) bool { return v == true },
				Question: &Question{
					Name:          FieldParent,
					Kind:          Select,
					Prompt:        "Which one?",
					Choices:       parents,
					ConfirmChoice: true,
				},
			},
		})
	}
	if nodes := capChoices(ex.Nodes); len(nodes) > 0 {
		seq = append(seq, Question{
			Name:      FieldPrerequisites,
			Kind:      MultiSelect,
			Prompt:    "Does anything need to happen first?",
			Choices:   nodes,
			Skippable: true,
		})
	}
	return seq
}

func extras() []Question {
	return []Question{
		{
			Name:      FieldTags,
			Kind:      Text,
			Prompt:    "Tags, comma separated:",
			Skippable: true,
			Transform: func(v any) any { return SplitTags(v.(string)) },
		},
		{
			Name:         FieldHasPlan,
			Kind:         Confirm,
			Prompt:       "Add an if-then plan?",
			Skippable:    true,
			ConfirmStyle: prompt.YesNo,
			Followup: &Followup{
				When: func(v any) bool { return v == true },
				Question: &Question{
					Name:      FieldPlan,
					Kind:      Text,
					Prompt:    "If <situation> then <action>:",
					Validator: planValidator,
				},
			},
		},
	}
}

func aliasValidator(taken []string) func(string) (bool, string) {
	return func(raw string) (bool, string) {
		if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
			return false, "alias must not contain spaces"
		}
		if len(raw) > maxAliasLen {
			return false, fmt.Sprintf("alias must be at most %d characters", maxAliasLen)
		}
		for _, t := range taken {
			if strings.EqualFold(t, raw) {
				return false, fmt.Sprintf("alias %q is already taken", raw)
			}
		}
		return true, ""
	}
}

func planValidator(raw string) (bool, string) {
	if _, _, ok := SplitPlan(raw); !ok {
		return false, "plan must read: if <situation> then <action>"
	}
	return true, ""
}

// SplitPlan splits "if X then Y" into X and Y.
func SplitPlan(raw string) (situation, action string, ok bool) {
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "if ") {
		return "", "", false
	}
	i := strings.Index(lower, " then ")
	if i < 0 {
		return "", "", false
	}
	situation = strings.TrimSpace(raw[3:i])
	action = strings.TrimSpace(raw[i+len(" then "):])
	return situation, action, situation != "" && action != ""
}

// SplitTags splits a comma separated list and drops empty entries.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// capChoices keeps the entries that fit in a choice list. Existing lists
// are oldest first, so these are the most recent.
func capChoices(items []string) []string {
	if len(items) > prompt.MaxChoices {
		items = items[len(items)-prompt.MaxChoices:]
	}
	return append([]string(nil), items...)
}
