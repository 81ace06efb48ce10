// Package goals turns finished question runs into goals, tasks and habits
// and keeps their tree, dependency and streak state in a types.Store.
package goals

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/tinyj/internal/question"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// Build assembles an entity of the given kind from answers. The result
// has no address yet; Service.Create places it.
func Build(kind string, a question.Answers, now time.Time) (types.Entity, error) {
	switch kind {
	case types.KindGoal:
		return buildGoal(a, now)
	case types.KindTask:
		return buildTask(a, now)
	case types.KindHabit:
		return buildHabit(a, now), nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrInvalidKind, kind)
}

func buildGoal(a question.Answers, now time.Time) (*types.Goal, error) {
	goalType := a.String(question.FieldGoalType)
	if goalType == "" {
		goalType = types.GoalTypeBinary
	}
	g := &types.Goal{
		Alias:              a.String(question.FieldAlias),
		Goal:               a.String(question.FieldGoal),
		Description:        a.String(question.FieldDescription),
		Priority:           a.Int(question.FieldPriority),
		Importance:         a.Int(question.FieldImportance),
		Difficulty:         a.Int(question.FieldDifficulty),
		GoalType:           goalType,
		Status:             types.NewStatus(goalType),
		DeadlineConfidence: a.String(question.FieldConfidence),
		Tags:               a.Strings(question.FieldTags),
		Questions:          transcript(a),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if a.Has(question.FieldProgress) {
		if err := g.Status.SetCompletion(a.Float(question.FieldProgress) / 100); err != nil {
			return nil, err
		}
	}
	if a.Has(question.FieldStart) {
		t := a.Time(question.FieldStart)
		g.StartDate = &t
	}
	if a.Has(question.FieldDue) {
		t := a.Time(question.FieldDue)
		g.DueDate = &t
	}
	if situation, action, ok := question.SplitPlan(a.String(question.FieldPlan)); ok {
		g.IfThenPlans = map[string]string{situation: action}
	}
	return g, nil
}

func buildTask(a question.Answers, now time.Time) (*types.Task, error) {
	g, err := buildGoal(a, now)
	if err != nil {
		return nil, err
	}
	t := &types.Task{Goal: *g}
	if a.Has(question.FieldReps) {
		reps := a.Float(question.FieldReps)
		left := reps
		t.Reps, t.RepsLeft = &reps, &left
		if reps > 1 {
			t.GoalType = types.GoalTypeProgressive
			t.Status.Binary = false
		}
	}
	return t, nil
}

func buildHabit(a question.Answers, now time.Time) *types.Habit {
	freq := a.String(question.FieldFrequency)
	if freq == "" {
		freq = types.FrequencyDaily
	}
	return &types.Habit{
		Alias:       a.String(question.FieldAlias),
		Goal:        a.String(question.FieldGoal),
		Description: a.String(question.FieldDescription),
		Frequency:   freq,
		Priority:    a.Int(question.FieldPriority),
		Difficulty:  a.Int(question.FieldDifficulty),
		State:       types.StateActive,
		Questions:   transcript(a),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// transcript keeps the displayed answers alongside the entity.
func transcript(a question.Answers) map[string]string {
	out := make(map[string]string, len(a))
	for name, v := range a {
		out[name] = question.Display(v)
	}
	return out
}
