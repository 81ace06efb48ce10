package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tinyj/internal/question"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

func TestBuildGoal(t *testing.T) {
	due := time.Date(2045, time.November, 23, 0, 0, 0, 0, time.UTC)
	a := goalAnswers("garden")
	a[question.FieldGoalType] = types.GoalTypeProgressive
	a[question.FieldProgress] = int64(40)
	a[question.FieldDue] = due
	a[question.FieldConfidence] = "confident"
	a[question.FieldTags] = []string{"outdoor", "spring"}
	a[question.FieldPlan] = "if it rains then weed the greenhouse"

	e, err := Build(types.KindGoal, a, fixedNow)
	require.NoError(t, err)
	g := e.(*types.Goal)

	assert.Equal(t, "garden", g.Alias)
	assert.Equal(t, 5, g.Priority)
	assert.InDelta(t, 0.4, g.Status.Completion, 1e-9)
	assert.False(t, g.Status.Binary)
	require.NotNil(t, g.DueDate)
	assert.Equal(t, due, *g.DueDate)
	assert.Nil(t, g.StartDate)
	assert.Equal(t, []string{"outdoor", "spring"}, g.Tags)
	assert.Equal(t, map[string]string{"it rains": "weed the greenhouse"}, g.IfThenPlans)
	assert.Equal(t, "11/23/45 12:00 AM", g.Questions[question.FieldDue])
	assert.Equal(t, fixedNow, g.CreatedAt)
	require.NoError(t, g.Validate())
}

func TestBuildTask(t *testing.T) {
	tests := []struct {
		name        string
		reps        any
		progressive bool
	}{
		{"no reps", nil, false},
		{"single rep", int64(1), false},
		{"several reps", int64(3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := goalAnswers("task")
			if tt.reps != nil {
				a[question.FieldReps] = tt.reps
			}
			e, err := Build(types.KindTask, a, fixedNow)
			require.NoError(t, err)
			task := e.(*types.Task)
			assert.Equal(t, tt.progressive, task.GoalType == types.GoalTypeProgressive)
			assert.Equal(t, !tt.progressive, task.Status.Binary)
			if tt.reps == nil {
				assert.Nil(t, task.Reps)
			} else {
				require.NotNil(t, task.RepsLeft)
				assert.Equal(t, *task.Reps, *task.RepsLeft)
			}
		})
	}
}

func TestBuildHabit(t *testing.T) {
	a := habitAnswers("read")
	delete(a, question.FieldFrequency)

	e, err := Build(types.KindHabit, a, fixedNow)
	require.NoError(t, err)
	h := e.(*types.Habit)
	assert.Equal(t, types.FrequencyDaily, h.Frequency)
	assert.Equal(t, types.StateActive, h.State)
	assert.Equal(t, "read", h.Questions[question.FieldAlias])
	require.NoError(t, h.Validate())
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build("epic", question.Answers{}, fixedNow)
	assert.ErrorIs(t, err, types.ErrInvalidKind)
}
