package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultScorePolicy(t *testing.T) {
	tests := []struct {
		name           string
		in             ScoreInput
		wantScore      int
		wantCompletion float64
		wantDerail     float64
	}{
		{
			name:           "fresh goal with no history",
			in:             ScoreInput{Status: NewStatus(GoalTypeProgressive)},
			wantScore:      20,
			wantCompletion: 0,
			wantDerail:     0,
		},
		{
			name:           "complete goal on its best streak",
			in:             ScoreInput{Status: GoalStatus{Completion: 1, State: StateComplete}, Streak: &StreakRecord{CurrentCompletionStreak: 4, LongestCompletionStreak: 4}},
			wantScore:      100,
			wantCompletion: 100,
			wantDerail:     0,
		},
		{
			name: "half done with every prerequisite open",
			in: ScoreInput{
				Status:        GoalStatus{Completion: 0.5, State: StateActive},
				Prerequisites: []GoalStatus{{State: StateActive}, {State: StateActive}},
			},
			wantScore:      35,
			wantCompletion: 50,
			wantDerail:     0.5,
		},
		{
			name:           "inactive goal is more likely to derail",
			in:             ScoreInput{Status: GoalStatus{State: StateInactive}},
			wantScore:      15,
			wantCompletion: 0,
			wantDerail:     0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultScorePolicy{}.Score(tt.in)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.InDelta(t, tt.wantCompletion, got.CompletionPercentage, 1e-9)
			assert.InDelta(t, tt.wantDerail, got.DerailmentChance, 1e-9)
		})
	}
}

func TestGoalCalculateScoreUsesPolicy(t *testing.T) {
	g := validGoal()
	policy := ScorePolicyFunc(func(in ScoreInput) SuccessScore {
		return SuccessScore{Score: len(in.Prerequisites)}
	})

	got := g.CalculateScore(policy, nil, []GoalStatus{{}, {}, {}})
	assert.Equal(t, 3, got.Score)
	assert.Nil(t, g.SuccessScore, "score is derived, not stored")
}

func TestHabitCalculateScore(t *testing.T) {
	h := &Habit{State: StateActive, CompleteToday: true}
	h.Streak.CurrentCompletionStreak = 2
	h.Streak.LongestCompletionStreak = 4

	got := h.CalculateScore(nil, nil)
	assert.Equal(t, 100.0, got.CompletionPercentage)
	assert.InDelta(t, 0.5, got.SuccessInertia, 1e-9)
	assert.Equal(t, 85, got.Score)
}
