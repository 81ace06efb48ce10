package types

import "math"

// SuccessScore summarizes a node's completion trajectory. It is always
// recomputed and never stored as authoritative.
type SuccessScore struct {
	CompletionPercentage float64 `json:"completion_percentage"`
	SuccessInertia       float64 `json:"success_inertia"`
	DerailmentChance     float64 `json:"derailment_chance"`
	Score                int     `json:"score"`
}

// ScoreInput is everything a ScorePolicy may look at.
type ScoreInput struct {
	Status        GoalStatus
	Streak        *StreakRecord
	Prerequisites []GoalStatus
}

// ScorePolicy turns goal state into a SuccessScore.
type ScorePolicy interface {
	Score(in ScoreInput) SuccessScore
}

// ScorePolicyFunc adapts a function to ScorePolicy.
type ScorePolicyFunc func(in ScoreInput) SuccessScore

// Score implements ScorePolicy.
func (f ScorePolicyFunc) Score(in ScoreInput) SuccessScore { return f(in) }

// DefaultScorePolicy weighs completion at 50 points, streak inertia at 30
// and the chance of staying on track at 20.
//
// Inertia is the current completion run relative to the longest one.
// Derailment averages the share of unfinished prerequisites with the
// share of recent periods missed.
type DefaultScorePolicy struct{}

// Score implements ScorePolicy.
func (DefaultScorePolicy) Score(in ScoreInput) SuccessScore {
	completion := in.Status.Completion
	if in.Status.Done() {
		completion = 1
	}

	var inertia, missed float64
	if s := in.Streak; s != nil {
		if s.LongestCompletionStreak > 0 {
			inertia = float64(s.CurrentCompletionStreak) / float64(s.LongestCompletionStreak)
		}
		runs := s.CurrentCompletionStreak + s.CurrentIncompletionStreak
		if runs > 0 {
			missed = float64(s.CurrentIncompletionStreak) / float64(runs+1)
		}
	}

	blocked := 0.0
	if n := len(in.Prerequisites); n > 0 {
		var open int
		for _, p := range in.Prerequisites {
			if !p.Done() {
				open++
			}
		}
		blocked = float64(open) / float64(n)
	}
	derail := clamp01((blocked + missed) / 2)
	if in.Status.State == StateInactive || in.Status.State == StateIncomplete {
		derail = clamp01(derail + 0.25)
	}

	score := 50*completion + 30*inertia + 20*(1-derail)
	return SuccessScore{
		CompletionPercentage: completion * 100,
		SuccessInertia:       inertia,
		DerailmentChance:     derail,
		Score:                int(math.Round(score)),
	}
}

// CalculateScore derives the goal's SuccessScore from its status, its
// streak and the status of its prerequisites. A nil policy uses
// DefaultScorePolicy. The result is not stored on the goal.
func (g *Goal) CalculateScore(policy ScorePolicy, streak *StreakRecord, prereqs []GoalStatus) SuccessScore {
	if policy == nil {
		policy = DefaultScorePolicy{}
	}
	return policy.Score(ScoreInput{Status: g.Status, Streak: streak, Prerequisites: prereqs})
}

// CalculateScore derives the habit's SuccessScore. Completion is whether
// the current period is done.
func (h *Habit) CalculateScore(policy ScorePolicy, prereqs []GoalStatus) SuccessScore {
	if policy == nil {
		policy = DefaultScorePolicy{}
	}
	status := GoalStatus{Binary: true, State: h.State}
	if h.CompleteToday {
		status.Completion = 1
	}
	return policy.Score(ScoreInput{Status: status, Streak: &h.Streak, Prerequisites: prereqs})
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
