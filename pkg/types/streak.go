package types

import "time"

// StreakRecord tracks runs of completed and missed tracking periods.
// Shortest streaks are only recorded once a run ends.
type StreakRecord struct {
	StartedOn                  time.Time      `json:"started_on"`
	LastComplete               time.Time      `json:"last_complete"`
	LastIncomplete             time.Time      `json:"last_incomplete"`
	LongestCompletionStreak    int            `json:"longest_completion_streak"`
	ShortestCompletionStreak   int            `json:"shortest_completion_streak"`
	LongestIncompletionStreak  int            `json:"longest_incompletion_streak"`
	ShortestIncompletionStreak int            `json:"shortest_incompletion_streak"`
	CurrentCompletionStreak    int            `json:"current_completion_streak"`
	CurrentIncompletionStreak  int            `json:"current_incompletion_streak"`
	TotalTimeSpent             *time.Duration `json:"total_time_spent,omitempty"`
}

// RecordCompletion extends the completion run, closing any open
// incompletion run. A positive spent duration is added to the total.
func (s *StreakRecord) RecordCompletion(at time.Time, spent time.Duration) {
	if s.StartedOn.IsZero() {
		s.StartedOn = at
	}
	if s.CurrentIncompletionStreak > 0 {
		s.ShortestIncompletionStreak = shorter(s.ShortestIncompletionStreak, s.CurrentIncompletionStreak)
		s.CurrentIncompletionStreak = 0
	}
	s.CurrentCompletionStreak++
	if s.CurrentCompletionStreak > s.LongestCompletionStreak {
		s.LongestCompletionStreak = s.CurrentCompletionStreak
	}
	s.LastComplete = at
	if spent > 0 {
		total := spent
		if s.TotalTimeSpent != nil {
			total += *s.TotalTimeSpent
		}
		s.TotalTimeSpent = &total
	}
}

// RecordMiss extends the incompletion run, closing any open completion run.
func (s *StreakRecord) RecordMiss(at time.Time) {
	if s.StartedOn.IsZero() {
		s.StartedOn = at
	}
	if s.CurrentCompletionStreak > 0 {
		s.ShortestCompletionStreak = shorter(s.ShortestCompletionStreak, s.CurrentCompletionStreak)
		s.CurrentCompletionStreak = 0
	}
	s.CurrentIncompletionStreak++
	if s.CurrentIncompletionStreak > s.LongestIncompletionStreak {
		s.LongestIncompletionStreak = s.CurrentIncompletionStreak
	}
	s.LastIncomplete = at
}

// shorter returns the smaller run, treating 0 as unset.
func shorter(current, run int) int {
	if current == 0 || run < current {
		return run
	}
	return current
}
