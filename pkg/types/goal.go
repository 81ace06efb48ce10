package types

import (
	"fmt"
	"time"
)

// Entity kinds.
const (
	KindGoal  = "goal"
	KindTask  = "task"
	KindHabit = "habit"
)

// Status states. A goal moves freely between these; complete is reached
// when completion hits 1.
const (
	StateComplete   = "complete"
	StateActive     = "active"
	StateInactive   = "inactive"
	StateIncomplete = "incomplete"
)

// validStates is the set of recognized status state values.
var validStates = map[string]bool{
	StateComplete:   true,
	StateActive:     true,
	StateInactive:   true,
	StateIncomplete: true,
}

// Goal types. A binary goal is either done or not; a progressive goal
// tracks a completion fraction.
const (
	GoalTypeBinary      = "binary"
	GoalTypeProgressive = "progressive"
)

// Habit frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Frequencies lists the habit frequencies in display order.
var Frequencies = []string{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// Confidences lists the deadline confidence scale, weakest first.
var Confidences = []string{
	"not confident",
	"kind of confident",
	"confident",
	"very confident",
	"extremely confident",
}

// Rank bounds for priority, importance and difficulty.
const (
	MinRank = 1
	MaxRank = 10
)

// Entity is implemented by every node that lives in a goal tree.
type Entity interface {
	// Kind returns KindGoal, KindTask or KindHabit.
	Kind() string
	// Identity returns the node address. Callers may mutate it.
	Identity() *GoalID
	// Label returns the human-readable alias.
	Label() string
	// Dependencies returns the prerequisite addresses.
	Dependencies() []GoalID
	// Validate checks field invariants before persistence.
	Validate() error
}

// GoalStatus pairs a completion value with a symbolic state. When Binary
// is set, Completion is either 0 or 1.
type GoalStatus struct {
	Completion float64 `json:"completion"`
	Binary     bool    `json:"binary"`
	State      string  `json:"state"`
}

// NewStatus returns an active status with no progress.
func NewStatus(goalType string) GoalStatus {
	return GoalStatus{
		Binary: goalType != GoalTypeProgressive,
		State:  StateActive,
	}
}

// Done reports whether the status is complete.
func (s GoalStatus) Done() bool {
	return s.State == StateComplete || s.Completion >= 1
}

// SetState sets the symbolic state.
// Returns ErrInvalidState if the state is not recognized.
func (s *GoalStatus) SetState(state string) error {
	if !validStates[state] {
		return ErrInvalidState
	}
	s.State = state
	if state == StateComplete {
		s.Completion = 1
	}
	return nil
}

// SetCompletion records progress. Binary statuses round to 0 or 1.
// Reaching 1 marks the status complete; dropping below 1 from complete
// reactivates it.
func (s *GoalStatus) SetCompletion(v float64) error {
	if v < 0 || v > 1 {
		return ErrInvalidCompletion
	}
	if s.Binary {
		if v >= 0.5 {
			v = 1
		} else {
			v = 0
		}
	}
	s.Completion = v
	switch {
	case v >= 1:
		s.State = StateComplete
	case s.State == StateComplete:
		s.State = StateActive
	}
	return nil
}

// Goal is a node in a goal tree with ranking, dependency and status state.
type Goal struct {
	ID                 GoalID            `json:"id"`
	Alias              string            `json:"alias"`
	Goal               string            `json:"goal"`
	Description        string            `json:"description,omitempty"`
	Priority           int               `json:"priority"`
	Importance         int               `json:"importance"`
	Difficulty         int               `json:"difficulty"`
	Prerequisite       []GoalID          `json:"prerequisite,omitempty"`
	Postrequisite      []GoalID          `json:"postrequisite,omitempty"`
	Status             GoalStatus        `json:"status"`
	GoalType           string            `json:"goal_type"`
	StartDate          *time.Time        `json:"start_date,omitempty"`
	DueDate            *time.Time        `json:"due_date,omitempty"`
	DeadlineConfidence string            `json:"deadline_confidence,omitempty"`
	CrossLinked        []GoalID          `json:"cross_linked,omitempty"`
	IfThenPlans        map[string]string `json:"if_then_plans,omitempty"`
	SuccessScore       *SuccessScore     `json:"success_score,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	Questions          map[string]string `json:"questions,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// Kind implements Entity.
func (g *Goal) Kind() string { return KindGoal }

// Identity implements Entity.
func (g *Goal) Identity() *GoalID { return &g.ID }

// Label implements Entity.
func (g *Goal) Label() string { return g.Alias }

// Dependencies implements Entity.
func (g *Goal) Dependencies() []GoalID { return g.Prerequisite }

// IsDependent reports whether the goal has prerequisites.
func (g *Goal) IsDependent() bool {
	return len(g.Prerequisite) != 0
}

// Validate checks alias, ranks, status, goal type and confidence.
func (g *Goal) Validate() error {
	if g.Alias == "" {
		return ErrInvalidName
	}
	if err := validateRanks(g.Priority, g.Importance, g.Difficulty); err != nil {
		return err
	}
	if !validStates[g.Status.State] {
		return ErrInvalidState
	}
	if g.GoalType != GoalTypeBinary && g.GoalType != GoalTypeProgressive {
		return ErrInvalidGoalType
	}
	if g.DeadlineConfidence != "" && !contains(Confidences, g.DeadlineConfidence) {
		return ErrInvalidConfidence
	}
	return nil
}

// Task is a goal that is finished by repeating it a number of times.
type Task struct {
	Goal
	Reps     *float64 `json:"reps,omitempty"`
	RepsLeft *float64 `json:"reps_left,omitempty"`
}

// Kind implements Entity.
func (t *Task) Kind() string { return KindTask }

// Validate checks the embedded goal and the rep counters.
func (t *Task) Validate() error {
	if err := t.Goal.Validate(); err != nil {
		return err
	}
	if t.Reps != nil && *t.Reps < 0 {
		return fmt.Errorf("%w: reps must not be negative", ErrInvalidData)
	}
	if t.RepsLeft != nil && t.Reps != nil && *t.RepsLeft > *t.Reps {
		return fmt.Errorf("%w: reps left exceeds reps", ErrInvalidData)
	}
	return nil
}

// CompleteRep counts one repetition and updates completion.
// Returns ErrNoRepsLeft when the task has no reps remaining.
func (t *Task) CompleteRep() error {
	if t.Reps == nil || *t.Reps <= 0 {
		return t.Status.SetCompletion(1)
	}
	if t.RepsLeft == nil {
		left := *t.Reps
		t.RepsLeft = &left
	}
	if *t.RepsLeft <= 0 {
		return ErrNoRepsLeft
	}
	*t.RepsLeft--
	if *t.RepsLeft < 0 {
		*t.RepsLeft = 0
	}
	done := 1 - *t.RepsLeft / *t.Reps
	if t.Status.Binary && *t.RepsLeft > 0 {
		done = 0
	}
	return t.Status.SetCompletion(done)
}

// Habit is a recurring node tracked by streaks rather than completion.
type Habit struct {
	ID            GoalID            `json:"id"`
	Alias         string            `json:"alias"`
	Goal          string            `json:"goal"`
	Description   string            `json:"description,omitempty"`
	Frequency     string            `json:"frequency"`
	Priority      int               `json:"priority"`
	Difficulty    int               `json:"difficulty"`
	Prerequisite  []GoalID          `json:"prerequisite,omitempty"`
	Postrequisite []GoalID          `json:"postrequisite,omitempty"`
	CompleteToday bool              `json:"complete_today"`
	State         string            `json:"state"`
	Questions     map[string]string `json:"questions,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Streak is hydrated from the streaks table, not the habit record.
	Streak StreakRecord `json:"-"`
}

// Kind implements Entity.
func (h *Habit) Kind() string { return KindHabit }

// Identity implements Entity.
func (h *Habit) Identity() *GoalID { return &h.ID }

// Label implements Entity.
func (h *Habit) Label() string { return h.Alias }

// Dependencies implements Entity.
func (h *Habit) Dependencies() []GoalID { return h.Prerequisite }

// IsDependent reports whether the habit has prerequisites.
func (h *Habit) IsDependent() bool {
	return len(h.Prerequisite) != 0
}

// Validate checks alias, ranks, frequency and state.
func (h *Habit) Validate() error {
	if h.Alias == "" {
		return ErrInvalidName
	}
	if err := validateRanks(h.Priority, h.Difficulty); err != nil {
		return err
	}
	if !contains(Frequencies, h.Frequency) {
		return ErrInvalidFrequency
	}
	if !validStates[h.State] {
		return ErrInvalidState
	}
	return nil
}

// Complete marks the habit done for the current period and extends the
// streak. Periods skipped since the last record count as misses first.
// Returns ErrAlreadyComplete if it was already done this period.
func (h *Habit) Complete(at time.Time, spent time.Duration) error {
	if h.DoneFor(at) {
		return ErrAlreadyComplete
	}
	h.recordSkipped(at)
	h.Streak.RecordCompletion(at, spent)
	h.CompleteToday = true
	h.UpdatedAt = at
	return nil
}

// DoneFor reports whether the habit was completed in the period that
// contains at.
func (h *Habit) DoneFor(at time.Time) bool {
	return !h.Streak.LastComplete.IsZero() && samePeriod(h.Frequency, h.Streak.LastComplete, at)
}

// Miss records a missed period and breaks the completion streak.
func (h *Habit) Miss(at time.Time) {
	h.recordSkipped(at)
	h.Streak.RecordMiss(at)
	h.CompleteToday = false
	h.UpdatedAt = at
}

// recordSkipped records a miss for every period strictly between the last
// completion or miss and the period containing at.
func (h *Habit) recordSkipped(at time.Time) {
	last := h.Streak.LastComplete
	if h.Streak.LastIncomplete.After(last) {
		last = h.Streak.LastIncomplete
	}
	if last.IsZero() {
		return
	}
	for p := nextPeriod(h.Frequency, last); p.Before(at) && !samePeriod(h.Frequency, p, at); p = nextPeriod(h.Frequency, p) {
		h.Streak.RecordMiss(p)
	}
}

// nextPeriod returns a time inside the period after the one containing t.
func nextPeriod(frequency string, t time.Time) time.Time {
	t = t.Local()
	switch frequency {
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return time.Date(t.Year(), t.Month(), 1, 12, 0, 0, 0, time.Local).AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// samePeriod reports whether a and b fall in the same tracking period.
func samePeriod(frequency string, a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	switch frequency {
	case FrequencyWeekly:
		ay, aw := a.ISOWeek()
		by, bw := b.ISOWeek()
		return ay == by && aw == bw
	case FrequencyMonthly:
		return a.Year() == b.Year() && a.Month() == b.Month()
	default:
		return a.YearDay() == b.YearDay() && a.Year() == b.Year()
	}
}

func validateRanks(ranks ...int) error {
	for _, r := range ranks {
		if r < MinRank || r > MaxRank {
			return ErrInvalidRank
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
