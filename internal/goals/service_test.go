package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tinyj/internal/question"
	"github.com/mesh-intelligence/tinyj/internal/sqlite"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

var fixedNow = time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)

// newService returns a service over a fresh sqlite store and a pointer to
// its clock.
func newService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	now := fixedNow
	clock := func() time.Time { return now }
	store := sqlite.NewBackend(sqlite.WithClock(clock))
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { store.Detach() })
	return NewService(store, nil, clock), &now
}

func goalAnswers(alias string) question.Answers {
	return question.Answers{
		question.FieldAlias:      alias,
		question.FieldGoal:       "achieve " + alias,
		question.FieldGoalType:   types.GoalTypeBinary,
		question.FieldPriority:   int64(5),
		question.FieldImportance: int64(6),
		question.FieldDifficulty: int64(7),
	}
}

func habitAnswers(alias string) question.Answers {
	return question.Answers{
		question.FieldAlias:      alias,
		question.FieldGoal:       "keep " + alias,
		question.FieldFrequency:  types.FrequencyDaily,
		question.FieldPriority:   int64(2),
		question.FieldDifficulty: int64(3),
	}
}

func TestService_CreateRoot(t *testing.T) {
	s, _ := newService(t)

	res, err := s.Create(types.KindGoal, goalAnswers("novel"))
	require.NoError(t, err)
	id := res.Entity.Identity()
	assert.True(t, id.TreeRoot)
	assert.Equal(t, types.RootPos, id.NodePos)
	assert.NotEmpty(t, id.NodeID)
	assert.Empty(t, res.Moved)
	assert.Nil(t, res.Cycle)

	got, err := s.Get("novel")
	require.NoError(t, err)
	assert.Equal(t, id.NodeID, got.Identity().NodeID)

	byID, err := s.Get(id.NodeID)
	require.NoError(t, err)
	assert.Equal(t, "novel", byID.Label())
}

func TestService_CreateUnderParent(t *testing.T) {
	s, _ := newService(t)

	root, err := s.Create(types.KindGoal, goalAnswers("house"))
	require.NoError(t, err)

	a := goalAnswers("roof")
	a[question.FieldParent] = "house"
	child, err := s.Create(types.KindGoal, a)
	require.NoError(t, err)
	cid := child.Entity.Identity()
	assert.Equal(t, root.Entity.Identity().TreeID, cid.TreeID)
	assert.Equal(t, types.RootPos, cid.ParentPos)
	assert.False(t, cid.TreeRoot)
	assert.Contains(t, child.Moved, "house", "parent caches change")

	parent, err := s.Get("house")
	require.NoError(t, err)
	assert.Equal(t, []float64{cid.NodePos}, parent.Identity().ChildrenPos)
	assert.True(t, parent.Identity().TreeRoot)

	habit := habitAnswers("sweep")
	habit[question.FieldParent] = "roof"
	_, err = s.Create(types.KindHabit, habit)
	require.NoError(t, err)

	bad := goalAnswers("under-habit")
	bad[question.FieldParent] = "sweep"
	_, err = s.Create(types.KindGoal, bad)
	assert.ErrorIs(t, err, ErrNotParent)

	missing := goalAnswers("orphan")
	missing[question.FieldParent] = "nowhere"
	_, err = s.Create(types.KindGoal, missing)
	assert.ErrorIs(t, err, ErrUnknownAlias)
}

func TestService_CreateWithPrerequisites(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Create(types.KindGoal, goalAnswers("learn"))
	require.NoError(t, err)

	a := goalAnswers("teach")
	a[question.FieldPrerequisites] = []string{"learn"}
	res, err := s.Create(types.KindGoal, a)
	require.NoError(t, err)
	deps := res.Entity.Dependencies()
	require.Len(t, deps, 1)

	learn, err := s.Get("learn")
	require.NoError(t, err)
	assert.Equal(t, learn.Identity().NodeID, deps[0].NodeID)
	post := learn.(*types.Goal).Postrequisite
	require.Len(t, post, 1)
	assert.Equal(t, res.Entity.Identity().NodeID, post[0].NodeID)
}

func TestService_CreateReportsCycle(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Create(types.KindGoal, goalAnswers("a"))
	require.NoError(t, err)
	b := goalAnswers("b")
	b[question.FieldPrerequisites] = []string{"a"}
	bRes, err := s.Create(types.KindGoal, b)
	require.NoError(t, err)

	// Make a require b, closing the loop, then create anything to trigger
	// the check.
	aEnt, err := s.Get("a")
	require.NoError(t, err)
	addPrerequisite(aEnt, bRes.Entity.Identity().Ref())
	require.NoError(t, s.store.Update(types.ByID(aEnt.Identity().NodeID), aEnt))

	res, err := s.Create(types.KindGoal, goalAnswers("c"))
	require.NoError(t, err)
	assert.NotNil(t, res.Cycle)
}

func TestService_CreateInvalid(t *testing.T) {
	s, _ := newService(t)

	a := goalAnswers("bad")
	a[question.FieldPriority] = int64(0)
	_, err := s.Create(types.KindGoal, a)
	assert.ErrorIs(t, err, types.ErrInvalidRank)

	_, err = s.Create("project", goalAnswers("x"))
	assert.ErrorIs(t, err, types.ErrInvalidKind)
}

func TestService_CompleteHabit(t *testing.T) {
	s, now := newService(t)

	_, err := s.Create(types.KindHabit, habitAnswers("stretch"))
	require.NoError(t, err)

	e, err := s.Complete("stretch", nil, 10*time.Minute)
	require.NoError(t, err)
	h := e.(*types.Habit)
	assert.True(t, h.CompleteToday)
	assert.Equal(t, 1, h.Streak.CurrentCompletionStreak)

	_, err = s.Complete("stretch", nil, 0)
	assert.ErrorIs(t, err, types.ErrAlreadyComplete)

	*now = now.AddDate(0, 0, 1)
	got, err := s.Get("stretch")
	require.NoError(t, err)
	assert.False(t, got.(*types.Habit).CompleteToday, "new day")

	e, err = s.Complete("stretch", nil, 5*time.Minute)
	require.NoError(t, err)
	h = e.(*types.Habit)
	assert.Equal(t, 2, h.Streak.CurrentCompletionStreak)
	require.NotNil(t, h.Streak.TotalTimeSpent)
	assert.Equal(t, 15*time.Minute, *h.Streak.TotalTimeSpent)
}

func TestService_MissHabit(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Create(types.KindHabit, habitAnswers("run"))
	require.NoError(t, err)

	e, err := s.Miss("run")
	require.NoError(t, err)
	h := e.(*types.Habit)
	assert.Equal(t, 1, h.Streak.CurrentIncompletionStreak)

	got, err := s.Get("run")
	require.NoError(t, err)
	assert.Equal(t, 1, got.(*types.Habit).Streak.CurrentIncompletionStreak)
}

func TestService_CompleteGoalAndTask(t *testing.T) {
	s, _ := newService(t)

	g := goalAnswers("paint")
	g[question.FieldGoalType] = types.GoalTypeProgressive
	_, err := s.Create(types.KindGoal, g)
	require.NoError(t, err)

	half := 0.5
	e, err := s.Complete("paint", &half, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.(*types.Goal).Status.Completion)
	assert.Equal(t, types.StateActive, e.(*types.Goal).Status.State)

	e, err = s.Complete("paint", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, types.StateComplete, e.(*types.Goal).Status.State)

	task := goalAnswers("squats")
	task[question.FieldReps] = int64(2)
	_, err = s.Create(types.KindTask, task)
	require.NoError(t, err)

	e, err = s.Complete("squats", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.(*types.Task).Status.Completion)
	e, err = s.Complete("squats", nil, 0)
	require.NoError(t, err)
	assert.True(t, e.(*types.Task).Status.Done())
	_, err = s.Complete("squats", nil, 0)
	assert.ErrorIs(t, err, types.ErrNoRepsLeft)

	e, err = s.Miss("paint")
	require.NoError(t, err)
	assert.Equal(t, types.StateIncomplete, e.(*types.Goal).Status.State)
}

func TestService_Remove(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Create(types.KindGoal, goalAnswers("trip"))
	require.NoError(t, err)
	pack := goalAnswers("pack")
	pack[question.FieldParent] = "trip"
	_, err = s.Create(types.KindGoal, pack)
	require.NoError(t, err)
	tickets := goalAnswers("tickets")
	tickets[question.FieldPrerequisites] = []string{"pack"}
	_, err = s.Create(types.KindGoal, tickets)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Remove(types.KindGoal, "trip"), ErrHasChildren)
	assert.ErrorIs(t, s.Remove(types.KindHabit, "pack"), types.ErrNotFound)

	require.NoError(t, s.Remove(types.KindGoal, "pack"))
	_, err = s.Get("pack")
	assert.ErrorIs(t, err, ErrUnknownAlias)

	got, err := s.Get("tickets")
	require.NoError(t, err)
	assert.Empty(t, got.Dependencies(), "removed node dropped from prerequisites")

	require.NoError(t, s.Remove(types.KindGoal, "trip"))
}

func TestService_RemoveDropsPostrequisite(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Create(types.KindGoal, goalAnswers("base"))
	require.NoError(t, err)
	top := goalAnswers("top")
	top[question.FieldPrerequisites] = []string{"base"}
	_, err = s.Create(types.KindGoal, top)
	require.NoError(t, err)

	base, err := s.Get("base")
	require.NoError(t, err)
	require.Len(t, base.(*types.Goal).Postrequisite, 1)

	require.NoError(t, s.Remove(types.KindGoal, "top"))
	base, err = s.Get("base")
	require.NoError(t, err)
	assert.Empty(t, base.(*types.Goal).Postrequisite)

	cycle, err := s.Cycle()
	require.NoError(t, err)
	assert.Nil(t, cycle)
}

func TestService_Existing(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Create(types.KindGoal, goalAnswers("g"))
	require.NoError(t, err)
	_, err = s.Create(types.KindHabit, habitAnswers("h"))
	require.NoError(t, err)

	ex, err := s.Existing()
	require.NoError(t, err)
	assert.Equal(t, []string{"g"}, ex.Parents)
	assert.ElementsMatch(t, []string{"g", "h"}, ex.Nodes)
}

func TestService_ExistingOldestFirst(t *testing.T) {
	s, now := newService(t)

	for _, alias := range []string{"trip", "zoo"} {
		_, err := s.Create(types.KindGoal, goalAnswers(alias))
		require.NoError(t, err)
		*now = now.Add(time.Minute)
	}
	pack := goalAnswers("pack")
	pack[question.FieldParent] = "trip"
	_, err := s.Create(types.KindGoal, pack)
	require.NoError(t, err)

	all, err := s.List(types.Query{})
	require.NoError(t, err)
	var byTree []string
	for _, e := range all {
		byTree = append(byTree, e.Label())
	}
	require.Equal(t, []string{"trip", "pack", "zoo"}, byTree)

	ex, err := s.Existing()
	require.NoError(t, err)
	assert.Equal(t, []string{"trip", "zoo", "pack"}, ex.Nodes)
	assert.Equal(t, []string{"trip", "zoo", "pack"}, ex.Parents)
}

func TestService_Score(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Create(types.KindGoal, goalAnswers("base"))
	require.NoError(t, err)
	top := goalAnswers("top")
	top[question.FieldPrerequisites] = []string{"base"}
	_, err = s.Create(types.KindGoal, top)
	require.NoError(t, err)

	base, err := s.Complete("base", nil, 0)
	require.NoError(t, err)
	done, err := s.Score(base)
	require.NoError(t, err)

	topEnt, err := s.Get("top")
	require.NoError(t, err)
	open, err := s.Score(topEnt)
	require.NoError(t, err)
	assert.Greater(t, done.Score, open.Score)
	assert.Zero(t, open.CompletionPercentage)
}
