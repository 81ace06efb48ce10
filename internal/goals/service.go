package goals

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mesh-intelligence/tinyj/internal/logging"
	"github.com/mesh-intelligence/tinyj/internal/question"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// Service errors.
var (
	ErrUnknownAlias = errors.New("no entry with that alias")
	ErrHasChildren  = errors.New("entry has children")
	ErrNotParent    = errors.New("habits cannot have children")
)

// Service places new entities in goal trees and applies progress to
// stored ones.
type Service struct {
	store types.Store
	log   *logging.Logger
	now   func() time.Time
	score types.ScorePolicy
}

// NewService creates a service over an attached store. A nil log discards
// output; a nil now uses time.Now.
func NewService(store types.Store, log *logging.Logger, now func() time.Time) *Service {
	if log == nil {
		log = logging.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, log: log, now: now, score: types.DefaultScorePolicy{}}
}

// Existing lists the aliases offered by the built-in sequences, oldest
// first.
func (s *Service) Existing() (question.Existing, error) {
	all, err := s.store.Select(types.Query{})
	if err != nil {
		return question.Existing{}, err
	}
	slices.SortStableFunc(all, func(a, b types.Entity) int {
		return createdAt(a).Compare(createdAt(b))
	})
	var ex question.Existing
	for _, e := range all {
		if e.Kind() != types.KindHabit {
			ex.Parents = append(ex.Parents, e.Label())
		}
		ex.Nodes = append(ex.Nodes, e.Label())
	}
	return ex, nil
}

// Result is what Create produced.
type Result struct {
	Entity types.Entity
	// Moved lists existing nodes whose address changed to make room.
	Moved []string
	// Cycle holds a prerequisite cycle found after the insert, if any.
	Cycle []string
}

// Create builds an entity from answers, places it under the chosen parent
// or at the root of a new tree, links its prerequisites and stores it.
func (s *Service) Create(kind string, a question.Answers) (*Result, error) {
	entity, err := Build(kind, a, s.now())
	if err != nil {
		return nil, err
	}
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("building %s: %w", kind, err)
	}

	res := &Result{Entity: entity}
	if parent := a.String(question.FieldParent); parent != "" {
		moved, err := s.attach(entity, parent)
		if err != nil {
			return nil, err
		}
		res.Moved = moved
	} else {
		*entity.Identity() = types.NewRootID()
	}

	prereqs, err := s.resolve(a.Strings(question.FieldPrerequisites))
	if err != nil {
		return nil, err
	}
	for _, p := range prereqs {
		addPrerequisite(entity, p.Identity().Ref())
	}

	id, err := s.store.Insert(entity)
	if err != nil {
		return nil, fmt.Errorf("storing %s: %w", kind, err)
	}
	s.log.Info("created entry", "kind", kind, "alias", entity.Label(), "id", id)

	for _, p := range prereqs {
		addPostrequisite(p, entity.Identity().Ref())
		if err := s.store.Update(types.ByID(p.Identity().NodeID), p); err != nil {
			return nil, fmt.Errorf("linking %s: %w", p.Label(), err)
		}
	}

	res.Cycle, err = s.Cycle()
	if err != nil {
		return nil, err
	}
	if res.Cycle != nil {
		s.log.Warn("prerequisite cycle", "nodes", res.Cycle)
	}
	return res, nil
}

// attach places entity as the last child of the entry with alias parent.
func (s *Service) attach(entity types.Entity, parent string) ([]string, error) {
	p, err := s.ByAlias(parent)
	if err != nil {
		return nil, err
	}
	if p.Kind() == types.KindHabit {
		return nil, fmt.Errorf("%w: %s", ErrNotParent, parent)
	}

	members, err := s.store.Select(types.Query{"tree_id": p.Identity().TreeID})
	if err != nil {
		return nil, err
	}
	byNode := make(map[string]types.Entity, len(members))
	ids := make([]*types.GoalID, 0, len(members))
	for _, m := range members {
		byNode[m.Identity().NodeID] = m
		ids = append(ids, m.Identity())
	}
	tree, err := types.NewTree(ids)
	if err != nil {
		return nil, fmt.Errorf("loading tree of %s: %w", parent, err)
	}
	child, changed, err := tree.AddChild(p.Identity().NodePos, nil)
	if err != nil {
		return nil, fmt.Errorf("placing under %s: %w", parent, err)
	}
	*entity.Identity() = *child

	var moved []string
	for nodeID := range changed {
		m := byNode[nodeID]
		if err := s.store.Update(types.ByID(nodeID), m); err != nil {
			return nil, fmt.Errorf("moving %s: %w", m.Label(), err)
		}
		moved = append(moved, m.Label())
	}
	if len(moved) > 0 {
		s.log.Debug("tree updated", "tree", tree.ID, "changed", len(moved))
	}
	return moved, nil
}

// resolve looks up entries by alias.
func (s *Service) resolve(aliases []string) ([]types.Entity, error) {
	out := make([]types.Entity, 0, len(aliases))
	for _, alias := range aliases {
		e, err := s.ByAlias(alias)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ByAlias returns the entry with the given alias.
// Returns ErrUnknownAlias if there is none.
func (s *Service) ByAlias(alias string) (types.Entity, error) {
	found, err := s.store.Select(types.Query{"alias": alias, "limit": 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}
	return s.hydrate(found[0])
}

// Get returns the entry with the given node id or alias.
func (s *Service) Get(ref string) (types.Entity, error) {
	found, err := s.store.Select(types.ByID(ref))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return s.ByAlias(ref)
	}
	return s.hydrate(found[0])
}

// List returns the entries matched by q with streaks loaded.
func (s *Service) List(q types.Query) ([]types.Entity, error) {
	found, err := s.store.Select(q)
	if err != nil {
		return nil, err
	}
	for i, e := range found {
		if found[i], err = s.hydrate(e); err != nil {
			return nil, err
		}
	}
	return found, nil
}

// hydrate loads the streak of a habit and refreshes CompleteToday.
func (s *Service) hydrate(e types.Entity) (types.Entity, error) {
	h, ok := e.(*types.Habit)
	if !ok {
		return e, nil
	}
	rec, err := s.store.Streak(h.ID.NodeID)
	switch {
	case errors.Is(err, types.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		h.Streak = *rec
	}
	h.CompleteToday = h.DoneFor(s.now())
	return h, nil
}

// Complete records progress on an entry. Habits extend their streak,
// tasks count one rep, and goals move to progress (a 0..1 fraction) or
// to complete when progress is nil.
func (s *Service) Complete(ref string, progress *float64, spent time.Duration) (types.Entity, error) {
	e, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	now := s.now()
	switch v := e.(type) {
	case *types.Habit:
		if err := v.Complete(now, spent); err != nil {
			return nil, err
		}
		if err := s.store.SetStreak(v.ID.NodeID, &v.Streak); err != nil {
			return nil, err
		}
	case *types.Task:
		if progress != nil {
			err = v.Status.SetCompletion(*progress)
		} else {
			err = v.CompleteRep()
		}
		if err != nil {
			return nil, err
		}
		v.UpdatedAt = now
	case *types.Goal:
		p := 1.0
		if progress != nil {
			p = *progress
		}
		if err := v.Status.SetCompletion(p); err != nil {
			return nil, err
		}
		v.UpdatedAt = now
	}
	if err := s.store.Update(types.ByID(e.Identity().NodeID), e); err != nil {
		return nil, err
	}
	s.log.Info("recorded progress", "alias", e.Label())
	return e, nil
}

// Miss records a missed period on a habit, or marks a goal or task
// incomplete.
func (s *Service) Miss(ref string) (types.Entity, error) {
	e, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	now := s.now()
	switch v := e.(type) {
	case *types.Habit:
		v.Miss(now)
		if err := s.store.SetStreak(v.ID.NodeID, &v.Streak); err != nil {
			return nil, err
		}
	case *types.Task:
		if err := v.Status.SetState(types.StateIncomplete); err != nil {
			return nil, err
		}
		v.UpdatedAt = now
	case *types.Goal:
		if err := v.Status.SetState(types.StateIncomplete); err != nil {
			return nil, err
		}
		v.UpdatedAt = now
	}
	if err := s.store.Update(types.ByID(e.Identity().NodeID), e); err != nil {
		return nil, err
	}
	s.log.Info("recorded miss", "alias", e.Label())
	return e, nil
}

// Remove deletes a leaf entry of the given kind and drops it from every
// prerequisite and postrequisite list that names it.
// Returns ErrHasChildren when other entries sit below it.
func (s *Service) Remove(kind, ref string) error {
	e, err := s.Get(ref)
	if err != nil {
		return err
	}
	if e.Kind() != kind {
		return fmt.Errorf("%w: %s is a %s", types.ErrNotFound, ref, e.Kind())
	}
	id := e.Identity()
	tree, err := s.store.Select(types.Query{"tree_id": id.TreeID})
	if err != nil {
		return err
	}
	for _, m := range tree {
		if m.Identity().NodeID != id.NodeID && !m.Identity().TreeRoot && m.Identity().ParentPos == id.NodePos {
			return fmt.Errorf("%w: %s", ErrHasChildren, e.Label())
		}
	}

	dependents, err := s.store.Select(types.Query{"requires": id.NodeID})
	if err != nil {
		return err
	}
	for _, d := range dependents {
		dropPrerequisite(d, id.NodeID)
		if err := s.store.Update(types.ByID(d.Identity().NodeID), d); err != nil {
			return err
		}
	}

	for _, dep := range e.Dependencies() {
		found, err := s.store.Select(types.ByID(dep.NodeID))
		if err != nil {
			return err
		}
		for _, p := range found {
			dropPostrequisite(p, id.NodeID)
			if err := s.store.Update(types.ByID(p.Identity().NodeID), p); err != nil {
				return err
			}
		}
	}

	n, err := s.store.Delete(types.Query{"id": id.NodeID, "kind": kind})
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	s.log.Info("deleted entry", "kind", kind, "alias", e.Label())
	return nil
}

// Score computes the success score of an entry from its status, streak and
// the status of its prerequisites.
func (s *Service) Score(e types.Entity) (types.SuccessScore, error) {
	var prereqs []types.GoalStatus
	for _, dep := range e.Dependencies() {
		found, err := s.store.Select(types.ByID(dep.NodeID))
		if err != nil {
			return types.SuccessScore{}, err
		}
		if len(found) > 0 {
			hydrated, err := s.hydrate(found[0])
			if err != nil {
				return types.SuccessScore{}, err
			}
			prereqs = append(prereqs, StatusOf(hydrated))
		}
	}
	switch v := e.(type) {
	case *types.Habit:
		return v.CalculateScore(s.score, prereqs), nil
	case *types.Task:
		return v.CalculateScore(s.score, nil, prereqs), nil
	case *types.Goal:
		return v.CalculateScore(s.score, nil, prereqs), nil
	}
	return types.SuccessScore{}, types.ErrInvalidKind
}

// Cycle returns a prerequisite cycle across the store, or nil.
func (s *Service) Cycle() ([]string, error) {
	all, err := s.store.Select(types.Query{})
	if err != nil {
		return nil, err
	}
	return types.FindCycle(types.GraphOf(all)), nil
}

// StatusOf summarizes any entity as a GoalStatus.
func StatusOf(e types.Entity) types.GoalStatus {
	switch v := e.(type) {
	case *types.Habit:
		st := types.GoalStatus{Binary: true, State: v.State}
		if v.CompleteToday {
			st.Completion = 1
		}
		return st
	case *types.Task:
		return v.Status
	case *types.Goal:
		return v.Status
	}
	return types.GoalStatus{}
}

func createdAt(e types.Entity) time.Time {
	switch v := e.(type) {
	case *types.Goal:
		return v.CreatedAt
	case *types.Task:
		return v.CreatedAt
	case *types.Habit:
		return v.CreatedAt
	}
	return time.Time{}
}

func addPrerequisite(e types.Entity, id types.GoalID) {
	switch v := e.(type) {
	case *types.Goal:
		v.Prerequisite = append(v.Prerequisite, id)
	case *types.Task:
		v.Prerequisite = append(v.Prerequisite, id)
	case *types.Habit:
		v.Prerequisite = append(v.Prerequisite, id)
	}
}

func addPostrequisite(e types.Entity, id types.GoalID) {
	switch v := e.(type) {
	case *types.Goal:
		v.Postrequisite = append(v.Postrequisite, id)
	case *types.Task:
		v.Postrequisite = append(v.Postrequisite, id)
	case *types.Habit:
		v.Postrequisite = append(v.Postrequisite, id)
	}
}

func dropPrerequisite(e types.Entity, nodeID string) {
	switch v := e.(type) {
	case *types.Goal:
		v.Prerequisite = without(v.Prerequisite, nodeID)
	case *types.Task:
		v.Prerequisite = without(v.Prerequisite, nodeID)
	case *types.Habit:
		v.Prerequisite = without(v.Prerequisite, nodeID)
	}
}

func dropPostrequisite(e types.Entity, nodeID string) {
	switch v := e.(type) {
	case *types.Goal:
		v.Postrequisite = without(v.Postrequisite, nodeID)
	case *types.Task:
		v.Postrequisite = without(v.Postrequisite, nodeID)
	case *types.Habit:
		v.Postrequisite = without(v.Postrequisite, nodeID)
	}
}

// without filters nodeID out of ids in place.
func without(ids []types.GoalID, nodeID string) []types.GoalID {
	out := ids[:0]
	for _, id := range ids {
		if id.NodeID != nodeID {
			out = append(out, id)
		}
	}
	return out
}
