package types

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// RootPos is the position given to the root of a new tree. Children are
// appended at increasing integral positions.
const RootPos = 1.0

// Tree errors.
var (
	ErrPositionExhausted = errors.New("no free position between neighbours")
	ErrPositionTaken     = errors.New("position already used in tree")
	ErrNoRoot            = errors.New("tree has no root")
	ErrMultipleRoots     = errors.New("tree has more than one root")
	ErrOrphanNode        = errors.New("parent position does not match any node")
	ErrMixedTrees        = errors.New("nodes belong to different trees")
	ErrParentCycle       = errors.New("parent chain does not reach the root")
)

// GoalID addresses a node inside a goal tree. NodePos orders siblings and
// is unique within the tree; ParentPos points at the parent's NodePos.
// ChildrenPos and SiblingPos are caches rebuilt by Tree.
type GoalID struct {
	TreeID      string    `json:"tree_id"`
	NodeID      string    `json:"node_id"`
	NodePos     float64   `json:"node_pos"`
	ParentPos   float64   `json:"parent_pos"`
	ChildrenPos []float64 `json:"children_pos,omitempty"`
	SiblingPos  []float64 `json:"sibling_pos,omitempty"`
	TreeRoot    bool      `json:"tree_root"`
	BranchRoot  bool      `json:"branch_root"`
}

// String renders the address as tree:position.
func (id GoalID) String() string {
	return fmt.Sprintf("%s:%g", id.TreeID, id.NodePos)
}

// Ref returns a copy without the traversal caches, suitable for storing
// in dependency lists.
func (id GoalID) Ref() GoalID {
	id.ChildrenPos = nil
	id.SiblingPos = nil
	return id
}

// NewRootID starts a new tree and returns the address of its root.
func NewRootID() GoalID {
	return GoalID{
		TreeID:   newID(),
		NodeID:   newID(),
		NodePos:  RootPos,
		TreeRoot: true,
	}
}

// PositionBetween returns a position strictly between a and b. Returns
// ErrPositionExhausted when float precision can no longer separate them.
func PositionBetween(a, b float64) (float64, error) {
	if a > b {
		a, b = b, a
	}
	mid := a + (b-a)/2
	if !(mid > a && mid < b) || math.IsInf(mid, 0) || math.IsNaN(mid) {
		return 0, ErrPositionExhausted
	}
	return mid, nil
}

// Tree is the set of nodes sharing one TreeID. It owns pointers to the
// callers' GoalID values and rewrites them in place.
type Tree struct {
	ID    string
	nodes []*GoalID
}

// NewTree groups ids into a tree and validates the tree invariants.
func NewTree(ids []*GoalID) (*Tree, error) {
	if len(ids) == 0 {
		return nil, ErrNoRoot
	}
	t := &Tree{ID: ids[0].TreeID}
	for _, id := range ids {
		if id.TreeID != t.ID {
			return nil, ErrMixedTrees
		}
		t.nodes = append(t.nodes, id)
	}
	t.sort()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.refresh()
	return t, nil
}

// Root returns the tree root.
func (t *Tree) Root() *GoalID {
	for _, n := range t.nodes {
		if n.TreeRoot {
			return n
		}
	}
	return nil
}

// Node returns the node at pos, or nil.
func (t *Tree) Node(pos float64) *GoalID {
	i := sort.Search(len(t.nodes), func(i int) bool { return t.nodes[i].NodePos >= pos })
	if i < len(t.nodes) && t.nodes[i].NodePos == pos {
		return t.nodes[i]
	}
	return nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Children returns the children of the node at pos in sibling order.
func (t *Tree) Children(pos float64) []*GoalID {
	var out []*GoalID
	for _, n := range t.nodes {
		if !n.TreeRoot && n.ParentPos == pos {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks that positions are unique, that there is exactly one
// root, and that every parent chain ends at the root.
func (t *Tree) Validate() error {
	var roots int
	seen := make(map[float64]bool, len(t.nodes))
	for _, n := range t.nodes {
		if seen[n.NodePos] {
			return fmt.Errorf("%w: %g", ErrPositionTaken, n.NodePos)
		}
		seen[n.NodePos] = true
		if n.TreeRoot {
			roots++
		}
	}
	switch {
	case roots == 0:
		return ErrNoRoot
	case roots > 1:
		return ErrMultipleRoots
	}
	for _, n := range t.nodes {
		cur := n
		for steps := 0; !cur.TreeRoot; steps++ {
			if steps > len(t.nodes) {
				return fmt.Errorf("%w: node %s", ErrParentCycle, n.NodeID)
			}
			parent := t.Node(cur.ParentPos)
			if parent == nil {
				return fmt.Errorf("%w: node %s", ErrOrphanNode, n.NodeID)
			}
			cur = parent
		}
	}
	return nil
}

// AddChild places a new node under the node at parentPos. When after is
// nil the node becomes the last child; otherwise it is inserted directly
// after the sibling at *after. If float precision is exhausted the tree
// is renumbered and the insert retried. The returned map lists every
// existing node whose address changed, keyed by node id.
func (t *Tree) AddChild(parentPos float64, after *float64) (*GoalID, map[string]*GoalID, error) {
	parent := t.Node(parentPos)
	if parent == nil {
		return nil, nil, ErrOrphanNode
	}

	var sibling *GoalID
	if after != nil {
		if sibling = t.Node(*after); sibling == nil {
			return nil, nil, ErrOrphanNode
		}
	}

	pos, err := t.freePosition(parent, sibling)
	renumbered := false
	if errors.Is(err, ErrPositionExhausted) {
		t.Renumber()
		renumbered = true
		pos, err = t.freePosition(parent, sibling)
	}
	if err != nil {
		return nil, nil, err
	}

	before := t.snapshot()
	child := &GoalID{
		TreeID:    t.ID,
		NodeID:    newID(),
		NodePos:   pos,
		ParentPos: parent.NodePos,
	}
	t.nodes = append(t.nodes, child)
	t.sort()
	t.refresh()

	changed := make(map[string]*GoalID)
	for _, n := range t.nodes {
		if n == child {
			continue
		}
		if old, ok := before[n.NodeID]; renumbered || !ok || !sameAddress(old, *n) {
			changed[n.NodeID] = n
		}
	}
	return child, changed, nil
}

// freePosition finds an unused position for a child of parent placed
// directly after sibling, or last when sibling is nil. Positions follow
// depth-first order, so the new node lands after the sibling's subtree.
func (t *Tree) freePosition(parent, sibling *GoalID) (float64, error) {
	lo := parent.NodePos
	if sibling != nil {
		if sibling.TreeRoot || sibling.ParentPos != parent.NodePos {
			return 0, ErrOrphanNode
		}
		lo = t.lastDescendant(sibling)
	} else if siblings := t.Children(parent.NodePos); len(siblings) > 0 {
		lo = t.lastDescendant(siblings[len(siblings)-1])
	}
	hi := t.next(lo)
	if math.IsInf(hi, 1) {
		return math.Floor(lo) + 1, nil
	}
	return PositionBetween(lo, hi)
}

// next returns the smallest position greater than pos, or +Inf.
func (t *Tree) next(pos float64) float64 {
	for _, n := range t.nodes {
		if n.NodePos > pos {
			return n.NodePos
		}
	}
	return math.Inf(1)
}

// lastDescendant returns the largest position in the subtree rooted at n.
func (t *Tree) lastDescendant(n *GoalID) float64 {
	last := n.NodePos
	for _, c := range t.Children(n.NodePos) {
		if d := t.lastDescendant(c); d > last {
			last = d
		}
	}
	return last
}

// Renumber reassigns positions 1..n in depth-first order, keeping sibling
// order, and rewrites parent positions and caches. Returns the mapping
// from old to new positions.
func (t *Tree) Renumber() map[float64]float64 {
	root := t.Root()
	mapping := make(map[float64]float64, len(t.nodes))
	if root == nil {
		return mapping
	}
	next := RootPos
	var walk func(n *GoalID)
	walk = func(n *GoalID) {
		mapping[n.NodePos] = next
		next++
		for _, c := range t.Children(n.NodePos) {
			walk(c)
		}
	}
	walk(root)

	for _, n := range t.nodes {
		if !n.TreeRoot {
			n.ParentPos = mapping[n.ParentPos]
		}
	}
	for _, n := range t.nodes {
		n.NodePos = mapping[n.NodePos]
	}
	t.sort()
	t.refresh()
	return mapping
}

// refresh rebuilds ChildrenPos, SiblingPos and BranchRoot on every node.
func (t *Tree) refresh() {
	for _, n := range t.nodes {
		n.ChildrenPos = nil
		for _, c := range t.Children(n.NodePos) {
			n.ChildrenPos = append(n.ChildrenPos, c.NodePos)
		}
		n.BranchRoot = !n.TreeRoot && len(n.ChildrenPos) > 0
	}
	for _, n := range t.nodes {
		n.SiblingPos = nil
		if n.TreeRoot {
			continue
		}
		for _, s := range t.Children(n.ParentPos) {
			if s != n {
				n.SiblingPos = append(n.SiblingPos, s.NodePos)
			}
		}
	}
}

func (t *Tree) sort() {
	sort.Slice(t.nodes, func(i, j int) bool { return t.nodes[i].NodePos < t.nodes[j].NodePos })
}

func (t *Tree) snapshot() map[string]GoalID {
	out := make(map[string]GoalID, len(t.nodes))
	for _, n := range t.nodes {
		cp := *n
		cp.ChildrenPos = append([]float64(nil), n.ChildrenPos...)
		cp.SiblingPos = append([]float64(nil), n.SiblingPos...)
		out[n.NodeID] = cp
	}
	return out
}

func sameAddress(a, b GoalID) bool {
	if a.NodePos != b.NodePos || a.ParentPos != b.ParentPos || a.BranchRoot != b.BranchRoot {
		return false
	}
	return equalPositions(a.ChildrenPos, b.ChildrenPos) && equalPositions(a.SiblingPos, b.SiblingPos)
}

func equalPositions(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// newID generates a UUID v7 string.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
