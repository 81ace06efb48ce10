package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionBetween(t *testing.T) {
	tests := []struct {
		name    string
		a, b    float64
		want    float64
		wantErr error
	}{
		{name: "midpoint of integers", a: 1, b: 2, want: 1.5},
		{name: "order does not matter", a: 4, b: 2, want: 3},
		{name: "negative range", a: -2, b: -1, want: -1.5},
		{name: "equal neighbours exhausted", a: 3, b: 3, wantErr: ErrPositionExhausted},
		{name: "adjacent floats exhausted", a: 1, b: math.Nextafter(1, 2), wantErr: ErrPositionExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PositionBetween(tt.a, tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionBetweenRepeatedInsertsExhaust(t *testing.T) {
	lo, hi := 1.0, 2.0
	var err error
	for i := 0; i < 100 && err == nil; i++ {
		hi, err = PositionBetween(lo, hi)
	}
	assert.ErrorIs(t, err, ErrPositionExhausted)
}

func newTestTree(t *testing.T) (*Tree, *GoalID) {
	t.Helper()
	root := NewRootID()
	tree, err := NewTree([]*GoalID{&root})
	require.NoError(t, err)
	return tree, &root
}

func TestTreeAddChildAppends(t *testing.T) {
	tree, root := newTestTree(t)

	a, _, err := tree.AddChild(root.NodePos, nil)
	require.NoError(t, err)
	b, changed, err := tree.AddChild(root.NodePos, nil)
	require.NoError(t, err)

	assert.Equal(t, root.TreeID, a.TreeID)
	assert.Equal(t, root.NodePos, a.ParentPos)
	assert.Greater(t, b.NodePos, a.NodePos)
	assert.Equal(t, []float64{a.NodePos, b.NodePos}, root.ChildrenPos)
	assert.Equal(t, []float64{b.NodePos}, a.SiblingPos)
	assert.Contains(t, changed, root.NodeID, "root children cache changed")
	assert.Contains(t, changed, a.NodeID, "sibling cache changed")
	assert.NoError(t, tree.Validate())
}

func TestTreeAddChildInsertsAfterSibling(t *testing.T) {
	tree, root := newTestTree(t)

	a, _, err := tree.AddChild(root.NodePos, nil)
	require.NoError(t, err)
	c, _, err := tree.AddChild(root.NodePos, nil)
	require.NoError(t, err)
	b, _, err := tree.AddChild(root.NodePos, &a.NodePos)
	require.NoError(t, err)

	assert.Greater(t, b.NodePos, a.NodePos)
	assert.Less(t, b.NodePos, c.NodePos)
	children := tree.Children(root.NodePos)
	require.Len(t, children, 3)
	assert.Equal(t, []string{a.NodeID, b.NodeID, c.NodeID},
		[]string{children[0].NodeID, children[1].NodeID, children[2].NodeID})
}

func TestTreeGrandchildStaysInsideSubtree(t *testing.T) {
	tree, root := newTestTree(t)

	a, _, err := tree.AddChild(root.NodePos, nil)
	require.NoError(t, err)
	b, _, err := tree.AddChild(root.NodePos, nil)
	require.NoError(t, err)
	aa, _, err := tree.AddChild(a.NodePos, nil)
	require.NoError(t, err)

	assert.Greater(t, aa.NodePos, a.NodePos)
	assert.Less(t, aa.NodePos, b.NodePos)
	assert.True(t, a.BranchRoot)
	assert.False(t, b.BranchRoot)
	assert.False(t, root.BranchRoot, "tree root is never a branch root")
}

func TestTreeAddChildRenumbersWhenExhausted(t *testing.T) {
	root := GoalID{TreeID: "t1", NodeID: "root", NodePos: 1, TreeRoot: true}
	a := GoalID{TreeID: "t1", NodeID: "a", NodePos: 2, ParentPos: 1}
	b := GoalID{TreeID: "t1", NodeID: "b", NodePos: math.Nextafter(2, 3), ParentPos: 1}
	tree, err := NewTree([]*GoalID{&root, &a, &b})
	require.NoError(t, err)

	after := a.NodePos
	child, changed, err := tree.AddChild(root.NodePos, &after)
	require.NoError(t, err)

	assert.Equal(t, 1.0, root.NodePos)
	assert.Equal(t, 2.0, a.NodePos)
	assert.Equal(t, 3.0, b.NodePos)
	assert.Equal(t, 2.5, child.NodePos)
	assert.Contains(t, changed, "b")
	assert.NoError(t, tree.Validate())
}

func TestTreeRenumberKeepsOrder(t *testing.T) {
	root := GoalID{TreeID: "t1", NodeID: "root", NodePos: 0.5, TreeRoot: true}
	a := GoalID{TreeID: "t1", NodeID: "a", NodePos: 0.75, ParentPos: 0.5}
	aa := GoalID{TreeID: "t1", NodeID: "aa", NodePos: 0.8, ParentPos: 0.75}
	b := GoalID{TreeID: "t1", NodeID: "b", NodePos: 7.25, ParentPos: 0.5}
	tree, err := NewTree([]*GoalID{&b, &aa, &root, &a})
	require.NoError(t, err)

	mapping := tree.Renumber()

	assert.Equal(t, map[float64]float64{0.5: 1, 0.75: 2, 0.8: 3, 7.25: 4}, mapping)
	assert.Equal(t, 2.0, aa.ParentPos)
	assert.Equal(t, 1.0, b.ParentPos)
	assert.Equal(t, []float64{2, 4}, root.ChildrenPos)
	assert.NoError(t, tree.Validate())
}

func TestNewTreeRejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name    string
		ids     []GoalID
		wantErr error
	}{
		{
			name:    "no root",
			ids:     []GoalID{{TreeID: "t", NodeID: "a", NodePos: 2, ParentPos: 1}},
			wantErr: ErrNoRoot,
		},
		{
			name: "two roots",
			ids: []GoalID{
				{TreeID: "t", NodeID: "r1", NodePos: 1, TreeRoot: true},
				{TreeID: "t", NodeID: "r2", NodePos: 2, TreeRoot: true},
			},
			wantErr: ErrMultipleRoots,
		},
		{
			name: "duplicate position",
			ids: []GoalID{
				{TreeID: "t", NodeID: "r", NodePos: 1, TreeRoot: true},
				{TreeID: "t", NodeID: "a", NodePos: 1, ParentPos: 1},
			},
			wantErr: ErrPositionTaken,
		},
		{
			name: "orphan parent position",
			ids: []GoalID{
				{TreeID: "t", NodeID: "r", NodePos: 1, TreeRoot: true},
				{TreeID: "t", NodeID: "a", NodePos: 2, ParentPos: 9},
			},
			wantErr: ErrOrphanNode,
		},
		{
			name: "parent cycle",
			ids: []GoalID{
				{TreeID: "t", NodeID: "r", NodePos: 1, TreeRoot: true},
				{TreeID: "t", NodeID: "a", NodePos: 2, ParentPos: 3},
				{TreeID: "t", NodeID: "b", NodePos: 3, ParentPos: 2},
			},
			wantErr: ErrParentCycle,
		},
		{
			name: "mixed trees",
			ids: []GoalID{
				{TreeID: "t", NodeID: "r", NodePos: 1, TreeRoot: true},
				{TreeID: "u", NodeID: "a", NodePos: 2, ParentPos: 1},
			},
			wantErr: ErrMixedTrees,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptrs := make([]*GoalID, len(tt.ids))
			for i := range tt.ids {
				ptrs[i] = &tt.ids[i]
			}
			_, err := NewTree(ptrs)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGoalIDRefDropsCaches(t *testing.T) {
	id := GoalID{TreeID: "t", NodeID: "n", NodePos: 2, ChildrenPos: []float64{3}, SiblingPos: []float64{4}}
	ref := id.Ref()
	assert.Nil(t, ref.ChildrenPos)
	assert.Nil(t, ref.SiblingPos)
	assert.Equal(t, "t:2", ref.String())
	assert.Equal(t, []float64{3}, id.ChildrenPos, "original untouched")
}
