package goals

import (
	"sort"

	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// Row is one line of a tree outline.
type Row struct {
	Depth  int
	Entity types.Entity
}

// Outline orders entities tree by tree in depth-first order and computes
// each one's depth. Nodes whose parent is not in the input are shown at
// depth zero.
func Outline(entities []types.Entity) []Row {
	sorted := append([]types.Entity(nil), entities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Identity(), sorted[j].Identity()
		if a.TreeID != b.TreeID {
			return a.TreeID < b.TreeID
		}
		return a.NodePos < b.NodePos
	})

	rows := make([]Row, 0, len(sorted))
	depth := make(map[string]map[float64]int)
	for _, e := range sorted {
		id := e.Identity()
		d := depth[id.TreeID]
		if d == nil {
			d = make(map[float64]int)
			depth[id.TreeID] = d
		}
		n := 0
		if parent, ok := d[id.ParentPos]; ok && !id.TreeRoot {
			n = parent + 1
		}
		d[id.NodePos] = n
		rows = append(rows, Row{Depth: n, Entity: e})
	}
	return rows
}
