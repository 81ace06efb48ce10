package types

import "sort"

// DependencyGraph maps a node id to the node ids it requires.
type DependencyGraph map[string][]string

// GraphOf builds the prerequisite graph of the given entities.
func GraphOf(entities []Entity) DependencyGraph {
	g := make(DependencyGraph, len(entities))
	for _, e := range entities {
		id := e.Identity().NodeID
		if _, ok := g[id]; !ok {
			g[id] = nil
		}
		for _, dep := range e.Dependencies() {
			g[id] = append(g[id], dep.NodeID)
		}
	}
	return g
}

// FindCycle returns the node ids of one prerequisite cycle, first node
// repeated at the end, or nil when the graph is acyclic. Cycles are
// reported, not prevented.
func FindCycle(g DependencyGraph) []string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(g))
	var stack []string
	var found []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = grey
		stack = append(stack, id)
		for _, dep := range g[id] {
			switch color[dep] {
			case grey:
				for i, s := range stack {
					if s == dep {
						found = append(append([]string(nil), stack[i:]...), dep)
						return true
					}
				}
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white && visit(id) {
			return found
		}
	}
	return nil
}
