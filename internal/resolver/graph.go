package resolver

import (
	"fmt"
	"sort"
	"strings"
)

// DependencyGraph is a snapshot of plugin relationships used for diagnostics.
type DependencyGraph struct {
	nodes    map[string]struct{}
	incoming map[string]map[string]struct{}
	outgoing map[string]map[string]struct{}
}

// NewDependencyGraph creates an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes:    make(map[string]struct{}),
		incoming: make(map[string]map[string]struct{}),
		outgoing: make(map[string]map[string]struct{}),
	}
}

// AddNode ensures the plugin exists within the graph.
func (g *DependencyGraph) AddNode(id string) {
	if _, exists := g.nodes[id]; exists {
		return
	}

	g.nodes[id] = struct{}{}
	g.incoming[id] = make(map[string]struct{})
	g.outgoing[id] = make(map[string]struct{})
}

// AddEdge records that dependent needs dependency.
func (g *DependencyGraph) AddEdge(dependent, dependency string) {
	g.AddNode(dependent)
	g.AddNode(dependency)

	g.outgoing[dependent][dependency] = struct{}{}
	g.incoming[dependency][dependent] = struct{}{}
}

// DetectCycle returns one cycle if present or nil when the graph is acyclic.
// Nodes are visited in sorted order so the result is stable.
func (g *DependencyGraph) DetectCycle() []string {
	visited := make(map[string]bool)
	stack := make(map[string]bool)
	path := []string{}

	var cycle []string
	var dfs func(node string) bool

	dfs = func(node string) bool {
		visited[node] = true
		stack[node] = true
		path = append(path, node)

		for _, dependency := range g.GetDependencies(node) {
			if !visited[dependency] {
				if dfs(dependency) {
					return true
				}
			} else if stack[dependency] {
				idx := len(path) - 1
				for idx >= 0 && path[idx] != dependency {
					idx--
				}
				if idx >= 0 {
					cycle = append([]string{}, path[idx:]...)
					return true
				}
			}
		}

		stack[node] = false
		path = path[:len(path)-1]
		return false
	}

	for _, node := range g.sortedNodes() {
		if !visited[node] {
			if dfs(node) {
				break
			}
		}
	}

	return cycle
}

// GetDependencies returns the sorted dependencies of a node.
func (g *DependencyGraph) GetDependencies(node string) []string {
	return sortedSet(g.outgoing[node])
}

// GetDependents returns the sorted nodes that rely on node.
func (g *DependencyGraph) GetDependents(node string) []string {
	return sortedSet(g.incoming[node])
}

func (g *DependencyGraph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ErrCircularDependency describes a dependency cycle between plugins. A cycle
// is not fatal; it only means splitting may not reach its target.
type ErrCircularDependency struct {
	Cycle []string
}

func (e ErrCircularDependency) Error() string {
	if len(e.Cycle) == 0 {
		return "circular dependency detected"
	}

	sequence := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(sequence, " -> "))
}
