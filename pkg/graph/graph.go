package graph

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Graph is an undirected graph keyed by piece id. Self-edges are never
// stored and each edge is stored once per endpoint.
type Graph struct {
	adj map[string]map[string]struct{}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{adj: make(map[string]map[string]struct{})}
}

// AddNode adds id with no edges. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[string]struct{})
	}
}

// AddEdge links a and b, adding either node if missing. Self-edges are
// discarded. It reports whether a new edge was created.
func (g *Graph) AddEdge(a, b string) bool {
	if a == b {
		return false
	}
	g.AddNode(a)
	g.AddNode(b)
	if _, ok := g.adj[a][b]; ok {
		return false
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	return true
}

// RemoveNode deletes id and every edge touching it.
func (g *Graph) RemoveNode(id string) {
	for n := range g.adj[id] {
		delete(g.adj[n], id)
	}
	delete(g.adj, id)
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// HasEdge reports whether a and b are linked.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Neighbors returns the ids linked to id in sorted order.
func (g *Graph) Neighbors(id string) []string {
	out := lo.Keys(g.adj[id])
	slices.Sort(out)
	return out
}

// Degree returns the number of edges touching id.
func (g *Graph) Degree(id string) int {
	return len(g.adj[id])
}

// Nodes returns every node id in sorted order.
func (g *Graph) Nodes() []string {
	out := lo.Keys(g.adj)
	slices.Sort(out)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, nb := range g.adj {
		n += len(nb)
	}
	return n / 2
}

// Edge is one undirected edge with A < B.
type Edge struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Edges returns every edge once, sorted.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for a, nb := range g.adj {
		for b := range nb {
			if a < b {
				out = append(out, Edge{A: a, B: b})
			}
		}
	}
	slices.SortFunc(out, func(x, y Edge) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return out
}

// Walk runs a breadth-first search from starts and returns every visited
// node in visit order. Nodes for which skip returns true are neither
// visited nor traversed; a nil skip allows every node. Starts that are not
// in the graph are ignored.
func (g *Graph) Walk(starts []string, skip func(id string) bool) []string {
	visited := make(map[string]bool)
	queue := make([]string, 0, len(starts))
	for _, s := range starts {
		if !g.Has(s) || visited[s] || (skip != nil && skip(s)) {
			continue
		}
		visited[s] = true
		queue = append(queue, s)
	}

	order := make([]string, 0, len(queue))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, n := range g.Neighbors(current) {
			if visited[n] || (skip != nil && skip(n)) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return order
}

// Component returns the connected component containing id, or nil when id
// is not in the graph.
func (g *Graph) Component(id string) []string {
	return g.Walk([]string{id}, nil)
}

// Components partitions the graph into connected components. Each
// component is sorted and components are ordered by their first id.
func (g *Graph) Components() [][]string {
	seen := make(map[string]bool)
	var out [][]string
	for _, id := range g.Nodes() {
		if seen[id] {
			continue
		}
		comp := g.Component(id)
		for _, c := range comp {
			seen[c] = true
		}
		slices.Sort(comp)
		out = append(out, comp)
	}
	return out
}
