// Package dag provides a directed acyclic graph used to model containment:
// an edge from a parent to a child means the parent contains the child. It
// rejects self-edges and cycles, and answers source, parent and transitive
// descendant queries.
package dag

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrCycle is returned when an edge would close a cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrSelfEdge is returned when an edge would create a self-loop.
var ErrSelfEdge = errors.New("self-referencing edge")

// DAG is a directed acyclic graph keyed by K.
type DAG[K cmp.Ordered] struct {
	order []K
	// adjacency maps node → set of children (forward edges).
	adjacency map[K]map[K]bool
	// reverse maps node → set of parents (backward edges).
	reverse map[K]map[K]bool
}

// New creates an empty DAG.
func New[K cmp.Ordered]() *DAG[K] {
	return &DAG[K]{
		adjacency: make(map[K]map[K]bool),
		reverse:   make(map[K]map[K]bool),
	}
}

// AddNode adds a node. Returns ErrDuplicateNode if it already exists.
func (d *DAG[K]) AddNode(id K) error {
	if d.Has(id) {
		return fmt.Errorf("%w: %v", ErrDuplicateNode, id)
	}
	d.order = append(d.order, id)
	d.adjacency[id] = make(map[K]bool)
	d.reverse[id] = make(map[K]bool)
	return nil
}

// AddNodeIdempotent adds a node unless it already exists.
func (d *DAG[K]) AddNodeIdempotent(id K) {
	if !d.Has(id) {
		_ = d.AddNode(id)
	}
}

// Has reports whether id is a node of the graph.
func (d *DAG[K]) Has(id K) bool {
	_, ok := d.adjacency[id]
	return ok
}

// AddEdge adds an edge from parent to child. Both nodes must already
// exist. Returns an error if either node is missing, the edge is a
// self-loop, or the edge would introduce a cycle.
func (d *DAG[K]) AddEdge(parent, child K) error {
	if parent == child {
		return fmt.Errorf("%w: %v", ErrSelfEdge, parent)
	}
	if !d.Has(parent) {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, parent)
	}
	if !d.Has(child) {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, child)
	}
	if d.adjacency[parent][child] {
		return nil
	}
	// A path child → ... → parent plus parent → child would loop.
	if d.hasPath(child, parent) {
		return fmt.Errorf("%w: edge %v → %v", ErrCycle, parent, child)
	}
	d.adjacency[parent][child] = true
	d.reverse[child][parent] = true
	return nil
}

// Sources returns the nodes without a parent, in insertion order.
func (d *DAG[K]) Sources() []K {
	var result []K
	for _, id := range d.order {
		if len(d.reverse[id]) == 0 {
			result = append(result, id)
		}
	}
	return result
}

// Parents returns the direct parents of id, sorted.
func (d *DAG[K]) Parents(id K) []K {
	return sortedKeys(d.reverse[id])
}

// Descendants returns every node transitively contained by id, sorted.
// Returns nil if the node has no children or does not exist.
func (d *DAG[K]) Descendants(id K) []K {
	if !d.Has(id) {
		return nil
	}
	visited := make(map[K]bool)
	d.collect(d.adjacency, id, visited)
	return sortedKeys(visited)
}

// hasPath reports whether there is a directed path from src to dst.
func (d *DAG[K]) hasPath(src, dst K) bool {
	if src == dst {
		return false
	}
	visited := make(map[K]bool)
	queue := []K{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range d.adjacency[cur] {
			if next == dst {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// collect walks edges from id depth-first, recording every reachable node.
func (d *DAG[K]) collect(edges map[K]map[K]bool, id K, visited map[K]bool) {
	for next := range edges[id] {
		if !visited[next] {
			visited[next] = true
			d.collect(edges, next, visited)
		}
	}
}

func sortedKeys[K cmp.Ordered](set map[K]bool) []K {
	if len(set) == 0 {
		return nil
	}
	keys := make([]K, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
