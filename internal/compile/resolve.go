package compile

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/selang/internal/dag"
	"github.com/papapumpkin/selang/internal/system"
)

// Inclusion is the containment tree of a compiled system.
type Inclusion struct {
	Root system.ID

	graph    *dag.DAG[system.ID]
	children map[system.ID][]system.ID
}

// Children returns the bodies orbiting id directly, in discovery order.
func (in *Inclusion) Children(id system.ID) []system.ID {
	return in.children[id]
}

// Descendants returns every body transitively orbiting id, sorted by ID.
func (in *Inclusion) Descendants(id system.ID) []system.ID {
	return in.graph.Descendants(id)
}

// ResolveTree builds the containment relation of triples and finds its
// root. Every body orbits at most one host. The root candidates are the
// parents that never appear as a child; when there are none, every parent
// is a candidate. Anything but exactly one candidate is ErrInvalidRootCount.
func ResolveTree(triples []system.Triple) (*Inclusion, error) {
	in := &Inclusion{
		graph:    dag.New[system.ID](),
		children: make(map[system.ID][]system.ID),
	}
	var parents []system.ID
	isParent := make(map[system.ID]bool)

	for _, t := range triples {
		if t.Parent == t.Child {
			return nil, fmt.Errorf("%w: object %s", ErrSelfContainment, t.Parent)
		}
		in.graph.AddNodeIdempotent(t.Parent)
		in.graph.AddNodeIdempotent(t.Child)
		if hosts := in.graph.Parents(t.Child); len(hosts) > 0 {
			return nil, fmt.Errorf("%w: object %s orbits %s and %s", ErrDuplicateOrbit, t.Child, hosts[0], t.Parent)
		}
		if err := in.graph.AddEdge(t.Parent, t.Child); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSelfContainment, err)
		}
		in.children[t.Parent] = append(in.children[t.Parent], t.Child)
		if !isParent[t.Parent] {
			isParent[t.Parent] = true
			parents = append(parents, t.Parent)
		}
	}

	var candidates []system.ID
	for _, id := range in.graph.Sources() {
		if isParent[id] {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		candidates = parents
	}
	if len(candidates) != 1 {
		return nil, fmt.Errorf("%w: found %d: %s", ErrInvalidRootCount, len(candidates), joinIDs(candidates))
	}
	in.Root = candidates[0]
	return in, nil
}

// FindRoot returns the single root of triples.
func FindRoot(triples []system.Triple) (system.ID, error) {
	in, err := ResolveTree(triples)
	if err != nil {
		return 0, err
	}
	return in.Root, nil
}

func joinIDs(ids []system.ID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	return strings.Join(s, ", ")
}
