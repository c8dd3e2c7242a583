package extract

import (
	"context"
	"fmt"
	"iter"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/papapumpkin/selang/internal/compile"
	"github.com/papapumpkin/selang/internal/system"
)

// Tree extracts systems written as nested body trees, in JSON or YAML. The
// file holds one root node or a list of them; each root node is a record.
type Tree struct {
	format string
	decode func([]byte) ([]*treeNode, error)
}

// NewJSON returns the Tree extractor for JSON files.
func NewJSON() *Tree {
	return &Tree{format: "json", decode: decodeJSON}
}

// NewYAML returns the Tree extractor for YAML files.
func NewYAML() *Tree {
	return &Tree{format: "yaml", decode: decodeYAML}
}

// treeNode is a body with its orbit around the parent node. Root nodes
// carry no orbit.
type treeNode struct {
	Type       nodeType `json:"type" yaml:"type"`
	Name       string   `json:"name" yaml:"name"`
	UID        string   `json:"UID" yaml:"UID"`
	Distance   *float64 `json:"distance" yaml:"distance"`
	Retrograde bool     `json:"retrograde" yaml:"retrograde"`

	Eccentricity    *float64 `json:"eccentricity" yaml:"eccentricity"`
	Obliquity       *float64 `json:"obliquity" yaml:"obliquity"`
	Inclination     *float64 `json:"inclination" yaml:"inclination"`
	AscendingNode   *float64 `json:"ascending_node" yaml:"ascending_node"`
	ArgOfPericenter *float64 `json:"arg_of_pericenter" yaml:"arg_of_pericenter"`
	Angle           *float64 `json:"angle" yaml:"angle"`
	RefPlane        string   `json:"refplane" yaml:"refplane"`

	Class  string  `json:"class" yaml:"class"`
	Mass   float64 `json:"mass" yaml:"mass"`
	Radius float64 `json:"radius" yaml:"radius"`

	AngleSteps []float64 `json:"angle_steps" yaml:"angle_steps"`

	Child   children            `json:"child" yaml:"child"`
	Childs  children            `json:"childs" yaml:"childs"`
	ChildOf map[string]children `json:"childof" yaml:"childof"`
}

// Records yields one record per root node.
func (t *Tree) Records(ctx context.Context, path string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(Record{}, err)
			return
		}
		b, err := os.ReadFile(path)
		if err != nil {
			yield(Record{}, fmt.Errorf("reading %s tree: %w", t.format, err))
			return
		}
		nodes, err := t.decode(b)
		if err != nil {
			yield(Record{}, fmt.Errorf("decoding %s tree: %w", t.format, err))
			return
		}
		for i, n := range nodes {
			if n == nil {
				continue
			}
			if !yield(Record{Index: i, Value: n}, nil) {
				return
			}
		}
	}
}

// ResolveRoot registers the root node under "<UID>__<name>"; UID defaults
// to the name.
func (t *Tree) ResolveRoot(rec Record, pool *system.Pool) (string, string, error) {
	root, err := t.node(rec)
	if err != nil {
		return "", "", err
	}
	if root.Name == "" {
		return "", "", fmt.Errorf("%w: root node has no name", ErrMissingField)
	}
	if root.Type.Ring {
		return "", "", fmt.Errorf("%w: root %q cannot be a ring", compile.ErrInvalidOrbitShape, root.Name)
	}
	body, err := root.body()
	if err != nil {
		return "", "", fmt.Errorf("root %q: %w", root.Name, err)
	}
	uid := root.UID
	if uid == "" {
		uid = root.Name
	}
	key := RootKey(uid, root.Name)
	if err := pool.Add(key, body); err != nil {
		return "", "", err
	}
	return key, SystemName(key), nil
}

// PopulateOrbits returns one raw orbit per direct child of the root; the
// deeper levels travel as satellites of those children.
func (t *Tree) PopulateOrbits(rec Record, pool *system.Pool, rootKey string) ([]system.RawOrbit, error) {
	root, err := t.node(rec)
	if err != nil {
		return nil, err
	}
	sats, err := root.satellites(pool)
	if err != nil {
		return nil, err
	}
	orbits := make([]system.RawOrbit, 0, len(sats))
	for _, s := range sats {
		orbits = append(orbits, system.RawOrbit{Parent: system.Key(rootKey), Child: s.Child, Params: s.Params})
	}
	return orbits, nil
}

func (t *Tree) node(rec Record) (*treeNode, error) {
	n, ok := rec.Value.(*treeNode)
	if !ok {
		return nil, fmt.Errorf("%s record holds %T", t.format, rec.Value)
	}
	return n, nil
}

func (n *treeNode) label() string {
	switch {
	case n.Name != "":
		return n.Name
	case n.UID != "":
		return n.UID
	default:
		return n.Type.Name
	}
}

// body builds the node body, or the body of each member for a ring.
func (n *treeNode) body() (system.Body, error) {
	if n.Type.Name == "" {
		return nil, fmt.Errorf("%w: node %q has no type", ErrMissingField, n.label())
	}
	return system.ResolveReference(n.Type.Name, system.Overrides{Class: n.Class, Mass: n.Mass, Radius: n.Radius})
}

func (n *treeNode) params() (system.Params, error) {
	if n.Distance == nil {
		return system.Params{}, fmt.Errorf("%w: node %q has no distance", ErrMissingField, n.label())
	}
	return system.Params{
		SemiMajorAxis:   *n.Distance,
		Eccentricity:    n.Eccentricity,
		Obliquity:       n.Obliquity,
		Inclination:     n.Inclination,
		AscendingNode:   n.AscendingNode,
		ArgOfPericenter: n.ArgOfPericenter,
		Angle:           n.Angle,
		RefPlane:        n.RefPlane,
		Retrograde:      n.Retrograde,
	}, nil
}

// ref returns the child descriptor of n with all its descendants.
func (n *treeNode) ref(pool *system.Pool) (system.Ref, error) {
	body, err := n.body()
	if err != nil {
		return system.Ref{}, err
	}
	if n.Type.Ring {
		return n.ring(body, pool)
	}

	ref := system.Inline(body)
	if n.UID != "" {
		if err := pool.Add(n.UID, body); err != nil {
			return system.Ref{}, err
		}
		ref = system.Key(n.UID)
	}
	sats, err := n.satellites(pool)
	if err != nil {
		return system.Ref{}, err
	}
	ref.Orbits = sats
	return ref, nil
}

func (n *treeNode) ring(member system.Body, pool *system.Pool) (system.Ref, error) {
	if len(n.Child) > 0 || len(n.Childs) > 0 {
		return system.Ref{}, fmt.Errorf("%w: ring %q declares children; use childof to attach them to a member",
			compile.ErrInvalidOrbitShape, n.label())
	}
	if n.UID != "" {
		return system.Ref{}, fmt.Errorf("%w: ring %q cannot have a UID", compile.ErrInvalidOrbitShape, n.label())
	}
	ring, err := system.MakeRing(n.Type.Count, []system.Ref{system.Inline(member)}, n.AngleSteps...)
	if err != nil {
		return system.Ref{}, fmt.Errorf("ring %q: %w", n.label(), err)
	}
	err = n.eachChildOf(ring.Count(), func(idx int, kids children) error {
		for _, kid := range kids {
			s, err := kid.satellite(pool)
			if err != nil {
				return err
			}
			ring.Members[idx] = ring.Members[idx].With(s.Child, s.Params)
		}
		return nil
	})
	if err != nil {
		return system.Ref{}, err
	}
	return system.Inline(ring), nil
}

// satellites returns the children of a non-ring node: child, childs, and
// childof "0", the node itself.
func (n *treeNode) satellites(pool *system.Pool) ([]system.Satellite, error) {
	var kids []*treeNode
	kids = append(kids, n.Child...)
	kids = append(kids, n.Childs...)
	err := n.eachChildOf(1, func(_ int, c children) error {
		kids = append(kids, c...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sats := make([]system.Satellite, 0, len(kids))
	for _, kid := range kids {
		s, err := kid.satellite(pool)
		if err != nil {
			return nil, err
		}
		sats = append(sats, s)
	}
	return sats, nil
}

func (n *treeNode) satellite(pool *system.Pool) (system.Satellite, error) {
	if n == nil {
		return system.Satellite{}, fmt.Errorf("%w: null child", compile.ErrInvalidOrbitShape)
	}
	p, err := n.params()
	if err != nil {
		return system.Satellite{}, err
	}
	ref, err := n.ref(pool)
	if err != nil {
		return system.Satellite{}, err
	}
	return system.Satellite{Child: ref, Params: p}, nil
}

// eachChildOf visits the childof entries in index order. Indexes must be
// written in decimal digits only; those at or past count are ignored.
func (n *treeNode) eachChildOf(count int, fn func(idx int, kids children) error) error {
	type entry struct {
		idx  int
		kids children
	}
	entries := make([]entry, 0, len(n.ChildOf))
	for key, kids := range n.ChildOf {
		idx, err := strconv.Atoi(key)
		if err != nil || strings.TrimLeft(key, "0123456789") != "" {
			return fmt.Errorf("%w: childof index %q of %q is not a member number",
				compile.ErrInvalidOrbitShape, key, n.label())
		}
		if idx < count {
			entries = append(entries, entry{idx: idx, kids: kids})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
	for _, e := range entries {
		if err := fn(e.idx, e.kids); err != nil {
			return err
		}
	}
	return nil
}
