package compile

import (
	"fmt"
	"math"

	"github.com/papapumpkin/selang/internal/system"
)

// Allocator mints object identifiers for one compilation. IDs start at 1
// and increase by one per call.
type Allocator struct {
	last system.ID
}

// NewAllocator returns an Allocator whose first ID is 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns a fresh identifier.
func (a *Allocator) Next() system.ID {
	a.last++
	return a.last
}

// Unify assigns an identifier to every body referenced by raws and returns
// the canonical orbit triples with the objects they reference.
//
// Pool keys receive their identifiers up front, in pool order, and keep
// them for the whole run, ring members included. Inline bodies get a fresh
// identifier each time they appear. Other keys are looked up in the
// reference catalog: a catalog name keeps one identifier until that body
// has been placed as a child, and each later placement mints a new body.
//
// A ring child fans out into one triple per member. Member k orbits at
// (base + steps[0] + ... + steps[k-1]) mod 360, where base is the ring
// orbit's own angle (0 when absent). Satellites are emitted right after
// the triple of the body they orbit.
func Unify(alloc *Allocator, raws []system.RawOrbit, pool *system.Pool) ([]system.Triple, map[system.ID]system.Body, error) {
	if pool == nil {
		pool = system.NewPool()
	}
	u := &unifier{
		alloc:    alloc,
		pool:     pool,
		poolIDs:  make(map[string]system.ID, pool.Len()),
		refIDs:   make(map[string]system.ID),
		objects:  make(map[system.ID]system.Body),
		children: make(map[system.ID]bool),
	}
	for _, key := range pool.Keys() {
		u.poolIDs[key] = alloc.Next()
	}

	for i, raw := range raws {
		if err := u.raw(raw); err != nil {
			return nil, nil, fmt.Errorf("orbit %d (%s around %s): %w", i, raw.Child, raw.Parent, err)
		}
	}
	return u.triples, u.objects, nil
}

type unifier struct {
	alloc    *Allocator
	pool     *system.Pool
	poolIDs  map[string]system.ID
	refIDs   map[string]system.ID
	objects  map[system.ID]system.Body
	triples  []system.Triple
	children map[system.ID]bool
}

func (u *unifier) raw(raw system.RawOrbit) error {
	if len(raw.Parent.Orbits) > 0 {
		return fmt.Errorf("%w: parent %s declares its own satellites", ErrInvalidOrbitShape, raw.Parent)
	}
	body, err := u.body(raw.Parent)
	if err != nil {
		return err
	}
	if body.Kind() == system.KindRing {
		return fmt.Errorf("%w: ring %s cannot be a parent", ErrInvalidOrbitShape, raw.Parent)
	}
	parent := u.identify(raw.Parent, body, false)
	return u.orbit(parent, raw.Child, raw.Params)
}

// orbit places child around parent.
func (u *unifier) orbit(parent system.ID, child system.Ref, p system.Params) error {
	body, err := u.body(child)
	if err != nil {
		return err
	}
	if ring, ok := body.(system.Ring); ok {
		if len(child.Orbits) > 0 {
			return fmt.Errorf("%w: ring %s declares satellites; attach them to a member", ErrInvalidOrbitShape, child)
		}
		return u.ring(parent, ring, p)
	}

	id := u.identify(child, body, true)
	if u.children[id] {
		return fmt.Errorf("%w: %s (object %s)", ErrDuplicateOrbit, child, id)
	}
	u.children[id] = true
	u.triples = append(u.triples, system.Triple{Parent: parent, Child: id, Params: p})

	for _, s := range child.Orbits {
		if err := u.orbit(id, s.Child, s.Params); err != nil {
			return fmt.Errorf("satellite %s: %w", s.Child, err)
		}
	}
	return nil
}

func (u *unifier) ring(parent system.ID, ring system.Ring, p system.Params) error {
	if len(ring.Members) == 0 {
		return fmt.Errorf("%w: empty ring", system.ErrInvalidRing)
	}
	var angle float64
	if p.Angle != nil {
		angle = *p.Angle
	}
	for k, m := range ring.Members {
		if k > 0 {
			angle += ring.Step(k - 1)
		}
		if err := u.orbit(parent, m, p.WithAngle(wrapDegrees(angle))); err != nil {
			return fmt.Errorf("ring member %d: %w", k, err)
		}
	}
	return nil
}

// body returns the body a reference stands for.
func (u *unifier) body(ref system.Ref) (system.Body, error) {
	if ref.Body != nil {
		return ref.Body, nil
	}
	if ref.Key == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrUnresolvedBody)
	}
	if b, ok := u.pool.Get(ref.Key); ok {
		return b, nil
	}
	b, err := system.ResolveReference(ref.Key, system.Overrides{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvedBody, err)
	}
	return b, nil
}

// identify returns the identifier of a resolved reference and records its
// body in the canonical objects. child is set when the reference is being
// placed in an orbit rather than hosting one.
func (u *unifier) identify(ref system.Ref, body system.Body, child bool) system.ID {
	var id system.ID
	switch pid, pooled := u.poolIDs[ref.Key]; {
	case ref.Body != nil:
		id = u.alloc.Next()
	case pooled:
		id = pid
	default:
		name := system.NormalizeName(ref.Key)
		rid, ok := u.refIDs[name]
		switch {
		case !ok:
			rid = u.alloc.Next()
			u.refIDs[name] = rid
		case child && u.children[rid]:
			rid = u.alloc.Next()
		}
		id = rid
	}
	u.objects[id] = body
	return id
}

func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
