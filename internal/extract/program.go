package extract

import (
	"context"
	"fmt"
	"iter"

	"github.com/papapumpkin/selang/internal/asp"
	"github.com/papapumpkin/selang/internal/compile"
	"github.com/papapumpkin/selang/internal/system"
)

// Program extracts systems from logic programs. Each answer set is a
// record built from the atoms:
//
//	is(UID, Type).                 declares the body UID
//	root(Type, Name).              the system root, also root(Type, Name, UID)
//	orbit(Parent, Child, Params, Flags...).
//
// Types are reference names or typed atoms star(Class, Mass, Radius) and
// planet(Class, Mass, Radius). Params is a number, the semi-major axis, or
// a tuple read in system.ParamFields order. The only flag is retrograde.
// A child is a body, orbit(Host, Child, Params, Flags...) for a host with
// a satellite, or ring(Type, Count, orbit(Index, Child, Params, Flags...)...)
// where Index numbers ring members from 1.
type Program struct {
	// Solver is the clingo binary for programs with rules.
	Solver string
}

// Records yields one record per answer set.
func (p *Program) Records(ctx context.Context, path string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		sets, err := asp.Load(ctx, path, p.Solver)
		if err != nil {
			yield(Record{}, err)
			return
		}
		for i, set := range sets {
			if !yield(Record{Index: i, Value: set}, nil) {
				return
			}
		}
	}
}

// ResolveRoot reads the single root atom and registers the declared
// bodies, the root under "<UID>__<Name>".
func (p *Program) ResolveRoot(rec Record, pool *system.Pool) (string, string, error) {
	m, err := p.model(rec)
	if err != nil {
		return "", "", err
	}
	if err := m.declare(pool); err != nil {
		return "", "", err
	}
	rootKey, err := m.root()
	if err != nil {
		return "", "", err
	}
	body, err := m.typeBody(m.rootType)
	if err != nil {
		return "", "", fmt.Errorf("root %s: %w", m.rootType, err)
	}
	if err := pool.Add(rootKey, body); err != nil {
		return "", "", err
	}
	return rootKey, SystemName(rootKey), nil
}

// PopulateOrbits reads every orbit atom.
func (p *Program) PopulateOrbits(rec Record, pool *system.Pool, rootKey string) ([]system.RawOrbit, error) {
	m, err := p.model(rec)
	if err != nil {
		return nil, err
	}
	if _, err := m.root(); err != nil {
		return nil, err
	}
	m.rootKey = rootKey

	var orbits []system.RawOrbit
	for _, args := range m.groups["orbit"] {
		if len(args) < 3 {
			return nil, fmt.Errorf("%w: orbit/%d needs a parent, a child and parameters",
				compile.ErrInvalidOrbitShape, len(args))
		}
		parent, err := m.ref(args[0])
		if err != nil {
			return nil, fmt.Errorf("orbit %s: %w", asp.Fn("orbit", args...), err)
		}
		sat, err := m.satellite(args[1:])
		if err != nil {
			return nil, fmt.Errorf("orbit %s: %w", asp.Fn("orbit", args...), err)
		}
		orbits = append(orbits, system.RawOrbit{Parent: parent, Child: sat.Child, Params: sat.Params})
	}
	return orbits, nil
}

func (p *Program) model(rec Record) (*answerModel, error) {
	set, ok := rec.Value.(asp.AnswerSet)
	if !ok {
		return nil, fmt.Errorf("logic program record holds %T", rec.Value)
	}
	return &answerModel{groups: set.ByPredicate()}, nil
}

// answerModel reads one answer set.
type answerModel struct {
	groups   map[string][][]asp.Term
	rootType asp.Term
	rootArg  string // first argument of root/2|3, as named in orbit atoms
	rootKey  string
}

// declare registers every is/2 body under its UID.
func (m *answerModel) declare(pool *system.Pool) error {
	seen := make(map[string]asp.Term)
	for _, args := range m.groups["is"] {
		if len(args) != 2 {
			continue
		}
		uid, typ := args[0].Text(), args[1]
		if prev, ok := seen[uid]; ok {
			if prev.String() != typ.String() {
				return fmt.Errorf("%w: UID %s declared as %s and %s", system.ErrDuplicateIdentity, uid, prev, typ)
			}
			continue
		}
		seen[uid] = typ
		body, err := m.typeBody(typ)
		if err != nil {
			return fmt.Errorf("is(%s, %s): %w", uid, typ, err)
		}
		if err := pool.Add(uid, body); err != nil {
			return err
		}
	}
	return nil
}

// root reads the root atom and returns the root key.
func (m *answerModel) root() (string, error) {
	var roots [][]asp.Term
	for _, args := range m.groups["root"] {
		if len(args) == 2 || len(args) == 3 {
			roots = append(roots, args)
		}
	}
	if len(roots) != 1 {
		return "", fmt.Errorf("%w: expected one root/2 or root/3 atom, found %d", compile.ErrInvalidRootCount, len(roots))
	}
	args := roots[0]
	name := args[1].Text()
	uid := name
	if len(args) == 3 {
		uid = args[2].Text()
	}
	m.rootArg = args[0].Text()
	m.rootType = args[0]
	// root(1, "Sol") names a body declared by is(1, Type).
	for _, decl := range m.groups["is"] {
		if len(decl) == 2 && decl[0].Text() == m.rootArg {
			m.rootType = decl[1]
			break
		}
	}
	return RootKey(uid, name), nil
}

// typeBody builds the body of a type: a reference name or a typed atom.
func (m *answerModel) typeBody(t asp.Term) (system.Body, error) {
	switch {
	case t.IsFunction("star"), t.IsFunction("planet"):
		return typedBody(t)
	case t.Kind == asp.Symbol || t.Kind == asp.String:
		return system.ResolveReference(t.Text(), system.Overrides{})
	default:
		return nil, fmt.Errorf("%w: %s is not a body type", compile.ErrUnresolvedBody, t)
	}
}

// typedBody reads star(Class, Mass, Radius) or planet(Class, Mass, Radius);
// mass and radius may be left out.
func typedBody(t asp.Term) (system.Body, error) {
	if len(t.Args) == 0 || len(t.Args) > 3 {
		return nil, fmt.Errorf("%w: %s: expected %s(Class, Mass, Radius)", compile.ErrInvalidOrbitShape, t, t.Name)
	}
	class := t.Args[0].Text()
	var values [2]float64
	for i, a := range t.Args[1:] {
		v, ok := a.Float()
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s is not a number", compile.ErrInvalidOrbitShape, t, a)
		}
		values[i] = v
	}
	if t.Name == "star" {
		return system.MakeStar(class, values[0], values[1])
	}
	return system.MakePlanet(class, values[0], values[1])
}

// ref reads a body named in an orbit atom.
func (m *answerModel) ref(t asp.Term) (system.Ref, error) {
	switch {
	case t.IsFunction("star"), t.IsFunction("planet"):
		body, err := typedBody(t)
		if err != nil {
			return system.Ref{}, err
		}
		return system.Inline(body), nil
	case t.Kind == asp.Symbol || t.Kind == asp.Number || t.Kind == asp.String:
		if t.Text() == m.rootArg {
			return system.Key(m.rootKey), nil
		}
		return system.Key(t.Text()), nil
	default:
		return system.Ref{}, fmt.Errorf("%w: %s does not name a body", compile.ErrUnresolvedBody, t)
	}
}

// satellite reads (Child, Params, Flags...).
func (m *answerModel) satellite(args []asp.Term) (system.Satellite, error) {
	if len(args) < 2 {
		return system.Satellite{}, fmt.Errorf("%w: expected a child and parameters", compile.ErrInvalidOrbitShape)
	}
	params, err := orbitParams(args[1])
	if err != nil {
		return system.Satellite{}, err
	}
	for _, flag := range args[2:] {
		if flag.Text() == "retrograde" {
			params.Retrograde = true
		}
	}
	if args[0].IsFunction("ring") && params.Angle != nil {
		return system.Satellite{}, fmt.Errorf("%w: %s", ErrRingAngle, args[0])
	}
	child, err := m.descriptor(args[0])
	if err != nil {
		return system.Satellite{}, err
	}
	return system.Satellite{Child: child, Params: params}, nil
}

// descriptor reads a child: a body, a nested orbit or a ring.
func (m *answerModel) descriptor(t asp.Term) (system.Ref, error) {
	switch {
	case t.IsFunction("orbit"):
		if len(t.Args) < 3 {
			return system.Ref{}, fmt.Errorf("%w: nested %s needs a host, a child and parameters", compile.ErrInvalidOrbitShape, t)
		}
		host, err := m.descriptor(t.Args[0])
		if err != nil {
			return system.Ref{}, err
		}
		sat, err := m.satellite(t.Args[1:])
		if err != nil {
			return system.Ref{}, err
		}
		return host.With(sat.Child, sat.Params), nil
	case t.IsFunction("ring"):
		return m.ring(t)
	default:
		return m.ref(t)
	}
}

// ring reads ring(Type, Count, orbit(Index, Child, Params, Flags...)...).
// Indexes out of the ring are ignored, as are other extra arguments.
func (m *answerModel) ring(t asp.Term) (system.Ref, error) {
	if len(t.Args) < 2 {
		return system.Ref{}, fmt.Errorf("%w: %s: expected ring(Type, Count, ...)", compile.ErrInvalidOrbitShape, t)
	}
	member, err := m.ref(t.Args[0])
	if err != nil {
		return system.Ref{}, err
	}
	count, ok := t.Args[1].Float()
	if !ok || count != float64(int(count)) {
		return system.Ref{}, fmt.Errorf("%w: %s: count %s is not an integer", compile.ErrInvalidOrbitShape, t, t.Args[1])
	}
	ring, err := system.MakeRing(int(count), []system.Ref{member})
	if err != nil {
		return system.Ref{}, fmt.Errorf("%s: %w", t, err)
	}
	for _, prop := range t.Args[2:] {
		if !prop.IsFunction("orbit") || len(prop.Args) < 3 {
			continue
		}
		idx, ok := prop.Args[0].Float()
		if !ok {
			return system.Ref{}, fmt.Errorf("%w: %s: member index %s is not a number", compile.ErrInvalidOrbitShape, t, prop.Args[0])
		}
		i := int(idx) - 1
		if i < 0 || i >= ring.Count() {
			continue
		}
		sat, err := m.satellite(prop.Args[1:])
		if err != nil {
			return system.Ref{}, err
		}
		ring.Members[i] = ring.Members[i].With(sat.Child, sat.Params)
	}
	return system.Inline(ring), nil
}

// orbitParams reads a semi-major axis or a positional parameter tuple.
func orbitParams(t asp.Term) (system.Params, error) {
	if v, ok := t.Float(); ok {
		return system.Orbit(v), nil
	}
	if t.Kind != asp.Function {
		return system.Params{}, fmt.Errorf("%w: orbit parameters %s", compile.ErrInvalidOrbitShape, t)
	}
	if len(t.Args) == 0 || len(t.Args) > len(system.ParamFields) {
		return system.Params{}, fmt.Errorf("%w: orbit parameters %s: expected 1 to %d values",
			compile.ErrInvalidOrbitShape, t, len(system.ParamFields))
	}
	var p system.Params
	for i, a := range t.Args {
		v, ok := a.Float()
		if !ok {
			return system.Params{}, fmt.Errorf("%w: orbit parameters %s: %s is not a number", compile.ErrInvalidOrbitShape, t, a)
		}
		if err := p.Set(system.ParamFields[i], v); err != nil {
			return system.Params{}, err
		}
	}
	return p, nil
}
