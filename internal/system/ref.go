package system

import "fmt"

// Ref designates a body in raw orbit data: either a Key (an object pool
// key or a reference catalog name) or an inline Body. Orbits lists the
// satellites declared around the referenced body.
type Ref struct {
	Key    string
	Body   Body
	Orbits []Satellite
}

// Satellite is an orbit declared around a Ref.
type Satellite struct {
	Child  Ref
	Params Params
}

// RawOrbit is an orbit declaration before identity resolution.
type RawOrbit struct {
	Parent Ref
	Child  Ref
	Params Params
}

// Key returns a Ref to a pool key or reference name.
func Key(key string) Ref {
	return Ref{Key: key}
}

// Inline returns a Ref to an anonymous body.
func Inline(b Body) Ref {
	return Ref{Body: b}
}

// With returns a copy of r with an extra satellite.
func (r Ref) With(child Ref, p Params) Ref {
	r.Orbits = append(append([]Satellite(nil), r.Orbits...), Satellite{Child: child, Params: p})
	return r
}

// String describes the reference for error messages.
func (r Ref) String() string {
	switch {
	case r.Body != nil:
		return fmt.Sprintf("inline %s", r.Body.Kind())
	case r.Key != "":
		return fmt.Sprintf("%q", r.Key)
	default:
		return "empty reference"
	}
}

// Pool maps user keys to bodies, preserving insertion order.
type Pool struct {
	keys   []string
	bodies map[string]Body
}

// NewPool creates an empty Pool.
func NewPool() *Pool {
	return &Pool{bodies: make(map[string]Body)}
}

// Add registers body under key. Re-declaring a key with the same body kind
// replaces the definition; a conflicting kind is ErrDuplicateIdentity.
func (p *Pool) Add(key string, body Body) error {
	if prev, ok := p.bodies[key]; ok {
		if prev.Kind() != body.Kind() {
			return fmt.Errorf("%w: key %q declared as %s and %s",
				ErrDuplicateIdentity, key, prev.Kind(), body.Kind())
		}
		p.bodies[key] = body
		return nil
	}
	p.keys = append(p.keys, key)
	p.bodies[key] = body
	return nil
}

// Get returns the body registered under key.
func (p *Pool) Get(key string) (Body, bool) {
	b, ok := p.bodies[key]
	return b, ok
}

// Keys returns the keys in insertion order.
func (p *Pool) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of keys.
func (p *Pool) Len() int {
	return len(p.keys)
}
