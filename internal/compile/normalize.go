package compile

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/papapumpkin/selang/internal/system"
)

// Entry is one parent of an orbit mapping with its children. Children is
// either a sequence of (child, params) pairs or a single (child, params)
// pair.
type Entry struct {
	Parent   any
	Children any
}

// Mapping is an orbit mapping that keeps the declaration order of parents.
type Mapping []Entry

// Normalize flattens loosely shaped orbit data into raw orbits. It accepts:
//
//   - a Mapping, or a map[string]any whose keys are visited in sorted order,
//     from parent to a sequence of (child, params) pairs or a single pair
//   - a []any of (parent, child, params) triples
//   - a []system.RawOrbit, returned as-is
//
// Parents and children may be strings or numbers (keys), system.Body
// values (inline bodies) or system.Ref values. Params may be a number (the
// semi-major axis), a system.Params or a map of named fields.
//
// No identity resolution happens here.
func Normalize(raw any) ([]system.RawOrbit, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []system.RawOrbit:
		return v, nil
	case Mapping:
		return normalizeMapping(v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Mapping, 0, len(keys))
		for _, k := range keys {
			m = append(m, Entry{Parent: k, Children: v[k]})
		}
		return normalizeMapping(m)
	case []any:
		return normalizeTriples(v)
	default:
		return nil, fmt.Errorf("%w: unsupported orbit data %T", ErrInvalidOrbitShape, raw)
	}
}

func normalizeMapping(m Mapping) ([]system.RawOrbit, error) {
	var out []system.RawOrbit
	for _, e := range m {
		parent, err := toRef(e.Parent)
		if err != nil {
			return nil, err
		}
		pairs, err := childPairs(e.Children)
		if err != nil {
			return nil, fmt.Errorf("parent %v: %w", e.Parent, err)
		}
		for _, pair := range pairs {
			child, err := toRef(pair[0])
			if err != nil {
				return nil, fmt.Errorf("parent %v: %w", e.Parent, err)
			}
			params, err := toParams(pair[1])
			if err != nil {
				return nil, fmt.Errorf("parent %v, child %v: %w", e.Parent, pair[0], err)
			}
			out = append(out, system.RawOrbit{Parent: parent, Child: child, Params: params})
		}
	}
	return out, nil
}

// childPairs reads the children of one mapping entry: either a sequence
// of pairs, or a single pair standing alone.
func childPairs(children any) ([][]any, error) {
	seq, ok := children.([]any)
	if !ok || len(seq) == 0 {
		return nil, fmt.Errorf("%w: expected (child, params) pairs, got %v", ErrInvalidOrbitShape, children)
	}
	if _, nested := seq[0].([]any); !nested {
		if len(seq) != 2 {
			return nil, fmt.Errorf("%w: expected a (child, params) pair, got %d values", ErrInvalidOrbitShape, len(seq))
		}
		return [][]any{seq}, nil
	}
	pairs := make([][]any, 0, len(seq))
	for i, item := range seq {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: child %d: expected a (child, params) pair, got %v", ErrInvalidOrbitShape, i, item)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func normalizeTriples(seq []any) ([]system.RawOrbit, error) {
	out := make([]system.RawOrbit, 0, len(seq))
	for i, item := range seq {
		t, ok := item.([]any)
		if !ok || len(t) != 3 {
			return nil, fmt.Errorf("%w: orbit %d: expected (parent, child, params), got %v", ErrInvalidOrbitShape, i, item)
		}
		parent, err := toRef(t[0])
		if err != nil {
			return nil, fmt.Errorf("orbit %d: %w", i, err)
		}
		child, err := toRef(t[1])
		if err != nil {
			return nil, fmt.Errorf("orbit %d: %w", i, err)
		}
		params, err := toParams(t[2])
		if err != nil {
			return nil, fmt.Errorf("orbit %d: %w", i, err)
		}
		out = append(out, system.RawOrbit{Parent: parent, Child: child, Params: params})
	}
	return out, nil
}

func toRef(v any) (system.Ref, error) {
	switch r := v.(type) {
	case system.Ref:
		return r, nil
	case system.Body:
		return system.Inline(r), nil
	case string:
		if r == "" {
			break
		}
		return system.Key(r), nil
	case int:
		return system.Key(strconv.Itoa(r)), nil
	case int64:
		return system.Key(strconv.FormatInt(r, 10)), nil
	case float64:
		return system.Key(strconv.FormatFloat(r, 'g', -1, 64)), nil
	}
	return system.Ref{}, fmt.Errorf("%w: %v (%T)", ErrUnresolvedBody, v, v)
}

func toParams(v any) (system.Params, error) {
	switch p := v.(type) {
	case system.Params:
		return p, nil
	case map[string]any:
		return paramsFromMap(p)
	}
	if f, ok := toFloat(v); ok {
		return system.Orbit(f), nil
	}
	return system.Params{}, fmt.Errorf("%w: orbit parameters %v (%T)", ErrInvalidOrbitShape, v, v)
}

// paramsFromMap reads named orbit fields. "refplane" and "retrograde" are
// the only non-numeric fields.
func paramsFromMap(m map[string]any) (system.Params, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var p system.Params
	for _, k := range keys {
		switch k {
		case "refplane", "ref_plane", "RefPlane":
			s, ok := m[k].(string)
			if !ok {
				return p, fmt.Errorf("%w: %s must be a string, got %v", ErrInvalidOrbitShape, k, m[k])
			}
			p.RefPlane = s
			continue
		case "retrograde":
			b, ok := m[k].(bool)
			if !ok {
				return p, fmt.Errorf("%w: retrograde must be a boolean, got %v", ErrInvalidOrbitShape, m[k])
			}
			p.Retrograde = b
			continue
		}
		f, ok := toFloat(m[k])
		if !ok {
			return p, fmt.Errorf("%w: %s must be a number, got %v", ErrInvalidOrbitShape, k, m[k])
		}
		if err := p.Set(k, f); err != nil {
			return p, fmt.Errorf("%w: %w", ErrInvalidOrbitShape, err)
		}
	}
	return p, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
