package extract

import (
	"context"
	"fmt"
	"iter"
	"os"
	"sort"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/selang/internal/compile"
	"github.com/papapumpkin/selang/internal/system"
)

// Layout extracts a system from a TOML layout document. Bodies are named
// in an objects table; orbits map each parent key to its (child, params)
// pairs, or to a single pair:
//
//	name = "Sol"
//
//	[objects.home]
//	planet = "terra"
//	mass = 1
//
//	[orbits]
//	sun = [["home", { distance = 1, eccentricity = 0.02 }], ["mars", 1.5]]
//	home = ["moon", 0.0025]
//
// Keys missing from the objects table are reference names. The root is the
// root key when given, else the only parent that orbits nothing.
type Layout struct{}

type layoutDoc struct {
	Name    string                  `toml:"name"`
	UID     string                  `toml:"uid"`
	Root    string                  `toml:"root"`
	Objects map[string]layoutObject `toml:"objects"`
	Orbits  map[string]any          `toml:"orbits"`
}

type layoutObject struct {
	Ref    string      `toml:"ref"`
	Star   string      `toml:"star"`
	Planet string      `toml:"planet"`
	Ring   *layoutRing `toml:"ring"`
	Class  string      `toml:"class"`
	Mass   float64     `toml:"mass"`
	Radius float64     `toml:"radius"`
}

type layoutRing struct {
	Count  int       `toml:"count"`
	Member string    `toml:"member"`
	Steps  []float64 `toml:"steps"`
}

func (o layoutObject) body(key string) (system.Body, error) {
	set := 0
	for _, s := range []string{o.Ref, o.Star, o.Planet} {
		if s != "" {
			set++
		}
	}
	if o.Ring != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: object %q must set exactly one of ref, star, planet, ring",
			compile.ErrInvalidOrbitShape, key)
	}

	switch {
	case o.Ref != "":
		return system.ResolveReference(o.Ref, system.Overrides{Class: o.Class, Mass: o.Mass, Radius: o.Radius})
	case o.Star != "":
		return system.MakeStar(o.Star, o.Mass, o.Radius)
	case o.Planet != "":
		return system.MakePlanet(o.Planet, o.Mass, o.Radius)
	default:
		if o.Ring.Member == "" {
			return nil, fmt.Errorf("%w: ring %q has no member", ErrMissingField, key)
		}
		return system.MakeRing(o.Ring.Count, []system.Ref{system.Key(o.Ring.Member)}, o.Ring.Steps...)
	}
}

// Records yields the document as a single record.
func (l *Layout) Records(ctx context.Context, path string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(Record{}, err)
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			yield(Record{}, fmt.Errorf("reading layout: %w", err))
			return
		}
		var doc layoutDoc
		if err := toml.Unmarshal(data, &doc); err != nil {
			yield(Record{}, fmt.Errorf("parsing layout: %w", err))
			return
		}
		yield(Record{Index: 0, Value: &doc}, nil)
	}
}

// ResolveRoot registers the root body under "<uid>__<name>".
func (l *Layout) ResolveRoot(rec Record, pool *system.Pool) (string, string, error) {
	doc, err := l.doc(rec)
	if err != nil {
		return "", "", err
	}
	if doc.Name == "" {
		return "", "", fmt.Errorf("%w: layout has no name", ErrMissingField)
	}
	raws, err := compile.Normalize(doc.Orbits)
	if err != nil {
		return "", "", err
	}
	root, err := doc.rootObject(raws)
	if err != nil {
		return "", "", err
	}

	var body system.Body
	if obj, ok := doc.Objects[root]; ok {
		body, err = obj.body(root)
	} else {
		body, err = system.ResolveReference(root, system.Overrides{})
	}
	if err != nil {
		return "", "", fmt.Errorf("root %q: %w", root, err)
	}
	if body.Kind() == system.KindRing {
		return "", "", fmt.Errorf("%w: root %q cannot be a ring", compile.ErrInvalidOrbitShape, root)
	}

	uid := doc.UID
	if uid == "" {
		uid = doc.Name
	}
	key := RootKey(uid, doc.Name)
	if err := pool.Add(key, body); err != nil {
		return "", "", err
	}
	return key, SystemName(key), nil
}

// PopulateOrbits registers the objects table, in key order, and returns
// the orbits with the root renamed to rootKey.
func (l *Layout) PopulateOrbits(rec Record, pool *system.Pool, rootKey string) ([]system.RawOrbit, error) {
	doc, err := l.doc(rec)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.Objects))
	for k := range doc.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		body, err := doc.Objects[k].body(k)
		if err != nil {
			return nil, err
		}
		if err := pool.Add(k, body); err != nil {
			return nil, err
		}
	}

	raws, err := compile.Normalize(doc.Orbits)
	if err != nil {
		return nil, err
	}
	root, err := doc.rootObject(raws)
	if err != nil {
		return nil, err
	}
	for i := range raws {
		if raws[i].Parent.Body == nil && raws[i].Parent.Key == root {
			raws[i].Parent = system.Key(rootKey)
		}
	}
	return raws, nil
}

func (l *Layout) doc(rec Record) (*layoutDoc, error) {
	doc, ok := rec.Value.(*layoutDoc)
	if !ok {
		return nil, fmt.Errorf("layout record holds %T", rec.Value)
	}
	return doc, nil
}

// rootObject returns the declared root, or the only parent key that never
// orbits another body.
func (d *layoutDoc) rootObject(raws []system.RawOrbit) (string, error) {
	if d.Root != "" {
		return d.Root, nil
	}
	isChild := make(map[string]bool)
	for _, r := range raws {
		if r.Child.Body == nil {
			isChild[r.Child.Key] = true
		}
	}
	var roots []string
	seen := make(map[string]bool)
	for _, r := range raws {
		k := r.Parent.Key
		if r.Parent.Body != nil || isChild[k] || seen[k] {
			continue
		}
		seen[k] = true
		roots = append(roots, k)
	}
	if len(roots) != 1 {
		return "", fmt.Errorf("%w: layout parents %v orbit nothing; set root", compile.ErrInvalidRootCount, roots)
	}
	return roots[0], nil
}
