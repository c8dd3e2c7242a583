package system

import (
	"fmt"
	"sort"
	"strings"
)

// Overrides replaces fields of a catalog entry. Zero values leave the
// catalog value in place.
type Overrides struct {
	Class  string
	Mass   float64
	Radius float64
}

type reference struct {
	kind   Kind
	class  string
	mass   float64
	radius float64
}

var catalog = map[string]reference{
	"sun":        {kind: KindStar, class: "G2V", mass: 1, radius: 1},
	"red_dwarf":  {kind: KindStar, class: "M5V", mass: 0.1},
	"blue_giant": {kind: KindStar, class: "O9", mass: 10},
	"black_hole": {kind: KindStar, class: "X", mass: 2000},
	"earth":      {kind: KindPlanet, class: "terra", mass: 1, radius: 1},
	"moon":       {kind: KindPlanet, class: "luna", mass: 0.1},
	"barycenter": {kind: KindBarycenter},
}

// NormalizeName folds a reference name to its catalog spelling.
func NormalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// References returns the catalog names, sorted.
func References() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveReference builds the body registered under name, with ov merged
// on top of the catalog values.
func ResolveReference(name string, ov Overrides) (Body, error) {
	ref, ok := catalog[NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownReference, name, strings.Join(References(), ", "))
	}
	if ov.Class != "" {
		ref.class = ov.Class
	}
	if ov.Mass != 0 {
		ref.mass = ov.Mass
	}
	if ov.Radius != 0 {
		ref.radius = ov.Radius
	}

	var (
		body Body
		err  error
	)
	switch ref.kind {
	case KindStar:
		body, err = MakeStar(ref.class, ref.mass, ref.radius)
	case KindPlanet:
		body, err = MakePlanet(ref.class, ref.mass, ref.radius)
	default:
		body = Barycenter{}
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}
