// Package render writes compiled systems as SpaceEngine catalog scripts.
// A system produces two catalogs: a star catalog holding the system
// barycenter, and a planet catalog holding every body.
package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/papapumpkin/selang/internal/system"
)

// ErrUnrenderableBody indicates a body variant without a catalog record.
var ErrUnrenderableBody = errors.New("unrenderable body")

// EarthRadiusKm converts Earth radii to the kilometres used by Radius.
const EarthRadiusKm = 6378

const indent = "    "

// Render returns the star and planet catalog lines of m: the system
// header, the root record, then one record per orbit in model order.
func Render(m *system.Model) (star, planet []string, err error) {
	star = StarCatalog(m.Name)

	root, ok := m.Objects[m.Root]
	if !ok {
		return nil, nil, fmt.Errorf("%w: root object %s is missing", ErrUnrenderableBody, m.Root)
	}
	planet, err = Record(root, m.ObjectName(m.Root), m.Name, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("root: %w", err)
	}

	for _, t := range m.Orbits {
		body, ok := m.Objects[t.Child]
		if !ok {
			return nil, nil, fmt.Errorf("%w: object %s is missing", ErrUnrenderableBody, t.Child)
		}
		lines, err := Record(body, m.ObjectName(t.Child), m.ObjectName(t.Parent), &t.Params)
		if err != nil {
			return nil, nil, fmt.Errorf("object %s: %w", t.Child, err)
		}
		planet = append(planet, lines...)
	}
	return star, planet, nil
}

// StarCatalog returns the star catalog of the system name: it removes any
// previous definition and declares the system barycenter.
func StarCatalog(name string) []string {
	return []string{
		"Remove " + quote(name),
		"StarBarycenter " + quote(name),
		"{}",
	}
}

// Record returns the catalog record of body. orbit is nil for the root.
func Record(body system.Body, name, parent string, orbit *system.Params) ([]string, error) {
	var fields []string
	switch b := body.(type) {
	case system.Star:
		fields = starFields(b)
	case system.Planet:
		fields = planetFields(b)
	case system.Barycenter:
	default:
		kind := "nil"
		if body != nil {
			kind = body.Kind().String()
		}
		return nil, fmt.Errorf("%w: %s %q", ErrUnrenderableBody, kind, name)
	}

	lines := []string{
		keyword(body) + " " + quote(name),
		"{",
		indent + "ParentBody " + quote(parent),
	}
	lines = append(lines, fields...)
	if orbit != nil {
		lines = append(lines, OrbitBlock(*orbit)...)
	}
	return append(lines, "}"), nil
}

func keyword(body system.Body) string {
	switch body.(type) {
	case system.Star:
		return "Star"
	case system.Planet:
		return "Planet"
	default:
		return "Barycenter"
	}
}

func starFields(s system.Star) []string {
	var out []string
	if s.SpectralClass != "" {
		out = append(out, indent+"Class "+quote(s.SpectralClass))
	}
	if s.SolarMass != 0 {
		out = append(out, indent+"MassSol "+Number(s.SolarMass))
	}
	if s.SolarRadius != 0 {
		out = append(out, indent+"RadSol "+Number(s.SolarRadius))
	}
	return append(out, indent+"NoPlanets true", indent+"NoAccretionDisk true")
}

func planetFields(p system.Planet) []string {
	var out []string
	if p.Class != "" {
		out = append(out, indent+"Class "+quote(p.Class))
	}
	if p.EarthMass != 0 {
		out = append(out, indent+"Mass "+Number(p.EarthMass))
	}
	if p.EarthRadius != 0 {
		out = append(out, indent+"Radius "+Number(RadiusKm(p.EarthRadius)))
	}
	return append(out, indent+"NoPlanets true")
}

// OrbitBlock returns the orbit lines of a record. Obliquity belongs to the
// body and precedes the block.
func OrbitBlock(p system.Params) []string {
	var out []string
	if p.Obliquity != nil {
		out = append(out, indent+"Obliquity "+Number(*p.Obliquity))
	}
	out = append(out,
		indent+"Orbit",
		indent+"{",
		indent+indent+"RefPlane "+quote(p.Plane()),
		indent+indent+"SemiMajorAxis "+Number(p.SemiMajorAxis),
	)
	if p.Eccentricity != nil {
		out = append(out, indent+indent+"Eccentricity "+Number(*p.Eccentricity))
	}
	if inc, ok := p.EffectiveInclination(); ok {
		out = append(out, indent+indent+"Inclination "+Number(inc))
	}
	if p.Angle != nil {
		out = append(out, indent+indent+"MeanAnomaly "+Number(*p.Angle))
	}
	if p.AscendingNode != nil {
		out = append(out, indent+indent+"AscendingNode "+Number(*p.AscendingNode))
	}
	if p.ArgOfPericenter != nil {
		out = append(out, indent+indent+"ArgOfPericenter "+Number(*p.ArgOfPericenter))
	}
	return append(out, indent+"}")
}

// RadiusKm converts Earth radii to kilometres, rounded to 2 decimals.
func RadiusKm(earthRadii float64) float64 {
	return math.Round(earthRadii*EarthRadiusKm*100) / 100
}

// Number formats v in its shortest decimal form: 1, 0.1, 190.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func quote(s string) string {
	return `"` + s + `"`
}
