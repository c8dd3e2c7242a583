package system

import (
	"fmt"
	"strings"
)

// DefaultRefPlane is the reference plane used when none is declared.
const DefaultRefPlane = "Equator"

// Params describes an orbit. Only SemiMajorAxis is required; nil fields
// are absent and left out of rendered output.
type Params struct {
	SemiMajorAxis   float64
	Eccentricity    *float64
	Obliquity       *float64
	Inclination     *float64
	AscendingNode   *float64
	ArgOfPericenter *float64
	Angle           *float64 // mean anomaly, degrees
	RefPlane        string
	Retrograde      bool
}

// ParamFields lists orbit parameter names in positional order.
var ParamFields = []string{
	"semimajoraxis",
	"eccentricity",
	"obliquity",
	"inclination",
	"ascendingnode",
	"argofpericenter",
	"angle",
}

// Orbit returns Params at the given semi-major axis.
func Orbit(semiMajorAxis float64) Params {
	return Params{SemiMajorAxis: semiMajorAxis}
}

// Float returns a pointer to v, for optional Params fields.
func Float(v float64) *float64 {
	return &v
}

// Set assigns the named numeric field. Names are matched case-insensitively
// and ignore underscores, so "arg_of_pericenter" and "ArgOfPericenter" are
// the same field. "distance" is an alias for the semi-major axis.
func (p *Params) Set(field string, v float64) error {
	switch strings.ToLower(strings.ReplaceAll(field, "_", "")) {
	case "semimajoraxis", "distance":
		p.SemiMajorAxis = v
	case "eccentricity":
		p.Eccentricity = Float(v)
	case "obliquity":
		p.Obliquity = Float(v)
	case "inclination":
		p.Inclination = Float(v)
	case "ascendingnode":
		p.AscendingNode = Float(v)
	case "argofpericenter":
		p.ArgOfPericenter = Float(v)
	case "angle", "meananomaly":
		p.Angle = Float(v)
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidParams, field)
	}
	return nil
}

// Plane returns the reference plane, defaulting to DefaultRefPlane.
func (p Params) Plane() string {
	if p.RefPlane == "" {
		return DefaultRefPlane
	}
	return p.RefPlane
}

// EffectiveInclination returns the inclination, flipped by 180 degrees for
// retrograde orbits. ok is false when the orbit declares neither.
func (p Params) EffectiveInclination() (inc float64, ok bool) {
	if p.Inclination == nil && !p.Retrograde {
		return 0, false
	}
	if p.Inclination != nil {
		inc = *p.Inclination
	}
	if p.Retrograde {
		inc += 180
	}
	return inc, true
}

// WithAngle returns a copy of p with its mean anomaly set to angle.
func (p Params) WithAngle(angle float64) Params {
	p.Angle = Float(angle)
	return p
}
