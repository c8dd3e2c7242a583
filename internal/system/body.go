// Package system defines the data model of a planetary system: celestial
// bodies, orbit parameters, raw orbit declarations, and the canonical model
// produced by the compiler. It also provides the object builders and the
// reference catalog of well-known bodies.
package system

// Kind identifies a Body variant.
type Kind int

const (
	KindStar Kind = iota + 1
	KindPlanet
	KindRing
	KindBarycenter
)

// String returns the lowercase variant name used in object names.
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindRing:
		return "ring"
	case KindBarycenter:
		return "barycenter"
	default:
		return "unknown"
	}
}

// Body is a celestial object. The set of implementations is closed:
// Star, Planet, Ring and Barycenter.
type Body interface {
	Kind() Kind
	body()
}

// Star is a stellar body. Mass and radius are in solar units.
type Star struct {
	SpectralClass string
	SolarMass     float64
	SolarRadius   float64
}

// Planet is a planetary body. Mass and radius are in Earth units.
type Planet struct {
	Class       string
	EarthMass   float64
	EarthRadius float64
}

// Ring is a compile-time body that expands into one orbiting member per
// entry of Members. AngleSteps[k] is the angular gap between member k and
// member k+1.
type Ring struct {
	Members    []Ref
	AngleSteps []float64
}

// Barycenter is a massless anchor other bodies can orbit.
type Barycenter struct{}

func (Star) Kind() Kind       { return KindStar }
func (Planet) Kind() Kind     { return KindPlanet }
func (Ring) Kind() Kind       { return KindRing }
func (Barycenter) Kind() Kind { return KindBarycenter }

func (Star) body()       {}
func (Planet) body()     {}
func (Ring) body()       {}
func (Barycenter) body() {}

// Count returns the number of bodies in the ring.
func (r Ring) Count() int {
	return len(r.Members)
}

// Step returns the angular gap after member k. Missing steps cycle through
// AngleSteps, or spread the members evenly when there are none.
func (r Ring) Step(k int) float64 {
	if len(r.AngleSteps) == 0 {
		if len(r.Members) == 0 {
			return 0
		}
		return 360 / float64(len(r.Members))
	}
	return r.AngleSteps[k%len(r.AngleSteps)]
}
