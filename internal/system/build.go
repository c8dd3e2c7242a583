package system

import "fmt"

// MakeStar builds a Star. A zero mass or radius counts as absent: when only
// one of them is given the other takes the same value.
func MakeStar(spectralClass string, mass, radius float64) (Star, error) {
	m, r, err := massRadius(mass, radius)
	if err != nil {
		return Star{}, fmt.Errorf("star %q: %w", spectralClass, err)
	}
	return Star{SpectralClass: spectralClass, SolarMass: m, SolarRadius: r}, nil
}

// MakePlanet builds a Planet with the same mass/radius defaulting as MakeStar.
func MakePlanet(class string, mass, radius float64) (Planet, error) {
	m, r, err := massRadius(mass, radius)
	if err != nil {
		return Planet{}, fmt.Errorf("planet %q: %w", class, err)
	}
	return Planet{Class: class, EarthMass: m, EarthRadius: r}, nil
}

func massRadius(mass, radius float64) (float64, float64, error) {
	switch {
	case mass != 0 && radius != 0:
		return mass, radius, nil
	case mass != 0:
		return mass, mass, nil
	case radius != 0:
		return radius, radius, nil
	default:
		return 0, 0, ErrMissingMassRadius
	}
}

// MakeRing builds a Ring of count members by cycling through members, so a
// short pattern tiles a large ring and a single member is replicated. A zero
// count keeps members as given.
//
// Steps are cycled the same way: no step spreads the members evenly over
// 360 degrees, a single step applies to every member.
func MakeRing(count int, members []Ref, steps ...float64) (Ring, error) {
	if count < 0 {
		return Ring{}, fmt.Errorf("%w: negative body count %d", ErrInvalidRing, count)
	}
	if len(members) == 0 {
		return Ring{}, fmt.Errorf("%w: no member bodies", ErrInvalidRing)
	}
	if count == 0 {
		count = len(members)
	}

	ring := Ring{
		Members:    make([]Ref, count),
		AngleSteps: make([]float64, count),
	}
	for i := range count {
		// Each member owns its satellites; the pattern entry is shared.
		m := members[i%len(members)]
		m.Orbits = append([]Satellite(nil), m.Orbits...)
		ring.Members[i] = m
	}
	if len(steps) == 0 {
		steps = []float64{360 / float64(count)}
	}
	for i := range count {
		ring.AngleSteps[i] = steps[i%len(steps)]
	}
	return ring, nil
}
