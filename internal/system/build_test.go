package system

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakeStar_MassRadiusDefaulting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mass       float64
		radius     float64
		wantMass   float64
		wantRadius float64
		wantErr    error
	}{
		{name: "both given", mass: 2, radius: 3, wantMass: 2, wantRadius: 3},
		{name: "mass only", mass: 0.1, wantMass: 0.1, wantRadius: 0.1},
		{name: "radius only", radius: 4, wantMass: 4, wantRadius: 4},
		{name: "neither", wantErr: ErrMissingMassRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := MakeStar("G2V", tt.mass, tt.radius)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MakeStar: %v", err)
			}
			if s.SolarMass != tt.wantMass || s.SolarRadius != tt.wantRadius {
				t.Errorf("mass, radius = %v, %v; want %v, %v", s.SolarMass, s.SolarRadius, tt.wantMass, tt.wantRadius)
			}
			if s.SpectralClass != "G2V" {
				t.Errorf("SpectralClass = %q, want G2V", s.SpectralClass)
			}
		})
	}
}

func TestMakePlanet_RequiresMassOrRadius(t *testing.T) {
	t.Parallel()
	if _, err := MakePlanet("terra", 0, 0); !errors.Is(err, ErrMissingMassRadius) {
		t.Errorf("err = %v, want ErrMissingMassRadius", err)
	}
	p, err := MakePlanet("luna", 0.1, 0)
	if err != nil {
		t.Fatalf("MakePlanet: %v", err)
	}
	if p.EarthRadius != 0.1 {
		t.Errorf("EarthRadius = %v, want 0.1", p.EarthRadius)
	}
}

func TestMakeRing(t *testing.T) {
	t.Parallel()

	earth, moon := Key("earth"), Key("moon")

	t.Run("pattern tiles the ring", func(t *testing.T) {
		t.Parallel()
		r, err := MakeRing(5, []Ref{earth, moon})
		if err != nil {
			t.Fatalf("MakeRing: %v", err)
		}
		var got []string
		for _, m := range r.Members {
			got = append(got, m.Key)
		}
		want := []string{"earth", "moon", "earth", "moon", "earth"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("members mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]float64{72, 72, 72, 72, 72}, r.AngleSteps); diff != "" {
			t.Errorf("steps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single member replicated", func(t *testing.T) {
		t.Parallel()
		r, err := MakeRing(3, []Ref{earth}, 10)
		if err != nil {
			t.Fatalf("MakeRing: %v", err)
		}
		if r.Count() != 3 {
			t.Errorf("Count() = %d, want 3", r.Count())
		}
		if diff := cmp.Diff([]float64{10, 10, 10}, r.AngleSteps); diff != "" {
			t.Errorf("steps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero count keeps members", func(t *testing.T) {
		t.Parallel()
		r, err := MakeRing(0, []Ref{earth, moon, earth}, 10, 20)
		if err != nil {
			t.Fatalf("MakeRing: %v", err)
		}
		if r.Count() != 3 {
			t.Errorf("Count() = %d, want 3", r.Count())
		}
		if diff := cmp.Diff([]float64{10, 20, 10}, r.AngleSteps); diff != "" {
			t.Errorf("steps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("members own their satellites", func(t *testing.T) {
		t.Parallel()
		r, err := MakeRing(2, []Ref{earth})
		if err != nil {
			t.Fatalf("MakeRing: %v", err)
		}
		r.Members[0] = r.Members[0].With(moon, Orbit(0.01))
		if len(r.Members[1].Orbits) != 0 {
			t.Errorf("member 1 has %d satellites, want 0", len(r.Members[1].Orbits))
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		if _, err := MakeRing(3, nil); !errors.Is(err, ErrInvalidRing) {
			t.Errorf("no members: err = %v, want ErrInvalidRing", err)
		}
		if _, err := MakeRing(-1, []Ref{earth}); !errors.Is(err, ErrInvalidRing) {
			t.Errorf("negative count: err = %v, want ErrInvalidRing", err)
		}
	})
}

func TestParams_EffectiveInclination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Params
		want   float64
		wantOK bool
	}{
		{name: "absent", params: Orbit(1)},
		{name: "prograde", params: Params{Inclination: Float(10)}, want: 10, wantOK: true},
		{name: "retrograde", params: Params{Inclination: Float(10), Retrograde: true}, want: 190, wantOK: true},
		{name: "retrograde without inclination", params: Params{Retrograde: true}, want: 180, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.params.EffectiveInclination()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("EffectiveInclination() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParams_Set(t *testing.T) {
	t.Parallel()
	var p Params
	for i, field := range ParamFields {
		if err := p.Set(field, float64(i+1)); err != nil {
			t.Fatalf("Set(%q): %v", field, err)
		}
	}
	if p.SemiMajorAxis != 1 || *p.Eccentricity != 2 || *p.Angle != 7 {
		t.Errorf("positional fields not applied: %+v", p)
	}
	if err := p.Set("arg_of_pericenter", 3); err != nil || *p.ArgOfPericenter != 3 {
		t.Errorf("Set(arg_of_pericenter) = %v, value %v", err, *p.ArgOfPericenter)
	}
	if err := p.Set("wobble", 1); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestPool_Add(t *testing.T) {
	t.Parallel()
	pool := NewPool()
	if err := pool.Add("b", Planet{Class: "terra", EarthMass: 1, EarthRadius: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := pool.Add("a", Star{SpectralClass: "G2V", SolarMass: 1, SolarRadius: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := pool.Add("b", Planet{Class: "luna", EarthMass: 0.1, EarthRadius: 0.1}); err != nil {
		t.Errorf("same-kind redeclaration: %v", err)
	}
	if err := pool.Add("a", Planet{Class: "terra", EarthMass: 1, EarthRadius: 1}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("err = %v, want ErrDuplicateIdentity", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, pool.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}
