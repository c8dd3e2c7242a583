package render

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/selang/internal/compile"
	"github.com/papapumpkin/selang/internal/system"
)

func TestRender_SunEarth(t *testing.T) {
	t.Parallel()

	pool := system.NewPool()
	earth, err := system.MakePlanet("terra", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.Add("earth_ref", earth); err != nil {
		t.Fatal(err)
	}
	raw := []system.RawOrbit{{
		Parent: system.Key("sun"),
		Child:  system.Key("earth_ref"),
		Params: system.Orbit(1),
	}}
	m, err := compile.Compile(context.Background(), "Sol", raw, pool)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	star, planet, err := Render(m)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if diff := cmp.Diff([]string{`Remove "Sol"`, `StarBarycenter "Sol"`, "{}"}, star); diff != "" {
		t.Errorf("star catalog mismatch (-want +got):\n%s", diff)
	}

	want := []string{
		`Star "Sol_star_2"`,
		"{",
		`    ParentBody "Sol"`,
		`    Class "G2V"`,
		"    MassSol 1",
		"    RadSol 1",
		"    NoPlanets true",
		"    NoAccretionDisk true",
		"}",
		`Planet "Sol_planet_1"`,
		"{",
		`    ParentBody "Sol_star_2"`,
		`    Class "terra"`,
		"    Mass 1",
		"    Radius 6378",
		"    NoPlanets true",
		"    Orbit",
		"    {",
		`        RefPlane "Equator"`,
		"        SemiMajorAxis 1",
		"    }",
		"}",
	}
	if diff := cmp.Diff(want, planet); diff != "" {
		t.Errorf("planet catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestOrbitBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params system.Params
		want   []string
	}{
		{
			name:   "retrograde flips inclination",
			params: system.Params{SemiMajorAxis: 2, Inclination: system.Float(10), Retrograde: true},
			want: []string{
				"    Orbit",
				"    {",
				`        RefPlane "Equator"`,
				"        SemiMajorAxis 2",
				"        Inclination 190",
				"    }",
			},
		},
		{
			name:   "retrograde without inclination",
			params: system.Params{SemiMajorAxis: 2, Retrograde: true},
			want: []string{
				"    Orbit",
				"    {",
				`        RefPlane "Equator"`,
				"        SemiMajorAxis 2",
				"        Inclination 180",
				"    }",
			},
		},
		{
			name: "all fields",
			params: system.Params{
				SemiMajorAxis:   0.5,
				Eccentricity:    system.Float(0.1),
				Obliquity:       system.Float(23.4),
				Inclination:     system.Float(0),
				AscendingNode:   system.Float(48),
				ArgOfPericenter: system.Float(29),
				Angle:           system.Float(90),
				RefPlane:        "Ecliptic",
			},
			want: []string{
				"    Obliquity 23.4",
				"    Orbit",
				"    {",
				`        RefPlane "Ecliptic"`,
				"        SemiMajorAxis 0.5",
				"        Eccentricity 0.1",
				"        Inclination 0",
				"        MeanAnomaly 90",
				"        AscendingNode 48",
				"        ArgOfPericenter 29",
				"    }",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, OrbitBlock(tt.params)); diff != "" {
				t.Errorf("OrbitBlock mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecord_Barycenter(t *testing.T) {
	t.Parallel()
	p := system.Orbit(3)
	lines, err := Record(system.Barycenter{}, "Bin_barycenter_4", "Bin_star_1", &p)
	if err != nil {
		t.Fatal(err)
	}
	if lines[0] != `Barycenter "Bin_barycenter_4"` {
		t.Errorf("first line = %q", lines[0])
	}
	if !slices.Contains(lines, "        SemiMajorAxis 3") {
		t.Errorf("missing orbit in %q", lines)
	}
	if slices.Contains(lines, "    NoPlanets true") {
		t.Errorf("barycenter should carry no body fields: %q", lines)
	}
}

func TestRecord_Unrenderable(t *testing.T) {
	t.Parallel()
	ring, err := system.MakeRing(2, []system.Ref{system.Key("moon")})
	if err != nil {
		t.Fatal(err)
	}
	for _, body := range []system.Body{ring, nil} {
		if _, err := Record(body, "x", "y", nil); !errors.Is(err, ErrUnrenderableBody) {
			t.Errorf("Record(%v) error = %v, want ErrUnrenderableBody", body, err)
		}
	}
}

func TestRender_MissingObject(t *testing.T) {
	t.Parallel()
	m := &system.Model{
		Name:    "S",
		Root:    1,
		Orbits:  []system.Triple{{Parent: 1, Child: 2, Params: system.Orbit(1)}},
		Objects: map[system.ID]system.Body{1: system.Barycenter{}},
	}
	if _, _, err := Render(m); !errors.Is(err, ErrUnrenderableBody) {
		t.Errorf("Render error = %v, want ErrUnrenderableBody", err)
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()
	for in, want := range map[float64]string{1: "1", 0.1: "0.1", 190: "190", 1e-5: "1e-05", 6378.12: "6378.12"} {
		if got := Number(in); got != want {
			t.Errorf("Number(%v) = %q, want %q", in, got, want)
		}
	}
	if got := RadiusKm(0.2724); got != 1737.37 {
		t.Errorf("RadiusKm(0.2724) = %v, want 1737.37", got)
	}
}
