package compile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/selang/internal/system"
)

var (
	terra = system.Planet{Class: "terra", EarthMass: 1, EarthRadius: 1}
	luna  = system.Planet{Class: "luna", EarthMass: 0.1, EarthRadius: 0.1}
	sol   = system.Star{SpectralClass: "G2V", SolarMass: 1, SolarRadius: 1}
)

func mustRing(t *testing.T, count int, members []system.Ref, steps ...float64) system.Ring {
	t.Helper()
	r, err := system.MakeRing(count, members, steps...)
	if err != nil {
		t.Fatalf("MakeRing: %v", err)
	}
	return r
}

func angles(triples []system.Triple) []float64 {
	out := make([]float64, len(triples))
	for i, tr := range triples {
		if tr.Params.Angle != nil {
			out[i] = *tr.Params.Angle
		}
	}
	return out
}

func TestAllocator(t *testing.T) {
	t.Parallel()
	a, b := NewAllocator(), NewAllocator()
	if a.Next() != 1 || a.Next() != 2 {
		t.Fatal("allocator does not count from 1")
	}
	if b.Next() != 1 {
		t.Error("allocators share state")
	}
}

func TestUnify_PoolIdentity(t *testing.T) {
	t.Parallel()

	pool := system.NewPool()
	if err := pool.Add("earth_ref", terra); err != nil {
		t.Fatal(err)
	}
	raws := []system.RawOrbit{
		{Parent: system.Key("sun"), Child: system.Key("earth_ref"), Params: system.Orbit(1)},
		{Parent: system.Key("earth_ref"), Child: system.Inline(luna), Params: system.Orbit(0.01)},
	}

	triples, objects, err := Unify(NewAllocator(), raws, pool)
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	// earth_ref is pre-minted as 1, sun resolves to 2, the inline moon to 3.
	want := []system.Triple{
		{Parent: 2, Child: 1, Params: system.Orbit(1)},
		{Parent: 1, Child: 3, Params: system.Orbit(0.01)},
	}
	if diff := cmp.Diff(want, triples); diff != "" {
		t.Errorf("triples mismatch (-want +got):\n%s", diff)
	}
	wantObjects := map[system.ID]system.Body{1: terra, 2: sol, 3: luna}
	if diff := cmp.Diff(wantObjects, objects); diff != "" {
		t.Errorf("objects mismatch (-want +got):\n%s", diff)
	}
}

func TestUnify_ReferenceNameIsStable(t *testing.T) {
	t.Parallel()
	raws := []system.RawOrbit{
		{Parent: system.Key("sun"), Child: system.Inline(terra), Params: system.Orbit(1)},
		{Parent: system.Key("Sun"), Child: system.Inline(terra), Params: system.Orbit(2)},
	}
	triples, _, err := Unify(NewAllocator(), raws, nil)
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	if triples[0].Parent != triples[1].Parent {
		t.Errorf("parents = %s, %s; want the same object", triples[0].Parent, triples[1].Parent)
	}
	if triples[0].Child == triples[1].Child {
		t.Error("inline bodies share an identifier")
	}
}

func TestUnify_RingAngles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int
		steps []float64
		base  *float64
		want  []float64
	}{
		{name: "even split", count: 4, want: []float64{0, 90, 180, 270}},
		{name: "scalar step from base", count: 5, steps: []float64{72}, base: system.Float(10), want: []float64{10, 82, 154, 226, 298}},
		{name: "wraps past 360", count: 3, steps: []float64{50}, base: system.Float(300), want: []float64{300, 350, 40}},
		{name: "uneven steps drift", count: 4, steps: []float64{100}, want: []float64{0, 100, 200, 300}},
		{name: "cycled steps", count: 4, steps: []float64{10, 20}, want: []float64{0, 10, 30, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ring := mustRing(t, tt.count, []system.Ref{system.Key("moon")}, tt.steps...)
			p := system.Orbit(1)
			p.Angle = tt.base
			raws := []system.RawOrbit{{Parent: system.Key("earth"), Child: system.Inline(ring), Params: p}}

			triples, objects, err := Unify(NewAllocator(), raws, nil)
			if err != nil {
				t.Fatalf("Unify: %v", err)
			}
			if len(triples) != tt.count {
				t.Fatalf("got %d triples, want %d", len(triples), tt.count)
			}
			if diff := cmp.Diff(tt.want, angles(triples)); diff != "" {
				t.Errorf("angles mismatch (-want +got):\n%s", diff)
			}
			// Every member is its own body; the parent is the only other one.
			if len(objects) != tt.count+1 {
				t.Errorf("got %d objects, want %d", len(objects), tt.count+1)
			}
			for _, tr := range triples {
				if tr.Params.SemiMajorAxis != 1 {
					t.Errorf("member lost base orbit: %+v", tr.Params)
				}
			}
		})
	}
}

func TestUnify_RingMemberSatellites(t *testing.T) {
	t.Parallel()

	ring := mustRing(t, 3, []system.Ref{system.Key("earth")})
	ring.Members[1] = ring.Members[1].With(system.Inline(luna), system.Orbit(0.01))

	raws := []system.RawOrbit{{Parent: system.Key("sun"), Child: system.Inline(ring), Params: system.Orbit(1)}}
	triples, _, err := Unify(NewAllocator(), raws, nil)
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	if len(triples) != 4 {
		t.Fatalf("got %d triples, want 4", len(triples))
	}
	// The satellite follows its host, before the third member.
	if triples[2].Parent != triples[1].Child {
		t.Errorf("satellite parent = %s, want member %s", triples[2].Parent, triples[1].Child)
	}
	if triples[3].Parent != triples[0].Parent {
		t.Errorf("third member parent = %s, want %s", triples[3].Parent, triples[0].Parent)
	}
	if triples[0].Child == triples[1].Child || triples[1].Child == triples[3].Child {
		t.Errorf("members share identifiers: %s, %s, %s", triples[0].Child, triples[1].Child, triples[3].Child)
	}
}

func TestUnify_PoolKeyRingMember(t *testing.T) {
	t.Parallel()

	pool := system.NewPool()
	heavy := system.Planet{Class: "terra", EarthMass: 1.4, EarthRadius: 1.4}
	if err := pool.Add("p", heavy); err != nil {
		t.Fatal(err)
	}
	ring := mustRing(t, 3, []system.Ref{system.Inline(terra), system.Inline(terra), system.Key("p")})
	raws := []system.RawOrbit{
		{Parent: system.Key("sun"), Child: system.Inline(ring), Params: system.Orbit(0.5)},
		{Parent: system.Key("p"), Child: system.Inline(luna), Params: system.Orbit(0.005)},
	}

	triples, objects, err := Unify(NewAllocator(), raws, pool)
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	if len(triples) != 4 {
		t.Fatalf("got %d triples, want 4", len(triples))
	}
	// p is pre-minted as 1 and keeps that identifier inside the ring.
	if triples[2].Child != 1 {
		t.Errorf("pooled member = %s, want 1", triples[2].Child)
	}
	if triples[3].Parent != 1 {
		t.Errorf("satellite host = %s, want 1", triples[3].Parent)
	}
	if objects[1] != system.Body(heavy) {
		t.Errorf("object 1 = %+v, want %+v", objects[1], heavy)
	}
}

func TestUnify_RepeatedCatalogChild(t *testing.T) {
	t.Parallel()
	raws := []system.RawOrbit{
		{Parent: system.Key("sun"), Child: system.Key("earth"), Params: system.Orbit(1)},
		{Parent: system.Key("sun"), Child: system.Key("earth"), Params: system.Orbit(2)},
		{Parent: system.Key("earth"), Child: system.Key("moon"), Params: system.Orbit(0.01)},
	}
	triples, objects, err := Unify(NewAllocator(), raws, nil)
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	want := []system.Triple{
		{Parent: 1, Child: 2, Params: system.Orbit(1)},
		{Parent: 1, Child: 3, Params: system.Orbit(2)},
		{Parent: 2, Child: 4, Params: system.Orbit(0.01)},
	}
	if diff := cmp.Diff(want, triples); diff != "" {
		t.Errorf("triples mismatch (-want +got):\n%s", diff)
	}
	if len(objects) != 4 {
		t.Errorf("got %d objects, want 4", len(objects))
	}
}

func TestUnify_NestedRing(t *testing.T) {
	t.Parallel()
	inner := mustRing(t, 2, []system.Ref{system.Key("moon")}, 10)
	outer := mustRing(t, 2, []system.Ref{system.Inline(inner)}, 90)

	raws := []system.RawOrbit{{Parent: system.Key("earth"), Child: system.Inline(outer), Params: system.Orbit(1)}}
	triples, _, err := Unify(NewAllocator(), raws, nil)
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 10, 90, 100}, angles(triples)); diff != "" {
		t.Errorf("angles mismatch (-want +got):\n%s", diff)
	}
}

func TestUnify_Errors(t *testing.T) {
	t.Parallel()

	ring := mustRing(t, 2, []system.Ref{system.Key("moon")})
	homeRing := mustRing(t, 2, []system.Ref{system.Key("home")})
	pool := system.NewPool()
	if err := pool.Add("home", terra); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		raws    []system.RawOrbit
		pool    *system.Pool
		wantErr error
	}{
		{
			name:    "unknown name",
			raws:    []system.RawOrbit{{Parent: system.Key("sun"), Child: system.Key("dyson sphere"), Params: system.Orbit(1)}},
			wantErr: ErrUnresolvedBody,
		},
		{
			name:    "ring parent",
			raws:    []system.RawOrbit{{Parent: system.Inline(ring), Child: system.Key("moon"), Params: system.Orbit(1)}},
			wantErr: ErrInvalidOrbitShape,
		},
		{
			name: "ring with satellites",
			raws: []system.RawOrbit{{
				Parent: system.Key("earth"),
				Child:  system.Inline(ring).With(system.Key("moon"), system.Orbit(0.1)),
				Params: system.Orbit(1),
			}},
			wantErr: ErrInvalidOrbitShape,
		},
		{
			name: "pool key twice",
			raws: []system.RawOrbit{
				{Parent: system.Key("sun"), Child: system.Key("home"), Params: system.Orbit(1)},
				{Parent: system.Key("sun"), Child: system.Key("home"), Params: system.Orbit(2)},
			},
			pool:    pool,
			wantErr: ErrDuplicateOrbit,
		},
		{
			name:    "pool key repeated in a ring",
			raws:    []system.RawOrbit{{Parent: system.Key("sun"), Child: system.Inline(homeRing), Params: system.Orbit(1)}},
			pool:    pool,
			wantErr: ErrDuplicateOrbit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Unify(NewAllocator(), tt.raws, tt.pool)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnify_UnknownNameWrapsCatalogError(t *testing.T) {
	t.Parallel()
	raws := []system.RawOrbit{{Parent: system.Key("nowhere"), Child: system.Key("earth"), Params: system.Orbit(1)}}
	_, _, err := Unify(NewAllocator(), raws, nil)
	if !errors.Is(err, system.ErrUnknownReference) {
		t.Fatalf("err = %v, want ErrUnknownReference", err)
	}
}
