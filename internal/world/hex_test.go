package world

import "testing"

func TestFracAxial_RoundRestoresSum(t *testing.T) {
	cases := []FracAxial{
		{Q: 0.1, R: 0.2, S: -0.3},
		{Q: 2.5, R: -1.5, S: -1.0},
		{Q: -0.49, R: 0.49, S: 0.0},
		{Q: 3.999, R: -2.001, S: -1.998},
		{Q: -5.5, R: 2.5, S: 3.0},
	}
	for _, f := range cases {
		a := f.Round()
		if a.Q+a.R+a.S() != 0 {
			t.Errorf("round(%+v) = %+v violates q+r+s=0", f, a)
		}
	}
}

func TestFracAxial_RoundPicksNearest(t *testing.T) {
	cases := []struct {
		in   FracAxial
		want Axial
	}{
		{FracAxial{Q: 0.0, R: 0.0, S: 0.0}, Axial{0, 0}},
		{FracAxial{Q: 1.1, R: -0.05, S: -1.05}, Axial{1, 0}},
		{FracAxial{Q: 0.4, R: 0.4, S: -0.8}, Axial{0, 1}},
		{FracAxial{Q: 1.9, R: 1.2, S: -3.1}, Axial{2, 1}},
		{FracAxial{Q: -2.6, R: 0.1, S: 2.5}, Axial{-3, 0}},
	}
	for _, tc := range cases {
		if got := tc.in.Round(); got != tc.want {
			t.Errorf("round(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestFracAxial_RoundDeterministicOnTies(t *testing.T) {
	// A point equidistant between cells must resolve the same way twice.
	f := FracAxial{Q: 0.5, R: -0.25, S: -0.25}
	first := f.Round()
	for i := 0; i < 10; i++ {
		if got := f.Round(); got != first {
			t.Fatalf("tie rounding unstable: %+v then %+v", first, got)
		}
	}
}

func TestAxial_KeyRoundTrip(t *testing.T) {
	cases := []Axial{{0, 0}, {3, -2}, {-11, 7}, {120, 45}}
	for _, a := range cases {
		got, err := ParseAxialKey(a.Key())
		if err != nil {
			t.Fatalf("parse %q: %v", a.Key(), err)
		}
		if got != a {
			t.Errorf("key round trip %v -> %q -> %v", a, a.Key(), got)
		}
	}
	if _, err := ParseAxialKey("x,y"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestAxial_Distance(t *testing.T) {
	cases := []struct {
		a, b Axial
		want int
	}{
		{Axial{0, 0}, Axial{0, 0}, 0},
		{Axial{0, 0}, Axial{1, 0}, 1},
		{Axial{0, 0}, Axial{2, -1}, 2},
		{Axial{-2, 1}, Axial{3, -1}, 5},
	}
	for _, tc := range cases {
		if got := tc.a.Distance(tc.b); got != tc.want {
			t.Errorf("distance(%v,%v) = %d, want %d", tc.a, tc.b, got)
		}
	}
}

func TestAxial_NeighborsAreAdjacent(t *testing.T) {
	a := Axial{Q: 4, R: -2}
	seen := map[Axial]bool{}
	for _, n := range a.Neighbors() {
		if a.Distance(n) != 1 {
			t.Errorf("neighbor %v of %v at distance %d", n, a, a.Distance(n))
		}
		if seen[n] {
			t.Errorf("duplicate neighbor %v", n)
		}
		seen[n] = true
	}
}

func TestLineLabels_VerticalRun(t *testing.T) {
	got := LineLabels(Label{2, 2}, Label{2, 4})
	want := []Label{{2, 2}, {2, 3}, {2, 4}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d: got %v, want %v", i, got, want)
		}
	}
}

func TestLineLabels_DiagonalCoversIntermediates(t *testing.T) {
	got := LineLabels(Label{0, 0}, Label{5, 5})
	if len(got) != 6 {
		t.Fatalf("expected 6 cells on the diagonal, got %v", got)
	}
	for i := 0; i <= 5; i++ {
		if got[i] != (Label{X: i, Y: i}) {
			t.Fatalf("cell %d = %v, want (%d,%d)", i, got[i], i, i)
		}
	}
}

func TestLineLabels_AllOctants(t *testing.T) {
	ends := []Label{{5, 2}, {-5, 2}, {5, -2}, {-5, -2}, {2, 5}, {-2, 5}, {2, -5}, {-2, -5}}
	start := Label{0, 0}
	for _, end := range ends {
		got := LineLabels(start, end)
		if got[0] != start || got[len(got)-1] != end {
			t.Fatalf("line %v..%v missing endpoints: %v", start, end, got)
		}
		for i := 1; i < len(got); i++ {
			dx := absInt(got[i].X - got[i-1].X)
			dy := absInt(got[i].Y - got[i-1].Y)
			if dx > 1 || dy > 1 || dx+dy == 0 {
				t.Fatalf("line %v..%v has a non-unit step %v -> %v", start, end, got[i-1], got[i])
			}
		}
	}
}

func TestLineLabels_SingleCell(t *testing.T) {
	got := LineLabels(Label{3, 3}, Label{3, 3})
	if len(got) != 1 || got[0] != (Label{3, 3}) {
		t.Fatalf("got %v, want just (3,3)", got)
	}
}
