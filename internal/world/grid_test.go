package world

import "testing"

func TestNewHexGrid_UniqueIdentities(t *testing.T) {
	for _, o := range []Orientation{FlatTop, PointyTop} {
		g := NewHexGrid(20, 14, o)
		if g.Len() != 20*14 {
			t.Fatalf("%v: generated %d cells, want %d", o, g.Len(), 20*14)
		}
		seen := make(map[string]Label, g.Len())
		g.ForEach(func(c *Cell) {
			if prev, dup := seen[c.Key]; dup {
				t.Fatalf("%v: identity %q shared by %v and %v", o, c.Key, prev, c.Label)
			}
			seen[c.Key] = c.Label
			if c.Axial.Q+c.Axial.R+c.Axial.S() != 0 {
				t.Fatalf("%v: cell %v violates q+r+s=0", o, c.Axial)
			}
		})
	}
}

func TestGrid_CellByLabelBounds(t *testing.T) {
	g := NewHexGrid(6, 4, FlatTop)
	if _, ok := g.CellByLabel(Label{X: 5, Y: 3}); !ok {
		t.Error("expected corner cell (5,3) to exist")
	}
	for _, l := range []Label{{-1, 0}, {6, 0}, {0, -1}, {0, 4}} {
		if _, ok := g.CellByLabel(l); ok {
			t.Errorf("expected label %v to be out of bounds", l)
		}
	}
}

func TestGrid_KeyLookupMatchesLabelLookup(t *testing.T) {
	g := NewHexGrid(7, 7, PointyTop)
	g.ForEach(func(c *Cell) {
		byKey, ok := g.CellByKey(c.Key)
		if !ok || byKey != c {
			t.Fatalf("key %q does not resolve to its own cell", c.Key)
		}
		key, ok := g.KeyAt(c.Label)
		if !ok || key != c.Key {
			t.Fatalf("label %v resolves key %q, want %q", c.Label, key, c.Key)
		}
	})
}

func TestGrid_RegeneratePreservesContentByLabel(t *testing.T) {
	g := NewHexGrid(10, 10, FlatTop)
	c, ok := g.CellByLabel(Label{X: 3, Y: 3})
	if !ok {
		t.Fatal("missing cell (3,3)")
	}
	c.Fill = "Forest"
	c.Notes = "old oak"
	c.Town = true
	oldKey := c.Key

	ng, err := g.Regenerate(PointyTop)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	nc, ok := ng.CellByLabel(Label{X: 3, Y: 3})
	if !ok {
		t.Fatal("missing cell (3,3) after regeneration")
	}
	if nc.Fill != "Forest" || nc.Notes != "old oak" || !nc.Town {
		t.Fatalf("attributes lost across orientation switch: %+v", nc)
	}
	if nc.Key == oldKey {
		t.Fatalf("expected axial identity to change across orientations, both %q", oldKey)
	}
}

func TestGrid_RegenerateSquareFails(t *testing.T) {
	g := NewTownGrid(4, 4)
	if _, err := g.Regenerate(PointyTop); err == nil {
		t.Fatal("expected error regenerating a square grid")
	}
}

func TestNewTownGrid_LabelIdentity(t *testing.T) {
	g := NewTownGrid(5, 3)
	g.ForEach(func(c *Cell) {
		if c.Key != c.Label.Key() {
			t.Fatalf("town cell %v keyed %q, want %q", c.Label, c.Key, c.Label.Key())
		}
	})
	if g.Len() != 15 {
		t.Fatalf("town grid has %d cells, want 15", g.Len())
	}
}
