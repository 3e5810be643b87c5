package grid

import "testing"

func fromRows(rows ...string) *Grid[int] {
	h := len(rows)
	w := len(rows[0])
	return Generate(w, h, func(x, y int) (int, bool) {
		if rows[y][x] == '.' {
			return 0, false
		}
		return int(rows[y][x] - '0'), true
	})
}

func TestGridRowMajorEntries(t *testing.T) {
	g := New[int](2, 2)
	g.Set(1, 0, 10)
	g.Set(0, 1, 20)
	g.Set(1, 1, 30)

	entries := g.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got=%d", len(entries))
	}
	want := []Entry[int]{{X: 1, Y: 0, Value: 10}, {X: 0, Y: 1, Value: 20}, {X: 1, Y: 1, Value: 30}}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("unexpected entry %d: got=%+v want=%+v", i, entries[i], want[i])
		}
	}
	if g.Present(0, 0) {
		t.Fatal("expected origin absent")
	}
	if v, ok := g.Get(1, 1); !ok || v != 30 {
		t.Fatalf("unexpected get: %d %t", v, ok)
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := Filled(2, 1, []float64{1})
	clone := g.Clone(func(v []float64) []float64 { return append([]float64(nil), v...) })
	clone.Value(0, 0)[0] = 5
	clone.Clear(1, 0)
	if g.Value(0, 0)[0] != 1 {
		t.Fatal("expected deep clone of values")
	}
	if !g.Present(1, 0) {
		t.Fatal("expected original presence untouched")
	}
}

func TestLargestConnectedKeepsBiggestRegion(t *testing.T) {
	g := fromRows(
		"11.1",
		"1..1",
		"...1",
	)
	out := LargestConnected(g, nil)
	want := fromRows(
		"...1",
		"...1",
		"...1",
	)
	if !SameShape(out, want) {
		t.Fatalf("unexpected largest component: got=%v", out.Entries())
	}
}

func TestLargestConnectedTieGoesToFirstFound(t *testing.T) {
	g := fromRows(
		"1.1",
		"1.1",
	)
	out := LargestConnected(g, nil)
	if !out.Present(0, 0) || out.Present(2, 0) {
		t.Fatalf("expected left component kept, got=%v", out.Entries())
	}
}

func TestLargestConnectedIgnoresDiagonals(t *testing.T) {
	g := fromRows(
		"1.",
		".1",
	)
	if n := len(Components(g, nil)); n != 2 {
		t.Fatalf("expected 2 components under 4-connectivity, got=%d", n)
	}
}

func TestLargestConnectedRespectsPredicate(t *testing.T) {
	g := fromRows(
		"191",
		"1.1",
	)
	out := LargestConnected(g, func(v int) bool { return v < 5 })
	if out.Count() != 2 {
		t.Fatalf("expected 2 cells kept, got=%d", out.Count())
	}
	if out.Present(1, 0) {
		t.Fatal("expected filtered cell dropped")
	}
}

func TestCropRemovesEmptyBorders(t *testing.T) {
	g := fromRows(
		"....",
		".12.",
		"..3.",
		"....",
	)
	out := Crop(g)
	if out.W() != 2 || out.H() != 2 {
		t.Fatalf("unexpected crop size %dx%d", out.W(), out.H())
	}
	if out.Value(0, 0) != 1 || out.Value(1, 1) != 3 || out.Present(0, 1) {
		t.Fatalf("unexpected crop content: %v", out.Entries())
	}
}

func TestCropEmptyGrid(t *testing.T) {
	out := Crop(New[int](3, 3))
	if out.W() != 0 || out.H() != 0 {
		t.Fatalf("expected 0x0, got %dx%d", out.W(), out.H())
	}
}

func TestConnected(t *testing.T) {
	if !Connected(fromRows("11", ".1")) {
		t.Fatal("expected connected")
	}
	if Connected(fromRows("1.", ".1")) {
		t.Fatal("expected disconnected")
	}
}

func TestDirections(t *testing.T) {
	for _, d := range Directions {
		x, y := d.Step(3, 3)
		bx, by := d.Opposite().Step(x, y)
		if bx != 3 || by != 3 {
			t.Fatalf("direction %d: opposite step did not return, got (%d,%d)", d, bx, by)
		}
	}
	if x, y := North.Step(0, 1); x != 0 || y != 0 {
		t.Fatalf("expected north to decrease y, got (%d,%d)", x, y)
	}
	if Normalize(1, 3) != 0.5 || Normalize(0, 1) != 0 {
		t.Fatal("unexpected normalisation")
	}
}
