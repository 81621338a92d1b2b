package page

import "testing"

func TestRectangle_Edges(t *testing.T) {
	r := NewRectangle(10, 20, 30, 40)
	if r.Right() != 40 {
		t.Errorf("expected Right = 40, got %d", r.Right())
	}
	if r.Bottom() != 60 {
		t.Errorf("expected Bottom = 60, got %d", r.Bottom())
	}
	if r.CenterX() != 25 {
		t.Errorf("expected CenterX = 25, got %f", r.CenterX())
	}
}

func TestRectangle_Intersects(t *testing.T) {
	base := NewRectangle(0, 0, 10, 10)

	tests := []struct {
		name  string
		other Rectangle
		want  bool
	}{
		{"overlapping", NewRectangle(5, 5, 10, 10), true},
		{"contained", NewRectangle(2, 2, 4, 4), true},
		{"touching edge", NewRectangle(10, 0, 5, 5), false},
		{"disjoint", NewRectangle(20, 20, 5, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestRectangle_Union(t *testing.T) {
	a := NewRectangle(0, 0, 10, 10)
	b := NewRectangle(20, 5, 10, 10)

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Right() != 30 || u.Bottom() != 15 {
		t.Errorf("unexpected union %+v", u)
	}
}

func TestBaseline_YAt(t *testing.T) {
	b := Baseline{Slope: 0.5, Intercept: 100}
	if got := b.YAt(10); got != 105 {
		t.Errorf("expected YAt(10) = 105, got %f", got)
	}
}

func TestProjection_At(t *testing.T) {
	p := NewProjection(5, []int{1, 2, 3})

	if p.Left() != 5 || p.Right() != 8 {
		t.Errorf("expected extent [5, 8), got [%d, %d)", p.Left(), p.Right())
	}
	if p.At(6) != 2 {
		t.Errorf("expected At(6) = 2, got %d", p.At(6))
	}
	if p.At(4) != 0 || p.At(8) != 0 {
		t.Errorf("expected zero outside the extent")
	}
}

func TestProjection_Add(t *testing.T) {
	p := NewProjection(10, []int{1, 1})
	other := NewProjection(8, []int{2, 2})

	// Shift right by 1: other covers [9, 11).
	p.Add(other, 1)

	if p.Left() != 9 {
		t.Errorf("expected grown left = 9, got %d", p.Left())
	}
	if p.At(9) != 2 || p.At(10) != 3 || p.At(11) != 1 {
		t.Errorf("unexpected merged counts: %d %d %d", p.At(9), p.At(10), p.At(11))
	}
}

func TestProjection_AddIntoEmpty(t *testing.T) {
	p := NewProjection(0, nil)
	p.Add(NewProjection(3, []int{5}), 0)
	if p.At(3) != 5 {
		t.Errorf("expected At(3) = 5, got %d", p.At(3))
	}
	p.Add(nil, 0) // no-op
}

func TestRow_Box(t *testing.T) {
	row := NewRow([]Blob{
		{Box: NewRectangle(10, 5, 10, 14)},
		{Box: NewRectangle(25, 4, 12, 15)},
	}, Baseline{}, 14, 4)

	box := row.Box()
	if box.X != 10 || box.Y != 4 || box.Right() != 37 || box.Bottom() != 19 {
		t.Errorf("unexpected row box %+v", box)
	}

	empty := NewRow(nil, Baseline{}, 14, 4)
	if empty.Box() != (Rectangle{}) {
		t.Errorf("expected empty row box to be zero")
	}
}

func TestNewRow_StartsUndecided(t *testing.T) {
	row := NewRow(nil, Baseline{}, 14, 4)
	if row.Decision != Dunno {
		t.Errorf("expected new row to start at Dunno, got %s", row.Decision)
	}
}

func TestNewBlock_Geometry(t *testing.T) {
	r1 := NewRow([]Blob{{Box: NewRectangle(0, 0, 10, 12)}}, Baseline{}, 12, 3)
	r2 := NewRow([]Blob{{Box: NewRectangle(0, 20, 10, 16)}}, Baseline{}, 16, 4)

	block := NewBlock([]*Row{r1, r2})
	if block.XHeight != 16 {
		t.Errorf("expected block x-height 16, got %f", block.XHeight)
	}
	if block.Box.Bottom() != 36 {
		t.Errorf("expected block box bottom 36, got %d", block.Box.Bottom())
	}
	if block.Decision != Dunno {
		t.Errorf("expected new block to start at Dunno, got %s", block.Decision)
	}
}
