package geom

import (
	"math"
	"testing"
)

func TestBoxAt(t *testing.T) {
	b := BoxAt(Point3{1, 0, 2}, Dims{Length: 3, Width: 4, Height: 5})

	want := Box{Min: Point3{1, 0, 2}, Max: Point3{4, 5, 6}}
	if b != want {
		t.Errorf("BoxAt() = %+v, want %+v", b, want)
	}
	if got := b.Size(); got != (Point3{3, 5, 4}) {
		t.Errorf("Size() = %+v, want {3 5 4}", got)
	}
	if got := b.Center(); got != (Point3{2.5, 2.5, 4}) {
		t.Errorf("Center() = %+v, want {2.5 2.5 4}", got)
	}
}

func TestBoxAround(t *testing.T) {
	b := BoxAround(Point3{0, 1, 0}, Point3{2, 2, 4})
	want := Box{Min: Point3{-1, 0, -2}, Max: Point3{1, 2, 2}}
	if b != want {
		t.Errorf("BoxAround() = %+v, want %+v", b, want)
	}
}

func TestBoxOverlaps(t *testing.T) {
	unit := Box{Max: Point3{1, 1, 1}}

	tests := []struct {
		name   string
		other  Box
		want   bool
		wantXZ bool
	}{
		{"identical", unit, true, true},
		{"partial", Box{Min: Point3{0.5, 0.5, 0.5}, Max: Point3{1.5, 1.5, 1.5}}, true, true},
		{"touching face", Box{Min: Point3{1, 0, 0}, Max: Point3{2, 1, 1}}, false, false},
		{"touching edge", Box{Min: Point3{1, 1, 0}, Max: Point3{2, 2, 1}}, false, false},
		{"disjoint", Box{Min: Point3{3, 3, 3}, Max: Point3{4, 4, 4}}, false, false},
		{"stacked above", Box{Min: Point3{0, 2, 0}, Max: Point3{1, 3, 1}}, false, true},
		{"contained", Box{Min: Point3{0.25, 0.25, 0.25}, Max: Point3{0.75, 0.75, 0.75}}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(unit); got != tt.want {
				t.Errorf("Overlaps() is not symmetric: got %v, want %v", got, tt.want)
			}
			if got := unit.OverlapsXZ(tt.other); got != tt.wantXZ {
				t.Errorf("OverlapsXZ() = %v, want %v", got, tt.wantXZ)
			}
		})
	}
}

func TestBoxIntersection(t *testing.T) {
	a := Box{Max: Point3{2, 2, 2}}
	b := Box{Min: Point3{1, 1.5, -1}, Max: Point3{3, 4, 0.5}}

	got := a.Intersection(b)
	want := Point3{1, 0.5, 0.5}
	if got != want {
		t.Errorf("Intersection() = %+v, want %+v", got, want)
	}
}

func TestBoxContains(t *testing.T) {
	outer := Box{Max: Point3{2, 2, 2}}

	tests := []struct {
		name  string
		inner Box
		want  bool
	}{
		{"strictly inside", Box{Min: Point3{0.5, 0.5, 0.5}, Max: Point3{1, 1, 1}}, true},
		{"same box", outer, true},
		{"sticks out", Box{Min: Point3{1, 1, 1}, Max: Point3{3, 1.5, 1.5}}, false},
		{"below floor", Box{Min: Point3{0, -1, 0}, Max: Point3{1, 1, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDims(t *testing.T) {
	d := Dims{Length: 2, Width: 3, Height: 4}

	if got := d.Extent(); got != (Point3{2, 4, 3}) {
		t.Errorf("Extent() = %+v, want {2 4 3}", got)
	}
	if got := d.Max(); got != 4 {
		t.Errorf("Max() = %v, want 4", got)
	}
	if got := d.Volume(); got != 24 {
		t.Errorf("Volume() = %v, want 24", got)
	}

	small := Dims{Length: 0.001, Width: 1, Height: 0.5}.Shrink(0.002, 0.0001)
	if small.Length != 0.0001 {
		t.Errorf("Shrink() floor: Length = %v, want 0.0001", small.Length)
	}
	if math.Abs(small.Width-0.998) > 1e-12 {
		t.Errorf("Shrink() Width = %v, want 0.998", small.Width)
	}
}
