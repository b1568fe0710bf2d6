package main

import (
	"math"
	"testing"
)

func TestSmoothPath(t *testing.T) {
	path := []Point{{0, 0}, {10, 10}, {20, 0}, {30, 10}}

	got := SmoothPath(path, DefaultSmoothTension)
	if want := (len(path)-1)*smoothSubdivisions + 2; len(got) != want {
		t.Fatalf("len = %d, want %d", len(got), want)
	}
	if got[0] != path[0] || got[len(got)-1] != path[len(path)-1] {
		t.Fatalf("endpoints not preserved: %v ... %v", got[0], got[len(got)-1])
	}

	// samples at t=0 land on the input points
	for i, p := range path[:len(path)-1] {
		s := got[1+i*smoothSubdivisions]
		if math.Abs(s.X-p.X) > 1e-9 || math.Abs(s.Y-p.Y) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, s, p)
		}
	}

	for _, short := range [][]Point{nil, {{1, 1}}, {{1, 1}, {2, 2}}} {
		out := SmoothPath(short, DefaultSmoothTension)
		if len(out) != len(short) {
			t.Fatalf("short path %v changed to %v", short, out)
		}
	}
}

func TestSmoothPathStraightLineStaysStraight(t *testing.T) {
	path := []Point{{0, 0}, {10, 0}, {20, 0}, {30, 0}}
	for _, p := range SmoothPath(path, DefaultSmoothTension) {
		if math.Abs(p.Y) > 1e-9 {
			t.Fatalf("point %v left the line", p)
		}
	}
}

func TestEvenlySpacedPoints(t *testing.T) {
	path := []Point{{0, 0}, {20, 0}, {20, 3}}
	got := EvenlySpacedPoints(path, 5)

	if got[0] != path[0] || got[len(got)-1] != path[len(path)-1] {
		t.Fatalf("endpoints changed: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if d := Distance(got[i-1], got[i]); d > 5+1e-9 {
			t.Fatalf("gap %v between %v and %v", d, got[i-1], got[i])
		}
	}
	for _, p := range path {
		found := false
		for _, q := range got {
			if p == q {
				found = true
			}
		}
		if !found {
			t.Fatalf("input point %v dropped", p)
		}
	}

	if out := EvenlySpacedPoints(path, 0); len(out) != len(path) {
		t.Fatalf("zero spacing should copy, got %v", out)
	}
}

func TestQuadCurve(t *testing.T) {
	tests := []struct {
		name    string
		points  []Point
		wantLen int
	}{
		{"empty", nil, 0},
		{"single", []Point{{1, 1}}, 0},
		{"two points", []Point{{0, 0}, {10, 0}}, 1},
		{"four points", []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := QuadCurve(tt.points)
			if len(segs) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(segs), tt.wantLen)
			}
			if len(segs) > 0 && segs[len(segs)-1].End != tt.points[len(tt.points)-1] {
				t.Fatalf("curve ends at %v", segs[len(segs)-1].End)
			}
		})
	}

	segs := QuadCurve([]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	if segs[0].Ctrl != (Point{10, 0}) || segs[0].End != (Point{10, 5}) {
		t.Fatalf("first piece = %+v, want ctrl (10,0) end (10,5)", segs[0])
	}
}

func TestDisplayPath(t *testing.T) {
	line := DrawnLine{Points: []Point{{0, 0}, {5, 0.1}, {10, 0}, {15, 0.1}, {20, 0}}}
	got := DisplayPath(line, DefaultDecimateTolerance, DefaultSmoothTension)
	if len(got) != 2 {
		t.Fatalf("near-straight line should decimate to its endpoints, got %d points", len(got))
	}
	if len(line.Points) != 5 {
		t.Fatal("raw points were modified")
	}
}
