package main

import "math"

const (
	DefaultSmoothTension = 0.5
	DefaultSampleSpacing = 5.0
	smoothSubdivisions   = 10
)

// SmoothPath interpolates a Catmull-Rom curve through points, emitting
// smoothSubdivisions samples per input segment. The first and last input
// points are kept exactly. Paths shorter than three points are returned as-is.
func SmoothPath(points []Point, tension float64) []Point {
	if len(points) < 3 {
		return append([]Point(nil), points...)
	}

	smoothed := make([]Point, 0, (len(points)-1)*smoothSubdivisions+2)
	smoothed = append(smoothed, points[0])

	last := len(points) - 1
	for i := 0; i < last; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, last)]

		for s := 0; s < smoothSubdivisions; s++ {
			t := float64(s) / smoothSubdivisions
			smoothed = append(smoothed, catmullRomPoint(p0, p1, p2, p3, t, tension))
		}
	}

	smoothed = append(smoothed, points[last])
	return smoothed
}

func catmullRomPoint(p0, p1, p2, p3 Point, t, tension float64) Point {
	t2 := t * t
	t3 := t2 * t

	v0x := (p2.X - p0.X) * tension
	v0y := (p2.Y - p0.Y) * tension
	v1x := (p3.X - p1.X) * tension
	v1y := (p3.Y - p1.Y) * tension

	return Point{
		X: (2*p1.X-2*p2.X+v0x+v1x)*t3 + (-3*p1.X+3*p2.X-2*v0x-v1x)*t2 + v0x*t + p1.X,
		Y: (2*p1.Y-2*p2.Y+v0y+v1y)*t3 + (-3*p1.Y+3*p2.Y-2*v0y-v1y)*t2 + v0y*t + p1.Y,
	}
}

// EvenlySpacedPoints inserts interpolated points so that consecutive samples
// are at most about spacing apart. Every input point is kept.
func EvenlySpacedPoints(points []Point, spacing float64) []Point {
	if len(points) < 2 || spacing <= 0 {
		return append([]Point(nil), points...)
	}

	result := []Point{points[0]}
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		dx := b.X - a.X
		dy := b.Y - a.Y
		n := int(math.Floor(math.Hypot(dx, dy) / spacing))
		for j := 1; j <= n; j++ {
			t := float64(j) / float64(n+1)
			result = append(result, Point{X: a.X + dx*t, Y: a.Y + dy*t})
		}
		result = append(result, b)
	}
	return result
}

// QuadSegment is one quadratic Bézier piece: from the previous segment's end
// through Ctrl to End.
type QuadSegment struct {
	Ctrl Point
	End  Point
}

// QuadCurve splits a polyline into quadratic pieces that pass through the
// midpoints between consecutive points, using each interior point as the
// control point. The curve starts at points[0] and ends at the last point.
func QuadCurve(points []Point) []QuadSegment {
	switch len(points) {
	case 0, 1:
		return nil
	case 2:
		return []QuadSegment{{Ctrl: points[0], End: points[1]}}
	}

	segs := make([]QuadSegment, 0, len(points)-1)
	for i := 1; i < len(points)-1; i++ {
		mid := Point{
			X: (points[i].X + points[i+1].X) / 2,
			Y: (points[i].Y + points[i+1].Y) / 2,
		}
		segs = append(segs, QuadSegment{Ctrl: points[i], End: mid})
	}
	secondLast := points[len(points)-2]
	segs = append(segs, QuadSegment{Ctrl: secondLast, End: points[len(points)-1]})
	return segs
}

// DisplayPath is the cosmetic curve drawn for a committed line.
func DisplayPath(line DrawnLine, tolerance, tension float64) []Point {
	return SmoothPath(DecimatePoints(line.Points, tolerance), tension)
}
