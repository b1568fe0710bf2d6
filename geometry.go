package main

import "math"

const (
	DefaultDotThreshold      = 30.0
	DefaultDecimateTolerance = 2.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type LineSegment struct {
	Start Point
	End   Point
}

// Distance returns the Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// SegmentsIntersect reports whether two segments share at least one point.
// Proper crossings use the orientation test. Collinear and touching cases fall
// back to a bounding box check, so an endpoint resting on the other segment
// (including a shared endpoint) counts as an intersection.
func SegmentsIntersect(seg1, seg2 LineSegment) bool {
	p1, p2 := seg1.Start, seg1.End
	p3, p4 := seg2.Start, seg2.End

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// direction is positive for a counter-clockwise turn p1->p2->p3, negative for
// clockwise and zero when collinear.
func direction(p1, p2, p3 Point) float64 {
	return (p3.Y-p1.Y)*(p2.X-p1.X) - (p2.Y-p1.Y)*(p3.X-p1.X)
}

// onSegment assumes p is collinear with p1-p2.
func onSegment(p1, p2, p Point) bool {
	return p.X <= math.Max(p1.X, p2.X) &&
		p.X >= math.Min(p1.X, p2.X) &&
		p.Y <= math.Max(p1.Y, p2.Y) &&
		p.Y >= math.Min(p1.Y, p2.Y)
}

func IsPointNearDot(point Point, dot Dot, threshold float64) bool {
	return Distance(point, dot.Center()) <= threshold
}

// FindDotAtPoint returns the first dot in list order within threshold of point.
// Overlapping dots resolve by list order, not by proximity.
func FindDotAtPoint(point Point, dots []Dot, threshold float64) (Dot, bool) {
	for _, dot := range dots {
		if IsPointNearDot(point, dot, threshold) {
			return dot, true
		}
	}
	return Dot{}, false
}

// CheckLineOverlap reports whether seg intersects any consecutive pair of
// existingPoints.
func CheckLineOverlap(seg LineSegment, existingPoints []Point) bool {
	for i := 0; i+1 < len(existingPoints); i++ {
		if SegmentsIntersect(seg, LineSegment{Start: existingPoints[i], End: existingPoints[i+1]}) {
			return true
		}
	}
	return false
}

// CheckMultiLineOverlap reports whether any segment of newPoints crosses any
// segment of any existing line. Cost is O(new segments * existing segments).
func CheckMultiLineOverlap(newPoints []Point, existingLines [][]Point) bool {
	for i := 0; i+1 < len(newPoints); i++ {
		seg := LineSegment{Start: newPoints[i], End: newPoints[i+1]}
		for _, line := range existingLines {
			if CheckLineOverlap(seg, line) {
				return true
			}
		}
	}
	return false
}

// DecimatePoints simplifies a polyline with Douglas-Peucker. The input slice
// is never modified.
func DecimatePoints(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		return append([]Point(nil), points...)
	}

	first, last := points[0], points[len(points)-1]
	maxDistance := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], first, last)
		if d > maxDistance {
			maxDistance = d
			index = i
		}
	}

	if maxDistance <= tolerance {
		return []Point{first, last}
	}

	left := DecimatePoints(points[:index+1], tolerance)
	right := DecimatePoints(points[index:], tolerance)
	return append(left[:len(left)-1], right...)
}

func perpendicularDistance(p, lineStart, lineEnd Point) float64 {
	dx := lineEnd.X - lineStart.X
	dy := lineEnd.Y - lineStart.Y
	if dx == 0 && dy == 0 {
		return Distance(p, lineStart)
	}
	numerator := math.Abs(dy*p.X - dx*p.Y + lineEnd.X*lineStart.Y - lineEnd.Y*lineStart.X)
	return numerator / math.Sqrt(dx*dx+dy*dy)
}

// PathBounds returns the min and max corners of points. ok is false for an
// empty path.
func PathBounds(points []Point) (minP, maxP Point, ok bool) {
	if len(points) == 0 {
		return Point{}, Point{}, false
	}
	minP, maxP = points[0], points[0]
	for _, p := range points[1:] {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	return minP, maxP, true
}
