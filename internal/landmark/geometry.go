package landmark

import "math"

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ShapeRatio computes the openness proxy of a six-point contour:
//
//	((|p1-p5| + |p2-p4|) / 2) * |p0-p3|
//
// Despite the name this is a product, not a ratio. Any input that is not
// exactly six points yields 0, which callers cannot tell apart from a
// genuinely closed contour.
func ShapeRatio(points []Point) float64 {
	if len(points) != 6 {
		return 0
	}
	vertical := (Distance(points[1], points[5]) + Distance(points[2], points[4])) / 2
	return vertical * Distance(points[0], points[3])
}
