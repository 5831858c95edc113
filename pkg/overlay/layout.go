package overlay

import "math"

// Point is a data-coordinate position.
type Point struct {
	X, Y float64
}

// CirclePositions returns n points evenly spaced around (cx, cy). The radius
// grows with the count: dist + scale*n. The first point sits at angle zero.
func CirclePositions(cx, cy float64, n int, dist, scale float64) []Point {
	if n <= 0 {
		return nil
	}
	r := dist + scale*float64(n)
	pts := make([]Point, n)
	for i := range pts {
		theta := math.Pi * float64(i) / (float64(n) / 2)
		pts[i] = Point{
			X: cx + r*math.Cos(theta),
			Y: cy + r*math.Sin(theta),
		}
	}
	return pts
}
