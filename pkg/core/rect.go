package core

// Rect represents an axis-aligned rectangle
type Rect struct {
	Min Vec2 // Minimum corner
	Max Vec2 // Maximum corner
}

// NewRect creates a new Rect from min and max points
func NewRect(min, max Vec2) Rect {
	return Rect{Min: min, Max: max}
}

// NewRectFromPoints creates a Rect that bounds all given points
func NewRectFromPoints(points ...Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min = min.Min(point)
		max = max.Max(point)
	}

	return Rect{Min: min, Max: max}
}

// IsValid reports whether min is component-wise less than or equal to max
func (r Rect) IsValid() bool {
	return r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

// Center returns the center point of the rectangle
func (r Rect) Center() Vec2 {
	return r.Min.Add(r.Max).Multiply(0.5)
}

// Size returns the extent of the rectangle along each axis
func (r Rect) Size() Vec2 {
	return r.Max.Subtract(r.Min)
}

// Contains reports whether the point lies inside or on the boundary
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// EdgeDistance returns the distance from p to the nearest of the four edges:
// positive strictly inside, zero on an edge, negative outside. The value is
// the component-wise minimum of the distances to each pair of edges, which is
// exact on the open half-planes but under-estimates outside near corners.
// Marching correctness only needs a non-overestimating bound, so the
// approximation is kept rather than a Euclidean rectangle distance.
func (r Rect) EdgeDistance(p Vec2) float64 {
	d := p.Subtract(r.Min).Min(r.Max.Subtract(p))
	return d.MinComponent()
}
