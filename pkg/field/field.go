package field

import (
	"fmt"

	"github.com/btbonval/raymarch/pkg/core"
)

// Circle represents a circular obstacle's bounding geometry
type Circle struct {
	Center core.Vec2
	Radius float64
}

// NewCircle creates a new circle obstacle
func NewCircle(center core.Vec2, radius float64) Circle {
	return Circle{Center: center, Radius: radius}
}

// Distance returns the signed distance from p to the circle's boundary,
// negative when p is inside the circle
func (c Circle) Distance(p core.Vec2) float64 {
	return c.Center.Subtract(p).Length() - c.Radius
}

// Field answers nearest-obstacle-distance queries against a fixed scene of
// circle obstacles bounded by a viewport rectangle. It is read-only after
// construction; rebuild wholesale when obstacles change.
type Field struct {
	circles []Circle
	bounds  core.Rect
}

// New creates a field from a set of circle obstacles and a viewport.
// It rejects negative radii and inverted bounds rather than normalizing,
// so integration bugs surface at construction time.
func New(circles []Circle, bounds core.Rect) (*Field, error) {
	if !bounds.IsValid() {
		return nil, fmt.Errorf("inverted viewport bounds: min %v, max %v", bounds.Min, bounds.Max)
	}
	for i, c := range circles {
		if c.Radius < 0 {
			return nil, fmt.Errorf("circle %d has negative radius %g", i, c.Radius)
		}
	}

	// Copy so later mutation of the caller's slice cannot race a query
	owned := make([]Circle, len(circles))
	copy(owned, circles)

	return &Field{circles: owned, bounds: bounds}, nil
}

// NearestDistance returns the minimum signed distance from p to any circle
// obstacle or to the viewport edge. The result never overestimates the true
// distance to solid geometry, which is what makes it a safe step length for
// sphere tracing.
func (f *Field) NearestDistance(p core.Vec2) float64 {
	nearest := f.bounds.EdgeDistance(p)
	for _, c := range f.circles {
		if d := c.Distance(p); d < nearest {
			nearest = d
		}
	}
	return nearest
}

// Bounds returns the viewport rectangle
func (f *Field) Bounds() core.Rect {
	return f.bounds
}

// Circles returns the circle obstacles in the field
func (f *Field) Circles() []Circle {
	return f.circles
}
