package scene

import (
	"fmt"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/field"
)

// BoundingCircle derives the obstacle circle for an arbitrary polygon:
// centered at the vertex centroid with a radius reaching the farthest
// vertex. Not the minimal enclosing circle, but always encloses the
// polygon, which is all the distance field needs.
func BoundingCircle(points []core.Vec2) (field.Circle, error) {
	if len(points) == 0 {
		return field.Circle{}, fmt.Errorf("cannot bound an empty point set")
	}

	centroid := core.Vec2{}
	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Multiply(1.0 / float64(len(points)))

	radius := 0.0
	for _, p := range points {
		if d := centroid.Distance(p); d > radius {
			radius = d
		}
	}

	return field.NewCircle(centroid, radius), nil
}
