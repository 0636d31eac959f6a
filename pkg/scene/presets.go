package scene

import (
	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/field"
)

// NewOpenScene creates a scene with no obstacles, so only the viewport edge
// stops a march
func NewOpenScene() *Scene {
	bounds := core.NewRect(core.NewVec2(0, 0), core.NewVec2(100, 100))
	return NewScene("open", nil, bounds, bounds.Center())
}

// NewSingleObstacleScene creates a scene with one circle in the path of a
// ray marched from the left edge
func NewSingleObstacleScene() *Scene {
	circles := []field.Circle{
		field.NewCircle(core.NewVec2(60, 50), 10),
	}
	bounds := core.NewRect(core.NewVec2(0, 0), core.NewVec2(100, 100))
	return NewScene("single", circles, bounds, core.NewVec2(10, 50))
}

// NewCorridorScene creates a scene with two staggered rows of circles
// forming a winding corridor
func NewCorridorScene() *Scene {
	var circles []field.Circle
	for i := 0; i < 5; i++ {
		x := 80.0 + float64(i)*70.0
		circles = append(circles,
			field.NewCircle(core.NewVec2(x, 40), 22),
			field.NewCircle(core.NewVec2(x+35, 160), 22),
		)
	}
	bounds := core.NewRect(core.NewVec2(0, 0), core.NewVec2(480, 200))
	return NewScene("corridor", circles, bounds, core.NewVec2(30, 100))
}

// NewClusterScene creates a scene mixing plain circles with obstacles
// derived from polygon outlines via BoundingCircle
func NewClusterScene() *Scene {
	circles := []field.Circle{
		field.NewCircle(core.NewVec2(200, 150), 45),
		field.NewCircle(core.NewVec2(560, 420), 60),
		field.NewCircle(core.NewVec2(640, 120), 35),
	}

	// A triangle and a quad, bounded the way a host would bound its shapes
	triangle := []core.Vec2{
		core.NewVec2(320, 380), core.NewVec2(410, 340), core.NewVec2(360, 470),
	}
	quad := []core.Vec2{
		core.NewVec2(120, 420), core.NewVec2(190, 400),
		core.NewVec2(200, 480), core.NewVec2(110, 490),
	}
	for _, polygon := range [][]core.Vec2{triangle, quad} {
		if c, err := BoundingCircle(polygon); err == nil {
			circles = append(circles, c)
		}
	}

	bounds := core.NewRect(core.NewVec2(0, 0), core.NewVec2(800, 600))
	return NewScene("cluster", circles, bounds, core.NewVec2(420, 250))
}
