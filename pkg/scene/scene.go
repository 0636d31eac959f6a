package scene

import (
	uuid "github.com/satori/go.uuid"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/field"
	"github.com/btbonval/raymarch/pkg/marcher"
)

// Scene is one immutable snapshot of obstacle geometry plus the marching
// defaults that suit it. Rebuild a new snapshot when obstacles change; the
// ID is fresh per build so downstream consumers (viz, recorder) can
// correlate frames to a particular snapshot.
type Scene struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Circles     []field.Circle `json:"circles"`
	Bounds      core.Rect      `json:"bounds"`
	MarchConfig marcher.Config `json:"marchConfig"`
	Start       core.Vec2      `json:"start"` // Suggested march origin
}

// NewScene creates a scene snapshot with a fresh id and default march config
func NewScene(name string, circles []field.Circle, bounds core.Rect, start core.Vec2) *Scene {
	return &Scene{
		ID:          uuid.NewV4().String(),
		Name:        name,
		Circles:     circles,
		Bounds:      bounds,
		MarchConfig: marcher.DefaultConfig(),
		Start:       start,
	}
}

// Field builds the distance field for this snapshot
func (s *Scene) Field() (*field.Field, error) {
	return field.New(s.Circles, s.Bounds)
}
