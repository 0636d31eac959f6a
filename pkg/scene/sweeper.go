package scene

import (
	"math"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/field"
	"github.com/btbonval/raymarch/pkg/marcher"
)

// SweeperConfig controls the animated origin orbit and sweep rotation
type SweeperConfig struct {
	SweepVelocity float64 // Sweep angle change in radians per second
	OrbitRadius   float64 // Radius of the origin's orbit around the scene start
	OrbitVelocity float64 // Orbit phase change in radians per second
}

// DefaultSweeperConfig returns the default sweep animation parameters
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		SweepVelocity: math.Pi / 2,
		OrbitRadius:   0,
		OrbitVelocity: math.Pi / 8,
	}
}

// Sweeper drives an animated march: an origin orbiting the scene's start
// point and a sweep direction rotating over time. It owns the "what is the
// next ray" state so the marching core can stay per-call; the embedding
// application decides the cadence by calling Advance explicitly.
type Sweeper struct {
	scene  *Scene
	field  *field.Field
	config SweeperConfig

	angle      float64 // Current sweep direction in radians
	orbitPhase float64 // Current position on the orbit in radians
	tick       uint64
}

// Frame is one advanced step of the sweep animation together with the
// march it produced
type Frame struct {
	SceneID string         `json:"sceneId"`
	Tick    uint64         `json:"tick"`
	Origin  core.Vec2      `json:"origin"`
	Angle   float64        `json:"angle"`
	Result  marcher.Result `json:"result"`
}

// NewSweeper creates a sweeper over a scene snapshot
func NewSweeper(s *Scene, cfg SweeperConfig) (*Sweeper, error) {
	f, err := s.Field()
	if err != nil {
		return nil, err
	}
	return &Sweeper{scene: s, field: f, config: cfg}, nil
}

// Origin returns the current march origin
func (sw *Sweeper) Origin() core.Vec2 {
	offset := core.FromAngle(sw.orbitPhase).Multiply(sw.config.OrbitRadius)
	return sw.scene.Start.Add(offset)
}

// Angle returns the current sweep angle in radians
func (sw *Sweeper) Angle() float64 {
	return sw.angle
}

// Advance moves the animation forward by dt seconds and marches the
// resulting ray
func (sw *Sweeper) Advance(dt float64) (Frame, error) {
	sw.angle = math.Mod(sw.angle+sw.config.SweepVelocity*dt, 2*math.Pi)
	sw.orbitPhase = math.Mod(sw.orbitPhase+sw.config.OrbitVelocity*dt, 2*math.Pi)
	sw.tick++

	origin := sw.Origin()
	result, err := marcher.March(origin, core.FromAngle(sw.angle), sw.field, sw.scene.MarchConfig)
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		SceneID: sw.scene.ID,
		Tick:    sw.tick,
		Origin:  origin,
		Angle:   sw.angle,
		Result:  result,
	}, nil
}
