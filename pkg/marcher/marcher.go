package marcher

import (
	"fmt"
	"math"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/field"
)

// unitTolerance is the allowed deviation of a direction vector's length from 1
const unitTolerance = 1e-9

// Sample is one point on a marched ray together with the clearance measured
// there. The clearance is also the exact length of the step taken to reach
// the next sample.
type Sample struct {
	Point     core.Vec2 `json:"point"`
	Clearance float64   `json:"clearance"`
}

// Result is the ordered chain of samples produced by a single march.
// Truncated is set when the march stopped because it hit the step bound
// rather than because clearance dropped below epsilon.
type Result struct {
	Samples   []Sample `json:"samples"`
	Truncated bool     `json:"truncated"`
}

// End returns the last sample point, or the zero value if the march was
// blocked at its origin
func (r Result) End() core.Vec2 {
	if len(r.Samples) == 0 {
		return core.Vec2{}
	}
	return r.Samples[len(r.Samples)-1].Point
}

// Config contains marching configuration
type Config struct {
	Epsilon  float64 // Clearance below which the march stops
	MaxSteps int     // Safety bound on iterations
}

// DefaultConfig returns the default marching configuration
func DefaultConfig() Config {
	return Config{
		Epsilon:  0.01,
		MaxSteps: 256,
	}
}

// MergeConfig merges an override config into a base config,
// replacing only the fields the override sets
func MergeConfig(base, override Config) Config {
	merged := base
	if override.Epsilon > 0 {
		merged.Epsilon = override.Epsilon
	}
	if override.MaxSteps > 0 {
		merged.MaxSteps = override.MaxSteps
	}
	return merged
}

// March sphere-traces from origin along a fixed unit direction, repeatedly
// stepping by the field's measured clearance until the clearance falls below
// cfg.Epsilon or cfg.MaxSteps samples have been emitted. Each step takes the
// largest provably safe length: no obstacle can lie strictly between a sample
// and the next, because the step equals the nearest obstacle distance.
//
// The sample whose clearance is below epsilon is never appended, so a march
// blocked at its origin yields an empty result. The direction must have unit
// length and epsilon must be positive; both are rejected rather than
// normalized.
func March(origin, direction core.Vec2, f *field.Field, cfg Config) (Result, error) {
	if math.Abs(direction.Length()-1) > unitTolerance {
		return Result{}, fmt.Errorf("direction %v is not unit length", direction)
	}
	if cfg.Epsilon <= 0 {
		return Result{}, fmt.Errorf("epsilon must be positive, got %g", cfg.Epsilon)
	}
	if cfg.MaxSteps <= 0 {
		return Result{}, fmt.Errorf("maxSteps must be positive, got %d", cfg.MaxSteps)
	}

	result := Result{}
	point := origin

	for len(result.Samples) < cfg.MaxSteps {
		clearance := f.NearestDistance(point)
		if clearance < cfg.Epsilon {
			return result, nil
		}

		result.Samples = append(result.Samples, Sample{Point: point, Clearance: clearance})
		point = point.Add(direction.Multiply(clearance))
	}

	// Step bound hit while clearance was still above epsilon
	result.Truncated = true
	return result, nil
}
