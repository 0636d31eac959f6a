package marcher

import (
	"math"
	"testing"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/field"
)

func TestMarchFan_MatchesSerialMarches(t *testing.T) {
	circles := []field.Circle{
		field.NewCircle(core.NewVec2(70, 50), 10),
		field.NewCircle(core.NewVec2(30, 70), 8),
	}
	f := mustField(t, circles, core.NewRect(core.NewVec2(0, 0), core.NewVec2(100, 100)))
	cfg := Config{Epsilon: 0.01, MaxSteps: 100}
	origin := core.NewVec2(50, 50)
	const rays = 16

	results, err := MarchFan(f, cfg, origin, 0, 2*math.Pi, rays, 4)
	if err != nil {
		t.Fatalf("MarchFan() failed: %v", err)
	}
	if len(results) != rays {
		t.Fatalf("Expected %d results, got %d", rays, len(results))
	}

	// Marches share no state, so the pool must agree with serial marching
	step := 2 * math.Pi / rays
	for i, got := range results {
		want, err := March(origin, core.FromAngle(float64(i)*step), f, cfg)
		if err != nil {
			t.Fatalf("Serial March() failed for ray %d: %v", i, err)
		}
		if len(got.Samples) != len(want.Samples) {
			t.Errorf("Ray %d: expected %d samples, got %d", i, len(want.Samples), len(got.Samples))
			continue
		}
		for j := range got.Samples {
			if got.Samples[j].Point.Subtract(want.Samples[j].Point).Length() > tolerance {
				t.Errorf("Ray %d sample %d: expected %v, got %v",
					i, j, want.Samples[j].Point, got.Samples[j].Point)
			}
		}
	}
}

func TestMarchFan_ZeroRays(t *testing.T) {
	f := mustField(t, nil, core.NewRect(core.NewVec2(0, 0), core.NewVec2(100, 100)))

	results, err := MarchFan(f, DefaultConfig(), core.NewVec2(50, 50), 0, 2*math.Pi, 0, 2)
	if err != nil {
		t.Fatalf("MarchFan() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestPool_SubmitAndDrain(t *testing.T) {
	f := mustField(t, nil, core.NewRect(core.NewVec2(0, 0), core.NewVec2(100, 100)))
	pool := NewPool(f, DefaultConfig(), 3, 8)
	pool.Start()

	if pool.NumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.NumWorkers())
	}

	const tasks = 8
	go func() {
		for i := 0; i < tasks; i++ {
			pool.Submit(RayTask{
				TaskID:    i,
				Origin:    core.NewVec2(50, 50),
				Direction: core.FromAngle(float64(i)),
			})
		}
		pool.Stop()
	}()

	seen := make(map[int]bool)
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			t.Errorf("Task %d failed: %v", result.TaskID, result.Error)
		}
		if seen[result.TaskID] {
			t.Errorf("Task %d delivered twice", result.TaskID)
		}
		seen[result.TaskID] = true
	}

	if len(seen) != tasks {
		t.Errorf("Expected %d results, got %d", tasks, len(seen))
	}
}

func TestFanAngles(t *testing.T) {
	angles := FanAngles(0, math.Pi, 4)
	expected := []float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4}

	if len(angles) != len(expected) {
		t.Fatalf("Expected %d angles, got %d", len(expected), len(angles))
	}
	for i := range angles {
		if math.Abs(angles[i]-expected[i]) > tolerance {
			t.Errorf("Angle %d: expected %v, got %v", i, expected[i], angles[i])
		}
	}
}
