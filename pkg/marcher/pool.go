package marcher

import (
	"math"
	"runtime"
	"sync"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/field"
)

// RayTask represents a single march request for the worker pool
type RayTask struct {
	TaskID    int // For deterministic ordering of results
	Origin    core.Vec2
	Direction core.Vec2
}

// RayResult contains the result of a marched task
type RayResult struct {
	TaskID int
	Result Result
	Error  error
}

// Pool runs independent marches against a shared read-only field in
// parallel. Marches share no mutable state, so the only requirement is that
// the field is not rebuilt while the pool is running.
type Pool struct {
	taskQueue   chan RayTask
	resultQueue chan RayResult
	numWorkers  int
	field       *field.Field
	config      Config
	wg          sync.WaitGroup
}

// NewPool creates a march worker pool with the specified number of workers.
// Zero or negative numWorkers selects one worker per CPU.
func NewPool(f *field.Field, cfg Config, numWorkers, queueSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = numWorkers
	}

	return &Pool{
		taskQueue:   make(chan RayTask, queueSize),
		resultQueue: make(chan RayResult, queueSize),
		numWorkers:  numWorkers,
		field:       f,
		config:      cfg,
	}
}

// Start begins all workers
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

// Stop signals that no more tasks will be submitted and waits for
// in-flight marches to drain
func (p *Pool) Stop() {
	close(p.taskQueue)
	p.wg.Wait()
	close(p.resultQueue)
}

// Submit submits a march task to the pool
func (p *Pool) Submit(task RayTask) {
	p.taskQueue <- task
}

// GetResult retrieves a completed march result
func (p *Pool) GetResult() (RayResult, bool) {
	result, ok := <-p.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

func (p *Pool) run() {
	defer p.wg.Done()

	for task := range p.taskQueue {
		result, err := March(task.Origin, task.Direction, p.field, p.config)
		p.resultQueue <- RayResult{
			TaskID: task.TaskID,
			Result: result,
			Error:  err,
		}
	}
}

// MarchFan casts count rays from a common origin across the angle span
// [startAngle, endAngle) and returns their results ordered by angle.
// Directions are derived from evenly spaced angles, so callers never need to
// normalize. Rays are marched concurrently on the pool's workers.
func MarchFan(f *field.Field, cfg Config, origin core.Vec2, startAngle, endAngle float64, count, numWorkers int) ([]Result, error) {
	if count <= 0 {
		return nil, nil
	}

	pool := NewPool(f, cfg, numWorkers, count)
	pool.Start()

	go func() {
		step := (endAngle - startAngle) / float64(count)
		for i := 0; i < count; i++ {
			pool.Submit(RayTask{
				TaskID:    i,
				Origin:    origin,
				Direction: core.FromAngle(startAngle + float64(i)*step),
			})
		}
		pool.Stop()
	}()

	results := make([]Result, count)
	received := 0
	var firstErr error
	for received < count {
		rayResult, ok := pool.GetResult()
		if !ok {
			break
		}
		if rayResult.Error != nil && firstErr == nil {
			firstErr = rayResult.Error
		}
		results[rayResult.TaskID] = rayResult.Result
		received++
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// FanAngles returns the count angles MarchFan casts across the span,
// matching result ordering
func FanAngles(startAngle, endAngle float64, count int) []float64 {
	angles := make([]float64, count)
	if count == 0 {
		return angles
	}
	step := (endAngle - startAngle) / float64(count)
	for i := range angles {
		angles[i] = math.Mod(startAngle+float64(i)*step, 2*math.Pi)
	}
	return angles
}
