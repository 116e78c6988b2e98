// Package systems provides the core gameplay systems dispatched by a Scene:
// movement integration, physics, audio, and rendering. All systems operate
// on entity.Avl-backed entities and implement scene.System[entity.Avl].
package systems

import (
	"sync"
	"time"

	"github.com/ariaforge/ecsforge/internal/core/scene"
)

// Metrics reports a system's accumulated execution statistics. It mirrors
// the teacher's per-system metrics struct in shape, trimmed to the fields a
// host actually reads after a tick.
type Metrics struct {
	ExecutionCount   int64
	TotalTime        time.Duration
	AverageTime      time.Duration
	MaxTime          time.Duration
	MinTime          time.Duration
	ErrorCount       int64
	LastExecution    time.Time
	EntitiesObserved int
}

// BaseSystem provides metrics collection, enable/disable, and error
// reporting shared by every concrete system. Embed it and implement
// Priority/Update to satisfy scene.System[entity.Avl].
type BaseSystem struct {
	name     string
	priority scene.Priority
	enabled  bool

	mu      sync.RWMutex
	metrics Metrics

	errorHandler func(error)
	lastError    error
}

func newBaseSystem(name string, priority scene.Priority) *BaseSystem {
	return &BaseSystem{
		name:     name,
		priority: priority,
		enabled:  true,
	}
}

// Name identifies the system for logging and diagnostics.
func (bs *BaseSystem) Name() string { return bs.name }

// Priority returns the system's dispatch priority.
func (bs *BaseSystem) Priority() scene.Priority {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.priority
}

// SetPriority changes the dispatch priority. The owning Scene re-sorts on
// its next Update.
func (bs *BaseSystem) SetPriority(p scene.Priority) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.priority = p
}

// Enabled reports whether the system currently participates in dispatch.
func (bs *BaseSystem) Enabled() bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.enabled
}

// SetEnabled toggles dispatch participation.
func (bs *BaseSystem) SetEnabled(enabled bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.enabled = enabled
}

// SetErrorHandler installs a callback invoked whenever recordRun receives a
// non-nil error, in addition to it being counted and returned to the Scene.
func (bs *BaseSystem) SetErrorHandler(h func(error)) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.errorHandler = h
}

// LastError returns the most recent error observed by recordRun, if any.
func (bs *BaseSystem) LastError() error {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError
}

// Metrics returns a copy of the system's accumulated statistics.
func (bs *BaseSystem) Metrics() Metrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.metrics
}

// ResetMetrics clears accumulated statistics.
func (bs *BaseSystem) ResetMetrics() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.metrics = Metrics{}
}

// recordRun wraps a single Update call with timing and error accounting.
// Concrete systems call this from their Update method around the actual
// per-entity work.
func (bs *BaseSystem) recordRun(entitiesObserved int, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	bs.mu.Lock()
	bs.metrics.ExecutionCount++
	bs.metrics.TotalTime += elapsed
	bs.metrics.AverageTime = bs.metrics.TotalTime / time.Duration(bs.metrics.ExecutionCount)
	bs.metrics.LastExecution = start
	bs.metrics.EntitiesObserved = entitiesObserved
	if elapsed > bs.metrics.MaxTime {
		bs.metrics.MaxTime = elapsed
	}
	if bs.metrics.MinTime == 0 || elapsed < bs.metrics.MinTime {
		bs.metrics.MinTime = elapsed
	}
	if err != nil {
		bs.metrics.ErrorCount++
		bs.lastError = err
	}
	handler := bs.errorHandler
	bs.mu.Unlock()

	if err != nil && handler != nil {
		handler(err)
	}
	return err
}

// System priority constants, ordered the way the teacher orders its fixed
// update pipeline: movement and physics settle positions before audio and
// rendering react to them.
const (
	MovementPriority  scene.Priority = 90
	PhysicsPriority   scene.Priority = 80
	AudioPriority     scene.Priority = 30
	RenderingPriority scene.Priority = 20
)
