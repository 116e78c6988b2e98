// Package scene implements the external collaborator the entity core
// expects but never references directly: bulk ownership of entities,
// polling for deletion requests, and ordered dispatch of systems across
// them. Entities are opaque to a Scene beyond the handful of hooks the
// entity façade exposes (RequestDeletion, SetHomeScene, DeletionRequested);
// a Scene never reaches into a Body's components itself.
package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

// Priority orders system execution within a Scene: higher runs first,
// matching the teacher's convention for system scheduling.
type Priority int

// Common priority bands, carried over from the teacher's scheduling scheme.
const (
	PriorityLowest  Priority = 0
	PriorityLow     Priority = 25
	PriorityNormal  Priority = 50
	PriorityHigh    Priority = 75
	PriorityHighest Priority = 100
)

// System is one piece of per-tick logic a Scene drives. Implementations
// typically close over the component types they operate on and walk
// whatever subset of the Scene's entities they care about via s.Entities().
type System[K entity.Tag] interface {
	// Priority reports this system's execution priority; higher runs
	// earlier in a tick.
	Priority() Priority

	// Update runs one tick of this system's logic.
	Update(s *Scene[K], dt float64) error
}

// Scene owns a flat collection of entities of one storage kind and the
// ordered list of systems that process them. K fixes the entity kind the
// same way it fixes Facade's: a Scene is either AVL-backed or hash-backed
// throughout its lifetime.
type Scene[K entity.Tag] struct {
	mu       sync.RWMutex
	entities []entity.Facade[K]
	systems  []System[K]
	ordered  bool

	errorHandler func(System[K], error) error
}

// New returns an empty Scene.
func New[K entity.Tag]() *Scene[K] {
	return &Scene[K]{}
}

// SetErrorHandler installs a callback invoked whenever a system's Update
// returns an error; the callback's own error, if non-nil, aborts the rest
// of that tick. A nil handler (the default) means system errors are
// swallowed and the tick continues.
func (s *Scene[K]) SetErrorHandler(h func(System[K], error) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorHandler = h
}

// CreateEntity allocates a fresh entity of s's kind, records s as its home
// scene, adds it to the scene's bulk collection, and returns it. reg may be
// nil to use registry.Default.
func (s *Scene[K]) CreateEntity(reg *registry.Registry) entity.Facade[K] {
	e := entity.MakeEntity[K](reg)
	s.Adopt(e)
	return e
}

// EntityCount returns the number of entities currently owned by s.
func (s *Scene[K]) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Entities returns a snapshot slice of every entity s currently owns.
// Mutating the returned slice does not affect s.
func (s *Scene[K]) Entities() []entity.Facade[K] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Facade[K], len(s.entities))
	copy(out, s.entities)
	return out
}

// Adopt adds e to s's bulk collection and sets s as e's home scene. Use
// this for an entity created outside the scene (entity.MakeEntity) that the
// scene should now own and reap.
func (s *Scene[K]) Adopt(e entity.Facade[K]) {
	e.SetHomeScene(s)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = append(s.entities, e)
}

// AddSystem registers sys with s. Systems run in descending Priority order;
// ties keep registration order (sort.SliceStable).
func (s *Scene[K]) AddSystem(sys System[K]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems = append(s.systems, sys)
	s.ordered = false
}

// Systems returns the registered systems in execution order.
func (s *Scene[K]) Systems() []System[K] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureOrdered()
	out := make([]System[K], len(s.systems))
	copy(out, s.systems)
	return out
}

func (s *Scene[K]) ensureOrdered() {
	if s.ordered {
		return
	}
	sort.SliceStable(s.systems, func(i, j int) bool {
		return s.systems[i].Priority() > s.systems[j].Priority()
	})
	s.ordered = true
}

// Update runs every registered system once, in priority order, then reaps
// any entity that requested deletion during the tick.
func (s *Scene[K]) Update(dt float64) error {
	s.mu.Lock()
	// Priorities may have changed since the last tick (SetPriority), so
	// re-sort every Update rather than trusting the cached order.
	s.ordered = false
	s.ensureOrdered()
	systems := make([]System[K], len(s.systems))
	copy(systems, s.systems)
	handler := s.errorHandler
	s.mu.Unlock()

	for _, sys := range systems {
		if err := sys.Update(s, dt); err != nil {
			if handler == nil {
				continue
			}
			if hErr := handler(sys, err); hErr != nil {
				return hErr
			}
		}
	}

	s.ReapDeleted()
	return nil
}

// ReapDeleted destroys and drops every entity that has called
// RequestDeletion since the last reap. This is the scene's deletion pass:
// it never runs implicitly mid-tick, only at the end of Update or when
// called directly.
func (s *Scene[K]) ReapDeleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entities[:0]
	reaped := 0
	for _, e := range s.entities {
		if e.DeletionRequested() {
			e.Destroy()
			reaped++
			continue
		}
		kept = append(kept, e)
	}
	s.entities = kept
	return reaped
}

// ErrSystemFailed wraps a system error with its priority band, the shape a
// host's SetErrorHandler callback typically logs or re-raises.
type ErrSystemFailed struct {
	Priority Priority
	Err      error
}

func (e *ErrSystemFailed) Error() string {
	return fmt.Sprintf("scene: system at priority %d failed: %v", e.Priority, e.Err)
}

func (e *ErrSystemFailed) Unwrap() error { return e.Err }
