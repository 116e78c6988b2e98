package systems

import (
	"github.com/ariaforge/ecsforge/internal/core/components"
	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
	"github.com/ariaforge/ecsforge/internal/core/scene"
)

// MovementSystem integrates PhysicsComponent velocity into TransformComponent
// position and optionally clamps the result to a boundary.
type MovementSystem struct {
	*BaseSystem

	boundary *components.AABB
}

// NewMovementSystem returns a movement system at the standard movement
// priority.
func NewMovementSystem() *MovementSystem {
	return &MovementSystem{
		BaseSystem: newBaseSystem("movement", MovementPriority),
	}
}

// SetBoundary clamps every moved entity's position to bounds. Pass nil to
// disable clamping.
func (ms *MovementSystem) SetBoundary(bounds *components.AABB) {
	ms.boundary = bounds
}

// Boundary returns the current movement boundary, or nil if unset.
func (ms *MovementSystem) Boundary() *components.AABB {
	return ms.boundary
}

// Update integrates velocity into position for every entity carrying both a
// TransformComponent and a PhysicsComponent.
func (ms *MovementSystem) Update(s *scene.Scene[entity.Avl], dt float64) error {
	if !ms.Enabled() {
		return nil
	}

	entities := s.Entities()
	return ms.recordRun(len(entities), func() error {
		for _, e := range entities {
			transform, physics := entity.Ptr2[entity.Avl, components.TransformComponent, components.PhysicsComponent](e)
			if transform == nil || physics == nil {
				continue
			}

			physics.UpdateVelocity(dt)
			physics.ApplyFriction(dt)
			physics.ApplySpeedLimit()

			next := components.Vector2{
				X: transform.Position.X + physics.Velocity.X*dt,
				Y: transform.Position.Y + physics.Velocity.Y*dt,
			}
			if ms.boundary != nil {
				next = clampToBoundary(next, *ms.boundary)
			}
			transform.SetPosition(next)
		}
		return nil
	})
}

func clampToBoundary(p components.Vector2, bounds components.AABB) components.Vector2 {
	if p.X < bounds.Min.X {
		p.X = bounds.Min.X
	} else if p.X > bounds.Max.X {
		p.X = bounds.Max.X
	}
	if p.Y < bounds.Min.Y {
		p.Y = bounds.Min.Y
	} else if p.Y > bounds.Max.Y {
		p.Y = bounds.Max.Y
	}
	return p
}
