package systems

import (
	"math"
	"time"

	"github.com/ariaforge/ecsforge/internal/core/components"
	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
	"github.com/ariaforge/ecsforge/internal/core/scene"
)

// PhysicsSystem applies gravity and drag to every physics body, then resolves
// overlaps against a set of static colliders.
type PhysicsSystem struct {
	*BaseSystem

	gravity         components.Vector2
	dragCoefficient float64
	staticColliders []Collider
	collisions      []Collision

	now func() time.Time
}

// Collider is a static, non-moving collision volume (level geometry).
type Collider struct {
	Bounds    components.AABB
	IsTrigger bool
	Material  PhysicsMaterial
}

// PhysicsMaterial describes how a collider responds to contact.
type PhysicsMaterial struct {
	Friction    float64
	Restitution float64
	Density     float64
}

// Collision records an overlap resolved during the last Update. EntityA
// holds a weak reference rather than the teacher's integer entity ID, since
// this architecture has no entity table to index.
type Collision struct {
	EntityA   entity.Ref
	Collider  Collider
	Normal    components.Vector2
	Depth     float64
	Timestamp time.Time
}

// NewPhysicsSystem returns a physics system with downward gravity and mild
// air drag, matching the teacher's defaults.
func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		BaseSystem:      newBaseSystem("physics", PhysicsPriority),
		gravity:         components.Vector2{X: 0, Y: 9.8 * 100},
		dragCoefficient: 0.98,
		now:             time.Now,
	}
}

// SetGravity sets the global gravity vector applied to every non-static body
// with PhysicsComponent.Gravity enabled.
func (ps *PhysicsSystem) SetGravity(gravity components.Vector2) {
	ps.gravity = gravity
}

// Gravity returns the current gravity vector.
func (ps *PhysicsSystem) Gravity() components.Vector2 {
	return ps.gravity
}

// AddStaticCollider registers a static collision volume.
func (ps *PhysicsSystem) AddStaticCollider(bounds components.AABB) {
	ps.staticColliders = append(ps.staticColliders, Collider{
		Bounds: bounds,
		Material: PhysicsMaterial{
			Friction:    0.5,
			Restitution: 0.3,
			Density:     1.0,
		},
	})
}

// StaticColliders returns the registered static colliders.
func (ps *PhysicsSystem) StaticColliders() []Collider {
	return ps.staticColliders
}

// Collisions returns the collisions resolved during the last Update.
func (ps *PhysicsSystem) Collisions() []Collision {
	return ps.collisions
}

// Update applies gravity and drag to every physics body, then pushes any
// body overlapping a static collider out along the axis of least
// penetration.
func (ps *PhysicsSystem) Update(s *scene.Scene[entity.Avl], dt float64) error {
	if !ps.Enabled() {
		return nil
	}

	entities := s.Entities()
	return ps.recordRun(len(entities), func() error {
		ps.collisions = ps.collisions[:0]

		for _, e := range entities {
			transform, physics := entity.Ptr2[entity.Avl, components.TransformComponent, components.PhysicsComponent](e)
			if transform == nil || physics == nil {
				continue
			}

			physics.ApplyGravity(ps.gravity)
			ps.applyDrag(physics, dt)

			for _, collider := range ps.staticColliders {
				if collider.IsTrigger {
					continue
				}
				if normal, depth, ok := ps.resolvePointPenetration(transform.Position, collider.Bounds); ok {
					transform.SetPosition(components.Vector2{
						X: transform.Position.X + normal.X*depth,
						Y: transform.Position.Y + normal.Y*depth,
					})
					ps.collisions = append(ps.collisions, Collision{
						EntityA:   entity.NewRef(e),
						Collider:  collider,
						Normal:    normal,
						Depth:     depth,
						Timestamp: ps.now(),
					})
				}
			}
		}
		return nil
	})
}

// checkAABBCollision reports whether two axis-aligned boxes overlap.
func (ps *PhysicsSystem) checkAABBCollision(a, b components.AABB) bool {
	return !(a.Max.X < b.Min.X ||
		b.Max.X < a.Min.X ||
		a.Max.Y < b.Min.Y ||
		b.Max.Y < a.Min.Y)
}

// resolvePointPenetration treats point as a zero-size body and reports the
// minimum-translation vector to push it outside bounds, if it is inside.
func (ps *PhysicsSystem) resolvePointPenetration(point components.Vector2, bounds components.AABB) (normal components.Vector2, depth float64, ok bool) {
	if point.X < bounds.Min.X || point.X > bounds.Max.X || point.Y < bounds.Min.Y || point.Y > bounds.Max.Y {
		return components.Vector2{}, 0, false
	}

	distLeft := point.X - bounds.Min.X
	distRight := bounds.Max.X - point.X
	distTop := point.Y - bounds.Min.Y
	distBottom := bounds.Max.Y - point.Y

	min := distLeft
	normal = components.Vector2{X: -1, Y: 0}
	if distRight < min {
		min = distRight
		normal = components.Vector2{X: 1, Y: 0}
	}
	if distTop < min {
		min = distTop
		normal = components.Vector2{X: 0, Y: -1}
	}
	if distBottom < min {
		min = distBottom
		normal = components.Vector2{X: 0, Y: 1}
	}
	return normal, min, true
}

// applyDrag applies uniform air resistance to a body's velocity.
func (ps *PhysicsSystem) applyDrag(physics *components.PhysicsComponent, dt float64) {
	if physics.IsStatic {
		return
	}
	factor := math.Pow(ps.dragCoefficient, dt)
	physics.Velocity.X *= factor
	physics.Velocity.Y *= factor
}
