package components

import (
	"errors"
	"math"
)

// PhysicsComponent holds physics simulation parameters. It holds no Go
// pointers, strings, or slices, so unlike most of the components in this
// package it is equally at home on a hash-backed entity.
type PhysicsComponent struct {
	Velocity     Vector2
	Acceleration Vector2
	Mass         float64
	Friction     float64
	Gravity      bool
	IsStatic     bool
	MaxSpeed     float64
}

// NewPhysicsComponent returns a physics component with unit mass, no
// friction, and gravity disabled.
func NewPhysicsComponent() *PhysicsComponent {
	return &PhysicsComponent{
		Mass:     1.0,
		MaxSpeed: 10000.0,
	}
}

// ApplyForce sets acceleration from force (F = ma, so a = F/m). A no-op on a
// static or massless body.
func (p *PhysicsComponent) ApplyForce(force Vector2) {
	if p.IsStatic || p.Mass <= 0 {
		return
	}
	p.Acceleration.X = force.X / p.Mass
	p.Acceleration.Y = force.Y / p.Mass
}

// UpdateVelocity integrates acceleration into velocity over dt.
func (p *PhysicsComponent) UpdateVelocity(dt float64) {
	if p.IsStatic {
		return
	}
	p.Velocity.X += p.Acceleration.X * dt
	p.Velocity.Y += p.Acceleration.Y * dt
}

// ApplyFriction damps velocity by Friction over dt.
func (p *PhysicsComponent) ApplyFriction(dt float64) {
	if p.IsStatic || p.Friction <= 0 {
		return
	}
	factor := 1.0 - p.Friction*dt
	if factor < 0 {
		factor = 0
	}
	p.Velocity.X *= factor
	p.Velocity.Y *= factor
}

// ApplySpeedLimit clamps velocity magnitude to MaxSpeed.
func (p *PhysicsComponent) ApplySpeedLimit() {
	if p.IsStatic || math.IsInf(p.MaxSpeed, 1) {
		return
	}
	speed := math.Sqrt(p.Velocity.X*p.Velocity.X + p.Velocity.Y*p.Velocity.Y)
	if speed > p.MaxSpeed {
		scale := p.MaxSpeed / speed
		p.Velocity.X *= scale
		p.Velocity.Y *= scale
	}
}

// ApplyGravity adds gravityForce to acceleration, if Gravity is enabled.
func (p *PhysicsComponent) ApplyGravity(gravityForce Vector2) {
	if p.IsStatic || !p.Gravity {
		return
	}
	p.Acceleration.X += gravityForce.X
	p.Acceleration.Y += gravityForce.Y
}

// Validate reports whether p's fields are in a usable state.
func (p *PhysicsComponent) Validate() error {
	if p.Mass < 0 {
		return errors.New("mass cannot be negative")
	}
	if p.Friction < 0 {
		return errors.New("friction cannot be negative")
	}
	if p.MaxSpeed < 0 {
		return errors.New("max speed cannot be negative")
	}
	return nil
}
