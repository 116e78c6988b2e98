package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PhysicsComponent_CreateAndInitialize(t *testing.T) {
	// Arrange & Act
	physics := NewPhysicsComponent()

	// Assert
	assert.Equal(t, Vector2{}, physics.Velocity)
	assert.Equal(t, Vector2{}, physics.Acceleration)
	assert.Equal(t, 1.0, physics.Mass)
	assert.Equal(t, 0.0, physics.Friction)
	assert.False(t, physics.Gravity)
	assert.False(t, physics.IsStatic)
	assert.Equal(t, 10000.0, physics.MaxSpeed)
}

func Test_PhysicsComponent_ApplyForce(t *testing.T) {
	// Arrange
	physics := NewPhysicsComponent()
	physics.Mass = 2.0
	force := Vector2{X: 10, Y: 0}

	// Act
	physics.ApplyForce(force)

	// Assert
	assert.Equal(t, Vector2{X: 5, Y: 0}, physics.Acceleration)
}

func Test_PhysicsComponent_ApplyForce_StaticBodyIgnoresForce(t *testing.T) {
	// Arrange
	physics := NewPhysicsComponent()
	physics.IsStatic = true

	// Act
	physics.ApplyForce(Vector2{X: 10, Y: 10})

	// Assert
	assert.Equal(t, Vector2{}, physics.Acceleration)
}

func Test_PhysicsComponent_UpdateVelocity(t *testing.T) {
	// Arrange
	physics := NewPhysicsComponent()
	physics.Acceleration = Vector2{X: 5, Y: 0}

	// Act
	physics.UpdateVelocity(0.016)

	// Assert
	assert.InDelta(t, 0.08, physics.Velocity.X, 1e-9)
}

func Test_PhysicsComponent_ApplySpeedLimit(t *testing.T) {
	// Arrange
	physics := NewPhysicsComponent()
	physics.MaxSpeed = 10
	physics.Velocity = Vector2{X: 30, Y: 40} // magnitude 50

	// Act
	physics.ApplySpeedLimit()

	// Assert
	assert.InDelta(t, 6.0, physics.Velocity.X, 1e-9)
	assert.InDelta(t, 8.0, physics.Velocity.Y, 1e-9)
}

func Test_PhysicsComponent_Validate(t *testing.T) {
	physics := NewPhysicsComponent()
	assert.NoError(t, physics.Validate())

	physics.Mass = -1
	assert.Error(t, physics.Validate())
}
