package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TransformComponent_CreateAndInitialize(t *testing.T) {
	tr := NewTransformComponent()

	assert.Equal(t, Vector2{}, tr.Position)
	assert.Equal(t, Vector2{X: 1, Y: 1}, tr.Scale)
}

func Test_TransformComponent_WorldPositionWithParent(t *testing.T) {
	parent := NewTransformComponent()
	parent.SetPosition(Vector2{X: 10, Y: 10})

	child := NewTransformComponent()
	child.SetPosition(Vector2{X: 5, Y: 0})
	require.NoError(t, child.SetParent(parent))

	world := child.GetWorldPosition()
	assert.InDelta(t, 15, world.X, 1e-9)
	assert.InDelta(t, 10, world.Y, 1e-9)
}

func Test_TransformComponent_SetParentRejectsSelf(t *testing.T) {
	tr := NewTransformComponent()
	assert.Error(t, tr.SetParent(tr))
}

func Test_TransformComponent_SetParentRejectsCycle(t *testing.T) {
	a := NewTransformComponent()
	b := NewTransformComponent()
	require.NoError(t, b.SetParent(a))

	assert.Error(t, a.SetParent(b))
}

func Test_TransformComponent_MarkDirtyPropagatesToChildren(t *testing.T) {
	parent := NewTransformComponent()
	child := NewTransformComponent()
	require.NoError(t, child.SetParent(parent))

	_ = child.GetTransformMatrix() // clears dirty
	parent.SetPosition(Vector2{X: 1, Y: 1})

	assert.True(t, child.dirty)
}

func Test_TransformComponent_Validate(t *testing.T) {
	tr := NewTransformComponent()
	assert.NoError(t, tr.Validate())

	tr.Scale = Vector2{X: 0, Y: 1}
	assert.Error(t, tr.Validate())
}
