package components

import (
	"errors"
	"math"
)

// TransformComponent handles entity position, rotation, and scale, plus an
// optional parent/child hierarchy for computing world-space values. Holding
// pointers to sibling transforms is exactly why this component is stored on
// an AVL-backed entity rather than a hash-backed one: the hash container's
// payload arena cannot keep a Go pointer alive.
type TransformComponent struct {
	Position Vector2
	Rotation float64
	Scale    Vector2

	Parent   *TransformComponent
	Children []*TransformComponent

	dirty           bool
	transformMatrix TransformMatrix
}

// NewTransformComponent returns a transform at the origin with unit scale.
func NewTransformComponent() *TransformComponent {
	return &TransformComponent{
		Scale: Vector2{X: 1, Y: 1},
		dirty: true,
	}
}

// SetPosition sets the local position.
func (t *TransformComponent) SetPosition(position Vector2) {
	t.Position = position
	t.markDirty()
}

// SetRotation sets the rotation in radians.
func (t *TransformComponent) SetRotation(rotation float64) {
	t.Rotation = rotation
	t.markDirty()
}

// SetScale sets the local scale.
func (t *TransformComponent) SetScale(scale Vector2) {
	t.Scale = scale
	t.markDirty()
}

// GetWorldPosition returns the position in world space, walking up Parent.
func (t *TransformComponent) GetWorldPosition() Vector2 {
	if t.Parent == nil {
		return t.Position
	}

	parentWorldPos := t.Parent.GetWorldPosition()
	parentRotation := t.Parent.GetWorldRotation()
	parentScale := t.Parent.GetWorldScale()

	cos := math.Cos(parentRotation)
	sin := math.Sin(parentRotation)

	worldX := (t.Position.X*cos-t.Position.Y*sin)*parentScale.X + parentWorldPos.X
	worldY := (t.Position.X*sin+t.Position.Y*cos)*parentScale.Y + parentWorldPos.Y

	return Vector2{X: worldX, Y: worldY}
}

// GetWorldRotation returns the rotation in world space.
func (t *TransformComponent) GetWorldRotation() float64 {
	if t.Parent == nil {
		return t.Rotation
	}
	return t.Parent.GetWorldRotation() + t.Rotation
}

// GetWorldScale returns the scale in world space.
func (t *TransformComponent) GetWorldScale() Vector2 {
	if t.Parent == nil {
		return t.Scale
	}
	parentScale := t.Parent.GetWorldScale()
	return Vector2{X: t.Scale.X * parentScale.X, Y: t.Scale.Y * parentScale.Y}
}

// SetParent reparents t, rejecting a change that would create a cycle.
func (t *TransformComponent) SetParent(parent *TransformComponent) error {
	if parent == t {
		return errors.New("cannot set self as parent")
	}
	if t.isAncestor(parent) || (parent != nil && parent.isAncestor(t)) {
		return errors.New("circular reference detected")
	}

	if t.Parent != nil {
		t.Parent.removeChild(t)
	}
	t.Parent = parent
	if parent != nil {
		parent.addChild(t)
	}
	t.markDirty()
	return nil
}

// GetTransformMatrix returns the cached local transform matrix, recomputing
// it first if a setter has marked it dirty.
func (t *TransformComponent) GetTransformMatrix() TransformMatrix {
	if t.dirty {
		t.calculateTransformMatrix()
		t.dirty = false
	}
	return t.transformMatrix
}

// Validate reports whether t's fields are in a usable state.
func (t *TransformComponent) Validate() error {
	if t.Scale.X == 0 || t.Scale.Y == 0 {
		return errors.New("scale cannot be zero")
	}
	return nil
}

func (t *TransformComponent) isAncestor(ancestor *TransformComponent) bool {
	for current := t.Parent; current != nil; current = current.Parent {
		if current == ancestor {
			return true
		}
	}
	return false
}

func (t *TransformComponent) addChild(child *TransformComponent) {
	for _, existing := range t.Children {
		if existing == child {
			return
		}
	}
	t.Children = append(t.Children, child)
}

func (t *TransformComponent) removeChild(child *TransformComponent) {
	for i, existing := range t.Children {
		if existing == child {
			t.Children = append(t.Children[:i], t.Children[i+1:]...)
			return
		}
	}
}

func (t *TransformComponent) markDirty() {
	t.markDirtyRecursive(make(map[*TransformComponent]bool))
}

func (t *TransformComponent) markDirtyRecursive(visited map[*TransformComponent]bool) {
	if visited[t] {
		return
	}
	visited[t] = true
	t.dirty = true
	for _, child := range t.Children {
		if child != nil {
			child.markDirtyRecursive(visited)
		}
	}
}

func (t *TransformComponent) calculateTransformMatrix() {
	cos := math.Cos(t.Rotation)
	sin := math.Sin(t.Rotation)

	t.transformMatrix = TransformMatrix{
		t.Scale.X * cos, t.Scale.X * sin, 0,
		-t.Scale.Y * sin, t.Scale.Y * cos, 0,
		t.Position.X, t.Position.Y, 1,
	}
}
